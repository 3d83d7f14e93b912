package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ecospark/ewaste-server/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS centers (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	address   TEXT NOT NULL,
	latitude  REAL NOT NULL,
	longitude REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS devices (
	id          TEXT PRIMARY KEY,
	model_name  TEXT NOT NULL,
	metal_value REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS user_credits (
	user_id TEXT PRIMARY KEY,
	points  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS pickups (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL,
	phone       TEXT NOT NULL,
	address     TEXT NOT NULL,
	waste_type  TEXT NOT NULL,
	drive_type  TEXT NOT NULL,
	pickup_date TEXT NOT NULL,
	pickup_time TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS challenges (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	co2_saved     REAL NOT NULL,
	is_active     INTEGER NOT NULL DEFAULT 1,
	display_order INTEGER NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS challenge_completions (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	challenge_id TEXT NOT NULL REFERENCES challenges(id),
	completed_at DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE(user_id, challenge_id)
);

CREATE INDEX IF NOT EXISTS idx_devices_model_name ON devices(model_name);
CREATE INDEX IF NOT EXISTS idx_pickups_created_at ON pickups(created_at);
CREATE INDEX IF NOT EXISTS idx_challenges_active ON challenges(is_active);
CREATE INDEX IF NOT EXISTS idx_completions_user_id ON challenge_completions(user_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ListCenters(ctx context.Context) ([]model.Center, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, address, latitude, longitude FROM centers ORDER BY name`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list centers")
	}
	defer rows.Close()

	var centers []model.Center
	for rows.Next() {
		var c model.Center
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Latitude, &c.Longitude); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan center")
		}
		centers = append(centers, c)
	}
	return centers, eris.Wrap(rows.Err(), "sqlite: list centers iterate")
}

func (s *SQLiteStore) CreateCenter(ctx context.Context, center model.Center) (*model.Center, error) {
	center.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO centers (id, name, address, latitude, longitude) VALUES (?, ?, ?, ?, ?)`,
		center.ID, center.Name, center.Address, center.Latitude, center.Longitude,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert center")
	}
	return &center, nil
}

func (s *SQLiteStore) GetDeviceByModel(ctx context.Context, modelName string) (*model.Device, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, model_name, metal_value FROM devices WHERE lower(model_name) = lower(?) LIMIT 1`,
		modelName,
	)

	var d model.Device
	err := row.Scan(&d.ID, &d.ModelName, &d.MetalValue)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get device")
	}
	return &d, nil
}

func (s *SQLiteStore) CreateDevice(ctx context.Context, device model.Device) (*model.Device, error) {
	device.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO devices (id, model_name, metal_value) VALUES (?, ?, ?)`,
		device.ID, device.ModelName, device.MetalValue,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert device")
	}
	return &device, nil
}

func (s *SQLiteStore) AddPoints(ctx context.Context, userID string, points int) (int, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_credits (user_id, points) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET points = points + excluded.points`,
		userID, points,
	)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: add points for %s", userID)
	}
	return s.GetPoints(ctx, userID)
}

func (s *SQLiteStore) GetPoints(ctx context.Context, userID string) (int, error) {
	var points int
	err := s.db.QueryRowContext(ctx,
		`SELECT points FROM user_credits WHERE user_id = ?`, userID,
	).Scan(&points)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: get points for %s", userID)
	}
	return points, nil
}

func (s *SQLiteStore) CreatePickup(ctx context.Context, pickup model.Pickup) (*model.Pickup, error) {
	pickup.ID = uuid.New().String()
	pickup.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pickups (id, name, email, phone, address, waste_type, drive_type, pickup_date, pickup_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pickup.ID, pickup.Name, pickup.Email, pickup.Phone, pickup.Address,
		pickup.WasteType, string(pickup.DriveType), pickup.PickupDate, pickup.PickupTime, pickup.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert pickup")
	}
	return &pickup, nil
}

func (s *SQLiteStore) ListPickups(ctx context.Context, limit int) ([]model.Pickup, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, phone, address, waste_type, drive_type, pickup_date, pickup_time, created_at
		 FROM pickups ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list pickups")
	}
	defer rows.Close()

	var pickups []model.Pickup
	for rows.Next() {
		var p model.Pickup
		var driveType string
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address,
			&p.WasteType, &driveType, &p.PickupDate, &p.PickupTime, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan pickup")
		}
		p.DriveType = model.DriveType(driveType)
		pickups = append(pickups, p)
	}
	return pickups, eris.Wrap(rows.Err(), "sqlite: list pickups iterate")
}

func (s *SQLiteStore) ListActiveChallenges(ctx context.Context) ([]model.Challenge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, co2_saved, is_active, display_order, created_at FROM challenges
		 WHERE is_active = 1 ORDER BY display_order, created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list challenges")
	}
	defer rows.Close()

	var challenges []model.Challenge
	for rows.Next() {
		var c model.Challenge
		if err := rows.Scan(&c.ID, &c.Title, &c.CO2Saved, &c.IsActive, &c.Order, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan challenge")
		}
		challenges = append(challenges, c)
	}
	return challenges, eris.Wrap(rows.Err(), "sqlite: list challenges iterate")
}

func (s *SQLiteStore) CreateChallenge(ctx context.Context, challenge model.Challenge) (*model.Challenge, error) {
	challenge.ID = uuid.New().String()
	challenge.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO challenges (id, title, co2_saved, is_active, display_order, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		challenge.ID, challenge.Title, challenge.CO2Saved, challenge.IsActive, challenge.Order, challenge.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert challenge")
	}
	return &challenge, nil
}

// CompleteChallenge records a completion once per user and challenge.
// Unknown challenge IDs and repeat completions both report created=false.
func (s *SQLiteStore) CompleteChallenge(ctx context.Context, userID, challengeID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM challenges WHERE id = ?`, challengeID,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: check challenge %s", challengeID)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO challenge_completions (id, user_id, challenge_id, completed_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), userID, challengeID, time.Now().UTC(),
	)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: complete challenge %s", challengeID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "sqlite: rows affected")
	}
	return n > 0, nil
}

func (s *SQLiteStore) ListCompletedChallengeIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT challenge_id FROM challenge_completions WHERE user_id = ? ORDER BY completed_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list completions for %s", userID)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan completion")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "sqlite: list completions iterate")
}
