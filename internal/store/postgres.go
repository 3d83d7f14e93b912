package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/ecospark/ewaste-server/internal/model"
)

// pgxPool is the slice of pgxpool.Pool behavior the store uses. Tests
// substitute a pgxmock pool through it.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool pgxPool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS centers (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	address   TEXT NOT NULL,
	latitude  DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS devices (
	id          TEXT PRIMARY KEY,
	model_name  TEXT NOT NULL,
	metal_value DOUBLE PRECISION NOT NULL
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
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS challenges (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	co2_saved     DOUBLE PRECISION NOT NULL,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	display_order INTEGER NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS challenge_completions (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	challenge_id TEXT NOT NULL REFERENCES challenges(id),
	completed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE(user_id, challenge_id)
);

CREATE INDEX IF NOT EXISTS idx_devices_model_name ON devices(lower(model_name));
CREATE INDEX IF NOT EXISTS idx_pickups_created_at ON pickups(created_at);
CREATE INDEX IF NOT EXISTS idx_challenges_active ON challenges(is_active);
CREATE INDEX IF NOT EXISTS idx_completions_user_id ON challenge_completions(user_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ListCenters(ctx context.Context) ([]model.Center, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, address, latitude, longitude FROM centers ORDER BY name`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list centers")
	}
	defer rows.Close()

	var centers []model.Center
	for rows.Next() {
		var c model.Center
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Latitude, &c.Longitude); err != nil {
			return nil, eris.Wrap(err, "postgres: scan center")
		}
		centers = append(centers, c)
	}
	return centers, eris.Wrap(rows.Err(), "postgres: list centers iterate")
}

func (s *PostgresStore) CreateCenter(ctx context.Context, center model.Center) (*model.Center, error) {
	center.ID = uuid.New().String()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO centers (id, name, address, latitude, longitude) VALUES ($1, $2, $3, $4, $5)`,
		center.ID, center.Name, center.Address, center.Latitude, center.Longitude,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert center")
	}
	return &center, nil
}

func (s *PostgresStore) GetDeviceByModel(ctx context.Context, modelName string) (*model.Device, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, model_name, metal_value FROM devices WHERE lower(model_name) = lower($1) LIMIT 1`,
		modelName,
	)

	var d model.Device
	err := row.Scan(&d.ID, &d.ModelName, &d.MetalValue)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get device")
	}
	return &d, nil
}

func (s *PostgresStore) CreateDevice(ctx context.Context, device model.Device) (*model.Device, error) {
	device.ID = uuid.New().String()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO devices (id, model_name, metal_value) VALUES ($1, $2, $3)`,
		device.ID, device.ModelName, device.MetalValue,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert device")
	}
	return &device, nil
}

func (s *PostgresStore) AddPoints(ctx context.Context, userID string, points int) (int, error) {
	var balance int
	err := s.pool.QueryRow(ctx,
		`INSERT INTO user_credits (user_id, points) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET points = user_credits.points + EXCLUDED.points
		 RETURNING points`,
		userID, points,
	).Scan(&balance)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: add points for %s", userID)
	}
	return balance, nil
}

func (s *PostgresStore) GetPoints(ctx context.Context, userID string) (int, error) {
	var points int
	err := s.pool.QueryRow(ctx,
		`SELECT points FROM user_credits WHERE user_id = $1`, userID,
	).Scan(&points)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: get points for %s", userID)
	}
	return points, nil
}

func (s *PostgresStore) CreatePickup(ctx context.Context, pickup model.Pickup) (*model.Pickup, error) {
	pickup.ID = uuid.New().String()
	pickup.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO pickups (id, name, email, phone, address, waste_type, drive_type, pickup_date, pickup_time, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		pickup.ID, pickup.Name, pickup.Email, pickup.Phone, pickup.Address,
		pickup.WasteType, string(pickup.DriveType), pickup.PickupDate, pickup.PickupTime, pickup.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert pickup")
	}
	return &pickup, nil
}

func (s *PostgresStore) ListPickups(ctx context.Context, limit int) ([]model.Pickup, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, phone, address, waste_type, drive_type, pickup_date, pickup_time, created_at
		 FROM pickups ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list pickups")
	}
	defer rows.Close()

	var pickups []model.Pickup
	for rows.Next() {
		var p model.Pickup
		var driveType string
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address,
			&p.WasteType, &driveType, &p.PickupDate, &p.PickupTime, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan pickup")
		}
		p.DriveType = model.DriveType(driveType)
		pickups = append(pickups, p)
	}
	return pickups, eris.Wrap(rows.Err(), "postgres: list pickups iterate")
}

func (s *PostgresStore) ListActiveChallenges(ctx context.Context) ([]model.Challenge, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, co2_saved, is_active, display_order, created_at FROM challenges
		 WHERE is_active ORDER BY display_order, created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list challenges")
	}
	defer rows.Close()

	var challenges []model.Challenge
	for rows.Next() {
		var c model.Challenge
		if err := rows.Scan(&c.ID, &c.Title, &c.CO2Saved, &c.IsActive, &c.Order, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan challenge")
		}
		challenges = append(challenges, c)
	}
	return challenges, eris.Wrap(rows.Err(), "postgres: list challenges iterate")
}

func (s *PostgresStore) CreateChallenge(ctx context.Context, challenge model.Challenge) (*model.Challenge, error) {
	challenge.ID = uuid.New().String()
	challenge.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO challenges (id, title, co2_saved, is_active, display_order, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		challenge.ID, challenge.Title, challenge.CO2Saved, challenge.IsActive, challenge.Order, challenge.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert challenge")
	}
	return &challenge, nil
}

// CompleteChallenge records a completion once per user and challenge.
// Unknown challenge IDs and repeat completions both report created=false.
func (s *PostgresStore) CompleteChallenge(ctx context.Context, userID, challengeID string) (bool, error) {
	var exists int
	err := s.pool.QueryRow(ctx,
		`SELECT 1 FROM challenges WHERE id = $1`, challengeID,
	).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "postgres: check challenge %s", challengeID)
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO challenge_completions (id, user_id, challenge_id, completed_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, challenge_id) DO NOTHING`,
		uuid.New().String(), userID, challengeID, time.Now().UTC(),
	)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: complete challenge %s", challengeID)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) ListCompletedChallengeIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT challenge_id FROM challenge_completions WHERE user_id = $1 ORDER BY completed_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list completions for %s", userID)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "postgres: scan completion")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "postgres: list completions iterate")
}
