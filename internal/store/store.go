package store

import (
	"context"

	"github.com/ecospark/ewaste-server/internal/model"
)

// Store defines the persistence interface for the e-waste service. User
// identity is an opaque caller-supplied ID; there is no account subsystem
// here.
type Store interface {
	// Centers
	ListCenters(ctx context.Context) ([]model.Center, error)
	CreateCenter(ctx context.Context, center model.Center) (*model.Center, error)

	// Devices
	GetDeviceByModel(ctx context.Context, modelName string) (*model.Device, error)
	CreateDevice(ctx context.Context, device model.Device) (*model.Device, error)

	// Credits
	AddPoints(ctx context.Context, userID string, points int) (int, error)
	GetPoints(ctx context.Context, userID string) (int, error)

	// Pickups
	CreatePickup(ctx context.Context, pickup model.Pickup) (*model.Pickup, error)
	ListPickups(ctx context.Context, limit int) ([]model.Pickup, error)

	// Challenges
	ListActiveChallenges(ctx context.Context) ([]model.Challenge, error)
	CreateChallenge(ctx context.Context, challenge model.Challenge) (*model.Challenge, error)
	CompleteChallenge(ctx context.Context, userID, challengeID string) (bool, error)
	ListCompletedChallengeIDs(ctx context.Context, userID string) ([]string, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
