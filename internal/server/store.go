package server

import (
	"context"
	"errors"
	"time"

	"github.com/pentathlon/bazar/internal/shell"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrCapacityFull    = errors.New("school capacity reached")
	ErrSessionConflict = errors.New("another session owns this school")
)

// maxSchools caps how many distinct schools may register.
const maxSchools = 10

// sessionTTL is how long a claimed session stays active.
const sessionTTL = 8 * time.Hour

// School is one row of the schools table. Nullable columns are pointers.
type School struct {
	ID             int64   `json:"id"`
	Name           string  `json:"schoolName"`
	CreatedAt      string  `json:"createdAt"`
	LoginAt        *string `json:"loginAt"`
	PressedAt      *string `json:"pressedAt"`
	PressCount     int     `json:"pressCount"`
	SessionToken   *string `json:"-"`
	SessionExpires *string `json:"sessionExpires"`
}

type adminSession struct {
	AdminID string
	Email   string
}

type Store interface {
	// ClaimSchool registers name under token, or refreshes an existing
	// claim. created reports whether a new row was inserted. Refusals:
	// ErrSessionConflict when another active session owns the name,
	// ErrCapacityFull when a new row would exceed the cap.
	ClaimSchool(ctx context.Context, name, token string, now time.Time) (school School, created bool, err error)

	// PressBuzzer records a press, conditioned on name and token matching.
	// ErrNotFound when the row is missing, ErrSessionConflict when the
	// stored token differs.
	PressBuzzer(ctx context.Context, name, token string, now time.Time) (School, error)

	// Leaderboard returns schools that have pressed, ascending by press
	// time (ties broken by row ID), capped at limit rows.
	Leaderboard(ctx context.Context, limit int) ([]School, error)

	// ResetPresses clears pressed_at and press_count on every row.
	ResetPresses(ctx context.Context) (int64, error)

	// DeleteAllSchools removes every row.
	DeleteAllSchools(ctx context.Context) (int64, error)

	AdminCount(ctx context.Context) (int, error)
	CreateAdmin(ctx context.Context, id, email, passwordHash string) error
	AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error)
	CreateAdminSession(ctx context.Context, adminID string) (sessionID string, err error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)

	DeviceState(ctx context.Context, deviceID string) (shell.State, error)
	SaveDeviceState(ctx context.Context, deviceID string, state shell.State) error
}
