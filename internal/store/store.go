// Package store defines the credential-store contract the auth core and
// CRUD handlers run against, with a Postgres implementation for the
// server and an in-memory one for tests.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/example/sankofa/internal/models"
)

var (
	// ErrNotFound is returned for point lookups that match no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// UserStore persists user accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// GetByContact matches either the email or phone unique column.
	GetByContact(ctx context.Context, contact string) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OtpStore persists one-time codes, at most one per user.
type OtpStore interface {
	// Upsert inserts the code or overwrites the user's existing one.
	Upsert(ctx context.Context, otp *models.Otp) error
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.Otp, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// SessionStore persists refresh sessions.
type SessionStore interface {
	Create(ctx context.Context, session *models.RefreshSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RefreshSession, error)
	// Replace atomically deletes the old session and inserts the next
	// one. It fails with ErrNotFound when the old session is already
	// gone, so concurrent rotations of the same token cannot both win.
	Replace(ctx context.Context, oldID uuid.UUID, next *models.RefreshSession) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EmployeeStore persists employee records.
type EmployeeStore interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	List(ctx context.Context, offset, limit int) ([]models.Employee, int64, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Store bundles the per-entity stores behind one dependency.
type Store struct {
	Users     UserStore
	Otps      OtpStore
	Sessions  SessionStore
	Employees EmployeeStore
}
