package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks artmarket/internal/domain/user Repository

// Repository defines the interface for user repository operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	// GetPublicByID loads the user without the password hash and reset state.
	GetPublicByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmailOrUsername(ctx context.Context, identifier string) (*User, error)
	List(ctx context.Context, filter *Filter) ([]*User, int64, error)

	Update(ctx context.Context, user *User) error
	UpdateRole(ctx context.Context, userID uuid.UUID, role Role) error
	SetBlocked(ctx context.Context, userID uuid.UUID, blocked bool) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error

	// SaveReset replaces any reset already in flight for the user.
	SaveReset(ctx context.Context, userID uuid.UUID, reset *PasswordReset) error
	// MarkResetVerified swaps currentTicket for verifiedTicket and sets the verified flag.
	// It fails with ErrResetTokenMismatch when the stored ticket is no longer currentTicket.
	MarkResetVerified(ctx context.Context, userID uuid.UUID, currentTicket, verifiedTicket string) error
	// CompletePasswordReset writes the new hash and clears the reset in one statement,
	// only while the stored reset is verified and carries verifiedTicket.
	CompletePasswordReset(ctx context.Context, userID uuid.UUID, verifiedTicket, passwordHash string) error
	ClearExpiredResets(ctx context.Context, before time.Time) (int64, error)
}

// Filter represents filtering options for listing users
type Filter struct {
	Role    *Role
	Blocked *bool
	Search  string

	Page     int
	PageSize int
}
