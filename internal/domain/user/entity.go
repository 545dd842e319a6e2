package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleArtist Role = "artist"
	RoleAdmin  Role = "admin"
)

const VerifiedTicketSuffix = "_verified"

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleArtist, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// ParseRole accepts any casing and rejects roles outside the closed set.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", ErrInvalidUserRole
	}
	return role, nil
}

// User represents an account in the domain
type User struct {
	ID             uuid.UUID
	Name           string
	Username       string
	Email          string
	PasswordHashed string
	Role           Role
	Blocked        bool
	Bio            *string
	AvatarURL      *string
	Reset          *PasswordReset
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// PasswordReset is the in-flight reset attached to a user. All four fields are
// written and cleared together.
type PasswordReset struct {
	Code      string
	ExpiresAt time.Time
	Ticket    string
	Verified  bool
}

func (p *PasswordReset) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// VerifiedTicket is the ticket value the reset carries once its code has been confirmed.
func VerifiedTicket(ticket string) string {
	return ticket + VerifiedTicketSuffix
}

func IsVerifiedTicket(ticket string) bool {
	return strings.HasSuffix(ticket, VerifiedTicketSuffix)
}

// NormalizeIdentifier lower-cases and trims an email or username before storage or lookup.
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
