// Package usertest provides an in-memory user.Repository for tests.
package usertest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"artmarket/internal/domain/user"

	"github.com/google/uuid"
)

// MemoryRepository mirrors the postgres repository semantics in memory:
// normalised identifiers, unique username/email, conditional reset updates.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[uuid.UUID]*user.User)}
}

func (r *MemoryRepository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = user.NormalizeIdentifier(u.Email)
	u.Username = user.NormalizeIdentifier(u.Username)
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return user.ErrUsernameTaken
		}
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}

	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = clone(u)
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, userID uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) GetPublicByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return public(u), nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Email == user.NormalizeIdentifier(email) })
}

func (r *MemoryRepository) GetByUsername(_ context.Context, username string) (*user.User, error) {
	return r.find(func(u *user.User) bool { return u.Username == user.NormalizeIdentifier(username) })
}

func (r *MemoryRepository) GetByEmailOrUsername(_ context.Context, identifier string) (*user.User, error) {
	identifier = user.NormalizeIdentifier(identifier)
	return r.find(func(u *user.User) bool { return u.Email == identifier || u.Username == identifier })
}

func (r *MemoryRepository) find(match func(*user.User) bool) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *MemoryRepository) List(_ context.Context, filter *user.Filter) ([]*user.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*user.User
	for _, u := range r.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.Blocked != nil && u.Blocked != *filter.Blocked {
			continue
		}
		if filter.Search != "" && !containsFold(u, filter.Search) {
			continue
		}
		matched = append(matched, public(u))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []*user.User{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MemoryRepository) Update(_ context.Context, u *user.User) error {
	return r.mutate(u.ID, func(stored *user.User) error {
		stored.Name = u.Name
		stored.Bio = u.Bio
		stored.AvatarURL = u.AvatarURL
		return nil
	})
}

func (r *MemoryRepository) UpdateRole(_ context.Context, userID uuid.UUID, role user.Role) error {
	return r.mutate(userID, func(stored *user.User) error {
		stored.Role = role
		return nil
	})
}

func (r *MemoryRepository) SetBlocked(_ context.Context, userID uuid.UUID, blocked bool) error {
	return r.mutate(userID, func(stored *user.User) error {
		stored.Blocked = blocked
		return nil
	})
}

func (r *MemoryRepository) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	return r.mutate(userID, func(stored *user.User) error {
		stored.PasswordHashed = passwordHash
		return nil
	})
}

func (r *MemoryRepository) SaveReset(_ context.Context, userID uuid.UUID, reset *user.PasswordReset) error {
	return r.mutate(userID, func(stored *user.User) error {
		copied := *reset
		stored.Reset = &copied
		return nil
	})
}

func (r *MemoryRepository) MarkResetVerified(_ context.Context, userID uuid.UUID, currentTicket, verifiedTicket string) error {
	return r.mutate(userID, func(stored *user.User) error {
		if stored.Reset == nil || stored.Reset.Ticket != currentTicket {
			return user.ErrResetTokenMismatch
		}
		stored.Reset.Ticket = verifiedTicket
		stored.Reset.Verified = true
		return nil
	})
}

func (r *MemoryRepository) CompletePasswordReset(_ context.Context, userID uuid.UUID, verifiedTicket, passwordHash string) error {
	return r.mutate(userID, func(stored *user.User) error {
		if stored.Reset == nil || !stored.Reset.Verified || stored.Reset.Ticket != verifiedTicket {
			return user.ErrResetNotVerified
		}
		stored.PasswordHashed = passwordHash
		stored.Reset = nil
		return nil
	})
}

func (r *MemoryRepository) ClearExpiredResets(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var cleared int64
	for _, u := range r.users {
		if u.Reset != nil && u.Reset.ExpiresAt.Before(before) {
			u.Reset = nil
			cleared++
		}
	}
	return cleared, nil
}

// Reset returns the stored reset state of a user, for assertions.
func (r *MemoryRepository) Reset(userID uuid.UUID) *user.PasswordReset {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok || u.Reset == nil {
		return nil
	}
	copied := *u.Reset
	return &copied
}

func (r *MemoryRepository) mutate(userID uuid.UUID, fn func(*user.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}

	updated := clone(stored)
	if err := fn(updated); err != nil {
		return err
	}
	updated.UpdatedAt = time.Now()
	r.users[userID] = updated
	return nil
}

func clone(u *user.User) *user.User {
	copied := *u
	if u.Reset != nil {
		reset := *u.Reset
		copied.Reset = &reset
	}
	return &copied
}

func public(u *user.User) *user.User {
	copied := clone(u)
	copied.PasswordHashed = ""
	copied.Reset = nil
	return copied
}

func containsFold(u *user.User, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(u.Name), search) ||
		strings.Contains(u.Username, search) ||
		strings.Contains(u.Email, search)
}
