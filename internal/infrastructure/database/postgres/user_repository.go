package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artmarket/internal/domain/user"
	"artmarket/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// publicUserColumns is the projection used by the session verifier: no hash, no reset state.
var publicUserColumns = []string{
	"id", "name", "username", "email", "role", "blocked", "bio", "avatar_url", "created_at", "updated_at",
}

// UserRepository implements user.Repository on top of gorm
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	u.ID = uuid.New()
	u.Email = user.NormalizeIdentifier(u.Email)
	u.Username = user.NormalizeIdentifier(u.Username)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt

	dbModel := toUserModel(u)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if violated := uniqueViolation(err); violated != "" {
			if strings.Contains(violated, "username") {
				return user.ErrUsernameTaken
			}
			return user.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = dbModel.ID
	u.CreatedAt = dbModel.CreatedAt
	u.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return r.first(r.db.DB.WithContext(ctx).Where("id = ?", userID))
}

func (r *UserRepository) GetPublicByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return r.first(r.db.DB.WithContext(ctx).Select(publicUserColumns).Where("id = ?", userID))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(r.db.DB.WithContext(ctx).Where("email = ?", user.NormalizeIdentifier(email)))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.first(r.db.DB.WithContext(ctx).Where("username = ?", user.NormalizeIdentifier(username)))
}

func (r *UserRepository) GetByEmailOrUsername(ctx context.Context, identifier string) (*user.User, error) {
	identifier = user.NormalizeIdentifier(identifier)
	return r.first(r.db.DB.WithContext(ctx).Where("email = ? OR username = ?", identifier, identifier))
}

func (r *UserRepository) first(query *gorm.DB) (*user.User, error) {
	var dbModel models.UserModel
	err := query.First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) List(ctx context.Context, filter *user.Filter) ([]*user.User, int64, error) {
	var dbModels []models.UserModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.UserModel{})

	if filter.Role != nil {
		db = db.Where("role = ?", string(*filter.Role))
	}
	if filter.Blocked != nil {
		db = db.Where("blocked = ?", *filter.Blocked)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		db = db.Where("name ILIKE ? OR username ILIKE ? OR email ILIKE ?", search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := db.Select(publicUserColumns).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*user.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}

	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now()

	return r.updateByID(ctx, u.ID, map[string]interface{}{
		"name":       u.Name,
		"bio":        u.Bio,
		"avatar_url": u.AvatarURL,
		"updated_at": u.UpdatedAt,
	}, "failed to update user")
}

func (r *UserRepository) UpdateRole(ctx context.Context, userID uuid.UUID, role user.Role) error {
	return r.updateByID(ctx, userID, map[string]interface{}{
		"role":       string(role),
		"updated_at": time.Now(),
	}, "failed to update role")
}

func (r *UserRepository) SetBlocked(ctx context.Context, userID uuid.UUID, blocked bool) error {
	return r.updateByID(ctx, userID, map[string]interface{}{
		"blocked":    blocked,
		"updated_at": time.Now(),
	}, "failed to update block status")
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.updateByID(ctx, userID, map[string]interface{}{
		"password_hashed": passwordHash,
		"updated_at":      time.Now(),
	}, "failed to update password")
}

func (r *UserRepository) SaveReset(ctx context.Context, userID uuid.UUID, reset *user.PasswordReset) error {
	return r.updateByID(ctx, userID, map[string]interface{}{
		"reset_code":       reset.Code,
		"reset_expires_at": reset.ExpiresAt,
		"reset_ticket":     reset.Ticket,
		"reset_verified":   reset.Verified,
		"updated_at":       time.Now(),
	}, "failed to save password reset")
}

func (r *UserRepository) MarkResetVerified(ctx context.Context, userID uuid.UUID, currentTicket, verifiedTicket string) error {
	result := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ? AND reset_ticket = ?", userID, currentTicket).
		Updates(map[string]interface{}{
			"reset_ticket":   verifiedTicket,
			"reset_verified": true,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark reset verified: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrResetTokenMismatch
	}

	return nil
}

func (r *UserRepository) CompletePasswordReset(ctx context.Context, userID uuid.UUID, verifiedTicket, passwordHash string) error {
	updates := clearedReset()
	updates["password_hashed"] = passwordHash
	updates["updated_at"] = time.Now()

	result := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ? AND reset_ticket = ? AND reset_verified = ?", userID, verifiedTicket, true).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to complete password reset: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrResetNotVerified
	}

	return nil
}

func (r *UserRepository) ClearExpiredResets(ctx context.Context, before time.Time) (int64, error) {
	updates := clearedReset()
	updates["updated_at"] = time.Now()

	result := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("reset_expires_at IS NOT NULL AND reset_expires_at < ?", before).
		Updates(updates)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear expired resets: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *UserRepository) updateByID(ctx context.Context, userID uuid.UUID, updates map[string]interface{}, msg string) error {
	result := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("%s: %w", msg, result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func clearedReset() map[string]interface{} {
	return map[string]interface{}{
		"reset_code":       nil,
		"reset_expires_at": nil,
		"reset_ticket":     nil,
		"reset_verified":   nil,
	}
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func toUserModel(u *user.User) *models.UserModel {
	m := &models.UserModel{
		ID:             u.ID,
		Name:           u.Name,
		Username:       u.Username,
		Email:          u.Email,
		PasswordHashed: u.PasswordHashed,
		Role:           string(u.Role),
		Blocked:        u.Blocked,
		Bio:            u.Bio,
		AvatarURL:      u.AvatarURL,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}

	if u.Reset != nil {
		code, ticket, verified, expiresAt := u.Reset.Code, u.Reset.Ticket, u.Reset.Verified, u.Reset.ExpiresAt
		m.ResetCode = &code
		m.ResetTicket = &ticket
		m.ResetVerified = &verified
		m.ResetExpiresAt = &expiresAt
	}

	return m
}

func toUserEntity(m *models.UserModel) *user.User {
	u := &user.User{
		ID:             m.ID,
		Name:           m.Name,
		Username:       m.Username,
		Email:          m.Email,
		PasswordHashed: m.PasswordHashed,
		Role:           user.Role(m.Role),
		Blocked:        m.Blocked,
		Bio:            m.Bio,
		AvatarURL:      m.AvatarURL,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}

	if m.ResetCode != nil && m.ResetTicket != nil && m.ResetExpiresAt != nil {
		u.Reset = &user.PasswordReset{
			Code:      *m.ResetCode,
			ExpiresAt: *m.ResetExpiresAt,
			Ticket:    *m.ResetTicket,
			Verified:  m.ResetVerified != nil && *m.ResetVerified,
		}
	}

	return u
}
