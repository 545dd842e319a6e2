package models

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the database model for User.
// The four reset_* columns are written and cleared together.
type UserModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name           string     `gorm:"type:varchar(100);not null"`
	Username       string     `gorm:"type:varchar(30);not null;uniqueIndex"`
	Email          string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHashed string     `gorm:"type:varchar(255);not null"`
	Role           string     `gorm:"type:varchar(20);not null;default:'buyer';index"`
	Blocked        bool       `gorm:"default:false;not null"`
	Bio            *string    `gorm:"type:text"`
	AvatarURL      *string    `gorm:"type:text"`
	ResetCode      *string    `gorm:"type:varchar(6)"`
	ResetExpiresAt *time.Time `gorm:"type:timestamptz;index"`
	ResetTicket    *string    `gorm:"type:text"`
	ResetVerified  *bool
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}
