package models

import (
	"time"

	"github.com/google/uuid"
)

type ArtworkModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ArtistID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	Category    string    `gorm:"type:varchar(50);not null;index"`
	ImageURL    string    `gorm:"type:text;not null"`
	Price       int64     `gorm:"type:bigint;not null;check:price >= 0"`
	Stock       int       `gorm:"type:integer;not null;default:1;check:stock >= 0"`
	Status      string    `gorm:"type:varchar(20);not null;default:'published';index"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`

	Artist *UserModel `gorm:"foreignKey:ArtistID"`
}

func (ArtworkModel) TableName() string {
	return "artworks"
}
