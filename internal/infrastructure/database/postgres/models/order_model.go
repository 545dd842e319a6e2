package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BuyerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ArtistID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ArtworkID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   int       `gorm:"type:integer;not null;check:quantity > 0"`
	UnitPrice  int64     `gorm:"type:bigint;not null"`
	Total      int64     `gorm:"type:bigint;not null"`
	Status     string    `gorm:"type:varchar(20);not null;default:'paid';index"`
	PaymentRef string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	CreatedAt  time.Time `gorm:"not null;index"`
	UpdatedAt  time.Time `gorm:"not null"`

	Buyer   *UserModel    `gorm:"foreignKey:BuyerID"`
	Artist  *UserModel    `gorm:"foreignKey:ArtistID"`
	Artwork *ArtworkModel `gorm:"foreignKey:ArtworkID"`
}

func (OrderModel) TableName() string {
	return "orders"
}
