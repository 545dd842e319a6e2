package order

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Order is a completed mock checkout of one artwork line.
type Order struct {
	ID         uuid.UUID
	BuyerID    uuid.UUID
	ArtistID   uuid.UUID
	ArtworkID  uuid.UUID
	Quantity   int
	UnitPrice  int64
	Total      int64
	Status     Status
	PaymentRef string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (o *Order) IsParty(userID uuid.UUID) bool {
	return o.BuyerID == userID || o.ArtistID == userID
}
