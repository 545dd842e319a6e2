package order

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks artmarket/internal/domain/order Repository

// Repository defines the interface for order repository operations
type Repository interface {
	// Place decrements the artwork stock and inserts the order atomically.
	// It returns ErrOutOfStock when fewer than order.Quantity items remain.
	Place(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error)
	List(ctx context.Context, filter *Filter) ([]*Order, int64, error)
	// UpdateStatus moves the order from `from` to `to`; restock returns the quantity
	// to the artwork in the same transaction.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to Status, restock bool) error
}

// Filter represents filtering options for listing orders
type Filter struct {
	BuyerID  *uuid.UUID
	ArtistID *uuid.UUID
	Status   *Status

	Page     int
	PageSize int
}
