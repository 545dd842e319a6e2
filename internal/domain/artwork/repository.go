package artwork

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks artmarket/internal/domain/artwork Repository

// Repository defines the interface for artwork repository operations
type Repository interface {
	Create(ctx context.Context, artwork *Artwork) error
	GetByID(ctx context.Context, artworkID uuid.UUID) (*Artwork, error)
	Update(ctx context.Context, artwork *Artwork) error
	UpdateStatus(ctx context.Context, artworkID uuid.UUID, status Status) error
	List(ctx context.Context, filter *Filter) ([]*Artwork, int64, error)
}

// Filter represents filtering options for listing artworks
type Filter struct {
	Search   string
	Category string
	ArtistID *uuid.UUID
	MinPrice *int64
	MaxPrice *int64

	// Statuses restricts the result set; empty means any status.
	Statuses []Status
	// VisibleTo additionally includes non-published works owned by this artist.
	VisibleTo *uuid.UUID

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
