package artwork

import (
	"time"

	domainArtwork "artmarket/internal/domain/artwork"
	domainUser "artmarket/internal/domain/user"

	"github.com/google/uuid"
)

// Viewer is the caller of a read operation; nil means anonymous.
type Viewer struct {
	UserID uuid.UUID
	Role   domainUser.Role
}

func (v *Viewer) IsAdmin() bool {
	return v != nil && v.Role == domainUser.RoleAdmin
}

func (v *Viewer) Owns(a *domainArtwork.Artwork) bool {
	return v != nil && a.IsOwnedBy(v.UserID)
}

type CreateArtworkRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"required,max=50"`
	ImageURL    string `json:"imageUrl" validate:"required,url,max=2048"`
	Price       int64  `json:"price" validate:"gte=0,lte=10000000000"`
	Stock       *int   `json:"stock" validate:"omitempty,gte=0,lte=10000"`
}

type UpdateArtworkRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Category    *string `json:"category" validate:"omitempty,max=50"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url,max=2048"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0,lte=10000000000"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0,lte=10000"`
	Status      *string `json:"status" validate:"omitempty,oneof=published hidden"`
}

type ListArtworksRequest struct {
	Search    string `form:"q" validate:"omitempty,max=100"`
	Category  string `form:"category" validate:"omitempty,max=50"`
	ArtistID  string `form:"artistId" validate:"omitempty,uuid"`
	MinPrice  *int64 `form:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice  *int64 `form:"maxPrice" validate:"omitempty,gte=0"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=created_at price title"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type ModerateArtworkRequest struct {
	Status string `json:"status" validate:"required,oneof=published hidden"`
	Reason string `json:"reason" validate:"max=500"`
}

type ArtworkResponse struct {
	ID          uuid.UUID `json:"id"`
	ArtistID    uuid.UUID `json:"artistId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	Status      string    `json:"status"`
	IsMine      bool      `json:"isMine"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ArtworkListResponse struct {
	Artworks   []*ArtworkResponse `json:"artworks"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}

func ToArtworkResponse(a *domainArtwork.Artwork, viewer *Viewer) *ArtworkResponse {
	if a == nil {
		return nil
	}
	return &ArtworkResponse{
		ID:          a.ID,
		ArtistID:    a.ArtistID,
		Title:       a.Title,
		Description: a.Description,
		Category:    a.Category,
		ImageURL:    a.ImageURL,
		Price:       a.Price,
		Stock:       a.Stock,
		Status:      string(a.Status),
		IsMine:      viewer.Owns(a),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
