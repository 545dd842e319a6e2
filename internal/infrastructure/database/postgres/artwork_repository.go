package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artmarket/internal/domain/artwork"
	"artmarket/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var artworkSortColumns = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"title":      "title",
}

type ArtworkRepository struct {
	db *DB
}

func NewArtworkRepository(db *DB) *ArtworkRepository {
	return &ArtworkRepository{db: db}
}

func (r *ArtworkRepository) Create(ctx context.Context, a *artwork.Artwork) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	if a.Status == "" {
		a.Status = artwork.StatusPublished
	}

	dbModel := toArtworkModel(a)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create artwork: %w", err)
	}

	a.ID = dbModel.ID
	return nil
}

func (r *ArtworkRepository) GetByID(ctx context.Context, artworkID uuid.UUID) (*artwork.Artwork, error) {
	var dbModel models.ArtworkModel
	err := r.db.DB.WithContext(ctx).Where("id = ?", artworkID).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, artwork.ErrArtworkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artwork: %w", err)
	}

	return toArtworkEntity(&dbModel), nil
}

func (r *ArtworkRepository) Update(ctx context.Context, a *artwork.Artwork) error {
	a.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).Model(&models.ArtworkModel{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"title":       a.Title,
			"description": a.Description,
			"category":    a.Category,
			"image_url":   a.ImageURL,
			"price":       a.Price,
			"stock":       a.Stock,
			"status":      string(a.Status),
			"updated_at":  a.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update artwork: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return artwork.ErrArtworkNotFound
	}

	return nil
}

func (r *ArtworkRepository) UpdateStatus(ctx context.Context, artworkID uuid.UUID, status artwork.Status) error {
	result := r.db.DB.WithContext(ctx).Model(&models.ArtworkModel{}).
		Where("id = ?", artworkID).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update artwork status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return artwork.ErrArtworkNotFound
	}

	return nil
}

func (r *ArtworkRepository) List(ctx context.Context, filter *artwork.Filter) ([]*artwork.Artwork, int64, error) {
	var dbModels []models.ArtworkModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.ArtworkModel{})

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		if filter.VisibleTo != nil {
			db = db.Where("(status IN ? OR (artist_id = ? AND status <> ?))",
				statuses, *filter.VisibleTo, string(artwork.StatusRemoved))
		} else {
			db = db.Where("status IN ?", statuses)
		}
	}
	if filter.ArtistID != nil {
		db = db.Where("artist_id = ?", *filter.ArtistID)
	}
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		db = db.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		db = db.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		db = db.Where("(title ILIKE ? OR description ILIKE ?)", search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count artworks: %w", err)
	}

	sortBy, ok := artworkSortColumns[filter.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := db.Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list artworks: %w", err)
	}

	artworks := make([]*artwork.Artwork, len(dbModels))
	for i := range dbModels {
		artworks[i] = toArtworkEntity(&dbModels[i])
	}

	return artworks, total, nil
}

func toArtworkModel(a *artwork.Artwork) *models.ArtworkModel {
	return &models.ArtworkModel{
		ID:          a.ID,
		ArtistID:    a.ArtistID,
		Title:       a.Title,
		Description: a.Description,
		Category:    a.Category,
		ImageURL:    a.ImageURL,
		Price:       a.Price,
		Stock:       a.Stock,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toArtworkEntity(m *models.ArtworkModel) *artwork.Artwork {
	return &artwork.Artwork{
		ID:          m.ID,
		ArtistID:    m.ArtistID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		ImageURL:    m.ImageURL,
		Price:       m.Price,
		Stock:       m.Stock,
		Status:      artwork.Status(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
