package artwork

import (
	"context"
	"fmt"
	"strings"

	domainArtwork "artmarket/internal/domain/artwork"
	domainUser "artmarket/internal/domain/user"
	"artmarket/internal/infrastructure/notification"
	"artmarket/internal/logger"
	appErrors "artmarket/pkg/errors"
	"artmarket/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultStock = 1

type Service struct {
	artworkRepo domainArtwork.Repository
	publisher   notification.Publisher
}

func NewService(artworkRepo domainArtwork.Repository, publisher notification.Publisher) *Service {
	return &Service{
		artworkRepo: artworkRepo,
		publisher:   publisher,
	}
}

func (s *Service) CreateArtwork(ctx context.Context, artistID uuid.UUID, req *CreateArtworkRequest) (*ArtworkResponse, error) {
	req.Title = utils.SanitizeString(req.Title)
	req.Description = utils.SanitizeText(req.Description)
	req.Category = strings.ToLower(utils.SanitizeString(req.Category))
	req.ImageURL = strings.TrimSpace(req.ImageURL)

	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	stock := defaultStock
	if req.Stock != nil {
		stock = *req.Stock
	}

	a := &domainArtwork.Artwork{
		ArtistID:    artistID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Stock:       stock,
		Status:      domainArtwork.StatusPublished,
	}

	if err := s.artworkRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	logger.Info("Artwork created",
		zap.String("artwork_id", a.ID.String()),
		zap.String("artist_id", artistID.String()),
		zap.String("event", "artwork_created"),
	)

	return ToArtworkResponse(a, &Viewer{UserID: artistID, Role: domainUser.RoleArtist}), nil
}

func (s *Service) UpdateArtwork(ctx context.Context, artistID, artworkID uuid.UUID, req *UpdateArtworkRequest) (*ArtworkResponse, error) {
	req.Title = utils.SanitizeOptional(req.Title, utils.SanitizeString)
	req.Description = utils.SanitizeOptional(req.Description, utils.SanitizeText)
	req.Category = utils.SanitizeOptional(req.Category, func(v string) string {
		return strings.ToLower(utils.SanitizeString(v))
	})
	req.ImageURL = utils.SanitizeOptional(req.ImageURL, strings.TrimSpace)

	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	a, err := s.artworkRepo.GetByID(ctx, artworkID)
	if err != nil {
		return nil, err
	}
	if a.Status == domainArtwork.StatusRemoved {
		return nil, domainArtwork.ErrArtworkNotFound
	}
	if !a.IsOwnedBy(artistID) {
		return nil, domainArtwork.ErrNotOwner
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Category != nil {
		a.Category = *req.Category
	}
	if req.ImageURL != nil {
		a.ImageURL = *req.ImageURL
	}
	if req.Price != nil {
		a.Price = *req.Price
	}
	if req.Stock != nil {
		a.Stock = *req.Stock
	}
	if req.Status != nil {
		a.Status = domainArtwork.Status(*req.Status)
	}

	if err := s.artworkRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	return ToArtworkResponse(a, &Viewer{UserID: artistID, Role: domainUser.RoleArtist}), nil
}

// DeleteArtwork soft-deletes: the listing is marked removed and kept for order history.
func (s *Service) DeleteArtwork(ctx context.Context, viewer *Viewer, artworkID uuid.UUID) error {
	a, err := s.artworkRepo.GetByID(ctx, artworkID)
	if err != nil {
		return err
	}
	if a.Status == domainArtwork.StatusRemoved {
		return domainArtwork.ErrArtworkNotFound
	}
	if !viewer.Owns(a) && !viewer.IsAdmin() {
		return domainArtwork.ErrNotOwner
	}

	if err := s.artworkRepo.UpdateStatus(ctx, artworkID, domainArtwork.StatusRemoved); err != nil {
		return err
	}

	logger.Info("Artwork removed",
		zap.String("artwork_id", artworkID.String()),
		zap.String("removed_by", viewer.UserID.String()),
		zap.String("event", "artwork_removed"),
	)

	return nil
}

func (s *Service) GetArtwork(ctx context.Context, viewer *Viewer, artworkID uuid.UUID) (*ArtworkResponse, error) {
	a, err := s.artworkRepo.GetByID(ctx, artworkID)
	if err != nil {
		return nil, err
	}

	if !a.IsPublished() && !viewer.Owns(a) && !viewer.IsAdmin() {
		return nil, domainArtwork.ErrArtworkNotFound
	}

	return ToArtworkResponse(a, viewer), nil
}

func (s *Service) ListArtworks(ctx context.Context, viewer *Viewer, req *ListArtworksRequest) (*ArtworkListResponse, error) {
	req.Search = utils.SanitizeString(req.Search)
	req.Category = strings.ToLower(utils.SanitizeString(req.Category))

	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "minPrice must not exceed maxPrice", nil)
	}

	filter := &domainArtwork.Filter{
		Search:    req.Search,
		Category:  req.Category,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if req.ArtistID != "" {
		artistID, err := uuid.Parse(req.ArtistID)
		if err != nil {
			return nil, appErrors.NewAppError("VALIDATION_ERROR", "artistId must be a valid id", err)
		}
		filter.ArtistID = &artistID
	}
	if !viewer.IsAdmin() {
		filter.Statuses = []domainArtwork.Status{domainArtwork.StatusPublished}
		if viewer != nil {
			filter.VisibleTo = &viewer.UserID
		}
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	artworks, total, err := s.artworkRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list artworks: %w", err)
	}

	responses := make([]*ArtworkResponse, 0, len(artworks))
	for _, a := range artworks {
		responses = append(responses, ToArtworkResponse(a, viewer))
	}

	return &ArtworkListResponse{
		Artworks:   responses,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize)),
	}, nil
}

func (s *Service) ModerateArtwork(ctx context.Context, adminID, artworkID uuid.UUID, req *ModerateArtworkRequest) (*ArtworkResponse, error) {
	req.Reason = utils.SanitizeText(req.Reason)

	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	a, err := s.artworkRepo.GetByID(ctx, artworkID)
	if err != nil {
		return nil, err
	}
	if a.Status == domainArtwork.StatusRemoved {
		return nil, domainArtwork.ErrArtworkNotFound
	}

	status := domainArtwork.Status(req.Status)
	if err := s.artworkRepo.UpdateStatus(ctx, artworkID, status); err != nil {
		return nil, err
	}
	a.Status = status

	logger.Info("Artwork moderated",
		zap.String("artwork_id", artworkID.String()),
		zap.String("admin_id", adminID.String()),
		zap.String("status", req.Status),
		zap.String("event", "artwork_moderated"),
	)

	event := notification.NewEvent(notification.EventArtworkModerated, a.ArtistID, map[string]interface{}{
		"artworkId": a.ID.String(),
		"title":     a.Title,
		"status":    req.Status,
		"reason":    req.Reason,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("event", event.Type),
			zap.Error(err),
		)
	}

	return ToArtworkResponse(a, &Viewer{UserID: adminID, Role: domainUser.RoleAdmin}), nil
}
