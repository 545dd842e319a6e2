package handler

import (
	"net/http"

	"artmarket/internal/middleware"
	"artmarket/internal/usecase/artwork"
	"artmarket/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ArtworkHandler struct {
	service *artwork.Service
}

func NewArtworkHandler(service *artwork.Service) *ArtworkHandler {
	return &ArtworkHandler{service: service}
}

// RegisterRoutes expects a group behind middleware.OptionalAuth.
func (h *ArtworkHandler) RegisterRoutes(router *gin.RouterGroup) {
	artworks := router.Group("/artworks")
	{
		artworks.GET("", h.ListArtworks)
		artworks.GET("/:id", h.GetArtwork)
	}
}

// RegisterArtistRoutes expects a group behind middleware.ArtistOnly.
func (h *ArtworkHandler) RegisterArtistRoutes(router *gin.RouterGroup) {
	artworks := router.Group("/artworks")
	{
		artworks.POST("", h.CreateArtwork)
		artworks.PUT("/:id", h.UpdateArtwork)
	}
}

// RegisterOwnerRoutes expects a group behind middleware.Auth; ownership is checked by the service.
func (h *ArtworkHandler) RegisterOwnerRoutes(router *gin.RouterGroup) {
	router.DELETE("/artworks/:id", h.DeleteArtwork)
}

// RegisterAdminRoutes expects a group behind middleware.AdminOnly.
func (h *ArtworkHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.PUT("/artworks/:id/moderation", h.ModerateArtwork)
}

func viewerFrom(c *gin.Context) *artwork.Viewer {
	authCtx, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return &artwork.Viewer{UserID: authCtx.UserID, Role: authCtx.User.Role}
}

func (h *ArtworkHandler) ListArtworks(c *gin.Context) {
	var req artwork.ListArtworksRequest
	if !bindQuery(c, &req) {
		return
	}

	list, err := h.service.ListArtworks(c.Request.Context(), viewerFrom(c), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Artworks retrieved successfully", gin.H{
		"artworks":   list.Artworks,
		"total":      list.Total,
		"page":       list.Page,
		"pageSize":   list.PageSize,
		"totalPages": list.TotalPages,
	})
}

func (h *ArtworkHandler) GetArtwork(c *gin.Context) {
	artworkID, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetArtwork(c.Request.Context(), viewerFrom(c), artworkID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Artwork retrieved successfully", gin.H{"artwork": resp})
}

func (h *ArtworkHandler) CreateArtwork(c *gin.Context) {
	authCtx, ok := currentUser(c)
	if !ok {
		return
	}

	var req artwork.CreateArtworkRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateArtwork(c.Request.Context(), authCtx.UserID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Artwork created successfully", gin.H{"artwork": resp})
}

func (h *ArtworkHandler) UpdateArtwork(c *gin.Context) {
	authCtx, ok := currentUser(c)
	if !ok {
		return
	}
	artworkID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req artwork.UpdateArtworkRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateArtwork(c.Request.Context(), authCtx.UserID, artworkID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Artwork updated successfully", gin.H{"artwork": resp})
}

func (h *ArtworkHandler) DeleteArtwork(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	artworkID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteArtwork(c.Request.Context(), viewerFrom(c), artworkID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Artwork removed successfully", nil)
}

func (h *ArtworkHandler) ModerateArtwork(c *gin.Context) {
	authCtx, ok := currentUser(c)
	if !ok {
		return
	}
	artworkID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req artwork.ModerateArtworkRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.ModerateArtwork(c.Request.Context(), authCtx.UserID, artworkID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Artwork moderated successfully", gin.H{"artwork": resp})
}
