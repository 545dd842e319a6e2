package handler

import (
	"net/http"

	"artmarket/internal/usecase/user"
	"artmarket/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *user.Service
}

func NewUserHandler(service *user.Service) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterProfileRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.POST("/change-password", h.ChangePassword)
	}
}

// RegisterAdminRoutes expects a group behind middleware.AdminOnly.
func (h *UserHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.PUT("/:id/role", h.UpdateRole)
		users.PUT("/:id/block", h.SetBlocked)
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	authCtx, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), authCtx.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", gin.H{"user": profile})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	authCtx, ok := currentUser(c)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), authCtx.UserID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated successfully", gin.H{"user": profile})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	authCtx, ok := currentUser(c)
	if !ok {
		return
	}

	var req user.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), authCtx.UserID, &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password changed successfully", nil)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var req user.ListUsersRequest
	if !bindQuery(c, &req) {
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Users retrieved successfully", gin.H{
		"users":      users.Users,
		"total":      users.Total,
		"page":       users.Page,
		"pageSize":   users.PageSize,
		"totalPages": users.TotalPages,
	})
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	authCtx, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req user.UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.service.UpdateRole(c.Request.Context(), authCtx.UserID, userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role updated successfully", gin.H{"user": updated})
}

func (h *UserHandler) SetBlocked(c *gin.Context) {
	authCtx, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req user.SetBlockedRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.service.SetBlocked(c.Request.Context(), authCtx.UserID, userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	message := "User unblocked successfully"
	if updated.Blocked {
		message = "User blocked successfully"
	}
	utils.SuccessResponse(c, http.StatusOK, message, gin.H{"user": updated})
}
