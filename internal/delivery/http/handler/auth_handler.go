package handler

import (
	"net/http"

	"artmarket/internal/usecase/user"
	"artmarket/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service *user.Service
}

func NewAuthHandler(service *user.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/send-otp", h.SendOTP)
		auth.POST("/verify-otp", h.VerifyOTP)
		auth.POST("/reset-password", h.ResetPassword)
	}
}

// RegisterSessionRoutes expects a group behind middleware.Auth.
func (h *AuthHandler) RegisterSessionRoutes(router *gin.RouterGroup) {
	router.GET("/auth/me", h.Me)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "User registered successfully", gin.H{
		"user":      authResponse.User,
		"token":     authResponse.Token,
		"expiresAt": authResponse.ExpiresAt,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", gin.H{
		"user":      authResponse.User,
		"token":     authResponse.Token,
		"expiresAt": authResponse.ExpiresAt,
	})
}

func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req user.SendOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.SendOTP(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, resp.Message, gin.H{
		"resetToken": resp.ResetToken,
	})
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req user.VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	verifiedToken, err := h.service.VerifyOTP(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "OTP verified", gin.H{
		"verifiedToken": verifiedToken,
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req user.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password reset successfully", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	authCtx, ok := currentUser(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Current user", gin.H{
		"user": user.ToUserResponse(authCtx.User),
	})
}
