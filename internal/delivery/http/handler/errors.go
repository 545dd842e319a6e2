package handler

import (
	"net/http"

	"artmarket/internal/logger"
	"artmarket/internal/middleware"
	appErrors "artmarket/pkg/errors"
	"artmarket/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondWithError translates an error into the response envelope. Errors that
// carry no AppError are logged and answered with a generic 500.
func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	status, code, message, ok := appErrors.Lookup(err)
	if !ok {
		requestID := middleware.GetRequestID(c)
		logger.Error("Internal server error",
			zap.String("request_id", requestID),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
	}

	utils.ErrorResponseWithCode(c, status, code, message)
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponseWithCode(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		utils.ErrorResponseWithCode(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid query parameters")
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.ErrorResponseWithCode(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// currentUser reads the caller attached by middleware.Auth.
func currentUser(c *gin.Context) (*middleware.AuthContext, bool) {
	authCtx, ok := middleware.CurrentUser(c)
	if !ok {
		utils.AbortWithAppError(c, appErrors.ErrAuthRequired)
		return nil, false
	}
	return authCtx, true
}
