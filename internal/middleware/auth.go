package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	domainUser "artmarket/internal/domain/user"
	"artmarket/internal/logger"
	appErrors "artmarket/pkg/errors"
	"artmarket/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const authContextKey = "auth_context"

// SessionParser validates session tokens.
type SessionParser interface {
	Parse(token, purpose string) (*utils.Claims, error)
}

// UserLookup resolves the user a session belongs to.
type UserLookup interface {
	GetPublicByID(ctx context.Context, userID uuid.UUID) (*domainUser.User, error)
}

// AuthContext is attached to every request that passed the session verifier.
type AuthContext struct {
	UserID uuid.UUID
	User   *domainUser.User
}

// Auth rejects requests without a valid session for an existing, unblocked user.
func Auth(tokens SessionParser, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx, err := verifySession(c, tokens, users)
		if err != nil {
			var appErr *appErrors.AppError
			if !errors.As(err, &appErr) {
				logger.WithRequestID(GetRequestID(c)).Error("Session lookup failed", zap.Error(err))
				utils.ErrorResponseWithCode(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				c.Abort()
				return
			}

			authFailures.WithLabelValues(appErr.Code).Inc()
			utils.AbortWithAppError(c, appErr)
			return
		}

		c.Set(authContextKey, authCtx)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid session is presented and
// otherwise lets the request through anonymously.
func OptionalAuth(tokens SessionParser, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authCtx, err := verifySession(c, tokens, users); err == nil {
			c.Set(authContextKey, authCtx)
		}
		c.Next()
	}
}

// CurrentUser returns the verified caller, if any.
func CurrentUser(c *gin.Context) (*AuthContext, bool) {
	value, exists := c.Get(authContextKey)
	if !exists {
		return nil, false
	}
	authCtx, ok := value.(*AuthContext)
	return authCtx, ok && authCtx != nil
}

func verifySession(c *gin.Context, tokens SessionParser, users UserLookup) (*AuthContext, error) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		return nil, appErrors.ErrAuthRequired
	}

	claims, err := tokens.Parse(token, utils.TokenPurposeSession)
	if err != nil {
		return nil, err
	}

	user, err := users.GetPublicByID(c.Request.Context(), claims.UserID)
	if errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, appErrors.ErrSessionUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if user.Blocked {
		return nil, appErrors.ErrAccountBlocked
	}

	return &AuthContext{UserID: user.ID, User: user}, nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
