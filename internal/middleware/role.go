package middleware

import (
	domainUser "artmarket/internal/domain/user"
	appErrors "artmarket/pkg/errors"
	"artmarket/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RequireRoles must run after Auth.
func RequireRoles(allowedRoles ...domainUser.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx, ok := CurrentUser(c)
		if !ok {
			utils.AbortWithAppError(c, appErrors.ErrAuthRequired)
			return
		}

		if authCtx.User.HasRole(allowedRoles...) {
			c.Next()
			return
		}

		authFailures.WithLabelValues(appErrors.ErrInsufficientPermissions.Code).Inc()
		utils.AbortWithAppError(c, appErrors.ErrInsufficientPermissions)
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRoles(domainUser.RoleAdmin)
}

func ArtistOnly() gin.HandlerFunc {
	return RequireRoles(domainUser.RoleArtist)
}

func BuyerOnly() gin.HandlerFunc {
	return RequireRoles(domainUser.RoleBuyer)
}
