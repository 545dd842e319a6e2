package utils

import (
	appErrors "artmarket/pkg/errors"

	"github.com/gin-gonic/gin"
)

// SuccessResponse writes {"success": true, "message": ..., <payload keys>}.
func SuccessResponse(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	for key, value := range payload {
		body[key] = value
	}

	c.JSON(status, body)
}

func ErrorResponseWithCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
		"code":    code,
	})
}

// AbortWithAppError writes the error envelope for err and stops the handler chain.
func AbortWithAppError(c *gin.Context, err *appErrors.AppError) {
	status, code, message, _ := appErrors.Lookup(err)
	ErrorResponseWithCode(c, status, code, message)
	c.Abort()
}
