package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAuthRequired            = New(http.StatusUnauthorized, "AUTH_REQUIRED", "authentication required")
	ErrInvalidCredentials      = New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username/email or password")
	ErrTokenExpired            = New(http.StatusUnauthorized, "TOKEN_EXPIRED", "token has expired, please log in again")
	ErrTokenInvalid            = New(http.StatusUnauthorized, "TOKEN_INVALID", "token is invalid")
	ErrSessionUserNotFound     = New(http.StatusUnauthorized, "USER_NOT_FOUND", "user not found, please log in again")
	ErrAccountBlocked          = New(http.StatusForbidden, "ACCOUNT_BLOCKED", "account is blocked")
	ErrInsufficientPermissions = New(http.StatusForbidden, "INSUFFICIENT_PERMISSIONS", "insufficient permissions")

	ErrUserNotFound    = New(http.StatusNotFound, "USER_NOT_FOUND", "user not found")
	ErrEmailTaken      = New(http.StatusBadRequest, "EMAIL_TAKEN", "email is already registered")
	ErrUsernameTaken   = New(http.StatusBadRequest, "USERNAME_TAKEN", "username is already taken")
	ErrInvalidUserRole = New(http.StatusBadRequest, "INVALID_ROLE", "invalid user role")
	ErrSelfModeration  = New(http.StatusBadRequest, "SELF_MODERATION", "admins cannot change their own role or block status")

	ErrOTPNotRequested    = New(http.StatusBadRequest, "OTP_NOT_REQUESTED", "no password reset has been requested")
	ErrOTPInvalid         = New(http.StatusBadRequest, "OTP_INVALID", "invalid OTP, please try again")
	ErrOTPExpired         = New(http.StatusBadRequest, "OTP_EXPIRED", "OTP has expired, please request a new one")
	ErrResetTokenMismatch = New(http.StatusBadRequest, "RESET_TOKEN_MISMATCH", "reset token does not match")
	ErrResetNotVerified   = New(http.StatusBadRequest, "RESET_NOT_VERIFIED", "OTP has not been verified")

	ErrArtworkNotFound   = New(http.StatusNotFound, "ARTWORK_NOT_FOUND", "artwork not found")
	ErrArtworkNotForSale = New(http.StatusBadRequest, "ARTWORK_NOT_FOR_SALE", "artwork is not available for purchase")
	ErrOutOfStock        = New(http.StatusBadRequest, "OUT_OF_STOCK", "not enough stock for this artwork")
	ErrOwnArtwork        = New(http.StatusBadRequest, "OWN_ARTWORK", "you cannot buy your own artwork")
	ErrOrderNotFound     = New(http.StatusNotFound, "ORDER_NOT_FOUND", "order not found")
	ErrNotOwner          = New(http.StatusForbidden, "NOT_OWNER", "you do not own this resource")
)

type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds a sentinel carrying its own HTTP status.
func New(status int, code, message string) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// NewAppError builds a client error (400 unless the code says otherwise).
func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Lookup resolves an error chain to the status, code and message the client sees.
// ok is false for errors that carry no AppError, which callers treat as internal.
func Lookup(err error) (status int, code, message string, ok bool) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", false
	}

	status = appErr.Status
	if status == 0 {
		status = http.StatusBadRequest
	}

	return status, appErr.Code, appErr.Message, true
}
