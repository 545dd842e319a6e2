package user

import appErrors "artmarket/pkg/errors"

var (
	ErrUserNotFound    = appErrors.ErrUserNotFound
	ErrEmailTaken      = appErrors.ErrEmailTaken
	ErrUsernameTaken   = appErrors.ErrUsernameTaken
	ErrInvalidUserRole = appErrors.ErrInvalidUserRole
	ErrAccountBlocked  = appErrors.ErrAccountBlocked
	ErrSelfModeration  = appErrors.ErrSelfModeration

	ErrOTPNotRequested    = appErrors.ErrOTPNotRequested
	ErrOTPInvalid         = appErrors.ErrOTPInvalid
	ErrOTPExpired         = appErrors.ErrOTPExpired
	ErrResetTokenMismatch = appErrors.ErrResetTokenMismatch
	ErrResetNotVerified   = appErrors.ErrResetNotVerified
)
