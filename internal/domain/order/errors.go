package order

import appErrors "artmarket/pkg/errors"

var (
	ErrOrderNotFound = appErrors.ErrOrderNotFound
	ErrOutOfStock    = appErrors.ErrOutOfStock
	ErrNotOwner      = appErrors.ErrNotOwner

	ErrInvalidStatus           = appErrors.NewAppError("INVALID_STATUS", "invalid order status", nil)
	ErrInvalidStatusTransition = appErrors.NewAppError("INVALID_TRANSITION", "invalid status transition", nil)
	ErrTotalTooLarge           = appErrors.NewAppError("TOTAL_TOO_LARGE", "order total exceeds the supported amount", nil)
)
