package order

import (
	"fmt"

	domainOrder "artmarket/internal/domain/order"
	domainUser "artmarket/internal/domain/user"
	appErrors "artmarket/pkg/errors"
)

// State machine for order status transitions
var validTransitions = map[domainOrder.Status][]domainOrder.Status{
	domainOrder.StatusPaid: {
		domainOrder.StatusShipped,
		domainOrder.StatusCancelled, // stock goes back to the artwork
	},
	domainOrder.StatusShipped: {
		domainOrder.StatusDelivered,
	},
	domainOrder.StatusDelivered: {
		// Terminal state - no transitions
	},
	domainOrder.StatusCancelled: {
		// Terminal state - no transitions
	},
}

// ValidateStatusTransition checks if status transition is allowed
func ValidateStatusTransition(currentStatus, newStatus domainOrder.Status) error {
	allowedStatuses, exists := validTransitions[currentStatus]
	if !exists {
		return appErrors.NewAppError(
			"INVALID_STATUS",
			fmt.Sprintf("Unknown current status: %s", currentStatus),
			domainOrder.ErrInvalidStatus,
		)
	}

	for _, allowed := range allowedStatuses {
		if newStatus == allowed {
			return nil
		}
	}

	return appErrors.NewAppError(
		"INVALID_TRANSITION",
		fmt.Sprintf("Cannot transition from %s to %s", currentStatus, newStatus),
		domainOrder.ErrInvalidStatusTransition,
	)
}

// canSet reports whether the actor's side of the order may request the target status.
// Admins may drive any valid transition.
func canSet(actor Actor, o *domainOrder.Order, to domainOrder.Status) bool {
	if actor.Role == domainUser.RoleAdmin {
		return true
	}

	switch to {
	case domainOrder.StatusShipped:
		return o.ArtistID == actor.UserID
	case domainOrder.StatusDelivered, domainOrder.StatusCancelled:
		return o.BuyerID == actor.UserID
	default:
		return false
	}
}
