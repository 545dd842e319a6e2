package order

import (
	"time"

	domainOrder "artmarket/internal/domain/order"
	domainUser "artmarket/internal/domain/user"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of an order operation.
type Actor struct {
	UserID uuid.UUID
	Role   domainUser.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == domainUser.RoleAdmin
}

type PlaceOrderRequest struct {
	ArtworkID string `json:"artworkId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=100"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=shipped delivered cancelled"`
}

type ListOrdersRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=paid shipped delivered cancelled"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type OrderResponse struct {
	ID         uuid.UUID `json:"id"`
	BuyerID    uuid.UUID `json:"buyerId"`
	ArtistID   uuid.UUID `json:"artistId"`
	ArtworkID  uuid.UUID `json:"artworkId"`
	Quantity   int       `json:"quantity"`
	UnitPrice  int64     `json:"unitPrice"`
	Total      int64     `json:"total"`
	Status     string    `json:"status"`
	PaymentRef string    `json:"paymentRef"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type OrderListResponse struct {
	Orders     []*OrderResponse `json:"orders"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

func ToOrderResponse(o *domainOrder.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	return &OrderResponse{
		ID:         o.ID,
		BuyerID:    o.BuyerID,
		ArtistID:   o.ArtistID,
		ArtworkID:  o.ArtworkID,
		Quantity:   o.Quantity,
		UnitPrice:  o.UnitPrice,
		Total:      o.Total,
		Status:     string(o.Status),
		PaymentRef: o.PaymentRef,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}
