package order

import (
	"context"
	"fmt"
	"math"
	"strings"

	domainArtwork "artmarket/internal/domain/artwork"
	domainOrder "artmarket/internal/domain/order"
	"artmarket/internal/infrastructure/notification"
	"artmarket/internal/logger"
	appErrors "artmarket/pkg/errors"
	"artmarket/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const paymentRefPrefix = "pay_"

type Service struct {
	orderRepo   domainOrder.Repository
	artworkRepo domainArtwork.Repository
	publisher   notification.Publisher
	paymentRef  func() string
}

type Option func(*Service)

// WithPaymentRef replaces the mock payment reference generator.
func WithPaymentRef(fn func() string) Option {
	return func(s *Service) { s.paymentRef = fn }
}

func NewService(
	orderRepo domainOrder.Repository,
	artworkRepo domainArtwork.Repository,
	publisher notification.Publisher,
	opts ...Option,
) *Service {
	s := &Service{
		orderRepo:   orderRepo,
		artworkRepo: artworkRepo,
		publisher:   publisher,
		paymentRef: func() string {
			return paymentRefPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder runs the mock checkout: payment always succeeds and the order starts as paid.
func (s *Service) PlaceOrder(ctx context.Context, buyerID uuid.UUID, req *PlaceOrderRequest) (*OrderResponse, error) {
	req.ArtworkID = strings.TrimSpace(req.ArtworkID)

	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	artworkID, err := uuid.Parse(req.ArtworkID)
	if err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "artworkId must be a valid id", err)
	}

	a, err := s.artworkRepo.GetByID(ctx, artworkID)
	if err != nil {
		return nil, err
	}
	if a.Status == domainArtwork.StatusRemoved {
		return nil, domainArtwork.ErrArtworkNotFound
	}
	if !a.IsPublished() {
		return nil, domainArtwork.ErrArtworkNotForSale
	}
	if a.IsOwnedBy(buyerID) {
		return nil, domainArtwork.ErrOwnArtwork
	}
	if a.Stock < quantity {
		return nil, domainOrder.ErrOutOfStock
	}
	total, ok := orderTotal(a.Price, quantity)
	if !ok {
		return nil, domainOrder.ErrTotalTooLarge
	}

	o := &domainOrder.Order{
		BuyerID:    buyerID,
		ArtistID:   a.ArtistID,
		ArtworkID:  a.ID,
		Quantity:   quantity,
		UnitPrice:  a.Price,
		Total:      total,
		Status:     domainOrder.StatusPaid,
		PaymentRef: s.paymentRef(),
	}

	if err := s.orderRepo.Place(ctx, o); err != nil {
		return nil, err
	}

	logger.Info("Order placed",
		zap.String("order_id", o.ID.String()),
		zap.String("buyer_id", buyerID.String()),
		zap.String("artwork_id", a.ID.String()),
		zap.Int64("total", o.Total),
		zap.String("event", "order_placed"),
	)

	s.publish(ctx, notification.NewEvent(notification.EventOrderPlaced, a.ArtistID, map[string]interface{}{
		"orderId":   o.ID.String(),
		"artworkId": a.ID.String(),
		"title":     a.Title,
		"quantity":  quantity,
		"total":     o.Total,
	}))

	return ToOrderResponse(o), nil
}

// orderTotal multiplies in cents and reports false when the product would overflow.
func orderTotal(unitPrice int64, quantity int) (int64, bool) {
	if unitPrice < 0 || quantity <= 0 {
		return 0, false
	}
	if unitPrice > 0 && int64(quantity) > math.MaxInt64/unitPrice {
		return 0, false
	}
	return unitPrice * int64(quantity), true
}

func (s *Service) ListPurchases(ctx context.Context, buyerID uuid.UUID, req *ListOrdersRequest) (*OrderListResponse, error) {
	return s.list(ctx, &domainOrder.Filter{BuyerID: &buyerID}, req)
}

func (s *Service) ListSales(ctx context.Context, artistID uuid.UUID, req *ListOrdersRequest) (*OrderListResponse, error) {
	return s.list(ctx, &domainOrder.Filter{ArtistID: &artistID}, req)
}

func (s *Service) list(ctx context.Context, filter *domainOrder.Filter, req *ListOrdersRequest) (*OrderListResponse, error) {
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	if req.Status != "" {
		status := domainOrder.Status(req.Status)
		filter.Status = &status
	}
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	responses := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, ToOrderResponse(o))
	}

	return &OrderListResponse{
		Orders:     responses,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize)),
	}, nil
}

// GetOrder is visible to the buyer, the artist and admins; anyone else gets not found.
func (s *Service) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.IsParty(actor.UserID) && !actor.IsAdmin() {
		return nil, domainOrder.ErrOrderNotFound
	}

	return ToOrderResponse(o), nil
}

func (s *Service) UpdateStatus(ctx context.Context, actor Actor, orderID uuid.UUID, req *UpdateStatusRequest) (*OrderResponse, error) {
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))

	if err := utils.Validate(req); err != nil {
		return nil, err
	}
	to := domainOrder.Status(req.Status)
	if !to.Valid() {
		return nil, domainOrder.ErrInvalidStatus
	}

	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsParty(actor.UserID) && !actor.IsAdmin() {
		return nil, domainOrder.ErrOrderNotFound
	}
	if !canSet(actor, o, to) {
		return nil, domainOrder.ErrNotOwner
	}
	if err := ValidateStatusTransition(o.Status, to); err != nil {
		return nil, err
	}

	from := o.Status
	restock := to == domainOrder.StatusCancelled
	if err := s.orderRepo.UpdateStatus(ctx, orderID, from, to, restock); err != nil {
		return nil, err
	}
	o.Status = to

	logger.Info("Order status changed",
		zap.String("order_id", orderID.String()),
		zap.String("actor_id", actor.UserID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("event", "order_status_changed"),
	)

	data := map[string]interface{}{
		"orderId": o.ID.String(),
		"from":    string(from),
		"to":      string(to),
	}
	for _, recipient := range counterparties(actor, o) {
		s.publish(ctx, notification.NewEvent(notification.EventOrderStatusChanged, recipient, data))
	}

	return ToOrderResponse(o), nil
}

// counterparties are the parties of the order other than the actor.
func counterparties(actor Actor, o *domainOrder.Order) []uuid.UUID {
	var recipients []uuid.UUID
	for _, id := range []uuid.UUID{o.BuyerID, o.ArtistID} {
		if id != actor.UserID {
			recipients = append(recipients, id)
		}
	}
	return recipients
}

func (s *Service) publish(ctx context.Context, event notification.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("event", event.Type),
			zap.String("recipient_id", event.RecipientID.String()),
			zap.Error(err),
		)
	}
}
