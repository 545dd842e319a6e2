package handler

import (
	"net/http"

	"artmarket/internal/usecase/order"
	"artmarket/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service *order.Service
}

func NewOrderHandler(service *order.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterBuyerRoutes expects a group behind middleware.BuyerOnly.
func (h *OrderHandler) RegisterBuyerRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("", h.ListPurchases)
	}
}

// RegisterArtistRoutes expects a group behind middleware.ArtistOnly.
func (h *OrderHandler) RegisterArtistRoutes(router *gin.RouterGroup) {
	router.GET("/orders/sales", h.ListSales)
}

// RegisterPartyRoutes expects a group behind middleware.Auth; the service checks
// that the caller is a party of the order or an admin.
func (h *OrderHandler) RegisterPartyRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id/status", h.UpdateStatus)
	}
}

func (h *OrderHandler) actor(c *gin.Context) (order.Actor, bool) {
	authCtx, ok := currentUser(c)
	if !ok {
		return order.Actor{}, false
	}
	return order.Actor{UserID: authCtx.UserID, Role: authCtx.User.Role}, true
}

func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req order.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.PlaceOrder(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Order placed successfully", gin.H{"order": resp})
}

func (h *OrderHandler) ListPurchases(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req order.ListOrdersRequest
	if !bindQuery(c, &req) {
		return
	}

	list, err := h.service.ListPurchases(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.respondWithList(c, list)
}

func (h *OrderHandler) ListSales(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req order.ListOrdersRequest
	if !bindQuery(c, &req) {
		return
	}

	list, err := h.service.ListSales(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.respondWithList(c, list)
}

func (h *OrderHandler) respondWithList(c *gin.Context, list *order.OrderListResponse) {
	utils.SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", gin.H{
		"orders":     list.Orders,
		"total":      list.Total,
		"page":       list.Page,
		"pageSize":   list.PageSize,
		"totalPages": list.TotalPages,
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetOrder(c.Request.Context(), actor, orderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Order retrieved successfully", gin.H{"order": resp})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req order.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), actor, orderID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Order status updated successfully", gin.H{"order": resp})
}
