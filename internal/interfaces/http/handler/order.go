package handler

import (
	tradeapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// OrderHandler serves /orders
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

func NewOrderHandler(base BaseHandler, orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{BaseHandler: base, orderService: orderService}
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Description  Paginated orders; search matches number, origin or destination
// @Tags         orders
// @Produce      json
// @Param        page       query int    false "Page number" default(1)
// @Param        pageSize   query int    false "Page size (max 50)" default(10)
// @Param        search     query string false "Case-insensitive search"
// @Param        status     query string false "Pending, Closed or Rejected"
// @Param        sellerId   query int    false "Seller ID"
// @Param        customerId query int    false "Customer ID"
// @Param        carrierId  query int    false "Carrier ID"
// @Success      200 {object} APIResponse[[]tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if !h.uintFilter(c, filter, "seller_id", "sellerId", "seller_id") ||
		!h.uintFilter(c, filter, "customer_id", "customerId", "customer_id") ||
		!h.uintFilter(c, filter, "carrier_id", "carrierId", "carrier_id") {
		return
	}

	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPaged(c, page)
}

// GetByID godoc
// @ID           getOrder
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Param        id path int true "Order ID"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Create godoc
// @ID           createOrder
// @Summary      Create an order
// @Description  New orders start Pending and record the caller as creator
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateOrderRequest true "Order"
// @Success      201 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Seller, customer or carrier not found"
// @Failure      409 {object} ErrorResponse "ORDER_NUMBER_ALREADY_EXISTS"
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req tradeapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Update godoc
// @ID           updateOrder
// @Summary      Update an order
// @Description  Closed and rejected orders cannot be edited
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path int                         true "Order ID"
// @Param        request body tradeapp.UpdateOrderRequest true "Order"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "CLOSED_OR_REJECTED_ORDER, ORDER_NUMBER_ALREADY_EXISTS or CONCURRENCY_CONFLICT"
// @Security     BearerAuth
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req tradeapp.UpdateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ChangeStatus godoc
// @ID           changeOrderStatus
// @Summary      Change order status
// @Description  Pending to Closed or Rejected, Rejected back to Pending. Closed is final.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path int                               true "Order ID"
// @Param        request body tradeapp.ChangeOrderStatusRequest true "Target status"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      409 {object} ErrorResponse "INVALID_STATUS_TRANSITION or CONCURRENCY_CONFLICT"
// @Security     BearerAuth
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req tradeapp.ChangeOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.ChangeStatus(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete godoc
// @ID           deleteOrder
// @Summary      Delete an order
// @Description  Removes its delivery notes, invoices and payment orders as well
// @Tags         orders
// @Param        id path int true "Order ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "CLOSED_OR_REJECTED_ORDER"
// @Security     BearerAuth
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete godoc
// @ID           bulkDeleteOrders
// @Summary      Delete several orders
// @Tags         orders
// @Accept       json
// @Param        request body dto.IDsRequest true "Order IDs"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/bulk-delete [post]
func (h *OrderHandler) BulkDelete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.bulkIDs(c)
	if !ok {
		return
	}
	if err := h.orderService.BulkDelete(c.Request.Context(), actor, ids); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
