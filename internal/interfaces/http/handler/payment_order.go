package handler

import (
	financeapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// PaymentOrderHandler serves /payment-orders
type PaymentOrderHandler struct {
	BaseHandler
	paymentOrderService *financeapp.PaymentOrderService
}

func NewPaymentOrderHandler(base BaseHandler, paymentOrderService *financeapp.PaymentOrderService) *PaymentOrderHandler {
	return &PaymentOrderHandler{BaseHandler: base, paymentOrderService: paymentOrderService}
}

// List godoc
// @ID           listPaymentOrders
// @Summary      List payment orders
// @Description  Paginated payment orders; search matches the payment order number
// @Tags         payment-orders
// @Produce      json
// @Param        page      query int    false "Page number" default(1)
// @Param        pageSize  query int    false "Page size (max 50)" default(10)
// @Param        search    query string false "Case-insensitive search"
// @Param        orderId   query int    false "Order ID"
// @Param        carrierId query int    false "Carrier ID"
// @Success      200 {object} APIResponse[[]financeapp.PaymentOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payment-orders [get]
func (h *PaymentOrderHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	if !h.uintFilter(c, filter, "order_id", "orderId", "order_id") ||
		!h.uintFilter(c, filter, "carrier_id", "carrierId", "carrier_id") {
		return
	}
	page, err := h.paymentOrderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPaged(c, page)
}

// GetByID godoc
// @ID           getPaymentOrder
// @Summary      Get payment order by ID
// @Tags         payment-orders
// @Produce      json
// @Param        id path int true "Payment order ID"
// @Success      200 {object} APIResponse[financeapp.PaymentOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payment-orders/{id} [get]
func (h *PaymentOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	paymentOrder, err := h.paymentOrderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, paymentOrder)
}

// Create godoc
// @ID           createPaymentOrder
// @Summary      Create a payment order
// @Description  The order must be open
// @Tags         payment-orders
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreatePaymentOrderRequest true "Payment order"
// @Success      201 {object} APIResponse[financeapp.PaymentOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Order or carrier not found"
// @Failure      409 {object} ErrorResponse "PAYMENT_ORDER_NUMBER_ALREADY_EXISTS, PAYMENT_ORDER_CARRIER_ORDER_ALREADY_EXISTS or CLOSED_OR_REJECTED_ORDER"
// @Security     BearerAuth
// @Router       /payment-orders [post]
func (h *PaymentOrderHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req financeapp.CreatePaymentOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	paymentOrder, err := h.paymentOrderService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, paymentOrder)
}

// Update godoc
// @ID           updatePaymentOrder
// @Summary      Update a payment order
// @Tags         payment-orders
// @Accept       json
// @Produce      json
// @Param        id      path int                             true "Payment order ID"
// @Param        request body financeapp.UpdatePaymentOrderRequest true "Payment order"
// @Success      200 {object} APIResponse[financeapp.PaymentOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payment-orders/{id} [put]
func (h *PaymentOrderHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req financeapp.UpdatePaymentOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	paymentOrder, err := h.paymentOrderService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, paymentOrder)
}

// Delete godoc
// @ID           deletePaymentOrder
// @Summary      Delete a payment order
// @Tags         payment-orders
// @Param        id path int true "Payment order ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payment-orders/{id} [delete]
func (h *PaymentOrderHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.paymentOrderService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete godoc
// @ID           bulkDeletePaymentOrders
// @Summary      Delete several payment orders
// @Tags         payment-orders
// @Accept       json
// @Param        request body dto.IDsRequest true "Payment order IDs"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payment-orders/bulk-delete [post]
func (h *PaymentOrderHandler) BulkDelete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.bulkIDs(c)
	if !ok {
		return
	}
	if err := h.paymentOrderService.BulkDelete(c.Request.Context(), actor, ids); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
