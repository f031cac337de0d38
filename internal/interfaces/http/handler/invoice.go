package handler

import (
	financeapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler serves /invoices
type InvoiceHandler struct {
	BaseHandler
	invoiceService *financeapp.InvoiceService
}

func NewInvoiceHandler(base BaseHandler, invoiceService *financeapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, invoiceService: invoiceService}
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Description  Paginated invoices; search matches the invoice number
// @Tags         invoices
// @Produce      json
// @Param        page      query int    false "Page number" default(1)
// @Param        pageSize  query int    false "Page size (max 50)" default(10)
// @Param        search    query string false "Case-insensitive search"
// @Param        orderId   query int    false "Order ID"
// @Param        carrierId query int    false "Carrier ID"
// @Success      200 {object} APIResponse[[]financeapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	if !h.uintFilter(c, filter, "order_id", "orderId", "order_id") ||
		!h.uintFilter(c, filter, "carrier_id", "carrierId", "carrier_id") {
		return
	}
	page, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPaged(c, page)
}

// GetByID godoc
// @ID           getInvoice
// @Summary      Get invoice by ID
// @Tags         invoices
// @Produce      json
// @Param        id path int true "Invoice ID"
// @Success      200 {object} APIResponse[financeapp.InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Create godoc
// @ID           createInvoice
// @Summary      Create an invoice
// @Description  The carrier must have no pending delivery notes on the order, and the order must be open
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[financeapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Order or carrier not found"
// @Failure      409 {object} ErrorResponse "INVOICE_NUMBER_ALREADY_EXISTS, INVOICE_CARRIER_ORDER_ALREADY_EXISTS, CARRIER_HAS_PENDING_DELIVERY_NOTES or CLOSED_OR_REJECTED_ORDER"
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req financeapp.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Update godoc
// @ID           updateInvoice
// @Summary      Update an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path int                             true "Invoice ID"
// @Param        request body financeapp.UpdateInvoiceRequest true "Invoice"
// @Success      200 {object} APIResponse[financeapp.InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req financeapp.UpdateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Delete godoc
// @ID           deleteInvoice
// @Summary      Delete an invoice
// @Tags         invoices
// @Param        id path int true "Invoice ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "CLOSED_OR_REJECTED_ORDER"
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.invoiceService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete godoc
// @ID           bulkDeleteInvoices
// @Summary      Delete several invoices
// @Tags         invoices
// @Accept       json
// @Param        request body dto.IDsRequest true "Invoice IDs"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/bulk-delete [post]
func (h *InvoiceHandler) BulkDelete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.bulkIDs(c)
	if !ok {
		return
	}
	if err := h.invoiceService.BulkDelete(c.Request.Context(), actor, ids); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
