package handler

import (
	deliveryapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/delivery"
	"github.com/gin-gonic/gin"
)

// DeliveryNoteHandler serves /delivery-notes
type DeliveryNoteHandler struct {
	BaseHandler
	deliveryNoteService *deliveryapp.DeliveryNoteService
}

func NewDeliveryNoteHandler(base BaseHandler, deliveryNoteService *deliveryapp.DeliveryNoteService) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{BaseHandler: base, deliveryNoteService: deliveryNoteService}
}

// List godoc
// @ID           listDeliveryNotes
// @Summary      List delivery notes
// @Description  Paginated delivery notes; search matches number or notes
// @Tags         delivery-notes
// @Produce      json
// @Param        page       query int    false "Page number" default(1)
// @Param        pageSize   query int    false "Page size (max 50)" default(10)
// @Param        search     query string false "Case-insensitive search"
// @Param        status     query string false "Pending, Approved or Cancelled"
// @Param        orderId    query int    false "Order ID"
// @Param        carrierId  query int    false "Carrier ID"
// @Success      200 {object} APIResponse[[]deliveryapp.DeliveryNoteResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /delivery-notes [get]
func (h *DeliveryNoteHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if !h.uintFilter(c, filter, "order_id", "orderId", "order_id") ||
		!h.uintFilter(c, filter, "carrier_id", "carrierId", "carrier_id") {
		return
	}

	page, err := h.deliveryNoteService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPaged(c, page)
}

// GetByID godoc
// @ID           getDeliveryNote
// @Summary      Get delivery note by ID
// @Tags         delivery-notes
// @Produce      json
// @Param        id path int true "Delivery note ID"
// @Success      200 {object} APIResponse[deliveryapp.DeliveryNoteResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /delivery-notes/{id} [get]
func (h *DeliveryNoteHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	note, err := h.deliveryNoteService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, note)
}

// Create godoc
// @ID           createDeliveryNote
// @Summary      Create a delivery note
// @Description  New notes start Pending; the order must be open
// @Tags         delivery-notes
// @Accept       json
// @Produce      json
// @Param        request body deliveryapp.CreateDeliveryNoteRequest true "Delivery note"
// @Success      201 {object} APIResponse[deliveryapp.DeliveryNoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Order or carrier not found"
// @Failure      409 {object} ErrorResponse "CLOSED_OR_REJECTED_ORDER or DELIVERY_NOTE_NUMBER_ALREADY_EXISTS"
// @Security     BearerAuth
// @Router       /delivery-notes [post]
func (h *DeliveryNoteHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req deliveryapp.CreateDeliveryNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	note, err := h.deliveryNoteService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, note)
}

// Update godoc
// @ID           updateDeliveryNote
// @Summary      Update a delivery note
// @Description  Notes of closed or rejected orders cannot be edited
// @Tags         delivery-notes
// @Accept       json
// @Produce      json
// @Param        id      path int                         true "Delivery note ID"
// @Param        request body deliveryapp.UpdateDeliveryNoteRequest true "Delivery note"
// @Success      200 {object} APIResponse[deliveryapp.DeliveryNoteResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "CLOSED_OR_REJECTED_ORDER, DELIVERY_NOTE_NUMBER_ALREADY_EXISTS or CONCURRENCY_CONFLICT"
// @Security     BearerAuth
// @Router       /delivery-notes/{id} [put]
func (h *DeliveryNoteHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req deliveryapp.UpdateDeliveryNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	note, err := h.deliveryNoteService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, note)
}

// ChangeStatus godoc
// @ID           changeDeliveryNoteStatus
// @Summary      Change delivery note status
// @Description  Pending to Approved or Cancelled, Approved to Cancelled
// @Tags         delivery-notes
// @Accept       json
// @Produce      json
// @Param        id      path int                               true "Delivery note ID"
// @Param        request body deliveryapp.ChangeDeliveryNoteStatusRequest true "Target status"
// @Success      200 {object} APIResponse[deliveryapp.DeliveryNoteResponse]
// @Failure      409 {object} ErrorResponse "INVALID_STATUS_TRANSITION or CONCURRENCY_CONFLICT"
// @Security     BearerAuth
// @Router       /delivery-notes/{id}/status [patch]
func (h *DeliveryNoteHandler) ChangeStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req deliveryapp.ChangeDeliveryNoteStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	note, err := h.deliveryNoteService.ChangeStatus(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, note)
}

// Delete godoc
// @ID           deleteDeliveryNote
// @Summary      Delete a delivery note
// @Description  Fails with 409 when its order is closed or rejected
// @Tags         delivery-notes
// @Param        id path int true "Delivery note ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /delivery-notes/{id} [delete]
func (h *DeliveryNoteHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.deliveryNoteService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete godoc
// @ID           bulkDeleteDeliveryNotes
// @Summary      Delete several delivery notes
// @Tags         delivery-notes
// @Accept       json
// @Param        request body dto.IDsRequest true "Delivery note IDs"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /delivery-notes/bulk-delete [post]
func (h *DeliveryNoteHandler) BulkDelete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.bulkIDs(c)
	if !ok {
		return
	}
	if err := h.deliveryNoteService.BulkDelete(c.Request.Context(), actor, ids); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
