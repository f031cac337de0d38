package handler

import (
	partnerapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CarrierHandler serves /carriers
type CarrierHandler struct {
	BaseHandler
	carrierService *partnerapp.CarrierService
}

func NewCarrierHandler(base BaseHandler, carrierService *partnerapp.CarrierService) *CarrierHandler {
	return &CarrierHandler{BaseHandler: base, carrierService: carrierService}
}

// List godoc
// @ID           listCarriers
// @Summary      List carriers
// @Description  Paginated carriers; search matches name, tax id or email
// @Tags         carriers
// @Produce      json
// @Param        page     query int    false "Page number" default(1)
// @Param        pageSize query int    false "Page size (max 50)" default(10)
// @Param        search   query string false "Case-insensitive search"
// @Success      200 {object} APIResponse[[]partnerapp.CarrierResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /carriers [get]
func (h *CarrierHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.carrierService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPaged(c, page)
}

// GetByID godoc
// @ID           getCarrier
// @Summary      Get carrier by ID
// @Tags         carriers
// @Produce      json
// @Param        id path int true "Carrier ID"
// @Success      200 {object} APIResponse[partnerapp.CarrierResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /carriers/{id} [get]
func (h *CarrierHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	carrier, err := h.carrierService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, carrier)
}

// Create godoc
// @ID           createCarrier
// @Summary      Create a carrier
// @Tags         carriers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateCarrierRequest true "Carrier"
// @Success      201 {object} APIResponse[partnerapp.CarrierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "CARRIER_NAME_ALREADY_EXISTS"
// @Security     BearerAuth
// @Router       /carriers [post]
func (h *CarrierHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req partnerapp.CreateCarrierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	carrier, err := h.carrierService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, carrier)
}

// Update godoc
// @ID           updateCarrier
// @Summary      Update a carrier
// @Description  The version field must match the stored version
// @Tags         carriers
// @Accept       json
// @Produce      json
// @Param        id      path int                             true "Carrier ID"
// @Param        request body partnerapp.UpdateCarrierRequest true "Carrier"
// @Success      200 {object} APIResponse[partnerapp.CarrierResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "CARRIER_NAME_ALREADY_EXISTS or CONCURRENCY_CONFLICT"
// @Security     BearerAuth
// @Router       /carriers/{id} [put]
func (h *CarrierHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req partnerapp.UpdateCarrierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	carrier, err := h.carrierService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, carrier)
}

// Delete godoc
// @ID           deleteCarrier
// @Summary      Delete a carrier
// @Description  Fails with 409 while delivery notes, invoices, payment orders or orders reference it
// @Tags         carriers
// @Param        id path int true "Carrier ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /carriers/{id} [delete]
func (h *CarrierHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.carrierService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete godoc
// @ID           bulkDeleteCarriers
// @Summary      Delete several carriers
// @Description  All or nothing: one missing or referenced carrier aborts the whole request
// @Tags         carriers
// @Accept       json
// @Param        request body dto.IDsRequest true "Carrier IDs"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /carriers/bulk-delete [post]
func (h *CarrierHandler) BulkDelete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.bulkIDs(c)
	if !ok {
		return
	}
	if err := h.carrierService.BulkDelete(c.Request.Context(), actor, ids); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
