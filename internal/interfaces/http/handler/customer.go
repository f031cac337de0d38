package handler

import (
	partnerapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CustomerHandler serves /customers
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

func NewCustomerHandler(base BaseHandler, customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{BaseHandler: base, customerService: customerService}
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  Paginated customers; search matches name, tax id, email or address
// @Tags         customers
// @Produce      json
// @Param        page     query int    false "Page number" default(1)
// @Param        pageSize query int    false "Page size (max 50)" default(10)
// @Param        search   query string false "Case-insensitive search"
// @Success      200 {object} APIResponse[[]partnerapp.CustomerResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPaged(c, page)
}

// GetByID godoc
// @ID           getCustomer
// @Summary      Get customer by ID
// @Tags         customers
// @Produce      json
// @Param        id path int true "Customer ID"
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateCustomerRequest true "Customer"
// @Success      201 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "CUSTOMER_NAME_ALREADY_EXISTS"
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req partnerapp.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customer, err := h.customerService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Description  The version field must match the stored version
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id      path int                             true "Customer ID"
// @Param        request body partnerapp.UpdateCustomerRequest true "Customer"
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "CUSTOMER_NAME_ALREADY_EXISTS or CONCURRENCY_CONFLICT"
// @Security     BearerAuth
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req partnerapp.UpdateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customer, err := h.customerService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Description  Fails with 409 while orders reference it
// @Tags         customers
// @Param        id path int true "Customer ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.customerService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete godoc
// @ID           bulkDeleteCustomers
// @Summary      Delete several customers
// @Description  All or nothing: one missing or referenced customer aborts the whole request
// @Tags         customers
// @Accept       json
// @Param        request body dto.IDsRequest true "Customer IDs"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/bulk-delete [post]
func (h *CustomerHandler) BulkDelete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.bulkIDs(c)
	if !ok {
		return
	}
	if err := h.customerService.BulkDelete(c.Request.Context(), actor, ids); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
