package handler

import (
	partnerapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// SellerHandler serves /sellers
type SellerHandler struct {
	BaseHandler
	sellerService *partnerapp.SellerService
}

func NewSellerHandler(base BaseHandler, sellerService *partnerapp.SellerService) *SellerHandler {
	return &SellerHandler{BaseHandler: base, sellerService: sellerService}
}

// List godoc
// @ID           listSellers
// @Summary      List sellers
// @Description  Paginated sellers; search matches name, email or phone
// @Tags         sellers
// @Produce      json
// @Param        page     query int    false "Page number" default(1)
// @Param        pageSize query int    false "Page size (max 50)" default(10)
// @Param        search   query string false "Case-insensitive search"
// @Success      200 {object} APIResponse[[]partnerapp.SellerResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sellers [get]
func (h *SellerHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.sellerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPaged(c, page)
}

// GetByID godoc
// @ID           getSeller
// @Summary      Get seller by ID
// @Tags         sellers
// @Produce      json
// @Param        id path int true "Seller ID"
// @Success      200 {object} APIResponse[partnerapp.SellerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sellers/{id} [get]
func (h *SellerHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	seller, err := h.sellerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, seller)
}

// Create godoc
// @ID           createSeller
// @Summary      Create a seller
// @Tags         sellers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateSellerRequest true "Seller"
// @Success      201 {object} APIResponse[partnerapp.SellerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "SELLER_NAME_ALREADY_EXISTS"
// @Security     BearerAuth
// @Router       /sellers [post]
func (h *SellerHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req partnerapp.CreateSellerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	seller, err := h.sellerService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, seller)
}

// Update godoc
// @ID           updateSeller
// @Summary      Update a seller
// @Description  The version field must match the stored version
// @Tags         sellers
// @Accept       json
// @Produce      json
// @Param        id      path int                             true "Seller ID"
// @Param        request body partnerapp.UpdateSellerRequest true "Seller"
// @Success      200 {object} APIResponse[partnerapp.SellerResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "SELLER_NAME_ALREADY_EXISTS or CONCURRENCY_CONFLICT"
// @Security     BearerAuth
// @Router       /sellers/{id} [put]
func (h *SellerHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req partnerapp.UpdateSellerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	seller, err := h.sellerService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, seller)
}

// Delete godoc
// @ID           deleteSeller
// @Summary      Delete a seller
// @Description  Fails with 409 while orders reference it
// @Tags         sellers
// @Param        id path int true "Seller ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sellers/{id} [delete]
func (h *SellerHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.sellerService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete godoc
// @ID           bulkDeleteSellers
// @Summary      Delete several sellers
// @Description  All or nothing: one missing or referenced seller aborts the whole request
// @Tags         sellers
// @Accept       json
// @Param        request body dto.IDsRequest true "Seller IDs"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sellers/bulk-delete [post]
func (h *SellerHandler) BulkDelete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.bulkIDs(c)
	if !ok {
		return
	}
	if err := h.sellerService.BulkDelete(c.Request.Context(), actor, ids); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
