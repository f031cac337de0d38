package handler

import (
	"io"
	"net/http"
	"strconv"

	identityapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// UserHandler serves /users and the caller's own profile under /users/me
type UserHandler struct {
	BaseHandler
	userService  *identityapp.UserService
	maxImageSize int64
}

// NewUserHandler creates a user handler. Uploads are read up to one byte
// past maxImageSize so the service can reject oversized images.
func NewUserHandler(base BaseHandler, userService *identityapp.UserService, maxImageSize int64) *UserHandler {
	if maxImageSize <= 0 {
		maxImageSize = identityapp.DefaultMaxImageSize
	}
	return &UserHandler{BaseHandler: base, userService: userService, maxImageSize: maxImageSize}
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Description  Paginated users; search matches name or email
// @Tags         users
// @Produce      json
// @Param        page     query int    false "Page number" default(1)
// @Param        pageSize query int    false "Page size (max 50)" default(10)
// @Param        search   query string false "Case-insensitive search"
// @Param        role     query string false "Role filter"
// @Success      200 {object} APIResponse[[]identityapp.UserResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	if role := c.Query("role"); role != "" {
		filter.Filters["role"] = role
	}
	page, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPaged(c, page)
}

// GetByID godoc
// @ID           getUser
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      404 {object} ErrorResponse "USER_NOT_FOUND"
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Create godoc
// @ID           createUser
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateUserRequest true "User"
// @Success      201 {object} APIResponse[identityapp.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "EMAIL_ALREADY_EXISTS"
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req identityapp.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// UpdateRole godoc
// @ID           updateUserRole
// @Summary      Change a user's role
// @Description  The last administrator cannot be demoted. Existing tokens of the user are revoked.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path int                           true "User ID"
// @Param        request body identityapp.UpdateRoleRequest true "Role"
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "CONCURRENCY_CONFLICT"
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/role [patch]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req identityapp.UpdateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateRole(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete godoc
// @ID           deleteUser
// @Summary      Delete a user
// @Tags         users
// @Param        id path int true "User ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete godoc
// @ID           bulkDeleteUsers
// @Summary      Delete several users
// @Tags         users
// @Accept       json
// @Param        request body dto.IDsRequest true "User IDs"
// @Success      204
// @Failure      404 {object} ErrorResponse "SOME_USERS_NOT_FOUND"
// @Security     BearerAuth
// @Router       /users/bulk-delete [post]
func (h *UserHandler) BulkDelete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.bulkIDs(c)
	if !ok {
		return
	}
	if err := h.userService.BulkDelete(c.Request.Context(), actor, ids); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetImageURL godoc
// @ID           getUserImageUrl
// @Summary      Signed URL of a user's profile image
// @Tags         users
// @Produce      json
// @Param        id  path  int true  "User ID"
// @Param        ttl query int false "URL lifetime in minutes (max 1440)" default(60)
// @Success      200 {object} APIResponse[identityapp.ImageURLResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/image [get]
func (h *UserHandler) GetImageURL(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.imageURL(c, id)
}

// GetMe godoc
// @ID           getMyProfile
// @Summary      Current user's profile
// @Tags         profile
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), actor.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// UpdateMe godoc
// @ID           updateMyProfile
// @Summary      Update the current user's name and email
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body identityapp.UpdateProfileRequest true "Profile"
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      409 {object} ErrorResponse "EMAIL_ALREADY_EXISTS or CONCURRENCY_CONFLICT"
// @Security     BearerAuth
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req identityapp.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), actor, actor.UserID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// UploadImage godoc
// @ID           uploadMyImage
// @Summary      Upload a profile image
// @Description  JPEG, PNG or WEBP. The previous image is removed.
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Image"
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      400 {object} ErrorResponse "INVALID_IMAGE_TYPE or IMAGE_TOO_LARGE"
// @Security     BearerAuth
// @Router       /users/me/image [put]
func (h *UserHandler) UploadImage(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing image file")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unreadable image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxImageSize+1))
	if err != nil {
		h.BadRequest(c, "Unreadable image file")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	user, err := h.userService.UploadImage(c.Request.Context(), actor, &identityapp.UploadImageRequest{
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// DeleteImage godoc
// @ID           deleteMyImage
// @Summary      Remove the profile image
// @Tags         profile
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me/image [delete]
func (h *UserHandler) DeleteImage(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteImage(c.Request.Context(), actor); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetMyImageURL godoc
// @ID           getMyImageUrl
// @Summary      Signed URL of the current user's profile image
// @Tags         profile
// @Produce      json
// @Param        ttl query int false "URL lifetime in minutes (max 1440)" default(60)
// @Success      200 {object} APIResponse[identityapp.ImageURLResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me/image [get]
func (h *UserHandler) GetMyImageURL(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	h.imageURL(c, actor.UserID)
}

func (h *UserHandler) imageURL(c *gin.Context, userID uint) {
	ttl := 0
	if raw := c.Query("ttl"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid ttl")
			return
		}
		ttl = v
	}
	resp, err := h.userService.GetImageURL(c.Request.Context(), userID, ttl)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
