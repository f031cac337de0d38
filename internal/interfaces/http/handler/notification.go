package handler

import (
	identityapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the caller's notifications
type NotificationHandler struct {
	BaseHandler
	notificationService *identityapp.NotificationService
}

func NewNotificationHandler(base BaseHandler, notificationService *identityapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{BaseHandler: base, notificationService: notificationService}
}

// List godoc
// @ID           listNotifications
// @Summary      List my notifications
// @Description  Newest first
// @Tags         notifications
// @Produce      json
// @Param        page     query int false "Page number" default(1)
// @Param        pageSize query int false "Page size (max 50)" default(10)
// @Success      200 {object} APIResponse[[]identityapp.NotificationResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.notificationService.GetMine(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPaged(c, page)
}

// UnreadCount godoc
// @ID           countUnreadNotifications
// @Summary      Count my unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.UnreadCountResponse]
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	count, err := h.notificationService.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// MarkAsRead godoc
// @ID           markNotificationRead
// @Summary      Mark a notification as read
// @Tags         notifications
// @Param        id path int true "Notification ID"
// @Success      204
// @Failure      404 {object} ErrorResponse "NOTIFICATION_NOT_FOUND"
// @Security     BearerAuth
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.notificationService.MarkAsRead(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkAllAsRead godoc
// @ID           markAllNotificationsRead
// @Summary      Mark all my notifications as read
// @Tags         notifications
// @Success      204
// @Security     BearerAuth
// @Router       /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), actor); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete godoc
// @ID           deleteNotification
// @Summary      Delete a notification
// @Tags         notifications
// @Param        id path int true "Notification ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.notificationService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete godoc
// @ID           bulkDeleteNotifications
// @Summary      Delete several of my notifications
// @Tags         notifications
// @Accept       json
// @Param        request body dto.IDsRequest true "Notification IDs"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/bulk-delete [post]
func (h *NotificationHandler) BulkDelete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	ids, ok := h.bulkIDs(c)
	if !ok {
		return
	}
	if err := h.notificationService.BulkDelete(c.Request.Context(), actor, ids); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
