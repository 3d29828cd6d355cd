// Notification HTTP handlers.
//
// Every endpoint here acts on the caller's own notifications and requires an
// identity:
//   - GET /notifications                (newest 50, read or not)
//   - GET /notifications/count          (unread count)
//   - PUT /notifications/read-all
//   - PUT /notifications/{id}/read
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-feed/internal/domain"
)

// NotificationListResponse wraps the caller's notifications.
type NotificationListResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	Count         int                   `json:"count" example:"5"`
}

// UnreadCountResponse carries the number of unread notifications.
type UnreadCountResponse struct {
	Count int64 `json:"count" example:"3"`
}

// MarkAllReadResponse reports how many notifications changed to read.
type MarkAllReadResponse struct {
	Marked int64 `json:"marked" example:"3"`
}

// ListNotifications godoc
// @ID          listNotifications
// @Summary     List notifications
// @Description Returns the caller's newest notifications, newest first.
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller ID"
//
// @Success     200  {object} handlers.NotificationListResponse
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Router      /notifications [get]
func (h *Handlers) ListNotifications(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	list, err := h.notes.List(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	if list == nil {
		list = []domain.Notification{}
	}
	ok(c, http.StatusOK, NotificationListResponse{Notifications: list, Count: len(list)})
}

// CountUnreadNotifications godoc
// @ID          countUnreadNotifications
// @Summary     Unread notification count
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller ID"
//
// @Success     200  {object} handlers.UnreadCountResponse
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Router      /notifications/count [get]
func (h *Handlers) CountUnreadNotifications(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	n, err := h.notes.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, UnreadCountResponse{Count: n})
}

// MarkAllNotificationsRead godoc
// @ID          markAllNotificationsRead
// @Summary     Mark every notification read
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller ID"
//
// @Success     200  {object} handlers.MarkAllReadResponse
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Router      /notifications/read-all [put]
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	n, err := h.notes.MarkAllRead(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, MarkAllReadResponse{Marked: n})
}

// MarkNotificationRead godoc
// @ID          markNotificationRead
// @Summary     Mark one notification read
// @Tags        Notifications
//
// @Param       X-User-ID  header  string  true  "Caller ID"
// @Param       id         path    string  true  "Notification ID"
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     404  {object} handlers.ErrorResponse "Notification not found"
// @Router      /notifications/{id}/read [put]
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	if err := h.notes.MarkRead(c.Request.Context(), uid, c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
