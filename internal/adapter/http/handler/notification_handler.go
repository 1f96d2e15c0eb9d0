package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// NotificationService defines the behavior needed by NotificationHandler.
type NotificationService interface {
	List(ctx context.Context, input usecase.ListNotificationsInput) (*usecase.NotificationPage, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// NotificationHandler serves the caller's inbox.
type NotificationHandler struct {
	notifications NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns a page of the caller's notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread"))

	page, err := h.notifications.List(r.Context(), usecase.ListNotificationsInput{
		UserID:     caller.ID,
		UnreadOnly: unreadOnly,
		Page:       parseIntQuery(r, "page", 1),
		Limit:      parseIntQuery(r, "limit", domain.DefaultPageSize),
	})
	if err != nil {
		writeServiceError(w, r, "failed to list notifications", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NotificationPageFromUseCase(page))
}

// MarkRead marks one of the caller's notifications read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing notification ID", "")
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id, caller.ID); err != nil {
		writeServiceError(w, r, "failed to mark notification read", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Notification marked as read"})
}

// MarkAllRead marks every unread notification of the caller read.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	updated, err := h.notifications.MarkAllRead(r.Context(), caller.ID)
	if err != nil {
		writeServiceError(w, r, "failed to mark notifications read", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MarkAllReadResponse{Updated: updated})
}
