package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// RecurringService defines the behavior needed by RecurringHandler.
type RecurringService interface {
	Create(ctx context.Context, input usecase.CreateRecurringInput) (*domain.RecurringTransfer, error)
	List(ctx context.Context, userID string) ([]*domain.RecurringTransfer, error)
	UpdateStatus(ctx context.Context, input usecase.UpdateStatusInput) (*domain.RecurringTransfer, error)
	Delete(ctx context.Context, id, userID string) error
}

// RecurringHandler manages recurring transfer definitions.
type RecurringHandler struct {
	recurring RecurringService
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurring RecurringService) *RecurringHandler {
	return &RecurringHandler{recurring: recurring}
}

// Create stores a new ACTIVE definition owned by the caller.
func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateRecurringRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(caller.ID)
	if err != nil {
		writeServiceError(w, r, "invalid recurring transfer", err)
		return
	}

	rt, err := h.recurring.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, "failed to create recurring transfer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RecurringCreatedResponse{
		Message:  "Recurring transfer created successfully",
		Transfer: dto.RecurringFromDomain(rt),
	})
}

// List returns definitions the caller sends or receives.
func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.recurring.List(r.Context(), caller.ID)
	if err != nil {
		writeServiceError(w, r, "failed to list recurring transfers", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurringListFromDomain(list))
}

// UpdateStatus pauses, resumes or finishes one of the caller's definitions.
func (h *RecurringHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing recurring transfer ID", "")
		return
	}

	var req dto.UpdateRecurringStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rt, err := h.recurring.UpdateStatus(r.Context(), usecase.UpdateStatusInput{
		ID:     id,
		UserID: caller.ID,
		Status: domain.RecurringStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
	})
	if err != nil {
		writeServiceError(w, r, "failed to update recurring transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurringFromDomain(rt))
}

// Delete removes one of the caller's definitions unless it is COMPLETED.
func (h *RecurringHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing recurring transfer ID", "")
		return
	}

	if err := h.recurring.Delete(r.Context(), id, caller.ID); err != nil {
		writeServiceError(w, r, "failed to delete recurring transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Recurring transfer deleted successfully"})
}
