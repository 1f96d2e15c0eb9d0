package handler

import (
	"context"
	"net/http"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Execute(ctx context.Context, input usecase.ExecuteTransferInput) (*usecase.TransferResult, error)
}

// TransferHandler handles interactive transfers.
type TransferHandler struct {
	engine TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(engine TransferService) *TransferHandler {
	return &TransferHandler{engine: engine}
}

// Create moves money from the caller to another user.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.engine.Execute(r.Context(), req.ToUseCaseInput(caller.ID))
	if err != nil {
		writeServiceError(w, r, "transfer failed", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferResponse{
		Message:     "Transfer successful",
		Transaction: dto.TransactionFromDomain(result.Transaction, caller.ID),
	})
}
