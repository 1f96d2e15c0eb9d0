package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) (*usecase.TransactionPage, error)
}

// AccountHandler handles balance and history requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Balance returns the caller's balance.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	balance, err := h.accountUC.GetBalance(r.Context(), caller.ID)
	if err != nil {
		writeServiceError(w, r, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{Balance: balance})
}

// Transactions lists the caller's transfers, newest first.
func (h *AccountHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	input, err := parseTransactionFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}
	input.UserID = caller.ID

	page, err := h.accountUC.ListTransactions(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionPageFromUseCase(page, caller.ID))
}

func parseTransactionFilter(r *http.Request) (usecase.ListTransactionsInput, error) {
	q := r.URL.Query()
	input := usecase.ListTransactionsInput{
		Page:  parseIntQuery(r, "page", 1),
		Limit: parseIntQuery(r, "limit", domain.DefaultPageSize),
	}

	parseTime := func(field string, endOfDay bool) (*time.Time, error) {
		raw := q.Get(field)
		if raw == "" {
			return nil, nil
		}
		t, err := dto.ParseDate(raw, endOfDay)
		if err != nil {
			return nil, domain.NewValidationError(field, err.Error())
		}
		return &t, nil
	}

	parseAmount := func(field string) (*decimal.Decimal, error) {
		raw := q.Get(field)
		if raw == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			return nil, domain.NewValidationError(field, "must be a non-negative number")
		}
		return &d, nil
	}

	var err error
	if input.StartDate, err = parseTime("startDate", false); err != nil {
		return input, err
	}
	if input.EndDate, err = parseTime("endDate", true); err != nil {
		return input, err
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return input, domain.NewValidationError("endDate", "must not be before startDate")
	}

	if input.MinAmount, err = parseAmount("minAmount"); err != nil {
		return input, err
	}
	if input.MaxAmount, err = parseAmount("maxAmount"); err != nil {
		return input, err
	}
	if input.MinAmount != nil && input.MaxAmount != nil && input.MaxAmount.LessThan(*input.MinAmount) {
		return input, domain.NewValidationError("maxAmount", "must not be less than minAmount")
	}

	return input, nil
}
