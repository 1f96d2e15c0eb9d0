package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

const testUserID = "user-1"

// authedRequest builds a request as if Auth had accepted testUserID.
func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(middleware.WithUser(req.Context(), &domain.User{ID: testUserID, Username: "alice@example.com"}))
}

// withURLParam sets a chi URL parameter on req.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type userServiceStub struct {
	signupFn       func(ctx context.Context, input usecase.SignupInput) (*domain.User, *domain.Account, error)
	authenticateFn func(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	getFn          func(ctx context.Context, id string) (*domain.User, error)
	updateFn       func(ctx context.Context, input usecase.UpdateProfileInput) (*domain.User, error)
	searchFn       func(ctx context.Context, filter, callerID string) ([]*domain.User, error)
}

func (s *userServiceStub) Signup(ctx context.Context, input usecase.SignupInput) (*domain.User, *domain.Account, error) {
	return s.signupFn(ctx, input)
}

func (s *userServiceStub) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	return s.authenticateFn(ctx, input)
}

func (s *userServiceStub) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *userServiceStub) UpdateProfile(ctx context.Context, input usecase.UpdateProfileInput) (*domain.User, error) {
	return s.updateFn(ctx, input)
}

func (s *userServiceStub) SearchUsers(ctx context.Context, filter, callerID string) ([]*domain.User, error) {
	return s.searchFn(ctx, filter, callerID)
}

type accountServiceStub struct {
	balanceFn func(ctx context.Context, userID string) (decimal.Decimal, error)
	listFn    func(ctx context.Context, input usecase.ListTransactionsInput) (*usecase.TransactionPage, error)
}

func (s *accountServiceStub) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	return s.balanceFn(ctx, userID)
}

func (s *accountServiceStub) ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) (*usecase.TransactionPage, error) {
	return s.listFn(ctx, input)
}

type transferServiceStub struct {
	executeFn func(ctx context.Context, input usecase.ExecuteTransferInput) (*usecase.TransferResult, error)
}

func (s *transferServiceStub) Execute(ctx context.Context, input usecase.ExecuteTransferInput) (*usecase.TransferResult, error) {
	return s.executeFn(ctx, input)
}

type notificationServiceStub struct {
	listFn        func(ctx context.Context, input usecase.ListNotificationsInput) (*usecase.NotificationPage, error)
	markReadFn    func(ctx context.Context, id, userID string) error
	markAllReadFn func(ctx context.Context, userID string) (int64, error)
}

func (s *notificationServiceStub) List(ctx context.Context, input usecase.ListNotificationsInput) (*usecase.NotificationPage, error) {
	return s.listFn(ctx, input)
}

func (s *notificationServiceStub) MarkRead(ctx context.Context, id, userID string) error {
	return s.markReadFn(ctx, id, userID)
}

func (s *notificationServiceStub) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.markAllReadFn(ctx, userID)
}

type recurringServiceStub struct {
	createFn       func(ctx context.Context, input usecase.CreateRecurringInput) (*domain.RecurringTransfer, error)
	listFn         func(ctx context.Context, userID string) ([]*domain.RecurringTransfer, error)
	updateStatusFn func(ctx context.Context, input usecase.UpdateStatusInput) (*domain.RecurringTransfer, error)
	deleteFn       func(ctx context.Context, id, userID string) error
}

func (s *recurringServiceStub) Create(ctx context.Context, input usecase.CreateRecurringInput) (*domain.RecurringTransfer, error) {
	return s.createFn(ctx, input)
}

func (s *recurringServiceStub) List(ctx context.Context, userID string) ([]*domain.RecurringTransfer, error) {
	return s.listFn(ctx, userID)
}

func (s *recurringServiceStub) UpdateStatus(ctx context.Context, input usecase.UpdateStatusInput) (*domain.RecurringTransfer, error) {
	return s.updateStatusFn(ctx, input)
}

func (s *recurringServiceStub) Delete(ctx context.Context, id, userID string) error {
	return s.deleteFn(ctx, id, userID)
}
