package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is returned by signup and signin.
type TokenResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
}

// UserResponse represents the caller's profile.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

// UserSummary is the public view of another user.
type UserSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UsersResponse is the result of a user search.
type UsersResponse struct {
	Users []UserSummary `json:"users"`
}

// UsersFromDomain converts search results.
func UsersFromDomain(users []*domain.User) *UsersResponse {
	resp := &UsersResponse{Users: make([]UserSummary, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, UserSummary{
			ID:        u.ID,
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		})
	}
	return resp
}

// BalanceResponse represents the caller's balance.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// TransactionResponse represents a ledger entry from the caller's side.
type TransactionResponse struct {
	ID          string                  `json:"id"`
	SenderID    string                  `json:"senderId"`
	ReceiverID  string                  `json:"receiverId"`
	Amount      decimal.Decimal         `json:"amount"`
	Direction   domain.NotificationKind `json:"direction"`
	Origin      domain.TransferOrigin   `json:"origin"`
	RecurringID *string                 `json:"recurringId,omitempty"`
	Timestamp   time.Time               `json:"timestamp"`
}

// TransactionFromDomain converts a transaction as seen by callerID.
func TransactionFromDomain(t *domain.Transaction, callerID string) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		SenderID:    t.SenderID,
		ReceiverID:  t.ReceiverID,
		Amount:      t.Amount,
		Direction:   t.Direction(callerID),
		Origin:      t.Origin,
		RecurringID: t.RecurringID,
		Timestamp:   t.Timestamp,
	}
}

// TransferResponse confirms a transfer.
type TransferResponse struct {
	Message     string               `json:"message"`
	Transaction *TransactionResponse `json:"transaction"`
}

// TransactionPageResponse is one page of history.
type TransactionPageResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Page         int                    `json:"page"`
	Limit        int                    `json:"limit"`
	HasMore      bool                   `json:"hasMore"`
}

// TransactionPageFromUseCase converts a page of history for callerID.
func TransactionPageFromUseCase(p *usecase.TransactionPage, callerID string) *TransactionPageResponse {
	resp := &TransactionPageResponse{
		Transactions: make([]*TransactionResponse, 0, len(p.Transactions)),
		Page:         p.Page,
		Limit:        p.Limit,
		HasMore:      p.HasMore,
	}
	for _, t := range p.Transactions {
		resp.Transactions = append(resp.Transactions, TransactionFromDomain(t, callerID))
	}
	return resp
}

// NotificationResponse represents one inbox entry.
type NotificationResponse struct {
	ID            string                  `json:"id"`
	Kind          domain.NotificationKind `json:"kind"`
	Amount        decimal.Decimal         `json:"amount"`
	Message       string                  `json:"message"`
	TransactionID string                  `json:"transactionId"`
	Read          bool                    `json:"read"`
	CreatedAt     time.Time               `json:"createdAt"`
}

// NotificationPageResponse is one page of the inbox.
type NotificationPageResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	UnreadCount   int64                   `json:"unreadCount"`
	Page          int                     `json:"page"`
	Limit         int                     `json:"limit"`
}

// NotificationPageFromUseCase converts a page of notifications.
func NotificationPageFromUseCase(p *usecase.NotificationPage) *NotificationPageResponse {
	resp := &NotificationPageResponse{
		Notifications: make([]*NotificationResponse, 0, len(p.Notifications)),
		UnreadCount:   p.UnreadCount,
		Page:          p.Page,
		Limit:         p.Limit,
	}
	for _, n := range p.Notifications {
		resp.Notifications = append(resp.Notifications, &NotificationResponse{
			ID:            n.ID,
			Kind:          n.Kind,
			Amount:        n.Amount,
			Message:       n.Message,
			TransactionID: n.TransactionID,
			Read:          n.Read,
			CreatedAt:     n.CreatedAt,
		})
	}
	return resp
}

// MarkAllReadResponse reports how many notifications changed.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// RecurringResponse represents a recurring transfer definition.
type RecurringResponse struct {
	ID             string                 `json:"id"`
	SenderID       string                 `json:"senderId"`
	ReceiverID     string                 `json:"receiverId"`
	Amount         decimal.Decimal        `json:"amount"`
	Frequency      domain.Frequency       `json:"frequency"`
	StartDate      time.Time              `json:"startDate"`
	EndDate        *time.Time             `json:"endDate,omitempty"`
	LastExecutedAt *time.Time             `json:"lastExecutedAt,omitempty"`
	Description    string                 `json:"description,omitempty"`
	Status         domain.RecurringStatus `json:"status"`
	FailureReason  string                 `json:"failureReason,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// RecurringFromDomain converts a definition to a response.
func RecurringFromDomain(rt *domain.RecurringTransfer) *RecurringResponse {
	return &RecurringResponse{
		ID:             rt.ID,
		SenderID:       rt.SenderID,
		ReceiverID:     rt.ReceiverID,
		Amount:         rt.Amount,
		Frequency:      rt.Frequency,
		StartDate:      rt.StartDate,
		EndDate:        rt.EndDate,
		LastExecutedAt: rt.LastExecutedAt,
		Description:    rt.Description,
		Status:         rt.Status,
		FailureReason:  rt.FailureReason,
		CreatedAt:      rt.CreatedAt,
	}
}

// RecurringCreatedResponse confirms a new definition.
type RecurringCreatedResponse struct {
	Message  string             `json:"message"`
	Transfer *RecurringResponse `json:"transfer"`
}

// RecurringListResponse lists definitions.
type RecurringListResponse struct {
	Transfers []*RecurringResponse `json:"transfers"`
}

// RecurringListFromDomain converts a list of definitions.
func RecurringListFromDomain(list []*domain.RecurringTransfer) *RecurringListResponse {
	resp := &RecurringListResponse{Transfers: make([]*RecurringResponse, 0, len(list))}
	for _, rt := range list {
		resp.Transfers = append(resp.Transfers, RecurringFromDomain(rt))
	}
	return resp
}
