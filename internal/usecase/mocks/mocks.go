package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// undo registers a compensating action on tx when tx is a MockTransaction.
func undo(tx usecase.Transaction, fn func()) {
	if mt, ok := tx.(*MockTransaction); ok {
		mt.onRollback(fn)
	}
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateTxFunc              func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByUserIDFunc           func(ctx context.Context, userID string) (*domain.Account, error)
	GetByUserIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, userIDs []string) ([]*domain.Account, error)
	UpdateBalanceFunc         func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Add stores an account directly, outside any transaction.
func (m *MockAccountRepository) Add(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc := *account
	m.accounts[acc.ID] = &acc
}

// Balance returns the stored balance of userID's account.
func (m *MockAccountRepository) Balance(userID string) decimal.Decimal {
	acc, err := m.GetByUserID(context.Background(), userID)
	if err != nil {
		return decimal.Zero
	}
	return acc.Balance
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, account)
	}
	m.Add(account)
	undo(tx, func() {
		m.mu.Lock()
		delete(m.accounts, account.ID)
		m.mu.Unlock()
	})
	return nil
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.UserID == userID {
			c := *acc
			return &c, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByUserIDsForUpdate(ctx context.Context, tx usecase.Transaction, userIDs []string) ([]*domain.Account, error) {
	if m.GetByUserIDsForUpdateFunc != nil {
		return m.GetByUserIDsForUpdateFunc(ctx, tx, userIDs)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		for _, id := range userIDs {
			if acc.UserID == id {
				c := *acc
				accounts = append(accounts, &c)
			}
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].UserID < accounts[j].UserID })
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	prev := *acc
	acc.Balance = balance
	acc.Version++
	acc.UpdatedAt = updatedAt
	undo(tx, func() {
		m.mu.Lock()
		*acc = prev
		m.mu.Unlock()
	})
	return nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateTxFunc      func(ctx context.Context, tx usecase.Transaction, user *domain.User) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.User, error)
	GetByIDsTxFunc    func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	UpdateFunc        func(ctx context.Context, user *domain.User) error
	SearchFunc        func(ctx context.Context, filter, excludeID string, limit int) ([]*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// Add stores a user directly, outside any transaction.
func (m *MockUserRepository) Add(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.users[u.ID] = &u
}

func (m *MockUserRepository) CreateTx(ctx context.Context, tx usecase.Transaction, user *domain.User) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, user)
	}
	m.mu.Lock()
	for _, u := range m.users {
		if u.Username == user.Username {
			m.mu.Unlock()
			return domain.ErrUserExists
		}
	}
	m.mu.Unlock()
	m.Add(user)
	undo(tx, func() {
		m.mu.Lock()
		delete(m.users, user.ID)
		m.mu.Unlock()
	})
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByIDsTx(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.User, error) {
	if m.GetByIDsTxFunc != nil {
		return m.GetByIDsTxFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var users []*domain.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			c := *u
			users = append(users, &c)
		}
	}
	return users, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	u := *user
	m.users[u.ID] = &u
	return nil
}

func (m *MockUserRepository) Search(ctx context.Context, filter, excludeID string, limit int) ([]*domain.User, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, filter, excludeID, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.ToLower(filter)
	var users []*domain.User
	for _, u := range m.users {
		if u.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(u.FirstName), needle) || strings.Contains(strings.ToLower(u.LastName), needle) {
			c := *u
			users = append(users, &c)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions []*domain.Transaction

	CreateFunc func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	ListFunc   func(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

// All returns every stored transaction in insertion order.
func (m *MockTransactionRepository) All() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Transaction(nil), m.transactions...)
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, txn)
	undo(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, t := range m.transactions {
			if t == txn {
				m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (m *MockTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transaction
	for i := len(m.transactions) - 1; i >= 0; i-- {
		t := m.transactions[i]
		if t.SenderID != filter.UserID && t.ReceiverID != filter.UserID {
			continue
		}
		if filter.StartDate != nil && t.Timestamp.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && t.Timestamp.After(*filter.EndDate) {
			continue
		}
		if filter.MinAmount != nil && t.Amount.LessThan(*filter.MinAmount) {
			continue
		}
		if filter.MaxAmount != nil && t.Amount.GreaterThan(*filter.MaxAmount) {
			continue
		}
		result = append(result, t)
	}
	if filter.Offset >= len(result) {
		return nil, nil
	}
	result = result[filter.Offset:]
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications []*domain.Notification

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, notification *domain.Notification) error
	ListByUserFunc  func(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, error)
	CountUnreadFunc func(ctx context.Context, userID string) (int64, error)
	MarkReadFunc    func(ctx context.Context, id, userID string) error
	MarkAllReadFunc func(ctx context.Context, userID string) (int64, error)
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

// All returns every stored notification in insertion order.
func (m *MockNotificationRepository) All() []*domain.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Notification(nil), m.notifications...)
}

func (m *MockNotificationRepository) Create(ctx context.Context, tx usecase.Transaction, notification *domain.Notification) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, notification)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, notification)
	undo(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, n := range m.notifications {
			if n == notification {
				m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, unreadOnly, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		n := m.notifications[i]
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		result = append(result, n)
	}
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	if m.CountUnreadFunc != nil {
		return m.CountUnreadFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, id, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

// MockRecurringTransferRepository is a mock implementation of RecurringTransferRepository.
type MockRecurringTransferRepository struct {
	mu        sync.RWMutex
	recurring map[string]*domain.RecurringTransfer

	CreateFunc           func(ctx context.Context, rt *domain.RecurringTransfer) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.RecurringTransfer, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.RecurringTransfer, error)
	ListByUserFunc       func(ctx context.Context, userID string) ([]*domain.RecurringTransfer, error)
	ListCandidatesFunc   func(ctx context.Context, now time.Time, limit int) ([]*domain.RecurringTransfer, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, rt *domain.RecurringTransfer) error
	UpdateStatusFunc     func(ctx context.Context, rt *domain.RecurringTransfer, expected domain.RecurringStatus) error
	MarkFailedFunc       func(ctx context.Context, id, reason string, at time.Time) error
	DeleteFunc           func(ctx context.Context, id, senderID string) error
}

func NewMockRecurringTransferRepository() *MockRecurringTransferRepository {
	return &MockRecurringTransferRepository{
		recurring: make(map[string]*domain.RecurringTransfer),
	}
}

// Get returns a copy of the stored definition, or nil.
func (m *MockRecurringTransferRepository) Get(id string) *domain.RecurringTransfer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rt, ok := m.recurring[id]
	if !ok {
		return nil
	}
	c := *rt
	return &c
}

func (m *MockRecurringTransferRepository) Create(ctx context.Context, rt *domain.RecurringTransfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *rt
	m.recurring[c.ID] = &c
	return nil
}

func (m *MockRecurringTransferRepository) GetByID(ctx context.Context, id string) (*domain.RecurringTransfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	if rt := m.Get(id); rt != nil {
		return rt, nil
	}
	return nil, domain.ErrRecurringNotFound
}

func (m *MockRecurringTransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.RecurringTransfer, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockRecurringTransferRepository) ListByUser(ctx context.Context, userID string) ([]*domain.RecurringTransfer, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.RecurringTransfer
	for _, rt := range m.recurring {
		if rt.SenderID == userID || rt.ReceiverID == userID {
			c := *rt
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *MockRecurringTransferRepository) ListCandidates(ctx context.Context, now time.Time, limit int) ([]*domain.RecurringTransfer, error) {
	if m.ListCandidatesFunc != nil {
		return m.ListCandidatesFunc(ctx, now, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.RecurringTransfer
	for _, rt := range m.recurring {
		if rt.Evaluate(now) != domain.DecisionSkip {
			c := *rt
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockRecurringTransferRepository) Update(ctx context.Context, tx usecase.Transaction, rt *domain.RecurringTransfer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, rt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.recurring[rt.ID]
	if !ok {
		return domain.ErrRecurringNotFound
	}
	c := *rt
	m.recurring[rt.ID] = &c
	undo(tx, func() {
		m.mu.Lock()
		m.recurring[rt.ID] = prev
		m.mu.Unlock()
	})
	return nil
}

func (m *MockRecurringTransferRepository) UpdateStatus(ctx context.Context, rt *domain.RecurringTransfer, expected domain.RecurringStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, rt, expected)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.recurring[rt.ID]
	if !ok {
		return domain.ErrRecurringNotFound
	}
	if stored.Status != expected {
		return fmt.Errorf("%w: status changed to %s", domain.ErrInvalidStatusTransition, stored.Status)
	}
	stored.Status = rt.Status
	stored.FailureReason = rt.FailureReason
	stored.UpdatedAt = rt.UpdatedAt
	return nil
}

func (m *MockRecurringTransferRepository) MarkFailed(ctx context.Context, id, reason string, at time.Time) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, id, reason, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if rt, ok := m.recurring[id]; ok && rt.Status == domain.RecurringActive {
		rt.MarkFailed(reason, at)
	}
	return nil
}

func (m *MockRecurringTransferRepository) Delete(ctx context.Context, id, senderID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, senderID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.recurring[id]
	if !ok || rt.SenderID != senderID || !rt.CanDelete() {
		return domain.ErrRecurringNotFound
	}
	delete(m.recurring, id)
	return nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

// All returns every stored event in insertion order.
func (m *MockOutboxRepository) All() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	undo(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, e := range m.events {
			if e == event {
				m.events = append(m.events[:i], m.events[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			result = append(result, e)
		}
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			at := publishedAt
			e.Published = true
			e.PublishedAt = &at
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
// Transactions it hands out are serialized, standing in for row locks, and
// undo their writes on rollback.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	lock      sync.Mutex
	mu        sync.Mutex
	begun     int
	committed int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.lock.Lock()
	m.mu.Lock()
	m.begun++
	m.mu.Unlock()
	return &MockTransaction{manager: m}, nil
}

// Stats returns how many transactions were begun and committed.
func (m *MockTransactionManager) Stats() (begun, committed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.begun, m.committed
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	manager *MockTransactionManager
	undo    []func()
	done    bool
}

func (m *MockTransaction) onRollback(fn func()) {
	m.undo = append(m.undo, fn)
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	if m.done {
		return nil
	}
	m.done = true
	m.undo = nil
	if m.manager != nil {
		m.manager.mu.Lock()
		m.manager.committed++
		m.manager.mu.Unlock()
		m.manager.lock.Unlock()
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		if err := m.RollbackFunc(ctx); err != nil {
			return err
		}
	}
	if m.done {
		return nil
	}
	m.done = true
	for i := len(m.undo) - 1; i >= 0; i-- {
		m.undo[i]()
	}
	m.undo = nil
	if m.manager != nil {
		m.manager.lock.Unlock()
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

// MockBalanceCache is a mock implementation of BalanceCache with the same
// version fencing as the Redis one.
type MockBalanceCache struct {
	mu       sync.Mutex
	balances map[string]cachedBalance
	dropped  []string

	GetFunc func(ctx context.Context, userID string) (decimal.Decimal, bool, error)
	SetFunc func(ctx context.Context, userID string, balance decimal.Decimal, version int64, ttl time.Duration) error
}

type cachedBalance struct {
	balance decimal.Decimal
	version int64
}

func NewMockBalanceCache() *MockBalanceCache {
	return &MockBalanceCache{balances: make(map[string]cachedBalance)}
}

func (m *MockBalanceCache) Get(ctx context.Context, userID string) (decimal.Decimal, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[userID]
	return b.balance, ok, nil
}

func (m *MockBalanceCache) Set(ctx context.Context, userID string, balance decimal.Decimal, version int64, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, userID, balance, version, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.balances[userID]; ok && cur.version >= version {
		return nil
	}
	m.balances[userID] = cachedBalance{balance: balance, version: version}
	return nil
}

// Cached returns the cached balance and version of userID.
func (m *MockBalanceCache) Cached(userID string) (decimal.Decimal, int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[userID]
	return b.balance, b.version, ok
}

func (m *MockBalanceCache) Invalidate(ctx context.Context, userIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range userIDs {
		delete(m.balances, id)
		m.dropped = append(m.dropped, id)
	}
	return nil
}

// Invalidated returns every user id passed to Invalidate.
func (m *MockBalanceCache) Invalidated() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.dropped...)
}

// MockPasswordHasher is a reversible stand-in for bcrypt.
type MockPasswordHasher struct {
	HashFunc func(password string) (string, error)
}

func NewMockPasswordHasher() *MockPasswordHasher {
	return &MockPasswordHasher{}
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// MockLoginLimiter is a mock implementation of LoginLimiter.
type MockLoginLimiter struct {
	mu       sync.Mutex
	attempts map[string]int

	Max int
}

func NewMockLoginLimiter(limit int) *MockLoginLimiter {
	return &MockLoginLimiter{attempts: make(map[string]int), Max: limit}
}

func (m *MockLoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[key]++
	return m.attempts[key] <= m.Max, nil
}

func (m *MockLoginLimiter) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.attempts, key)
	return nil
}

// RecordingObserver records transfer and scheduler outcomes.
type RecordingObserver struct {
	mu         sync.Mutex
	Succeeded  []domain.TransferOrigin
	Failures   []string
	Ticks      []string
	Executions []string
}

func (o *RecordingObserver) TransferSucceeded(origin domain.TransferOrigin, _ decimal.Decimal) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Succeeded = append(o.Succeeded, origin)
}

func (o *RecordingObserver) TransferFailed(_ domain.TransferOrigin, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Failures = append(o.Failures, reason)
}

func (o *RecordingObserver) TickCompleted(result string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Ticks = append(o.Ticks, result)
}

func (o *RecordingObserver) RecurringExecuted(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Executions = append(o.Executions, outcome)
}
