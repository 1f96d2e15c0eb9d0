package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventTypeTransferExecuted is written once per committed transfer.
const EventTypeTransferExecuted = "transfer.executed"

// AggregateTypeTransaction marks events keyed by a transaction id.
const AggregateTypeTransaction = "transaction"

// OutboxEvent is a row of the transactional outbox. Payload is the JSON body
// exactly as stored.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       json.RawMessage
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransferExecutedEvent is the payload of a transfer.executed event. It
// carries both notification texts so the relay never reads user rows.
type TransferExecutedEvent struct {
	TransactionID string `json:"transaction_id"`
	SenderID      string `json:"sender_id"`
	ReceiverID    string `json:"receiver_id"`
	Amount        string `json:"amount"`
	Origin        string `json:"origin"`
	DebitMessage  string `json:"debit_message"`
	CreditMessage string `json:"credit_message"`
	Timestamp     string `json:"timestamp"`
}

// NewTransferExecutedEvent builds the outbox event for a committed transaction.
func NewTransferExecutedEvent(id string, txn *Transaction, debitMessage, creditMessage string) *OutboxEvent {
	// Only strings: marshalling cannot fail.
	payload, _ := json.Marshal(TransferExecutedEvent{
		TransactionID: txn.ID,
		SenderID:      txn.SenderID,
		ReceiverID:    txn.ReceiverID,
		Amount:        txn.Amount.StringFixed(2),
		Origin:        string(txn.Origin),
		DebitMessage:  debitMessage,
		CreditMessage: creditMessage,
		Timestamp:     txn.Timestamp.UTC().Format(time.RFC3339Nano),
	})

	return &OutboxEvent{
		ID:            id,
		AggregateID:   txn.ID,
		AggregateType: AggregateTypeTransaction,
		EventType:     EventTypeTransferExecuted,
		Payload:       payload,
		CreatedAt:     txn.Timestamp,
	}
}

// DecodeTransferExecuted parses the payload of a transfer.executed event and
// checks both parties are present.
func DecodeTransferExecuted(event *OutboxEvent) (TransferExecutedEvent, error) {
	var body TransferExecutedEvent
	if event.EventType != EventTypeTransferExecuted {
		return body, fmt.Errorf("event %s: unexpected type %q", event.ID, event.EventType)
	}
	if err := json.Unmarshal(event.Payload, &body); err != nil {
		return body, fmt.Errorf("event %s: decode payload: %w", event.ID, err)
	}
	if body.SenderID == "" || body.ReceiverID == "" {
		return body, fmt.Errorf("event %s: missing parties in payload", event.ID)
	}
	return body, nil
}
