package eventpublisher

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/resilience"
)

// ChannelPrefix is prepended to a user id to form that user's channel.
const ChannelPrefix = "gowallet:notifications:"

// NotificationMessage is what a user's channel receives for each transfer.
type NotificationMessage struct {
	Kind          domain.NotificationKind `json:"kind"`
	TransactionID string                  `json:"transaction_id"`
	Amount        string                  `json:"amount"`
	Origin        string                  `json:"origin"`
	Message       string                  `json:"message"`
	Timestamp     string                  `json:"timestamp"`
}

// RedisPublisher pushes transfer notifications to per-user Pub/Sub channels.
type RedisPublisher struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
}

// NewRedisPublisher creates a new RedisPublisher.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		breaker: resilience.NewCircuitBreaker("redis-notifications"),
	}
}

// Publish sends the debit message to the sender and the credit message to
// the receiver. Events other than transfer.executed are ignored.
func (p *RedisPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	if event.EventType != domain.EventTypeTransferExecuted {
		return nil
	}

	body, err := domain.DecodeTransferExecuted(event)
	if err != nil {
		return err
	}

	base := NotificationMessage{
		TransactionID: body.TransactionID,
		Amount:        body.Amount,
		Origin:        body.Origin,
		Timestamp:     body.Timestamp,
	}

	debit := base
	debit.Kind = domain.NotificationDebit
	debit.Message = body.DebitMessage

	credit := base
	credit.Kind = domain.NotificationCredit
	credit.Message = body.CreditMessage

	messages := map[string]NotificationMessage{body.SenderID: debit, body.ReceiverID: credit}

	_, err = p.breaker.Execute(func() (any, error) {
		pipe := p.client.Pipeline()
		for userID, msg := range messages {
			encoded, err := json.Marshal(msg)
			if err != nil {
				return nil, err
			}
			pipe.Publish(ctx, ChannelPrefix+userID, encoded)
		}
		_, err := pipe.Exec(ctx)
		return nil, err
	})

	return err
}
