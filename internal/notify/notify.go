// Package notify publishes per-account events over Redis Pub/Sub. The websocket
// handler subscribes to the same channels and forwards events to browsers.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"artlink/internal/domain"
)

// 事件类型。字段名与前端解析保持一致。
const (
	EventContractCreated       = "contract.created"
	EventContractStatusChanged = "contract.status_changed"
	EventContractDeleted       = "contract.deleted"
)

// ContractEvent 是推送给合同另一方的消息。
type ContractEvent struct {
	Type       string                `json:"type"`
	ContractID uuid.UUID             `json:"contract_id"`
	Status     domain.ContractState  `json:"status"`
	Previous   *domain.ContractState `json:"previous_status,omitempty"`
	ActorID    uuid.UUID             `json:"actor_id"`
	OccurredAt time.Time             `json:"occurred_at"`
}

// ErrUnknownEvent 表示频道上出现了无法识别的消息。
var ErrUnknownEvent = errors.New("unknown notification event")

// DecodeContractEvent parses a payload published by NotifyContract. Payloads
// with an unknown type or without a contract id are rejected.
func DecodeContractEvent(payload []byte) (ContractEvent, error) {
	var event ContractEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return ContractEvent{}, fmt.Errorf("decode contract event: %w", err)
	}
	switch event.Type {
	case EventContractCreated, EventContractStatusChanged, EventContractDeleted:
	default:
		return ContractEvent{}, fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}
	if event.ContractID == uuid.Nil {
		return ContractEvent{}, fmt.Errorf("%w: missing contract id", ErrUnknownEvent)
	}
	return event, nil
}

// Channel returns the Pub/Sub channel for one account.
func Channel(accountID uuid.UUID) string {
	return fmt.Sprintf("user_notify:%s", accountID)
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier 通过 Redis Publish 投递事件。
type RedisNotifier struct {
	client publisher
}

func NewRedisNotifier(client publisher) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) NotifyContract(ctx context.Context, recipient uuid.UUID, event ContractEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := Channel(recipient)
	if err := n.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}
