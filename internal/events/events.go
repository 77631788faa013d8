// Package events publishes domain events to the configured broker.
package events

import (
	"context"
	"log/slog"
	"time"
)

const (
	TopicOrders = "order_events"
	TopicCart   = "cart_events"
	TopicFood   = "food_events"

	TypeOrderCreated       = "order_created"
	TypeOrderStatusChanged = "order_status_changed"
	TypeOrderCancelled     = "order_cancelled"
	TypeCartCleared        = "cart_cleared"
	TypeCartReordered      = "cart_reordered"
	TypeFoodCreated        = "food_created"
	TypeFoodUpdated        = "food_updated"
	TypeFoodDeleted        = "food_deleted"
)

type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data"`
}

func New(typ string, data map[string]any) Event {
	return Event{Type: typ, OccurredAt: time.Now().UTC(), Data: data}
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event Event) error
	Close() error
}

// Nop drops events; it is used when no broker is configured.
type Nop struct {
	Logger *slog.Logger
}

func (n Nop) PublishEvent(ctx context.Context, topic, key string, event Event) error {
	if n.Logger != nil {
		n.Logger.Debug("event_dropped", "topic", topic, "key", key, "type", event.Type)
	}
	return nil
}

func (Nop) Close() error { return nil }
