package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const rabbitExchange = "halkabite_events"

type RabbitPublisher struct {
	mu   sync.RWMutex
	conn *amqp.Connection
	url  string
}

func NewRabbitPublisher(url string) (*RabbitPublisher, error) {
	if url == "" {
		return nil, fmt.Errorf("rabbitmq: RABBITMQ_URL is empty")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return &RabbitPublisher{conn: conn, url: url}, nil
}

func (p *RabbitPublisher) channel() (*amqp.Channel, error) {
	p.mu.RLock()
	conn := p.conn
	p.mu.RUnlock()

	if conn.IsClosed() {
		p.mu.Lock()
		if p.conn.IsClosed() {
			c, err := amqp.Dial(p.url)
			if err != nil {
				p.mu.Unlock()
				return nil, fmt.Errorf("failed to reconnect to RabbitMQ: %w", err)
			}
			p.conn = c
		}
		conn = p.conn
		p.mu.Unlock()
	}

	return conn.Channel()
}

// PublishEvent routes by "<topic>.<event type>" on a durable topic exchange.
func (p *RabbitPublisher) PublishEvent(ctx context.Context, topic, key string, event Event) error {
	ch, err := p.channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(rabbitExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.PublishWithContext(ctx, rabbitExchange, topic+"."+event.Type, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    key,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn.Close()
	}
	return nil
}
