package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/halkabite/internal/config"
)

func TestEvent_JSONShape(t *testing.T) {
	t.Parallel()

	ev := New(TypeOrderCreated, map[string]any{"orderNumber": "HB2603070042"})
	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "order_created", got["type"])
	assert.NotEmpty(t, got["occurredAt"])
	assert.Equal(t, "HB2603070042", got["data"].(map[string]any)["orderNumber"])
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	p, err := FromConfig(config.ServiceConfig{EventsBroker: config.BrokerNone}, logger)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, p)
	assert.NoError(t, p.PublishEvent(context.Background(), TopicOrders, "k", New(TypeOrderCreated, nil)))

	p, err = FromConfig(config.ServiceConfig{EventsBroker: config.BrokerKafka}, logger)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, p)

	_, err = FromConfig(config.ServiceConfig{EventsBroker: config.BrokerRabbitMQ}, logger)
	require.Error(t, err)

	_, err = FromConfig(config.ServiceConfig{EventsBroker: "carrier-pigeon"}, logger)
	require.Error(t, err)
}

func TestNewKafkaProducer_RequiresBrokers(t *testing.T) {
	t.Parallel()

	_, err := NewKafkaProducer(nil)
	require.Error(t, err)

	p, err := NewKafkaProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
