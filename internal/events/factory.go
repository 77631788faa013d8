package events

import (
	"fmt"
	"log/slog"

	"github.com/Skotchmaster/halkabite/internal/config"
)

func FromConfig(cfg config.ServiceConfig, logger *slog.Logger) (Publisher, error) {
	switch cfg.EventsBroker {
	case config.BrokerKafka:
		if len(cfg.KafkaBrokers) == 0 {
			logger.Warn("events_disabled", "reason", "KAFKA_BROKERS is empty")
			return Nop{Logger: logger}, nil
		}
		return NewKafkaProducer(cfg.KafkaBrokers)
	case config.BrokerRabbitMQ:
		return NewRabbitPublisher(cfg.RabbitMQURL)
	case config.BrokerNone:
		return Nop{Logger: logger}, nil
	}
	return nil, fmt.Errorf("unknown events broker %q", cfg.EventsBroker)
}
