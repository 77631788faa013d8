package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Skotchmaster/halkabite/internal/pricing"
	"github.com/Skotchmaster/halkabite/pkg/config"
)

const (
	PolicyClamp  = "clamp"
	PolicyReject = "reject"

	BrokerKafka    = "kafka"
	BrokerRabbitMQ = "rabbitmq"
	BrokerNone     = "none"
)

type OrderSettings struct {
	DeliveryFee         decimal.Decimal
	EstimatedDelivery   time.Duration
	NegativeTotalPolicy string
	OrderNumberAttempts int
	SideEffectTimeout   time.Duration
}

type SMTPSettings struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (s SMTPSettings) Enabled() bool { return s.Host != "" && s.User != "" }

type SearchSettings struct {
	Addresses []string
	Username  string
	Password  string
	Index     string
}

func (s SearchSettings) Enabled() bool { return len(s.Addresses) > 0 }

type ServiceConfig struct {
	config.Config

	LogLevel     string
	EventsBroker string
	RabbitMQURL  string
	TokenTTL     time.Duration
	CSRF         bool

	Orders OrderSettings
	SMTP   SMTPSettings
	Search SearchSettings
}

type fileConfig struct {
	Orders struct {
		DeliveryFee         string `yaml:"delivery_fee"`
		ETAMinutes          *int   `yaml:"eta_minutes"`
		NegativeTotalPolicy string `yaml:"negative_total_policy"`
		OrderNumberAttempts *int   `yaml:"order_number_attempts"`
	} `yaml:"orders"`
	Events struct {
		Broker string `yaml:"broker"`
	} `yaml:"events"`
}

func DefaultOrderSettings() OrderSettings {
	return OrderSettings{
		DeliveryFee:         decimal.NewFromInt(50),
		EstimatedDelivery:   45 * time.Minute,
		NegativeTotalPolicy: PolicyClamp,
		OrderNumberAttempts: 5,
		SideEffectTimeout:   10 * time.Second,
	}
}

func Load() (ServiceConfig, error) {
	cfg := ServiceConfig{
		Config:       config.Load(),
		LogLevel:     config.EnvDefault("LOG_LEVEL", "info"),
		EventsBroker: BrokerKafka,
		RabbitMQURL:  os.Getenv("RABBITMQ_URL"),
		TokenTTL:     time.Duration(config.EnvIntDefault("JWT_TTL_HOURS", 24*7)) * time.Hour,
		CSRF:         config.EnvDefault("CSRF_ENABLED", "false") == "true",
		Orders:       DefaultOrderSettings(),
		SMTP: SMTPSettings{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     config.EnvIntDefault("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
		},
		Search: SearchSettings{
			Addresses: config.CSV(os.Getenv("ES_URL")),
			Username:  os.Getenv("ES_USER"),
			Password:  os.Getenv("ES_PASSWORD"),
			Index:     config.EnvDefault("ES_FOOD_INDEX", "food_items"),
		},
	}
	cfg.SMTP.From = config.EnvDefault("SMTP_FROM", fmt.Sprintf("HalkaBite <%s>", cfg.SMTP.User))

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return ServiceConfig{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return ServiceConfig{}, err
	}

	if err := cfg.validate(); err != nil {
		return ServiceConfig{}, err
	}
	return cfg, nil
}

// MustLoad also requires the settings the server cannot start without.
func MustLoad() ServiceConfig {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")

	return cfg
}

func (c *ServiceConfig) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse yaml: %w", err)
	}

	if fc.Orders.DeliveryFee != "" {
		fee, err := parseMoney(fc.Orders.DeliveryFee)
		if err != nil {
			return fmt.Errorf("orders.delivery_fee: %w", err)
		}
		c.Orders.DeliveryFee = fee
	}
	if fc.Orders.ETAMinutes != nil {
		c.Orders.EstimatedDelivery = time.Duration(*fc.Orders.ETAMinutes) * time.Minute
	}
	if fc.Orders.NegativeTotalPolicy != "" {
		c.Orders.NegativeTotalPolicy = fc.Orders.NegativeTotalPolicy
	}
	if fc.Orders.OrderNumberAttempts != nil {
		c.Orders.OrderNumberAttempts = *fc.Orders.OrderNumberAttempts
	}
	if fc.Events.Broker != "" {
		c.EventsBroker = fc.Events.Broker
	}
	return nil
}

func (c *ServiceConfig) applyEnv() error {
	if v := os.Getenv("DELIVERY_FEE"); v != "" {
		fee, err := parseMoney(v)
		if err != nil {
			return fmt.Errorf("DELIVERY_FEE: %w", err)
		}
		c.Orders.DeliveryFee = fee
	}
	c.Orders.EstimatedDelivery = time.Duration(config.EnvIntDefault("ORDER_ETA_MINUTES", int(c.Orders.EstimatedDelivery/time.Minute))) * time.Minute
	c.Orders.NegativeTotalPolicy = config.EnvDefault("NEGATIVE_TOTAL_POLICY", c.Orders.NegativeTotalPolicy)
	c.Orders.OrderNumberAttempts = config.EnvIntDefault("ORDER_NUMBER_ATTEMPTS", c.Orders.OrderNumberAttempts)
	c.EventsBroker = config.EnvDefault("EVENTS_BROKER", c.EventsBroker)
	return nil
}

// parseMoney reads an exact decimal and rounds it to cents.
func parseMoney(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return pricing.Round(d), nil
}

func (c *ServiceConfig) validate() error {
	switch c.Orders.NegativeTotalPolicy {
	case PolicyClamp, PolicyReject:
	default:
		return fmt.Errorf("unknown negative total policy %q", c.Orders.NegativeTotalPolicy)
	}
	switch c.EventsBroker {
	case BrokerKafka, BrokerRabbitMQ, BrokerNone:
	default:
		return fmt.Errorf("unknown events broker %q", c.EventsBroker)
	}
	if c.Orders.DeliveryFee.IsNegative() {
		return fmt.Errorf("delivery fee must not be negative")
	}
	if c.Orders.OrderNumberAttempts < 1 {
		c.Orders.OrderNumberAttempts = 1
	}
	return nil
}
