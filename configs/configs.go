package configs

import (
	"errors"
	"fmt"
	"time"

	"github.com/DioGolang/GoTraffic/internal/application/usecase/generator"
	"github.com/DioGolang/GoTraffic/internal/infra/sender"
	"github.com/DioGolang/GoTraffic/pkg/metrics"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Conf struct {
	// generator
	OrdersPerHour      int           `mapstructure:"ORDERS_PER_HOUR"`
	OrderServiceURL    string        `mapstructure:"ORDER_SERVICE_URL"`
	OrderServiceAddr   string        `mapstructure:"ORDER_SERVICE_ADDR"`
	Transport          string        `mapstructure:"TRANSPORT"`
	RequestTimeout     time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	MetricsPort        string        `mapstructure:"METRICS_PORT"`
	GeneratorInstances int           `mapstructure:"GENERATOR_INSTANCES"`
	OrderLimit         uint64        `mapstructure:"ORDER_LIMIT"`
	RandSeed           uint64        `mapstructure:"RAND_SEED"`
	CustomerIDMin      int64         `mapstructure:"CUSTOMER_ID_MIN"`
	CustomerIDMax      int64         `mapstructure:"CUSTOMER_ID_MAX"`
	ItemsMin           int           `mapstructure:"ITEMS_MIN"`
	ItemsMax           int           `mapstructure:"ITEMS_MAX"`
	ProductIDMax       int           `mapstructure:"PRODUCT_ID_MAX"`
	QuantityMax        int           `mapstructure:"QUANTITY_MAX"`
	PriceMin           float64       `mapstructure:"PRICE_MIN"`
	PriceMax           float64       `mapstructure:"PRICE_MAX"`
	PriceRounding      string        `mapstructure:"PRICE_ROUNDING"`
	CountPolicy        string        `mapstructure:"COUNT_POLICY"`
	RetryMax           int           `mapstructure:"RETRY_MAX"`
	RetryBaseWait      time.Duration `mapstructure:"RETRY_BASE_WAIT"`
	BreakerEnabled     bool          `mapstructure:"BREAKER_ENABLED"`

	// order service
	GRPCPort       string        `mapstructure:"GRPC_PORT"`
	WebServerPort  string        `mapstructure:"WEB_SERVER_PORT"`
	WorkerPoolSize int           `mapstructure:"WORKER_POOL_SIZE"`
	CatalogSize    int           `mapstructure:"CATALOG_SIZE"`
	RateLimitRPS   int           `mapstructure:"RATE_LIMIT_RPS"`
	AMQPURL        string        `mapstructure:"AMQP_URL"`
	OrderQueueName string        `mapstructure:"ORDER_QUEUE_NAME"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	IdempotencyTTL time.Duration `mapstructure:"IDEMPOTENCY_TTL"`

	// shared
	OTelCollectorAddr string `mapstructure:"OTEL_COLLECTOR_ADDR"`
	AppEnv            string `mapstructure:"APP_ENV"`
}

var defaults = map[string]any{
	"ORDERS_PER_HOUR":     6,
	"ORDER_SERVICE_URL":   "http://localhost:3000/",
	"ORDER_SERVICE_ADDR":  "localhost:50051",
	"TRANSPORT":           "grpc",
	"REQUEST_TIMEOUT":     "10s",
	"METRICS_PORT":        "8000",
	"GENERATOR_INSTANCES": 1,
	"ORDER_LIMIT":         0,
	"RAND_SEED":           0,
	"CUSTOMER_ID_MIN":     1,
	"CUSTOMER_ID_MAX":     100,
	"ITEMS_MIN":           1,
	"ITEMS_MAX":           5,
	"PRODUCT_ID_MAX":      10,
	"QUANTITY_MAX":        5,
	"PRICE_MIN":           1.0,
	"PRICE_MAX":           10.0,
	"PRICE_ROUNDING":      "half_up",
	"COUNT_POLICY":        "all",
	"RETRY_MAX":           0,
	"RETRY_BASE_WAIT":     "200ms",
	"BREAKER_ENABLED":     false,
	"GRPC_PORT":           "50051",
	"WEB_SERVER_PORT":     "3000",
	"WORKER_POOL_SIZE":    10,
	"CATALOG_SIZE":        10,
	"RATE_LIMIT_RPS":      0,
	"AMQP_URL":            "",
	"ORDER_QUEUE_NAME":    "orders",
	"REDIS_ADDR":          "",
	"IDEMPOTENCY_TTL":     "10m",
	"OTEL_COLLECTOR_ADDR": "",
	"APP_ENV":             "development",
}

// LoadConfig reads path/.env if it exists. Process environment always wins.
func LoadConfig(path string) (*Conf, error) {
	var cfg *Conf

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

func (c *Conf) IsProduction() bool {
	return c.AppEnv == "production"
}

// ValidateGenerator checks everything the virtual customer needs before it sends anything.
func (c *Conf) ValidateGenerator() error {
	if c.OrdersPerHour <= 0 {
		return fmt.Errorf("%w: ORDERS_PER_HOUR must be a positive integer, got %d", ErrInvalidConfig, c.OrdersPerHour)
	}
	if c.GeneratorInstances <= 0 {
		return fmt.Errorf("%w: GENERATOR_INSTANCES must be positive, got %d", ErrInvalidConfig, c.GeneratorInstances)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: REQUEST_TIMEOUT must be positive", ErrInvalidConfig)
	}
	if _, err := c.SenderConfig(); err != nil {
		return err
	}
	if _, err := c.FactoryConfig(); err != nil {
		return err
	}
	if _, err := metrics.ParseCountPolicy(c.CountPolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Conf) SenderConfig() (sender.Config, error) {
	kind, err := sender.ParseKind(c.Transport)
	if err != nil {
		return sender.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.RetryMax < 0 {
		return sender.Config{}, fmt.Errorf("%w: RETRY_MAX must not be negative", ErrInvalidConfig)
	}
	return sender.Config{
		Kind:          kind,
		URL:           c.OrderServiceURL,
		Addr:          c.OrderServiceAddr,
		Timeout:       c.RequestTimeout,
		RetryMax:      c.RetryMax,
		RetryBaseWait: c.RetryBaseWait,
		Breaker:       c.BreakerEnabled,
	}, nil
}

func (c *Conf) FactoryConfig() (generator.FactoryConfig, error) {
	mode, err := generator.ParseRoundingMode(c.PriceRounding)
	if err != nil {
		return generator.FactoryConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	fc := generator.FactoryConfig{
		CustomerIDMin: c.CustomerIDMin,
		CustomerIDMax: c.CustomerIDMax,
		ItemsMin:      c.ItemsMin,
		ItemsMax:      c.ItemsMax,
		ProductIDMax:  c.ProductIDMax,
		QuantityMax:   c.QuantityMax,
		PriceMin:      c.PriceMin,
		PriceMax:      c.PriceMax,
		Rounding:      mode,
	}
	if err := fc.Validate(); err != nil {
		return generator.FactoryConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return fc, nil
}

func (c *Conf) ValidateService() error {
	if c.GRPCPort == "" || c.WebServerPort == "" {
		return fmt.Errorf("%w: GRPC_PORT and WEB_SERVER_PORT are required", ErrInvalidConfig)
	}
	if c.WorkerPoolSize <= 0 {
		return fmt.Errorf("%w: WORKER_POOL_SIZE must be positive, got %d", ErrInvalidConfig, c.WorkerPoolSize)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("%w: RATE_LIMIT_RPS must not be negative", ErrInvalidConfig)
	}
	return nil
}
