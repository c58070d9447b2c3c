package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Bridge      BridgeConfig      `mapstructure:"bridge"`
	Chains      ChainsConfig      `mapstructure:"chains"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	Events      EventsConfig      `mapstructure:"events"`
	Jobs        JobsConfig        `mapstructure:"jobs"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// BridgeConfig holds the initial bridge policy and the simulated timing.
type BridgeConfig struct {
	FeeRate              float64       `mapstructure:"fee_rate"`
	MinAmount            float64       `mapstructure:"min_amount"`
	MaxAmount            float64       `mapstructure:"max_amount"`
	PromotionDelay       time.Duration `mapstructure:"promotion_delay"`
	ConfirmationInterval time.Duration `mapstructure:"confirmation_interval"`
	FaultRate            float64       `mapstructure:"fault_rate"`
	Admins               []string      `mapstructure:"admins"`
}

// ChainsConfig points at the chain catalog. An empty Source uses the built-in catalog.
type ChainsConfig struct {
	Source  string        `mapstructure:"source"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// IdempotencyConfig holds settings for the initiate idempotency cache.
type IdempotencyConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// EventsConfig selects the lifecycle event sinks.
type EventsConfig struct {
	LogEnabled bool            `mapstructure:"log_enabled"`
	LogBuffer  int             `mapstructure:"log_buffer"`
	RabbitMQ   RabbitMQConfig  `mapstructure:"rabbitmq"`
	WebSocket  WebSocketConfig `mapstructure:"websocket"`
}

// RabbitMQConfig holds broker settings for the event publisher.
type RabbitMQConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	URL        string        `mapstructure:"url"`
	Queue      string        `mapstructure:"queue"`
	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// WebSocketConfig holds settings for pushing events to a websocket endpoint.
type WebSocketConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	URL              string        `mapstructure:"url"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
}

// JobsConfig holds cron specs for periodic jobs. An empty spec disables the job.
type JobsConfig struct {
	StatsSnapshot string `mapstructure:"stats_snapshot"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "blockpoints-bridge")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("bridge.fee_rate", 0.01)
	v.SetDefault("bridge.min_amount", 1)
	v.SetDefault("bridge.max_amount", 1000)
	v.SetDefault("bridge.promotion_delay", "2s")
	v.SetDefault("bridge.confirmation_interval", "5s")
	v.SetDefault("bridge.fault_rate", 0.0)
	v.SetDefault("bridge.admins", []string{})
	v.SetDefault("chains.source", "")
	v.SetDefault("chains.timeout", "10s")
	v.SetDefault("idempotency.ttl", "10m")
	v.SetDefault("idempotency.cleanup_interval", "1h")
	v.SetDefault("events.log_enabled", true)
	v.SetDefault("events.log_buffer", 1024)
	v.SetDefault("events.rabbitmq.enabled", false)
	v.SetDefault("events.rabbitmq.queue", "bridge_transfer_events")
	v.SetDefault("events.rabbitmq.retries", 10)
	v.SetDefault("events.rabbitmq.retry_delay", "3s")
	v.SetDefault("events.websocket.enabled", false)
	v.SetDefault("events.websocket.handshake_timeout", "10s")
	v.SetDefault("events.websocket.write_timeout", "5s")
	v.SetDefault("jobs.stats_snapshot", "@every 1m")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fmt.Printf("Warning: Config file not found in %s or '.', using defaults/env vars\n", configPath)
	}

	v.SetEnvPrefix("BRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate rejects settings the bridge cannot start with.
func (c Config) Validate() error {
	b := c.Bridge
	if b.FeeRate < 0 || b.FeeRate > 0.10 {
		return fmt.Errorf("bridge.fee_rate %v must be between 0 and 0.10", b.FeeRate)
	}
	if b.MinAmount <= 0 {
		return fmt.Errorf("bridge.min_amount %v must be positive", b.MinAmount)
	}
	if b.MaxAmount <= b.MinAmount {
		return fmt.Errorf("bridge.max_amount %v must be greater than min_amount %v", b.MaxAmount, b.MinAmount)
	}
	if b.PromotionDelay < 0 {
		return fmt.Errorf("bridge.promotion_delay must not be negative")
	}
	if b.ConfirmationInterval <= 0 {
		return fmt.Errorf("bridge.confirmation_interval must be positive")
	}
	if b.FaultRate < 0 || b.FaultRate > 1 {
		return fmt.Errorf("bridge.fault_rate %v must be between 0 and 1", b.FaultRate)
	}
	if c.Events.RabbitMQ.Enabled && c.Events.RabbitMQ.URL == "" {
		return fmt.Errorf("events.rabbitmq.url is required when rabbitmq is enabled")
	}
	if c.Events.WebSocket.Enabled && c.Events.WebSocket.URL == "" {
		return fmt.Errorf("events.websocket.url is required when websocket is enabled")
	}
	return nil
}

func (c IdempotencyConfig) GetTTL() time.Duration {
	if c.TTL <= 0 {
		return 10 * time.Minute
	}
	return c.TTL
}

func (c IdempotencyConfig) GetCleanupInterval() time.Duration {
	if c.CleanupInterval <= 0 {
		return time.Hour
	}
	return c.CleanupInterval
}

func (c ChainsConfig) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return c.Timeout
}
