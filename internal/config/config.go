package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535

	// MinSecretLength is the minimum signing secret size in bytes for HS256
	MinSecretLength = 32
)

// Database drivers
const (
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	App      AppConfig      `yaml:"app"`
	Worker   WorkerConfig   `yaml:"worker"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the job/user store and holds per-driver settings
type DatabaseConfig struct {
	Driver   string         `yaml:"driver"`
	MongoDB  MongoDBConfig  `yaml:"mongodb"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// MongoDBConfig holds MongoDB connection configuration
type MongoDBConfig struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	MaxPoolSize    uint64        `yaml:"max_pool_size"`
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// RabbitMQConfig holds RabbitMQ connection and exchange/queue configuration
type RabbitMQConfig struct {
	Enabled    bool             `yaml:"enabled"`
	Host       string           `yaml:"host"`
	Port       int              `yaml:"port"`
	User       string           `yaml:"user"`
	Password   string           `yaml:"password"`
	VHost      string           `yaml:"vhost"`
	Exchange   ExchangeConfig   `yaml:"exchange"`
	Queue      QueueConfig      `yaml:"queue"`
	RoutingKey string           `yaml:"routing_key"`
	Connection ConnectionConfig `yaml:"connection"`
	Publish    PublishConfig    `yaml:"publish"`
	Consumer   ConsumerConfig   `yaml:"consumer"`
}

// ExchangeConfig holds RabbitMQ exchange configuration
type ExchangeConfig struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Durable    bool   `yaml:"durable"`
	AutoDelete bool   `yaml:"auto_delete"`
}

// QueueConfig holds RabbitMQ queue configuration
type QueueConfig struct {
	Name       string `yaml:"name"`
	Durable    bool   `yaml:"durable"`
	AutoDelete bool   `yaml:"auto_delete"`
	Exclusive  bool   `yaml:"exclusive"`
}

// ConnectionConfig holds RabbitMQ connection settings
type ConnectionConfig struct {
	RetryAttempts     int           `yaml:"retry_attempts"`
	RetryInterval     time.Duration `yaml:"retry_interval"`
	Heartbeat         time.Duration `yaml:"heartbeat"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout"`
}

// PublishConfig holds RabbitMQ publish retry settings
type PublishConfig struct {
	RetryAttempts     int           `yaml:"retry_attempts"`
	RetryInterval     time.Duration `yaml:"retry_interval"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
}

// ConsumerConfig holds RabbitMQ consumer settings
type ConsumerConfig struct {
	PrefetchCount int `yaml:"prefetch_count"`
}

// AuthConfig controls the bearer token gate and the user routes
type AuthConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Secret       string        `yaml:"secret"`
	KeyID        string        `yaml:"key_id"`
	PreviousKeys []KeyConfig   `yaml:"previous_keys"`
	Issuer       string        `yaml:"issuer"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	BcryptCost   int           `yaml:"bcrypt_cost"`
}

// KeyConfig is a retired signing key that is still accepted for verification
type KeyConfig struct {
	ID     string `yaml:"id"`
	Secret string `yaml:"secret"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// WorkerConfig holds worker service configuration
type WorkerConfig struct {
	Concurrency     int           `yaml:"concurrency"`
	EventTimeout    time.Duration `yaml:"event_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Load reads and parses the configuration file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnv()

	return &config, nil
}

// applyEnv overrides secrets from the environment so they can stay out of
// the YAML files.
func (c *Config) applyEnv() {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		c.Database.MongoDB.URI = v
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Postgres.Password = v
	}
	if v := os.Getenv("RABBITMQ_PASSWORD"); v != "" {
		c.RabbitMQ.Password = v
	}
}

// ValidateAPIConfig checks the settings needed by the API service
func (c *Config) ValidateAPIConfig() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	switch c.Database.Driver {
	case DriverMongoDB, "":
		if c.Database.MongoDB.URI == "" {
			return fmt.Errorf("mongodb uri is required")
		}
		if c.Database.MongoDB.Database == "" {
			return fmt.Errorf("mongodb database name is required")
		}
	case DriverPostgres:
		if err := c.Database.Postgres.validate(); err != nil {
			return err
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	if c.RabbitMQ.Enabled {
		if err := c.RabbitMQ.validate(); err != nil {
			return err
		}
	}

	if c.Auth.Enabled {
		if len(c.Auth.Secret) < MinSecretLength {
			return fmt.Errorf("auth secret must be at least %d bytes", MinSecretLength)
		}
		if c.Auth.TokenTTL <= 0 {
			return fmt.Errorf("auth token_ttl must be greater than 0")
		}
		for _, k := range c.Auth.PreviousKeys {
			if k.ID == "" || k.ID == c.Auth.KeyID {
				return fmt.Errorf("auth previous key id must be set and differ from the active key id")
			}
			if len(k.Secret) < MinSecretLength {
				return fmt.Errorf("auth previous key %q secret must be at least %d bytes", k.ID, MinSecretLength)
			}
		}
	}

	return nil
}

// ValidateWorkerConfig checks the settings needed by the worker service
func (c *Config) ValidateWorkerConfig() error {
	if err := c.Database.Postgres.validate(); err != nil {
		return err
	}

	if err := c.RabbitMQ.validate(); err != nil {
		return err
	}

	if c.Worker.Concurrency <= 0 {
		return fmt.Errorf("worker concurrency must be greater than 0")
	}

	if c.Worker.EventTimeout <= 0 {
		return fmt.Errorf("worker event_timeout must be greater than 0")
	}

	if c.Worker.ShutdownTimeout <= 0 {
		return fmt.Errorf("worker shutdown_timeout must be greater than 0")
	}

	return nil
}

func (p *PostgresConfig) validate() error {
	if p.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if p.Port < MinPort || p.Port > MaxPort {
		return fmt.Errorf("invalid database port: %d (must be between %d and %d)", p.Port, MinPort, MaxPort)
	}

	if p.Database == "" {
		return fmt.Errorf("database name is required")
	}

	return nil
}

func (r *RabbitMQConfig) validate() error {
	if r.Host == "" {
		return fmt.Errorf("rabbitmq host is required")
	}

	if r.Port < MinPort || r.Port > MaxPort {
		return fmt.Errorf("invalid rabbitmq port: %d (must be between %d and %d)", r.Port, MinPort, MaxPort)
	}

	if r.Exchange.Name == "" {
		return fmt.Errorf("rabbitmq exchange name is required")
	}

	if r.Queue.Name == "" {
		return fmt.Errorf("rabbitmq queue name is required")
	}

	return nil
}
