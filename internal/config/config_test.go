package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearSecretEnv keeps developer environment variables from leaking into Load
func clearSecretEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"JWT_SECRET", "MONGODB_URI", "DATABASE_PASSWORD", "RABBITMQ_PASSWORD"} {
		t.Setenv(key, "")
	}
}

func validAPIConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Driver: DriverMongoDB,
			MongoDB: MongoDBConfig{
				URI:      "mongodb://localhost:27017",
				Database: "jobs_db",
			},
		},
		RabbitMQ: RabbitMQConfig{
			Enabled:  true,
			Host:     "localhost",
			Port:     5672,
			Exchange: ExchangeConfig{Name: "jobs_exchange"},
			Queue:    QueueConfig{Name: "job_events_queue"},
		},
		Auth: AuthConfig{
			Enabled:  true,
			Secret:   strings.Repeat("s", MinSecretLength),
			KeyID:    "current",
			TokenTTL: time.Hour,
		},
	}
}

func validWorkerConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: DriverPostgres,
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "jobs_audit",
			},
		},
		RabbitMQ: RabbitMQConfig{
			Host:     "localhost",
			Port:     5672,
			Exchange: ExchangeConfig{Name: "jobs_exchange"},
			Queue:    QueueConfig{Name: "job_events_queue"},
		},
		Worker: WorkerConfig{
			Concurrency:     2,
			EventTimeout:    10 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
	}
}

func TestLoad(t *testing.T) {
	clearSecretEnv(t)

	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			assert.Equal(t, 8080, cfg.Server.Port)
			assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
			assert.Equal(t, DriverMongoDB, cfg.Database.Driver)
			assert.Equal(t, "jobs_db", cfg.Database.MongoDB.Database)
			assert.True(t, cfg.RabbitMQ.Enabled)
			assert.Equal(t, "jobs_exchange", cfg.RabbitMQ.Exchange.Name)
			assert.Equal(t, "job_events_queue", cfg.RabbitMQ.Queue.Name)
			assert.True(t, cfg.Auth.Enabled)
			assert.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL)
			assert.Equal(t, "job-api-service", cfg.App.Name)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearSecretEnv(t)
	secret := strings.Repeat("e", MinSecretLength)
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("MONGODB_URI", "mongodb://mongo:27017")
	t.Setenv("RABBITMQ_PASSWORD", "from-env")

	cfg, err := Load("testdata/valid_config.yaml")
	require.NoError(t, err)

	assert.Equal(t, secret, cfg.Auth.Secret)
	assert.Equal(t, "mongodb://mongo:27017", cfg.Database.MongoDB.URI)
	assert.Equal(t, "from-env", cfg.RabbitMQ.Password)
}

func TestConfig_ValidateAPIConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:      "invalid server port - too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "invalid server port - too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "missing mongodb uri",
			mutate:    func(c *Config) { c.Database.MongoDB.URI = "" },
			wantErr:   true,
			errString: "mongodb uri is required",
		},
		{
			name:      "missing mongodb database",
			mutate:    func(c *Config) { c.Database.MongoDB.Database = "" },
			wantErr:   true,
			errString: "mongodb database name is required",
		},
		{
			name:      "unsupported driver",
			mutate:    func(c *Config) { c.Database.Driver = "cassandra" },
			wantErr:   true,
			errString: "unsupported database driver",
		},
		{
			name: "postgres driver without host",
			mutate: func(c *Config) {
				c.Database.Driver = DriverPostgres
				c.Database.Postgres = PostgresConfig{Port: 5432, Database: "jobs_db"}
			},
			wantErr:   true,
			errString: "database host is required",
		},
		{
			name:    "memory driver needs no settings",
			mutate:  func(c *Config) { c.Database = DatabaseConfig{Driver: DriverMemory} },
			wantErr: false,
		},
		{
			name:      "empty rabbitmq host when enabled",
			mutate:    func(c *Config) { c.RabbitMQ.Host = "" },
			wantErr:   true,
			errString: "rabbitmq host is required",
		},
		{
			name: "rabbitmq settings ignored when disabled",
			mutate: func(c *Config) {
				c.RabbitMQ = RabbitMQConfig{Enabled: false}
			},
			wantErr: false,
		},
		{
			name:      "empty exchange name",
			mutate:    func(c *Config) { c.RabbitMQ.Exchange.Name = "" },
			wantErr:   true,
			errString: "rabbitmq exchange name is required",
		},
		{
			name:      "empty queue name",
			mutate:    func(c *Config) { c.RabbitMQ.Queue.Name = "" },
			wantErr:   true,
			errString: "rabbitmq queue name is required",
		},
		{
			name:      "short auth secret",
			mutate:    func(c *Config) { c.Auth.Secret = "too-short" },
			wantErr:   true,
			errString: "auth secret must be at least",
		},
		{
			name:      "missing token ttl",
			mutate:    func(c *Config) { c.Auth.TokenTTL = 0 },
			wantErr:   true,
			errString: "auth token_ttl must be greater than 0",
		},
		{
			name: "previous key reusing active id",
			mutate: func(c *Config) {
				c.Auth.PreviousKeys = []KeyConfig{{ID: "current", Secret: strings.Repeat("p", MinSecretLength)}}
			},
			wantErr:   true,
			errString: "differ from the active key id",
		},
		{
			name: "auth settings ignored when disabled",
			mutate: func(c *Config) {
				c.Auth = AuthConfig{Enabled: false}
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAPIConfig()
			tt.mutate(cfg)

			err := cfg.ValidateAPIConfig()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateWorkerConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:      "empty database name",
			mutate:    func(c *Config) { c.Database.Postgres.Database = "" },
			wantErr:   true,
			errString: "database name is required",
		},
		{
			name:      "rabbitmq always required",
			mutate:    func(c *Config) { c.RabbitMQ.Host = "" },
			wantErr:   true,
			errString: "rabbitmq host is required",
		},
		{
			name:      "zero concurrency",
			mutate:    func(c *Config) { c.Worker.Concurrency = 0 },
			wantErr:   true,
			errString: "worker concurrency must be greater than 0",
		},
		{
			name:      "zero event timeout",
			mutate:    func(c *Config) { c.Worker.EventTimeout = 0 },
			wantErr:   true,
			errString: "worker event_timeout must be greater than 0",
		},
		{
			name:      "zero shutdown timeout",
			mutate:    func(c *Config) { c.Worker.ShutdownTimeout = 0 },
			wantErr:   true,
			errString: "worker shutdown_timeout must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validWorkerConfig()
			tt.mutate(cfg)

			err := cfg.ValidateWorkerConfig()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoad_ValidateIntegration(t *testing.T) {
	clearSecretEnv(t)

	t.Run("load and validate auth variant", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)
		require.NoError(t, cfg.ValidateAPIConfig())
	})

	t.Run("load and validate open variant", func(t *testing.T) {
		cfg, err := Load("testdata/open_config.yaml")
		require.NoError(t, err)
		require.NoError(t, cfg.ValidateAPIConfig())
		assert.False(t, cfg.Auth.Enabled)
		assert.Equal(t, DriverMemory, cfg.Database.Driver)
	})

	t.Run("load and validate worker config", func(t *testing.T) {
		cfg, err := Load("testdata/worker_config.yaml")
		require.NoError(t, err)
		require.NoError(t, cfg.ValidateWorkerConfig())
		assert.Equal(t, 10, cfg.RabbitMQ.Consumer.PrefetchCount)
	})

	t.Run("load config with invalid port", func(t *testing.T) {
		cfg, err := Load("testdata/invalid_port.yaml")
		require.NoError(t, err)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	})

	t.Run("load config with missing database", func(t *testing.T) {
		cfg, err := Load("testdata/missing_database.yaml")
		require.NoError(t, err)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database name is required")
	})
}

func TestShippedConfigs(t *testing.T) {
	clearSecretEnv(t)

	t.Run("auth variant requires JWT_SECRET", func(t *testing.T) {
		cfg, err := Load("../../configs/api-service/config.yaml")
		require.NoError(t, err)
		assert.Empty(t, cfg.Auth.Secret)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "auth secret")

		t.Setenv("JWT_SECRET", strings.Repeat("s", MinSecretLength))
		cfg, err = Load("../../configs/api-service/config.yaml")
		require.NoError(t, err)
		require.NoError(t, cfg.ValidateAPIConfig())
	})

	t.Run("open variant needs no secret", func(t *testing.T) {
		cfg, err := Load("../../configs/api-service-open/config.yaml")
		require.NoError(t, err)
		require.NoError(t, cfg.ValidateAPIConfig())
	})

	t.Run("worker", func(t *testing.T) {
		cfg, err := Load("../../configs/worker-service/config.yaml")
		require.NoError(t, err)
		require.NoError(t, cfg.ValidateWorkerConfig())
	})
}
