package service

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/ethpandaops/panda-wheel/pkg/discord"
	"github.com/ethpandaops/panda-wheel/pkg/store"
)

const (
	// DefaultMetricsAddress is where prometheus metrics are served.
	DefaultMetricsAddress = ":9091"
	// DefaultHealthCheckAddress is where /healthz is served.
	DefaultHealthCheckAddress = ":9191"
	// DefaultHealthCheckSchedule controls how often the store is pinged.
	DefaultHealthCheckSchedule = "@every 1m"
)

// Config contains the configuration for the service.
type Config struct {
	DiscordToken        string   `env:"DISCORD_BOT_TOKEN"`
	GuildIDs            []string `env:"DISCORD_GUILD_IDS" envSeparator:","`
	StoreBackend        string   `env:"WHEEL_STORE" envDefault:"sqlite"`
	DBPath              string   `env:"WHEEL_DB_PATH" envDefault:"wheels.db"`
	AccessKeyID         string   `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey     string   `env:"AWS_SECRET_ACCESS_KEY"`
	S3Bucket            string   `env:"S3_BUCKET"`
	S3BucketPrefix      string   `env:"S3_BUCKET_PREFIX"`
	S3Region            string   `env:"S3_REGION"`
	S3EndpointURL       string   `env:"S3_ENDPOINT_URL"`
	MetricsAddress      string   `env:"METRICS_ADDRESS" envDefault:":9091"`
	HealthCheckAddress  string   `env:"HEALTH_CHECK_ADDRESS" envDefault:":9191"`
	HealthCheckSchedule string   `env:"HEALTH_CHECK_SCHEDULE" envDefault:"@every 1m"`
	LogLevel            string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string   `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// AsS3Config converts the configuration to an S3Config.
func (c *Config) AsS3Config() *store.S3Config {
	return &store.S3Config{
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		Bucket:          c.S3Bucket,
		Prefix:          c.S3BucketPrefix,
		Region:          c.S3Region,
		EndpointURL:     c.S3EndpointURL,
	}
}

// AsStoreConfig converts the configuration to a store Config.
func (c *Config) AsStoreConfig() *store.Config {
	cfg := &store.Config{
		Backend: store.Backend(c.StoreBackend),
		DBPath:  c.DBPath,
	}

	if cfg.Backend == store.BackendS3 {
		cfg.S3 = c.AsS3Config()
	}

	return cfg
}

// AsDiscordConfig converts the configuration to a DiscordConfig.
func (c *Config) AsDiscordConfig() *discord.Config {
	return &discord.Config{
		DiscordToken: c.DiscordToken,
		GuildIDs:     c.GuildIDs,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return errors.New("DISCORD_BOT_TOKEN environment variable is required")
	}

	switch store.Backend(c.StoreBackend) {
	case "", store.BackendSQLite:
		if c.DBPath == "" {
			return errors.New("WHEEL_DB_PATH environment variable is required for the sqlite store")
		}
	case store.BackendS3:
		if c.AccessKeyID == "" {
			return errors.New("AWS_ACCESS_KEY_ID environment variable is required")
		}

		if c.SecretAccessKey == "" {
			return errors.New("AWS_SECRET_ACCESS_KEY environment variable is required")
		}

		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET environment variable is required")
		}
	case store.BackendMemory:
	default:
		return &store.UnknownBackendError{Backend: c.StoreBackend}
	}

	return nil
}
