package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ethpandaops/panda-wheel/pkg/wheel"
	"github.com/sirupsen/logrus"
)

var (
	DefaultRegion       = "us-east-1"
	DefaultBucketPrefix = "panda-wheel"
	DefaultDBPath       = "wheels.db"
)

// Backend names a Repository implementation.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendS3     Backend = "s3"
	BackendMemory Backend = "memory"
)

// Wheel is the persisted record of a guild's wheel.
type Wheel struct {
	GuildID   string         `json:"guildId"`
	Sections  wheel.Sections `json:"sections"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

//go:generate mockgen -package mock -destination mock/repository.mock.go github.com/ethpandaops/panda-wheel/pkg/store Repository

// Repository persists one wheel per guild.
type Repository interface {
	// Load returns the guild's wheel, or an empty wheel if none has been stored.
	Load(ctx context.Context, guildID string) (*Wheel, error)
	// Persist stores the wheel, replacing any previous record for its guild.
	Persist(ctx context.Context, w *Wheel) error
	// Purge removes the guild's wheel.
	Purge(ctx context.Context, guildID string) error
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the backend's resources.
	Close() error
}

// S3Config contains the configuration for the S3 client.
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Prefix          string
	EndpointURL     string // Optional. If empty, uses default SDK endpoints.
	Region          string // Optional. Defaults to us-east-1.
}

// Config selects and configures a Repository backend.
type Config struct {
	Backend Backend
	DBPath  string
	S3      *S3Config
}

// NewRepository creates the repository named by cfg.Backend.
func NewRepository(ctx context.Context, log *logrus.Logger, cfg *Config, metrics *Metrics) (Repository, error) {
	switch cfg.Backend {
	case BackendSQLite, "":
		path := cfg.DBPath
		if path == "" {
			path = DefaultDBPath
		}

		return NewSQLiteRepo(ctx, log, path, metrics)
	case BackendS3:
		if cfg.S3 == nil {
			return nil, fmt.Errorf("s3 backend requires s3 configuration")
		}

		return NewS3Repo(ctx, log, cfg.S3, metrics)
	case BackendMemory:
		return NewMemoryRepo(metrics), nil
	default:
		return nil, &UnknownBackendError{Backend: string(cfg.Backend)}
	}
}

func emptyWheel(guildID string) *Wheel {
	return &Wheel{
		GuildID:  guildID,
		Sections: wheel.Sections{},
	}
}
