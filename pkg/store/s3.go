package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

// BaseRepo contains common S3 functionality.
type BaseRepo struct {
	store   *s3.Client
	bucket  string
	prefix  string
	log     *logrus.Logger
	metrics *Metrics
}

// NewBaseRepo creates a new base repository with common S3 functionality.
func NewBaseRepo(ctx context.Context, log *logrus.Logger, cfg *S3Config, metrics *Metrics) (BaseRepo, error) {
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	opts := []func(*config.LoadOptions) error{
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion(region),
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return BaseRepo{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	cfgOpts := []func(*s3.Options){}

	if cfg.EndpointURL != "" {
		cfgOpts = append(cfgOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		})
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultBucketPrefix
	}

	return BaseRepo{
		store:   s3.NewFromConfig(awsCfg, cfgOpts...),
		bucket:  cfg.Bucket,
		prefix:  prefix,
		log:     log,
		metrics: metrics,
	}, nil
}

// GetS3Client returns the underlying S3 client.
func (b *BaseRepo) GetS3Client() *s3.Client {
	return b.store
}

// Ping verifies the bucket exists and is reachable.
func (b *BaseRepo) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { b.metrics.observe(BackendS3, "ping", start, err) }()

	if _, err = b.store.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucket),
	}); err != nil {
		return fmt.Errorf("failed to access bucket %s: %w", b.bucket, err)
	}

	return nil
}

// S3Repo stores each guild's wheel as a JSON object.
type S3Repo struct {
	BaseRepo
}

// NewS3Repo creates a new S3Repo.
func NewS3Repo(ctx context.Context, log *logrus.Logger, cfg *S3Config, metrics *Metrics) (*S3Repo, error) {
	baseRepo, err := NewBaseRepo(ctx, log, cfg, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create base repo: %w", err)
	}

	return &S3Repo{
		BaseRepo: baseRepo,
	}, nil
}

// Key returns the object key of a guild's wheel.
func (s *S3Repo) Key(guildID string) string {
	return fmt.Sprintf("%s/guilds/%s/wheel.json", s.prefix, guildID)
}

// Load implements Repository.
func (s *S3Repo) Load(ctx context.Context, guildID string) (w *Wheel, err error) {
	start := time.Now()
	defer func() { s.metrics.observe(BackendS3, "load", start, err) }()

	if guildID == "" {
		return nil, ErrMissingGuildID
	}

	output, err := s.store.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(guildID)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey

		if errors.As(err, &noSuchKey) {
			return emptyWheel(guildID), nil
		}

		return nil, fmt.Errorf("failed to get wheel: %w", err)
	}

	defer output.Body.Close()

	var stored Wheel
	if err := json.NewDecoder(output.Body).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to decode wheel: %w", err)
	}

	stored.GuildID = guildID

	if stored.Sections == nil {
		stored.Sections = emptyWheel(guildID).Sections
	}

	return &stored, nil
}

// Persist implements Repository.
func (s *S3Repo) Persist(ctx context.Context, w *Wheel) (err error) {
	start := time.Now()
	defer func() { s.metrics.observe(BackendS3, "persist", start, err) }()

	if w == nil || w.GuildID == "" {
		return ErrMissingGuildID
	}

	stored := *w
	if stored.Sections == nil {
		stored.Sections = emptyWheel(w.GuildID).Sections
	}

	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal wheel: %w", err)
	}

	if _, err = s.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(w.GuildID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return fmt.Errorf("failed to put wheel: %w", err)
	}

	s.metrics.observeSize(BackendS3, len(data))

	s.log.WithFields(logrus.Fields{
		"guild":    w.GuildID,
		"sections": len(w.Sections),
		"bytes":    len(data),
	}).Debug("Persisted wheel to s3")

	return nil
}

// Purge implements Repository.
func (s *S3Repo) Purge(ctx context.Context, guildID string) (err error) {
	start := time.Now()
	defer func() { s.metrics.observe(BackendS3, "purge", start, err) }()

	if guildID == "" {
		return ErrMissingGuildID
	}

	if _, err = s.store.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(guildID)),
	}); err != nil {
		return fmt.Errorf("failed to delete wheel: %w", err)
	}

	return nil
}

// Close implements Repository.
func (s *S3Repo) Close() error {
	return nil
}
