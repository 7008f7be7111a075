package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS wheels (
	guild_id   TEXT PRIMARY KEY,
	sections   TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteRepo stores each guild's wheel as a row in a local SQLite database.
type SQLiteRepo struct {
	db      *sql.DB
	log     *logrus.Logger
	metrics *Metrics
}

// NewSQLiteRepo opens, or creates, the database at path and ensures its schema.
func NewSQLiteRepo(ctx context.Context, log *logrus.Logger, path string, metrics *Metrics) (*SQLiteRepo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.WithField("path", path).Info("Opened sqlite wheel store")

	return &SQLiteRepo{
		db:      db,
		log:     log,
		metrics: metrics,
	}, nil
}

// Load implements Repository.
func (s *SQLiteRepo) Load(ctx context.Context, guildID string) (w *Wheel, err error) {
	start := time.Now()
	defer func() { s.metrics.observe(BackendSQLite, "load", start, err) }()

	if guildID == "" {
		return nil, ErrMissingGuildID
	}

	var (
		raw       string
		updatedAt int64
	)

	err = s.db.QueryRowContext(ctx,
		`SELECT sections, updated_at FROM wheels WHERE guild_id = ?`, guildID,
	).Scan(&raw, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return emptyWheel(guildID), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query wheel: %w", err)
	}

	w = emptyWheel(guildID)
	w.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	if err := json.Unmarshal([]byte(raw), &w.Sections); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}

	if w.Sections == nil {
		w.Sections = emptyWheel(guildID).Sections
	}

	return w, nil
}

// Persist implements Repository.
func (s *SQLiteRepo) Persist(ctx context.Context, w *Wheel) (err error) {
	start := time.Now()
	defer func() { s.metrics.observe(BackendSQLite, "persist", start, err) }()

	if w == nil || w.GuildID == "" {
		return ErrMissingGuildID
	}

	sections := w.Sections
	if sections == nil {
		sections = emptyWheel(w.GuildID).Sections
	}

	data, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("failed to marshal sections: %w", err)
	}

	updatedAt := w.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	if _, err = s.db.ExecContext(ctx,
		`INSERT INTO wheels (guild_id, sections, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(guild_id) DO UPDATE SET sections = excluded.sections, updated_at = excluded.updated_at`,
		w.GuildID, string(data), updatedAt.UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("failed to upsert wheel: %w", err)
	}

	s.metrics.observeSize(BackendSQLite, len(data))

	s.log.WithFields(logrus.Fields{
		"guild":    w.GuildID,
		"sections": len(sections),
	}).Debug("Persisted wheel to sqlite")

	return nil
}

// Purge implements Repository.
func (s *SQLiteRepo) Purge(ctx context.Context, guildID string) (err error) {
	start := time.Now()
	defer func() { s.metrics.observe(BackendSQLite, "purge", start, err) }()

	if guildID == "" {
		return ErrMissingGuildID
	}

	if _, err = s.db.ExecContext(ctx, `DELETE FROM wheels WHERE guild_id = ?`, guildID); err != nil {
		return fmt.Errorf("failed to delete wheel: %w", err)
	}

	return nil
}

// Ping implements Repository.
func (s *SQLiteRepo) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.metrics.observe(BackendSQLite, "ping", start, err) }()

	if err = s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	return nil
}

// Close implements Repository.
func (s *SQLiteRepo) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}
