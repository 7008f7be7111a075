package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethpandaops/panda-wheel/pkg/wheel"
	"github.com/sirupsen/logrus"
)

// Cache holds every guild's wheel in memory in front of a Repository. A guild is loaded
// on first use; updates are serialised per guild and reach the repository before the
// cached copy changes. Callers only ever see copies.
type Cache struct {
	log     *logrus.Logger
	repo    Repository
	metrics *Metrics

	mu      sync.Mutex
	entries map[string]*cacheEntry
	loaded  int
}

type cacheEntry struct {
	mu       sync.Mutex
	loaded   bool
	sections wheel.Sections
}

var _ wheel.Store = (*Cache)(nil)

// NewCache creates a Cache over repo.
func NewCache(log *logrus.Logger, repo Repository, metrics *Metrics) *Cache {
	return &Cache{
		log:     log,
		repo:    repo,
		metrics: metrics,
		entries: make(map[string]*cacheEntry),
	}
}

// Sections implements wheel.Store.
func (c *Cache) Sections(ctx context.Context, guildID string) (wheel.Sections, error) {
	e := c.entry(guildID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := c.ensureLoaded(ctx, guildID, e); err != nil {
		return nil, err
	}

	return e.sections.Clone(), nil
}

// Update implements wheel.Store.
func (c *Cache) Update(
	ctx context.Context,
	guildID string,
	fn func(wheel.Sections) (wheel.Sections, error),
) (wheel.Sections, error) {
	e := c.entry(guildID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := c.ensureLoaded(ctx, guildID, e); err != nil {
		return nil, err
	}

	next, err := fn(e.sections.Clone())
	if err != nil {
		return nil, err
	}

	next = next.Clone()

	if err := c.repo.Persist(ctx, &Wheel{
		GuildID:   guildID,
		Sections:  next,
		UpdatedAt: time.Now().UTC(),
	}); err != nil {
		c.log.WithError(err).WithField("guild", guildID).Error("Failed to persist wheel")

		return nil, fmt.Errorf("%w: failed to persist wheel: %w", wheel.ErrStorage, err)
	}

	e.sections = next

	return next.Clone(), nil
}

// Len returns the number of guilds whose wheel is loaded.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loaded
}

// Ping checks the underlying repository.
func (c *Cache) Ping(ctx context.Context) error {
	return c.repo.Ping(ctx)
}

func (c *Cache) entry(guildID string) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[guildID]
	if !ok {
		e = &cacheEntry{}
		c.entries[guildID] = e
	}

	return e
}

// ensureLoaded fills e from the repository. The caller holds e.mu.
func (c *Cache) ensureLoaded(ctx context.Context, guildID string, e *cacheEntry) error {
	c.metrics.cacheLookup(e.loaded)

	if e.loaded {
		return nil
	}

	w, err := c.repo.Load(ctx, guildID)
	if err != nil {
		c.log.WithError(err).WithField("guild", guildID).Error("Failed to load wheel")

		return fmt.Errorf("%w: failed to load wheel: %w", wheel.ErrStorage, err)
	}

	e.sections = w.Sections.Clone()
	e.loaded = true

	c.log.WithFields(logrus.Fields{
		"guild":    guildID,
		"sections": len(e.sections),
	}).Debug("Loaded wheel into cache")

	c.mu.Lock()
	c.loaded++
	c.metrics.setCached(c.loaded)
	c.mu.Unlock()

	return nil
}
