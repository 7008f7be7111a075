package store

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps wheels in process memory. Nothing survives a restart.
type MemoryRepo struct {
	mu      sync.RWMutex
	wheels  map[string]Wheel
	metrics *Metrics
}

// NewMemoryRepo creates an empty MemoryRepo.
func NewMemoryRepo(metrics *Metrics) *MemoryRepo {
	return &MemoryRepo{
		wheels:  make(map[string]Wheel),
		metrics: metrics,
	}
}

// Load implements Repository.
func (m *MemoryRepo) Load(_ context.Context, guildID string) (*Wheel, error) {
	start := time.Now()

	if guildID == "" {
		m.metrics.observe(BackendMemory, "load", start, ErrMissingGuildID)

		return nil, ErrMissingGuildID
	}

	m.mu.RLock()
	stored, ok := m.wheels[guildID]
	m.mu.RUnlock()

	m.metrics.observe(BackendMemory, "load", start, nil)

	if !ok {
		return emptyWheel(guildID), nil
	}

	stored.Sections = stored.Sections.Clone()

	return &stored, nil
}

// Persist implements Repository.
func (m *MemoryRepo) Persist(_ context.Context, w *Wheel) error {
	start := time.Now()

	if w == nil || w.GuildID == "" {
		m.metrics.observe(BackendMemory, "persist", start, ErrMissingGuildID)

		return ErrMissingGuildID
	}

	stored := *w
	stored.Sections = w.Sections.Clone()

	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	m.wheels[w.GuildID] = stored
	m.mu.Unlock()

	m.metrics.observe(BackendMemory, "persist", start, nil)

	return nil
}

// Purge implements Repository.
func (m *MemoryRepo) Purge(_ context.Context, guildID string) error {
	start := time.Now()

	if guildID == "" {
		m.metrics.observe(BackendMemory, "purge", start, ErrMissingGuildID)

		return ErrMissingGuildID
	}

	m.mu.Lock()
	delete(m.wheels, guildID)
	m.mu.Unlock()

	m.metrics.observe(BackendMemory, "purge", start, nil)

	return nil
}

// Ping implements Repository.
func (m *MemoryRepo) Ping(context.Context) error {
	return nil
}

// Close implements Repository.
func (m *MemoryRepo) Close() error {
	return nil
}
