package wheel

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// Store provides serialised, durable access to each guild's sections.
type Store interface {
	// Sections returns a copy of the guild's current sections.
	Sections(ctx context.Context, guildID string) (Sections, error)
	// Update applies fn to a copy of the guild's sections and persists the result before
	// returning it. Calls for the same guild never overlap. If fn returns an error nothing
	// is written and that error is returned unchanged.
	Update(ctx context.Context, guildID string, fn func(Sections) (Sections, error)) (Sections, error)
}

// AddResult is returned by AddSection.
type AddResult struct {
	Section Section
	Total   float64
}

// RemoveResult is returned by RemoveSection.
type RemoveResult struct {
	Section Section
	Count   int
	Total   float64
}

// EditResult is returned by EditSection.
type EditResult struct {
	Section Section
	Total   float64
}

// SpinResult is returned by SpinWheel.
type SpinResult struct {
	Winner   Section
	Sections Sections
}

// Engine enforces the wheel invariants and performs spins.
type Engine struct {
	log      *logrus.Logger
	store    Store
	rnd      Random
	resolver *ColorResolver
	metrics  *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom sets the random source used for spins.
func WithRandom(rnd Random) Option {
	return func(e *Engine) {
		e.rnd = rnd
	}
}

// WithColorResolver sets the colour resolver.
func WithColorResolver(r *ColorResolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithMetrics enables spin and mutation metrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates a new Engine backed by store.
func NewEngine(log *logrus.Logger, store Store, opts ...Option) *Engine {
	e := &Engine{
		log:   log,
		store: store,
		rnd:   DefaultRandom,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.resolver == nil {
		e.resolver = NewColorResolver(e.rnd)
	}

	return e
}

// CreateWheel replaces the guild's wheel with an empty one.
func (e *Engine) CreateWheel(ctx context.Context, guildID string) error {
	if _, err := e.store.Update(ctx, guildID, func(Sections) (Sections, error) {
		return Sections{}, nil
	}); err != nil {
		e.observe("create", err)

		return err
	}

	e.observe("create", nil)

	e.log.WithField("guild", guildID).Info("Created wheel")

	return nil
}

// AddSection appends a new section and returns it with the new total.
func (e *Engine) AddSection(ctx context.Context, guildID, name string, percentage float64, color string) (*AddResult, error) {
	name = strings.TrimSpace(name)

	var added Section

	sections, err := e.store.Update(ctx, guildID, func(current Sections) (Sections, error) {
		if name == "" {
			return nil, &InvalidNameError{Name: name}
		}

		if !validPercentage(percentage) {
			return nil, &InvalidPercentageError{Percentage: percentage}
		}

		if current.Index(name) >= 0 {
			return nil, &DuplicateNameError{Name: name}
		}

		if total := current.Total(); exceedsBudget(total, percentage) {
			return nil, &BudgetExceededError{Total: total, Requested: percentage}
		}

		added = Section{
			Name:       name,
			Percentage: percentage,
			Color:      e.resolver.Resolve(color),
		}

		return append(current, added), nil
	})

	e.observe("add", err)

	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"guild":      guildID,
		"section":    added.Name,
		"percentage": added.Percentage,
		"color":      added.Color,
	}).Debug("Added section")

	return &AddResult{Section: added, Total: sections.Total()}, nil
}

// RemoveSection deletes the named section (case-insensitive).
func (e *Engine) RemoveSection(ctx context.Context, guildID, name string) (*RemoveResult, error) {
	name = strings.TrimSpace(name)

	var removed Section

	sections, err := e.store.Update(ctx, guildID, func(current Sections) (Sections, error) {
		idx := current.Index(name)
		if idx < 0 {
			return nil, &SectionNotFoundError{Name: name}
		}

		removed = current[idx]

		return append(current[:idx], current[idx+1:]...), nil
	})

	e.observe("remove", err)

	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"guild":   guildID,
		"section": removed.Name,
	}).Debug("Removed section")

	return &RemoveResult{Section: removed, Count: len(sections), Total: sections.Total()}, nil
}

// EditSection changes the percentage and colour of the named section. The budget check
// excludes the section being edited.
func (e *Engine) EditSection(ctx context.Context, guildID, name string, percentage float64, color string) (*EditResult, error) {
	name = strings.TrimSpace(name)

	var edited Section

	sections, err := e.store.Update(ctx, guildID, func(current Sections) (Sections, error) {
		idx := current.Index(name)
		if idx < 0 {
			return nil, &SectionNotFoundError{Name: name}
		}

		if !validPercentage(percentage) {
			return nil, &InvalidPercentageError{Percentage: percentage}
		}

		others := current.Total() - current[idx].Percentage
		if exceedsBudget(others, percentage) {
			return nil, &BudgetExceededError{Total: others, Requested: percentage}
		}

		current[idx].Percentage = percentage
		current[idx].Color = e.resolver.Resolve(color)
		edited = current[idx]

		return current, nil
	})

	e.observe("edit", err)

	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"guild":      guildID,
		"section":    edited.Name,
		"percentage": edited.Percentage,
		"color":      edited.Color,
	}).Debug("Edited section")

	return &EditResult{Section: edited, Total: sections.Total()}, nil
}

// ListSections returns the guild's sections in order along with their total.
func (e *Engine) ListSections(ctx context.Context, guildID string) (Sections, float64, error) {
	sections, err := e.store.Sections(ctx, guildID)
	if err != nil {
		return nil, 0, err
	}

	return sections, sections.Total(), nil
}

// Spin performs a weighted random draw over the guild's sections.
func (e *Engine) Spin(ctx context.Context, guildID string) (Section, error) {
	result, err := e.SpinWheel(ctx, guildID)
	if err != nil {
		return Section{}, err
	}

	return result.Winner, nil
}

// SpinWheel is Spin that also returns the sections the winner was drawn from.
func (e *Engine) SpinWheel(ctx context.Context, guildID string) (*SpinResult, error) {
	sections, err := e.store.Sections(ctx, guildID)
	if err != nil {
		e.observeSpin("storage_error")

		return nil, err
	}

	if len(sections) == 0 {
		e.observeSpin("empty")

		return nil, ErrEmptyWheel
	}

	total := sections.Total()
	if total < MaxPercentage-Epsilon {
		e.observeSpin("incomplete")

		return nil, &IncompleteWheelError{Total: total}
	}

	winner := Pick(sections, e.rnd.Float64()*total)

	e.observeSpin("ok")

	e.log.WithFields(logrus.Fields{
		"guild":  guildID,
		"winner": winner.Name,
	}).Info("Wheel spun")

	return &SpinResult{Winner: winner, Sections: sections}, nil
}

// Pick walks sections accumulating percentages and returns the first section whose
// cumulative sum is >= r. Boundaries belong to the earlier section. If no section
// qualifies the first one is returned. sections must not be empty.
func Pick(sections Sections, r float64) Section {
	var cumulative float64

	for _, section := range sections {
		cumulative += section.Percentage
		if r <= cumulative {
			return section
		}
	}

	return sections[0]
}

func (e *Engine) observe(operation string, err error) {
	if e.metrics == nil {
		return
	}

	e.metrics.operationsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

func (e *Engine) observeSpin(result string) {
	if e.metrics == nil {
		return
	}

	e.metrics.spinsTotal.WithLabelValues(result).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsValidation(err):
		return "rejected"
	default:
		return "error"
	}
}
