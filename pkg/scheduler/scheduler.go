package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultJobTimeout bounds a single run of any job.
const DefaultJobTimeout = 30 * time.Second

type Job struct {
	Name     string
	Schedule string
	Run      func(context.Context) error
}

type entry struct {
	id  cron.EntryID
	job Job
}

type Scheduler struct {
	log     *logrus.Logger
	cron    *cron.Cron
	metrics *Metrics
	timeout time.Duration
	jobs    map[string]entry // Track jobs by name
	mu      sync.Mutex
}

func NewScheduler(log *logrus.Logger, metrics *Metrics) *Scheduler {
	return &Scheduler{
		log:     log,
		cron:    cron.New(),
		metrics: metrics,
		timeout: DefaultJobTimeout,
		jobs:    make(map[string]entry),
	}
}

func (s *Scheduler) AddJob(name, schedule string, run func(context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// If job already exists, remove it first.
	if existing, exists := s.jobs[name]; exists {
		s.cron.Remove(existing.id)
		s.metrics.jobRemoved()
	}

	job := Job{Name: name, Schedule: schedule, Run: run}

	id, err := s.cron.AddFunc(schedule, func() {
		_ = s.execute(context.Background(), job)
	})
	if err != nil {
		delete(s.jobs, name)

		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs[name] = entry{id: id, job: job}
	s.metrics.jobAdded(schedule)

	s.log.WithFields(logrus.Fields{
		"job":      name,
		"schedule": schedule,
	}).Info("Scheduled job")

	return nil
}

func (s *Scheduler) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.jobs[name]; exists {
		s.cron.Remove(existing.id)
		delete(s.jobs, name)
		s.metrics.jobRemoved()
	}
}

// RunJob runs a registered job immediately, outside its schedule.
func (s *Scheduler) RunJob(ctx context.Context, name string) error {
	s.mu.Lock()
	existing, exists := s.jobs[name]
	s.mu.Unlock()

	if !exists {
		return fmt.Errorf("job %s is not registered", name)
	}

	return s.execute(ctx, existing.job)
}

// Jobs returns the names of all registered jobs, sorted.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) execute(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := job.Run(ctx)

	s.metrics.jobExecuted(job, start, err)

	if err != nil {
		s.log.WithError(err).WithField("job", job.Name).Error("Job failed")
	}

	return err
}
