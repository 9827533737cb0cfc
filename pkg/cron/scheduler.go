package cron

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// parser accepts six-field expressions with a leading seconds field, the
// same format cron.WithSeconds uses.
var parser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateSchedule reports whether spec is a schedule the Scheduler accepts.
func ValidateSchedule(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return errors.Wrapf(err, "invalid schedule %q", spec)
	}
	return nil
}

// Job is one named periodic task.
type Job struct {
	Name     string
	Schedule string
	Run      func() error
}

type jobState struct {
	job     Job
	entry   cron.EntryID
	mu      sync.Mutex
	running bool
}

// Scheduler runs periodic housekeeping jobs. A job still running when its
// next tick fires is skipped rather than run twice.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger

	mu   sync.RWMutex
	jobs map[string]*jobState
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithParser(parser)),
		log:  log,
		jobs: make(map[string]*jobState),
	}
}

// Add registers a job. Names must be unique.
func (s *Scheduler) Add(job Job) error {
	if job.Run == nil {
		return errors.Newf("job %q has no run func", job.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.Name]; ok {
		return errors.Newf("job %q already scheduled", job.Name)
	}
	state := &jobState{job: job}
	entry, err := s.cron.AddFunc(job.Schedule, func() { s.run(state) })
	if err != nil {
		return errors.Wrapf(err, "scheduling job %q", job.Name)
	}
	state.entry = entry
	s.jobs[job.Name] = state
	s.log.Info().Str("job", job.Name).Str("schedule", job.Schedule).Msg("scheduled job")
	return nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow runs the named job immediately, outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	state, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return errors.Newf("no job %q", name)
	}
	s.run(state)
	return nil
}

// NextRun returns when the named job fires next. It is zero before Start.
func (s *Scheduler) NextRun(name string) time.Time {
	s.mu.RLock()
	state, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(state.entry).Next
}

// IsRunning reports whether the named job is in progress.
func (s *Scheduler) IsRunning(name string) bool {
	s.mu.RLock()
	state, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.running
}

func (s *Scheduler) run(state *jobState) {
	state.mu.Lock()
	if state.running {
		state.mu.Unlock()
		s.log.Debug().Str("job", state.job.Name).Msg("job already running, skipping")
		return
	}
	state.running = true
	state.mu.Unlock()

	defer func() {
		state.mu.Lock()
		state.running = false
		state.mu.Unlock()
	}()

	start := time.Now()
	if err := state.job.Run(); err != nil {
		s.log.Warn().Err(err).Str("job", state.job.Name).Msg("job failed")
		return
	}
	s.log.Debug().Str("job", state.job.Name).Dur("took", time.Since(start)).Msg("job finished")
}
