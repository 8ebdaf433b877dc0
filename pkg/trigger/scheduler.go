package trigger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/catsort/internal/logging"
	"github.com/aretw0/catsort/pkg/domain"
)

// DefaultDelay gives the renderer time to produce the original listing.
const DefaultDelay = 50 * time.Millisecond

// ErrSuperseded is reported when a newer trigger replaced a pending run.
var ErrSuperseded = errors.New("run superseded by a newer trigger")

// RunFunc performs one grouping run.
type RunFunc func(ctx context.Context) error

// Scheduler delays runs after construction and route changes.
type Scheduler struct {
	run     RunFunc
	delay   time.Duration
	route   string
	key     string
	manager *Manager
	logger  *slog.Logger
	onSkip  func(error)
	onDone  func(error)

	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	lastRoute string
	seq       uint64
	timer     *time.Timer
	stopped   bool
	wg        sync.WaitGroup
}

// SchedulerOption configures the Scheduler.
type SchedulerOption func(*Scheduler)

// WithDelay sets the delay between a trigger and the run.
func WithDelay(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithRoute sets the view route that schedules runs (default: discovery.categories).
func WithRoute(route string) SchedulerOption {
	return func(s *Scheduler) {
		s.route = route
	}
}

// WithManager serializes runs through m under the scheduler key.
func WithManager(m *Manager) SchedulerOption {
	return func(s *Scheduler) {
		s.manager = m
	}
}

// WithKey sets the lock key used with the Manager (default: the route).
func WithKey(key string) SchedulerOption {
	return func(s *Scheduler) {
		s.key = key
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// OnSkip registers a callback for runs that never executed
// (ErrSuperseded or domain.ErrStaleRoute). Callbacks must not call back
// into the Scheduler.
func OnSkip(fn func(error)) SchedulerOption {
	return func(s *Scheduler) {
		s.onSkip = fn
	}
}

// OnDone registers a callback receiving the result of every executed run.
func OnDone(fn func(error)) SchedulerOption {
	return func(s *Scheduler) {
		s.onDone = fn
	}
}

// NewScheduler creates a Scheduler for run. Nothing fires before Start.
func NewScheduler(run RunFunc, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		run:    run,
		delay:  DefaultDelay,
		route:  domain.DefaultRoute,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.key == "" {
		s.key = s.route
	}
	if s.manager == nil {
		s.manager = NewManager(WithManagerLogger(s.logger))
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Start binds the scheduler to ctx and schedules the construction run.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.cancel()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.scheduleLocked("start")
}

// RouteChanged records a navigation and schedules a run when route is the
// categories view. It reports whether a run was scheduled.
func (s *Scheduler) RouteChanged(route string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRoute = route
	if s.stopped || route != s.route {
		return false
	}
	s.scheduleLocked("route")
	return true
}

// Trigger schedules a run regardless of the route, e.g. when the watched
// document changed on disk.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.scheduleLocked("manual")
}

// Stop cancels any pending run and waits for a running one to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scheduler) scheduleLocked(reason string) {
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
		s.skip(ErrSuperseded)
	}

	s.seq++
	seq := s.seq
	s.wg.Add(1)
	s.timer = time.AfterFunc(s.delay, func() { s.fire(seq) })
	s.logger.Debug("Grouping run scheduled", "reason", reason, "delay", s.delay)
}

func (s *Scheduler) fire(seq uint64) {
	defer s.wg.Done()

	s.mu.Lock()
	if seq != s.seq || s.stopped {
		s.mu.Unlock()
		s.skip(ErrSuperseded)
		return
	}
	if s.lastRoute != "" && s.lastRoute != s.route {
		last := s.lastRoute
		s.mu.Unlock()
		s.logger.Debug("Route left before run fired", "route", s.route, "current", last)
		s.skip(domain.ErrStaleRoute)
		return
	}
	ctx := s.ctx
	s.mu.Unlock()

	err := s.manager.WithLock(ctx, s.key, s.run)
	if err != nil {
		s.logger.Warn("Grouping run failed", "key", s.key, "err", err)
	}
	if s.onDone != nil {
		s.onDone(err)
	}
}

func (s *Scheduler) skip(err error) {
	if s.onSkip != nil {
		s.onSkip(err)
	}
}
