package scheduler

import (
	"runtime"
	"time"
)

// Scheduler runs manifolds with a fixed worker budget. A Scheduler is
// immutable after New and safe to share across goroutines; per-run state
// lives inside Run.
type Scheduler struct {
	workers int
	timeout time.Duration // 0 = unbounded invocations
	log     Logger
	cache   ReplayCache // nil = no replay
}

// Option adjusts a Scheduler under construction.
type Option func(*Scheduler) error

// New builds a Scheduler. Defaults: runtime.NumCPU() workers, no
// per-invocation timeout, silent logger, no replay cache.
func New(opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		workers: runtime.NumCPU(),
		log:     nopLogger{},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// WithWorkers bounds concurrent invocations to n. n must be >= 1.
func WithWorkers(n int) Option {
	return func(s *Scheduler) error {
		if n < 1 {
			return ErrBadWorkers
		}
		s.workers = n
		return nil
	}
}

// WithTimeout bounds each operator invocation to d. A node whose
// invocation exceeds d fails with an ErrTimeout cause. Zero disables the
// bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) error {
		if d < 0 {
			return ErrBadTimeout
		}
		s.timeout = d
		return nil
	}
}

// WithLogger routes run progress to l. A nil l restores the silent
// default.
func WithLogger(l Logger) Option {
	return func(s *Scheduler) error {
		if l == nil {
			l = nopLogger{}
		}
		s.log = l
		return nil
	}
}

// WithCortex attaches a replay cache. Deterministic invocations whose
// witness signature is already remembered reuse the cached payload.
func WithCortex(cache ReplayCache) Option {
	return func(s *Scheduler) error {
		s.cache = cache
		return nil
	}
}
