// Package stack: the Stack type, stage registration and the staged run.
package stack

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/manifold/core"
	"github.com/katalvlaran/manifold/operator"
	"github.com/katalvlaran/manifold/scheduler"
)

var (
	// ErrNilScheduler indicates New received a nil scheduler.
	ErrNilScheduler = errors.New("stack: scheduler must not be nil")

	// ErrNilRegistry indicates New received a nil registry.
	ErrNilRegistry = errors.New("stack: registry must not be nil")

	// ErrEmptyStageName indicates a stage pushed without a name.
	ErrEmptyStageName = errors.New("stack: stage name must not be empty")

	// ErrDuplicateStage indicates two stages sharing a name.
	ErrDuplicateStage = errors.New("stack: stage name already used")

	// ErrNilStageManifold indicates a stage pushed without a manifold.
	ErrNilStageManifold = errors.New("stack: stage manifold must not be nil")

	// ErrBadBinding indicates a binding whose endpoints do not exist, or
	// any binding on the first stage.
	ErrBadBinding = errors.New("stack: invalid stage binding")

	// ErrNoStages indicates Run on an empty stack.
	ErrNoStages = errors.New("stack: no stages to run")
)

// StageError wraps a scheduler failure with the stage it happened in.
type StageError struct {
	Stage string
	Err   error
}

// Error names the failing stage.
func (e *StageError) Error() string {
	return fmt.Sprintf("stack: stage %q: %v", e.Stage, e.Err)
}

// Unwrap returns the scheduler's error (typically an
// *scheduler.ExecutionError or *scheduler.CancellationError).
func (e *StageError) Unwrap() error { return e.Err }

// stage is one registered step: a template manifold plus the payload
// bindings feeding it from the previous stage.
type stage struct {
	name     string
	template *core.Manifold
	bindings map[string]string // local node ID -> previous-stage node ID
}

// Stack is an ordered sequence of manifold stages sharing one scheduler
// and one operator registry. Build it with New and Push, then Run.
// A Stack is not safe for concurrent mutation; runs of a fully built
// stack are.
type Stack struct {
	sched  *scheduler.Scheduler
	reg    *operator.Registry
	stages []stage
}

// New builds an empty stack over the given scheduler and registry.
func New(sched *scheduler.Scheduler, reg *operator.Registry) (*Stack, error) {
	if sched == nil {
		return nil, ErrNilScheduler
	}
	if reg == nil {
		return nil, ErrNilRegistry
	}
	return &Stack{sched: sched, reg: reg}, nil
}

// Len returns the number of registered stages.
func (s *Stack) Len() int { return len(s.stages) }

// Push appends a stage. bindings maps node IDs of this stage to node IDs
// of the previous stage whose payloads seed them; the first stage takes
// no bindings. The manifold is used as a read-only template.
func (s *Stack) Push(name string, m *core.Manifold, bindings map[string]string) error {
	if name == "" {
		return ErrEmptyStageName
	}
	if m == nil {
		return ErrNilStageManifold
	}
	for _, st := range s.stages {
		if st.name == name {
			return fmt.Errorf("%w: %q", ErrDuplicateStage, name)
		}
	}

	if len(bindings) > 0 && len(s.stages) == 0 {
		return fmt.Errorf("%w: first stage %q cannot bind", ErrBadBinding, name)
	}
	for local, remote := range bindings {
		if !m.Has(local) {
			return fmt.Errorf("%w: stage %q has no node %q", ErrBadBinding, name, local)
		}
		if prev := s.stages[len(s.stages)-1]; !prev.template.Has(remote) {
			return fmt.Errorf("%w: stage %q has no node %q to bind from", ErrBadBinding, prev.name, remote)
		}
	}

	copied := make(map[string]string, len(bindings))
	for local, remote := range bindings {
		copied[local] = remote
	}
	s.stages = append(s.stages, stage{name: name, template: m, bindings: copied})
	return nil
}

// Result carries the per-stage manifolds of a run, including the one a
// failing stage stopped on.
type Result struct {
	// Order lists stage names in execution order, up to and including
	// the stage that failed.
	Order []string

	// Manifolds maps stage names to their executed (derived) manifolds.
	Manifolds map[string]*core.Manifold
}

// Payload returns a node's payload from a named stage.
func (r *Result) Payload(stage, node string) (core.Payload, error) {
	m, ok := r.Manifolds[stage]
	if !ok {
		return nil, fmt.Errorf("stack: no stage %q in result", stage)
	}
	return m.Payload(node)
}

// Run executes the stages in order. Each stage runs on a fresh
// derivation of its template; templates are never mutated, so a stack
// can run repeatedly. The first stage failure stops the run and returns
// a *StageError alongside the partial Result.
func (s *Stack) Run(ctx context.Context) (*Result, error) {
	if len(s.stages) == 0 {
		return nil, ErrNoStages
	}

	res := &Result{Manifolds: make(map[string]*core.Manifold, len(s.stages))}

	var prev *core.Manifold
	for _, st := range s.stages {
		m := st.template.Fresh()
		res.Order = append(res.Order, st.name)
		res.Manifolds[st.name] = m

		if err := s.bind(m, prev, st); err != nil {
			return res, err
		}
		if err := s.sched.Run(ctx, m, s.reg); err != nil {
			return res, &StageError{Stage: st.name, Err: err}
		}
		prev = m
	}
	return res, nil
}

// bind seeds m's bound nodes with payloads from the previous stage.
func (s *Stack) bind(m, prev *core.Manifold, st stage) error {
	for local, remote := range st.bindings {
		payload, err := prev.Payload(remote)
		if err != nil {
			return &StageError{Stage: st.name, Err: fmt.Errorf("binding %q <- %q: %w", local, remote, err)}
		}
		if err := m.MarkReady(local); err != nil {
			return &StageError{Stage: st.name, Err: err}
		}
		if err := m.SetComputed(local, payload); err != nil {
			return &StageError{Stage: st.name, Err: err}
		}
	}
	return nil
}
