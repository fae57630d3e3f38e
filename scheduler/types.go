// Package scheduler: sentinel errors, aggregate error types and the
// replay-cache contract.
package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/manifold/core"
)

var (
	// ErrNilManifold is returned by Run when the manifold is nil.
	ErrNilManifold = errors.New("scheduler: manifold must not be nil")

	// ErrNilRegistry is returned by Run when the registry is nil.
	ErrNilRegistry = errors.New("scheduler: registry must not be nil")

	// ErrBadWorkers is returned by New for a non-positive worker count.
	ErrBadWorkers = errors.New("scheduler: worker count must be >= 1")

	// ErrBadTimeout is returned by New for a negative invocation timeout.
	ErrBadTimeout = errors.New("scheduler: timeout must not be negative")

	// ErrTimeout is the cause attached to a node whose invocation exceeded
	// the per-invocation timeout.
	ErrTimeout = errors.New("scheduler: operator invocation timed out")

	// ErrStalled reports a run that cannot make progress while non-terminal
	// nodes remain. It indicates a corrupted manifold, not an operator
	// failure, and is never wrapped in an ExecutionError.
	ErrStalled = errors.New("scheduler: no runnable nodes remain while work is pending")
)

// ExecutionError aggregates the failures of a finished run: one cause per
// node that ended Failed. Nodes that ended Skipped are not listed; their
// status on the manifold records the propagation.
type ExecutionError struct {
	// Causes maps failed node IDs to the error their invocation produced.
	Causes map[string]error
}

// Error lists the failed nodes in lexical order.
func (e *ExecutionError) Error() string {
	ids := make([]string, 0, len(e.Causes))
	for id := range e.Causes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	fmt.Fprintf(&b, "scheduler: %d node(s) failed", len(ids))
	for _, id := range ids {
		fmt.Fprintf(&b, "; %q: %v", id, e.Causes[id])
	}
	return b.String()
}

// Unwrap exposes the per-node causes to errors.Is / errors.As.
func (e *ExecutionError) Unwrap() []error {
	ids := make([]string, 0, len(e.Causes))
	for id := range e.Causes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]error, len(ids))
	for i, id := range ids {
		out[i] = e.Causes[id]
	}
	return out
}

// CancellationError reports a run cut short by context cancellation.
// Payloads computed before the cancellation remain on the manifold;
// Done lists the node IDs that reached Computed.
type CancellationError struct {
	Done []string
	Err  error
}

// Error describes the interruption and how far the run got.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("scheduler: run cancelled after %d node(s): %v", len(e.Done), e.Err)
}

// Unwrap returns the context error (context.Canceled or
// context.DeadlineExceeded).
func (e *CancellationError) Unwrap() error { return e.Err }

// ReplayCache remembers payloads of deterministic invocations keyed by
// witness signature. cortex.Cortex implements it; any map-backed cache
// will do for tests.
type ReplayCache interface {
	// Recall returns the remembered payload for a signature, if any.
	Recall(signature string) (core.Payload, bool)

	// Remember stores the payload produced under a signature.
	Remember(signature string, payload core.Payload)
}
