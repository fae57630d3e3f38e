// Package operator: the process-wide (but explicit) operator Registry.

package operator

import (
	"fmt"
	"sort"
	"sync"

	"github.com/katalvlaran/manifold/chart"
)

// Registry maps operator names to implementations. Construct one at
// process start with NewRegistry (or Base), register capabilities, and
// pass it into scheduler calls; tests build isolated registries the same
// way. All methods are safe for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Operator
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operator)}
}

// Base returns a Registry pre-loaded with every base operator
// (const, add, mul, neg, gather) plus the sample math probes.
func Base() *Registry {
	r := NewRegistry()
	for _, op := range []Operator{Const(), Add(), Mul(), Neg(), Gather(), Primality(), ZetaPartial()} {
		// Base names are distinct by construction; Register cannot fail.
		_ = r.Register(op)
	}
	return r
}

// Register adds an operator under its name.
// Returns ErrNilOperator, ErrEmptyName, or ErrConflict on violation.
// Complexity: O(1).
func (r *Registry) Register(op Operator) error {
	if op == nil {
		return ErrNilOperator
	}
	name := op.Name()
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("%w: %q", ErrConflict, name)
	}
	r.ops[name] = op

	return nil
}

// Lookup returns the operator registered under name.
// Complexity: O(1).
func (r *Registry) Lookup(name string) (Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, name)
	}

	return op, nil
}

// Names returns every registered name, sorted.
// Complexity: O(n log n).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Requirements exports every operator's required parameter keys in the
// form chart.Parse consumes via chart.WithRequirements.
func (r *Registry) Requirements() chart.Requirements {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reqs := make(chart.Requirements, len(r.ops))
	for name, op := range r.ops {
		if keys := op.Requires(); len(keys) > 0 {
			reqs[name] = append(make([]string, 0, len(keys)), keys...)
		}
	}

	return reqs
}
