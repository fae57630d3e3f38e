// Package core: thread-safe Manifold accessors and status transitions.
//
// Mutation entry points (MarkReady, SetComputed, SetFailed, SetSkipped)
// validate every change against the transition table below, making the
// "computed at most once" invariant structural rather than conventional:
//
//	Pending → Ready | Skipped
//	Ready   → Computed | Failed | Skipped
//	(Computed, Skipped, Failed are terminal)

package core

import "fmt"

// Len returns the number of nodes in the manifold.
// Complexity: O(1).
func (m *Manifold) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.nodes)
}

// IDs returns every node identifier in insertion order.
// Complexity: O(V).
func (m *Manifold) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append(make([]string, 0, len(m.order)), m.order...)
}

// Has reports whether the node exists.
// Complexity: O(1).
func (m *Manifold) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.nodes[id]

	return ok
}

// Node returns a snapshot of the node's declaration (not its status).
// The snapshot shares the stored Params map; callers must not mutate it.
func (m *Manifold) Node(id string) (Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}

	return rec.spec, nil
}

// Dependencies returns the node's ordered dependency identifiers.
func (m *Manifold) Dependencies(id string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}

	return append(make([]string, 0, len(rec.spec.DependsOn)), rec.spec.DependsOn...), nil
}

// Dependents returns the identifiers of nodes that depend on id, in
// insertion order. The result is empty (not an error) for leaf nodes.
func (m *Manifold) Dependents(id string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	deps := m.dependents[id]

	return append(make([]string, 0, len(deps)), deps...), nil
}

// Status returns the node's current execution status.
func (m *Manifold) Status(id string) (Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.nodes[id]
	if !ok {
		return StatusPending, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}

	return rec.status, nil
}

// Statuses returns a snapshot of every node's status keyed by identifier.
// Complexity: O(V).
func (m *Manifold) Statuses() map[string]Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Status, len(m.nodes))
	for id, rec := range m.nodes {
		out[id] = rec.status
	}

	return out
}

// Payload returns the node's computed payload. ErrNotComputed is returned
// while the slot is still empty (Pending/Ready) or abandoned
// (Skipped/Failed); the payload itself must be treated as read-only.
func (m *Manifold) Payload(id string) (Payload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	if rec.status != StatusComputed {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotComputed, id, rec.status)
	}

	return rec.payload, nil
}

// Complete reports whether every node reached a terminal status.
// Complexity: O(V).
func (m *Manifold) Complete() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.nodes {
		if !rec.status.Terminal() {
			return false
		}
	}

	return true
}

// TopologicalOrder returns a deterministic dependency-respecting ordering
// of node identifiers: Kahn's algorithm seeded and drained in insertion
// order. The manifold is acyclic by construction, so this never fails.
// Complexity: O(V + E).
func (m *Manifold) TopologicalOrder() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	indegree := make(map[string]int, len(m.nodes))
	for _, id := range m.order {
		indegree[id] = len(m.nodes[id].spec.DependsOn)
	}
	queue := make([]string, 0, len(m.order))
	for _, id := range m.order {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	out := make([]string, 0, len(m.order))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)
		for _, next := range m.dependents[cur] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	return out
}

// MarkReady transitions a Pending node to Ready. The scheduler calls this
// once every dependency of the node is Computed.
func (m *Manifold) MarkReady(id string) error {
	return m.transition(id, StatusReady, nil)
}

// SetComputed transitions a Ready node to Computed and fills its payload
// slot. A second call for the same node fails with ErrBadTransition: a
// node computes at most once.
func (m *Manifold) SetComputed(id string, p Payload) error {
	return m.transition(id, StatusComputed, p)
}

// SetFailed transitions a Ready node to Failed (operator failure or
// timeout). The payload slot stays empty.
func (m *Manifold) SetFailed(id string) error {
	return m.transition(id, StatusFailed, nil)
}

// SetSkipped transitions a Pending or Ready node to Skipped (a transitive
// dependency failed). The payload slot stays empty.
func (m *Manifold) SetSkipped(id string) error {
	return m.transition(id, StatusSkipped, nil)
}

// transition applies one validated status change under the write lock.
func (m *Manifold) transition(id string, to Status, p Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	if !allowedTransition(rec.status, to) {
		return fmt.Errorf("%w: %q %s → %s", ErrBadTransition, id, rec.status, to)
	}
	rec.status = to
	if to == StatusComputed {
		rec.payload = p
	}

	return nil
}

// allowedTransition encodes the status transition table.
func allowedTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusReady || to == StatusSkipped
	case StatusReady:
		return to == StatusComputed || to == StatusFailed || to == StatusSkipped
	default:
		return false // terminal states never change
	}
}
