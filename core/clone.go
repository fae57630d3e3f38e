// Package core: manifold cloning for replays and stage derivation.

package core

// Clone returns a deep copy of the manifold's structure together with the
// current statuses and payload slots. Payload values themselves are shared
// (they are read-only once computed), as are Params maps.
//
// Use Clone to hand a completed manifold to a consumer while retaining an
// independently mutable copy. Complexity: O(V + E).
func (m *Manifold) Clone() *Manifold {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cp := m.cloneLocked()
	for id, rec := range m.nodes {
		cp.nodes[id].status = rec.status
		cp.nodes[id].payload = rec.payload
	}

	return cp
}

// Fresh returns a copy with identical topology but a reset execution
// state: every status Pending, every payload slot empty.
//
// This is the derivation step for repeated runs and cognitive-stack
// stages: each stage executes over a fresh version instead of mutating
// the prior manifold, so apparent feedback loops never become cycles.
// Complexity: O(V + E).
func (m *Manifold) Fresh() *Manifold {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.cloneLocked()
}

// cloneLocked copies topology only. Caller must hold at least a read lock.
func (m *Manifold) cloneLocked() *Manifold {
	cp := &Manifold{
		nodes:      make(map[string]*node, len(m.nodes)),
		order:      append(make([]string, 0, len(m.order)), m.order...),
		dependents: make(map[string][]string, len(m.dependents)),
	}
	for id, rec := range m.nodes {
		cp.nodes[id] = &node{spec: rec.spec}
	}
	for id, deps := range m.dependents {
		cp.dependents[id] = append(make([]string, 0, len(deps)), deps...)
	}

	return cp
}
