// Package core: manifold construction and atomic extension.

package core

import (
	"sort"

	"github.com/katalvlaran/manifold/chart"
)

// FromChart instantiates a Manifold from a validated chart: one node per
// spec, dependency edges wired from the declared lists, every status
// Pending and every payload slot empty.
//
// The chart is re-checked for acyclicity on the instantiated graph, so a
// Manifold is acyclic by construction even if the chart type is ever
// produced by another loader. Returns *BuildError wrapping ErrCycle on
// violation.
//
// Complexity: O(V + E).
func FromChart(ch *chart.Chart) (*Manifold, error) {
	if ch == nil {
		return nil, ErrNilChart
	}

	m := &Manifold{
		nodes:      make(map[string]*node, ch.Len()),
		order:      make([]string, 0, ch.Len()),
		dependents: make(map[string][]string, ch.Len()),
	}
	for _, spec := range ch.Nodes() {
		m.nodes[spec.ID] = &node{spec: toNode(spec)}
		m.order = append(m.order, spec.ID)
	}
	for _, id := range m.order {
		for _, dep := range m.nodes[id].spec.DependsOn {
			if _, ok := m.nodes[dep]; !ok {
				return nil, &BuildError{Nodes: []string{id, dep}, Reason: ErrUnknownDependency}
			}
			m.dependents[dep] = append(m.dependents[dep], id)
		}
	}

	if members := m.cycleMembers(); len(members) > 0 {
		return nil, &BuildError{Nodes: members, Reason: ErrCycle}
	}

	return m, nil
}

// Extend appends additional node specs (and the dependency edges they
// declare) to the manifold. The merged graph is validated first; on any
// rejection the receiver is left completely unchanged.
//
// New nodes may depend on existing nodes (Computed or not) and on each
// other. Re-declaring an existing identifier is rejected with
// ErrDuplicateNode.
//
// Complexity: O(V + E) over the merged graph (validation dominates).
func (m *Manifold) Extend(specs ...chart.NodeSpec) error {
	if len(specs) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate against a merged view before touching the receiver.
	incoming := make(map[string]chart.NodeSpec, len(specs))
	for _, spec := range specs {
		if spec.ID == "" {
			return &BuildError{Reason: ErrEmptyNodeID}
		}
		if _, exists := m.nodes[spec.ID]; exists {
			return &BuildError{Nodes: []string{spec.ID}, Reason: ErrDuplicateNode}
		}
		if _, dup := incoming[spec.ID]; dup {
			return &BuildError{Nodes: []string{spec.ID}, Reason: ErrDuplicateNode}
		}
		incoming[spec.ID] = spec
	}
	for _, spec := range specs {
		for _, dep := range spec.DependsOn {
			_, existing := m.nodes[dep]
			_, fresh := incoming[dep]
			if !existing && !fresh {
				return &BuildError{Nodes: []string{spec.ID, dep}, Reason: ErrUnknownDependency}
			}
		}
	}
	if members := m.mergedCycleMembers(specs); len(members) > 0 {
		return &BuildError{Nodes: members, Reason: ErrCycle}
	}

	// Validation passed: commit the extension.
	for _, spec := range specs {
		m.nodes[spec.ID] = &node{spec: toNode(spec)}
		m.order = append(m.order, spec.ID)
	}
	for _, spec := range specs {
		for _, dep := range spec.DependsOn {
			m.dependents[dep] = append(m.dependents[dep], spec.ID)
		}
	}

	return nil
}

// cycleMembers runs Kahn's algorithm over the stored graph and returns the
// sorted identifiers left with unresolved indegree, or nil when acyclic.
// Caller must hold at least a read lock (or own the manifold exclusively).
func (m *Manifold) cycleMembers() []string {
	return kahnResidue(m.order, func(id string) []string { return m.nodes[id].spec.DependsOn })
}

// mergedCycleMembers validates the receiver plus the proposed extension
// without mutating either. Caller must hold the write lock.
func (m *Manifold) mergedCycleMembers(specs []chart.NodeSpec) []string {
	merged := make([]string, 0, len(m.order)+len(specs))
	merged = append(merged, m.order...)
	deps := make(map[string][]string, len(merged))
	for _, id := range m.order {
		deps[id] = m.nodes[id].spec.DependsOn
	}
	for _, spec := range specs {
		merged = append(merged, spec.ID)
		deps[spec.ID] = spec.DependsOn
	}

	return kahnResidue(merged, func(id string) []string { return deps[id] })
}

// toNode copies a chart spec into a core Node with fresh Params and
// DependsOn containers, isolating the manifold from caller mutation.
func toNode(spec chart.NodeSpec) Node {
	n := Node{ID: spec.ID, Op: spec.Op}
	if spec.Params != nil {
		n.Params = make(map[string]any, len(spec.Params))
		for k, v := range spec.Params {
			n.Params[k] = v
		}
	}
	if spec.DependsOn != nil {
		n.DependsOn = append(make([]string, 0, len(spec.DependsOn)), spec.DependsOn...)
	}

	return n
}

// kahnResidue performs a topological sweep over ids (dependencies resolved
// through depsOf) and returns the sorted ids that could not be ordered.
func kahnResidue(ids []string, depsOf func(string) []string) []string {
	indegree := make(map[string]int, len(ids))
	dependents := make(map[string][]string, len(ids))
	for _, id := range ids {
		indegree[id] += 0
		for _, dep := range depsOf(id) {
			indegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	queue := make([]string, 0, len(ids))
	for _, id := range ids {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	processed := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		processed++
		for _, next := range dependents[cur] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if processed == len(ids) {
		return nil
	}

	residue := make([]string, 0)
	for id, deg := range indegree {
		if deg > 0 {
			residue = append(residue, id)
		}
	}
	sort.Strings(residue)

	return residue
}
