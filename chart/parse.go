// Package chart: document decoding and full schema validation.

package chart

import (
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// document mirrors the on-disk chart layout for yaml.v3 decoding.
type document struct {
	Name    string     `yaml:"name"`
	Version string     `yaml:"version"`
	Nodes   []NodeSpec `yaml:"nodes"`
}

// Parse decodes and validates a chart document, returning an immutable
// Chart or a *SchemaError. No partial Chart is ever returned.
//
// Validation stages, in order:
//  1. YAML/JSON decode (failure wraps ErrBadDocument).
//  2. Node-local checks: non-empty ID, non-empty Op, unique IDs.
//  3. Edge resolution: every dependency names a declared node, no
//     self-dependencies.
//  4. Acyclicity of the declared edge lists (Kahn's algorithm).
//  5. Required parameters, when supplied via WithRequirements.
//
// Complexity: O(V + E) time over nodes and dependency references.
func Parse(raw []byte, opts ...ParseOption) (*Chart, error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &SchemaError{Detail: err.Error(), Reason: ErrBadDocument}
	}
	if len(doc.Nodes) == 0 {
		return nil, &SchemaError{Reason: ErrEmptyChart}
	}

	// Stage 2: node-local checks and the ID index.
	index := make(map[string]int, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n.ID == "" {
			return nil, &SchemaError{Detail: "position " + strconv.Itoa(i), Reason: ErrEmptyNodeID}
		}
		if n.Op == "" {
			return nil, &SchemaError{NodeID: n.ID, Reason: ErrEmptyOperator}
		}
		if _, dup := index[n.ID]; dup {
			return nil, &SchemaError{NodeID: n.ID, Reason: ErrDuplicateNodeID}
		}
		index[n.ID] = i
	}

	// Stage 3: edge resolution.
	for _, n := range doc.Nodes {
		for _, dep := range n.DependsOn {
			if dep == n.ID {
				return nil, &SchemaError{NodeID: n.ID, Reason: ErrSelfDependency}
			}
			if _, ok := index[dep]; !ok {
				return nil, &SchemaError{NodeID: n.ID, Detail: "missing " + quote(dep), Reason: ErrUnknownDependency}
			}
		}
	}

	// Stage 4: acyclicity via Kahn's algorithm over the declared edges.
	if members := findCycle(doc.Nodes, index); len(members) > 0 {
		return nil, &SchemaError{
			NodeID: members[0],
			Detail: "cycle members: " + strings.Join(members, ", "),
			Reason: ErrChartCycle,
		}
	}

	// Stage 5: required parameters.
	if cfg.requirements != nil {
		for _, n := range doc.Nodes {
			for _, key := range cfg.requirements[n.Op] {
				if _, ok := n.Params[key]; !ok {
					return nil, &SchemaError{NodeID: n.ID, Detail: "parameter " + quote(key), Reason: ErrMissingParam}
				}
			}
		}
	}

	// Construction: copy specs into the private, immutable store.
	nodes := make([]NodeSpec, len(doc.Nodes))
	for i, n := range doc.Nodes {
		nodes[i] = n.clone()
	}
	return &Chart{name: doc.Name, version: doc.Version, nodes: nodes, index: index}, nil
}

// findCycle runs Kahn's algorithm and returns the sorted identifiers of
// nodes left with non-zero indegree (cycle members), or nil when acyclic.
func findCycle(nodes []NodeSpec, index map[string]int) []string {
	indegree := make(map[string]int, len(nodes))
	dependents := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		indegree[n.ID] += 0
		for _, dep := range n.DependsOn {
			dependents[dep] = append(dependents[dep], n.ID)
			indegree[n.ID]++
		}
	}

	queue := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if indegree[n.ID] == 0 {
			queue = append(queue, n.ID)
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
	if processed == len(nodes) {
		return nil
	}

	members := make([]string, 0)
	for id, deg := range indegree {
		if deg > 0 {
			members = append(members, id)
		}
	}
	sort.Strings(members)

	return members
}

func quote(s string) string { return strconv.Quote(s) }
