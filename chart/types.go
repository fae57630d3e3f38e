// Package chart: declarative chart types, options and sentinel errors.
//
// This file declares NodeSpec, Chart, ParseOption and the error taxonomy.
// Parsing and validation logic lives in parse.go.

package chart

import (
	"errors"
	"fmt"
)

// Sentinel errors for chart parsing and validation.
var (
	// ErrEmptyChart indicates the document declares no nodes at all.
	ErrEmptyChart = errors.New("chart: document declares no nodes")

	// ErrBadDocument indicates the raw bytes are not decodable YAML/JSON.
	ErrBadDocument = errors.New("chart: document is not valid YAML/JSON")

	// ErrEmptyNodeID indicates a node with an empty identifier.
	ErrEmptyNodeID = errors.New("chart: node identifier is empty")

	// ErrDuplicateNodeID indicates two nodes sharing one identifier.
	ErrDuplicateNodeID = errors.New("chart: duplicate node identifier")

	// ErrEmptyOperator indicates a node without an operator tag.
	ErrEmptyOperator = errors.New("chart: node declares no operator")

	// ErrUnknownDependency indicates an edge to an undeclared identifier.
	ErrUnknownDependency = errors.New("chart: dependency references undeclared node")

	// ErrSelfDependency indicates a node depending on itself.
	ErrSelfDependency = errors.New("chart: node depends on itself")

	// ErrMissingParam indicates an absent required operator parameter.
	ErrMissingParam = errors.New("chart: required parameter missing")

	// ErrChartCycle indicates the declared dependency lists form a cycle.
	ErrChartCycle = errors.New("chart: declared dependencies form a cycle")
)

// SchemaError reports a validation failure, naming the offending node.
// It wraps one of the sentinel errors above for errors.Is matching.
type SchemaError struct {
	// NodeID is the identifier of the offending node ("" for document-level
	// failures such as ErrEmptyChart or ErrBadDocument).
	NodeID string

	// Detail carries failure-specific context: the missing dependency id,
	// the absent parameter key, or the cycle members.
	Detail string

	// Reason is the wrapped sentinel (or decode) error.
	Reason error
}

// Error renders "chart: <reason> (node "x": detail)".
func (e *SchemaError) Error() string {
	switch {
	case e.NodeID == "" && e.Detail == "":
		return e.Reason.Error()
	case e.NodeID == "":
		return fmt.Sprintf("%s (%s)", e.Reason.Error(), e.Detail)
	case e.Detail == "":
		return fmt.Sprintf("%s (node %q)", e.Reason.Error(), e.NodeID)
	default:
		return fmt.Sprintf("%s (node %q: %s)", e.Reason.Error(), e.NodeID, e.Detail)
	}
}

// Unwrap exposes the sentinel for errors.Is / errors.As.
func (e *SchemaError) Unwrap() error { return e.Reason }

// NodeSpec is the declarative description of a single node.
//
// ID uniquely identifies the node within its Chart. Op names the operator
// (registry key) applied at this node. Params is an arbitrary parameter bag
// forwarded to the operator. DependsOn lists the identifiers whose payloads
// feed this node, in input order.
type NodeSpec struct {
	ID        string         `yaml:"id"`
	Op        string         `yaml:"op"`
	Params    map[string]any `yaml:"params"`
	DependsOn []string       `yaml:"depends_on"`
}

// clone returns a copy with fresh Params and DependsOn containers.
// Nested parameter values are shared (same policy as core.Vertex metadata
// in comparable graph libraries: top-level isolation, not deep copies).
func (n NodeSpec) clone() NodeSpec {
	cp := NodeSpec{ID: n.ID, Op: n.Op}
	if n.Params != nil {
		cp.Params = make(map[string]any, len(n.Params))
		for k, v := range n.Params {
			cp.Params[k] = v
		}
	}
	if n.DependsOn != nil {
		cp.DependsOn = append(make([]string, 0, len(n.DependsOn)), n.DependsOn...)
	}
	return cp
}

// Chart is a validated, immutable chart: a name, a version tag, and an
// ordered set of node specifications whose dependency lists are acyclic
// and fully resolved.
//
// Chart values are constructed exclusively by Parse and never mutated
// afterwards; they are safe for unsynchronized concurrent reads.
type Chart struct {
	name    string
	version string
	nodes   []NodeSpec
	index   map[string]int // node ID → position in nodes
}

// Name returns the chart's declared name ("" if absent).
func (c *Chart) Name() string { return c.name }

// Version returns the chart's declared version tag ("" if absent).
func (c *Chart) Version() string { return c.version }

// Len returns the number of declared nodes.
func (c *Chart) Len() int { return len(c.nodes) }

// Has reports whether a node with the given identifier is declared.
func (c *Chart) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Node returns a copy of the spec for the given identifier.
func (c *Chart) Node(id string) (NodeSpec, bool) {
	i, ok := c.index[id]
	if !ok {
		return NodeSpec{}, false
	}
	return c.nodes[i].clone(), true
}

// Nodes returns copies of all node specs in declaration order.
func (c *Chart) Nodes() []NodeSpec {
	out := make([]NodeSpec, len(c.nodes))
	for i, n := range c.nodes {
		out[i] = n.clone()
	}
	return out
}

// Requirements maps an operator tag to the parameter keys every node using
// that operator must provide.
type Requirements map[string][]string

// parseConfig aggregates Parse knobs; zero value = no extra validation.
type parseConfig struct {
	requirements Requirements
}

// ParseOption configures Parse behavior.
type ParseOption func(*parseConfig)

// WithRequirements enables required-parameter validation: every node whose
// Op appears in reqs must carry each listed parameter key in its Params.
func WithRequirements(reqs Requirements) ParseOption {
	return func(c *parseConfig) { c.requirements = reqs }
}
