// Package core: manifold types, statuses and sentinel errors.
//
// This file declares Status, Payload, Node, Manifold, BuildError and the
// sentinel errors. Construction lives in builder.go, accessors and status
// mutation in methods.go, cloning in clone.go.

package core

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Sentinel errors for manifold construction and access.
var (
	// ErrNilChart indicates FromChart received a nil chart.
	ErrNilChart = errors.New("core: chart is nil")

	// ErrNodeNotFound indicates an operation referenced an undeclared node.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrEmptyNodeID indicates an extension spec with an empty identifier.
	ErrEmptyNodeID = errors.New("core: node identifier is empty")

	// ErrDuplicateNode indicates an extension re-declared an identifier.
	ErrDuplicateNode = errors.New("core: duplicate node identifier")

	// ErrUnknownDependency indicates an edge to an undeclared node.
	ErrUnknownDependency = errors.New("core: dependency references undeclared node")

	// ErrCycle indicates the merged graph would contain a cycle.
	ErrCycle = errors.New("core: manifold would contain a cycle")

	// ErrNotComputed indicates a payload read before the node computed.
	ErrNotComputed = errors.New("core: node payload not computed")

	// ErrBadTransition indicates a status change violating the transition
	// table (for example marking a Computed node Computed again).
	ErrBadTransition = errors.New("core: invalid status transition")
)

// BuildError reports a rejected construction or extension, carrying the
// node identifiers involved. It wraps a sentinel for errors.Is matching.
type BuildError struct {
	// Nodes lists the offending identifiers (cycle members, the duplicate
	// id, or the pair around an unresolved reference), sorted.
	Nodes []string

	// Reason is the wrapped sentinel error.
	Reason error
}

// Error renders "core: <reason>: a, b, c".
func (e *BuildError) Error() string {
	if len(e.Nodes) == 0 {
		return e.Reason.Error()
	}
	return fmt.Sprintf("%s: %s", e.Reason.Error(), strings.Join(e.Nodes, ", "))
}

// Unwrap exposes the sentinel for errors.Is / errors.As.
func (e *BuildError) Unwrap() error { return e.Reason }

// Payload is the value held in a node's payload slot once computed.
// Type discipline is enforced by the operator contract, not here.
type Payload = any

// Status is the execution state of a manifold node.
type Status uint8

const (
	// StatusPending marks a node whose dependencies are not all computed.
	StatusPending Status = iota

	// StatusReady marks a node whose dependencies are all computed and
	// which is eligible for (or awaiting) dispatch.
	StatusReady

	// StatusComputed marks a node whose payload slot is filled. Terminal.
	StatusComputed

	// StatusSkipped marks a node abandoned because a transitive
	// dependency failed. Terminal; its payload slot stays empty.
	StatusSkipped

	// StatusFailed marks a node whose operator invocation failed or
	// timed out. Terminal.
	StatusFailed
)

// String renders the lowercase status name used in errors and logs.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusComputed:
		return "computed"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final for a run.
func (s Status) Terminal() bool {
	return s == StatusComputed || s == StatusSkipped || s == StatusFailed
}

// Node is the externally visible snapshot of a manifold node.
//
// ID uniquely identifies the node. Op names the operator applied at this
// node. Params is the parameter bag forwarded to the operator. DependsOn
// lists dependency identifiers in input order.
type Node struct {
	ID        string
	Op        string
	Params    map[string]any
	DependsOn []string
}

// node is the internal mutable record behind a Node snapshot.
type node struct {
	spec    Node
	status  Status
	payload Payload
}

// Manifold is the DAG instantiated from a chart: nodes with payload slots,
// dependency wiring and per-node execution status.
//
// mu guards nodes, order, dependents and every status/payload slot.
type Manifold struct {
	mu sync.RWMutex

	nodes      map[string]*node    // node ID → record
	order      []string            // insertion order (chart declaration order)
	dependents map[string][]string // node ID → IDs depending on it, insertion order
}
