// Package operator: the Operator contract, payload kinds and typed
// failures. The Registry lives in registry.go, base operators in base.go.

package operator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/manifold/core"
)

// Sentinel errors for registration, lookup and invocation.
var (
	// ErrNilOperator indicates Register received a nil operator.
	ErrNilOperator = errors.New("operator: operator is nil")

	// ErrEmptyName indicates an operator with an empty name.
	ErrEmptyName = errors.New("operator: operator name is empty")

	// ErrConflict indicates duplicate registration under one name.
	ErrConflict = errors.New("operator: name already registered")

	// ErrUnknownOperator indicates a lookup for an unregistered name.
	ErrUnknownOperator = errors.New("operator: unknown operator")

	// ErrShapeMismatch indicates inputs violating the declared contract.
	ErrShapeMismatch = errors.New("operator: input shape mismatch")

	// ErrCompute indicates a failure inside the transformation itself.
	ErrCompute = errors.New("operator: computation failed")

	// ErrMissingParam indicates a required parameter absent at apply time.
	ErrMissingParam = errors.New("operator: required parameter missing")
)

// Kind classifies payload values for contract checking.
type Kind string

const (
	// Number accepts float64 (ints are coerced on extraction).
	Number Kind = "number"
	// Vector accepts []float64.
	Vector Kind = "vector"
	// Text accepts string.
	Text Kind = "text"
	// Any accepts every payload, including nil.
	Any Kind = "any"
)

// Contract declares an operator's arity and input/output kinds.
//
// For fixed-arity operators, Inputs lists one Kind per input in order.
// For variadic operators, Variadic is true and Inputs holds exactly one
// element: the kind every input must satisfy (zero inputs are legal).
type Contract struct {
	Inputs   []Kind
	Variadic bool
	Output   Kind
}

// Arity returns the declared input count, or -1 for variadic contracts.
func (c Contract) Arity() int {
	if c.Variadic {
		return -1
	}
	return len(c.Inputs)
}

// Invocation carries everything one node application may read: the node's
// identity, its parameter bag, and the dependency payloads in declared
// order. Operators must treat Inputs as read-only shared data.
type Invocation struct {
	NodeID string
	Params map[string]any
	Inputs []core.Payload
}

// Operator is a named transformation capability.
//
// Apply must not retain or mutate inv.Inputs. Implementations returning
// Deterministic() == true promise identical outputs for identical
// invocations, making their results cacheable and replayable.
type Operator interface {
	// Name returns the registry key.
	Name() string

	// Contract returns the declared arity and kinds.
	Contract() Contract

	// Deterministic reports referential transparency.
	Deterministic() bool

	// Requires lists parameter keys every node using this operator must
	// declare; chart validation consumes this via Registry.Requirements.
	Requires() []string

	// Apply performs the transformation.
	Apply(ctx context.Context, inv Invocation) (core.Payload, error)
}

// ShapeError reports inputs violating an operator's declared contract.
type ShapeError struct {
	Op     string // operator name
	NodeID string // node being applied ("" outside scheduling)
	Detail string // human-readable mismatch description
}

// Error renders `operator: input shape mismatch: add at node "c": ...`.
func (e *ShapeError) Error() string {
	var b strings.Builder
	b.WriteString(ErrShapeMismatch.Error())
	b.WriteString(": ")
	b.WriteString(e.Op)
	if e.NodeID != "" {
		fmt.Fprintf(&b, " at node %q", e.NodeID)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Unwrap matches ErrShapeMismatch via errors.Is.
func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// ComputeError reports a failure inside a transformation.
type ComputeError struct {
	Op     string
	NodeID string
	Err    error // underlying cause, never nil
}

// Error renders `operator: computation failed: zeta at node "z": cause`.
func (e *ComputeError) Error() string {
	var b strings.Builder
	b.WriteString(ErrCompute.Error())
	b.WriteString(": ")
	b.WriteString(e.Op)
	if e.NodeID != "" {
		fmt.Fprintf(&b, " at node %q", e.NodeID)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

// Unwrap exposes the cause chain (errors.Is sees ErrCompute and the cause).
func (e *ComputeError) Unwrap() error { return e.Err }

// Is matches ErrCompute in addition to the wrapped cause chain.
func (e *ComputeError) Is(target error) bool { return target == ErrCompute }

// Def is a declarative Operator implementation: fill the fields, use the
// value. The zero Fn is invalid.
type Def struct {
	OpName    string
	IO        Contract
	Pure      bool
	ParamKeys []string
	Fn        func(ctx context.Context, inv Invocation) (core.Payload, error)
}

// Name implements Operator.
func (d Def) Name() string { return d.OpName }

// Contract implements Operator.
func (d Def) Contract() Contract { return d.IO }

// Deterministic implements Operator.
func (d Def) Deterministic() bool { return d.Pure }

// Requires implements Operator.
func (d Def) Requires() []string { return d.ParamKeys }

// Apply implements Operator.
func (d Def) Apply(ctx context.Context, inv Invocation) (core.Payload, error) {
	return d.Fn(ctx, inv)
}

// CheckShape validates inputs against op's contract, returning a
// *ShapeError naming the node on violation. The scheduler calls this
// before every Apply; operators may rely on it and skip re-validation.
func CheckShape(op Operator, nodeID string, inputs []core.Payload) error {
	c := op.Contract()
	if !c.Variadic && len(inputs) != len(c.Inputs) {
		return &ShapeError{
			Op:     op.Name(),
			NodeID: nodeID,
			Detail: fmt.Sprintf("want %d inputs, got %d", len(c.Inputs), len(inputs)),
		}
	}
	for i, in := range inputs {
		want := elementKind(c, i)
		if !matchesKind(in, want) {
			return &ShapeError{
				Op:     op.Name(),
				NodeID: nodeID,
				Detail: fmt.Sprintf("input %d: want %s, got %T", i, want, in),
			}
		}
	}
	return nil
}

// elementKind resolves the declared kind of input position i.
func elementKind(c Contract, i int) Kind {
	if c.Variadic {
		if len(c.Inputs) == 0 {
			return Any
		}
		return c.Inputs[0]
	}
	return c.Inputs[i]
}

// matchesKind reports whether the payload satisfies the kind.
func matchesKind(p core.Payload, k Kind) bool {
	switch k {
	case Any:
		return true
	case Number:
		_, ok := AsNumber(p)
		return ok
	case Vector:
		_, ok := p.([]float64)
		return ok
	case Text:
		_, ok := p.(string)
		return ok
	default:
		return false
	}
}

// AsNumber extracts a float64 from numeric payloads, coercing the integer
// widths YAML decoding produces.
func AsNumber(p core.Payload) (float64, bool) {
	switch v := p.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
