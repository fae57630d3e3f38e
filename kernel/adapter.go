package kernel

import (
	"context"
	"fmt"

	"github.com/katalvlaran/manifold/core"
	"github.com/katalvlaran/manifold/operator"
)

// kernelOp adapts a Kernel to the operator contract.
type kernelOp struct {
	name string
	k    Kernel
}

// AsOperator wraps k as a named operator taking variadic numbers and
// producing a vector. The operator reports Deterministic() == false so
// schedulers never replay kernel outputs from cache.
func AsOperator(name string, k Kernel) (operator.Operator, error) {
	if k == nil {
		return nil, ErrNilKernel
	}
	if name == "" {
		return nil, operator.ErrEmptyName
	}
	return &kernelOp{name: name, k: k}, nil
}

func (o *kernelOp) Name() string { return o.name }

func (o *kernelOp) Contract() operator.Contract {
	return operator.Contract{
		Inputs:   []operator.Kind{operator.Number},
		Variadic: true,
		Output:   operator.Vector,
	}
}

func (o *kernelOp) Deterministic() bool { return false }

func (o *kernelOp) Requires() []string { return nil }

func (o *kernelOp) Apply(_ context.Context, inv operator.Invocation) (core.Payload, error) {
	vec := make([]float64, len(inv.Inputs))
	for i, in := range inv.Inputs {
		x, ok := operator.AsNumber(in)
		if !ok {
			return nil, &operator.ShapeError{
				Op:     o.name,
				NodeID: inv.NodeID,
				Detail: fmt.Sprintf("input %d is not a number", i),
			}
		}
		vec[i] = x
	}

	out, err := o.k.Forward(vec)
	if err != nil {
		return nil, &operator.ComputeError{Op: o.name, NodeID: inv.NodeID, Err: err}
	}
	return out, nil
}
