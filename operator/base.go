// Package operator: the deterministic base operator set.

package operator

import (
	"context"
	"fmt"

	"github.com/katalvlaran/manifold/core"
)

// Base operator names, as referenced from chart documents.
const (
	OpConst  = "const"
	OpAdd    = "add"
	OpMul    = "mul"
	OpNeg    = "neg"
	OpGather = "gather"
)

// ParamValue is the parameter key the const operator emits.
const ParamValue = "value"

// Const returns the source operator: no inputs, emits the node's "value"
// parameter unchanged. Output kind is Any so charts may inject numbers,
// vectors or text alike.
func Const() Operator {
	return Def{
		OpName:    OpConst,
		IO:        Contract{Inputs: nil, Output: Any},
		Pure:      true,
		ParamKeys: []string{ParamValue},
		Fn: func(_ context.Context, inv Invocation) (core.Payload, error) {
			v, ok := inv.Params[ParamValue]
			if !ok {
				return nil, &ComputeError{Op: OpConst, NodeID: inv.NodeID, Err: fmt.Errorf("%w: %q", ErrMissingParam, ParamValue)}
			}
			// Normalize integral numbers so payload comparisons across
			// YAML-decoded charts stay type-stable.
			if n, isNum := AsNumber(v); isNum {
				return n, nil
			}
			return v, nil
		},
	}
}

// Add returns the variadic sum operator: (number...) → number.
func Add() Operator { return fold(OpAdd, 0, func(acc, x float64) float64 { return acc + x }) }

// Mul returns the variadic product operator: (number...) → number.
func Mul() Operator { return fold(OpMul, 1, func(acc, x float64) float64 { return acc * x }) }

// Neg returns the negation operator: (number) → number.
func Neg() Operator {
	return Def{
		OpName: OpNeg,
		IO:     Contract{Inputs: []Kind{Number}, Output: Number},
		Pure:   true,
		Fn: func(_ context.Context, inv Invocation) (core.Payload, error) {
			x, _ := AsNumber(inv.Inputs[0])
			return -x, nil
		},
	}
}

// Gather returns the collection operator: (number...) → vector. It is the
// canonical bridge from scalar nodes to kernel-shaped input.
func Gather() Operator {
	return Def{
		OpName: OpGather,
		IO:     Contract{Inputs: []Kind{Number}, Variadic: true, Output: Vector},
		Pure:   true,
		Fn: func(_ context.Context, inv Invocation) (core.Payload, error) {
			out := make([]float64, len(inv.Inputs))
			for i, in := range inv.Inputs {
				out[i], _ = AsNumber(in)
			}
			return out, nil
		},
	}
}

// fold builds a variadic numeric reduction operator.
func fold(name string, identity float64, step func(acc, x float64) float64) Operator {
	return Def{
		OpName: name,
		IO:     Contract{Inputs: []Kind{Number}, Variadic: true, Output: Number},
		Pure:   true,
		Fn: func(_ context.Context, inv Invocation) (core.Payload, error) {
			acc := identity
			for _, in := range inv.Inputs {
				x, _ := AsNumber(in)
				acc = step(acc, x)
			}
			return acc, nil
		},
	}
}
