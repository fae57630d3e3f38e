// Package operator: sample mathematical probes.
//
// These operators are consumers of the core, not infrastructure: they
// exist to exercise the operator/scheduler contract on small inputs and
// make examples interesting. They prove nothing about any conjecture.

package operator

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/manifold/core"
)

// Sample operator names.
const (
	OpPrimality   = "primality"
	OpZetaPartial = "zeta_partial"
)

// ParamTerms bounds the zeta partial sum.
const ParamTerms = "terms"

// maxProbeInput keeps the trial-division probe honest about "small".
const maxProbeInput = 1 << 32

// Primality returns the trial-division probe: (number) → number, emitting
// 1 when the input is a prime integer and 0 otherwise. Inputs must be
// non-negative integers below 2^32.
func Primality() Operator {
	return Def{
		OpName: OpPrimality,
		IO:     Contract{Inputs: []Kind{Number}, Output: Number},
		Pure:   true,
		Fn: func(_ context.Context, inv Invocation) (core.Payload, error) {
			x, _ := AsNumber(inv.Inputs[0])
			if x != math.Trunc(x) || x < 0 || x >= maxProbeInput {
				return nil, &ComputeError{
					Op:     OpPrimality,
					NodeID: inv.NodeID,
					Err:    fmt.Errorf("input %v is not a small non-negative integer", x),
				}
			}
			n := uint64(x)
			if n < 2 {
				return 0.0, nil
			}
			for d := uint64(2); d*d <= n; d++ {
				if n%d == 0 {
					return 0.0, nil
				}
			}
			return 1.0, nil
		},
	}
}

// ZetaPartial returns the truncated zeta series operator:
// (number) → number, computing Σ_{n=1..terms} n^(-s) for the input s.
// The "terms" parameter is required and must be a positive integer.
func ZetaPartial() Operator {
	return Def{
		OpName:    OpZetaPartial,
		IO:        Contract{Inputs: []Kind{Number}, Output: Number},
		Pure:      true,
		ParamKeys: []string{ParamTerms},
		Fn: func(ctx context.Context, inv Invocation) (core.Payload, error) {
			raw, ok := inv.Params[ParamTerms]
			if !ok {
				return nil, &ComputeError{Op: OpZetaPartial, NodeID: inv.NodeID, Err: fmt.Errorf("%w: %q", ErrMissingParam, ParamTerms)}
			}
			terms, isNum := AsNumber(raw)
			if !isNum || terms < 1 || terms != math.Trunc(terms) {
				return nil, &ComputeError{Op: OpZetaPartial, NodeID: inv.NodeID, Err: fmt.Errorf("terms %v is not a positive integer", raw)}
			}

			s, _ := AsNumber(inv.Inputs[0])
			sum := 0.0
			for n := 1.0; n <= terms; n++ {
				sum += math.Pow(n, -s)
				// Long series stay cancellable mid-flight.
				if int(n)%1024 == 0 && ctx.Err() != nil {
					return nil, &ComputeError{Op: OpZetaPartial, NodeID: inv.NodeID, Err: ctx.Err()}
				}
			}
			return sum, nil
		},
	}
}
