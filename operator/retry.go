// Package operator: explicit per-operator retry decoration.
//
// The engine never retries implicitly; wrapping an operator in Retry is
// the one supported way to buy bounded attempts with backoff.

package operator

import (
	"context"
	"errors"
	"time"

	"github.com/katalvlaran/manifold/core"
)

// ErrBadRetry indicates a Retry decoration with attempts < 1.
var ErrBadRetry = errors.New("operator: retry attempts must be >= 1")

// Retry wraps op so that a failed Apply is re-invoked up to attempts
// times total, sleeping backoff between attempts (context cancellation
// cuts the wait short and surfaces ctx.Err through a *ComputeError).
//
// Name, Contract, Deterministic and Requires are forwarded unchanged, so
// a wrapped operator registers and validates exactly like the original.
func Retry(op Operator, attempts int, backoff time.Duration) (Operator, error) {
	if op == nil {
		return nil, ErrNilOperator
	}
	if attempts < 1 {
		return nil, ErrBadRetry
	}

	return Def{
		OpName:    op.Name(),
		IO:        op.Contract(),
		Pure:      op.Deterministic(),
		ParamKeys: op.Requires(),
		Fn: func(ctx context.Context, inv Invocation) (core.Payload, error) {
			var lastErr error
			for attempt := 0; attempt < attempts; attempt++ {
				if attempt > 0 && backoff > 0 {
					timer := time.NewTimer(backoff)
					select {
					case <-ctx.Done():
						timer.Stop()
						return nil, &ComputeError{Op: op.Name(), NodeID: inv.NodeID, Err: ctx.Err()}
					case <-timer.C:
					}
				}
				out, err := op.Apply(ctx, inv)
				if err == nil {
					return out, nil
				}
				lastErr = err
			}
			return nil, lastErr
		},
	}, nil
}
