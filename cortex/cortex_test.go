// Package cortex_test exercises the prime scaffold, the witness cache
// and run records against a live gits instance.
package cortex_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/katalvlaran/manifold/chart"
	"github.com/katalvlaran/manifold/core"
	"github.com/katalvlaran/manifold/cortex"
	"github.com/katalvlaran/manifold/operator"
	"github.com/katalvlaran/manifold/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniqueName returns a per-test instance name; gits instances with the
// same name share storage.
var nameSeq int64

func uniqueName(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("%s-%d", t.Name(), atomic.AddInt64(&nameSeq, 1))
}

// TestNew_PrimeScaffold verifies the 144 reference points.
func TestNew_PrimeScaffold(t *testing.T) {
	cx, err := cortex.New(uniqueName(t))
	require.NoError(t, err)

	primes := cx.Primes()
	require.Len(t, primes, cortex.ReferencePoints)
	assert.Equal(t, 2, primes[0], "first reference point")
	assert.Equal(t, 827, primes[143], "144th prime")

	p, err := cx.Prime(5)
	require.NoError(t, err)
	assert.Equal(t, 13, p, "sixth prime")

	_, err = cx.Prime(cortex.ReferencePoints)
	assert.ErrorIs(t, err, cortex.ErrPrimeRange)
	_, err = cx.Prime(-1)
	assert.ErrorIs(t, err, cortex.ErrPrimeRange)

	_, err = cortex.New("")
	assert.ErrorIs(t, err, cortex.ErrEmptyName)
}

// TestWitness_RoundTrip verifies Remember/Recall over every payload
// encoding.
func TestWitness_RoundTrip(t *testing.T) {
	cx, err := cortex.New(uniqueName(t))
	require.NoError(t, err)

	_, hit := cx.Recall("missing")
	assert.False(t, hit, "empty cache misses")

	cases := map[string]core.Payload{
		"sig-number": 3.25,
		"sig-vector": []float64{1, 2.5, -3},
		"sig-text":   "hello",
	}
	for sig, payload := range cases {
		cx.Remember(sig, payload)
		got, ok := cx.Recall(sig)
		require.True(t, ok, "signature %q remembered", sig)
		assert.Equal(t, payload, got, "payload %q survives the round trip", sig)
	}
	assert.Equal(t, len(cases), cx.Witnesses())

	// Idempotent by signature: the first payload wins.
	cx.Remember("sig-number", 99.0)
	got, ok := cx.Recall("sig-number")
	require.True(t, ok)
	assert.Equal(t, 3.25, got, "existing witnesses are not overwritten")
	assert.Equal(t, len(cases), cx.Witnesses())
}

// TestRecordRun stores a completed manifold and reads it back.
func TestRecordRun(t *testing.T) {
	ch, err := chart.Parse([]byte(`
name: sum
nodes:
  - id: a
    op: const
    params: {value: 5}
  - id: b
    op: const
    params: {value: 7}
  - id: c
    op: add
    depends_on: [a, b]
`))
	require.NoError(t, err)
	m, err := core.FromChart(ch)
	require.NoError(t, err)

	sched, err := scheduler.New(scheduler.WithWorkers(2))
	require.NoError(t, err)
	require.NoError(t, sched.Run(context.Background(), m, operator.Base()))

	cx, err := cortex.New(uniqueName(t))
	require.NoError(t, err)
	require.NoError(t, cx.RecordRun("warmup", m))

	records, err := cx.Run("warmup")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, core.StatusComputed, records["c"].Status)
	assert.Equal(t, 12.0, records["c"].Payload, "payload recorded with the node")

	_, err = cx.Run("never")
	assert.ErrorIs(t, err, cortex.ErrUnknownRun)

	assert.ErrorIs(t, cx.RecordRun("", m), cortex.ErrEmptyRunName)
	assert.ErrorIs(t, cx.RecordRun("x", nil), cortex.ErrNilManifold)
}

// TestCortex_AsReplayCache wires a cortex into a scheduler and verifies
// deterministic work is replayed on a second run.
func TestCortex_AsReplayCache(t *testing.T) {
	cx, err := cortex.New(uniqueName(t))
	require.NoError(t, err)

	var applied int64
	counting := operator.Def{
		OpName: "counting",
		IO:     operator.Contract{Output: operator.Number},
		Pure:   true,
		Fn: func(context.Context, operator.Invocation) (core.Payload, error) {
			atomic.AddInt64(&applied, 1)
			return 7.0, nil
		},
	}
	reg := operator.NewRegistry()
	require.NoError(t, reg.Register(counting))

	ch, err := chart.Parse([]byte("name: once\nnodes:\n  - {id: n, op: counting}\n"))
	require.NoError(t, err)
	m, err := core.FromChart(ch)
	require.NoError(t, err)

	sched, err := scheduler.New(scheduler.WithWorkers(1), scheduler.WithCortex(cx))
	require.NoError(t, err)

	require.NoError(t, sched.Run(context.Background(), m, reg))
	require.NoError(t, sched.Run(context.Background(), m.Fresh(), reg))

	assert.Equal(t, int64(1), applied, "second run served from the cortex")

	out, perr := m.Payload("n")
	require.NoError(t, perr)
	assert.Equal(t, 7.0, out)
}
