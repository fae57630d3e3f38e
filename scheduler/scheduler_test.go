// Package scheduler_test drives full runs over small manifolds and
// asserts statuses, payloads and error classification.
package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/katalvlaran/manifold/chart"
	"github.com/katalvlaran/manifold/core"
	"github.com/katalvlaran/manifold/operator"
	"github.com/katalvlaran/manifold/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildManifold parses raw YAML and builds a manifold, failing the test
// on any error.
func buildManifold(t *testing.T, raw string) *core.Manifold {
	t.Helper()
	ch, err := chart.Parse([]byte(raw))
	require.NoError(t, err, "chart must parse")
	m, err := core.FromChart(ch)
	require.NoError(t, err, "manifold must build")
	return m
}

const sumChart = `
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
`

// TestRun_SumPipeline runs the canonical two-const/add chart.
func TestRun_SumPipeline(t *testing.T) {
	m := buildManifold(t, sumChart)

	s, err := scheduler.New(scheduler.WithWorkers(2))
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background(), m, operator.Base()), "clean run")

	out, err := m.Payload("c")
	require.NoError(t, err)
	assert.Equal(t, 12.0, out, "5+7 lands on c")
	assert.True(t, m.Complete(), "all nodes terminal")
}

// TestRun_FailurePropagation verifies a failed node skips its cone while
// a sibling branch completes.
func TestRun_FailurePropagation(t *testing.T) {
	m := buildManifold(t, `
name: split
nodes:
  - id: bad
    op: const
  - id: mid
    op: neg
    depends_on: [bad]
  - id: leaf
    op: neg
    depends_on: [mid]
  - id: ok
    op: const
    params: {value: 1}
  - id: okleaf
    op: neg
    depends_on: [ok]
`)

	s, err := scheduler.New(scheduler.WithWorkers(2))
	require.NoError(t, err)
	err = s.Run(context.Background(), m, operator.Base())

	var exec *scheduler.ExecutionError
	require.ErrorAs(t, err, &exec, "failed run aggregates causes")
	require.Len(t, exec.Causes, 1, "only the failing node is a cause")
	assert.ErrorIs(t, exec.Causes["bad"], operator.ErrMissingParam, "const without value")
	assert.ErrorIs(t, err, operator.ErrMissingParam, "cause reachable through the aggregate")

	statuses := m.Statuses()
	assert.Equal(t, core.StatusFailed, statuses["bad"])
	assert.Equal(t, core.StatusSkipped, statuses["mid"], "direct dependent skipped")
	assert.Equal(t, core.StatusSkipped, statuses["leaf"], "transitive dependent skipped")
	assert.Equal(t, core.StatusComputed, statuses["okleaf"], "sibling branch unaffected")

	out, perr := m.Payload("okleaf")
	require.NoError(t, perr)
	assert.Equal(t, -1.0, out, "sibling payload intact")
}

// TestRun_WorkerBound proves at most N invocations run concurrently.
func TestRun_WorkerBound(t *testing.T) {
	const bound = 2

	var inflight, peak int64
	probe := operator.Def{
		OpName: "probe",
		IO:     operator.Contract{Output: operator.Number},
		Fn: func(context.Context, operator.Invocation) (core.Payload, error) {
			cur := atomic.AddInt64(&inflight, 1)
			for {
				old := atomic.LoadInt64(&peak)
				if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&inflight, -1)
			return 0.0, nil
		},
	}

	reg := operator.NewRegistry()
	require.NoError(t, reg.Register(probe))

	m := buildManifold(t, `
name: wide
nodes:
  - {id: n1, op: probe}
  - {id: n2, op: probe}
  - {id: n3, op: probe}
  - {id: n4, op: probe}
  - {id: n5, op: probe}
  - {id: n6, op: probe}
`)

	s, err := scheduler.New(scheduler.WithWorkers(bound))
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background(), m, reg))
	assert.LessOrEqual(t, peak, int64(bound), "concurrency stays within the worker budget")
}

// TestRun_Timeout verifies a slow invocation fails with an ErrTimeout
// cause while fast siblings complete.
func TestRun_Timeout(t *testing.T) {
	slow := operator.Def{
		OpName: "slow",
		IO:     operator.Contract{Output: operator.Number},
		Fn: func(ctx context.Context, _ operator.Invocation) (core.Payload, error) {
			select {
			case <-time.After(time.Second):
				return 0.0, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}

	reg := operator.Base()
	require.NoError(t, reg.Register(slow))

	m := buildManifold(t, `
name: mixed
nodes:
  - id: sluggish
    op: slow
  - id: quick
    op: const
    params: {value: 3}
`)

	s, err := scheduler.New(scheduler.WithWorkers(2), scheduler.WithTimeout(20*time.Millisecond))
	require.NoError(t, err)
	err = s.Run(context.Background(), m, reg)

	var exec *scheduler.ExecutionError
	require.ErrorAs(t, err, &exec)
	assert.ErrorIs(t, exec.Causes["sluggish"], scheduler.ErrTimeout, "timeout cause attached to the node")

	status, _ := m.Status("quick")
	assert.Equal(t, core.StatusComputed, status, "fast sibling unaffected")
}

// TestRun_Cancellation verifies cancellation keeps partial payloads and
// classifies the error.
func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	gate := operator.Def{
		OpName: "gate",
		IO:     operator.Contract{Inputs: []operator.Kind{operator.Number}, Output: operator.Number},
		Fn: func(ctx context.Context, inv operator.Invocation) (core.Payload, error) {
			cancel() // first downstream invocation pulls the plug
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	reg := operator.Base()
	require.NoError(t, reg.Register(gate))

	m := buildManifold(t, `
name: cut
nodes:
  - id: seed
    op: const
    params: {value: 2}
  - id: blocked
    op: gate
    depends_on: [seed]
`)

	s, err := scheduler.New(scheduler.WithWorkers(1))
	require.NoError(t, err)
	err = s.Run(ctx, m, reg)

	var cancelled *scheduler.CancellationError
	require.ErrorAs(t, err, &cancelled, "run reports cancellation")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, cancelled.Done, "seed", "pre-cancellation payloads survive")

	out, perr := m.Payload("seed")
	require.NoError(t, perr)
	assert.Equal(t, 2.0, out, "partial manifold intact")
}

// mapCache is a trivial ReplayCache for tests.
type mapCache struct {
	mu   sync.Mutex
	data map[string]core.Payload
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string]core.Payload)} }

func (c *mapCache) Recall(sig string) (core.Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.data[sig]
	return p, ok
}

func (c *mapCache) Remember(sig string, p core.Payload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[sig] = p
}

// TestRun_Replay verifies deterministic invocations are served from the
// cache on a second run.
func TestRun_Replay(t *testing.T) {
	var applied int64
	counting := operator.Def{
		OpName: "counting",
		IO:     operator.Contract{Output: operator.Number},
		Pure:   true,
		Fn: func(context.Context, operator.Invocation) (core.Payload, error) {
			atomic.AddInt64(&applied, 1)
			return 42.0, nil
		},
	}

	reg := operator.NewRegistry()
	require.NoError(t, reg.Register(counting))

	cache := newMapCache()
	s, err := scheduler.New(scheduler.WithWorkers(1), scheduler.WithCortex(cache))
	require.NoError(t, err)

	m := buildManifold(t, "name: once\nnodes:\n  - {id: n, op: counting}\n")
	require.NoError(t, s.Run(context.Background(), m, reg))
	require.NoError(t, s.Run(context.Background(), m.Fresh(), reg), "second run over a fresh copy")

	assert.Equal(t, int64(1), applied, "second run replays the cached payload")
}

// TestRun_UnknownOperator verifies resolution failures are node failures,
// not run aborts.
func TestRun_UnknownOperator(t *testing.T) {
	m := buildManifold(t, `
name: ghost
nodes:
  - id: x
    op: ghost
  - id: y
    op: const
    params: {value: 1}
`)

	s, err := scheduler.New()
	require.NoError(t, err)
	err = s.Run(context.Background(), m, operator.Base())

	var exec *scheduler.ExecutionError
	require.ErrorAs(t, err, &exec)
	assert.ErrorIs(t, exec.Causes["x"], operator.ErrUnknownOperator)

	status, _ := m.Status("y")
	assert.Equal(t, core.StatusComputed, status, "resolvable sibling still runs")
}

// TestRun_Guards covers the nil-argument sentinels and option validation.
func TestRun_Guards(t *testing.T) {
	s, err := scheduler.New()
	require.NoError(t, err)

	assert.ErrorIs(t, s.Run(context.Background(), nil, operator.Base()), scheduler.ErrNilManifold)

	m := buildManifold(t, "name: one\nnodes:\n  - {id: n, op: const, params: {value: 0}}\n")
	assert.ErrorIs(t, s.Run(context.Background(), m, nil), scheduler.ErrNilRegistry)

	_, err = scheduler.New(scheduler.WithWorkers(0))
	assert.ErrorIs(t, err, scheduler.ErrBadWorkers)
	_, err = scheduler.New(scheduler.WithTimeout(-time.Second))
	assert.ErrorIs(t, err, scheduler.ErrBadTimeout)
}

// TestRun_ResumesPrecomputed verifies nodes a caller computed up front
// are treated as satisfied dependencies.
func TestRun_ResumesPrecomputed(t *testing.T) {
	m := buildManifold(t, sumChart)
	require.NoError(t, m.MarkReady("a"))
	require.NoError(t, m.SetComputed("a", 100.0))

	s, err := scheduler.New(scheduler.WithWorkers(1))
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background(), m, operator.Base()))

	out, perr := m.Payload("c")
	require.NoError(t, perr)
	assert.Equal(t, 107.0, out, "pre-seeded payload feeds the sum")
}

// TestRun_MidChainFailure verifies a failure in the middle of a chain
// leaves the upstream payload intact and skips only the downstream cone.
func TestRun_MidChainFailure(t *testing.T) {
	fuse := operator.Def{
		OpName: "fuse",
		IO:     operator.Contract{Inputs: []operator.Kind{operator.Number}, Output: operator.Number},
		Fn: func(_ context.Context, inv operator.Invocation) (core.Payload, error) {
			return nil, &operator.ComputeError{Op: "fuse", NodeID: inv.NodeID, Err: errors.New("blown")}
		},
	}

	reg := operator.Base()
	require.NoError(t, reg.Register(fuse))

	m := buildManifold(t, `
name: chain
nodes:
  - id: a
    op: const
    params: {value: 2}
  - id: b
    op: fuse
    depends_on: [a]
  - id: c
    op: neg
    depends_on: [b]
`)

	s, err := scheduler.New(scheduler.WithWorkers(2))
	require.NoError(t, err)
	err = s.Run(context.Background(), m, reg)

	var exec *scheduler.ExecutionError
	require.ErrorAs(t, err, &exec)
	require.Len(t, exec.Causes, 1, "only the mid node is a cause")
	assert.ErrorIs(t, exec.Causes["b"], operator.ErrCompute)

	statuses := m.Statuses()
	assert.Equal(t, core.StatusComputed, statuses["a"], "upstream node untouched by the failure")
	assert.Equal(t, core.StatusFailed, statuses["b"])
	assert.Equal(t, core.StatusSkipped, statuses["c"], "downstream node skipped")

	out, perr := m.Payload("a")
	require.NoError(t, perr)
	assert.Equal(t, 2.0, out, "upstream payload survives")
}

// TestRun_CausalOrdering verifies every dependency settles strictly
// before its dependents, even with several workers racing.
func TestRun_CausalOrdering(t *testing.T) {
	var mu sync.Mutex
	var order []string
	trace := operator.Def{
		OpName: "trace",
		IO:     operator.Contract{Inputs: []operator.Kind{operator.Number}, Variadic: true, Output: operator.Number},
		Fn: func(_ context.Context, inv operator.Invocation) (core.Payload, error) {
			mu.Lock()
			order = append(order, inv.NodeID)
			mu.Unlock()
			return float64(len(inv.Inputs)), nil
		},
	}

	reg := operator.NewRegistry()
	require.NoError(t, reg.Register(trace))

	m := buildManifold(t, `
name: diamond
nodes:
  - {id: root, op: trace}
  - {id: left, op: trace, depends_on: [root]}
  - {id: right, op: trace, depends_on: [root]}
  - {id: join, op: trace, depends_on: [left, right]}
  - {id: tail, op: trace, depends_on: [join]}
`)

	s, err := scheduler.New(scheduler.WithWorkers(4))
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background(), m, reg))

	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	require.Len(t, pos, 5, "every node invoked exactly once")
	for _, id := range m.IDs() {
		deps, derr := m.Dependencies(id)
		require.NoError(t, derr)
		for _, dep := range deps {
			assert.Less(t, pos[dep], pos[id], "%s settles before %s", dep, id)
		}
	}
}

// TestRun_FreshIdempotence verifies two uncached runs over fresh copies
// of the same template land payload-for-payload on the same manifold.
func TestRun_FreshIdempotence(t *testing.T) {
	template := buildManifold(t, `
name: rerun
nodes:
  - {id: a, op: const, params: {value: 3}}
  - {id: b, op: const, params: {value: 4}}
  - {id: s, op: add, depends_on: [a, b]}
  - {id: p, op: mul, depends_on: [a, b]}
  - {id: all, op: gather, depends_on: [s, p]}
`)

	s, err := scheduler.New(scheduler.WithWorkers(3))
	require.NoError(t, err)

	first := template.Fresh()
	second := template.Fresh()
	require.NoError(t, s.Run(context.Background(), first, operator.Base()))
	require.NoError(t, s.Run(context.Background(), second, operator.Base()))

	assert.Equal(t, first.Statuses(), second.Statuses(), "same terminal statuses")
	for _, id := range first.IDs() {
		got1, perr := first.Payload(id)
		require.NoError(t, perr)
		got2, perr := second.Payload(id)
		require.NoError(t, perr)
		assert.Equal(t, got1, got2, "payload for %s identical across runs", id)
	}
}

// TestRun_CancelAfterCompletion verifies a cancellation landing only
// after the last node computed does not demote a clean run.
func TestRun_CancelAfterCompletion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	parting := operator.Def{
		OpName: "parting",
		IO:     operator.Contract{Output: operator.Number},
		Fn: func(context.Context, operator.Invocation) (core.Payload, error) {
			cancel() // the work itself is already done
			return 9.0, nil
		},
	}

	reg := operator.NewRegistry()
	require.NoError(t, reg.Register(parting))

	m := buildManifold(t, "name: last\nnodes:\n  - {id: n, op: parting}\n")

	s, err := scheduler.New(scheduler.WithWorkers(1))
	require.NoError(t, err)
	require.NoError(t, s.Run(ctx, m, reg), "completed run reports success")

	out, perr := m.Payload("n")
	require.NoError(t, perr)
	assert.Equal(t, 9.0, out)
	assert.True(t, m.Complete())
}

// TestRun_ReplayCompoundParams verifies map-valued params fingerprint
// stably, so the second run still replays from the cache.
func TestRun_ReplayCompoundParams(t *testing.T) {
	var applied int64
	tuned := operator.Def{
		OpName: "tuned",
		IO:     operator.Contract{Output: operator.Number},
		Pure:   true,
		Fn: func(context.Context, operator.Invocation) (core.Payload, error) {
			atomic.AddInt64(&applied, 1)
			return 7.0, nil
		},
	}

	reg := operator.NewRegistry()
	require.NoError(t, reg.Register(tuned))

	s, err := scheduler.New(scheduler.WithWorkers(1), scheduler.WithCortex(newMapCache()))
	require.NoError(t, err)

	m := buildManifold(t, `
name: cfg
nodes:
  - id: n
    op: tuned
    params:
      cfg: {gamma: 3, alpha: 1, beta: 2}
`)
	require.NoError(t, s.Run(context.Background(), m, reg))
	require.NoError(t, s.Run(context.Background(), m.Fresh(), reg))

	assert.Equal(t, int64(1), applied, "compound-param signature matches across runs")
}

// TestExecutionError_Shape checks formatting determinism and multi-cause
// unwrapping.
func TestExecutionError_Shape(t *testing.T) {
	exec := &scheduler.ExecutionError{Causes: map[string]error{
		"b": errors.New("boom"),
		"a": errors.New("bang"),
	}}
	assert.Equal(t, `scheduler: 2 node(s) failed; "a": bang; "b": boom`, exec.Error(), "lexical cause order")
	assert.Len(t, exec.Unwrap(), 2)
}
