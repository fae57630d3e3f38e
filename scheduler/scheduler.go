// Package scheduler: the run coordinator and its bounded worker pool.
package scheduler

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/katalvlaran/manifold/core"
	"github.com/katalvlaran/manifold/operator"
)

// task is one dispatched invocation: a node, its resolved operator and
// its gathered input payloads.
type task struct {
	node   core.Node
	op     operator.Operator
	inputs []core.Payload
}

// result is a finished invocation reported back to the coordinator.
type result struct {
	id      string
	payload core.Payload
	err     error
}

// Run executes m until every node is terminal or the context is
// cancelled. On return the manifold carries the final statuses and
// payloads.
//
// The error is nil for a clean run, an *ExecutionError when nodes
// failed, a *CancellationError when ctx ended the run early, or
// ErrStalled when non-terminal nodes remain unreachable. A
// cancellation that lands only after every node computed cleanly is
// moot and the run reports success.
func (s *Scheduler) Run(ctx context.Context, m *core.Manifold, reg *operator.Registry) error {
	if m == nil {
		return ErrNilManifold
	}
	if reg == nil {
		return ErrNilRegistry
	}

	r := &run{sched: s, m: m, reg: reg, failed: make(map[string]error)}
	if err := r.prepare(); err != nil {
		return err
	}
	return r.loop(ctx)
}

// run is the per-invocation-of-Run coordinator state. Only the
// coordinator goroutine touches it; workers communicate via channels.
type run struct {
	sched *Scheduler
	m     *core.Manifold
	reg   *operator.Registry

	remaining map[string]int // unmet dependency count per live node
	ready     []string       // nodes whose dependencies are all Computed
	failed    map[string]error
}

// prepare seeds the dependency countdown from the manifold's current
// statuses, so a run resumes cleanly over nodes a caller pre-computed.
func (r *run) prepare() error {
	r.remaining = make(map[string]int, r.m.Len())

	// Walk in topological order so prior failures cascade before their
	// dependents are counted.
	for _, id := range r.m.TopologicalOrder() {
		status, err := r.m.Status(id)
		if err != nil {
			return err
		}
		if status.Terminal() {
			continue
		}

		deps, err := r.m.Dependencies(id)
		if err != nil {
			return err
		}

		unmet, dead := 0, false
		for _, dep := range deps {
			depStatus, depErr := r.m.Status(dep)
			if depErr != nil {
				return depErr
			}
			switch depStatus {
			case core.StatusComputed:
				// satisfied
			case core.StatusFailed, core.StatusSkipped:
				dead = true
			default:
				unmet++
			}
		}

		if dead {
			if err := r.m.SetSkipped(id); err != nil {
				return err
			}
			continue
		}

		r.remaining[id] = unmet
		if unmet == 0 {
			if err := r.enqueue(id, status); err != nil {
				return err
			}
		}
	}
	return nil
}

// enqueue transitions a node to Ready and queues it for dispatch.
func (r *run) enqueue(id string, status core.Status) error {
	if status == core.StatusPending {
		if err := r.m.MarkReady(id); err != nil {
			return err
		}
	}
	r.ready = append(r.ready, id)
	return nil
}

// loop dispatches ready nodes to the worker pool and folds results back
// into the manifold until no live work remains.
func (r *run) loop(ctx context.Context) error {
	workCh := make(chan task)
	doneCh := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < r.sched.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range workCh {
				doneCh <- r.sched.execute(ctx, t)
			}
		}()
	}

	inflight, cancelled := 0, false
	for {
		switch {
		case len(r.ready) > 0 && !cancelled:
			t, ok := r.dispatchable()
			if !ok {
				continue // node failed during resolution, already recorded
			}
			select {
			case workCh <- t:
				inflight++
				r.ready = r.ready[1:]
				r.sched.log.Debugf("dispatch node=%q op=%q", t.node.ID, t.op.Name())
			case res := <-doneCh:
				inflight--
				r.settle(res)
			case <-ctx.Done():
				cancelled = true
			}
		case inflight > 0:
			if cancelled {
				// Stop dispatching but let in-flight work land.
				res := <-doneCh
				inflight--
				r.settle(res)
				continue
			}
			select {
			case res := <-doneCh:
				inflight--
				r.settle(res)
			case <-ctx.Done():
				cancelled = true
			}
		default:
			close(workCh)
			wg.Wait()
			return r.finish(ctx, cancelled)
		}
	}
}

// dispatchable resolves the head of the ready queue into a task. A
// resolution failure (unknown operator, unreadable input) fails the node
// in place and reports ok=false.
func (r *run) dispatchable() (task, bool) {
	id := r.ready[0]

	node, err := r.m.Node(id)
	if err == nil {
		var op operator.Operator
		if op, err = r.reg.Lookup(node.Op); err == nil {
			inputs := make([]core.Payload, len(node.DependsOn))
			for i, dep := range node.DependsOn {
				if inputs[i], err = r.m.Payload(dep); err != nil {
					break
				}
			}
			if err == nil {
				return task{node: node, op: op, inputs: inputs}, true
			}
		}
	}

	r.ready = r.ready[1:]
	r.settle(result{id: id, err: err})
	return task{}, false
}

// settle records one finished invocation: success wakes dependents,
// failure skips the downstream cone.
func (r *run) settle(res result) {
	delete(r.remaining, res.id)

	if res.err != nil {
		r.failed[res.id] = res.err
		_ = r.m.SetFailed(res.id)
		r.sched.log.Errorf("node=%q failed: %v", res.id, res.err)
		r.skipCone(res.id)
		return
	}

	_ = r.m.SetComputed(res.id, res.payload)
	r.sched.log.Debugf("node=%q computed", res.id)

	dependents, err := r.m.Dependents(res.id)
	if err != nil {
		return
	}
	for _, dep := range dependents {
		n, tracked := r.remaining[dep]
		if !tracked {
			continue
		}
		n--
		r.remaining[dep] = n
		if n == 0 {
			status, _ := r.m.Status(dep)
			_ = r.enqueue(dep, status)
		}
	}
}

// skipCone marks every transitive dependent of id Skipped and drops it
// from the countdown. Unrelated branches are untouched.
func (r *run) skipCone(id string) {
	frontier := []string{id}
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]

		dependents, err := r.m.Dependents(cur)
		if err != nil {
			continue
		}
		for _, dep := range dependents {
			if _, live := r.remaining[dep]; !live {
				continue
			}
			delete(r.remaining, dep)
			_ = r.m.SetSkipped(dep)
			r.sched.log.Debugf("node=%q skipped (upstream %q)", dep, id)
			frontier = append(frontier, dep)
		}
	}
}

// finish classifies the outcome once no work is in flight. The context
// is consulted directly so a cancellation racing the last result is
// still reported as one — unless the run had already finished clean,
// in which case the cancellation changed nothing and the run is
// reported as the success it is.
func (r *run) finish(ctx context.Context, cancelled bool) error {
	if cancelled || ctx.Err() != nil {
		if len(r.failed) == 0 && r.m.Complete() {
			r.sched.log.Infof("run complete, %d node(s)", r.m.Len())
			return nil
		}
		done := r.computedIDs()
		r.sched.log.Infof("run cancelled, %d node(s) computed", len(done))
		return &CancellationError{Done: done, Err: ctx.Err()}
	}
	if len(r.failed) > 0 {
		r.sched.log.Infof("run finished with %d failure(s)", len(r.failed))
		return &ExecutionError{Causes: r.failed}
	}
	if !r.m.Complete() {
		return fmt.Errorf("%w: %d node(s) left", ErrStalled, len(r.remaining))
	}
	r.sched.log.Infof("run complete, %d node(s)", r.m.Len())
	return nil
}

// computedIDs lists the nodes that reached Computed, in lexical order.
func (r *run) computedIDs() []string {
	var done []string
	for id, status := range r.m.Statuses() {
		if status == core.StatusComputed {
			done = append(done, id)
		}
	}
	sort.Strings(done)
	return done
}

// execute performs one invocation on a worker goroutine: shape check,
// replay lookup, apply under the per-invocation timeout, replay store.
func (s *Scheduler) execute(ctx context.Context, t task) result {
	if err := operator.CheckShape(t.op, t.node.ID, t.inputs); err != nil {
		return result{id: t.node.ID, err: err}
	}

	var sig string
	replayable := s.cache != nil && t.op.Deterministic()
	if replayable {
		sig = witnessSignature(t.op.Name(), t.node.Params, t.inputs)
		if payload, hit := s.cache.Recall(sig); hit {
			s.log.Debugf("node=%q replayed sig=%s", t.node.ID, sig)
			return result{id: t.node.ID, payload: payload}
		}
	}

	applyCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		applyCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	payload, err := t.op.Apply(applyCtx, operator.Invocation{
		NodeID: t.node.ID,
		Params: t.node.Params,
		Inputs: t.inputs,
	})
	if err != nil {
		if s.timeout > 0 && applyCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			err = fmt.Errorf("%w: node %q after %s", ErrTimeout, t.node.ID, time.Since(started).Round(time.Millisecond))
		}
		return result{id: t.node.ID, err: err}
	}

	if replayable {
		s.cache.Remember(sig, payload)
	}
	return result{id: t.node.ID, payload: payload}
}

// witnessSignature fingerprints a deterministic invocation: operator
// name, params in key order, then inputs in dependency order. Map
// values render stably under %v since fmt prints maps sorted by key,
// so compound params fingerprint the same way on every run.
func witnessSignature(op string, params map[string]any, inputs []core.Payload) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	fmt.Fprintf(h, "%s", op)
	for _, k := range keys {
		fmt.Fprintf(h, "|%s=%v", k, params[k])
	}
	for _, in := range inputs {
		fmt.Fprintf(h, "|>%v", in)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
