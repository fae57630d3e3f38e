// Package scheduler executes a core.Manifold with a bounded worker pool.
//
// What is a scheduler run? 🚀
//
// A run walks the manifold in dependency order: every node whose
// dependencies are all Computed is handed to a worker, the worker resolves
// the node's operator from an operator.Registry, checks the input shapes,
// applies the operator, and reports back. Independent nodes execute
// concurrently; at most WithWorkers(N) invocations are in flight at once.
//
// Failure semantics ✨
//
//   - An operator failure marks the node Failed and every transitive
//     dependent Skipped. Unrelated branches keep running.
//   - A per-invocation timeout (WithTimeout) fails the node with an
//     ErrTimeout cause.
//   - Context cancellation stops dispatching, waits for in-flight work,
//     and returns a *CancellationError; payloads computed so far stay on
//     the manifold.
//   - A run that ends with failed nodes returns an *ExecutionError with
//     one cause per failed node.
//
// Replay ✨
//
// With WithCortex the scheduler consults a replay cache before invoking a
// deterministic operator: identical (operator, params, inputs) witness
// signatures reuse the remembered payload instead of recomputing it.
//
// Complexity: O(V + E) coordination over V nodes and E dependency edges,
// plus the cost of the operator invocations themselves.
//
// Quick start:
//
//	s, _ := scheduler.New(scheduler.WithWorkers(4))
//	if err := s.Run(ctx, m, operator.Base()); err != nil {
//	    var exec *scheduler.ExecutionError
//	    if errors.As(err, &exec) {
//	        // inspect exec.Causes per node
//	    }
//	}
//
// See also: core (manifold state machine), operator (registry and
// contracts), stack (multi-stage composition).
package scheduler
