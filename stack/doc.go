// Package stack composes manifolds into an ordered, multi-stage run.
//
// What is a cognitive stack? 🚀
//
// A Stack holds named stages, each carrying a template manifold. Run
// derives a fresh copy of every template (the template itself is never
// mutated), injects payloads from the previous stage into the copy
// through the stage's bindings, and hands the copy to a scheduler. The
// first stage failure halts the run and surfaces the scheduler's error
// wrapped in a *StageError; manifolds of completed stages stay available
// on the Result.
//
// Bindings ✨
//
// A binding "local ← remote" seeds the local node of this stage with the
// Computed payload of the remote node from the previous stage. Bound
// nodes skip their own operator; downstream nodes consume the injected
// payload like any other.
//
// Quick start:
//
//	st := stack.New(sched, operator.Base())
//	_ = st.Push("sense", senseManifold, nil)
//	_ = st.Push("think", thinkManifold, map[string]string{"in": "out"})
//	res, err := st.Run(ctx)
//
// Complexity: O(stages) coordination on top of the scheduler's own cost
// per stage.
//
// See also: scheduler (per-stage execution), core (Fresh derivation).
package stack
