// Package cortex is the persistent run memory of the engine, backed by
// an in-memory gits graph storage instance.
//
// What does the cortex hold? 🚀
//
//   - Reference points: 144 sequential primes mapped as Prime entities
//     at construction. They form a stable coordinate scaffold other
//     components address results against (see package embedding).
//   - Witnesses: payloads of deterministic operator invocations keyed by
//     witness signature. Cortex satisfies scheduler.ReplayCache, so a
//     scheduler built WithCortex replays identical invocations instead
//     of recomputing them.
//   - Runs: completed manifolds recorded as a Run entity with one child
//     ManifoldNode entity per node, carrying status and payload. Runs
//     are queryable across cognitive-stack stages.
//
// Payloads are stored as tagged strings (numbers, vectors, text, or a
// generic JSON encoding) since graph entity properties are string maps.
//
// Quick start:
//
//	cx, _ := cortex.New("session-1")
//	sched, _ := scheduler.New(scheduler.WithCortex(cx))
//	_ = sched.Run(ctx, m, reg)
//	_ = cx.RecordRun("warmup", m)
//
// Each Cortex owns a named gits instance; two instances with the same
// name share storage, so use distinct names per session.
//
// See also: scheduler (the replay consumer), embedding (prime-indexed
// projections).
package cortex
