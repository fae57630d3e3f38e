// Package manifold is your in-memory engine for compiling declarative
// charts into executable dependency graphs — and for running pluggable
// transformation operators across them, concurrently and safely.
//
// 🚀 What is manifold?
//
//	A modern, thread-safe computation engine that brings together:
//		• Charts: declarative node/edge descriptions, parsed & validated
//		• Manifolds: immutable-by-contract DAGs with typed payload slots
//		• Operators: named transformations with declared input contracts
//		• Scheduler: bounded-worker execution honoring dependency order
//		• Kernels: parametric/learned terminal operators (dense nets)
//		• Cognitive stacks: multi-stage pipelines over evolving manifolds
//
// ✨ Why choose manifold?
//
//   - Predictable – strict validation up front, no partial construction
//   - Rock-solid guarantees – R/W locks, causal ordering, failure isolation
//   - Composable – deterministic and learned operators share one contract
//   - Replayable – pure operators cache through the prime-reference cortex
//
// Under the hood, everything is organized under focused subpackages:
//
//	chart/     — chart parsing & schema validation (YAML documents)
//	core/      — fundamental Manifold, Node, Status types & the builder
//	operator/  — the Operator contract, Registry and base operators
//	scheduler/ — bounded-parallelism DAG execution with failure propagation
//	kernel/    — parametric kernels (dense feed-forward) + operator adapter
//	stack/     — ordered operator/kernel stages over evolving manifolds
//	cortex/    — prime-reference run memory & replay cache (gits-backed)
//	embedding/ — quaternion embedding of completed manifolds
//
// Data flows left to right:
//
//	chart ──▶ core.FromChart ──▶ scheduler.Run ──▶ payloads ──▶ stack / cortex
//
// Dive into examples/ for runnable programs, and each package's doc.go for
// contracts, invariants and complexity notes.
//
//	go get github.com/katalvlaran/manifold
package manifold
