// Package core defines the central Manifold, Node and Status types, and
// provides thread-safe primitives for building, extending, querying and
// cloning manifolds.
//
// A Manifold is a directed acyclic graph instantiated from a validated
// chart.Chart. Each node carries its operator tag, parameter bag, ordered
// dependency list, a payload slot (empty until computed) and a Status in
// {Pending, Ready, Computed, Skipped, Failed}.
//
// # Ownership & concurrency
//
// A Manifold is owned by the run that built it. During execution the
// scheduler holds exclusive mutation rights over node status and payload;
// all mutation entry points validate state transitions, so a node becomes
// Computed at most once. All core APIs take an internal sync.RWMutex, so
// concurrent readers never observe torn state. Once a payload is set it is
// read-only and may be shared by any number of dependent invocations.
//
// # Invariants
//
//	– acyclic: FromChart and Extend reject any cycle before acceptance;
//	– atomic extension: a rejected Extend leaves the manifold unchanged;
//	– causal status: Ready requires every dependency Computed;
//	– single computation: Computed is assigned at most once per node.
//
// # Errors
//
//	ErrNilChart          - FromChart received a nil chart.
//	ErrNodeNotFound      - an operation referenced an undeclared node.
//	ErrEmptyNodeID       - an extension spec with an empty identifier.
//	ErrDuplicateNode     - Extend re-declared an existing identifier.
//	ErrUnknownDependency - a dependency references an undeclared node.
//	ErrCycle             - the (merged) graph would contain a cycle.
//	ErrNotComputed       - Payload requested before the node computed.
//	ErrBadTransition     - a status change violated the transition table.
//
// Cycle rejections are *BuildError values naming the cycle members and
// matching ErrCycle via errors.Is.
package core
