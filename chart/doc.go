// Package chart implements parsing and validation of declarative chart
// documents: the serialized descriptions from which manifolds are built.
//
// A chart document lists, per node, an identifier, an operator tag, a
// parameter bag, and an ordered list of dependency identifiers. Documents
// are decoded with gopkg.in/yaml.v3; since JSON is a subset of YAML, both
// formats are accepted by the same path.
//
// # Validation
//
// Parse rejects, without partial construction:
//
//	– empty documents (no nodes),
//	– empty or duplicate node identifiers,
//	– dependencies referencing undeclared node identifiers,
//	– cycles expressible in the declared dependency lists,
//	– missing required parameters (when requirements are supplied).
//
// Parse is a pure function: identical input yields an identical Chart or an
// identical *SchemaError. A Chart is immutable after construction; all
// accessors return copies, so a Chart may be shared read-only across
// goroutines without synchronization.
//
// # Errors
//
//	ErrEmptyChart        - document declares no nodes.
//	ErrBadDocument       - document is not decodable YAML/JSON.
//	ErrEmptyNodeID       - a node identifier is the empty string.
//	ErrDuplicateNodeID   - two nodes share one identifier.
//	ErrEmptyOperator     - a node declares no operator tag.
//	ErrUnknownDependency - an edge references an undeclared identifier.
//	ErrSelfDependency    - a node lists itself as a dependency.
//	ErrMissingParam      - a required operator parameter is absent.
//	ErrChartCycle        - the declared edges form a cycle.
//
// All validation failures are returned as *SchemaError values naming the
// offending node; errors.Is matches the sentinel above.
//
// Complexity: Parse is O(V + E) over declared nodes and dependency edges.
package chart
