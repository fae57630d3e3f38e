// Package operator defines the transformation contract applied at
// manifold nodes, the process-wide Registry that names such capabilities,
// and a set of base operators.
//
// # Contract
//
// An Operator is a named transformation with a declared input/output
// contract (Contract): an ordered list of input kinds, an optional
// variadic marker, and an output kind. Apply receives an Invocation (the
// node's parameter bag plus the dependency payloads in declared order)
// and returns a payload or a typed failure:
//
//	*ShapeError   - the inputs violate the declared arity or kinds;
//	*ComputeError - the transformation itself failed.
//
// Operators are pure by default: Deterministic() == true promises
// referential transparency, which permits payload caching and replay.
// Operators backed by external or learned state (kernels) must report
// Deterministic() == false so a scheduler never skips re-invocation for
// them across pipeline stages.
//
// # Registry
//
// A Registry maps names to Operators. It is an explicit object built at
// process start and passed into scheduler calls, never a hidden global,
// so tests construct isolated registries. Duplicate registration under
// one name fails with ErrConflict. Requirements() exports the per-
// operator required parameter keys in the form chart.Parse consumes.
//
// # Base operators
//
//	const  - () → number; emits the "value" parameter.
//	add    - (number...) → number; sum.
//	mul    - (number...) → number; product.
//	neg    - (number) → number; negation.
//	gather - (number...) → vector; collects inputs into one vector.
//
// samples.go carries small-input mathematical probes (primality, zeta
// partial sums) that exist purely to exercise the operator/scheduler
// contract; they prove nothing and are not infrastructure.
//
// No implicit retries exist in the contract; Retry wraps an Operator
// with explicit bounded attempts and backoff as a layered decorator.
package operator
