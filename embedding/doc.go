// Package embedding projects computed manifold payloads onto a cortex's
// prime reference points as unit quaternions.
//
// How the projection works 🚀
//
// Every node with a numeric payload (a number or a vector) is assigned
// the reference primes at its topological index. Each scalar component v
// against prime p yields a rotation of angle 2π·(v mod p)/p about an
// axis derived from the following reference primes; vector components
// compose by Hamilton product. The result is one unit quaternion per
// node — a fixed-width, composable signature of the node's value that
// is stable across runs of the same chart.
//
// Quaternion provides the algebra: Add, Scale, Mul (Hamilton product,
// non-commutative), Conjugate, Norm and Normalize.
//
// Complexity: O(V + K) for V nodes with K total scalar components.
//
// Quick start:
//
//	cx, _ := cortex.New("session")
//	sig, _ := embedding.Embed(m, cx)
//	q := sig["out"] // unit quaternion for node "out"
//
// See also: cortex (the reference scaffold), core (payload source).
package embedding
