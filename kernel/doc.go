// Package kernel provides stateful compute kernels that plug into a
// manifold as operators.
//
// What is a kernel? 🚀
//
// A Kernel maps a fixed-width input vector to an output vector. Unlike
// the pure operators in package operator, a kernel may carry mutable
// internal state; a Trainable kernel can additionally adjust that state
// from (input, target) examples.
//
// Provided kernels ✨
//
//   - Dense — a fully connected feed-forward network with ReLU, Sigmoid,
//     Tanh or Identity activations and single-sample SGD updates.
//
// AsOperator adapts any Kernel into an operator.Operator so charts can
// route payloads through it. Kernel-backed operators report
// Deterministic() == false: a trainable kernel's output depends on its
// accumulated state, so results are never replayed from cache.
//
// Complexity: Dense.Forward and Dense.Update are O(Σ wᵢ) over the
// weight count per layer.
//
// Quick start:
//
//	k, _ := kernel.NewDense([]int{2, 4, 1}, kernel.WithActivation(kernel.Tanh))
//	out, _ := k.Forward([]float64{0.5, -0.5})
//	_ = k.Update([]float64{0.5, -0.5}, []float64{1})
//
// See also: operator (the contract AsOperator satisfies), stack (staged
// composition of kernel manifolds).
package kernel
