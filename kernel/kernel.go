// Package kernel: the Kernel/Trainable contracts and activation math.
package kernel

import (
	"errors"
	"math"
)

var (
	// ErrBadLayout indicates fewer than two layer sizes or a non-positive
	// layer width.
	ErrBadLayout = errors.New("kernel: layout needs >= 2 positive layer sizes")

	// ErrBadRate indicates a non-positive learning rate.
	ErrBadRate = errors.New("kernel: learning rate must be > 0")

	// ErrDimension indicates an input or target vector of the wrong width.
	ErrDimension = errors.New("kernel: vector width does not match layout")

	// ErrNilKernel indicates AsOperator received a nil kernel.
	ErrNilKernel = errors.New("kernel: kernel must not be nil")

	// ErrNotTrainable indicates an Update routed to a kernel without one.
	ErrNotTrainable = errors.New("kernel: kernel does not support updates")
)

// Kernel maps a fixed-width input vector to an output vector.
// Implementations may carry mutable state; Forward must be safe for
// concurrent callers.
type Kernel interface {
	// Forward evaluates the kernel. The returned slice is owned by the
	// caller.
	Forward(inputs []float64) ([]float64, error)
}

// Trainable is the optional learning extension of Kernel.
type Trainable interface {
	Kernel

	// Update adjusts internal state toward target for the given inputs.
	Update(inputs, target []float64) error
}

// Activation selects the per-neuron nonlinearity of a Dense kernel.
type Activation uint8

const (
	// Identity applies no nonlinearity.
	Identity Activation = iota
	// ReLU is max(0, x).
	ReLU
	// Sigmoid is 1 / (1 + e^(-x)).
	Sigmoid
	// Tanh is the hyperbolic tangent.
	Tanh
)

// String returns the activation name.
func (a Activation) String() string {
	switch a {
	case Identity:
		return "identity"
	case ReLU:
		return "relu"
	case Sigmoid:
		return "sigmoid"
	case Tanh:
		return "tanh"
	default:
		return "unknown"
	}
}

// apply evaluates the activation at x.
func (a Activation) apply(x float64) float64 {
	switch a {
	case ReLU:
		return math.Max(0, x)
	case Sigmoid:
		return 1 / (1 + math.Exp(-x))
	case Tanh:
		return math.Tanh(x)
	default:
		return x
	}
}

// derivative evaluates the activation's derivative in terms of its
// output y, which all four supported activations admit.
func (a Activation) derivative(y float64) float64 {
	switch a {
	case ReLU:
		if y > 0 {
			return 1
		}
		return 0
	case Sigmoid:
		return y * (1 - y)
	case Tanh:
		return 1 - y*y
	default:
		return 1
	}
}
