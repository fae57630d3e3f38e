package kernel

import (
	"math"
	"math/rand"
	"sync"
)

// Default Dense hyperparameters.
const (
	// DefaultRate is the SGD learning rate when WithLearningRate is not
	// given.
	DefaultRate = 0.05

	// DefaultSeed seeds weight initialization for reproducible kernels.
	DefaultSeed = 1
)

// Dense is a fully connected feed-forward network. Weights are
// initialized deterministically from a seed, so two kernels built with
// identical options start identical.
//
// Forward takes the lock shared with Update, so concurrent training and
// evaluation interleave safely.
type Dense struct {
	mu    sync.RWMutex
	sizes []int
	act   Activation
	rate  float64

	// weights[l][j][i] connects layer l neuron i to layer l+1 neuron j.
	weights [][][]float64
	biases  [][]float64
}

// DenseOption adjusts a Dense under construction.
type DenseOption func(*Dense) error

// WithActivation selects the hidden/output nonlinearity (default Sigmoid).
func WithActivation(a Activation) DenseOption {
	return func(d *Dense) error {
		d.act = a
		return nil
	}
}

// WithLearningRate sets the SGD step size. rate must be > 0.
func WithLearningRate(rate float64) DenseOption {
	return func(d *Dense) error {
		if rate <= 0 {
			return ErrBadRate
		}
		d.rate = rate
		return nil
	}
}

// WithSeed reseeds weight initialization.
func WithSeed(seed int64) DenseOption {
	return func(d *Dense) error {
		d.init(seed)
		return nil
	}
}

// NewDense builds a network with the given layer widths, e.g.
// []int{2, 4, 1} for two inputs, one hidden layer of four, one output.
func NewDense(sizes []int, opts ...DenseOption) (*Dense, error) {
	if len(sizes) < 2 {
		return nil, ErrBadLayout
	}
	for _, n := range sizes {
		if n < 1 {
			return nil, ErrBadLayout
		}
	}

	d := &Dense{
		sizes: append([]int(nil), sizes...),
		act:   Sigmoid,
		rate:  DefaultRate,
	}
	d.init(DefaultSeed)

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// init fills weights with seed-determined values scaled by fan-in.
func (d *Dense) init(seed int64) {
	rng := rand.New(rand.NewSource(seed))

	d.weights = make([][][]float64, len(d.sizes)-1)
	d.biases = make([][]float64, len(d.sizes)-1)
	for l := 0; l < len(d.sizes)-1; l++ {
		in, out := d.sizes[l], d.sizes[l+1]
		scale := 1 / math.Sqrt(float64(in))

		d.weights[l] = make([][]float64, out)
		d.biases[l] = make([]float64, out)
		for j := 0; j < out; j++ {
			row := make([]float64, in)
			for i := range row {
				row[i] = (rng.Float64()*2 - 1) * scale
			}
			d.weights[l][j] = row
		}
	}
}

// InputWidth returns the expected Forward input length.
func (d *Dense) InputWidth() int { return d.sizes[0] }

// OutputWidth returns the Forward output length.
func (d *Dense) OutputWidth() int { return d.sizes[len(d.sizes)-1] }

// Forward evaluates the network on one input vector.
func (d *Dense) Forward(inputs []float64) ([]float64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	layers, err := d.propagate(inputs)
	if err != nil {
		return nil, err
	}
	out := layers[len(layers)-1]
	return append([]float64(nil), out...), nil
}

// Update performs one SGD backpropagation step on a single
// (inputs, target) example under squared-error loss.
func (d *Dense) Update(inputs, target []float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(target) != d.OutputWidth() {
		return ErrDimension
	}
	layers, err := d.propagate(inputs)
	if err != nil {
		return err
	}

	// Output deltas from the loss gradient.
	last := len(layers) - 1
	delta := make([]float64, len(layers[last]))
	for j, y := range layers[last] {
		delta[j] = (y - target[j]) * d.act.derivative(y)
	}

	// Walk layers backwards, updating as we go.
	for l := len(d.weights) - 1; l >= 0; l-- {
		prev := layers[l]

		var next []float64
		if l > 0 {
			next = make([]float64, len(prev))
			for i := range prev {
				var sum float64
				for j := range delta {
					sum += d.weights[l][j][i] * delta[j]
				}
				next[i] = sum * d.act.derivative(prev[i])
			}
		}

		for j := range delta {
			step := d.rate * delta[j]
			for i, x := range prev {
				d.weights[l][j][i] -= step * x
			}
			d.biases[l][j] -= step
		}
		delta = next
	}
	return nil
}

// propagate runs a forward pass and returns every layer's activations,
// input included. Callers hold the lock.
func (d *Dense) propagate(inputs []float64) ([][]float64, error) {
	if len(inputs) != d.sizes[0] {
		return nil, ErrDimension
	}

	layers := make([][]float64, len(d.sizes))
	layers[0] = inputs
	for l := 0; l < len(d.weights); l++ {
		cur := make([]float64, d.sizes[l+1])
		for j := range cur {
			sum := d.biases[l][j]
			for i, x := range layers[l] {
				sum += d.weights[l][j][i] * x
			}
			cur[j] = d.act.apply(sum)
		}
		layers[l+1] = cur
	}
	return layers, nil
}
