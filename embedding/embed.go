package embedding

import (
	"errors"
	"math"

	"github.com/katalvlaran/manifold/core"
	"github.com/katalvlaran/manifold/cortex"
	"github.com/katalvlaran/manifold/operator"
)

var (
	// ErrNilManifold indicates Embed received a nil manifold.
	ErrNilManifold = errors.New("embedding: manifold must not be nil")

	// ErrNilCortex indicates Embed received a nil cortex.
	ErrNilCortex = errors.New("embedding: cortex must not be nil")
)

// Embed projects every Computed numeric payload of m onto cx's prime
// reference points, returning one unit quaternion per embeddable node.
// Nodes with non-numeric payloads or non-Computed status are left out.
func Embed(m *core.Manifold, cx *cortex.Cortex) (map[string]Quaternion, error) {
	if m == nil {
		return nil, ErrNilManifold
	}
	if cx == nil {
		return nil, ErrNilCortex
	}

	primes := cx.Primes()
	out := make(map[string]Quaternion)
	for idx, id := range m.TopologicalOrder() {
		status, err := m.Status(id)
		if err != nil {
			return nil, err
		}
		if status != core.StatusComputed {
			continue
		}

		payload, err := m.Payload(id)
		if err != nil {
			return nil, err
		}
		components, ok := scalars(payload)
		if !ok {
			continue
		}
		out[id] = project(components, idx, primes)
	}
	return out, nil
}

// project composes one rotation per scalar component, each anchored at
// a successive reference prime, and normalizes the product.
func project(components []float64, idx int, primes []int) Quaternion {
	q := Identity
	for j, v := range components {
		p := float64(primes[(idx+j)%len(primes)])
		angle := 2 * math.Pi * math.Mod(math.Abs(v), p) / p

		// Axis from the next three reference primes keeps distinct
		// slots rotationally independent.
		ax := float64(primes[(idx+j+1)%len(primes)])
		ay := float64(primes[(idx+j+2)%len(primes)])
		az := float64(primes[(idx+j+3)%len(primes)])
		q = q.Mul(rotation(angle, ax, ay, az))
	}
	return q.Normalize()
}

// scalars flattens a numeric payload into its components.
func scalars(p core.Payload) ([]float64, bool) {
	if vec, ok := p.([]float64); ok {
		return vec, true
	}
	if x, ok := operator.AsNumber(p); ok {
		return []float64{x}, true
	}
	return nil, false
}
