// Package embedding: quaternion algebra.
package embedding

import "math"

// Quaternion is w + xi + yj + zk.
type Quaternion struct {
	W, X, Y, Z float64
}

// Identity is the multiplicative identity rotation.
var Identity = Quaternion{W: 1}

// Add returns q + r componentwise.
func (q Quaternion) Add(r Quaternion) Quaternion {
	return Quaternion{W: q.W + r.W, X: q.X + r.X, Y: q.Y + r.Y, Z: q.Z + r.Z}
}

// Scale returns q with every component multiplied by s.
func (q Quaternion) Scale(s float64) Quaternion {
	return Quaternion{W: q.W * s, X: q.X * s, Y: q.Y * s, Z: q.Z * s}
}

// Mul returns the Hamilton product q·r. It is associative but not
// commutative.
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// Conjugate returns w - xi - yj - zk.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Norm returns the Euclidean magnitude.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize returns q scaled to unit norm. The zero quaternion
// normalizes to Identity.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n == 0 {
		return Identity
	}
	return q.Scale(1 / n)
}

// rotation builds the unit quaternion rotating by angle about the given
// axis; the axis need not be normalized.
func rotation(angle, ax, ay, az float64) Quaternion {
	n := math.Sqrt(ax*ax + ay*ay + az*az)
	if n == 0 {
		return Identity
	}
	s := math.Sin(angle/2) / n
	return Quaternion{W: math.Cos(angle / 2), X: ax * s, Y: ay * s, Z: az * s}
}
