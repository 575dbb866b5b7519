package math

import (
	"errors"

	"github.com/chewxy/math32"
)

// ErrDegenerateQuaternion is returned when a quaternion with zero length is normalized.
var ErrDegenerateQuaternion = errors.New("degenerate quaternion: zero norm")

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// ZUpToYUp rotates -90 degrees around the X axis, taking a right-handed
// z-up frame into a right-handed y-up frame.
var ZUpToYUp = Quat{X: -0.70710678, Y: 0, Z: 0, W: 0.70710678}

// QuatFromWXYZ builds a quaternion from scalar-first components.
func QuatFromWXYZ(w, x, y, z float32) Quat {
	return Quat{X: x, Y: y, Z: z, W: w}
}

// WXYZ returns the components scalar-first.
func (q Quat) WXYZ() [4]float32 {
	return [4]float32{q.W, q.X, q.Y, q.Z}
}

// Length returns the Euclidean norm.
func (q Quat) Length() float32 {
	return math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// minNormal is the smallest normal float32. A sum of squares below it has
// lost precision to underflow.
const minNormal = 0x1p-126

// Normalize returns a unit quaternion.
// Only an exactly zero quaternion is rejected. When the sum of squares
// overflows or underflows float32, components are first scaled by the
// largest magnitude.
func (q Quat) Normalize() (Quat, error) {
	sum := q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
	if sum >= minNormal && !math32.IsInf(sum, 1) {
		length := math32.Sqrt(sum)
		return Quat{
			X: q.X / length,
			Y: q.Y / length,
			Z: q.Z / length,
			W: q.W / length,
		}, nil
	}

	m := max(math32.Abs(q.X), math32.Abs(q.Y), math32.Abs(q.Z), math32.Abs(q.W))
	if m == 0 {
		return Quat{}, ErrDegenerateQuaternion
	}
	s := Quat{X: q.X / m, Y: q.Y / m, Z: q.Z / m, W: q.W / m}
	length := s.Length()
	return Quat{
		X: s.X / length,
		Y: s.Y / length,
		Z: s.Z / length,
		W: s.W / length,
	}, nil
}

// Mul multiplies two quaternions (combines rotations).
// The result applies other first, then q.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}
