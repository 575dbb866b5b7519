// Package math provides the small vector, quaternion and activation helpers
// used when repacking Gaussian splat attributes.
package math

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Vec3FromArray converts an array to a Vec3.
func Vec3FromArray(a [3]float32) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

// Min returns the componentwise minimum.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{min(v.X, other.X), min(v.Y, other.Y), min(v.Z, other.Z)}
}

// Max returns the componentwise maximum.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{max(v.X, other.X), max(v.Y, other.Y), max(v.Z, other.Z)}
}

// ZUpToYUp swizzles a right-handed z-up position into right-handed y-up.
// This equals rotating -90 degrees around the X axis.
func (v Vec3) ZUpToYUp() Vec3 {
	return Vec3{v.X, v.Z, -v.Y}
}
