// Package splat repacks Gaussian splat vertices between the PLY layout written
// by 3DGS trainers and the interleaved float32 layout used by the
// KHR_gaussian_splatting glTF extension.
package splat

import (
	"fmt"

	"github.com/Faultbox/ply2gltf/pkg/sh"
)

const floatSize = 4

// Fixed byte offsets inside one destination vertex.
const (
	PositionOffset = 0
	RotationOffset = PositionOffset + 3*floatSize
	ScaleOffset    = RotationOffset + 4*floatSize
	OpacityOffset  = ScaleOffset + 3*floatSize
	ColorDCOffset  = OpacityOffset + 1*floatSize
	SHOffset       = ColorDCOffset + 3*floatSize
)

// baseFloats is the number of floats before the higher-order SH bands.
const baseFloats = SHOffset / floatSize

// Attribute describes one interleaved attribute of the destination layout.
type Attribute struct {
	// Name is the semantic without extension prefix, e.g. ROTATION or
	// SH_DEGREE_2_COEF_4.
	Name       string
	Offset     uint32
	Components int
}

// Layout is the interleaved destination layout for a given SH degree.
type Layout struct {
	Degree int
	Stride uint32
}

// NewLayout returns the destination layout for degree.
func NewLayout(degree int) (Layout, error) {
	if err := sh.ValidateDegree(degree); err != nil {
		return Layout{}, err
	}
	return Layout{
		Degree: degree,
		Stride: uint32(baseFloats+3*sh.CoefficientCount(degree)) * floatSize,
	}, nil
}

// CoefficientOffset returns the byte offset of the RGB triple for band d,
// coefficient n (0 <= n < 2d+1).
func (l Layout) CoefficientOffset(d, n int) uint32 {
	return SHOffset + uint32(3*(sh.CoefficientCount(d-1)+n))*floatSize
}

// Attributes lists every attribute in buffer order.
func (l Layout) Attributes() []Attribute {
	attrs := []Attribute{
		{Name: "POSITION", Offset: PositionOffset, Components: 3},
		{Name: "ROTATION", Offset: RotationOffset, Components: 4},
		{Name: "SCALE", Offset: ScaleOffset, Components: 3},
		{Name: "OPACITY", Offset: OpacityOffset, Components: 1},
		{Name: "SH_DEGREE_0_COEF_0", Offset: ColorDCOffset, Components: 3},
	}
	for d := 1; d <= l.Degree; d++ {
		for n := 0; n < sh.BandSize(d); n++ {
			attrs = append(attrs, Attribute{
				Name:       CoefficientName(d, n),
				Offset:     l.CoefficientOffset(d, n),
				Components: 3,
			})
		}
	}
	return attrs
}

// BufferSize returns the byte size of count vertices.
func (l Layout) BufferSize(count uint32) int {
	return int(count) * int(l.Stride)
}

// CoefficientName returns the attribute name of an SH coefficient.
func CoefficientName(d, n int) string {
	return fmt.Sprintf("SH_DEGREE_%d_COEF_%d", d, n)
}
