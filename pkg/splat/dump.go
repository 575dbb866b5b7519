package splat

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/Faultbox/ply2gltf/pkg/formats"
	"github.com/Faultbox/ply2gltf/pkg/math"
	"github.com/Faultbox/ply2gltf/pkg/sh"
)

// DumpPLY writes count interleaved vertices from buf back out as a binary
// splat PLY. The quaternion goes back to w-first order without
// renormalization, opacity goes back through Logit and the SH triples are
// regrouped per channel. Axis conversion is not undone.
func DumpPLY(w io.Writer, buf []byte, count uint32, layout Layout) error {
	if need := layout.BufferSize(count); len(buf) < need {
		return fmt.Errorf("%w: %d vertices need %d bytes, got %d", ErrOutOfBounds, count, need, len(buf))
	}

	bw := bufio.NewWriter(w)
	if err := formats.WritePLYHeader(bw, count, layout.Degree); err != nil {
		return err
	}

	coeffs := sh.CoefficientCount(layout.Degree)
	out := make([]byte, (baseFloats+3*coeffs)*floatSize)
	channels := [3][]float32{
		make([]float32, coeffs),
		make([]float32, coeffs),
		make([]float32, coeffs),
	}

	for i := uint32(0); i < count; i++ {
		in, err := record(buf, i, layout.Stride)
		if err != nil {
			return err
		}
		r := &floatReader{buf: in}
		fw := &floatWriter{buf: out}

		pos := r.vec3(PositionOffset)
		fw.put(pos[:]...)

		q := math.Quat{
			X: r.at(RotationOffset),
			Y: r.at(RotationOffset + floatSize),
			Z: r.at(RotationOffset + 2*floatSize),
			W: r.at(RotationOffset + 3*floatSize),
		}
		wxyz := q.WXYZ()
		fw.put(wxyz[:]...)

		scale := r.vec3(ScaleOffset)
		fw.put(scale[:]...)

		fw.put(math.Logit(r.at(OpacityOffset)))

		dc := r.vec3(ColorDCOffset)
		fw.put(dc[:]...)

		for k := 0; k < coeffs; k++ {
			rgb := r.vec3(SHOffset + uint32(3*k)*floatSize)
			channels[0][k], channels[1][k], channels[2][k] = rgb[0], rgb[1], rgb[2]
		}
		for _, ch := range channels {
			fw.put(ch...)
		}

		if r.err != nil {
			return fmt.Errorf("vertex %d: %w", i, r.err)
		}
		if fw.err != nil {
			return fmt.Errorf("vertex %d: %w", i, fw.err)
		}
		if _, err := bw.Write(out); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// DumpPLYBytes is DumpPLY into memory.
func DumpPLYBytes(buf []byte, count uint32, layout Layout) ([]byte, error) {
	var b bytes.Buffer
	b.Grow(layout.BufferSize(count) + 1024)
	if err := DumpPLY(&b, buf, count, layout); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
