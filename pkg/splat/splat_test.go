package splat

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/ply2gltf/pkg/formats"
	"github.com/Faultbox/ply2gltf/pkg/sh"
)

// testSplat is one source vertex in PLY order.
type testSplat struct {
	pos     [3]float32
	rot     [4]float32 // w, x, y, z
	scale   [3]float32
	opacity float32
	dc      [3]float32
	rest    []float32 // channel-major, sh.RestCount(degree) values
}

// createTestPLY builds a binary splat PLY in memory.
func createTestPLY(t *testing.T, degree int, splats []testSplat) *formats.PLY {
	t.Helper()

	buf := new(bytes.Buffer)
	require.NoError(t, formats.WritePLYHeader(buf, uint32(len(splats)), degree))

	for _, s := range splats {
		binary.Write(buf, binary.LittleEndian, s.pos)
		binary.Write(buf, binary.LittleEndian, s.rot)
		binary.Write(buf, binary.LittleEndian, s.scale)
		binary.Write(buf, binary.LittleEndian, s.opacity)
		binary.Write(buf, binary.LittleEndian, s.dc)
		rest := s.rest
		if rest == nil {
			rest = make([]float32, sh.RestCount(degree))
		}
		require.Len(t, rest, sh.RestCount(degree))
		binary.Write(buf, binary.LittleEndian, rest)
	}

	ply, err := formats.ParsePLY(buf.Bytes())
	require.NoError(t, err)
	return ply
}

// sampleSplats returns n deterministic, non-degenerate splats.
func sampleSplats(n, degree int) []testSplat {
	splats := make([]testSplat, n)
	for i := range splats {
		f := float32(i)
		rest := make([]float32, sh.RestCount(degree))
		for k := range rest {
			rest[k] = 0.01*float32(k) - 0.1*f
		}
		splats[i] = testSplat{
			pos:     [3]float32{f - 3, 2*f + 0.5, -f},
			rot:     [4]float32{1 + f, 0.5, -0.25 * f, 2},
			scale:   [3]float32{-4 + 0.1*f, -3, -2.5},
			opacity: -2 + 0.3*f,
			dc:      [3]float32{0.1 * f, -0.2, 0.3},
			rest:    rest,
		}
	}
	return splats
}

// readFloats decodes n little-endian floats starting at off.
func readFloats(t *testing.T, buf []byte, off, n int) []float32 {
	t.Helper()
	out := make([]float32, n)
	require.NoError(t, binary.Read(bytes.NewReader(buf[off:off+4*n]), binary.LittleEndian, out))
	return out
}

// floatBytes encodes one little-endian float.
func floatBytes(v float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	return b
}
