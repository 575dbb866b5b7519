package splat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrOutOfBounds is returned when a read or write would leave its buffer.
var ErrOutOfBounds = errors.New("buffer access out of bounds")

// floatReader decodes little-endian float32 values from one vertex record.
type floatReader struct {
	buf []byte
	err error
}

// at returns the float at byte offset off, remembering the first
// out-of-bounds access.
func (r *floatReader) at(off uint32) float32 {
	if r.err != nil {
		return 0
	}
	end := uint64(off) + floatSize
	if end > uint64(len(r.buf)) {
		r.err = fmt.Errorf("%w: read %d..%d of %d", ErrOutOfBounds, off, end, len(r.buf))
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(r.buf[off:]))
}

// vec3 reads three consecutive floats.
func (r *floatReader) vec3(off uint32) [3]float32 {
	return [3]float32{r.at(off), r.at(off + floatSize), r.at(off + 2*floatSize)}
}

// floatWriter encodes little-endian float32 values sequentially.
type floatWriter struct {
	buf []byte
	off int
	err error
}

func (w *floatWriter) put(values ...float32) {
	for _, v := range values {
		if w.err != nil {
			return
		}
		if w.off+floatSize > len(w.buf) {
			w.err = fmt.Errorf("%w: write at %d of %d", ErrOutOfBounds, w.off, len(w.buf))
			return
		}
		binary.LittleEndian.PutUint32(w.buf[w.off:], math.Float32bits(v))
		w.off += floatSize
	}
}

// record returns the byte range of vertex i in a buffer with the given stride.
func record(buf []byte, i, stride uint32) ([]byte, error) {
	start := uint64(i) * uint64(stride)
	end := start + uint64(stride)
	if end > uint64(len(buf)) {
		return nil, fmt.Errorf("%w: vertex %d needs bytes %d..%d of %d", ErrOutOfBounds, i, start, end, len(buf))
	}
	return buf[start:end], nil
}
