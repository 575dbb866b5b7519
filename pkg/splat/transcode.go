package splat

import (
	"fmt"
	"sync"

	"github.com/Faultbox/ply2gltf/pkg/formats"
	"github.com/Faultbox/ply2gltf/pkg/math"
	"github.com/Faultbox/ply2gltf/pkg/sh"
)

// Options controls how vertices are transcoded.
type Options struct {
	// Convert rotates the scene from right-handed z-up to right-handed y-up.
	Convert bool
	// Workers splits the vertex range into that many chunks processed
	// concurrently. Values below 2 run a single pass.
	Workers int
}

// Result holds the interleaved destination buffer.
type Result struct {
	Layout Layout
	Count  uint32
	Buffer []byte
	// Bounds covers every destination position.
	Bounds math.Box3
}

// transcoder carries the per-run state shared by all vertices.
type transcoder struct {
	src       []byte
	srcStride uint32
	offsets   [6]uint32
	dst       Layout
	convert   bool
	coeffs    int
}

// Transcode repacks every vertex of ply into the interleaved destination
// layout. Any degenerate rotation aborts the whole run.
func Transcode(ply *formats.PLY, opts Options) (*Result, error) {
	h := ply.Header

	layout, err := NewLayout(h.Degree)
	if err != nil {
		return nil, err
	}

	t := &transcoder{
		src:       ply.Data,
		srcStride: h.Layout.Stride,
		dst:       layout,
		convert:   opts.Convert,
		coeffs:    sh.CoefficientCount(h.Degree),
	}
	for _, a := range []formats.PLYAttribute{
		formats.PLYPosition, formats.PLYRotation, formats.PLYScale,
		formats.PLYOpacity, formats.PLYColorDC, formats.PLYHigherSH,
	} {
		off, ok := h.Layout.Offset(a)
		if !ok && (a != formats.PLYHigherSH || h.Degree > 0) {
			return nil, fmt.Errorf("%w: missing property %s", formats.ErrInvalidPLYHeader, a)
		}
		t.offsets[a] = off
	}

	res := &Result{
		Layout: layout,
		Count:  h.VertexCount,
		Buffer: make([]byte, layout.BufferSize(h.VertexCount)),
	}

	bounds, err := t.run(res.Buffer, h.VertexCount, opts.Workers)
	if err != nil {
		return nil, err
	}
	res.Bounds = bounds

	return res, nil
}

// run transcodes [0, count) either in one pass or in contiguous chunks.
// Chunks write disjoint destination ranges and keep private bounds, merged
// afterwards; the reported error is the one from the lowest vertex.
func (t *transcoder) run(dst []byte, count uint32, workers int) (math.Box3, error) {
	if workers < 2 || count < 2 {
		return t.transcodeRange(dst, 0, count)
	}
	if uint32(workers) > count {
		workers = int(count)
	}

	chunk := (count + uint32(workers) - 1) / uint32(workers)
	boxes := make([]math.Box3, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := uint32(w) * chunk
		hi := min(lo+chunk, count)
		if lo >= hi {
			boxes[w] = math.EmptyBox3()
			continue
		}

		wg.Add(1)
		go func(w int, lo, hi uint32) {
			defer wg.Done()
			boxes[w], errs[w] = t.transcodeRange(dst, lo, hi)
		}(w, lo, hi)
	}
	wg.Wait()

	bounds := math.EmptyBox3()
	for w := range boxes {
		if errs[w] != nil {
			return math.Box3{}, errs[w]
		}
		bounds.Union(boxes[w])
	}
	return bounds, nil
}

func (t *transcoder) transcodeRange(dst []byte, lo, hi uint32) (math.Box3, error) {
	bounds := math.EmptyBox3()
	for i := lo; i < hi; i++ {
		in, err := record(t.src, i, t.srcStride)
		if err != nil {
			return bounds, err
		}
		out, err := record(dst, i, t.dst.Stride)
		if err != nil {
			return bounds, err
		}

		pos, err := t.vertex(in, out)
		if err != nil {
			return bounds, fmt.Errorf("vertex %d: %w", i, err)
		}
		bounds.Expand(pos)
	}
	return bounds, nil
}

// vertex transcodes one source record into one destination record and
// returns the written position.
func (t *transcoder) vertex(in, out []byte) (math.Vec3, error) {
	r := &floatReader{buf: in}
	w := &floatWriter{buf: out}

	// Position
	pos := math.Vec3FromArray(r.vec3(t.offsets[formats.PLYPosition]))
	if t.convert {
		pos = pos.ZUpToYUp()
	}
	w.put(pos.X, pos.Y, pos.Z)

	// Rotation: PLY stores w first.
	rotOff := t.offsets[formats.PLYRotation]
	q, err := math.QuatFromWXYZ(
		r.at(rotOff), r.at(rotOff+floatSize), r.at(rotOff+2*floatSize), r.at(rotOff+3*floatSize),
	).Normalize()
	if r.err != nil {
		return math.Vec3{}, r.err
	}
	if err != nil {
		return math.Vec3{}, err
	}
	if t.convert {
		q = math.ZUpToYUp.Mul(q)
	}
	w.put(q.X, q.Y, q.Z, q.W)

	// Scale is unaffected by the rotation.
	scale := r.vec3(t.offsets[formats.PLYScale])
	w.put(scale[:]...)

	// Opacity is stored as a logit.
	w.put(math.Sigmoid(r.at(t.offsets[formats.PLYOpacity])))

	// Band 0 is rotation invariant.
	dc := r.vec3(t.offsets[formats.PLYColorDC])
	w.put(dc[:]...)

	if t.coeffs > 0 {
		if err := t.higherBands(r, w); err != nil {
			return math.Vec3{}, err
		}
	}

	if r.err != nil {
		return math.Vec3{}, r.err
	}
	return pos, w.err
}

// higherBands gathers the channel-major f_rest values, optionally rotates
// each channel and writes them back as RGB triples.
func (t *transcoder) higherBands(r *floatReader, w *floatWriter) error {
	base := t.offsets[formats.PLYHigherSH]

	var channels [3][]float32
	for c := range channels {
		channels[c] = make([]float32, t.coeffs)
		for k := 0; k < t.coeffs; k++ {
			channels[c][k] = r.at(base + uint32(c*t.coeffs+k)*floatSize)
		}
		if t.convert {
			rotated, err := sh.Rotate(channels[c], t.dst.Degree)
			if err != nil {
				return err
			}
			channels[c] = rotated
		}
	}

	for k := 0; k < t.coeffs; k++ {
		w.put(channels[0][k], channels[1][k], channels[2][k])
	}
	return nil
}
