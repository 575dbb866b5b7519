package gltfdoc

import (
	"errors"
	"fmt"
	"slices"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/ply2gltf/pkg/sh"
	"github.com/Faultbox/ply2gltf/pkg/splat"
)

// Reader errors.
var (
	ErrNotGaussianSplat = errors.New("document has no " + ExtensionName + " primitive")
	ErrUnexpectedLayout = errors.New("splat accessors do not match the interleaved layout")
)

// Scene is a splat primitive loaded back from a glTF document.
type Scene struct {
	Document *gltf.Document
	Layout   splat.Layout
	Count    uint32
	// Buffer is the interleaved vertex data of the shared bufferView.
	Buffer []byte
}

// Open loads a .gltf file and its external buffer.
func Open(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return FromDocument(doc)
}

// FromDocument locates the first splat primitive of doc and checks that its
// accessors describe the interleaved layout written by Build.
func FromDocument(doc *gltf.Document) (*Scene, error) {
	if !slices.Contains(doc.ExtensionsUsed, ExtensionName) {
		return nil, ErrNotGaussianSplat
	}

	prim := findPrimitive(doc)
	if prim == nil {
		return nil, ErrNotGaussianSplat
	}

	degree := 0
	for d := 1; d <= sh.MaxDegree; d++ {
		if _, ok := prim.Attributes[AttributeName(splat.CoefficientName(d, 0))]; ok {
			degree = d
		}
	}
	layout, err := splat.NewLayout(degree)
	if err != nil {
		return nil, err
	}

	var (
		count uint32
		view  uint32
	)
	for i, a := range layout.Attributes() {
		idx, ok := prim.Attributes[AttributeName(a.Name)]
		if !ok {
			return nil, fmt.Errorf("%w: missing attribute %s", ErrUnexpectedLayout, a.Name)
		}
		if int(idx) >= len(doc.Accessors) {
			return nil, fmt.Errorf("%w: accessor %d out of range", ErrUnexpectedLayout, idx)
		}
		acc := doc.Accessors[idx]
		if acc.BufferView == nil || acc.ComponentType != gltf.ComponentFloat || acc.Type != accessorType(a.Components) {
			return nil, fmt.Errorf("%w: accessor %s has wrong type", ErrUnexpectedLayout, a.Name)
		}
		if acc.ByteOffset != a.Offset {
			return nil, fmt.Errorf("%w: %s at offset %d, want %d", ErrUnexpectedLayout, a.Name, acc.ByteOffset, a.Offset)
		}
		if i == 0 {
			count, view = acc.Count, *acc.BufferView
		} else if acc.Count != count || *acc.BufferView != view {
			return nil, fmt.Errorf("%w: %s does not share the position bufferView", ErrUnexpectedLayout, a.Name)
		}
	}

	if int(view) >= len(doc.BufferViews) {
		return nil, fmt.Errorf("%w: bufferView %d out of range", ErrUnexpectedLayout, view)
	}
	bv := doc.BufferViews[view]
	if bv.ByteStride != layout.Stride {
		return nil, fmt.Errorf("%w: stride %d, want %d", ErrUnexpectedLayout, bv.ByteStride, layout.Stride)
	}
	if int(bv.Buffer) >= len(doc.Buffers) {
		return nil, fmt.Errorf("%w: buffer %d out of range", ErrUnexpectedLayout, bv.Buffer)
	}

	data := doc.Buffers[bv.Buffer].Data
	start, end := uint64(bv.ByteOffset), uint64(bv.ByteOffset)+uint64(bv.ByteLength)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("%w: bufferView ends at %d, buffer holds %d bytes", ErrUnexpectedLayout, end, len(data))
	}
	buf := data[start:end]
	if len(buf) < layout.BufferSize(count) {
		return nil, fmt.Errorf("%w: %d vertices need %d bytes, bufferView has %d", ErrUnexpectedLayout, count, layout.BufferSize(count), len(buf))
	}

	return &Scene{
		Document: doc,
		Layout:   layout,
		Count:    count,
		Buffer:   buf,
	}, nil
}

func findPrimitive(doc *gltf.Document) *gltf.Primitive {
	for _, m := range doc.Meshes {
		for _, p := range m.Primitives {
			if _, ok := p.Extensions[ExtensionName]; ok {
				return p
			}
		}
	}
	return nil
}
