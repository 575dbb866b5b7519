// Package gltfdoc builds and reads glTF 2.0 documents that carry Gaussian
// splats through the KHR_gaussian_splatting extension.
package gltfdoc

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/ply2gltf/pkg/splat"
)

// ExtensionName is the glTF extension used for splat primitives.
const ExtensionName = "KHR_gaussian_splatting"

// Defaults for the primitive extension object.
const (
	DefaultKernel     = "ellipse"
	DefaultColorSpace = "srgb_rec709_display"
	DefaultGenerator  = "ply2gltf"
)

// Extension is the KHR_gaussian_splatting object attached to a primitive.
type Extension struct {
	Kernel     string `json:"kernel"`
	ColorSpace string `json:"colorSpace"`
}

// Options configures document metadata.
type Options struct {
	// BufferURI is written as the uri of the single buffer.
	BufferURI  string
	Generator  string
	Kernel     string
	ColorSpace string
}

func (o Options) withDefaults() Options {
	if o.Generator == "" {
		o.Generator = DefaultGenerator
	}
	if o.Kernel == "" {
		o.Kernel = DefaultKernel
	}
	if o.ColorSpace == "" {
		o.ColorSpace = DefaultColorSpace
	}
	return o
}

// AttributeName returns the primitive attribute key for a layout attribute.
// POSITION is a core glTF semantic; everything else is extension-prefixed.
func AttributeName(name string) string {
	if name == gltf.POSITION {
		return name
	}
	return ExtensionName + ":" + name
}

// Build creates the scene document describing res: one buffer, one
// interleaved bufferView, one accessor per attribute, and a single POINTS
// primitive referenced by one node in one scene.
func Build(res *splat.Result, opts Options) *gltf.Document {
	opts = opts.withDefaults()
	byteLength := uint32(len(res.Buffer))

	doc := &gltf.Document{
		Asset: gltf.Asset{
			Version:   "2.0",
			Generator: opts.Generator,
		},
		ExtensionsUsed:     []string{ExtensionName},
		ExtensionsRequired: []string{ExtensionName},
		Buffers: []*gltf.Buffer{{
			URI:        opts.BufferURI,
			ByteLength: byteLength,
		}},
		BufferViews: []*gltf.BufferView{{
			Buffer:     0,
			ByteLength: byteLength,
			ByteStride: res.Layout.Stride,
			Target:     gltf.TargetArrayBuffer,
		}},
	}

	prim := &gltf.Primitive{
		Mode:       gltf.PrimitivePoints,
		Attributes: map[string]uint32{},
		Extensions: gltf.Extensions{
			ExtensionName: &Extension{Kernel: opts.Kernel, ColorSpace: opts.ColorSpace},
		},
	}

	for _, a := range res.Layout.Attributes() {
		acc := &gltf.Accessor{
			Name:          a.Name,
			BufferView:    gltf.Index(0),
			ByteOffset:    a.Offset,
			ComponentType: gltf.ComponentFloat,
			Count:         res.Count,
			Type:          accessorType(a.Components),
		}
		if a.Name == gltf.POSITION {
			acc.Min = []float32{res.Bounds.Min.X, res.Bounds.Min.Y, res.Bounds.Min.Z}
			acc.Max = []float32{res.Bounds.Max.X, res.Bounds.Max.Y, res.Bounds.Max.Z}
		}
		prim.Attributes[AttributeName(a.Name)] = uint32(len(doc.Accessors))
		doc.Accessors = append(doc.Accessors, acc)
	}

	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes = []*gltf.Scene{{Nodes: []uint32{0}}}
	doc.Scene = gltf.Index(0)

	return doc
}

func accessorType(components int) gltf.AccessorType {
	switch components {
	case 1:
		return gltf.AccessorScalar
	case 4:
		return gltf.AccessorVec4
	default:
		return gltf.AccessorVec3
	}
}

// Encode writes doc as JSON. indent is the number of spaces per level; zero
// writes compact JSON.
func Encode(w io.Writer, doc *gltf.Document, indent int) error {
	var (
		data []byte
		err  error
	)
	if indent > 0 {
		data, err = json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("encoding glTF document: %w", err)
	}
	_, err = w.Write(data)
	return err
}
