package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/ply2gltf/pkg/sh"
)

// PLY format errors.
var (
	ErrInvalidPLYHeader = errors.New("invalid PLY header")
	ErrTruncatedPLYData = fmt.Errorf("%w: truncated vertex data", ErrInvalidPLYHeader)
)

const plyEndHeader = "end_header\n"

// floatSize is the byte size of a PLY float property.
const floatSize = 4

// PLYAttribute identifies a group of splat properties in the source stride.
type PLYAttribute int

// Attribute groups, in the order they are written to the destination.
const (
	PLYPosition PLYAttribute = iota
	PLYRotation
	PLYScale
	PLYOpacity
	PLYColorDC
	PLYHigherSH
	numPLYAttributes
)

// String returns the property name that starts the group.
func (a PLYAttribute) String() string {
	switch a {
	case PLYPosition:
		return "x"
	case PLYRotation:
		return "rot_0"
	case PLYScale:
		return "scale_0"
	case PLYOpacity:
		return "opacity"
	case PLYColorDC:
		return "f_dc_0"
	case PLYHigherSH:
		return "f_rest_0"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// requiredAttributes must appear in every splat PLY.
var requiredAttributes = []PLYAttribute{PLYPosition, PLYRotation, PLYScale, PLYOpacity, PLYColorDC}

// PLYLayout maps attribute groups to byte offsets inside one source vertex.
type PLYLayout struct {
	Stride  uint32
	offsets [numPLYAttributes]uint32
	present [numPLYAttributes]bool
}

// Offset returns the byte offset of attribute a and whether it was declared.
func (l *PLYLayout) Offset(a PLYAttribute) (uint32, bool) {
	if a < 0 || a >= numPLYAttributes {
		return 0, false
	}
	return l.offsets[a], l.present[a]
}

// Has reports whether attribute a was declared.
func (l *PLYLayout) Has(a PLYAttribute) bool {
	_, ok := l.Offset(a)
	return ok
}

func (l *PLYLayout) set(a PLYAttribute, floats uint32) {
	l.offsets[a] = l.Stride
	l.present[a] = true
	l.Stride += floats * floatSize
}

func (l *PLYLayout) skip(floats uint32) {
	l.Stride += floats * floatSize
}

// PLYHeader describes a binary little-endian Gaussian splat PLY.
type PLYHeader struct {
	VertexCount uint32
	Layout      PLYLayout
	RestCount   int
	Degree      int
	// Properties lists every float property name in declaration order.
	Properties []string
}

// VertexDataSize returns the expected byte length of the vertex payload.
func (h *PLYHeader) VertexDataSize() int {
	return int(h.VertexCount) * int(h.Layout.Stride)
}

// PLY is a parsed header together with its raw vertex payload.
type PLY struct {
	Header *PLYHeader
	Data   []byte
}

// ParsePLY splits a PLY file into header and vertex data and parses the header.
func ParsePLY(data []byte) (*PLY, error) {
	end := bytes.Index(data, []byte(plyEndHeader))
	if end < 0 {
		return nil, fmt.Errorf("%w: missing %q", ErrInvalidPLYHeader, strings.TrimSpace(plyEndHeader))
	}
	end += len(plyEndHeader)

	header, err := ParsePLYHeader(string(data[:end]))
	if err != nil {
		return nil, err
	}

	body := data[end:]
	if need := header.VertexDataSize(); len(body) < need {
		return nil, fmt.Errorf("%w: %d vertices need %d bytes, got %d", ErrTruncatedPLYData, header.VertexCount, need, len(body))
	}

	return &PLY{Header: header, Data: body}, nil
}

// ParsePLYHeader parses the textual header up to and including end_header.
//
// Only float properties are accepted. Property groups are located by their
// first component name (x, rot_0, scale_0, opacity, f_dc_0, f_rest_0); the
// remaining components are assumed to follow in order. The nx group is not
// kept but still occupies three floats. Other names are ignored and do not
// take space in the stride.
func ParsePLYHeader(text string) (*PLYHeader, error) {
	var (
		isPLY    bool
		isBinary bool
		h        = &PLYHeader{}
	)

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "end_header" {
			break
		}

		switch {
		case line == "ply":
			isPLY = true
		case strings.HasPrefix(line, "format "):
			if strings.Contains(line, "binary_little_endian") {
				isBinary = true
			}
		case strings.HasPrefix(line, "element vertex"):
			if _, err := fmt.Sscanf(line, "element vertex %d", &h.VertexCount); err != nil {
				return nil, fmt.Errorf("%w: bad vertex count %q", ErrInvalidPLYHeader, line)
			}
		case strings.HasPrefix(line, "property "):
			if err := h.addProperty(line); err != nil {
				return nil, err
			}
		}
		// comment, obj_info and other elements carry nothing we need
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPLYHeader, err)
	}

	if !isPLY {
		return nil, fmt.Errorf("%w: missing ply magic", ErrInvalidPLYHeader)
	}
	if !isBinary {
		return nil, fmt.Errorf("%w: format must be binary_little_endian", ErrInvalidPLYHeader)
	}
	if h.VertexCount == 0 {
		return nil, fmt.Errorf("%w: no vertices", ErrInvalidPLYHeader)
	}
	for _, a := range requiredAttributes {
		if !h.Layout.Has(a) {
			return nil, fmt.Errorf("%w: missing property %s", ErrInvalidPLYHeader, a)
		}
	}

	degree, err := sh.DegreeForRestCount(h.RestCount)
	if err != nil {
		return nil, err
	}
	h.Degree = degree

	return h, nil
}

// addProperty handles one "property <type> <name>" line.
func (h *PLYHeader) addProperty(line string) error {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return fmt.Errorf("%w: unsupported property %q", ErrInvalidPLYHeader, line)
	}
	kind, name := fields[1], fields[2]
	if kind != "float" {
		return fmt.Errorf("%w: unknown component type %q for %s", ErrInvalidPLYHeader, kind, name)
	}
	h.Properties = append(h.Properties, name)

	switch {
	case name == "nx":
		h.Layout.skip(3)
	case name == "x":
		h.Layout.set(PLYPosition, 3)
	case name == "rot_0":
		h.Layout.set(PLYRotation, 4)
	case name == "scale_0":
		h.Layout.set(PLYScale, 3)
	case name == "opacity":
		h.Layout.set(PLYOpacity, 1)
	case name == "f_dc_0":
		h.Layout.set(PLYColorDC, 3)
	case name == "f_rest_0":
		h.Layout.set(PLYHigherSH, 1)
		h.RestCount++
	case strings.HasPrefix(name, "f_rest_"):
		h.Layout.skip(1)
		h.RestCount++
	}
	return nil
}

// ParsePLYFile parses a PLY file from disk.
func ParsePLYFile(path string) (*PLY, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading PLY file: %w", err)
	}
	return ParsePLY(data)
}
