package formats

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/ply2gltf/pkg/sh"
)

// SplatPropertyNames returns the canonical property order for a splat PLY of
// the given degree, without normals.
func SplatPropertyNames(degree int) []string {
	names := []string{
		"x", "y", "z",
		"rot_0", "rot_1", "rot_2", "rot_3",
		"scale_0", "scale_1", "scale_2",
		"opacity",
		"f_dc_0", "f_dc_1", "f_dc_2",
	}
	for i := 0; i < sh.RestCount(degree); i++ {
		names = append(names, fmt.Sprintf("f_rest_%d", i))
	}
	return names
}

// WritePLYHeader writes a binary little-endian header declaring count
// vertices with the canonical splat properties for degree.
func WritePLYHeader(w io.Writer, count uint32, degree int) error {
	if err := sh.ValidateDegree(degree); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "ply")
	fmt.Fprintln(bw, "format binary_little_endian 1.0")
	fmt.Fprintf(bw, "element vertex %d\n", count)
	for _, name := range SplatPropertyNames(degree) {
		fmt.Fprintf(bw, "property float %s\n", name)
	}
	bw.WriteString(plyEndHeader)
	return bw.Flush()
}
