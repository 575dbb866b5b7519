// Package formats provides parsers and writers for point-cloud file formats.
//
// Only binary little-endian PLY carrying 3D Gaussian splats is supported:
// ParsePLY reads the header into a PLYLayout of float property groups and
// WritePLYHeader emits the canonical header used for round-trip dumps.
package formats
