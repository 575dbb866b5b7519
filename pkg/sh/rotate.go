package sh

import "fmt"

// Matrix entries are single-precision values widened to float64, except the
// three d3 entries built from the *Double constants.
const (
	sqrt3Over2  = float64(float32(0.866025403))
	sqrt5Over8  = float64(float32(0.79056942))
	sqrt3Over8  = float64(float32(0.61237244))
	sqrt15Over4 = float64(float32(0.96824584))

	sqrt3Over8Double  = 0.61237244
	sqrt15Over4Double = 0.96824584
)

// Wigner D-matrices for a -90 degree rotation around the X axis, rows and
// columns ordered from m = -l to m = l.
var (
	d1 = [3][3]float64{
		{0, -1, 0},
		{1, 0, 0},
		{0, 0, 1},
	}

	d2 = [5][5]float64{
		{0, 0, 0, -1, 0},
		{0, -1, 0, 0, 0},
		{0, 0, -0.5, 0, -sqrt3Over2},
		{1, 0, 0, 0, 0},
		{0, 0, -sqrt3Over2, 0, 0.5},
	}

	d3 = [7][7]float64{
		{0, 0, 0, sqrt5Over8, 0, -sqrt3Over8, 0},
		{0, -1, 0, 0, 0, 0, 0},
		{0, 0, 0, sqrt3Over8Double, 0, sqrt5Over8, 0},
		{-sqrt5Over8, 0, -sqrt3Over8Double, 0, 0, 0, 0},
		{0, 0, 0, 0, -0.25, 0, -sqrt15Over4Double},
		{sqrt3Over8, 0, -sqrt5Over8, 0, 0, 0, 0},
		{0, 0, 0, 0, -sqrt15Over4, 0, 0.25},
	}
)

// Matrix returns a copy of the rotation matrix for band d (1..3) as rows.
func Matrix(d int) ([][]float64, error) {
	var rows [][]float64
	switch d {
	case 1:
		for _, r := range d1 {
			rows = append(rows, append([]float64(nil), r[:]...))
		}
	case 2:
		for _, r := range d2 {
			rows = append(rows, append([]float64(nil), r[:]...))
		}
	case 3:
		for _, r := range d3 {
			rows = append(rows, append([]float64(nil), r[:]...))
		}
	default:
		return nil, fmt.Errorf("%w: no rotation for band %d", ErrUnsupportedDegree, d)
	}
	return rows, nil
}

// at returns element (i, j) of the band d matrix.
func at(d, i, j int) float64 {
	switch d {
	case 1:
		return d1[i][j]
	case 2:
		return d2[i][j]
	default:
		return d3[i][j]
	}
}

// Rotate applies the -90 degree X rotation to one channel's coefficients.
// coeffs must hold at least CoefficientCount(degree) values; the result has
// exactly that many. Products are accumulated in float64.
func Rotate(coeffs []float32, degree int) ([]float32, error) {
	return apply(coeffs, degree, false)
}

// RotateInverse undoes Rotate by applying the transposed matrices.
func RotateInverse(coeffs []float32, degree int) ([]float32, error) {
	return apply(coeffs, degree, true)
}

func apply(coeffs []float32, degree int, transpose bool) ([]float32, error) {
	if err := ValidateDegree(degree); err != nil {
		return nil, err
	}
	n := CoefficientCount(degree)
	if len(coeffs) < n {
		return nil, fmt.Errorf("sh: degree %d needs %d coefficients, got %d", degree, n, len(coeffs))
	}

	out := make([]float32, n)
	band := 0
	for d := 1; d <= degree; d++ {
		size := BandSize(d)
		in := coeffs[band : band+size]
		for i := 0; i < size; i++ {
			var sum float64
			for j := 0; j < size; j++ {
				m := at(d, i, j)
				if transpose {
					m = at(d, j, i)
				}
				// The conversion rounds the product so it is never fused into an FMA.
				sum += float64(m * float64(in[j]))
			}
			out[band+i] = float32(sum)
		}
		band += size
	}
	return out, nil
}
