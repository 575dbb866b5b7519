// Package sh rotates real spherical harmonic coefficients of degree 1 to 3.
//
// Coefficients of one color channel are stored band after band, starting
// with band 1: 3 values for degree 1, then 5 for degree 2, then 7 for
// degree 3. Band 0 (the DC term) is rotation invariant and never passed in.
package sh

import (
	"errors"
	"fmt"
)

// MaxDegree is the highest supported SH degree.
const MaxDegree = 3

// ErrUnsupportedDegree is returned for degrees outside 0..MaxDegree, or for a
// higher-order property count that does not match any of them.
var ErrUnsupportedDegree = errors.New("unsupported spherical harmonics degree")

// BandSize returns the number of coefficients in band d.
func BandSize(d int) int {
	return 1 + 2*d
}

// CoefficientCount returns the number of coefficients per channel for bands
// 1..degree.
func CoefficientCount(degree int) int {
	return (degree+1)*(degree+1) - 1
}

// RestCount returns the number of scalar f_rest properties for degree.
func RestCount(degree int) int {
	return 3 * CoefficientCount(degree)
}

// DegreeForRestCount maps the number of f_rest properties to a degree.
func DegreeForRestCount(n int) (int, error) {
	for degree := 0; degree <= MaxDegree; degree++ {
		if RestCount(degree) == n {
			return degree, nil
		}
	}
	return 0, fmt.Errorf("%w: %d higher-order coefficients", ErrUnsupportedDegree, n)
}

// ValidateDegree checks that degree is in 0..MaxDegree.
func ValidateDegree(degree int) error {
	if degree < 0 || degree > MaxDegree {
		return fmt.Errorf("%w: %d", ErrUnsupportedDegree, degree)
	}
	return nil
}
