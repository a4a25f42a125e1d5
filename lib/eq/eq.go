/*package eq is a simple package for telling whether two arrays of floats, or
two bunches, are equal to one another.*/
package eq

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/wakefield/lib/particles"
)

// Float64s returns true if two []float64 arrays are the same and false
// otherwise.
func Float64s(x, y []float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Float64sEps returns true if the two []float64 arrays are within eps of one
// another and false otherwise.
func Float64sEps(x, y []float64, eps float64) bool {
	return FirstDifference(x, y, 0, eps) == -1 && len(x) == len(y)
}

// Float64sRel returns true if every element of x is within a relative
// tolerance rel of the corresponding element of y and false otherwise.
func Float64sRel(x, y []float64, rel float64) bool {
	return FirstDifference(x, y, rel, 0) == -1 && len(x) == len(y)
}

// FirstDifference returns the first index where x[i] and y[i] differ by more
// than eps + rel*max(|x[i]|, |y[i]|), or -1 if there is no such index. NaNs
// are never equal to anything. Only the first min(len(x), len(y)) elements
// are compared.
func FirstDifference(x, y []float64, rel, eps float64) int {
	n := len(x)
	if len(y) < n { n = len(y) }
	for i := 0; i < n; i++ {
		tol := eps + rel*math.Max(math.Abs(x[i]), math.Abs(y[i]))
		if !(math.Abs(x[i]-y[i]) <= tol) { return i }
	}
	return -1
}

// Bunches returns nil if every column and beam parameter of b1 is within a
// relative tolerance rel of b2 and an error describing the first mismatch
// otherwise.
func Bunches(b1, b2 *particles.Bunch, rel float64) error {
	if b1.Len() != b2.Len() {
		return fmt.Errorf("Bunches have %d and %d particles.",
			b1.Len(), b2.Len())
	}

	params := []struct {
		name string
		x, y float64
	}{
		{"gamma", b1.Gamma, b2.Gamma},
		{"intensity", b1.Intensity, b2.Intensity},
		{"mass", b1.Mass, b2.Mass},
		{"particle charge", b1.ParticleCharge, b2.ParticleCharge},
	}
	for _, p := range params {
		if !Float64sRel([]float64{p.x}, []float64{p.y}, rel) {
			return fmt.Errorf("Bunches have %s %g and %g.", p.name, p.x, p.y)
		}
	}

	f1, f2 := b1.Fields(), b2.Fields()
	for i := range f1 {
		x, y := f1[i].Data(), f2[i].Data()
		if len(x) != len(y) {
			return fmt.Errorf("Column '%s' has lengths %d and %d.",
				f1[i].Name(), len(x), len(y))
		}
		if j := FirstDifference(x, y, rel, 0); j != -1 {
			return fmt.Errorf("Column '%s' differs at particle %d: %g vs. %g.",
				f1[i].Name(), j, x[j], y[j])
		}
	}

	return nil
}
