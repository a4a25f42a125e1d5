/*package particles contains the macroparticle Bunch used throughout
wakefield, along with functions for ordering, generating, and summarizing
bunches.*/
package particles

/* This file contains the Bunch type and the named Fields which expose its
columns. */

import (
	"errors"
	"fmt"
	"math"

	"github.com/phil-mansfield/wakefield/lib/physics"
)

// ErrMalformedBunch is wrapped by every error reporting that a Bunch's columns
// are inconsistent with one another.
var ErrMalformedBunch = errors.New("malformed bunch")

// Bunch is a single bunch of macroparticles stored as a struct of arrays.
// Element i of every column describes macroparticle i. Z is the longitudinal
// position, with larger Z towards the head of the bunch.
type Bunch struct {
	Z, X, Y    []float64
	PX, PY, PZ []float64
	Charge     []float64

	// Gamma is the relativistic factor of the reference particle, Intensity
	// is the number of real particles represented by the bunch, Mass is the
	// rest mass of a single real particle in kg, and ParticleCharge is its
	// charge in C.
	Gamma, Intensity, Mass, ParticleCharge float64
}

// NewBunch creates a Bunch with n zeroed macroparticles of unit charge.
func NewBunch(n int) *Bunch {
	b := &Bunch{
		Z: make([]float64, n), X: make([]float64, n), Y: make([]float64, n),
		PX: make([]float64, n), PY: make([]float64, n), PZ: make([]float64, n),
		Charge: make([]float64, n),
	}
	for i := range b.Charge { b.Charge[i] = 1 }
	return b
}

// Len returns the number of macroparticles in the bunch.
func (b *Bunch) Len() int { return len(b.Z) }

// Validate returns an error wrapping ErrMalformedBunch if any column has a
// different length than Z.
func (b *Bunch) Validate() error {
	n := len(b.Z)
	for _, f := range b.Fields() {
		if f.Len() != n {
			return fmt.Errorf("%w: column '%s' has %d elements, but 'z' "+
				"has %d.", ErrMalformedBunch, f.Name(), f.Len(), n)
		}
	}
	return nil
}

// Beta returns v/c of the reference particle.
func (b *Bunch) Beta() float64 {
	if b.Gamma <= 1 { return 0 }
	return math.Sqrt(1 - 1/(b.Gamma*b.Gamma))
}

// BetaGamma returns beta*gamma of the reference particle.
func (b *Bunch) BetaGamma() float64 {
	if b.Gamma <= 1 { return 0 }
	return math.Sqrt(b.Gamma*b.Gamma - 1)
}

// P0 returns the reference momentum in kg m/s.
func (b *Bunch) P0() float64 {
	return b.Mass * b.Gamma * b.Beta() * physics.SpeedOfLight
}

// Fields returns the bunch's columns in a fixed order. The Fields share memory
// with the Bunch.
func (b *Bunch) Fields() []Field {
	return []Field{
		NewFloat64("z", b.Z), NewFloat64("x", b.X), NewFloat64("y", b.Y),
		NewFloat64("px", b.PX), NewFloat64("py", b.PY),
		NewFloat64("pz", b.PZ), NewFloat64("charge", b.Charge),
	}
}

// Field is a named column of per-particle data.
type Field interface {
	// Name returns the name of the column, e.g. "z" or "px".
	Name() string
	// Len returns the length of the underlying array.
	Len() int
	// Data returns the underlying array.
	Data() []float64
	// Transfer copies element from[i] of the Field into element to[i] of dest.
	// These indices are passed as arrays to amortize the cost of error
	// handling.
	Transfer(dest []float64, from, to []int) error
}

// Type assertions
var (
	_ Field = &Float64{ }
)

// Float64 implements the Field interface for []float64 data. See the Field
// interface for documentation of this struct's methods.
type Float64 struct {
	name string
	data []float64
}

// NewFloat64 creates a field with a given name assoicated with a given array.
func NewFloat64(name string, x []float64) *Float64 {
	return &Float64{ name, x }
}

func (x *Float64) Name() string { return x.name }
func (x *Float64) Len() int { return len(x.data) }
func (x *Float64) Data() []float64 { return x.data }

func (x *Float64) Transfer(dest []float64, from, to []int) error {
	if len(from) != len(to) {
		return fmt.Errorf("'from' index array has length %d, but 'to' has "+
			"length %d.", len(from), len(to))
	}

	for i := range from {
		if to[i] < 0 || to[i] >= len(dest) {
			return fmt.Errorf("Index %d is out of range for the %d-element "+
				"destination of field '%s'.", to[i], len(dest), x.name)
		}
		dest[to[i]] = x.data[from[i]]
	}

	return nil
}
