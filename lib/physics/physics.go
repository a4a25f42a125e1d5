/*package physics contains the physical constants and beam-level scaling
factors which callers hand to the wake engine. Nothing in lib/wake hard-codes
these values.
*/
package physics

import (
	"fmt"
	"math"
)

const (
	// SpeedOfLight is c in m/s.
	SpeedOfLight = 299792458.0
	// ImpedanceOfFreeSpace is Z0 in Ohm.
	ImpedanceOfFreeSpace = 376.730313668
	// ElementaryCharge is e in C.
	ElementaryCharge = 1.602176634e-19
	// ElectronMass and ProtonMass are in kg.
	ElectronMass = 9.1093837015e-31
	ProtonMass   = 1.67262192369e-27
	// ElectronRadius and ProtonRadius are the classical radii in m.
	ElectronRadius = 2.8179403262e-15
	ProtonRadius   = 1.5346982672e-18
)

// Species describes a particle type by its mass and classical radius.
type Species struct {
	Name   string
	Mass   float64
	Radius float64
}

var species = map[string]Species{
	"proton":   {"proton", ProtonMass, ProtonRadius},
	"electron": {"electron", ElectronMass, ElectronRadius},
	"positron": {"positron", ElectronMass, ElectronRadius},
}

// LookupSpecies returns the Species with the given name.
func LookupSpecies(name string) (Species, error) {
	s, ok := species[name]
	if !ok {
		return Species{}, fmt.Errorf(
			"Unrecognized particle species '%s'. Supported species are "+
				"'proton', 'electron', and 'positron'.", name,
		)
	}
	return s, nil
}

// Scaling converts summed wake kicks into momentum changes. A wake sum has
// units of wake amplitude times macroparticle charge; multiplying by
// Factor(n) gives the change in px, py, or pz.
type Scaling struct {
	// ClassicalRadius is the classical radius of the beam species.
	ClassicalRadius float64
	// Intensity is the number of real particles in the bunch.
	Intensity float64
	// Gamma is the relativistic factor of the reference particle.
	Gamma float64
	// Override, if non-zero, is returned by Factor unchanged.
	Override float64
}

// Unit is a Scaling which applies kicks without any physical rescaling. It is
// mostly useful in tests.
var Unit = Scaling{Override: 1}

// Beta returns v/c for the reference particle.
func (s Scaling) Beta() float64 {
	if s.Gamma <= 1 { return 0 }
	return math.Sqrt(1 - 1/(s.Gamma*s.Gamma))
}

// Factor returns the multiplier applied to kick sums for a bunch of n
// macroparticles: -r0 * N / (n * beta^2 * gamma). It returns 0 for empty
// bunches and for Scalings with no physical content.
func (s Scaling) Factor(n int) float64 {
	if s.Override != 0 { return s.Override }
	beta := s.Beta()
	if n == 0 || beta == 0 { return 0 }
	return -s.ClassicalRadius * s.Intensity /
		(float64(n) * beta * beta * s.Gamma)
}

// ResistiveWallAmplitude returns the amplitude A of the short-range resistive
// wall wake, W(z) = A/sqrt(|z|), for a round pipe of the given radius (m),
// conductivity (S/m) and length (m):
//
//   A = -(c / (pi b^3)) sqrt(Z0 / (pi sigma)) L
//
// It returns 0 if any argument is non-positive.
func ResistiveWallAmplitude(radius, conductivity, length float64) float64 {
	if radius <= 0 || conductivity <= 0 || length <= 0 { return 0 }
	return -SpeedOfLight / (math.Pi * radius * radius * radius) *
		math.Sqrt(ImpedanceOfFreeSpace/(math.Pi*conductivity)) * length
}
