package particles

import (
	"fmt"
)

// GaussianConfig describes a bunch whose coordinates are independent,
// zero-mean normal distributions.
type GaussianConfig struct {
	N int
	// Sigma* are the RMS widths of each coordinate.
	SigmaX, SigmaPX, SigmaY, SigmaPY, SigmaZ, SigmaPZ float64
	// OffsetX and OffsetY displace the whole bunch transversely, which is how
	// dipole wakes are excited.
	OffsetX, OffsetY float64

	Gamma, Intensity, Mass, ParticleCharge float64
	Seed uint64
}

// Gaussian generates a bunch from a GaussianConfig. Every macroparticle
// carries the same charge, 1/N, so that the total charge of the bunch is 1.
func Gaussian(c *GaussianConfig) (*Bunch, error) {
	if c.N < 0 {
		return nil, fmt.Errorf("Cannot generate a bunch with %d particles.", c.N)
	}
	sigmas := []float64{
		c.SigmaX, c.SigmaPX, c.SigmaY, c.SigmaPY, c.SigmaZ, c.SigmaPZ,
	}
	for _, s := range sigmas {
		if s < 0 {
			return nil, fmt.Errorf("Bunch widths must be non-negative, but "+
				"one was set to %g.", s)
		}
	}

	b := NewBunch(c.N)
	b.Gamma, b.Intensity = c.Gamma, c.Intensity
	b.Mass, b.ParticleCharge = c.Mass, c.ParticleCharge

	gen := NewRNG(c.Seed)
	gen.NormalSequence(c.OffsetX, c.SigmaX, b.X)
	gen.NormalSequence(0, c.SigmaPX, b.PX)
	gen.NormalSequence(c.OffsetY, c.SigmaY, b.Y)
	gen.NormalSequence(0, c.SigmaPY, b.PY)
	gen.NormalSequence(0, c.SigmaZ, b.Z)
	gen.NormalSequence(0, c.SigmaPZ, b.PZ)

	for i := range b.Charge { b.Charge[i] = 1 / float64(c.N) }

	return b, nil
}
