/*package wake computes the wakefield kicks which a resistive beam pipe and
two resonator impedances (one transverse, one longitudinal) induce on a bunch
of macroparticles, and applies those kicks to the bunch's momenta.

An Engine is constructed once from the resonator parameters and can then be
used to track any number of bunches. It holds no per-call state, so a single
Engine may track different bunches from different goroutines.
*/
package wake

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/phil-mansfield/wakefield/lib/physics"
)

// DefaultMinSeparation is the default floor, in meters, on |z| when
// evaluating the resistive wall wake.
const DefaultMinSeparation = 1e-12

var (
	// ErrInvalidParameter is wrapped by every error returned when an Engine
	// is given non-physical parameters.
	ErrInvalidParameter = errors.New("invalid wake parameter")
	// ErrKicksMismatch is returned when Kicks are applied to a bunch of a
	// different length than the one they were computed from.
	ErrKicksMismatch = errors.New("kicks do not match bunch")
)

// Resonator holds the parameters of a single resonator impedance.
type Resonator struct {
	// Rs is the shunt impedance, Omega the angular resonant frequency, and Q
	// the quality factor.
	Rs, Omega, Q float64
	// Alpha = Omega/(2Q) is the decay rate and OmegaBar =
	// sqrt(Omega^2 - Alpha^2) is the damped angular frequency.
	Alpha, OmegaBar float64
}

// newResonator validates a resonator given in terms of its ordinary
// frequency and computes its derived parameters.
func newResonator(plane string, rs, f, q float64) (Resonator, error) {
	switch {
	case math.IsNaN(rs) || math.IsInf(rs, 0) || rs <= 0:
		return Resonator{ }, fmt.Errorf("%w: the %s shunt impedance must be "+
			"positive and finite, but is %g.", ErrInvalidParameter, plane, rs)
	case math.IsNaN(f) || math.IsInf(f, 0) || f <= 0:
		return Resonator{ }, fmt.Errorf("%w: the %s resonant frequency must "+
			"be positive and finite, but is %g.", ErrInvalidParameter, plane, f)
	case math.IsNaN(q) || math.IsInf(q, 0) || q <= 0.5:
		return Resonator{ }, fmt.Errorf("%w: the %s quality factor must be "+
			"finite and larger than 0.5 for the resonator to be underdamped, "+
			"but is %g.", ErrInvalidParameter, plane, q)
	}

	r := Resonator{ Rs: rs, Omega: 2 * math.Pi * f, Q: q }
	r.Alpha = r.Omega / (2 * q)
	r.OmegaBar = math.Sqrt(r.Omega*r.Omega - r.Alpha*r.Alpha)
	return r, nil
}

// Engine evaluates wake functions and applies wake kicks to bunches.
type Engine struct {
	tr, lz Resonator

	// Kernel prefactors, computed once so the inner loops don't have to.
	ampR, ampZ float64

	rewall, minSep float64
	c              float64
	scaling        physics.Scaling

	beamLoading bool
	coincident  bool
	slices      int
	workers     int

	log zerolog.Logger
}

// Option configures an Engine.
type Option func(e *Engine) error

// New creates an Engine from the shunt impedance (Ohm), resonant frequency
// (Hz) and quality factor of a transverse and a longitudinal resonator. It
// returns an error wrapping ErrInvalidParameter if any value is non-positive
// or if either quality factor is at most 0.5, since the damped frequency would
// then not be real.
func New(
	rsR, fr, qR, rsZ, fz, qZ float64, opts ...Option,
) (*Engine, error) {
	tr, err := newResonator("transverse", rsR, fr, qR)
	if err != nil { return nil, err }
	lz, err := newResonator("longitudinal", rsZ, fz, qZ)
	if err != nil { return nil, err }

	e := &Engine{
		tr: tr, lz: lz,
		minSep: DefaultMinSeparation,
		c: physics.SpeedOfLight,
		scaling: physics.Unit,
		workers: runtime.NumCPU(),
		log: zerolog.Nop(),
	}
	e.ampR = tr.Rs * tr.Omega * tr.Omega / (tr.Q * tr.OmegaBar)
	e.ampZ = lz.Rs * lz.Omega / lz.Q

	for _, opt := range opts {
		if err := opt(e); err != nil { return nil, err }
	}

	return e, nil
}

// WithResistiveWall sets the amplitude of the resistive wall wake,
// W(z) = amplitude/sqrt(|z|). The default amplitude is zero, i.e. no wall.
// See physics.ResistiveWallAmplitude for computing it from pipe properties.
func WithResistiveWall(amplitude float64) Option {
	return func(e *Engine) error {
		if math.IsNaN(amplitude) || math.IsInf(amplitude, 0) {
			return fmt.Errorf("%w: the resistive wall amplitude must be "+
				"finite, but is %g.", ErrInvalidParameter, amplitude)
		}
		e.rewall = amplitude
		return nil
	}
}

// WithMinSeparation sets the floor on |z| used by the resistive wall wake.
// Separations in (-minSep, 0) are evaluated as if they were -minSep.
func WithMinSeparation(minSep float64) Option {
	return func(e *Engine) error {
		if !(minSep > 0) || math.IsInf(minSep, 0) {
			return fmt.Errorf("%w: the minimum separation must be positive "+
				"and finite, but is %g.", ErrInvalidParameter, minSep)
		}
		e.minSep = minSep
		return nil
	}
}

// WithSpeedOfLight sets the value of c used to convert separations into
// times. It defaults to physics.SpeedOfLight.
func WithSpeedOfLight(c float64) Option {
	return func(e *Engine) error {
		if !(c > 0) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: the speed of light must be positive and "+
				"finite, but is %g.", ErrInvalidParameter, c)
		}
		e.c = c
		return nil
	}
}

// WithScaling sets the conversion from wake sums to momentum changes. The
// default is physics.Unit.
func WithScaling(s physics.Scaling) Option {
	return func(e *Engine) error {
		e.scaling = s
		return nil
	}
}

// WithBeamLoading adds the self term, charge * WakeResonatorZ(0), to each
// particle's longitudinal kick. Off by default.
func WithBeamLoading(on bool) Option {
	return func(e *Engine) error {
		e.beamLoading = on
		return nil
	}
}

// WithCoincidentWake makes particles with exactly the same z act on each
// other through the zero-separation value of each wake: half the longitudinal
// resonator amplitude and nothing else. Off by default, in which case only
// particles strictly ahead of a particle kick it.
func WithCoincidentWake(on bool) Option {
	return func(e *Engine) error {
		e.coincident = on
		return nil
	}
}

// WithSlices makes Track bin the bunch into n longitudinal slices instead of
// summing over every pair of particles. n = 0 selects the exact pairwise sum.
func WithSlices(n int) Option {
	return func(e *Engine) error {
		if n < 0 || (n > 0 && n < MinSlices) {
			return fmt.Errorf("%w: the number of slices must be 0 or at "+
				"least %d, but is %d.", ErrInvalidParameter, MinSlices, n)
		}
		e.slices = n
		return nil
	}
}

// WithWorkers sets the number of goroutines used to accumulate kicks. n <= 0
// uses one goroutine per CPU.
func WithWorkers(n int) Option {
	return func(e *Engine) error {
		if n <= 0 { n = runtime.NumCPU() }
		e.workers = n
		return nil
	}
}

// WithLogger sets the logger used for per-call summaries.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) error {
		e.log = log
		return nil
	}
}

// Transverse returns the parameters of the transverse resonator.
func (e *Engine) Transverse() Resonator { return e.tr }

// Longitudinal returns the parameters of the longitudinal resonator.
func (e *Engine) Longitudinal() Resonator { return e.lz }

// MinSeparation returns the floor used by WakeResistiveWall.
func (e *Engine) MinSeparation() float64 { return e.minSep }
