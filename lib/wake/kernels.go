package wake

/* This file contains the wake functions. In all of them z is the separation
z_target - z_source, so a source ahead of the target gives z < 0. Every wake
is zero for z > 0. */

import (
	"math"
)

// WakeResistiveWall returns the short-range resistive wall wake,
// amplitude/sqrt(|z|), for z < 0 and 0 for z >= 0. |z| is floored at
// MinSeparation so that nearly coincident particles give a large but finite
// value.
func (e *Engine) WakeResistiveWall(z float64) float64 {
	if z >= 0 || e.rewall == 0 { return 0 }
	return e.rewall / math.Sqrt(math.Max(-z, e.minSep))
}

// WakeResonatorR returns the transverse resonator wake, a damped sine which
// vanishes at and ahead of the source.
func (e *Engine) WakeResonatorR(z float64) float64 {
	if z >= 0 { return 0 }
	t := z / e.c
	return e.ampR * math.Exp(e.tr.Alpha*t) * math.Sin(e.tr.OmegaBar*t)
}

// WakeResonatorZ returns the longitudinal resonator wake. At z = 0 it returns
// half of the z -> 0- limit, Rs*Omega/(2Q): by the fundamental theorem of beam
// loading a particle sees half of the wake it induces.
func (e *Engine) WakeResonatorZ(z float64) float64 {
	switch {
	case z > 0:
		return 0
	case z == 0:
		return e.ampZ / 2
	}

	t := z / e.c
	sin, cos := math.Sincos(e.lz.OmegaBar * t)
	return e.ampZ * math.Exp(e.lz.Alpha*t) *
		(cos - (e.lz.Alpha/e.lz.OmegaBar)*sin)
}
