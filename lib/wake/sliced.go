package wake

/* This file contains the line-density version of the kick sums. Particles are
binned into uniform longitudinal slices. Each particle feels the slices ahead
of its own as point moments at their centers, interpolated across its slice
with a cubic spline, and the particles ahead of it within its own slice
exactly. The cost is O(M^2 + N^2/M) for M slices instead of O(N^2). */

import (
	"math"

	"github.com/phil-mansfield/gotetra/math/interpolate"
	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/wakefield/lib/particles"
)

// SliceSet holds the moments of a bunch binned along z.
type SliceSet struct {
	// Lo is the lower edge of the first slice and Width is the width of
	// every slice.
	Lo, Width float64
	// Centers are the z values of the slice centers, in increasing order.
	Centers []float64
	// Charge, DipoleX and DipoleY are the summed q, q*x and q*y of the
	// particles in each slice.
	Charge, DipoleX, DipoleY []float64
}

// MinSlices is the smallest number of slices the spline interpolation can
// work with.
const MinSlices = 3

// sliceKnots is the number of spline knots spanning each slice.
const sliceKnots = 4

// NewSliceSet bins a bunch into n uniform slices spanning [min(z), max(z)].
// It returns nil if n < MinSlices or if every particle has the same z.
func NewSliceSet(b *particles.Bunch, n int) *SliceSet {
	if n < MinSlices || b.Len() == 0 { return nil }

	lo, hi := floats.Min(b.Z), floats.Max(b.Z)
	if !(hi > lo) { return nil }

	s := &SliceSet{
		Lo: lo, Width: (hi - lo) / float64(n),
		Centers: make([]float64, n), Charge: make([]float64, n),
		DipoleX: make([]float64, n), DipoleY: make([]float64, n),
	}
	for i := range s.Centers {
		s.Centers[i] = lo + (float64(i)+0.5)*s.Width
	}

	for i, z := range b.Z {
		idx := s.Index(z)
		q := b.Charge[i]
		s.Charge[idx] += q
		s.DipoleX[idx] += q * b.X[i]
		s.DipoleY[idx] += q * b.Y[i]
	}

	return s
}

// Index returns the slice containing z. Values outside the binned range go to
// the nearest slice.
func (s *SliceSet) Index(z float64) int {
	idx := int((z - s.Lo) / s.Width)
	if idx < 0 { return 0 }
	if idx >= len(s.Centers) { return len(s.Centers) - 1 }
	return idx
}

// farField is the wake of every slice ahead of one slice, as a function of z
// across that slice. The leading slice has nil splines.
type farField struct {
	lo, hi float64
	x, y, z *interpolate.Spline
}

func (f *farField) eval(z float64) (kx, ky, kz float64) {
	if f.z == nil { return 0, 0, 0 }
	z = math.Min(math.Max(z, f.lo), f.hi)
	return f.x.Eval(z), f.y.Eval(z), f.z.Eval(z)
}

// farFields tabulates the wake of the slices ahead of each slice at
// sliceKnots points spanning it. Every separation is at most -Width/2, so
// the zero-separation terms of the kernels never enter.
func (s *SliceSet) farFields(e *Engine) []farField {
	n := len(s.Centers)
	out := make([]farField, n)

	e.forEach(n - 1, func(si int) {
		xs := make([]float64, sliceKnots)
		kx := make([]float64, sliceKnots)
		ky := make([]float64, sliceKnots)
		kz := make([]float64, sliceKnots)

		edge := s.Lo + float64(si)*s.Width
		for m := range xs {
			xs[m] = edge + float64(m)*s.Width/float64(sliceKnots - 1)
			for j := si + 1; j < n; j++ {
				dz := xs[m] - s.Centers[j]
				wr := e.WakeResonatorR(dz)
				kx[m] += s.DipoleX[j] * wr
				ky[m] += s.DipoleY[j] * wr
				kz[m] += s.Charge[j] *
					(e.WakeResistiveWall(dz) + e.WakeResonatorZ(dz))
			}
		}

		out[si] = farField{
			lo: xs[0], hi: xs[sliceKnots-1],
			x: interpolate.NewSpline(xs, kx),
			y: interpolate.NewSpline(xs, ky),
			z: interpolate.NewSpline(xs, kz),
		}
	})

	return out
}

// KicksSliced is the line-density approximation of Kicks using n slices. It
// falls back to Kicks when n < MinSlices or when the bunch has no longitudinal
// extent. Particles in the same slice act on each other exactly as in Kicks,
// so a particle with nothing ahead of it receives no kick.
func (e *Engine) KicksSliced(b *particles.Bunch, n int) (*Kicks, error) {
	if err := b.Validate(); err != nil { return nil, err }

	s := NewSliceSet(b, n)
	if s == nil { return e.Kicks(b) }

	far := s.farFields(e)
	order := particles.NewZOrder(b.Z, nil)

	// end[si] is one past the last sorted position in slice si.
	end := make([]int, n)
	pos := 0
	for si := range end {
		for pos < b.Len() && s.Index(b.Z[order.Index[pos]]) <= si { pos++ }
		end[si] = pos
	}

	k := NewKicks(b.Len())
	e.forEach(b.Len(), func(pos int) {
		i := order.Index[pos]
		si := s.Index(b.Z[i])

		fx, fy, fz := far[si].eval(b.Z[i])
		kx, ky, kz := e.sumSources(b, order, pos, end[si])
		k.X[i], k.Y[i], k.Z[i] = fx + kx, fy + ky, fz + kz

		if e.beamLoading {
			k.Z[i] += b.Charge[i] * e.WakeResonatorZ(0)
		}
	})

	return k, nil
}

// TrackSliced is Track using n slices, regardless of the Engine's WithSlices
// setting.
func (e *Engine) TrackSliced(b *particles.Bunch, n int) error {
	k, err := e.KicksSliced(b, n)
	if err != nil { return err }
	return e.Apply(b, k, e.scaling.Factor(b.Len()))
}
