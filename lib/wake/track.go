package wake

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/wakefield/lib/particles"
)

// Kicks holds the unscaled wake sums for every particle in a bunch. Element i
// of each array belongs to particle i of the bunch it was computed from.
type Kicks struct {
	X, Y, Z []float64
}

// NewKicks returns zeroed Kicks for n particles.
func NewKicks(n int) *Kicks {
	return &Kicks{
		X: make([]float64, n), Y: make([]float64, n), Z: make([]float64, n),
	}
}

// Len returns the number of particles the Kicks describe.
func (k *Kicks) Len() int { return len(k.Z) }

// Track computes the wake kicks on every particle from the current state of
// the bunch and then adds them, multiplied by the Engine's Scaling, to PX, PY
// and PZ. Positions and charges are never modified. Track returns an error
// wrapping particles.ErrMalformedBunch for inconsistent bunches; empty and
// single-particle bunches are left untouched.
func (e *Engine) Track(b *particles.Bunch) error {
	start := time.Now()

	var k *Kicks
	var err error
	if e.slices > 0 {
		k, err = e.KicksSliced(b, e.slices)
	} else {
		k, err = e.Kicks(b)
	}
	if err != nil { return err }

	factor := e.scaling.Factor(b.Len())
	if err := e.Apply(b, k, factor); err != nil { return err }

	e.log.Debug().
		Int("particles", b.Len()).
		Int("slices", e.slices).
		Float64("factor", factor).
		Dur("elapsed", time.Since(start)).
		Msg("Applied wake kicks.")

	return nil
}

// Apply adds factor times k to the momenta of b. k must have been computed
// from b; if its length differs, b is left untouched and an error wrapping
// ErrKicksMismatch is returned.
func (e *Engine) Apply(b *particles.Bunch, k *Kicks, factor float64) error {
	if k.Len() != b.Len() || len(k.X) != k.Len() || len(k.Y) != k.Len() {
		return fmt.Errorf("%w: kicks have lengths (%d, %d, %d), but the "+
			"bunch has %d particles.", ErrKicksMismatch,
			len(k.X), len(k.Y), len(k.Z), b.Len())
	}
	for i := 0; i < k.Len(); i++ {
		b.PX[i] += factor * k.X[i]
		b.PY[i] += factor * k.Y[i]
		b.PZ[i] += factor * k.Z[i]
	}
	return nil
}

// Kicks computes the wake sums on every particle in the bunch by summing
// over every source particle ahead of it:
//
//   Z[i] = sum_j q_j (WakeResistiveWall + WakeResonatorZ)(z_i - z_j)
//   X[i] = sum_j q_j x_j WakeResonatorR(z_i - z_j)
//   Y[i] = sum_j q_j y_j WakeResonatorR(z_i - z_j)
//
// Sources are the particles with z_j > z_i, plus those with z_j == z_i if the
// Engine was built WithCoincidentWake. A particle never acts on itself unless
// the Engine was built WithBeamLoading. The bunch is not modified.
func (e *Engine) Kicks(b *particles.Bunch) (*Kicks, error) {
	if err := b.Validate(); err != nil { return nil, err }

	n := b.Len()
	k := NewKicks(n)
	if n == 0 { return k, nil }

	// One sort serves all three sums.
	order := particles.NewZOrder(b.Z, nil)

	e.forEach(n, func(pos int) {
		i := order.Index[pos]
		k.X[i], k.Y[i], k.Z[i] = e.sumSources(b, order, pos, n)
		if e.beamLoading {
			k.Z[i] += b.Charge[i] * e.WakeResonatorZ(0)
		}
	})

	return k, nil
}

// sumSources returns the wake sums on the particle at sorted position pos
// from the sources at sorted positions below end.
func (e *Engine) sumSources(
	b *particles.Bunch, order *particles.ZOrder, pos, end int,
) (kx, ky, kz float64) {
	i := order.Index[pos]
	zi := b.Z[i]

	start := order.TieEnd[pos]
	if e.coincident { start = order.TieStart[pos] }

	for m := start; m < end; m++ {
		j := order.Index[m]
		if j == i { continue }

		dz, q := zi - b.Z[j], b.Charge[j]
		wr := e.WakeResonatorR(dz)
		kx += q * b.X[j] * wr
		ky += q * b.Y[j] * wr
		kz += q * (e.WakeResistiveWall(dz) + e.WakeResonatorZ(dz))
	}
	return kx, ky, kz
}

// forEach calls f(pos) for every pos in [0, n), spread across the Engine's
// workers. Each pos is handled by exactly one goroutine. Positions are dealt
// out round-robin since particles near the tail of the bunch have more
// sources than those near the head.
func (e *Engine) forEach(n int, f func(pos int)) {
	workers := e.workers
	if workers > n { workers = n }
	if workers <= 1 {
		for pos := 0; pos < n; pos++ { f(pos) }
		return
	}

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for pos := w; pos < n; pos += workers { f(pos) }
			return nil
		})
	}
	_ = g.Wait()
}
