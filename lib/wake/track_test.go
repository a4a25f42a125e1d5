package wake

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/wakefield/lib/particles"
	"github.com/phil-mansfield/wakefield/lib/physics"
)

func randomBunch(t *testing.T, n int, seed uint64) *particles.Bunch {
	b, err := particles.Gaussian(&particles.GaussianConfig{
		N: n, SigmaX: 1e-3, SigmaY: 2e-3, SigmaZ: 0.05,
		SigmaPX: 1e-4, SigmaPY: 1e-4, SigmaPZ: 1e-3,
		OffsetX: 5e-4, OffsetY: -3e-4, Seed: seed,
	})
	require.NoError(t, err)
	return b
}

func copyBunch(b *particles.Bunch) *particles.Bunch {
	out := particles.NewBunch(b.Len())
	for i, f := range b.Fields() {
		copy(out.Fields()[i].Data(), f.Data())
	}
	out.Gamma, out.Intensity = b.Gamma, b.Intensity
	out.Mass, out.ParticleCharge = b.Mass, b.ParticleCharge
	return out
}

// bruteForceKicks sums over every ordered pair and relies on the kernels'
// own causal cutoff instead of the z ordering.
func bruteForceKicks(e *Engine, b *particles.Bunch) *Kicks {
	k := NewKicks(b.Len())
	for i := range b.Z {
		for j := range b.Z {
			if i == j { continue }
			dz := b.Z[i] - b.Z[j]
			if dz == 0 && !e.coincident { continue }
			wr := e.WakeResonatorR(dz)
			k.X[i] += b.Charge[j] * b.X[j] * wr
			k.Y[i] += b.Charge[j] * b.Y[j] * wr
			k.Z[i] += b.Charge[j] *
				(e.WakeResistiveWall(dz) + e.WakeResonatorZ(dz))
		}
	}
	return k
}

func assertKicksClose(t *testing.T, exp, act *Kicks, rel float64) {
	require.Equal(t, exp.Len(), act.Len())
	scale := func(x []float64) float64 {
		max := 0.0
		for _, v := range x { max = math.Max(max, math.Abs(v)) }
		return max
	}
	sx, sy, sz := scale(exp.X), scale(exp.Y), scale(exp.Z)
	for i := range exp.X {
		assert.InDelta(t, exp.X[i], act.X[i], rel*sx, "X[%d]", i)
		assert.InDelta(t, exp.Y[i], act.Y[i], rel*sy, "Y[%d]", i)
		assert.InDelta(t, exp.Z[i], act.Z[i], rel*sz, "Z[%d]", i)
	}
}

func TestTwoParticleClosedForm(t *testing.T) {
	e := newTestEngine(t, WithResistiveWall(-2.5))

	b := particles.NewBunch(2)
	// Particle 0 trails particle 1 by 10 cm.
	b.Z[0], b.X[0], b.Y[0], b.Charge[0] = 0.0, 5e-4, -1e-4, 3
	b.Z[1], b.X[1], b.Y[1], b.Charge[1] = 0.1, 1e-3, 2e-3, 2

	k, err := e.Kicks(b)
	require.NoError(t, err)

	dz := b.Z[0] - b.Z[1]
	assert.Equal(t, 2*1e-3*e.WakeResonatorR(dz), k.X[0])
	assert.Equal(t, 2*2e-3*e.WakeResonatorR(dz), k.Y[0])
	assert.Equal(t, 2*(e.WakeResistiveWall(dz)+e.WakeResonatorZ(dz)), k.Z[0])
	assert.NotEqual(t, 0.0, k.X[0])

	// The leading particle has nothing ahead of it.
	assert.Equal(t, 0.0, k.X[1])
	assert.Equal(t, 0.0, k.Y[1])
	assert.Equal(t, 0.0, k.Z[1])
}

func TestSingleParticleReceivesNoKick(t *testing.T) {
	e := newTestEngine(t, WithResistiveWall(1))

	b := particles.NewBunch(1)
	b.Z[0], b.X[0], b.Y[0] = 0.3, 1e-3, 1e-3

	k, err := e.Kicks(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, k.X)
	assert.Equal(t, []float64{0}, k.Y)
	assert.Equal(t, []float64{0}, k.Z)

	require.NoError(t, e.Track(b))
	assert.Equal(t, []float64{0}, b.PX)
	assert.Equal(t, []float64{0}, b.PY)
	assert.Equal(t, []float64{0}, b.PZ)
}

func TestBeamLoadingSelfTerm(t *testing.T) {
	e := newTestEngine(t, WithBeamLoading(true))

	b := particles.NewBunch(1)
	b.Charge[0] = 4

	k, err := e.Kicks(b)
	require.NoError(t, err)
	assert.Equal(t, 4*e.WakeResonatorZ(0), k.Z[0])
	assert.Equal(t, 0.0, k.X[0])
}

func TestEmptyBunch(t *testing.T) {
	e := newTestEngine(t)
	b := particles.NewBunch(0)

	k, err := e.Kicks(b)
	require.NoError(t, err)
	assert.Equal(t, 0, k.Len())
	assert.NoError(t, e.Track(b))
	assert.NoError(t, e.TrackSliced(b, 10))
}

func TestLeadingParticleReceivesNoKick(t *testing.T) {
	e := newTestEngine(t, WithResistiveWall(1))
	b := randomBunch(t, 50, 7)

	k, err := e.Kicks(b)
	require.NoError(t, err)

	head := 0
	for i := range b.Z {
		if b.Z[i] > b.Z[head] { head = i }
	}
	assert.Equal(t, 0.0, k.X[head])
	assert.Equal(t, 0.0, k.Y[head])
	assert.Equal(t, 0.0, k.Z[head])

	k, err = e.KicksSliced(b, 10)
	require.NoError(t, err)
	assert.Equal(t, 0.0, k.X[head])
	assert.Equal(t, 0.0, k.Y[head])
	assert.Equal(t, 0.0, k.Z[head])
}

func TestCoincidentParticles(t *testing.T) {
	b := particles.NewBunch(2)
	b.X[0], b.X[1] = 1e-3, 1e-3
	b.Charge[0], b.Charge[1] = 2, 5

	// Neither particle is strictly ahead of the other.
	e := newTestEngine(t, WithResistiveWall(1))
	k, err := e.Kicks(b)
	require.NoError(t, err)
	assert.Equal(t, NewKicks(2), k)

	// Zero separation: no transverse or resistive wall wake, and half of the
	// longitudinal resonator wake.
	e = newTestEngine(t, WithResistiveWall(1), WithCoincidentWake(true))
	k, err = e.Kicks(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, k.X)
	assert.Equal(t, 5*e.WakeResonatorZ(0), k.Z[0])
	assert.Equal(t, 2*e.WakeResonatorZ(0), k.Z[1])
}

func TestTiedParticlesOnlySeeParticlesAhead(t *testing.T) {
	e := newTestEngine(t)
	b := particles.NewBunch(3)
	copy(b.Z, []float64{0, 0, 1})
	copy(b.Charge, []float64{1, 1, 3})

	k, err := e.Kicks(b)
	require.NoError(t, err)
	exp := 3 * e.WakeResonatorZ(-1)
	assert.Equal(t, []float64{exp, exp, 0}, k.Z)
}

func TestKicksMatchBruteForce(t *testing.T) {
	for _, coincident := range []bool{false, true} {
		e := newTestEngine(t, WithResistiveWall(-1e3),
			WithCoincidentWake(coincident))
		b := randomBunch(t, 300, 11)
		// Force some ties.
		b.Z[10], b.Z[20], b.Z[30] = b.Z[5], b.Z[5], b.Z[5]

		k, err := e.Kicks(b)
		require.NoError(t, err)
		assertKicksClose(t, bruteForceKicks(e, b), k, 1e-10)
	}
}

func TestTransverseSymmetry(t *testing.T) {
	e := newTestEngine(t)
	b := randomBunch(t, 200, 3)

	k1, err := e.Kicks(b)
	require.NoError(t, err)

	b.X, b.Y = b.Y, b.X
	k2, err := e.Kicks(b)
	require.NoError(t, err)

	assert.Equal(t, k1.X, k2.Y)
	assert.Equal(t, k1.Y, k2.X)
	assert.Equal(t, k1.Z, k2.Z)
}

func TestParallelMatchesSerial(t *testing.T) {
	b := randomBunch(t, 500, 5)

	serial := newTestEngine(t, WithWorkers(1), WithResistiveWall(1))
	parallel := newTestEngine(t, WithWorkers(7), WithResistiveWall(1))

	k1, err := serial.Kicks(b)
	require.NoError(t, err)
	k2, err := parallel.Kicks(b)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
}

func TestTrackAppliesScaledKicks(t *testing.T) {
	scaling := physics.Scaling{
		ClassicalRadius: physics.ProtonRadius, Intensity: 1e11, Gamma: 27.7,
	}
	e := newTestEngine(t, WithScaling(scaling), WithResistiveWall(-10))

	b := randomBunch(t, 100, 9)
	before := copyBunch(b)

	k, err := e.Kicks(b)
	require.NoError(t, err)
	require.NoError(t, e.Track(b))

	factor := scaling.Factor(b.Len())
	require.NotEqual(t, 0.0, factor)
	for i := range b.Z {
		assert.Equal(t, before.PX[i]+factor*k.X[i], b.PX[i])
		assert.Equal(t, before.PY[i]+factor*k.Y[i], b.PY[i])
		assert.Equal(t, before.PZ[i]+factor*k.Z[i], b.PZ[i])
	}

	// Only momenta change.
	assert.Equal(t, before.Z, b.Z)
	assert.Equal(t, before.X, b.X)
	assert.Equal(t, before.Y, b.Y)
	assert.Equal(t, before.Charge, b.Charge)
}

func TestTrackIsOrderIndependent(t *testing.T) {
	e := newTestEngine(t, WithWorkers(1))
	b := randomBunch(t, 100, 13)
	sorted := copyBunch(b)
	require.NoError(t, sorted.SortByZ())

	require.NoError(t, e.Track(b))
	require.NoError(t, e.Track(sorted))
	require.NoError(t, b.SortByZ())

	for i := range b.Z {
		assert.InDelta(t, sorted.PX[i], b.PX[i], 1e-9*math.Abs(sorted.PX[i]))
		assert.InDelta(t, sorted.PZ[i], b.PZ[i], 1e-9*math.Abs(sorted.PZ[i]))
	}
}

func TestTrackRejectsMalformedBunch(t *testing.T) {
	e := newTestEngine(t)
	b := particles.NewBunch(3)
	b.X = b.X[:2]

	err := e.Track(b)
	assert.True(t, errors.Is(err, particles.ErrMalformedBunch),
		"Expected ErrMalformedBunch, got %v.", err)
	_, err = e.KicksSliced(b, 5)
	assert.True(t, errors.Is(err, particles.ErrMalformedBunch))
}

func TestApplyRejectsMismatchedKicks(t *testing.T) {
	e := newTestEngine(t)
	b := randomBunch(t, 10, 1)
	before := copyBunch(b)

	k := NewKicks(9)
	for i := range k.Z { k.X[i], k.Y[i], k.Z[i] = 1, 1, 1 }

	err := e.Apply(b, k, 2)
	assert.True(t, errors.Is(err, ErrKicksMismatch),
		"Expected ErrKicksMismatch, got %v.", err)
	assert.Equal(t, before.PX, b.PX)
	assert.Equal(t, before.PZ, b.PZ)

	k = NewKicks(10)
	k.Y = k.Y[:3]
	assert.True(t, errors.Is(e.Apply(b, k, 2), ErrKicksMismatch))

	require.NoError(t, e.Apply(b, NewKicks(10), 2))
}
