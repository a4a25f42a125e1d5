package particles

import (
	"math"
)

var (
	xorshiftMaxUint = float64(math.MaxUint32)
)

// RNG is an xorshift random number generator. It is the same as gotetra's
// xorshiftGenerator. It is not thread safe.
type RNG struct {
	w, x, y, z uint32

	// Box-Muller produces pairs of normal deviates. spare holds the second
	// one until it is asked for.
	spare    float64
	hasSpare bool
}

// NewRNG initializes RNG with a given seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{ w: uint32(seed), x: 123456789, y: 362436069, z: 521288629 }
}

// Uniform generates a single random number in the range [0, 1)
func (gen *RNG) Uniform() float64 {
	t := gen.x ^ (gen.x << 11)
	gen.x, gen.y, gen.z = gen.y, gen.z, gen.w
	gen.w = gen.w ^ (gen.w >> 19) ^ (t ^ (t >> 8))
	res := float64(math.MaxUint32 - gen.w) / xorshiftMaxUint
	if res == 1.0 { return gen.Uniform() }
	return res
}

// UniformSequence generates one random number in the range [0, 1) for each
// element of the array target and writes them to that array.
func (gen *RNG) UniformSequence(target []float64) {
	for i := range target { target[i] = gen.Uniform() }
}

// Normal generates a single normally distributed number with mean 0 and
// standard deviation 1.
func (gen *RNG) Normal() float64 {
	if gen.hasSpare {
		gen.hasSpare = false
		return gen.spare
	}

	u1 := 1 - gen.Uniform() // (0, 1], so the log is finite.
	u2 := gen.Uniform()
	r := math.Sqrt(-2 * math.Log(u1))
	gen.spare, gen.hasSpare = r*math.Sin(2*math.Pi*u2), true
	return r * math.Cos(2*math.Pi*u2)
}

// NormalSequence fills target with normal deviates of the given mean and
// standard deviation.
func (gen *RNG) NormalSequence(mean, sigma float64, target []float64) {
	for i := range target { target[i] = mean + sigma*gen.Normal() }
}
