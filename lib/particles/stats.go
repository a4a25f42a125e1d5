package particles

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Statistics summarizes the phase space of a bunch.
type Statistics struct {
	N int
	TotalCharge float64

	MeanX, MeanPX, MeanY, MeanPY, MeanZ, MeanPZ float64
	SigmaX, SigmaPX, SigmaY, SigmaPY, SigmaZ, SigmaPZ float64

	// Emittance* are RMS emittances, sqrt(det(cov(q, p))). The normalized
	// versions are multiplied by beta*gamma.
	EmittanceX, EmittanceY, EmittanceZ    float64
	NormEmittanceX, NormEmittanceY float64
}

// ComputeStatistics returns the Statistics of a bunch. Empty bunches give
// zero-valued Statistics.
func (b *Bunch) ComputeStatistics() (*Statistics, error) {
	if err := b.Validate(); err != nil { return nil, err }

	s := &Statistics{ N: b.Len() }
	if s.N == 0 { return s, nil }

	s.TotalCharge = floats.Sum(b.Charge)

	s.MeanX, s.SigmaX = meanStd(b.X)
	s.MeanPX, s.SigmaPX = meanStd(b.PX)
	s.MeanY, s.SigmaY = meanStd(b.Y)
	s.MeanPY, s.SigmaPY = meanStd(b.PY)
	s.MeanZ, s.SigmaZ = meanStd(b.Z)
	s.MeanPZ, s.SigmaPZ = meanStd(b.PZ)

	s.EmittanceX = Emittance(b.X, b.PX)
	s.EmittanceY = Emittance(b.Y, b.PY)
	s.EmittanceZ = Emittance(b.Z, b.PZ)

	bg := b.BetaGamma()
	s.NormEmittanceX, s.NormEmittanceY = s.EmittanceX*bg, s.EmittanceY*bg

	return s, nil
}

// meanStd returns the mean and the population standard deviation of x.
func meanStd(x []float64) (mean, std float64) {
	if len(x) < 2 { return stat.Mean(x, nil), 0 }
	mean, variance := stat.PopMeanVariance(x, nil)
	return mean, math.Sqrt(variance)
}

// Emittance returns the RMS emittance of the phase space (q, p), the square
// root of the determinant of its covariance matrix.
func Emittance(q, p []float64) float64 {
	n := len(q)
	if n < 2 || len(p) != n { return 0 }

	data := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		data[2*i], data[2*i+1] = q[i], p[i]
	}

	cov := mat.NewSymDense(2, nil)
	stat.CovarianceMatrix(cov, mat.NewDense(n, 2, data), nil)

	// Rounding can push the determinant of a degenerate phase space
	// slightly below zero.
	det := mat.Det(cov)
	if det <= 0 { return 0 }
	return math.Sqrt(det)
}
