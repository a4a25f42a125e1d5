package particles

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat64Transfer(t *testing.T) {
	out := []float64{42, 0, 23, 0, 16, 0, 15, 0, 8, 0, 4, 0}
	data := []float64{4, 8, 15, 16, 23, 42}
	from := []int{ 5, 4, 3, 2, 1, 0 }
	to := []int{ 0, 2, 4, 6, 8, 10 }
	name := "test_value"

	x := NewFloat64(name, data)
	if x.Len() != len(data) {
		t.Errorf("Expected x.Len() = %d, got %d.", len(data), x.Len())
		return
	} else if x.Name() != name {
		t.Errorf("Expected x.Name() = %s, got %s.", name, x.Name())
	}

	dest := make([]float64, len(out))
	if err := x.Transfer(dest, from, to); err != nil {
		t.Fatalf("Expected no error, got %s.", err.Error())
	}
	assert.Equal(t, out, dest)

	assert.Error(t, x.Transfer(dest, from, to[:2]))
	assert.Error(t, x.Transfer(dest, []int{0}, []int{12}))
}

func TestValidate(t *testing.T) {
	b := NewBunch(10)
	require.NoError(t, b.Validate())
	assert.Equal(t, 10, b.Len())
	for _, q := range b.Charge {
		assert.Equal(t, 1.0, q)
	}

	b.PY = b.PY[:9]
	err := b.Validate()
	assert.True(t, errors.Is(err, ErrMalformedBunch),
		"Expected ErrMalformedBunch, got %v.", err)
}

func TestKinematics(t *testing.T) {
	b := NewBunch(0)
	assert.Equal(t, 0.0, b.Beta())
	assert.Equal(t, 0.0, b.BetaGamma())

	b.Gamma = 2
	assert.InEpsilon(t, math.Sqrt(0.75), b.Beta(), 1e-15)
	assert.InEpsilon(t, math.Sqrt(3), b.BetaGamma(), 1e-15)
	assert.InEpsilon(t, b.Beta()*b.Gamma, b.BetaGamma(), 1e-15)
}

func TestZOrder(t *testing.T) {
	z := []float64{0.3, -0.1, 0.3, 0.0, -0.1, 0.3}
	order := NewZOrder(z, nil)

	assert.Equal(t, []int{1, 4, 3, 0, 2, 5}, order.Index)
	assert.Equal(t, []int{0, 0, 2, 3, 3, 3}, order.TieStart)
	assert.Equal(t, []int{2, 2, 3, 6, 6, 6}, order.TieEnd)

	// Reusing buffers gives the same answer.
	order = NewZOrder(z[:3], order)
	assert.Equal(t, []int{1, 0, 2}, order.Index)
	assert.Equal(t, []int{0, 1, 1}, order.TieStart)
	assert.Equal(t, []int{1, 3, 3}, order.TieEnd)
}

func TestSortByZ(t *testing.T) {
	b := NewBunch(4)
	copy(b.Z, []float64{3, 1, 4, 2})
	copy(b.X, []float64{30, 10, 40, 20})
	copy(b.PZ, []float64{-3, -1, -4, -2})
	copy(b.Charge, []float64{0.3, 0.1, 0.4, 0.2})

	require.NoError(t, b.SortByZ())
	assert.Equal(t, []float64{1, 2, 3, 4}, b.Z)
	assert.Equal(t, []float64{10, 20, 30, 40}, b.X)
	assert.Equal(t, []float64{-1, -2, -3, -4}, b.PZ)
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4}, b.Charge)
}
