package particles

/* This file contains functions for ordering particles by longitudinal
position. */

import (
	"sort"
)

// ZOrder is a permutation of particle indices sorted by increasing z. Ties
// keep their original relative order.
type ZOrder struct {
	// Index[k] is the index of the particle with the k-th smallest z.
	Index []int
	// TieStart[k] is the smallest sorted position whose z equals the z of
	// sorted position k, and TieEnd[k] is one past the largest.
	TieStart, TieEnd []int
}

// NewZOrder computes the ZOrder of z. Buffers from a previous ZOrder may be
// passed as order to avoid heap allocations; pass nil otherwise.
func NewZOrder(z []float64, order *ZOrder) *ZOrder {
	if order == nil { order = &ZOrder{ } }
	order.Index = resizeInts(order.Index, len(z))
	order.TieStart = resizeInts(order.TieStart, len(z))
	order.TieEnd = resizeInts(order.TieEnd, len(z))

	idx := order.Index
	for i := range idx { idx[i] = i }
	sort.SliceStable(idx, func(a, b int) bool { return z[idx[a]] < z[idx[b]] })

	for k := range idx {
		if k > 0 && z[idx[k]] == z[idx[k-1]] {
			order.TieStart[k] = order.TieStart[k-1]
		} else {
			order.TieStart[k] = k
		}
	}
	for k := len(idx) - 1; k >= 0; k-- {
		if k < len(idx) - 1 && z[idx[k]] == z[idx[k+1]] {
			order.TieEnd[k] = order.TieEnd[k+1]
		} else {
			order.TieEnd[k] = k + 1
		}
	}

	return order
}

// SortByZ reorders every column of the bunch so that Z is increasing. The
// tail of the bunch ends up at index 0.
func (b *Bunch) SortByZ() error {
	if err := b.Validate(); err != nil { return err }

	order := NewZOrder(b.Z, nil)
	to := make([]int, b.Len())
	for i := range to { to[i] = i }

	tmp := make([]float64, b.Len())
	for _, f := range b.Fields() {
		err := f.Transfer(tmp, order.Index, to)
		if err != nil { return err }
		copy(f.Data(), tmp)
	}
	return nil
}

// resizeInts resizes an int buffer to have the specified length.
func resizeInts(x []int, n int) []int {
	if n > cap(x) {
		x = append(x[:cap(x)], make([]int, n-cap(x))...)
	}
	return x[:n]
}
