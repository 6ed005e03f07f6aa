// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func orthonormal(t *testing.T, q *mat.Dense) {
	t.Helper()
	_, rank := q.Dims()
	if rank == 0 {
		return
	}
	qtq := mat.NewDense(rank, rank, nil)
	qtq.Mul(q.T(), q)
	for i := 0; i < rank; i++ {
		for j := 0; j < rank; j++ {
			want := zero
			if i == j {
				want = one
			}
			assert.InDelta(t, want, qtq.At(i, j), 1e-8)
		}
	}
}

func TestComputeCODFullRank(t *testing.T) {
	ap := mat.NewDense(2, 2, []float64{2, 0, 0, 3})
	right := identity(2)

	res := computeCOD(ap, right, defaultTolerance)

	assert.Equal(t, 2, res.rank)
	orthonormal(t, res.q)
	// T must be upper triangular by construction.
	assert.Equal(t, 0.0, res.t.At(1, 0))
}

func TestComputeCODRankDeficient(t *testing.T) {
	ap := mat.NewDense(2, 2, []float64{1, 2, 2, 4})
	right := identity(2)

	res := computeCOD(ap, right, defaultTolerance)

	assert.Equal(t, 1, res.rank)
	orthonormal(t, res.q)
}

func TestComputeCODWideRowDeficient(t *testing.T) {
	// 1x3: a single row can have rank at most 1.
	ap := mat.NewDense(1, 3, []float64{1, 2, 3})
	right := identity(3)

	res := computeCOD(ap, right, defaultTolerance)

	assert.Equal(t, 1, res.rank)
	orthonormal(t, res.q)
}
