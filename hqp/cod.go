// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// codResult holds the pieces of a complete orthogonal decomposition that
// the primal engine needs: the numerical rank, the first `rank` columns of
// the left orthogonal factor Q, and the rank×rank upper-triangular middle
// block T.
type codResult struct {
	rank int
	q    *mat.Dense // rows x rank
	t    *mat.Dense // rank x rank, upper triangular
}

// computeCOD factors ap (rows x dof) as
//
//	ap·P = Q·[T 0; 0 0]·Zᵀ
//
// where P is a column permutation chosen by pivoting on remaining column
// norms, Q is orthogonal, T is upper triangular of size rank×rank, and Z is
// orthogonal (present only when rank < dof). ap is destroyed as scratch.
//
// right (n x dof) is carried through the same column permutation and, when
// rank < dof, the same right-hand reflectors, so that on return right holds
// N·P·Z (or N·P when Z is trivial) — precisely the codRight this level's factorization
// produces from the parent nullspace basis N it was called with.
//
// This mirrors the two-stage construction of the Householder Forward
// Triangulation with column Interchanges (HFTI) algorithm: a pivoted
// forward Householder QR determines the rank-revealing R, and — when the
// row rank is less than the column count — a backward Householder pass
// eliminates the trailing block, leaving a triangular T instead of a
// trapezoidal R.
//
// C.L. Lawson, R.J. Hanson, 'Solving least squares problems', Chapter 14.
func computeCOD(ap *mat.Dense, right *mat.Dense, tol float64) codResult {
	rows, dof := ap.Dims()
	n, dofR := right.Dims()
	if dofR != dof {
		panic("hqp: cod scratch and right operand column counts differ")
	}

	diagMax := min(rows, dof)
	vs := make([][]float64, diagMax)
	betas := make([]float64, diagMax)

	rank := 0
	for j := 0; j < diagMax; j++ {
		best, bestNorm := j, -one
		for c := j; c < dof; c++ {
			nrm := zero
			for r := j; r < rows; r++ {
				v := ap.At(r, c)
				nrm += v * v
			}
			if nrm > bestNorm {
				bestNorm, best = nrm, c
			}
		}
		if math.Sqrt(bestNorm) <= tol {
			break
		}
		if best != j {
			swapColumns(ap, j, best)
			swapColumns(right, j, best)
		}

		x := make([]float64, rows-j)
		for i := range x {
			x[i] = ap.At(j+i, j)
		}
		v, beta := buildHouseholder(x)
		applyHouseholderLeft(ap, v, beta, j, j)
		vs[j], betas[j] = v, beta
		rank = j + 1
	}

	if rank < dof {
		// Backward triangulation: eliminate columns [rank, dof) of each of
		// the first `rank` rows, mixing only that row's pivot column i with
		// the trailing block. Applying each reflector to every row in
		// [0, rank) rather than just [0, i] is harmless: rows already
		// processed (index > i) have a zero trailing block by induction and
		// a zero entry at column i because ap[0:rank,0:rank] is upper
		// triangular, so the reflector is a no-op there.
		for i := rank - 1; i >= 0; i-- {
			w := make([]float64, 1+dof-rank)
			w[0] = ap.At(i, i)
			for t := 0; t < dof-rank; t++ {
				w[1+t] = ap.At(i, rank+t)
			}
			v, beta := buildHouseholder(w)
			applyBackwardReflector(ap, i, rank, dof, v, beta, 0, rank)
			applyBackwardReflector(right, i, rank, dof, v, beta, 0, n)
		}
	}

	q := mat.NewDense(rows, rank, nil)
	for c := 0; c < rank; c++ {
		q.Set(c, c, one)
	}
	for j := rank - 1; j >= 0; j-- {
		applyHouseholderLeft(q, vs[j], betas[j], j, 0)
	}

	t := mat.NewDense(rank, rank, nil)
	for i := 0; i < rank; i++ {
		for j := i; j < rank; j++ {
			t.Set(i, j, ap.At(i, j))
		}
	}

	return codResult{rank: rank, q: q, t: t}
}

// swapColumns exchanges columns i and j of a in place.
func swapColumns(a *mat.Dense, i, j int) {
	if i == j {
		return
	}
	rows, _ := a.Dims()
	for r := 0; r < rows; r++ {
		vi, vj := a.At(r, i), a.At(r, j)
		a.Set(r, i, vj)
		a.Set(r, j, vi)
	}
}

// applyBackwardReflector applies (I - beta·v·vᵀ), built over the vector
// formed by column `col` followed by columns [tailStart, tailEnd), to that
// same set of columns for every row in [rowStart, rowEnd).
func applyBackwardReflector(a *mat.Dense, col, tailStart, tailEnd int, v []float64, beta float64, rowStart, rowEnd int) {
	if beta == 0 {
		return
	}
	tailLen := tailEnd - tailStart
	for row := rowStart; row < rowEnd; row++ {
		s := v[0] * a.At(row, col)
		for t := 0; t < tailLen; t++ {
			s += v[1+t] * a.At(row, tailStart+t)
		}
		s *= beta
		a.Set(row, col, a.At(row, col)-s*v[0])
		for t := 0; t < tailLen; t++ {
			a.Set(row, tailStart+t, a.At(row, tailStart+t)-s*v[1+t])
		}
	}
}
