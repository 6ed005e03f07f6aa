// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import "gonum.org/v1/gonum/mat"

// dualUpdate recovers Lagrange multipliers for the rows active in levels
// 0..h so their signs decide whether releasing a row would reduce the slack
// at level h. It replaces an explicit KKT solve by walking the saved
// per-level CODs backward, each of which is a small upper-triangular block
// produced by a rank-revealing factorization.
func (s *Solver) dualUpdate(h int) {
	for i := s.start[h]; i < s.breaksAct[h]; i++ {
		side := s.l[i]
		if s.activeUp[i] {
			side = s.u[i]
		}
		s.dual[i] = side - mat.Dot(s.a.RowView(i), s.primal)
	}

	s.tau.Zero()
	accumulateTau(s.tau, s.a, s.dual, s.start[h], s.breaksAct[h], s.n)

	for k := h - 1; k >= 0; k-- {
		rowsStart, rowsEnd := s.start[k], s.breaksAct[k]
		r := s.ranks[k]
		if r > 0 && k <= s.cursor {
			colStart := s.n - s.dofs[k]

			f := make([]float64, r)
			for c := 0; c < r; c++ {
				sum := zero
				for i := 0; i < s.n; i++ {
					sum += s.inverse.At(i, colStart+c) * s.tau.AtVec(i)
				}
				f[c] = -sum
			}

			// Solve codMid[k]ᵀ·y = f. codMid[k] is upper triangular, so its
			// transpose is lower triangular: forward substitution.
			y := make([]float64, r)
			for i := 0; i < r; i++ {
				sum := f[i]
				for j := 0; j < i; j++ {
					sum -= s.codMid[k].At(j, i) * y[j]
				}
				y[i] = sum / s.codMid[k].At(i, i)
			}

			for i := rowsStart; i < rowsEnd; i++ {
				sum := zero
				for c := 0; c < r; c++ {
					sum += s.codLefts.At(i, c) * y[c]
				}
				s.dual[i] = sum
			}

			accumulateTau(s.tau, s.a, s.dual, rowsStart, rowsEnd, s.n)
		} else {
			for i := rowsStart; i < rowsEnd; i++ {
				s.dual[i] = 0
			}
		}
	}
}

// accumulateTau adds A[rowsStart:rowsEnd]ᵀ·dual[rowsStart:rowsEnd] into tau.
func accumulateTau(tau *mat.VecDense, a *mat.Dense, dual []float64, rowsStart, rowsEnd, n int) {
	for i := rowsStart; i < rowsEnd; i++ {
		d := dual[i]
		if d == 0 {
			continue
		}
		for c := 0; c < n; c++ {
			tau.SetVec(c, tau.AtVec(c)+a.At(i, c)*d)
		}
	}
}
