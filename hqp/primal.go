// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// getParent returns the nearest level j < k that produced a valid
// factorization on the current cursor pass, or -1 if none did. A naive
// caller might assume parent = k-1, but an intervening level with no active
// rows never sets computed[j] and must be skipped, or the available degrees
// of freedom would incorrectly collapse to those of an empty level.
func (s *Solver) getParent(k int) int {
	for j := k - 1; j >= 0; j-- {
		if s.computed[j] {
			return j
		}
	}
	return -1
}

// equalityHQP resets primal to zero and re-derives it from scratch across
// every level, ignoring any previously cached factorizations.
func (s *Solver) equalityHQP() error {
	s.primal.Zero()
	for k := 0; k < s.p; k++ {
		s.ranks[k] = 0
		s.dofs[k] = 0
		s.computed[k] = false
	}
	s.cursor = math.MaxInt
	return s.incrementFrom(0)
}

// incrementFrom walks levels L, L+1, ... while degrees of freedom remain,
// calling incrementPrimal on every level with at least one active row.
func (s *Solver) incrementFrom(l int) error {
	for k := l; k < s.p; k++ {
		parent := s.getParent(k)
		dof := s.n
		if parent >= 0 {
			dof = s.dofs[parent] - s.ranks[parent]
		}
		if dof <= 0 {
			break
		}
		if s.breaksAct[k] > s.start[k] {
			if err := s.incrementPrimal(parent, k); err != nil {
				return err
			}
		}
	}
	s.refreshCursor()
	return nil
}

// decrementFrom walks forward from L, subtracting each already-computed
// level's contribution from primal and clearing its factor cache. No
// separate stored per-level contribution vector is needed: task and inverse
// already hold everything increment_primal wrote for that level.
func (s *Solver) decrementFrom(l int) {
	for k := l; k < s.p; k++ {
		if s.computed[k] && s.ranks[k] > 0 {
			colStart := s.n - s.dofs[k]
			r := s.ranks[k]
			for i := 0; i < s.n; i++ {
				sub := zero
				for c := 0; c < r; c++ {
					sub += s.inverse.At(i, colStart+c) * s.task[colStart+c]
				}
				s.primal.SetVec(i, s.primal.AtVec(i)-sub)
			}
		}
		s.ranks[k] = 0
		s.dofs[k] = 0
		s.computed[k] = false
	}
	s.refreshCursor()
}

func (s *Solver) refreshCursor() {
	c := -1
	for k := 0; k < s.p; k++ {
		if s.computed[k] {
			c = k
		}
	}
	if c == -1 {
		s.cursor = math.MaxInt
		return
	}
	s.cursor = c
}

// incrementPrimal computes the complete orthogonal decomposition of this
// level's active rows projected onto the parent nullspace basis, then adds
// this level's contribution to primal.
func (s *Solver) incrementPrimal(parent, k int) error {
	dof := s.n
	if parent >= 0 {
		dof = s.dofs[parent] - s.ranks[parent]
	}
	if dof <= 0 {
		s.ranks[k], s.dofs[k], s.computed[k] = 0, 0, false
		return nil
	}

	rowsStart, rowsEnd := s.start[k], s.breaksAct[k]
	rows := rowsEnd - rowsStart
	if rows <= 0 {
		s.ranks[k], s.dofs[k], s.computed[k] = 0, 0, false
		return nil
	}

	b := make([]float64, rows)
	for i := 0; i < rows; i++ {
		row := rowsStart + i
		side := s.l[row]
		if s.activeUp[row] {
			side = s.u[row]
		}
		b[i] = side - mat.Dot(s.a.RowView(row), s.primal)
	}

	var nSrc *mat.Dense
	if parent < 0 {
		nSrc = s.metricInv
	} else {
		nSrc = s.codRight[parent].Slice(0, s.n, s.ranks[parent], s.ranks[parent]+dof).(*mat.Dense)
	}

	aRows := s.a.Slice(rowsStart, rowsEnd, 0, s.n).(*mat.Dense)
	ap := mat.NewDense(rows, dof, nil)
	ap.Mul(aRows, nSrc)

	right := s.codRight[k].Slice(0, s.n, 0, dof).(*mat.Dense)
	right.Copy(nSrc)

	result := computeCOD(ap, right, s.Tolerance)
	r := result.rank

	for i := 0; i < rows; i++ {
		for c := 0; c < r; c++ {
			s.codLefts.Set(rowsStart+i, c, result.q.At(i, c))
		}
	}
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			s.codMid[k].Set(i, j, result.t.At(i, j))
		}
	}
	s.ranks[k] = r
	s.dofs[k] = dof
	s.computed[k] = true

	colStart := s.n - dof
	for i := 0; i < s.n; i++ {
		for c := 0; c < r; c++ {
			s.inverse.Set(i, colStart+c, s.codRight[k].At(i, c))
		}
	}

	for c := 0; c < r; c++ {
		sum := zero
		for i := 0; i < rows; i++ {
			sum += result.q.At(i, c) * b[i]
		}
		s.task[colStart+c] = sum
	}

	for i := 0; i < rows; i++ {
		sum := zero
		for c := 0; c < r; c++ {
			sum += result.q.At(i, c) * s.task[colStart+c]
		}
		s.dual[rowsStart+i] = b[i] - sum
	}

	// Solve T·y = task[colStart:colStart+r] in place via back substitution.
	for i := r - 1; i >= 0; i-- {
		sum := s.task[colStart+i]
		for j := i + 1; j < r; j++ {
			sum -= s.codMid[k].At(i, j) * s.task[colStart+j]
		}
		s.task[colStart+i] = sum / s.codMid[k].At(i, i)
	}

	for i := 0; i < s.n; i++ {
		add := zero
		for c := 0; c < r; c++ {
			add += s.inverse.At(i, colStart+c) * s.task[colStart+c]
		}
		s.primal.SetVec(i, s.primal.AtVec(i)+add)
	}

	return nil
}
