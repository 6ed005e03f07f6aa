// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SetProblem installs a new set of constraints l ≤ Ax ≤ u, partitioned into
// priority levels by breaks. breaks must be non-empty, strictly increasing,
// and end at the row count of A; l must be elementwise ≤ u. Rows are
// initially laid out in the order given; equality rows (l[i] == u[i]) are
// eagerly locked into the active prefix of their level. Non-equality rows
// that were active in a previous solve on a problem of the same size are
// reactivated so that an unchanged re-solve converges with zero active-set
// changes. Invalidates the primal/slack caches.
func (s *Solver) SetProblem(a *mat.Dense, l, u []float64, breaks []int) error {
	rows, cols := a.Dims()
	if cols != s.n {
		return invalidArgf("A has %d columns, want %d", cols, s.n)
	}
	if rows > s.m {
		return invalidArgf("A has %d rows, solver was constructed for at most %d", rows, s.m)
	}
	if len(l) != rows || len(u) != rows {
		return invalidArgf("l/u length %d/%d does not match row count %d", len(l), len(u), rows)
	}
	if len(breaks) == 0 {
		return invalidArgf("breaks must be non-empty")
	}
	if len(breaks) > s.maxLevels {
		return invalidArgf("breaks has %d levels, solver allows at most %d", len(breaks), s.maxLevels)
	}
	prev := breaks[0]
	if prev <= 0 {
		return invalidArgf("breaks[0]=%d must be positive", prev)
	}
	for k := 1; k < len(breaks); k++ {
		if breaks[k] <= prev {
			return invalidArgf("breaks must be strictly increasing, got %v", breaks)
		}
		prev = breaks[k]
	}
	if breaks[len(breaks)-1] != rows {
		return invalidArgf("breaks[-1]=%d must equal row count %d", breaks[len(breaks)-1], rows)
	}
	for i := 0; i < rows; i++ {
		if l[i] > u[i] {
			return invalidArgf("row %d: l=%v > u=%v", i, l[i], u[i])
		}
	}

	// Snapshot the previous active state, keyed by original row index, for
	// warm-start carry-over of non-equality rows.
	var wasActiveLow, wasActiveUp map[int]bool
	if s.p > 0 && s.m == rows {
		wasActiveLow = make(map[int]bool, rows)
		wasActiveUp = make(map[int]bool, rows)
		for pos := 0; pos < s.m; pos++ {
			orig := s.perm[pos]
			if orig < rows {
				wasActiveLow[orig] = s.activeLow[pos]
				wasActiveUp[orig] = s.activeUp[pos]
			}
		}
	}

	s.m = rows
	s.p = len(breaks)
	s.a.Slice(0, rows, 0, cols).(*mat.Dense).Copy(a)
	copy(s.l, l)
	copy(s.u, u)
	copy(s.breaks, breaks)

	start := 0
	for k := 0; k < s.p; k++ {
		s.start[k] = start
		for i := start; i < breaks[k]; i++ {
			s.rowLevel[i] = k
		}
		start = breaks[k]
	}

	for i := 0; i < rows; i++ {
		s.perm[i] = i
		s.equality[i] = l[i] == u[i]
		s.activeLow[i] = false
		s.activeUp[i] = false
		s.locked[i] = false
		s.dual[i] = 0
	}

	for k := 0; k < s.p; k++ {
		s.breaksFix[k] = s.start[k]
		s.breaksAct[k] = s.start[k]
		s.ranks[k] = 0
		s.dofs[k] = 0
		s.computed[k] = false

		// Equality rows first, so they end up in the locked prefix. This is a
		// partition-by-swap scan: a match at i is swapped into the front
		// boundary breaksAct[k], which brings whatever row previously sat at
		// the front into position i. That row was already classified
		// non-matching (it came from the already-scanned [breaksAct[k], i)
		// span), so i always advances, matched or not.
		for i := s.breaksAct[k]; i < breaks[k]; i++ {
			if s.equality[i] {
				if err := s.activate(i, true); err != nil {
					return err
				}
				if err := s.lock(s.breaksAct[k] - 1); err != nil {
					return err
				}
			}
		}

		// Warm-start carry-over of inequality rows; same partition-by-swap
		// scan, keyed on "was active in the previous solve" instead of
		// "is an equality".
		if wasActiveLow != nil {
			for i := s.breaksAct[k]; i < breaks[k]; i++ {
				orig := s.perm[i]
				if !s.equality[i] && (wasActiveLow[orig] || wasActiveUp[orig]) {
					if err := s.activate(i, wasActiveLow[orig]); err != nil {
						return err
					}
				}
			}
		}
	}

	s.cursor = math.MaxInt
	s.invalidateCaches()
	return nil
}
