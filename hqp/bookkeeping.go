// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

// swap exchanges rows i and j across every parallel array the solver keeps
// in permuted order. It is the only place permutation occurs; every other
// operation that reorders rows funnels through it so perm stays a valid
// permutation of [0, m).
func (s *Solver) swap(i, j int) {
	if i == j {
		return
	}
	s.l[i], s.l[j] = s.l[j], s.l[i]
	s.u[i], s.u[j] = s.u[j], s.u[i]
	s.equality[i], s.equality[j] = s.equality[j], s.equality[i]
	s.activeLow[i], s.activeLow[j] = s.activeLow[j], s.activeLow[i]
	s.activeUp[i], s.activeUp[j] = s.activeUp[j], s.activeUp[i]
	s.locked[i], s.locked[j] = s.locked[j], s.locked[i]
	s.dual[i], s.dual[j] = s.dual[j], s.dual[i]
	s.perm[i], s.perm[j] = s.perm[j], s.perm[i]

	for c := 0; c < s.n; c++ {
		vi, vj := s.a.At(i, c), s.a.At(j, c)
		s.a.Set(i, c, vj)
		s.a.Set(j, c, vi)
	}
	for c := 0; c < s.maxRank; c++ {
		vi, vj := s.codLefts.At(i, c), s.codLefts.At(j, c)
		s.codLefts.Set(i, c, vj)
		s.codLefts.Set(j, c, vi)
	}
}

// lock forbids row's release for the remainder of an outer iteration by
// moving it into the locked prefix of its level. row must lie in
// [breaksFix[k], breaksAct[k]).
func (s *Solver) lock(row int) error {
	k := s.rowLevel[row]
	if row < s.breaksFix[k] || row >= s.breaksAct[k] {
		return invariantf("lock: row %d not in free-active band of level %d", row, k)
	}
	s.swap(row, s.breaksFix[k])
	s.locked[s.breaksFix[k]] = true
	s.breaksFix[k]++
	return nil
}

// activate treats row's lower (isLowerBound) or upper bound as an equality
// and moves it into the active prefix of its level. row must lie in
// [breaksAct[k], breaks[k]).
func (s *Solver) activate(row int, isLowerBound bool) error {
	k := s.rowLevel[row]
	if row < s.breaksAct[k] || row >= s.breaks[k] {
		return invariantf("activate: row %d not in inactive band of level %d", row, k)
	}
	if isLowerBound {
		s.activeLow[row] = true
	} else {
		s.activeUp[row] = true
	}
	s.swap(row, s.breaksAct[k])
	s.breaksAct[k]++
	return nil
}

// deactivate returns row to strict inequality status and moves it out of
// the free-active band of its level. row must lie in
// [breaksFix[k], breaksAct[k]); locked rows are never touched.
func (s *Solver) deactivate(row int) error {
	k := s.rowLevel[row]
	if row < s.breaksFix[k] || row >= s.breaksAct[k] {
		return invariantf("deactivate: row %d not in free-active band of level %d", row, k)
	}
	s.activeLow[row] = false
	s.activeUp[row] = false
	s.breaksAct[k]--
	s.swap(row, s.breaksAct[k])
	return nil
}
