// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// solve drives the active-set state machine to lexicographic optimality (or
// runs the equality-only fast path when every row is an equality) and
// leaves primal populated with the result.
func (s *Solver) solve() error {
	if s.allEquality() {
		if err := s.equalityHQP(); err != nil {
			return err
		}
		s.Changes = 0
		return s.finalize()
	}

	if err := s.equalityHQP(); err != nil {
		return err
	}
	s.Changes = 0

	iterations := 0
	for h := 0; h < s.p; h++ {
		budget := 2*(s.breaks[h]-s.start[h]) + 1
		bestCost := math.Inf(1)
		noProgress := 0

		for {
			iterations++
			if iterations > s.iterationLimit {
				return ErrIterationLimit
			}

			activated, err := s.activationScan()
			if err != nil {
				return err
			}

			changed := activated
			if !activated {
				s.dualUpdate(h)
				deactivated, err := s.deactivationScan(h)
				if err != nil {
					return err
				}
				changed = deactivated
				if !deactivated {
					if err := s.lockSweep(h); err != nil {
						return err
					}
					break
				}
			}
			if !changed {
				break
			}
			s.Changes++

			cost := s.levelCostAt(h)
			if bestCost-cost > s.Tolerance {
				bestCost, noProgress = cost, 0
			} else {
				noProgress++
			}
			if noProgress >= budget {
				break
			}
		}
	}

	return s.finalize()
}

func (s *Solver) allEquality() bool {
	for i := 0; i < s.m; i++ {
		if !s.equality[i] {
			return false
		}
	}
	return true
}

// activationScan picks the single most violated inactive row across every
// level and activates the violated side. Ties break on the earliest row
// index because the scan only replaces the current best on a strictly
// larger violation.
func (s *Solver) activationScan() (bool, error) {
	bestRow, bestVal, bestLow := -1, s.Tolerance, false
	for k := 0; k < s.p; k++ {
		for i := s.breaksAct[k]; i < s.breaks[k]; i++ {
			av := mat.Dot(s.a.RowView(i), s.primal)
			violUp := av - s.u[i]
			violLow := s.l[i] - av
			v := math.Max(0, math.Max(violUp, violLow))
			if v > bestVal {
				bestVal, bestRow, bestLow = v, i, violLow >= violUp
			}
		}
	}
	if bestRow < 0 {
		return false, nil
	}
	level := s.rowLevel[bestRow]
	s.decrementFrom(level)
	if err := s.activate(bestRow, bestLow); err != nil {
		return false, err
	}
	if err := s.incrementFrom(level); err != nil {
		return false, err
	}
	return true, nil
}

// deactivationScan picks the free-active row in levels 0..h with the
// largest positive signed dual and releases it.
func (s *Solver) deactivationScan(h int) (bool, error) {
	bestRow, bestVal := -1, s.Tolerance
	for k := 0; k <= h; k++ {
		for i := s.breaksFix[k]; i < s.breaksAct[k]; i++ {
			d := s.dual[i]
			if s.activeLow[i] {
				d = -d
			}
			if d > bestVal {
				bestVal, bestRow = d, i
			}
		}
	}
	if bestRow < 0 {
		return false, nil
	}
	level := s.rowLevel[bestRow]
	s.decrementFrom(level)
	if err := s.deactivate(bestRow); err != nil {
		return false, err
	}
	if err := s.incrementFrom(level); err != nil {
		return false, err
	}
	return true, nil
}

// lockSweep forbids release of every free-active row in levels 0..h whose
// dual says removing it would worsen the slack at h. The locks stay in place
// while the driver goes on to the lower-priority levels of this solve; only
// SetProblem rebuilds the locked prefixes (and finalize releases them in
// levels after the cursor).
func (s *Solver) lockSweep(h int) error {
	for k := 0; k <= h; k++ {
		end := s.breaksAct[k]
		for i := s.breaksFix[k]; i < end; i++ {
			d := s.dual[i]
			if s.activeLow[i] {
				d = -d
			}
			if d < -s.Tolerance {
				if err := s.lock(i); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *Solver) levelCostAt(h int) float64 {
	cost := zero
	for i := s.start[h]; i < s.breaks[h]; i++ {
		av := mat.Dot(s.a.RowView(i), s.primal)
		v := math.Max(0, math.Max(s.l[i]-av, av-s.u[i]))
		cost += v * v
	}
	return cost
}

// finalize records primal as next solve's warm-start reference and clears
// any leftover active state in levels that never received a valid
// factorization on this pass: every non-equality row there is unlocked and
// deactivated.
func (s *Solver) finalize() error {
	startK := 0
	if s.cursor < s.p {
		startK = s.cursor + 1
	}
	for k := startK; k < s.p; k++ {
		// Equality rows always sit at the front of the locked prefix.
		fix := s.start[k]
		for fix < s.breaksFix[k] && s.equality[fix] {
			fix++
		}
		for i := fix; i < s.breaksFix[k]; i++ {
			s.locked[i] = false
		}
		s.breaksFix[k] = fix
		for s.breaksAct[k] > s.breaksFix[k] {
			if err := s.deactivate(s.breaksFix[k]); err != nil {
				return err
			}
		}
	}
	s.guess.CopyVec(s.primal)
	return nil
}
