// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/mat"
)

// GetPrimal returns the current solution, driving a solve first if the
// problem or metric has changed since the last call. Changes is updated as
// a side effect with the number of active-set changes the solve performed;
// a call that finds the solution already computed performs none and sets
// Changes to 0. When the driver hits its iteration ceiling, the best-so-far
// primal is returned together with ErrIterationLimit.
func (s *Solver) GetPrimal() (*mat.VecDense, error) {
	if s.primalValid {
		s.Changes = 0
		return s.primal, nil
	}
	if err := s.solve(); err != nil {
		if errors.Is(err, ErrIterationLimit) {
			return s.primal, err
		}
		return nil, err
	}
	s.primalValid = true
	s.slackValid = false
	return s.primal, nil
}

// GetSlack returns the clipped bound violations Ax-l and Ax-u, in the
// caller's original row numbering, for the current solution. low[i] =
// min(0, Ax-l)[i]; up[i] = max(0, Ax-u)[i]. Cached until the next
// SetProblem or SetMetric call.
func (s *Solver) GetSlack() (low, up *mat.VecDense, err error) {
	if !s.primalValid {
		if _, err := s.GetPrimal(); err != nil {
			return nil, nil, err
		}
	}
	if !s.slackValid {
		for pos := 0; pos < s.m; pos++ {
			av := mat.Dot(s.a.RowView(pos), s.primal)
			orig := s.perm[pos]
			s.lowSlack[orig] = math.Min(0, av-s.l[pos])
			s.upSlack[orig] = math.Max(0, av-s.u[pos])
		}
		s.slackValid = true
	}
	return mat.NewVecDense(s.m, s.lowSlack), mat.NewVecDense(s.m, s.upSlack), nil
}

// GetLevelCost returns the squared L2 sum of clipped violations over the
// rows of level k for the current solution.
func (s *Solver) GetLevelCost(k int) (float64, error) {
	if k < 0 || k >= s.p {
		return 0, invalidArgf("level %d out of range [0,%d)", k, s.p)
	}
	if !s.primalValid {
		if _, err := s.GetPrimal(); err != nil {
			return 0, err
		}
	}
	return s.levelCostAt(k), nil
}

// PrintActiveSet writes a human-readable dump of the current tripartite
// partitions, ranks, and degrees of freedom per level. Diagnostics only;
// never called on the hot solve path.
func (s *Solver) PrintActiveSet(w io.Writer) error {
	for k := 0; k < s.p; k++ {
		locked := s.breaksFix[k] - s.start[k]
		free := s.breaksAct[k] - s.breaksFix[k]
		inactive := s.breaks[k] - s.breaksAct[k]
		_, err := fmt.Fprintf(w, "level %d: locked=%d free-active=%d inactive=%d rank=%d dof=%d computed=%v\n",
			k, locked, free, inactive, s.ranks[k], s.dofs[k], s.computed[k])
		if err != nil {
			return err
		}
	}
	return nil
}
