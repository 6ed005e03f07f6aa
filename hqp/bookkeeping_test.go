// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newInequalitySolver(t *testing.T) *Solver {
	t.Helper()
	s, err := NewSolver(3, 1)
	require.NoError(t, err)

	a := mat.NewDense(3, 1, []float64{1, 1, 1})
	l := []float64{-1, -1, -1}
	u := []float64{1, 1, 1}
	require.NoError(t, s.SetProblem(a, l, u, []int{3}))
	return s
}

func TestBookkeepingInvariantsHoldAfterSolve(t *testing.T) {
	s := newInequalitySolver(t)

	_, err := s.GetPrimal()
	require.NoError(t, err)

	// A fully unconstrained-in-range problem should have left every row
	// inactive; a second GetPrimal call must not report any spurious changes.
	_, err = s.GetPrimal()
	require.NoError(t, err)
	assert.Equal(t, 0, s.Changes)
}

func TestBookkeepingActivationRespected(t *testing.T) {
	s, err := NewSolver(2, 1)
	require.NoError(t, err)

	a := mat.NewDense(2, 1, []float64{1, 1})
	l := []float64{5, -1}
	u := []float64{10, 1}
	require.NoError(t, s.SetProblem(a, l, u, []int{2}))

	x, err := s.GetPrimal()
	require.NoError(t, err)
	// x must satisfy the tighter lower bound 5, which is infeasible for row 1's
	// range [-1,1]; the driver activates row 0 at its lower bound and the
	// least-violating point ends up at x=5.
	assert.InDelta(t, 5.0, x.AtVec(0), 1e-6)
	assert.Greater(t, s.Changes, 0)
}

// lock, activate, and deactivate are only ever called by the driver on rows
// already known to satisfy their band precondition; calling them directly on
// a row outside that band must raise ErrInvariantViolation rather than
// silently corrupting perm/breaksFix/breaksAct.

func TestLockRejectsRowOutsideFreeActiveBand(t *testing.T) {
	s := newInequalitySolver(t)

	// breaksFix[0] == breaksAct[0] == 0: the free-active band is empty, so
	// every row index fails the precondition.
	err := s.lock(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariantViolation))
}

func TestActivateRejectsAlreadyActiveRow(t *testing.T) {
	s := newInequalitySolver(t)

	require.NoError(t, s.activate(0, true))
	// Row 0 now occupies the free-active band, not the inactive one; a
	// second activate on the same row index is out of band.
	err := s.activate(0, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariantViolation))
}

func TestDeactivateRejectsInactiveRow(t *testing.T) {
	s := newInequalitySolver(t)

	// Nothing has been activated yet: the free-active band is empty.
	err := s.deactivate(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariantViolation))
}

func TestLockRejectsAlreadyLockedRow(t *testing.T) {
	s := newInequalitySolver(t)

	require.NoError(t, s.activate(0, true))
	require.NoError(t, s.lock(0))
	// Row 0 is now in the locked prefix, out of the free-active band.
	err := s.lock(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariantViolation))
}
