// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import "gonum.org/v1/gonum/mat"

// SetMetric installs the weighting metric M used to measure the norm of x.
// M must be symmetric positive definite of size n x n, where n matches the
// dimension the solver was constructed with. The solver stores R^{-1} where
// M = R^T R (the upper Cholesky factor of M), which becomes the initial
// nullspace basis for the primal engine. Invalidates the primal/slack
// caches.
func (s *Solver) SetMetric(m *mat.SymDense) error {
	r, c := m.Dims()
	if r != s.n || c != s.n {
		return invalidArgf("metric shape %dx%d does not match n=%d", r, c, s.n)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(m); !ok {
		return invalidArgf("metric is not symmetric positive definite")
	}

	var upper mat.TriDense
	chol.UTo(&upper)

	var inv mat.Dense
	if err := inv.Inverse(&upper); err != nil {
		return invalidArgf("failed to invert Cholesky factor: %v", err)
	}

	s.metricInv = mat.DenseCopyOf(&inv)
	s.invalidateCaches()
	return nil
}
