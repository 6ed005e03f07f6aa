// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import "github.com/pkg/errors"

// ErrInvalidArgument is returned when SetMetric or SetProblem are given
// shapes or values that violate the solver's preconditions: mismatched
// dimensions, l > u somewhere, a non-monotone breaks slice, or a metric
// that fails to be symmetric positive definite.
var ErrInvalidArgument = errors.New("hqp: invalid argument")

// ErrInvariantViolation is returned when a bookkeeping primitive (lock,
// activate, deactivate) is called on a row that does not satisfy its
// documented precondition. This indicates a bug in the driver, not bad
// caller input: the solver's internal state is no longer trustworthy once
// this is raised.
var ErrInvariantViolation = errors.New("hqp: invariant violation")

// ErrIterationLimit is returned when the active-set driver exceeds its
// iteration ceiling. Primal still holds the best-so-far feasible iterate
// for the levels that completed before the ceiling was hit.
var ErrIterationLimit = errors.New("hqp: iteration limit exceeded")

func invalidArgf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

func invariantf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvariantViolation, format, args...)
}
