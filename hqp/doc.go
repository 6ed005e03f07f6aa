// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hqp implements a Hierarchical Quadratic Program solver: given an
// ordered sequence of priority levels, each a block of two-sided linear
// constraints l ≤ Ax ≤ u, it computes the x that lexicographically minimizes
// the slack of level 0, then among all such x minimizes the slack of level
// 1, and so on, with the quadratic norm weighted by a user-supplied
// symmetric-positive-definite metric M.
//
// The solver is built around a null-space-projecting primal engine based on
// complete orthogonal decompositions (COD), an active-set state machine that
// adds and removes inequality bounds while preserving lexicographic
// ordering, and an incremental dual-variable recovery that walks the saved
// per-level factorizations backward instead of solving a KKT system.
//
// A Solver instance is single-threaded. Its per-level state (factor caches,
// primal, dual, and active-set bookkeeping) is preallocated to its
// worst-case dimensions once in NewSolver and reused across solves; only
// small scratch local to a single COD or dual-recovery pass is allocated
// per call.
package hqp
