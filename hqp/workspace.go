// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	zero = 0.0
	one  = 1.0

	defaultTolerance = 1e-9
)

// Option configures a Solver at construction time.
type Option func(*Solver)

// WithTolerance overrides the default numerical rank / violation threshold.
func WithTolerance(tol float64) Option {
	return func(s *Solver) { s.Tolerance = tol }
}

// WithIterationLimit overrides the default global iteration ceiling of the
// active-set driver.
func WithIterationLimit(limit int) Option {
	return func(s *Solver) { s.iterationLimit = limit }
}

// WithMaxLevels overrides the default maximum number of priority levels
// (m, i.e. one row per level in the worst case).
func WithMaxLevels(maxLevels int) Option {
	return func(s *Solver) { s.maxLevels = maxLevels }
}

// Solver is a Hierarchical Quadratic Program instance preallocated for
// problems with up to m rows and n variables. See the package doc for the
// algorithm it implements.
type Solver struct {
	// Tolerance is the numerical rank / violation threshold used throughout
	// a solve. Default 1e-9.
	Tolerance float64
	// Changes is the number of activations plus deactivations performed by
	// the most recent call to GetPrimal.
	Changes int

	m, n, p        int
	maxLevels      int
	iterationLimit int

	// metric: R^{-1}, n x n, where M = R^T R (upper Cholesky).
	metricInv *mat.Dense

	// problem, held in permuted row order.
	a        *mat.Dense
	l, u     []float64
	equality []bool

	// per-row level index, in permuted order.
	rowLevel []int
	// breaks[k] is the (exclusive) end row of level k in permuted order;
	// start[k] is its inclusive start row. start[0] = 0, start[k] = breaks[k-1].
	breaks []int
	start  []int

	// active-set state, per row, in permuted order.
	activeLow, activeUp, locked []bool
	dual                        []float64
	perm                        []int // perm[i] = original row index currently at position i

	// partition pointers, per level.
	breaksFix, breaksAct []int

	// factor cache, per level.
	ranks, dofs []int
	computed    []bool
	codMid      []*mat.Dense // rank x rank upper triangular, allocated maxRank x maxRank
	codRight    []*mat.Dense // n x dofs[k], allocated n x n
	codLefts    *mat.Dense   // m x maxRank shared strip, row-indexed by permuted position

	maxRank int

	// running primal workspace.
	primal  *mat.VecDense // n
	task    []float64     // n, per-level coordinate segments written in place
	guess   *mat.VecDense // n
	inverse *mat.Dense    // n x n
	tau     *mat.VecDense // n
	force   []float64     // scratch, length n

	// cursor: last level whose contribution is currently reflected in
	// primal, +infinity (math.MaxInt) when no level currently holds a
	// factorization.
	cursor int

	primalValid bool
	slackValid  bool
	lowSlack    []float64
	upSlack     []float64
}

// NewSolver preallocates a solver for problems with up to m rows and n
// variables.
func NewSolver(m, n int, opts ...Option) (*Solver, error) {
	if m <= 0 || n <= 0 {
		return nil, invalidArgf("m=%d n=%d must both be positive", m, n)
	}

	s := &Solver{
		Tolerance: defaultTolerance,
		m:         m,
		n:         n,
		maxLevels: m,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.iterationLimit == 0 {
		s.iterationLimit = min(2000, 10*m*s.maxLevels)
	}
	p := s.maxLevels

	s.maxRank = min(m, n)

	s.metricInv = identity(n)

	s.a = mat.NewDense(m, n, nil)
	s.l = make([]float64, m)
	s.u = make([]float64, m)
	s.equality = make([]bool, m)
	s.rowLevel = make([]int, m)
	s.breaks = make([]int, p)
	s.start = make([]int, p)

	s.activeLow = make([]bool, m)
	s.activeUp = make([]bool, m)
	s.locked = make([]bool, m)
	s.dual = make([]float64, m)
	s.perm = make([]int, m)
	for i := range s.perm {
		s.perm[i] = i
	}

	s.breaksFix = make([]int, p)
	s.breaksAct = make([]int, p)

	s.ranks = make([]int, p)
	s.dofs = make([]int, p)
	s.computed = make([]bool, p)
	s.codMid = make([]*mat.Dense, p)
	s.codRight = make([]*mat.Dense, p)
	for k := 0; k < p; k++ {
		s.codMid[k] = mat.NewDense(s.maxRank, s.maxRank, nil)
		s.codRight[k] = mat.NewDense(n, n, nil)
	}
	s.codLefts = mat.NewDense(m, s.maxRank, nil)

	s.primal = mat.NewVecDense(n, nil)
	s.task = make([]float64, n)
	s.guess = mat.NewVecDense(n, nil)
	s.inverse = mat.NewDense(n, n, nil)
	s.tau = mat.NewVecDense(n, nil)
	s.force = make([]float64, n)

	s.lowSlack = make([]float64, m)
	s.upSlack = make([]float64, m)

	s.p = 0
	s.cursor = math.MaxInt

	return s, nil
}

func identity(n int) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, one)
	}
	return d
}

func (s *Solver) invalidateCaches() {
	s.primalValid = false
	s.slackValid = false
}
