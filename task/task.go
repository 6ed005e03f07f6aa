// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package task supplies the thin external-collaborator layer the hqp core
// consumes but does not itself implement: turning a set of named,
// independently-computed constraint blocks into the single (A, l, u,
// breaks) tuple hqp.Solver.SetProblem expects.
package task

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Task is one priority level's worth of constraints, produced lazily by
// Compute. Weight, when non-nil, is the upper-triangular Cholesky factor of
// a per-task metric; the task's rows are scaled by it before joining the
// stack, exactly as a caller would scale rows of a weighted least-squares
// block before concatenation. Columns, when non-nil, maps this task's own
// column indices onto the full variable vector; nil means the task already
// spans all n columns in order.
type Task struct {
	Name    string
	Weight  *mat.Dense
	Columns []int
	Compute func() (a *mat.Dense, l, u []float64, err error)
}

func (t Task) build(n int) (a *mat.Dense, l, u []float64, err error) {
	a, l, u, err = t.Compute()
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "task %q: compute failed", t.Name)
	}
	rows, cols := a.Dims()
	if len(l) != rows || len(u) != rows {
		return nil, nil, nil, errors.Errorf("task %q: l/u length %d/%d does not match %d rows", t.Name, len(l), len(u), rows)
	}

	if t.Columns != nil {
		if cols != len(t.Columns) {
			return nil, nil, nil, errors.Errorf("task %q: column mask length %d does not match A's %d columns", t.Name, len(t.Columns), cols)
		}
		full := mat.NewDense(rows, n, nil)
		for r := 0; r < rows; r++ {
			for c, col := range t.Columns {
				full.Set(r, col, a.At(r, c))
			}
		}
		a = full
	} else if cols != n {
		return nil, nil, nil, errors.Errorf("task %q: A has %d columns, want %d", t.Name, cols, n)
	}

	if t.Weight != nil {
		wr, wc := t.Weight.Dims()
		if wr != rows || wc != rows {
			return nil, nil, nil, errors.Errorf("task %q: weight shape %dx%d does not match %d rows", t.Name, wr, wc, rows)
		}
		weighted := mat.NewDense(rows, n, nil)
		weighted.Mul(t.Weight, a)
		a = weighted

		wl := mat.NewVecDense(rows, nil)
		wu := mat.NewVecDense(rows, nil)
		wl.MulVec(t.Weight, mat.NewVecDense(rows, append([]float64(nil), l...)))
		wu.MulVec(t.Weight, mat.NewVecDense(rows, append([]float64(nil), u...)))
		l = append([]float64(nil), wl.RawVector().Data...)
		u = append([]float64(nil), wu.RawVector().Data...)
	}

	return a, l, u, nil
}

// StackOfTasks concatenates an ordered set of tasks into the (A, l, u,
// breaks) tuple the core solver consumes, one priority level per task.
type StackOfTasks struct {
	Tasks []Task
}

// Build evaluates every task's Compute closure in order and concatenates
// the results. n is the total number of decision variables.
func (st StackOfTasks) Build(n int) (a *mat.Dense, l, u []float64, breaks []int, err error) {
	if len(st.Tasks) == 0 {
		return nil, nil, nil, nil, errors.New("task: stack of tasks is empty")
	}

	var rows [][]float64
	total := 0
	for _, t := range st.Tasks {
		ta, tl, tu, err := t.build(n)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		r, _ := ta.Dims()
		for i := 0; i < r; i++ {
			row := make([]float64, n)
			mat.Row(row, i, ta)
			rows = append(rows, row)
		}
		l = append(l, tl...)
		u = append(u, tu...)
		total += r
		breaks = append(breaks, total)
	}

	full := mat.NewDense(total, n, nil)
	for i, row := range rows {
		full.SetRow(i, row)
	}
	return full, l, u, breaks, nil
}
