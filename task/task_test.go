// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/gianluca-garofalo/Weighted-Hierarchical-QP/task"
)

func TestStackOfTasksBuildConcatenates(t *testing.T) {
	st := task.StackOfTasks{
		Tasks: []task.Task{
			{
				Name: "position",
				Compute: func() (*mat.Dense, []float64, []float64, error) {
					a := mat.NewDense(1, 2, []float64{1, 0})
					return a, []float64{1}, []float64{1}, nil
				},
			},
			{
				Name: "posture",
				Compute: func() (*mat.Dense, []float64, []float64, error) {
					a := mat.NewDense(1, 2, []float64{0, 1})
					return a, []float64{-5}, []float64{5}, nil
				},
			},
		},
	}

	a, l, u, breaks, err := st.Build(2)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, breaks)
	assert.Equal(t, []float64{1, -5}, l)
	assert.Equal(t, []float64{1, 5}, u)
	assert.Equal(t, 1.0, a.At(0, 0))
	assert.Equal(t, 1.0, a.At(1, 1))
}

func TestTaskColumnsMapIntoFullVector(t *testing.T) {
	st := task.StackOfTasks{
		Tasks: []task.Task{
			{
				Name:    "arm-only",
				Columns: []int{2},
				Compute: func() (*mat.Dense, []float64, []float64, error) {
					a := mat.NewDense(1, 1, []float64{1})
					return a, []float64{0}, []float64{0}, nil
				},
			},
		},
	}

	a, _, _, _, err := st.Build(3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, a.At(0, 0))
	assert.Equal(t, 0.0, a.At(0, 1))
	assert.Equal(t, 1.0, a.At(0, 2))
}

func TestTaskWeightScalesRows(t *testing.T) {
	st := task.StackOfTasks{
		Tasks: []task.Task{
			{
				Name:   "scaled",
				Weight: mat.NewDense(1, 1, []float64{2}),
				Compute: func() (*mat.Dense, []float64, []float64, error) {
					a := mat.NewDense(1, 1, []float64{1})
					return a, []float64{3}, []float64{3}, nil
				},
			},
		},
	}

	a, l, u, _, err := st.Build(1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, a.At(0, 0))
	assert.Equal(t, 6.0, l[0])
	assert.Equal(t, 6.0, u[0])
}

func TestStackOfTasksRejectsEmpty(t *testing.T) {
	_, _, _, _, err := task.StackOfTasks{}.Build(1)
	assert.Error(t, err)
}

func TestTaskRejectsMismatchedBounds(t *testing.T) {
	st := task.StackOfTasks{
		Tasks: []task.Task{
			{
				Name: "bad",
				Compute: func() (*mat.Dense, []float64, []float64, error) {
					a := mat.NewDense(2, 1, []float64{1, 1})
					return a, []float64{0}, []float64{0, 0}, nil
				},
			},
		},
	}
	_, _, _, _, err := st.Build(1)
	assert.Error(t, err)
}
