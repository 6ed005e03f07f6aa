// Copyright ©2026 Gianluca Garofalo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// buildHouseholder constructs the Householder vector v (v[0] = 1) and
// scalar beta such that (I - beta·v·vᵀ)x = ±‖x‖₂·e₁. x is left untouched;
// the caller applies the reflector explicitly via applyHouseholderLeft.
//
// G.H. Golub, C.F. Van Loan, 'Matrix Computations' 4th ed., Algorithm 5.1.1.
func buildHouseholder(x []float64) (v []float64, beta float64) {
	n := len(x)
	v = make([]float64, n)
	copy(v, x)
	if n == 0 {
		return v, 0
	}

	sigma := zero
	for i := 1; i < n; i++ {
		sigma += x[i] * x[i]
	}
	v[0] = 1
	if sigma == zero && x[0] >= zero {
		return v, 0
	}
	if sigma == zero && x[0] < zero {
		return v, 2
	}

	mu := math.Sqrt(x[0]*x[0] + sigma)
	if x[0] <= zero {
		v[0] = x[0] - mu
	} else {
		v[0] = -sigma / (x[0] + mu)
	}
	v0sq := v[0] * v[0]
	beta = 2 * v0sq / (sigma + v0sq)
	for i := 1; i < n; i++ {
		v[i] /= v[0]
	}
	v[0] = 1
	return v, beta
}

// applyHouseholderLeft applies (I - beta·v·vᵀ) to a's rows
// [rowStart, rowStart+len(v)) restricted to columns [colStart, ncol).
func applyHouseholderLeft(a *mat.Dense, v []float64, beta float64, rowStart, colStart int) {
	if beta == 0 {
		return
	}
	_, ncol := a.Dims()
	m := len(v)
	for c := colStart; c < ncol; c++ {
		s := zero
		for i := 0; i < m; i++ {
			s += v[i] * a.At(rowStart+i, c)
		}
		s *= beta
		for i := 0; i < m; i++ {
			a.Set(rowStart+i, c, a.At(rowStart+i, c)-s*v[i])
		}
	}
}
