// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nmk

import "gonum.org/v1/gonum/floats"

// move is the transformation applied to the simplex in one iteration.
type move int

const (
	moveReflect move = iota
	moveExpand
	moveContractOut
	moveContractIn
	moveShrink
)

func (m move) String() string {
	switch m {
	case moveReflect:
		return "reflect"
	case moveExpand:
		return "expand"
	case moveContractOut:
		return "contract outside"
	case moveContractIn:
		return "contract inside"
	case moveShrink:
		return "shrink"
	default:
		return "unknown"
	}
}

// classify selects the transformation from the best value f₀, the second worst value fₙ₋₁,
// the worst value fₙ and the value fr at the reflected point. The first matching rule wins:
//
//	f₀ ≤ fr < fₙ₋₁  reflect
//	fr < f₀         expand
//	fₙ₋₁ ≤ fr < fₙ  contract outside
//	fr ≥ fₙ         contract inside
//
// Only incomparable (NaN) values fall through to shrink.
func classify(f0, fs, fw, fr float64) move {
	switch {
	case f0 <= fr && fr < fs:
		return moveReflect
	case fr < f0:
		return moveExpand
	case fs <= fr && fr < fw:
		return moveContractOut
	case fr >= fw:
		return moveContractIn
	}
	return moveShrink
}

// affine computes the trial point dst = (1+t)x̄ - t xₙ on the line through
// the centroid x̄ and the worst vertex xₙ:
//
//	t = ρ     reflection
//	t = ρχ    expansion
//	t = ργ    outside contraction
//	t = -γ    inside contraction
func affine(dst, xbar, worst []float64, t float64) []float64 {
	floats.ScaleTo(dst, one+t, xbar)
	floats.AddScaled(dst, -t, worst)
	return dst
}

// transform tries to replace the worst vertex.
// When ok is true the candidate xnew with value fnew should enter the simplex,
// otherwise the simplex must be shrunk. xnew aliases the workspace.
func (d *iterDriver) transform() (xnew []float64, fnew float64, mv move, ok bool) {
	w := d.workspace
	n := w.n

	xbar := w.centroid()
	worst := w.vertex(n)

	xr := affine(w.xr, xbar, worst, rho)
	fr := d.evaluate(xr)

	mv = classify(w.f[0], w.f[n-1], w.f[n], fr)
	switch mv {
	case moveReflect:
		return xr, fr, mv, true
	case moveExpand:
		xe := affine(w.xt, xbar, worst, rho*chi)
		if fe := d.evaluate(xe); fe < fr {
			return xe, fe, mv, true
		}
		return xr, fr, moveReflect, true
	case moveContractOut:
		xc := affine(w.xt, xbar, worst, rho*gamma)
		if fc := d.evaluate(xc); fc <= fr {
			return xc, fc, mv, true
		}
	case moveContractIn:
		xc := affine(w.xt, xbar, worst, -gamma)
		if fc := d.evaluate(xc); fc < w.f[n] {
			return xc, fc, mv, true
		}
	}
	return nil, zero, moveShrink, false
}
