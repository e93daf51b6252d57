// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nmk

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// armijoStep returns the step α = 𝚏𝚊𝚌𝚝𝚘𝚛 × 𝚖𝚊𝚡ⱼ ‖vⱼ - v₀‖₂ / ‖g‖₂ used by the
// sufficient decrease test. It is fixed once from the initial simplex.
func armijoStep(diam, sgrad []float64) float64 {
	return armijoFactor * floats.Max(diam) / floats.Norm(sgrad, 2)
}

// armijoThreshold returns the decrease α‖g‖²/n the mean simplex value must achieve.
func armijoThreshold(alpha float64, sgrad []float64) float64 {
	return alpha * floats.Dot(sgrad, sgrad) / float64(len(sgrad))
}

// insufficient reports whether replacing the worst vertex by a point with value fnew
// fails the sufficient decrease condition on the mean simplex value:
//
//	f̄₊ - f̄ > -α‖g‖²/n
//
// where f̄ is the mean before the step and f̄₊ the mean after it.
func (s *simplex) insufficient(fbc, fnew, alpha float64) bool {
	n := s.n
	fbt := (floats.Sum(s.f[:n]) + fnew) / float64(n+1)
	return fbt-fbc > -armijoThreshold(alpha, s.sgrad)
}

// orient rebuilds every non-best vertex j as v₀ - hₘᵢₙ sⱼeⱼ where hₘᵢₙ is the
// shortest edge and sⱼ = 𝚜𝚒𝚐𝚗(½ + 𝚜𝚒𝚐𝚗(gⱼ)), pointing the simplex against the
// simplex gradient. A zero gradient component counts as positive so no vertex
// collapses onto v₀. The values of the rebuilt vertices are left untouched.
func (s *simplex) orient() {
	n := s.n
	h := floats.Min(s.diam)
	best := s.vertex(0)
	for j := 1; j <= n; j++ {
		vj := s.vertex(j)
		copy(vj, best)
		vj[j-1] -= h * sign(half+sign(s.sgrad[j-1]))
	}
}

// shrink moves every non-best vertex halfway towards the best one and re-evaluates it.
func (s *simplex) shrink(eval func([]float64) float64) {
	n := s.n
	best := s.vertex(0)
	for j := 1; j <= n; j++ {
		vj := s.vertex(j)
		floats.Scale(sigma, vj)
		floats.AddScaled(vj, one-sigma, best)
		s.f[j] = eval(vj)
	}
}

func sign(x float64) float64 {
	switch {
	case x > zero:
		return one
	case x < zero:
		return -one
	case math.IsNaN(x):
		return x
	}
	return zero
}
