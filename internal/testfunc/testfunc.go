// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testfunc provides benchmark objectives with known minima.
package testfunc

import (
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Func describes a benchmark objective.
type Func struct {
	Name   string
	Doc    string
	Dim    int       // Fixed dimension, zero if any dimension ≥ 2 is accepted
	Eval   func(x []float64) float64
	Start  []float64 // Customary starting point
	Min    float64   // Known minimum value
	ArgMin []float64 // Known minimizer for the customary dimension
}

// Accepts reports whether the objective is defined for dimension n.
func (f Func) Accepts(n int) bool {
	if f.Dim > 0 {
		return n == f.Dim
	}
	return n >= 2
}

// Sphere is ∑ xᵢ².
func Sphere(x []float64) float64 {
	return floats.Dot(x, x)
}

// Rosenbrock is ∑ 100(xᵢ₊₁ - xᵢ²)² + (1 - xᵢ)².
func Rosenbrock(x []float64) (f float64) {
	for i := 0; i < len(x)-1; i++ {
		a, b := x[i+1]-x[i]*x[i], 1-x[i]
		f += 100*a*a + b*b
	}
	return
}

// NonSmooth is a piecewise maximum of three quadratics in the plane.
// The minimum 7.2 lies on a kink at (1.2, 2.4).
func NonSmooth(x []float64) float64 {
	x1, x2 := x[0], x[1]
	base := x1*x1 + x2*x2
	return math.Max(base, math.Max(base+10*(-4*x1-x2+4), base+10*(-x1-2*x2+6)))
}

// Powell is the singular function of Powell in four variables.
// Its Hessian is singular at the minimizer.
func Powell(x []float64) float64 {
	a := x[0] + 10*x[1]
	b := x[2] - x[3]
	c := x[1] - 2*x[2]
	d := x[0] - x[3]
	return a*a + 5*b*b + c*c*c*c + 10*d*d*d*d
}

// Orthant is ∑ (xᵢ - ½)², undefined (NaN) outside the non-negative orthant.
func Orthant(x []float64) (f float64) {
	for _, v := range x {
		if v < 0 {
			return math.NaN()
		}
		f += (v - 0.5) * (v - 0.5)
	}
	return
}

var registry = []Func{
	{
		Name:   "sphere",
		Doc:    "sum of squares",
		Eval:   Sphere,
		Start:  []float64{1, 1},
		ArgMin: []float64{0, 0},
	},
	{
		Name:   "rosenbrock",
		Doc:    "banana valley",
		Eval:   Rosenbrock,
		Start:  []float64{-1.2, 1},
		ArgMin: []float64{1, 1},
	},
	{
		Name:   "nonsmooth",
		Doc:    "maximum of three quadratics",
		Dim:    2,
		Eval:   NonSmooth,
		Start:  []float64{1, 1},
		Min:    7.2,
		ArgMin: []float64{1.2, 2.4},
	},
	{
		Name:   "powell",
		Doc:    "Powell singular function",
		Dim:    4,
		Eval:   Powell,
		Start:  []float64{3, -1, 0, 1},
		ArgMin: []float64{0, 0, 0, 0},
	},
	{
		Name:   "orthant",
		Doc:    "shifted sphere, NaN outside x ≥ 0",
		Eval:   Orthant,
		Start:  []float64{2, 2},
		ArgMin: []float64{0.5, 0.5},
	},
}

// Lookup returns the objective registered under the case-insensitive name.
func Lookup(name string) (Func, bool) {
	i := slices.IndexFunc(registry, func(f Func) bool {
		return strings.EqualFold(f.Name, name)
	})
	if i < 0 {
		return Func{}, false
	}
	return registry[i], true
}

// All returns every registered objective ordered by name.
func All() []Func {
	all := slices.Clone(registry)
	slices.SortFunc(all, func(a, b Func) int { return strings.Compare(a.Name, b.Name) })
	return all
}
