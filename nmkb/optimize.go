// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nmkb solves box constrained problems with the Nelder-Mead method
// by optimizing over a transformed unconstrained domain.
package nmkb

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/curioloop/optimizer/nmk"
)

// ErrInfeasibleStart is returned when the initial point is not strictly inside the bounds.
var ErrInfeasibleStart = errors.New("nmkb: starting value is not in the interior of the feasible region")

// Problem specifies the problem for bounded Nelder-Mead optimizer.
type Problem struct {
	N        int             // The problem dimension
	Object   nmk.Objective   // Objective function
	Stop     nmk.Termination // Stop condition
	Regular  bool            // Start from a regular simplex instead of an axis-aligned one
	Maximize bool            // Maximize the objective instead of minimizing it
	Bounds   []Bound         // Optional bounds
}

// New creates a new bounded Nelder-Mead optimizer for given problem.
func (p *Problem) New(logger *nmk.Logger) (optimizer *Optimizer, err error) {

	n, bounds := p.N, p.Bounds

	switch {
	case n <= 0:
		return nil, errors.New("problem dimension must greater than 0")
	case p.Object == nil:
		return nil, errors.New("objective function is required")
	}

	if bounds == nil {
		bounds = make([]Bound, n)
		for i := range bounds {
			bounds[i].Upper = math.NaN()
			bounds[i].Lower = math.NaN()
		}
	}

	if len(bounds) != n {
		return nil, errors.New("bounds size must equal to n")
	}

	bounds = slices.Clone(bounds)
	for k, b := range bounds {
		if math.IsInf(b.Lower, -1) {
			b.Lower = math.NaN()
		}
		if math.IsInf(b.Upper, 1) {
			b.Upper = math.NaN()
		}
		l, u := !math.IsNaN(b.Lower), !math.IsNaN(b.Upper)
		if (l && math.IsInf(b.Lower, 0)) || (u && math.IsInf(b.Upper, 0)) || (l && u && b.Lower >= b.Upper) {
			return nil, fmt.Errorf("bound range at %d has no interior", k)
		}
		switch {
		case l && u:
			b.hint = bndBoth
		case l:
			b.hint = bndLow
		case u:
			b.hint = bndUp
		default:
			b.hint = bndNo
		}
		bounds[k] = b
	}

	// the inner problem sees the objective through the inverse transform
	obj := p.Object
	scratch := make([]float64, n)
	inner := nmk.Problem{
		N: n,
		Object: func(y []float64) float64 {
			toBound(bounds, y, scratch)
			return obj(scratch)
		},
		Stop:     p.Stop,
		Regular:  p.Regular,
		Maximize: p.Maximize,
	}

	core, err := inner.New(logger)
	if err != nil {
		return nil, err
	}

	optimizer = &Optimizer{
		n:      n,
		core:   core,
		bounds: bounds,
	}
	return
}

// Optimizer wraps a Nelder-Mead optimizer with a bound transformation.
// Unlike the unbounded optimizer it must not be shared between goroutines,
// since the transformed objective owns a scratch vector.
type Optimizer struct {
	n      int
	core   *nmk.Optimizer
	bounds []Bound
}

// Init allocate the workspace for bounded Nelder-Mead optimizer.
func (o *Optimizer) Init() *nmk.Workspace {
	return o.core.Init()
}

// Fit runs the optimization process from the strictly feasible initial guess x.
// The returned solution is mapped back into the bounds.
func (o *Optimizer) Fit(x []float64, w *nmk.Workspace) (*nmk.Result, error) {

	if len(x) != o.n {
		panic("initial x dimension not match problem")
	}

	if !interior(o.bounds, x) {
		return nil, ErrInfeasibleStart
	}

	y := make([]float64, o.n)
	toFree(o.bounds, x, y)

	r, err := o.core.Fit(y, w)
	if err != nil {
		return nil, err
	}

	toBound(o.bounds, r.X, r.X)
	return r, nil
}
