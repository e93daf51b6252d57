// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nmk

import "errors"

const (
	zero = 0.0
	half = 0.5
	one  = 1.0
	two  = 2.0
)

// Coefficients of the simplex transformations.
const (
	rho   = 1.0 // reflection
	chi   = 2.0 // expansion
	gamma = 0.5 // contraction
	sigma = 0.5 // shrink
)

const (
	// the simplex is considered collapsed once its relative size drops below sizeTol
	sizeTol = 1e-6
	// fraction of the largest edge used for the sufficient decrease test
	armijoFactor = 1e-4
	// dimension above which Nelder-Mead is known to degrade
	highDim = 30
)

var (
	// ErrInvalidDimension is returned for one dimensional problems,
	// which should be solved with a univariate method instead.
	ErrInvalidDimension = errors.New("nmk: univariate problem is not supported, use a line search method")
	// ErrDegenerateSimplex is returned when the edge system of the simplex
	// is singular and the simplex gradient cannot be computed.
	ErrDegenerateSimplex = errors.New("nmk: degenerate simplex")
)

// Status describes why the optimizer stopped.
type Status int

const (
	// Converged the spread of function values or the simplex size is below tolerance.
	Converged Status = iota
	// TargetReached the best function value reached the requested target.
	TargetReached
	// OverEvalLimit the number of function evaluations reached the limit.
	OverEvalLimit
	// Stagnation the number of oriented restarts reached the limit.
	Stagnation
	// HaltEvalPanic the objective panicked and the iteration was halted.
	HaltEvalPanic
)

// Code returns the convergence code: 0 on success, 1 when the evaluation
// budget is exhausted, 2 when the method stagnates and 3 when the objective panicked.
func (s Status) Code() int {
	switch s {
	case Converged, TargetReached:
		return 0
	case OverEvalLimit:
		return 1
	case HaltEvalPanic:
		return 3
	default:
		return 2
	}
}

// Message returns a human-readable description of the status.
func (s Status) Message() string {
	switch s {
	case Converged:
		return "Successful convergence"
	case TargetReached:
		return "Target value reached"
	case OverEvalLimit:
		return "Maximum number of fevals exceeded"
	case Stagnation:
		return "Stagnation in Nelder-Mead"
	case HaltEvalPanic:
		return "Objective evaluation panicked"
	default:
		return "Unknown status"
	}
}

func (s Status) String() string {
	return s.Message()
}
