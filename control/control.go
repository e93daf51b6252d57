// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package control resolves the control parameters of the Nelder-Mead optimizers
// from loosely typed option maps and runs the optimizers with them.
package control

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/curioloop/optimizer/nmk"
	"github.com/curioloop/optimizer/nmkb"
)

var (
	// ErrUnrecognizedOption is returned for an option key that is not known.
	ErrUnrecognizedOption = errors.New("unrecognized option")
	// ErrInvalidValue is returned when an option has the wrong type or range.
	ErrInvalidValue = errors.New("invalid option value")
)

// Option keys.
const (
	KeyTol         = "tol"
	KeyMaxFEval    = "maxfeval"
	KeyRegSimp     = "regsimp"
	KeyMaximize    = "maximize"
	KeyMaxRestarts = "restarts.max"
	KeyTrace       = "trace"
)

// Keys lists every recognized option key.
var Keys = []string{KeyTol, KeyMaxFEval, KeyRegSimp, KeyMaximize, KeyMaxRestarts, KeyTrace}

// Control holds the resolved control parameters.
type Control struct {
	Tol         float64 // Spread tolerance
	MaxFEval    int     // Evaluation budget
	RegSimp     bool    // Regular initial simplex
	Maximize    bool    // Maximize instead of minimize
	MaxRestarts int     // Oriented restart budget
	Trace       bool    // Print iteration progress
}

// Default returns the default controls for problem dimension n.
func Default(n int) Control {
	stop := nmk.DefaultTermination(n)
	return Control{
		Tol:         stop.Tolerance,
		MaxFEval:    stop.MaxEvaluations,
		RegSimp:     true,
		MaxRestarts: stop.MaxRestarts,
	}
}

// Resolve applies the options on top of the defaults for dimension n.
// Numeric options accept any integral or floating value, flags accept booleans only.
func Resolve(n int, opts map[string]any) (Control, error) {

	c := Default(n)

	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var err error
	for _, k := range keys {
		v := opts[k]
		switch k {
		case KeyTol:
			c.Tol, err = toFloat(k, v)
		case KeyMaxFEval:
			c.MaxFEval, err = toInt(k, v)
		case KeyMaxRestarts:
			c.MaxRestarts, err = toInt(k, v)
		case KeyRegSimp:
			c.RegSimp, err = toBool(k, v)
		case KeyMaximize:
			c.Maximize, err = toBool(k, v)
		case KeyTrace:
			c.Trace, err = toBool(k, v)
		default:
			err = fmt.Errorf("%w: %q", ErrUnrecognizedOption, k)
		}
		if err != nil {
			return Control{}, err
		}
	}

	if err = c.Validate(); err != nil {
		return Control{}, err
	}
	return c, nil
}

// Validate checks the ranges of the controls.
func (c Control) Validate() error {
	switch {
	case math.IsNaN(c.Tol) || c.Tol < 0:
		return fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalidValue, KeyTol, c.Tol)
	case c.MaxFEval <= 0:
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidValue, KeyMaxFEval, c.MaxFEval)
	case c.MaxRestarts <= 0:
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidValue, KeyMaxRestarts, c.MaxRestarts)
	}
	return nil
}

// Termination converts the controls into stop conditions.
func (c Control) Termination() nmk.Termination {
	return nmk.Termination{
		Tolerance:      c.Tol,
		MaxEvaluations: c.MaxFEval,
		MaxRestarts:    c.MaxRestarts,
	}
}

// Logger returns a logger writing to w. Tracing prints the progress of every
// second iteration, otherwise only warnings are printed.
func (c Control) Logger(w io.Writer) *nmk.Logger {
	level := nmk.LogWarn
	if c.Trace {
		level = nmk.LogIter
	}
	return &nmk.Logger{Level: level, Msg: w, Out: w}
}

// Run minimizes (or maximizes) obj from x0.
func (c Control) Run(obj nmk.Objective, x0 []float64, w io.Writer) (*nmk.Result, error) {
	p := nmk.Problem{
		N:        len(x0),
		Object:   obj,
		Stop:     c.Termination(),
		Regular:  c.RegSimp,
		Maximize: c.Maximize,
	}
	o, err := p.New(c.Logger(w))
	if err != nil {
		return nil, err
	}
	return o.Fit(x0, o.Init())
}

// RunBounded is like Run but keeps every evaluated point inside the bounds.
func (c Control) RunBounded(obj nmk.Objective, x0 []float64, bounds []nmkb.Bound, w io.Writer) (*nmk.Result, error) {
	p := nmkb.Problem{
		N:        len(x0),
		Object:   obj,
		Stop:     c.Termination(),
		Regular:  c.RegSimp,
		Maximize: c.Maximize,
		Bounds:   bounds,
	}
	o, err := p.New(c.Logger(w))
	if err != nil {
		return nil, err
	}
	return o.Fit(x0, o.Init())
}

// Optimize resolves the options for len(x0) variables and runs the optimizer.
func Optimize(obj nmk.Objective, x0 []float64, opts map[string]any, w io.Writer) (*nmk.Result, error) {
	c, err := Resolve(len(x0), opts)
	if err != nil {
		return nil, err
	}
	return c.Run(obj, x0, w)
}

func toFloat(key string, v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	}
	return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidValue, key, v)
}

func toInt(key string, v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case uint64:
		if x <= math.MaxInt {
			return int(x), nil
		}
	case float64:
		if x == math.Trunc(x) && math.Abs(x) <= math.MaxInt32 {
			return int(x), nil
		}
	}
	return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidValue, key, v)
}

func toBool(key string, v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("%w: %s must be a boolean, got %T", ErrInvalidValue, key, v)
}
