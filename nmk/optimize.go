// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nmk

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
)

// LogLevel controls the frequency and type of logger output
type LogLevel int

const (
	// LogNoop no output is generated
	LogNoop LogLevel = -1
	// LogWarn print only warnings about the problem setup
	LogWarn LogLevel = 0
	// LogLast print also one summary line at the last iteration
	LogLast LogLevel = 1
	// LogIter print also the progress of every second iteration
	LogIter LogLevel = 2
	// LogVerbose print also the move taken by every iteration and each oriented restart
	LogVerbose LogLevel = 3
)

// Logger handles logging output for the optimizer.
// Note the writers must be thread-safe.
type Logger struct {
	Level LogLevel
	Msg   io.Writer // Writer to output log messages.
	Out   io.Writer // Writer for output data.
}

func (l *Logger) enable(level LogLevel) bool {
	return l.Level >= level
}

func (l *Logger) log(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}

func (l *Logger) out(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Out, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Out, format)
	}
}

// Objective is the function to optimize.
// A NaN result marks x as infeasible and is treated as +Inf.
type Objective func(x []float64) float64

// Termination specifies the stopping criteria for the optimization algorithm.
type Termination struct {
	// The iteration stop when the spread of function values over the simplex satisfied:
	//   fₙ - f₀ ≤ 𝚝𝚘𝚕
	Tolerance float64
	// The iteration stop when the total number of function evaluation exceeds limit.
	// Zero selects 𝚖𝚒𝚗(5000, 𝚖𝚊𝚡(1500, 20n²)).
	MaxEvaluations int
	// The iteration stop when the number of oriented restarts exceeds limit.
	// Zero selects 3.
	MaxRestarts int
	// The iteration stop when the best function value is not worse than Target.
	// Nil disables the check.
	Target *float64
}

// DefaultTermination returns the default stopping criteria for problem dimension n.
func DefaultTermination(n int) Termination {
	return Termination{
		Tolerance:      1e-6,
		MaxEvaluations: defaultMaxEval(n),
		MaxRestarts:    3,
	}
}

func defaultMaxEval(n int) int {
	return min(5000, max(1500, 20*n*n))
}

// Problem specifies the problem for Nelder-Mead optimizer.
type Problem struct {
	N        int         // The problem dimension
	Object   Objective   // Objective function
	Stop     Termination // Stop condition
	Regular  bool        // Start from a regular simplex instead of an axis-aligned one
	Maximize bool        // Maximize the objective instead of minimizing it
}

// New creates a new Nelder-Mead optimizer for given problem.
func (p *Problem) New(logger *Logger) (optimizer *Optimizer, err error) {

	if logger == nil {
		logger = new(Logger)
		logger.Level = LogNoop
	}
	if logger.Msg == nil {
		logger.Msg = os.Stdout
	}
	if logger.Out == nil {
		logger.Out = os.Stderr
	}

	n, obj, stop := p.N, p.Object, p.Stop

	if stop.MaxEvaluations == 0 {
		stop.MaxEvaluations = defaultMaxEval(n)
	}
	if stop.MaxRestarts == 0 {
		stop.MaxRestarts = 3
	}

	switch {
	case n == 1:
		err = ErrInvalidDimension
	case n <= 0:
		err = errors.New("problem dimension must greater than 0")
	case obj == nil:
		err = errors.New("objective function is required")
	case math.IsNaN(stop.Tolerance) || stop.Tolerance < zero:
		err = errors.New("tolerance must not less than 0")
	case stop.MaxEvaluations < 0:
		err = errors.New("max evaluations must greater than 0")
	case stop.MaxRestarts < 0:
		err = errors.New("max restarts must greater than 0")
	case stop.Target != nil && math.IsNaN(*stop.Target):
		err = errors.New("target value must be a number")
	}

	if err != nil {
		return
	}

	if n > highDim && logger.enable(LogWarn) {
		logger.log("Warning: Nelder-Mead should not be used for high-dimensional optimization (n = %d > %d)\n", n, highDim)
	}

	eval := obj
	if p.Maximize {
		eval = func(x []float64) float64 { return -obj(x) }
	}

	var target *float64
	if stop.Target != nil {
		t := *stop.Target
		if p.Maximize {
			t = -t
		}
		target = &t
	}

	optimizer = &Optimizer{
		iterSpec{
			n:        n,
			eval:     eval,
			stop:     stop,
			target:   target,
			regular:  p.Regular,
			maximize: p.Maximize,
			logger:   *logger,
		},
	}
	return
}

type iterSpec struct {
	n        int
	eval     Objective
	stop     Termination
	target   *float64 // in minimization scale
	regular  bool
	maximize bool
	logger   Logger
	// observe is called after every iteration once the simplex is reordered.
	observe func(w *Workspace)
}

// sign converts a value between the caller scale and the minimization scale.
func (s *iterSpec) sign(f float64) float64 {
	if s.maximize {
		return -f
	}
	return f
}

// Optimizer implemented using the Nelder-Mead algorithm with oriented restarts.
type Optimizer struct {
	iterSpec
}

// Workspace contains the state and context of the optimization process.
// Given problem dimension n, total work space is approximately float64[3n² + 9n].
type Workspace struct {
	n int
	simplex
	iterCtx
}

// Result contains the final result of the optimization process.
type Result struct {
	OK      bool      // Whether the optimization was converged.
	F       float64   // Final function value.
	X       []float64 // Final solution.
	Summary           // Optimization summary.
}

// Summary contains a summary of the optimization process.
type Summary struct {
	Status     Status // Final status after optimization.
	NumIter    int    // Number of iterations performed.
	NumEval    int    // Number of function evaluations performed.
	NumRestart int    // Number of oriented restarts performed.
}

// Init allocate the workspace for Nelder-Mead optimizer.
// To avoid race conditions, separate workspaces need to be created for each goroutine.
// But multiple workspaces could share one optimizer.
func (o *Optimizer) Init() *Workspace {
	w := new(Workspace)
	w.n = o.n
	w.simplex.init(w.n)
	return w
}

// Fit runs the optimization process using the initial guess x and workspace w.
// An error is returned only when the simplex degenerates; running out of
// evaluations or restarts is reported by the result status.
func (o *Optimizer) Fit(x []float64, w *Workspace) (*Result, error) {

	if len(x) != o.n {
		panic("initial x dimension not match problem")
	}

	if w.n != o.n {
		panic("workspace dimension not match problem")
	}

	driver := iterDriver{
		optimizer: o,
		workspace: w,
	}

	res, err := driver.mainLoop(x)
	if err != nil {
		return nil, err
	}
	return &Result{
		OK: res.Code() == 0,
		X:  slices.Clone(w.vertex(0)),
		F:  o.sign(w.f[0]),
		Summary: Summary{
			Status:     res,
			NumIter:    w.iter,
			NumEval:    w.numEval,
			NumRestart: w.restarts,
		},
	}, nil
}

// Minimize runs the optimizer from a regular initial simplex.
// Only warnings are printed, to standard error.
func Minimize(obj Objective, x []float64, stop Termination) (*Result, error) {
	p := Problem{N: len(x), Object: obj, Stop: stop, Regular: true}
	o, err := p.New(warnLogger())
	if err != nil {
		return nil, err
	}
	return o.Fit(x, o.Init())
}

// Maximize is like Minimize but searches for the largest value of obj.
func Maximize(obj Objective, x []float64, stop Termination) (*Result, error) {
	p := Problem{N: len(x), Object: obj, Stop: stop, Regular: true, Maximize: true}
	o, err := p.New(warnLogger())
	if err != nil {
		return nil, err
	}
	return o.Fit(x, o.Init())
}

func warnLogger() *Logger {
	return &Logger{Level: LogWarn, Msg: os.Stderr, Out: os.Stderr}
}
