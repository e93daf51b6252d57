// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nmk

import (
	"math"
)

// iterCtx holds the counters and measures that drive termination.
type iterCtx struct {
	// outer iterations
	iter int
	// objective evaluations
	numEval int
	// oriented restarts
	restarts int
	// spread of function values fₙ - f₀
	dist float64
	// relative simplex size
	size float64
	// Armijo step fixed from the initial simplex
	alpha float64
	// set once the objective panicked
	halted bool
}

// iterDriver is the main driver for iterations in an optimization process,
// responsible for managing the flow of the optimization.
type iterDriver struct {
	optimizer *Optimizer
	workspace *Workspace
}

// evaluate calls the objective at x and counts the evaluation. NaN becomes +Inf.
// A panicking objective halts the run: the panicking call is not counted
// and every later point is treated as +Inf without calling the objective.
func (d *iterDriver) evaluate(x []float64) (f float64) {
	w := d.workspace
	if w.halted {
		return math.Inf(1)
	}
	defer func() {
		if r := recover(); r != nil {
			w.halted = true
			f = math.Inf(1)
		}
	}()
	f = d.optimizer.eval(x)
	w.numEval++
	if math.IsNaN(f) {
		f = math.Inf(1)
	}
	return
}

// update recomputes every quantity derived from the ordered simplex.
func (d *iterDriver) update() error {
	w := d.workspace
	w.size = w.measure()
	w.dist = w.spread()
	return w.gradient()
}

// reached reports whether the best value satisfies the optional target.
func (d *iterDriver) reached() bool {
	t := d.optimizer.target
	return t != nil && d.workspace.f[0] <= *t
}

// proceed reports whether another iteration is allowed.
func (d *iterDriver) proceed() bool {
	o, w := d.optimizer, d.workspace
	return !w.halted &&
		w.numEval < o.stop.MaxEvaluations &&
		w.restarts < o.stop.MaxRestarts &&
		w.dist > o.stop.Tolerance &&
		w.size > sizeTol &&
		!d.reached()
}

// terminate classifies the reason the iteration stopped.
func (d *iterDriver) terminate() Status {
	o, w := d.optimizer, d.workspace
	switch {
	case w.halted:
		return HaltEvalPanic
	case d.reached():
		return TargetReached
	case w.dist <= o.stop.Tolerance || w.size <= sizeTol:
		return Converged
	case w.numEval >= o.stop.MaxEvaluations:
		return OverEvalLimit
	default:
		return Stagnation
	}
}

// mainLoop builds the initial simplex around par and transforms it until
// one of the stopping criteria holds.
func (d *iterDriver) mainLoop(par []float64) (status Status, err error) {

	o, w := d.optimizer, d.workspace
	n := o.n
	log := o.logger

	w.iterCtx = iterCtx{}
	w.place(par, o.regular)
	for j := 0; j <= n; j++ {
		w.f[j] = d.evaluate(w.vertex(j))
	}
	w.sort()
	if err = d.update(); err != nil {
		return
	}
	w.alpha = armijoStep(w.diam, w.sgrad)

	d.printInit()

	for d.proceed() {
		w.iter++

		fbc := w.mean()
		xnew, fnew, mv, ok := d.transform()
		if w.halted {
			break
		}

		if ok && w.insufficient(fbc, fnew, w.alpha) {
			w.restarts++
			w.orient()
			ok = false
			if log.enable(LogVerbose) {
				log.log("Insufficient descent at iteration %d, oriented restart %d\n", w.iter, w.restarts)
			}
		}

		if ok {
			copy(w.vertex(n), xnew)
			w.f[n] = fnew
		} else if w.restarts < o.stop.MaxRestarts {
			mv = moveShrink
			w.shrink(d.evaluate)
		}

		w.sort()
		if err = d.update(); err != nil {
			return
		}

		if o.observe != nil {
			o.observe(w)
		}
		d.printIter(mv)
	}

	status = d.terminate()
	d.printExit(status)
	return
}

func (d *iterDriver) printInit() {
	o, w := d.optimizer, d.workspace
	log := o.logger
	if !log.enable(LogIter) {
		return
	}
	kind := "axis-aligned"
	if o.regular {
		kind = "regular"
	}
	log.log("N = %d    simplex = %s    max fevals = %d    max restarts = %d\n",
		o.n, kind, o.stop.MaxEvaluations, o.stop.MaxRestarts)
	log.out("\n  iter  fevals  restarts        f                x[0]\n")
	log.out(" %5d  %6d  %8d  %16.8e  %16.8e\n", w.iter, w.numEval, w.restarts, o.sign(w.f[0]), w.v[0])
}

func (d *iterDriver) printIter(mv move) {
	o, w := d.optimizer, d.workspace
	log := o.logger
	switch {
	case log.enable(LogVerbose):
		log.out(" %5d  %6d  %8d  %16.8e  %16.8e  %s\n", w.iter, w.numEval, w.restarts, o.sign(w.f[0]), w.v[0], mv)
	case log.enable(LogIter) && w.iter%2 == 0:
		log.out(" %5d  %6d  %8d  %16.8e  %16.8e\n", w.iter, w.numEval, w.restarts, o.sign(w.f[0]), w.v[0])
	}
}

func (d *iterDriver) printExit(status Status) {
	o, w := d.optimizer, d.workspace
	log := o.logger
	if !log.enable(LogLast) {
		return
	}
	log.log("\n%s (code %d)\n", status.Message(), status.Code())
	log.log(" iterations = %d    fevals = %d    restarts = %d\n", w.iter, w.numEval, w.restarts)
	log.log(" f = %.10e    spread = %.3e    size = %.3e\n", o.sign(w.f[0]), w.dist, w.size)
}
