// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/curioloop/optimizer/control"
	"github.com/curioloop/optimizer/internal/testfunc"
	"github.com/curioloop/optimizer/nmk"
	"github.com/curioloop/optimizer/nmkb"
)

var (
	funcName   string
	startStr   string
	configPath string
	settings   []string
	lowerStr   string
	upperStr   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Optimize a benchmark objective",
	Long: `Runs the Nelder-Mead optimizer on a benchmark objective.
Controls are read from an optional YAML file and then overridden by --set.
Giving --lower or --upper switches to the bounded optimizer.`,
	Example: `  nmk run --func rosenbrock --x0 -1.2,1
  nmk run --func sphere --x0 1,1,1 --set tol=1e-10 --set trace=true
  nmk run --func sphere --x0 1,1 --lower 0.5,-inf --config control.yaml`,
	RunE: runOptimization,
}

func init() {
	runCmd.Flags().StringVar(&funcName, "func", "", "Benchmark objective name (required)")
	runCmd.Flags().StringVar(&startStr, "x0", "", "Comma separated starting point (default: customary start)")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML control file")
	runCmd.Flags().StringArrayVar(&settings, "set", nil,
		"Control override key=value, repeatable (keys: "+strings.Join(control.Keys, ", ")+")")
	runCmd.Flags().StringVar(&lowerStr, "lower", "", "Comma separated lower bounds")
	runCmd.Flags().StringVar(&upperStr, "upper", "", "Comma separated upper bounds")

	_ = runCmd.MarkFlagRequired("func")
	rootCmd.AddCommand(runCmd)
}

func runOptimization(cmd *cobra.Command, args []string) error {

	f, ok := testfunc.Lookup(funcName)
	if !ok {
		return fmt.Errorf("unknown objective: %s (see nmk funcs)", funcName)
	}

	x0 := f.Start
	if startStr != "" {
		v, err := parseVector(startStr)
		if err != nil {
			return fmt.Errorf("invalid --x0: %w", err)
		}
		x0 = v
	}
	n := len(x0)
	if !f.Accepts(n) {
		return fmt.Errorf("objective %s is not defined for dimension %d", f.Name, n)
	}

	opts := map[string]any{}
	if configPath != "" {
		var err error
		if opts, err = control.LoadOptions(configPath); err != nil {
			return err
		}
	}
	if err := control.ParseAssignments(opts, settings); err != nil {
		return err
	}
	ctrl, err := control.Resolve(n, opts)
	if err != nil {
		return err
	}

	bounds, err := parseBounds(n, lowerStr, upperStr)
	if err != nil {
		return err
	}

	slog.Info("Starting optimization",
		"func", f.Name, "n", n, "bounded", bounds != nil,
		"tol", ctrl.Tol, "maxfeval", ctrl.MaxFEval, "restarts", ctrl.MaxRestarts,
		"maximize", ctrl.Maximize, "regsimp", ctrl.RegSimp)

	out := cmd.OutOrStdout()
	start := time.Now()

	var r *nmk.Result
	if bounds != nil {
		r, err = ctrl.RunBounded(f.Eval, x0, bounds, out)
	} else {
		r, err = ctrl.Run(f.Eval, x0, out)
	}
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	slog.Info("Optimization complete",
		"elapsed", time.Since(start),
		"status", r.Status.String(),
		"code", r.Status.Code(),
		"fevals", r.NumEval,
		"iterations", r.NumIter,
		"restarts", r.NumRestart,
	)

	printResult(out, r)
	return nil
}

func printResult(out io.Writer, r *nmk.Result) {
	fmt.Fprintf(out, "%s (code %d)\n", r.Status.Message(), r.Status.Code())
	fmt.Fprintf(out, "f          = %.10g\n", r.F)
	fmt.Fprintf(out, "x          = %s\n", formatVector(r.X))
	fmt.Fprintf(out, "fevals     = %d\n", r.NumEval)
	fmt.Fprintf(out, "iterations = %d\n", r.NumIter)
	fmt.Fprintf(out, "restarts   = %d\n", r.NumRestart)
}

// parseVector parses comma separated numbers. Inf and NaN are accepted.
func parseVector(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	v := make([]float64, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		v[i] = x
	}
	return v, nil
}

// parseBounds returns nil when neither side is given.
func parseBounds(n int, lower, upper string) ([]nmkb.Bound, error) {
	if lower == "" && upper == "" {
		return nil, nil
	}

	side := func(name, s string) ([]float64, error) {
		v := make([]float64, n)
		if s == "" {
			for i := range v {
				v[i] = math.NaN()
			}
			return v, nil
		}
		v, err := parseVector(s)
		switch {
		case err != nil:
			return nil, fmt.Errorf("invalid --%s: %w", name, err)
		case len(v) != n:
			return nil, fmt.Errorf("--%s has %d elements, want %d", name, len(v), n)
		}
		return v, nil
	}

	l, err := side("lower", lower)
	if err != nil {
		return nil, err
	}
	u, err := side("upper", upper)
	if err != nil {
		return nil, err
	}

	bounds := make([]nmkb.Bound, n)
	for i := range bounds {
		bounds[i] = nmkb.Bound{Lower: l[i], Upper: u[i]}
	}
	return bounds, nil
}

func formatVector(x []float64) string {
	s := make([]string, len(x))
	for i, v := range x {
		s[i] = strconv.FormatFloat(v, 'g', 8, 64)
	}
	return "(" + strings.Join(s, ", ") + ")"
}
