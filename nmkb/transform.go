// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nmkb

import "math"

type bndHint int

const (
	bndNo bndHint = iota
	bndLow
	bndBoth
	bndUp
)

// Bound represents the bounds for an optimization variable.
// A NaN or infinite side is considered not exist.
type Bound struct {
	hint         bndHint
	Lower, Upper float64
}

// toFree maps a strictly feasible x onto the unconstrained domain:
//
//	l < x < u  ⇒  y = log((x - l)/(u - x))
//	l < x      ⇒  y = log(x - l)
//	x < u      ⇒  y = log(u - x)
func toFree(bounds []Bound, x, y []float64) {
	for i, b := range bounds {
		switch b.hint {
		case bndBoth:
			y[i] = math.Log((x[i] - b.Lower) / (b.Upper - x[i]))
		case bndLow:
			y[i] = math.Log(x[i] - b.Lower)
		case bndUp:
			y[i] = math.Log(b.Upper - x[i])
		default:
			y[i] = x[i]
		}
	}
}

// toBound is the inverse of toFree:
//
//	x = l + (u - l)/(1 + e⁻ʸ)
//	x = l + eʸ
//	x = u - eʸ
//
// Points map onto the closed box even when the exponential overflows.
func toBound(bounds []Bound, y, x []float64) {
	for i, b := range bounds {
		switch b.hint {
		case bndBoth:
			x[i] = b.Lower + (b.Upper-b.Lower)/(1+math.Exp(-y[i]))
		case bndLow:
			x[i] = b.Lower + math.Exp(y[i])
		case bndUp:
			x[i] = b.Upper - math.Exp(y[i])
		default:
			x[i] = y[i]
		}
	}
}

// interior reports whether x lies strictly inside the bounds.
func interior(bounds []Bound, x []float64) bool {
	for i, b := range bounds {
		if b.hint <= bndBoth && b.hint != bndNo && !(x[i] > b.Lower) {
			return false
		}
		if b.hint >= bndBoth && !(x[i] < b.Upper) {
			return false
		}
	}
	return true
}
