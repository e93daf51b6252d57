// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nmk

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// simplex holds n+1 vertices ordered by ascending function value.
// Vertex j is stored at v[j×n : (j+1)×n] and its value at f[j].
type simplex struct {
	n int
	v []float64 // (n+1) × n
	f []float64 // n+1
	// edges vⱼ - v₀ stored row-wise for j = 1..n
	edge []float64 // n × n
	// Euclidean length of each edge
	diam []float64 // n
	// value differences fⱼ - f₀ for j = 1..n
	delf []float64 // n
	// simplex gradient solving edge × sgrad = delf
	sgrad []float64 // n
	// working space
	tmp  []float64 // (n+1) × n
	ord  []int     // n+1
	xbar []float64 // n
	xr   []float64 // n
	xt   []float64 // n
}

func (s *simplex) init(n int) {
	n1 := n + 1
	wrk := make([]float64, 2*n1*n+n*n+6*n+n1)
	s.n = n
	s.v, wrk = wrk[:n1*n:n1*n], wrk[n1*n:]
	s.tmp, wrk = wrk[:n1*n:n1*n], wrk[n1*n:]
	s.edge, wrk = wrk[:n*n:n*n], wrk[n*n:]
	s.f, wrk = wrk[:n1:n1], wrk[n1:]
	s.diam, wrk = wrk[:n:n], wrk[n:]
	s.delf, wrk = wrk[:n:n], wrk[n:]
	s.sgrad, wrk = wrk[:n:n], wrk[n:]
	s.xbar, wrk = wrk[:n:n], wrk[n:]
	s.xr, s.xt = wrk[:n:n], wrk[n:2*n:2*n]
	s.ord = make([]int, n1)
}

func (s *simplex) vertex(j int) []float64 {
	n := s.n
	return s.v[j*n : (j+1)*n : (j+1)*n]
}

// place builds the initial simplex around par.
//
// The scale is 𝚜 = 𝚖𝚊𝚡(1, ‖par‖₂). A regular simplex uses the offsets
//
//	a₁ = 𝚜/(n√2) × (√(n+1) + n - 1)
//	a₂ = 𝚜/(n√2) × (√(n+1) - 1)
//
// so vertex j is par + a₂ except its j-th coordinate which is parⱼ + a₁,
// giving every edge from par the same length 𝚜. Otherwise vertex j is par + 𝚜eⱼ.
func (s *simplex) place(par []float64, regular bool) {
	n := s.n
	scale := math.Max(one, floats.Norm(par, 2))
	copy(s.vertex(0), par)
	if regular {
		base := scale / (float64(n) * math.Sqrt2)
		a1 := base * (math.Sqrt(float64(n+1)) + float64(n) - one)
		a2 := base * (math.Sqrt(float64(n+1)) - one)
		for j := 1; j <= n; j++ {
			vj := s.vertex(j)
			floats.AddConst(a2, floats.ScaleTo(vj, one, par))
			vj[j-1] = par[j-1] + a1
		}
	} else {
		for j := 1; j <= n; j++ {
			vj := s.vertex(j)
			copy(vj, par)
			vj[j-1] += scale
		}
	}
}

// sort restores the ascending order of the vertices.
// Vertices with equal values keep their relative order.
func (s *simplex) sort() {
	n := s.n
	floats.ArgsortStable(s.f, s.ord)
	for j, k := range s.ord {
		copy(s.tmp[j*n:(j+1)*n], s.v[k*n:(k+1)*n])
	}
	s.v, s.tmp = s.tmp, s.v
}

// sorted reports whether the values are in ascending order.
func (s *simplex) sorted() bool {
	for j := 1; j <= s.n; j++ {
		if s.f[j] < s.f[j-1] {
			return false
		}
	}
	return true
}

// spread returns the difference between the worst and the best value.
func (s *simplex) spread() float64 {
	return s.f[s.n] - s.f[0]
}

// measure recomputes edges, edge lengths and value differences from the best vertex,
// returning the relative simplex size Σ|vⱼ - v₀| / 𝚖𝚊𝚡(1, ‖v₀‖₁).
func (s *simplex) measure() (size float64) {
	n := s.n
	best := s.vertex(0)
	for j := 1; j <= n; j++ {
		e := floats.SubTo(s.edge[(j-1)*n:j*n], s.vertex(j), best)
		s.diam[j-1] = floats.Norm(e, 2)
		s.delf[j-1] = s.f[j] - s.f[0]
		size += floats.Norm(e, 1)
	}
	return size / math.Max(one, floats.Norm(best, 1))
}

// gradient estimates the local gradient from the current edges by solving
//
//	(vⱼ - v₀)ᵀ g = fⱼ - f₀   (j = 1..n)
//
// A singular or ill-conditioned edge system means the simplex has collapsed
// onto a lower dimensional subspace.
func (s *simplex) gradient() error {
	n := s.n
	a := mat.NewDense(n, n, s.edge)
	b := mat.NewVecDense(n, s.delf)
	g := mat.NewVecDense(n, s.sgrad)
	if err := g.SolveVec(a, b); err != nil {
		return fmt.Errorf("%w: %v", ErrDegenerateSimplex, err)
	}
	return nil
}

// centroid computes the mean of all vertices except the worst one.
func (s *simplex) centroid() []float64 {
	n := s.n
	for i := range s.xbar {
		s.xbar[i] = zero
	}
	for j := 0; j < n; j++ {
		floats.Add(s.xbar, s.vertex(j))
	}
	floats.Scale(one/float64(n), s.xbar)
	return s.xbar
}

// mean returns the average value over all vertices.
func (s *simplex) mean() float64 {
	return floats.Sum(s.f) / float64(s.n+1)
}
