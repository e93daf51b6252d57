// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nmk

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestRegularSimplex(t *testing.T) {

	for _, par := range [][]float64{{3, 4}, {0.1, 0.2, 0.3}, {1, -2, 3, -4, 5}} {
		n := len(par)
		var s simplex
		s.init(n)
		s.place(par, true)

		scale := math.Max(1, floats.Norm(par, 2))
		for j := 0; j <= n; j++ {
			for k := j + 1; k <= n; k++ {
				if d := floats.Distance(s.vertex(j), s.vertex(k), 2); !almostEqual(d, scale, 1e-12) {
					t.Fatalf("TestRegularSimplex: Edge (%d,%d) Length %g Want %g", j, k, d, scale)
				}
			}
		}
		if !floats.Equal(s.vertex(0), par) {
			t.Fatal("TestRegularSimplex: First Vertex Not Start")
		}
	}
}

func TestAxisSimplex(t *testing.T) {

	par := []float64{0.5, -0.25, 0}
	var s simplex
	s.init(3)
	s.place(par, false)

	for j := 1; j <= 3; j++ {
		vj := s.vertex(j)
		for i, x := range vj {
			want := par[i]
			if i == j-1 {
				want++
			}
			if x != want {
				t.Fatalf("TestAxisSimplex: Vertex %d = %v", j, vj)
			}
		}
	}
}

func TestSortStable(t *testing.T) {

	var s simplex
	s.init(3)
	for j := 0; j <= 3; j++ {
		for i := range s.vertex(j) {
			s.vertex(j)[i] = float64(j)
		}
	}
	copy(s.f, []float64{3, 1, 1, 0})
	s.sort()

	want := []float64{3, 1, 2, 0}
	for j, label := range want {
		if s.vertex(j)[0] != label {
			t.Fatalf("TestSortStable: Position %d Holds Vertex %g Want %g", j, s.vertex(j)[0], label)
		}
	}
	if !s.sorted() || !floats.Equal(s.f, []float64{0, 1, 1, 3}) {
		t.Fatalf("TestSortStable: Values Not Ordered %v", s.f)
	}
}

func TestMeasure(t *testing.T) {

	var s simplex
	s.init(2)
	copy(s.v, []float64{2, 0, 3, 0, 2, 2})
	copy(s.f, []float64{1, 2, 4})

	size := s.measure()
	switch {
	case !floats.Equal(s.edge, []float64{1, 0, 0, 2}):
		t.Fatalf("TestMeasure: Edges %v", s.edge)
	case !floats.Equal(s.diam, []float64{1, 2}):
		t.Fatalf("TestMeasure: Lengths %v", s.diam)
	case !floats.Equal(s.delf, []float64{1, 3}):
		t.Fatalf("TestMeasure: Differences %v", s.delf)
	case size != 1.5:
		t.Fatalf("TestMeasure: Size %g", size)
	case s.spread() != 3:
		t.Fatalf("TestMeasure: Spread %g", s.spread())
	}
}

func TestGradient(t *testing.T) {

	// the simplex gradient of an affine function is exact
	c := []float64{2, -3, 0.5}
	obj := func(x []float64) float64 { return floats.Dot(c, x) + 7 }

	var s simplex
	s.init(3)
	s.place([]float64{1, 1, 1}, true)
	for j := 0; j <= 3; j++ {
		s.f[j] = obj(s.vertex(j))
	}
	s.sort()
	s.measure()
	if err := s.gradient(); err != nil {
		t.Fatal(err)
	}
	if !floats.EqualApprox(s.sgrad, c, 1e-10) {
		t.Fatalf("TestGradient: Got %v Want %v", s.sgrad, c)
	}
}

func TestDegenerate(t *testing.T) {

	var s simplex
	s.init(2)
	copy(s.v, []float64{0, 0, 1, 1, 2, 2}) // collinear
	copy(s.f, []float64{0, 1, 2})
	s.measure()

	if err := s.gradient(); !errors.Is(err, ErrDegenerateSimplex) {
		t.Fatalf("TestDegenerate: Unexpected Error %v", err)
	}
}

func TestOrient(t *testing.T) {

	var s simplex
	s.init(3)
	copy(s.v, []float64{1, 1, 1, 9, 9, 9, 9, 9, 9, 9, 9, 9})
	copy(s.diam, []float64{0.5, 0.25, 2})
	copy(s.sgrad, []float64{3, -1, 0})
	f := append([]float64(nil), s.f...)

	s.orient()

	want := []float64{
		1, 1, 1,
		0.75, 1, 1,
		1, 1.25, 1,
		1, 1, 0.75,
	}
	switch {
	case !floats.Equal(s.v, want):
		t.Fatalf("TestOrient: Vertices %v", s.v)
	case !floats.Equal(s.f, f):
		t.Fatal("TestOrient: Values Changed")
	}
}

func TestShrink(t *testing.T) {

	var s simplex
	s.init(2)
	copy(s.v, []float64{1, 1, 3, 1, 1, 5})
	copy(s.f, []float64{0, 1, 2})

	calls := 0
	s.shrink(func(x []float64) float64 { calls++; return x[0] + x[1] })

	switch {
	case !floats.Equal(s.v, []float64{1, 1, 2, 1, 1, 3}):
		t.Fatalf("TestShrink: Vertices %v", s.v)
	case !floats.Equal(s.f, []float64{0, 3, 4}):
		t.Fatalf("TestShrink: Values %v", s.f)
	case calls != 2:
		t.Fatalf("TestShrink: %d Evaluations", calls)
	}
}

func TestInsufficient(t *testing.T) {

	var s simplex
	s.init(2)
	copy(s.f, []float64{0, 3, 6})
	copy(s.sgrad, []float64{3, 4}) // ‖g‖² = 25

	fbc := s.mean() // 3
	alpha := 0.125  // threshold α‖g‖²/n = 1.5625

	switch {
	case armijoThreshold(alpha, s.sgrad) != 1.5625:
		t.Fatal("TestInsufficient: Unexpected Threshold")
	case !s.insufficient(fbc, 4.5, alpha): // mean drops to 2.5
		t.Fatal("TestInsufficient: Small Decrease Accepted")
	case s.insufficient(fbc, 1, alpha): // mean drops to 4/3
		t.Fatal("TestInsufficient: Large Decrease Rejected")
	}

	if a := armijoStep([]float64{1, 4}, s.sgrad); !almostEqual(a, 1e-4*4/5, 1e-15) {
		t.Fatalf("TestInsufficient: Step %g", a)
	}
}
