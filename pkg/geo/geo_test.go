package geo

import (
	"math"
	"testing"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// --- Vec2 tests ---

func TestVecDistance(t *testing.T) {
	a := V(0, 0)
	b := V(3, 4)
	if !approxEqual(a.Distance(b), 5.0, tolerance) {
		t.Errorf("expected distance 5.0, got %f", a.Distance(b))
	}
	if a.DistanceSquared(b) != 25 {
		t.Errorf("expected squared distance 25, got %f", a.DistanceSquared(b))
	}
}

func TestVecArithmetic(t *testing.T) {
	p := V(1, 2).Add(V(3, 5)).Sub(V(1, 1)).Scale(2)
	if p != V(6, 12) {
		t.Errorf("expected (6,12), got (%f,%f)", p.X, p.Y)
	}
	if V(3, 4).LengthSquared() != 25 {
		t.Errorf("expected 25, got %f", V(3, 4).LengthSquared())
	}
}

func TestVecNormalize(t *testing.T) {
	n := V(3, 4).Normalize()
	if !approxEqual(n.Length(), 1.0, tolerance) {
		t.Errorf("expected unit length, got %f", n.Length())
	}
	if z := V(0, 0).Normalize(); z != (Vec2{}) {
		t.Errorf("expected zero vector, got (%f,%f)", z.X, z.Y)
	}
}

func TestVecCell(t *testing.T) {
	x, y := V(4.9, 7.1).Cell()
	if x != 4 || y != 7 {
		t.Errorf("expected (4,7), got (%d,%d)", x, y)
	}
	// Truncation is toward zero, so small negatives land in cell 0.
	x, y = V(-0.5, -1.5).Cell()
	if x != 0 || y != -1 {
		t.Errorf("expected (0,-1), got (%d,%d)", x, y)
	}
}

// --- Polar tests ---

func TestPolarToTable(t *testing.T) {
	c := V(100, 100)
	cases := []struct {
		theta, rho float64
		want       Vec2
	}{
		{0, 0, V(100, 100)},
		{0, 1, V(100, 20)},
		{math.Pi / 2, 1, V(180, 100)},
		{math.Pi, 0.5, V(100, 140)},
		{3 * math.Pi / 2, 0.25, V(80, 100)},
	}
	for _, tc := range cases {
		got := PolarToTable(tc.theta, tc.rho, c, 80)
		if !approxEqual(got.X, tc.want.X, 1e-9) || !approxEqual(got.Y, tc.want.Y, 1e-9) {
			t.Errorf("theta=%f rho=%f: expected (%f,%f), got (%f,%f)", tc.theta, tc.rho, tc.want.X, tc.want.Y, got.X, got.Y)
		}
	}
}

func TestTableGeometry(t *testing.T) {
	if c := TableCenter(301, 200); c != V(150, 100) {
		t.Errorf("expected integer centre (150,100), got (%f,%f)", c.X, c.Y)
	}
	if r := TrackRadius(300, 20); r != 130 {
		t.Errorf("expected radius 130, got %f", r)
	}
}

// --- Path tests ---

func TestPathLength(t *testing.T) {
	p := NewPath(V(0, 0), V(10, 0), V(10, 10))
	if !approxEqual(p.Length(), 20, tolerance) {
		t.Errorf("expected length 20, got %f", p.Length())
	}
	if NewPath().Length() != 0 {
		t.Error("expected empty path to have zero length")
	}
}

func TestPathPointAt(t *testing.T) {
	p := NewPath(V(0, 0), V(10, 0), V(10, 10))
	mid := p.PointAt(0.5)
	if !approxEqual(mid.X, 10, tolerance) || !approxEqual(mid.Y, 0, tolerance) {
		t.Errorf("expected (10,0), got (%f,%f)", mid.X, mid.Y)
	}
	q := p.PointAt(0.75)
	if !approxEqual(q.X, 10, tolerance) || !approxEqual(q.Y, 5, tolerance) {
		t.Errorf("expected (10,5), got (%f,%f)", q.X, q.Y)
	}
}

func TestPathBoundingBox(t *testing.T) {
	p := NewPath(V(-5, -3), V(10, 0), V(7, 12))
	mn, mx := p.BoundingBox()
	if mn != V(-5, -3) || mx != V(10, 12) {
		t.Errorf("expected (-5,-3)-(10,12), got %v-%v", mn, mx)
	}
}
