package bins

import (
	"math"
	"testing"
)

func TestInteriorEdges(t *testing.T) {
	d := Interior(2, 1.0)
	want := []float64{0, 0.5, 1.0, 1.5} //binNum+2 edges, one past the radius
	e := d.Edges()
	if len(e) != len(want) {
		t.Fatalf("got %d edges, want %d", len(e), len(want))
	}
	for i, v := range want {
		if math.Abs(e[i]-v) > 1e-12 {
			t.Errorf("edge %d: %v, want %v", i, e[i], v)
		}
	}
	if d.Width() != 0.5 {
		t.Errorf("width %v, want 0.5", d.Width())
	}
}

func TestExteriorEdges(t *testing.T) {
	d := Exterior(2, 10.0)
	e := d.Edges()
	want := []float64{0, 5, 10}
	if len(e) != 3 {
		t.Fatalf("got %d edges, want 3", len(e))
	}
	for i, v := range want {
		if e[i] != v {
			t.Errorf("edge %d: %v, want %v", i, e[i], v)
		}
	}
	if d.Index(2.5) != 0 || d.Index(5.0) != 1 || d.Index(9.99) != 1 {
		t.Error("floor indexing off")
	}
}

func TestDigitize(t *testing.T) {
	d := MC(1, 10.0) //edges [0, 10]
	cases := []struct {
		x    float64
		want int
	}{
		{-1, 0},  //below first edge: low padding cell
		{0, 1},   //first cell is closed on the left
		{5, 1},
		{10, 2},  //at/above last edge: high padding cell
		{42, 2},
	}
	for _, c := range cases {
		if got := d.Digitize(c.x); got != c.want {
			t.Errorf("digitize(%v)=%d, want %d", c.x, got, c.want)
		}
	}
}

func TestGridAdd(t *testing.T) {
	a := Windowed(1, 3)
	b := Windowed(1, 3)
	a[0][1] = 2
	b[0][1] = 3
	b[1][2] = 1
	a.Add(b)
	if a[0][1] != 5 || a[1][2] != 1 || a[0][0] != 0 {
		t.Errorf("grid sum wrong: %v", a)
	}
	defer func() {
		if recover() == nil {
			t.Error("shape mismatch should panic")
		}
	}()
	a.Add(Windowed(2, 3))
}
