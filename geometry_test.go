package pore

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestRegions(t *testing.T) {
	g := NewCylinder([3]float64{5, 5, 7}, 4, 5, [3]float64{10, 10, 4})
	if g.Box() != [3]float64{10, 10, 14} {
		t.Errorf("cylinder box %v, reservoirs not added", g.Box())
	}
	cases := []struct {
		z    float64
		want Region
	}{
		{2, RegionEx},     //reservoir
		{7, RegionIn},     //pore center
		{5.2, RegionNone}, //entry exclusion
		{13, RegionEx},    //far reservoir
	}
	for _, c := range cases {
		got := ClassifyRegion(g, 0.5, [3]float64{5, 5, c.z})
		if got != c.want {
			t.Errorf("z=%v: region %v, want %v", c.z, got, c.want)
		}
	}
	b := NewBox([3]float64{10, 10, 10})
	if ClassifyRegion(b, 0, [3]float64{1, 1, 5}) != RegionEx {
		t.Error("plain box should always classify as exterior")
	}
}

func TestDistanceToAxis(t *testing.T) {
	cyl := NewCylinder([3]float64{5, 5, 7}, 4, 5, [3]float64{10, 10, 4})
	d := cyl.DistanceToAxis([3]float64{8, 9, 1})
	if math.Abs(d-5) > 1e-12 {
		t.Errorf("cylinder axis distance %v, want 5", d)
	}
	slit := NewSlit([3]float64{5, 5, 7}, 2, 5, [3]float64{10, 10, 4})
	d = slit.DistanceToAxis([3]float64{0, 6.5, 0})
	if math.Abs(d-1.5) > 1e-12 {
		t.Errorf("slit plane distance %v, want 1.5", d)
	}
}

func TestCOMWrapBroken(t *testing.T) {
	mol, err := NewMolecule([]string{"O", "H", "H"}, []float64{16, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	frame := mat.NewDense(3, 3, []float64{
		1, 1, 1,
		2, 1, 1,
		1, 2, 1,
	})
	res := Residue{ID: 0, Atoms: []int{0, 1, 2}}
	com := COM(frame, res, mol.Masses(), [3]float64{})
	want := [3]float64{19.0 / 18, 19.0 / 18, 1}
	for k := 0; k < 3; k++ {
		if math.Abs(com[k]-want[k]) > 1e-12 {
			t.Errorf("com[%d]=%v, want %v", k, com[k], want[k])
		}
	}
	box := [3]float64{10, 10, 10}
	if Broken(frame, res, com, box, [3]float64{}) {
		t.Error("compact molecule reported broken")
	}
	//put one H across the periodic boundary
	frame.Set(2, 1, 9.5)
	com2 := COM(frame, res, mol.Masses(), [3]float64{})
	if !Broken(frame, res, com2, box, [3]float64{}) {
		t.Error("straddling molecule not reported broken")
	}
	w := Wrap([3]float64{-0.5, 10.5, 3}, box)
	if math.Abs(w[0]-9.5) > 1e-12 || math.Abs(w[1]-0.5) > 1e-12 || w[2] != 3 {
		t.Errorf("wrap gave %v", w)
	}
}

func TestRadiusOfGyration(t *testing.T) {
	mol, _ := NewMolecule([]string{"A", "B"}, []float64{1, 1})
	frame := mat.NewDense(2, 3, []float64{
		0, 0, 0,
		2, 0, 0,
	})
	res := Residue{ID: 0, Atoms: []int{0, 1}}
	com := COM(frame, res, mol.Masses(), [3]float64{})
	rg := RadiusOfGyration(frame, res, mol.Masses(), com, [3]float64{})
	if math.Abs(rg-1) > 1e-12 {
		t.Errorf("gyration radius %v, want 1", rg)
	}
}
