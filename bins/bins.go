//Package bins provides the immutable bin-edge descriptors used to classify
//molecule positions into radial (pore interior) or axial (reservoir) cells,
//and the accumulation grids the sampling statistics are collected in.
package bins

import (
	"encoding/json"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

//Descriptor is an ordered set of equal-width bin edges over a 1-D
//coordinate. Edges are strictly increasing and start at 0. The number of
//edges depends on the variant: interior descriptors carry an extra edge
//past the physical extent for extrapolation by the fitting layer.
type Descriptor struct {
	edges  []float64
	width  float64
	binNum int
}

//Interior builds the radial descriptor for the pore interior: binNum+2
//edges of width radius/binNum, so the last edge lies one cell beyond the
//pore radius.
func Interior(binNum int, radius float64) Descriptor {
	return build(binNum, binNum+2, radius/float64(binNum))
}

//Exterior builds the axial descriptor for the reservoir: binNum+1 edges
//spanning [0, length].
func Exterior(binNum int, length float64) Descriptor {
	return build(binNum, binNum+1, length/float64(binNum))
}

//MC builds the axial descriptor the transition-matrix sampler digitizes
//against: binNum+1 edges spanning the full box length. Values below the
//first or at/above the last edge land in the two padding cells.
func MC(binNum int, boxLength float64) Descriptor {
	return build(binNum, binNum+1, boxLength/float64(binNum))
}

func build(binNum, nedges int, width float64) Descriptor {
	edges := make([]float64, nedges)
	for i := range edges {
		edges[i] = width * float64(i)
	}
	return Descriptor{edges: edges, width: width, binNum: binNum}
}

//Edges returns a copy of the edge list.
func (d Descriptor) Edges() []float64 {
	ret := make([]float64, len(d.edges))
	floats.ScaleTo(ret, 1, d.edges)
	return ret
}

//Width returns the uniform cell width.
func (d Descriptor) Width() float64 {
	return d.width
}

//BinNum returns the configured cell count (padding excluded).
func (d Descriptor) BinNum() int {
	return d.binNum
}

//Index returns floor(x/width), the cell a non-negative coordinate falls
//in. Callers drop indices beyond the configured bin count.
func (d Descriptor) Index(x float64) int {
	return int(math.Floor(x / d.width))
}

//Digitize returns the 1-based cell index of x against the edges, with
//implicit sentinels at +-infinity: 0 for x below the first edge and
//len(edges) for x at or past the last. Every value gets an index.
func (d Descriptor) Digitize(x float64) int {
	return sort.Search(len(d.edges), func(i int) bool { return d.edges[i] > x })
}

//Cells returns a zeroed accumulation slice with one entry per cell plus
//the interior padding cell, matching the descriptor's indexing range.
func (d Descriptor) Cells() []float64 {
	return make([]float64, d.binNum+1)
}

func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Edges  []float64 `json:"edges"`
		Width  float64   `json:"width"`
		BinNum int       `json:"bin_num"`
	}{d.edges, d.width, d.binNum})
}

//Grid is a bins x window accumulation table, the shape of every windowed
//MSD statistic (one row per reference bin, one column per window offset).
type Grid [][]float64

//NewGrid returns a zero-filled rows x cols grid.
func NewGrid(rows, cols int) Grid {
	g := make(Grid, rows)
	for i := range g {
		g[i] = make([]float64, cols)
	}
	return g
}

//Windowed builds the MSD accumulation grid for an interior descriptor:
//binNum+1 rows of lenWindow zeros.
func Windowed(binNum, lenWindow int) Grid {
	return NewGrid(binNum+1, lenWindow)
}

//Add sums other into g element-wise. Merging partial results this way is
//commutative and associative, so the final accumulator does not depend on
//worker completion order. Panics on shape mismatch.
func (g Grid) Add(other Grid) {
	if len(g) != len(other) {
		panic("gopore/bins: grids of different row counts")
	}
	for i, row := range other {
		floats.Add(g[i], row)
	}
}

//SumInto adds src into dst element-wise; same merge contract as Grid.Add.
func SumInto(dst, src []float64) {
	floats.Add(dst, src)
}
