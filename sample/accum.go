package sample

import (
	"math"

	pore "github.com/aklein/gopore"
	"github.com/aklein/gopore/bins"

	"gonum.org/v1/gonum/mat"
)

//partial is the accumulator state one worker builds over its assigned
//frame range. It is owned by that worker until it is handed to the merge
//step; only the statistics enabled on the sampler are non-nil.
type partial struct {
	density  *profileData
	gyration *profileData
	msd      *msdData
	mc       *mcData
}

func (s *Sampler) newPartial() *partial {
	p := new(partial)
	if s.density != nil {
		p.density = newProfileData(s.density, s.geom.HasPore())
	}
	if s.gyration != nil {
		p.gyration = newProfileData(s.gyration, s.geom.HasPore())
	}
	if s.msd != nil {
		p.msd = newMSDData(s.msd)
	}
	if s.mc != nil {
		p.mc = newMCData(s.mc)
	}
	return p
}

//profileData is the histogram pair of a binned profile: radial cells for
//the pore interior, axial cells for the reservoir (or the whole box).
type profileData struct {
	in []float64 //nil when the system has no pore
	ex []float64
}

func newProfileData(in *profileInput, hasPore bool) *profileData {
	d := &profileData{ex: in.ex.Cells()}
	if hasPore {
		d.in = in.in.Cells()
	}
	return d
}

//add bins one molecule into the profile. Interior molecules are binned by
//their distance to the pore axis; exterior ones by their axial distance to
//the nearer reservoir wall, folding the coordinate about the far box face
//when the molecule sits past the pore centroid. With a pore present, the
//exterior only counts molecules radially outside the pore mouth, removing
//the pore volume from the reservoir slabs.
func (d *profileData) add(g pore.Geometry, in *profileInput, region pore.Region, dist float64, com [3]float64, val float64) {
	switch region {
	case pore.RegionIn:
		idx := in.in.Index(dist)
		if idx <= in.binNum {
			d.in[idx] += val
		}
	case pore.RegionEx:
		length := com[2]
		if g.HasPore() && com[2] >= g.Focal()[2] {
			length = math.Abs(com[2] - g.Box()[2])
		}
		idx := in.ex.Index(length)
		if idx > in.binNum {
			return
		}
		if g.HasPore() && dist <= g.Radius() {
			return
		}
		d.ex[idx] += val
	}
}

func (d *profileData) merge(other *profileData) {
	if d.in != nil {
		bins.SumInto(d.in, other.in)
	}
	bins.SumInto(d.ex, other.ex)
}

//msdData holds the six windowed grids of the MSD sampler: squared axial
//and radial displacement sums plus normalization counts, once restricted
//to windows that stayed within the allowed bin drift and once total. The
//scratch buffers hold one window walk before it is committed.
type msdData struct {
	z, r, n          bins.Grid
	zTot, rTot, nTot bins.Grid

	scratchZ []float64
	scratchR []float64
}

func newMSDData(in *msdInput) *msdData {
	return &msdData{
		z:        bins.Windowed(in.binNum, in.lenWindow),
		r:        bins.Windowed(in.binNum, in.lenWindow),
		n:        bins.Windowed(in.binNum, in.lenWindow),
		zTot:     bins.Windowed(in.binNum, in.lenWindow),
		rTot:     bins.Windowed(in.binNum, in.lenWindow),
		nTot:     bins.Windowed(in.binNum, in.lenWindow),
		scratchZ: make([]float64, in.lenWindow),
		scratchR: make([]float64, in.lenWindow),
	}
}

func (d *msdData) merge(other *msdData) {
	d.z.Add(other.z)
	d.r.Add(other.r)
	d.n.Add(other.n)
	d.zTot.Add(other.zTot)
	d.rTot.Add(other.rTot)
	d.nTot.Add(other.nTot)
}

//mcData holds one (binNum+2)^2 transition matrix per configured lag; rows
//are end bins, columns start bins, and the outermost row/column pair are
//the padding cells that absorb out-of-range classifications.
type mcData struct {
	mats map[int]*mat.Dense
}

func newMCData(in *mcInput) *mcData {
	d := &mcData{mats: make(map[int]*mat.Dense, len(in.lenSteps))}
	for _, step := range in.lenSteps {
		d.mats[step] = mat.NewDense(in.binNum+2, in.binNum+2, nil)
	}
	return d
}

func (d *mcData) merge(other *mcData) {
	for step, m := range d.mats {
		m.Add(m, other.mats[step])
	}
}

//merge folds all partials into the first one, element-wise. Summation is
//commutative and associative, so the result does not depend on the order
//workers finished in.
func (s *Sampler) merge(parts []*partial) *partial {
	total := parts[0]
	for _, p := range parts[1:] {
		if total.density != nil {
			total.density.merge(p.density)
		}
		if total.gyration != nil {
			total.gyration.merge(p.gyration)
		}
		if total.msd != nil {
			total.msd.merge(p.msd)
		}
		if total.mc != nil {
			total.mc.merge(p.mc)
		}
	}
	return total
}

//stripped returns the transition matrix for one lag with the two padding
//rows/columns removed, as a plain nested slice.
func (d *mcData) stripped(step, binNum int) [][]float64 {
	inner := d.mats[step].Slice(1, binNum+1, 1, binNum+1)
	ret := make([][]float64, binNum)
	for i := range ret {
		ret[i] = make([]float64, binNum)
		for j := range ret[i] {
			ret[i][j] = inner.At(i, j)
		}
	}
	return ret
}
