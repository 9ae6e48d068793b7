package sample

import (
	"github.com/aklein/gopore/bins"
)

//System tags a result with the geometry it was sampled in.
type System struct {
	Type      string     `json:"type"`
	Box       [3]float64 `json:"box"`
	Reservoir float64    `json:"reservoir"`
	Radius    float64    `json:"radius"`
	Focal     [3]float64 `json:"focal"`
}

//Input tags a result with the sampling configuration that produced it, so
//downstream fitting code can reconstruct physical units without re-deriving
//them. Fields that do not apply to a statistic are left at their zero
//values and omitted from the JSON form.
type Input struct {
	Frames      int       `json:"num_frame"`
	Mass        float64   `json:"mass"`
	Entry       float64   `json:"entry"`
	PBC         bool      `json:"pbc"`
	Shift       []float64 `json:"shift"`
	BinNum      int       `json:"bin_num"`
	LenObs      float64   `json:"len_obs,omitempty"`
	LenFrame    float64   `json:"len_frame,omitempty"`
	LenStep     int       `json:"len_step,omitempty"`
	LenWindow   int       `json:"len_window,omitempty"`
	BinStepSize int       `json:"bin_step_size,omitempty"`
	LenSteps    []int     `json:"len_steps,omitempty"`
}

//ProfileData is the nested data mapping of a density or gyration result.
type ProfileData struct {
	InEdges []float64 `json:"in_width,omitempty"`
	In      []float64 `json:"in,omitempty"`
	ExEdges []float64 `json:"ex_width"`
	Ex      []float64 `json:"ex"`
}

//Profile is a binned profile result (density counts or summed gyration
//radii per bin).
type Profile struct {
	System System      `json:"system"`
	Input  Input       `json:"inp"`
	Data   ProfileData `json:"data"`
}

//MSDData holds the six windowed grids of a diffusion result: displacement
//sums and normalization counts, bin-restricted and total.
type MSDData struct {
	Edges []float64 `json:"width"`
	Z     bins.Grid `json:"z"`
	R     bins.Grid `json:"r"`
	N     bins.Grid `json:"n"`
	ZTot  bins.Grid `json:"z_tot"`
	RTot  bins.Grid `json:"r_tot"`
	NTot  bins.Grid `json:"n_tot"`
}

//MSD is a windowed mean-square-displacement result.
type MSD struct {
	System System  `json:"system"`
	Input  Input   `json:"inp"`
	Data   MSDData `json:"data"`
}

//Transitions is a transition-matrix result: one binNum x binNum matrix per
//lag, padding already stripped, entry (end, start) counting molecules that
//moved from bin start to bin end over the lag.
type Transitions struct {
	System System              `json:"system"`
	Input  Input               `json:"inp"`
	Edges  []float64           `json:"bins"`
	Data   map[int][][]float64 `json:"data"`
}

//Results bundles the result object of every enabled statistic.
type Results struct {
	Density     *Profile     `json:"density,omitempty"`
	Gyration    *Profile     `json:"gyration,omitempty"`
	MSD         *MSD         `json:"msd,omitempty"`
	Transitions *Transitions `json:"transitions,omitempty"`
}

func (s *Sampler) system() System {
	return System{
		Type:      s.geom.Type(),
		Box:       s.geom.Box(),
		Reservoir: s.geom.Reservoir(),
		Radius:    s.geom.Radius(),
		Focal:     s.geom.Focal(),
	}
}

func (s *Sampler) input(frames, binNum int, o *Options) Input {
	return Input{
		Frames: frames,
		Mass:   s.mol.TotalMass(),
		Entry:  s.entry,
		PBC:    o.pbc,
		Shift:  o.shift,
		BinNum: binNum,
	}
}

func (s *Sampler) results(total *partial, frames int, o *Options) *Results {
	ret := new(Results)
	sys := s.system()
	if s.density != nil {
		ret.Density = &Profile{
			System: sys,
			Input:  s.input(frames, s.density.binNum, o),
			Data:   profileData2Result(s.density, total.density, s.geom.HasPore()),
		}
	}
	if s.gyration != nil {
		ret.Gyration = &Profile{
			System: sys,
			Input:  s.input(frames, s.gyration.binNum, o),
			Data:   profileData2Result(s.gyration, total.gyration, s.geom.HasPore()),
		}
	}
	if s.msd != nil {
		inp := s.input(frames, s.msd.binNum, o)
		inp.LenObs = s.msd.lenObs
		inp.LenFrame = s.msd.lenFrame
		inp.LenStep = s.msd.lenStep
		inp.LenWindow = s.msd.lenWindow
		inp.BinStepSize = s.msd.binStepSize
		ret.MSD = &MSD{
			System: sys,
			Input:  inp,
			Data: MSDData{
				Edges: s.msd.desc.Edges(),
				Z:     total.msd.z,
				R:     total.msd.r,
				N:     total.msd.n,
				ZTot:  total.msd.zTot,
				RTot:  total.msd.rTot,
				NTot:  total.msd.nTot,
			},
		}
	}
	if s.mc != nil {
		inp := s.input(frames, s.mc.binNum, o)
		inp.LenFrame = s.mc.lenFrame
		inp.LenSteps = s.mc.lenSteps
		data := make(map[int][][]float64, len(s.mc.lenSteps))
		for _, step := range s.mc.lenSteps {
			data[step] = total.mc.stripped(step, s.mc.binNum)
		}
		ret.Transitions = &Transitions{
			System: sys,
			Input:  inp,
			Edges:  s.mc.desc.Edges(),
			Data:   data,
		}
	}
	return ret
}

func profileData2Result(in *profileInput, d *profileData, hasPore bool) ProfileData {
	ret := ProfileData{
		ExEdges: in.ex.Edges(),
		Ex:      d.ex,
	}
	if hasPore {
		ret.InEdges = in.in.Edges()
		ret.In = d.in
	}
	return ret
}
