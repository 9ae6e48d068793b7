/*
 * sampler.go, part of gopore.
 *
 * Copyright 2023 A. Klein
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package sample implements the trajectory sampling engine: it partitions a
//frame sequence across workers, classifies per-molecule centers of mass
//into spatial bins, accumulates density, gyration-radius, windowed-MSD and
//transition-matrix statistics, and merges the per-worker partial results
//into one consistent accumulator. The merged aggregates are identical, up
//to floating-point associativity of plain sums, for any worker count.
package sample

import (
	"fmt"
	"math"

	pore "github.com/aklein/gopore"
	"github.com/aklein/gopore/bins"
)

//Sampler accumulates statistics over a trajectory of one molecule species
//confined in a pore system (or a plain box). Statistics are enabled with
//the Init methods before calling Sample; each run produces one Results
//value tagged with the configuration that produced it.
type Sampler struct {
	geom  pore.Geometry
	mol   *pore.Molecule
	entry float64

	//set while preparing a run
	natoms int
	res    []pore.Residue

	density  *profileInput
	gyration *profileInput
	msd      *msdInput
	mc       *mcInput
}

//profileInput configures a binned profile statistic (density or gyration).
type profileInput struct {
	binNum int
	in     bins.Descriptor //radial, pore interior; zero-valued when no pore
	ex     bins.Descriptor //axial, reservoir or plain box
}

type msdInput struct {
	binNum      int
	lenStep     int
	lenWindow   int
	binStepSize int
	lenObs      float64
	lenFrame    float64
	desc        bins.Descriptor
}

//fill is the sliding-history length: the number of frames a window spans.
func (m *msdInput) fill() int {
	return m.lenWindow * m.lenStep
}

type mcInput struct {
	binNum   int
	lenSteps []int
	maxStep  int
	lenFrame float64
	desc     bins.Descriptor
}

//New builds a sampler for the given system geometry and molecule template.
//entry removes the pore entrance region from classification on both ends.
func New(geom pore.Geometry, mol *pore.Molecule, entry float64) *Sampler {
	return &Sampler{geom: geom, mol: mol, entry: entry}
}

func (s *Sampler) profile(binNum int) (*profileInput, error) {
	if binNum < 1 {
		return nil, fmt.Errorf("sample: bin count %d < 1", binNum)
	}
	p := &profileInput{binNum: binNum}
	if s.geom.HasPore() {
		p.in = bins.Interior(binNum, s.geom.Radius())
		p.ex = bins.Exterior(binNum, s.geom.Reservoir())
	} else {
		p.ex = bins.Exterior(binNum, s.geom.Box()[2])
	}
	return p, nil
}

//InitDensity enables the density sampling routine with binNum bins.
func (s *Sampler) InitDensity(binNum int) error {
	p, err := s.profile(binNum)
	if err != nil {
		return err
	}
	s.density = p
	return nil
}

//InitGyration enables the gyration-radius sampling routine with binNum
//bins.
func (s *Sampler) InitGyration(binNum int) error {
	p, err := s.profile(binNum)
	if err != nil {
		return err
	}
	s.gyration = p
	return nil
}

//InitMSD enables the windowed mean-square-displacement sampling routine.
//lenObs is the observation length of one window and lenFrame the length of
//one frame, both in seconds; lenStep is the stride between sampled frames
//within a window; binStepSize is the number of bins a molecule may drift
//from its reference bin before the window stops counting as bin-restricted.
//The observation length must be a whole multiple of lenStep*lenFrame.
func (s *Sampler) InitMSD(binNum int, lenObs, lenFrame float64, lenStep, binStepSize int) error {
	if s.mc != nil {
		return fmt.Errorf("sample: windowed and transition-matrix diffusion cannot be sampled together")
	}
	if !s.geom.HasPore() {
		return fmt.Errorf("sample: windowed diffusion requires a pore system")
	}
	if binNum < 1 || lenStep < 1 || binStepSize < 0 || lenObs <= 0 || lenFrame <= 0 {
		return fmt.Errorf("sample: invalid windowed diffusion input (bins %d, obs %v, frame %v, step %d, drift %d)",
			binNum, lenObs, lenFrame, lenStep, binStepSize)
	}
	w := lenObs/float64(lenStep)/lenFrame + 1
	if math.Abs(w-math.Round(w)) > 1e-9 {
		down := (math.Floor(w) - 1) * float64(lenStep) * lenFrame
		up := (math.Ceil(w) - 1) * float64(lenStep) * lenFrame
		return fmt.Errorf("sample: observation length %.1e not possible with step %d and frame length %.1e; use %.1e or %.1e",
			lenObs, lenStep, lenFrame, down, up)
	}
	s.msd = &msdInput{
		binNum:      binNum,
		lenStep:     lenStep,
		lenWindow:   int(math.Round(w)),
		binStepSize: binStepSize,
		lenObs:      lenObs,
		lenFrame:    lenFrame,
		desc:        bins.Interior(binNum, s.geom.Radius()),
	}
	return nil
}

//InitMC enables transition-matrix sampling for the Monte Carlo diffusion
//method. lenSteps is the set of lags, in frame steps, a matrix is built
//for; lenFrame is the frame length in seconds.
func (s *Sampler) InitMC(binNum int, lenSteps []int, lenFrame float64) error {
	if s.msd != nil {
		return fmt.Errorf("sample: windowed and transition-matrix diffusion cannot be sampled together")
	}
	if binNum < 1 || len(lenSteps) == 0 || lenFrame <= 0 {
		return fmt.Errorf("sample: invalid transition-matrix input (bins %d, lags %v, frame %v)", binNum, lenSteps, lenFrame)
	}
	maxStep := 0
	for _, v := range lenSteps {
		if v < 1 {
			return fmt.Errorf("sample: lag %d < 1", v)
		}
		if v > maxStep {
			maxStep = v
		}
	}
	steps := make([]int, len(lenSteps))
	copy(steps, lenSteps)
	s.mc = &mcInput{
		binNum:   binNum,
		lenSteps: steps,
		maxStep:  maxStep,
		lenFrame: lenFrame,
		desc:     bins.MC(binNum, s.geom.Box()[2]),
	}
	return nil
}

//prepare validates everything that must be rejected before any worker is
//spawned: the statistic set, the shift vector and the trajectory topology.
func (s *Sampler) prepare(opener pore.Opener, frames int, o *Options) error {
	if s.density == nil && s.gyration == nil && s.msd == nil && s.mc == nil {
		return fmt.Errorf("sample: no sampling routine enabled")
	}
	if frames <= 0 {
		return fmt.Errorf("sample: trajectory with %d frames", frames)
	}
	if o.shift == nil {
		o.shift = []float64{0, 0, 0}
	}
	if len(o.shift) != 3 {
		return fmt.Errorf("sample: shift vector has %d components, want 3", len(o.shift))
	}
	t, err := opener()
	if err != nil {
		return fmt.Errorf("sample: opening trajectory: %w", err)
	}
	defer closeTraj(t)
	s.natoms = t.Len()
	s.res, err = pore.Residues(s.mol, s.natoms)
	return err
}
