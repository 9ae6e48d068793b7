/*
 * geometry.go, part of gopore.
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

package pore

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//Geometry describes the simulation system: a simple box, or a box with a
//pore drilled along the z axis and a solvent reservoir on both ends.
//Box returns the full extents, including the reservoirs.
type Geometry interface {
	//Type returns "CYLINDER", "SLIT" or "BOX"
	Type() string

	//Box returns the full box extents, reservoirs included
	Box() [3]float64

	//Reservoir returns the reservoir length on each side of the pore,
	//0 for a plain box
	Reservoir() float64

	//Radius returns the pore radius (half diameter for a cylinder, half
	//height for a slit), 0 for a plain box
	Radius() float64

	//Focal returns the pore centroid, the zero vector for a plain box
	Focal() [3]float64

	//HasPore returns whether the system contains a pore
	HasPore() bool

	//DistanceToAxis returns the distance from a point to the pore
	//centerline (cylinder), to the slit midplane (slit), or 0 (box)
	DistanceToAxis(com [3]float64) float64
}

//Cylinder is a box with a cylindrical pore along z.
type Cylinder struct {
	focal     [3]float64
	diameter  float64
	reservoir float64
	box       [3]float64
}

//NewCylinder builds a cylindrical pore system. body is the box of the pore
//body; the z extent is grown by the reservoir on both ends.
func NewCylinder(focal [3]float64, diameter, reservoir float64, body [3]float64) *Cylinder {
	body[2] += 2 * reservoir
	return &Cylinder{focal: focal, diameter: diameter, reservoir: reservoir, box: body}
}

func (c *Cylinder) Type() string       { return "CYLINDER" }
func (c *Cylinder) Box() [3]float64    { return c.box }
func (c *Cylinder) Reservoir() float64 { return c.reservoir }
func (c *Cylinder) Radius() float64    { return c.diameter / 2 }
func (c *Cylinder) Focal() [3]float64  { return c.focal }
func (c *Cylinder) HasPore() bool      { return true }

func (c *Cylinder) DistanceToAxis(com [3]float64) float64 {
	return math.Hypot(com[0]-c.focal[0], com[1]-c.focal[1])
}

//Slit is a box with a planar (slit) pore along z.
type Slit struct {
	focal     [3]float64
	height    float64
	reservoir float64
	box       [3]float64
}

//NewSlit builds a slit pore system; see NewCylinder for the body convention.
func NewSlit(focal [3]float64, height, reservoir float64, body [3]float64) *Slit {
	body[2] += 2 * reservoir
	return &Slit{focal: focal, height: height, reservoir: reservoir, box: body}
}

func (s *Slit) Type() string       { return "SLIT" }
func (s *Slit) Box() [3]float64    { return s.box }
func (s *Slit) Reservoir() float64 { return s.reservoir }
func (s *Slit) Radius() float64    { return s.height / 2 }
func (s *Slit) Focal() [3]float64  { return s.focal }
func (s *Slit) HasPore() bool      { return true }

func (s *Slit) DistanceToAxis(com [3]float64) float64 {
	return math.Abs(s.focal[1] - com[1])
}

//Box is a plain simulation box with no pore.
type Box struct {
	box [3]float64
}

//NewBox builds a plain box system from its extents.
func NewBox(dims [3]float64) *Box {
	return &Box{box: dims}
}

func (b *Box) Type() string                          { return "BOX" }
func (b *Box) Box() [3]float64                       { return b.box }
func (b *Box) Reservoir() float64                    { return 0 }
func (b *Box) Radius() float64                       { return 0 }
func (b *Box) Focal() [3]float64                     { return [3]float64{} }
func (b *Box) HasPore() bool                         { return false }
func (b *Box) DistanceToAxis(com [3]float64) float64 { return 0 }

//Region classifies where a molecule sits relative to the pore.
type Region int

const (
	//RegionNone marks molecules in neither volume (the pore wall slab,
	//or the entry exclusion zone); they are skipped by every statistic.
	RegionNone Region = iota
	//RegionIn marks molecules inside the pore
	RegionIn
	//RegionEx marks molecules in the reservoirs (or anywhere, for a box)
	RegionEx
)

//ClassifyRegion determines the region of a wrapped center of mass. entry
//shrinks the pore volume on both ends, removing pore-entrance effects.
func ClassifyRegion(g Geometry, entry float64, com [3]float64) Region {
	box := g.Box()
	res := g.Reservoir()
	if g.HasPore() && com[2] > res+entry && com[2] < box[2]-res-entry {
		return RegionIn
	}
	if !g.HasPore() || com[2] <= res || com[2] > box[2]-res {
		return RegionEx
	}
	return RegionNone
}

//COM computes the mass-weighted center of mass of a residue in the given
//frame, with the configured coordinate shift applied. No periodicity
//correction is made; use Wrap for that.
func COM(frame *mat.Dense, res Residue, masses []float64, shift [3]float64) [3]float64 {
	var com [3]float64
	var total float64
	for i, a := range res.Atoms {
		m := masses[i]
		total += m
		for k := 0; k < 3; k++ {
			com[k] += (frame.At(a, k) + shift[k]) * m
		}
	}
	for k := 0; k < 3; k++ {
		com[k] /= total
	}
	return com
}

//Wrap folds each coordinate into [0, box[k]).
func Wrap(com, box [3]float64) [3]float64 {
	for k := 0; k < 3; k++ {
		com[k] -= math.Floor(com[k]/box[k]) * box[k]
	}
	return com
}

//Broken reports whether a molecule straddles a periodic boundary, which
//makes its unwrapped center of mass meaningless: any atom whose offset from
//the unwrapped COM exceeds a third of the corresponding box extent marks
//the molecule as broken for this frame.
func Broken(frame *mat.Dense, res Residue, com, box [3]float64, shift [3]float64) bool {
	for _, a := range res.Atoms {
		for k := 0; k < 3; k++ {
			if math.Abs(com[k]-(frame.At(a, k)+shift[k])) > box[k]/3 {
				return true
			}
		}
	}
	return false
}

//RadiusOfGyration computes sqrt(sum_i m_i*|r_i-com|^2 / sum_i m_i) for a
//residue around its (unwrapped) center of mass.
func RadiusOfGyration(frame *mat.Dense, res Residue, masses []float64, com [3]float64, shift [3]float64) float64 {
	var sum, total float64
	for i, a := range res.Atoms {
		var d2 float64
		for k := 0; k < 3; k++ {
			d := frame.At(a, k) + shift[k] - com[k]
			d2 += d * d
		}
		sum += d2 * masses[i]
		total += masses[i]
	}
	return math.Sqrt(sum / total)
}
