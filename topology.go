/*
 * topology.go, part of gopore.
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

import "fmt"

//Molecule is the immutable per-molecule template: atom names, per-atom
//masses and, optionally, a selection of the atoms that are actually used
//when computing centers of mass. A Molecule does not hold coordinates;
//those live in the trajectory frames.
type Molecule struct {
	names  []string
	masses []float64 //masses of the _selected_ atoms
	sel    []int     //offsets of the selected atoms within the molecule
	mass   float64   //sum of the selected masses
}

//NewMolecule builds a molecule template from atom names and masses.
//If a selection is given, it lists the names of the atoms to be used;
//masses must then match the selection, or, if masses covers the whole
//molecule, the selected entries are picked out. An empty selection
//selects every atom.
func NewMolecule(names []string, masses []float64, selection ...string) (*Molecule, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("pore.NewMolecule: no atoms given")
	}
	m := new(Molecule)
	m.names = make([]string, len(names))
	copy(m.names, names)
	if len(selection) == 0 {
		if len(masses) != len(names) {
			return nil, fmt.Errorf("pore.NewMolecule: %d masses for %d atoms", len(masses), len(names))
		}
		m.sel = make([]int, len(names))
		m.masses = make([]float64, len(names))
		for i := range names {
			m.sel[i] = i
			m.masses[i] = masses[i]
		}
	} else {
		for i, name := range names {
			if isInString(selection, name) {
				m.sel = append(m.sel, i)
			}
		}
		if len(m.sel) == 0 {
			return nil, fmt.Errorf("pore.NewMolecule: selection %v matches no atom", selection)
		}
		switch len(masses) {
		case len(names):
			for _, s := range m.sel {
				m.masses = append(m.masses, masses[s])
			}
		case len(m.sel):
			m.masses = append(m.masses, masses...)
		default:
			return nil, fmt.Errorf("pore.NewMolecule: %d masses for a selection of %d atoms", len(masses), len(m.sel))
		}
	}
	for _, v := range m.masses {
		if v <= 0 {
			return nil, fmt.Errorf("pore.NewMolecule: non-positive mass %v", v)
		}
		m.mass += v
	}
	return m, nil
}

//Len returns the number of atoms in the whole molecule, selected or not.
//This is the stride between consecutive residues in a frame.
func (m *Molecule) Len() int {
	return len(m.names)
}

//NSelected returns the number of selected atoms.
func (m *Molecule) NSelected() int {
	return len(m.sel)
}

//Masses returns the masses of the selected atoms, in selection order.
func (m *Molecule) Masses() []float64 {
	ret := make([]float64, len(m.masses))
	copy(ret, m.masses)
	return ret
}

//TotalMass returns the summed mass of the selected atoms.
func (m *Molecule) TotalMass() float64 {
	return m.mass
}

//Residue is one molecule instance in the trajectory: a stable id plus the
//absolute indices of its selected atoms in a frame's coordinate matrix.
type Residue struct {
	ID    int
	Atoms []int
}

//Residues builds the residue list for a trajectory with natoms atoms per
//frame, assuming the frame is a contiguous repetition of the molecule
//template. It fails if natoms is not a whole multiple of the molecule size.
func Residues(mol *Molecule, natoms int) ([]Residue, error) {
	stride := mol.Len()
	if natoms <= 0 || natoms%stride != 0 {
		return nil, fmt.Errorf("pore.Residues: %d trajectory atoms not divisible by the %d atoms of the molecule", natoms, stride)
	}
	nres := natoms / stride
	ret := make([]Residue, nres)
	for i := 0; i < nres; i++ {
		ats := make([]int, len(mol.sel))
		for j, s := range mol.sel {
			ats[j] = i*stride + s
		}
		ret[i] = Residue{ID: i, Atoms: ats}
	}
	return ret, nil
}

//These will go away when the generic stdlib functions settle.
func isInString(container []string, test string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
