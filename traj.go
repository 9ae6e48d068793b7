/*
 * traj.go, part of gopore.
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

import "gonum.org/v1/gonum/mat"

//Traj is the interface for any trajectory source. Frames are read in
//order; there is no random access. A frame is a natoms x 3 matrix of
//positions.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into dst, or discards it if dst is nil.
	//It can also fill the (optional) box with the box extents, if the
	//frame carries them. It returns a LastFrameError after the last
	//frame has been read.
	Next(dst *mat.Dense, box ...[]float64) error

	//Len returns the number of atoms per frame
	Len() int
}

//Opener returns a fresh, independent reader over the same trajectory.
//The sampling engine calls it once per worker; readers are never shared,
//so implementations need no internal locking.
type Opener func() (Traj, error)

//Error is the interface for errors in this library. Decorate adds
//call-path information to the error without changing its type; called with
//an empty string it just returns the current decoration slice.
type Error interface {
	error
	Decorate(string) []string
}

//TrajError is the interface for errors produced while reading trajectories.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

//LastFrameError marks the harmless end-of-trajectory condition so it can be
//filtered in a type switch looking for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just separates this interface from other TrajErrors
}
