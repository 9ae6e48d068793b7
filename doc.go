/*
 * doc.go, part of gopore.
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

//Package pore provides the data model for analyzing molecular-dynamics
//trajectories of fluids confined in nanopores: molecule templates and residue
//topologies, pore/box geometry providers, per-frame classification of
//molecule centers of mass (periodicity, broken-molecule detection, region and
//distance-to-axis) and the trajectory-reading interfaces consumed by the
//sampling engine in gopore/sample.
package pore
