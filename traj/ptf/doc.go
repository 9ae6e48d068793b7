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

//Package ptf implements the pore trajectory format, the internal
//trajectory format of gopore. ptf aims to be trivially readable and
//writeable from any language while still producing small files; the text
//stream is run through a general-purpose compressor chosen by the file
//extension.

/******************** Format Specification ****************************

A PTF file contains only ASCII symbols. The uncompressed stream starts
with a single header line

	** natoms

where natoms is the number of atoms per frame. After the header the file
holds, per frame, natoms lines of exactly 3 decimal numbers separated by
spaces (the x, y and z cartesian coordinates, in whatever length unit the
producing simulation used), followed by one terminator line starting with
a single "*", optionally followed by whitespace and the 3 box extents of
that frame. The "**" sequence may only appear as the header marker.

The whole stream is compressed according to the file extension: .zst for
z-standard, .gz for gzip, .flate for raw DEFLATE. Any other extension
(including the canonical .ptf) means z-standard.

***********************************************************************/

package ptf
