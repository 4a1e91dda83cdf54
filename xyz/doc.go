/*
 * doc.go, part of goPES.
 *
 * Copyright 2025 Victoria Marchant <vmarchant{at}protonDOTme>
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

/*Package xyz reads and writes atomic structures in the extended XYZ format:
plain XYZ plus a comment line of key=value pairs carrying the lattice,
periodicity, per-structure scalars (e.g. a reference energy) and a Properties
descriptor for extra per-atom columns (e.g. reference forces). Everything in
the comment line that is not geometry ends up in Structure.Info; extra atom
columns end up in Structure.Arrays.

Files may be compressed. The codec is chosen from the file name's last
extension: .zst (z-standard), .gz (gzip), .flate (DEFLATE), anything else is
read and written as plain text. A trajectory is just a concatenation of
frames, so a multi-structure dataset like dataset.xyz.zst works as expected.
*/
package xyz
