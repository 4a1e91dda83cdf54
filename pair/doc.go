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

/*Package pair implements classical pairwise interatomic potentials on top of
the goPES atomic graph: Lennard-Jones and Morse. They are small enough to
have exact analytic forces and virial stress, which makes them useful both as
baselines and as references against the finite-difference derivative path.

Both models register themselves with the pes model registry under the names
"lennard-jones" and "morse".
*/
package pair
