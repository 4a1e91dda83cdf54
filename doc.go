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

/*Package pes provides the atomic-graph data model for building and
evaluating interatomic potentials: structure ingestion, neighbour lists under
periodic boundary conditions, immutable atomic graphs with lazily derived
geometry, batching of variable-sized graphs, and the prediction contract
(energy, forces, stress) models must satisfy.

Graphs and batches are immutable value objects. Every accessor copies or
recomputes; casting and coordinate replacement build new instances. A graph
may therefore be shared read-only between any number of goroutines without
locking.

Concrete potentials live in the pair subpackage, structure file I/O in xyz,
and plotting helpers in pesplot.
*/
package pes
