/*
 * neighbours.go, part of goPES.
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

package pes

import (
	"fmt"
	"math"

	v3 "github.com/vmarchant/gopes/v3"
	"gonum.org/v1/gonum/mat"
)

//NeighbourList computes the directed list of atom pairs within cutoff of each
//other, together with the integer cell shift of each pair. The cutoff
//comparison is inclusive: a pair at exactly the cutoff distance is an edge.
//
//For non-periodic structures (cell nil or pbc false) every i!=j pair within
//cutoff yields the two directed edges (i,j) and (j,i), both with zero shift.
//For periodic structures, cell repeats are enumerated out to the smallest
//range guaranteed to cover the cutoff, derived from the spacing of the
//lattice planes. An atom may then neighbour its own periodic image: i==j
//edges are included for any nonzero shift, and excluded only for the
//degenerate zero-distance pair at zero shift.
//
//The edge ordering is deterministic for a fixed input: shifts ascend
//lexicographically in the outer loop, atom indices ascend inside.
func NeighbourList(coords *v3.Matrix, cell *v3.Matrix, pbc bool, cutoff float64) (index [2][]int, shifts [][3]int, err error) {
	if coords == nil {
		panic(ErrNilData)
	}
	if cutoff <= 0 {
		return index, nil, CError{msg: fmt.Sprintf("Cutoff must be positive, got %g", cutoff)}
	}
	if !pbc || cell == nil || cell.IsZero() {
		index, shifts = isolatedNeighbours(coords, cutoff)
		return index, shifts, nil
	}
	return periodicNeighbours(coords, cell, cutoff)
}

func isolatedNeighbours(coords *v3.Matrix, cutoff float64) ([2][]int, [][3]int) {
	n := coords.NVecs()
	var index [2][]int
	shifts := make([][3]int, 0)
	for i := 0; i < n; i++ {
		ri := coords.RawRowView(i)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			rj := coords.RawRowView(j)
			if dist3(ri, rj) <= cutoff {
				index[0] = append(index[0], i)
				index[1] = append(index[1], j)
				shifts = append(shifts, [3]int{0, 0, 0})
			}
		}
	}
	return index, shifts
}

func periodicNeighbours(coords, cell *v3.Matrix, cutoff float64) ([2][]int, [][3]int, error) {
	var index [2][]int
	n := coords.NVecs()
	shifts := make([][3]int, 0)
	bounds, err := repeatBounds(cell, cutoff)
	if err != nil {
		return index, nil, errDecorate(err, "NeighbourList")
	}
	c := cell.RawMatrix().Data //rows are the lattice vectors
	var disp [3]float64
	for a := -bounds[0]; a <= bounds[0]; a++ {
		for b := -bounds[1]; b <= bounds[1]; b++ {
			for g := -bounds[2]; g <= bounds[2]; g++ {
				zero := a == 0 && b == 0 && g == 0
				fa, fb, fg := float64(a), float64(b), float64(g)
				disp[0] = fa*c[0] + fb*c[3] + fg*c[6]
				disp[1] = fa*c[1] + fb*c[4] + fg*c[7]
				disp[2] = fa*c[2] + fb*c[5] + fg*c[8]
				for i := 0; i < n; i++ {
					ri := coords.RawRowView(i)
					for j := 0; j < n; j++ {
						if zero && i == j {
							continue //an atom is not its own neighbour within the home cell
						}
						rj := coords.RawRowView(j)
						dx := rj[0] + disp[0] - ri[0]
						dy := rj[1] + disp[1] - ri[1]
						dz := rj[2] + disp[2] - ri[2]
						if math.Sqrt(dx*dx+dy*dy+dz*dz) <= cutoff {
							index[0] = append(index[0], i)
							index[1] = append(index[1], j)
							shifts = append(shifts, [3]int{a, b, g})
						}
					}
				}
			}
		}
	}
	return index, shifts, nil
}

//repeatBounds returns, per lattice direction, how many cell repeats are
//needed to cover the cutoff. The spacing between lattice planes normal to
//reciprocal vector i is 1/|column i of cell^-1|, so the bound along i is
//ceil(cutoff * |column i of cell^-1|).
func repeatBounds(cell *v3.Matrix, cutoff float64) ([3]int, error) {
	var bounds [3]int
	var inv mat.Dense
	if err := inv.Inverse(cell.Dense); err != nil {
		return bounds, CError{msg: fmt.Sprintf("Cell is singular, can't build a periodic neighbour list: %v", err)}
	}
	for i := 0; i < 3; i++ {
		norm := math.Hypot(math.Hypot(inv.At(0, i), inv.At(1, i)), inv.At(2, i))
		bounds[i] = int(math.Ceil(cutoff * norm))
	}
	return bounds, nil
}

func dist3(a, b []float64) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	dz := b[2] - a[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
