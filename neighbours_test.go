/*
 * neighbours_test.go, part of goPES.
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
	"reflect"
	"testing"

	v3 "github.com/vmarchant/gopes/v3"
)

//an H2 molecule along z in a periodic cube of side 2
func periodicH2() (*v3.Matrix, *v3.Matrix) {
	coords, _ := v3.NewMatrix([]float64{0, 0, 0, 0, 0, 0.9})
	cell, _ := v3.NewMatrix([]float64{2, 0, 0, 0, 2, 0, 0, 0, 2})
	return coords, cell
}

func TestPeriodicH2Edges(Te *testing.T) {
	coords, cell := periodicH2()
	index, shifts, err := NeighbourList(coords, cell, true, 1.5)
	if err != nil {
		Te.Fatal(err)
	}
	//the direct pair both ways, plus the pair through the z face both ways
	if len(index[0]) != 4 {
		Te.Fatalf("got %d edges, want 4. index: %v shifts: %v", len(index[0]), index, shifts)
	}
	direct, image := 0, 0
	for e := range shifts {
		switch shifts[e] {
		case [3]int{0, 0, 0}:
			direct++
		case [3]int{0, 0, 1}, [3]int{0, 0, -1}:
			image++
		default:
			Te.Errorf("unexpected shift %v", shifts[e])
		}
	}
	if direct != 2 || image != 2 {
		Te.Errorf("got %d direct and %d image edges, want 2 and 2", direct, image)
	}
}

//an atom exactly at the cutoff is a neighbour
func TestInclusiveCutoff(Te *testing.T) {
	coords, _ := v3.NewMatrix([]float64{0, 0, 0, 0, 0, 1})
	index, _, err := NeighbourList(coords, nil, false, 1.0)
	if err != nil {
		Te.Fatal(err)
	}
	if len(index[0]) != 2 {
		Te.Errorf("pair at exactly the cutoff: got %d edges, want 2", len(index[0]))
	}
	index, _, err = NeighbourList(coords, nil, false, 0.999999)
	if err != nil {
		Te.Fatal(err)
	}
	if len(index[0]) != 0 {
		Te.Errorf("pair just beyond the cutoff: got %d edges, want 0", len(index[0]))
	}
}

func TestDeterministicOrder(Te *testing.T) {
	s := randomStructure()
	index1, shifts1, err := NeighbourList(s.Coords, s.Cell, true, 1.0)
	if err != nil {
		Te.Fatal(err)
	}
	index2, shifts2, err := NeighbourList(s.Coords, s.Cell, true, 1.0)
	if err != nil {
		Te.Fatal(err)
	}
	if !reflect.DeepEqual(index1, index2) || !reflect.DeepEqual(shifts1, shifts2) {
		Te.Error("two identical neighbour list builds disagree")
	}
}

func TestSingularCell(Te *testing.T) {
	coords, _ := v3.NewMatrix([]float64{0, 0, 0, 0, 0, 1})
	cell, _ := v3.NewMatrix([]float64{1, 0, 0, 1, 0, 0, 0, 0, 1}) //two equal rows
	_, _, err := NeighbourList(coords, cell, true, 1.0)
	if err == nil {
		Te.Error("a singular cell did not produce an error")
	}
}
