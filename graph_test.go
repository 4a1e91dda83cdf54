/*
 * graph_test.go, part of goPES.
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
	"bytes"
	"fmt"
	"log"
	"math"
	"math/rand"
	"testing"

	v3 "github.com/vmarchant/gopes/v3"
	"gonum.org/v1/gonum/mat"
)

//a hydrogen atom alone in the void
func isolatedAtom() *Structure {
	return &Structure{Numbers: []int{1}, Coords: v3.Zeros(1)}
}

//a hydrogen atom in a periodic unit cube
func periodicAtom() *Structure {
	cell, _ := v3.NewMatrix([]float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	return &Structure{Numbers: []int{1}, Coords: v3.Zeros(1), Cell: cell, PBC: true}
}

//8 reproducibly-random hydrogens in a periodic unit cube
func randomStructure() *Structure {
	rng := rand.New(rand.NewSource(42))
	coords := v3.Zeros(8)
	for i := 0; i < 8; i++ {
		for k := 0; k < 3; k++ {
			coords.Set(i, k, rng.Float64())
		}
	}
	cell, _ := v3.NewMatrix([]float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	return &Structure{Numbers: []int{1, 1, 1, 1, 1, 1, 1, 1}, Coords: coords, Cell: cell, PBC: true}
}

func TestGeneral(Te *testing.T) {
	structures := []*Structure{isolatedAtom(), periodicAtom(), randomStructure()}
	graphs, err := GraphsFromStructures(structures, 1.0)
	if err != nil {
		Te.Fatal(err)
	}
	for i, g := range graphs {
		if g.NAtoms() != structures[i].NAtoms() {
			Te.Errorf("structure %d: graph has %d atoms, structure has %d", i, g.NAtoms(), structures[i].NAtoms())
		}
		src, dst := g.NeighbourIndex()
		ne := g.NEdges()
		if len(src) != ne || len(dst) != ne {
			Te.Errorf("structure %d: edge index length disagrees with NEdges", i)
		}
		if g.NeighbourVectors().NVecs() != ne {
			Te.Errorf("structure %d: %d neighbour vectors for %d edges", i, g.NeighbourVectors().NVecs(), ne)
		}
		if len(g.NeighbourDistances()) != ne {
			Te.Errorf("structure %d: %d neighbour distances for %d edges", i, len(g.NeighbourDistances()), ne)
		}
		if len(g.NeighbourShifts()) != ne {
			Te.Errorf("structure %d: %d shifts for %d edges", i, len(g.NeighbourShifts()), ne)
		}
	}
}

func TestIsoAtom(Te *testing.T) {
	g, err := GraphFromStructure(isolatedAtom(), 1.0)
	if err != nil {
		Te.Fatal(err)
	}
	if g.NAtoms() != 1 || g.NEdges() != 0 {
		Te.Errorf("isolated atom: got %d atoms and %d edges, want 1 and 0", g.NAtoms(), g.NEdges())
	}
}

func TestPeriodicAtom(Te *testing.T) {
	g, err := GraphFromStructure(periodicAtom(), 1.1)
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println("A single atom in a periodic unit cube has", g.NEdges(), "neighbours")
	//6 neighbours: the up, down, left, right, front and back periodic images
	if g.NEdges() != 6 {
		Te.Errorf("periodic atom in a unit cube with cutoff 1.1: got %d edges, want 6", g.NEdges())
	}
	src, dst := g.NeighbourIndex()
	for e := 0; e < g.NEdges(); e++ {
		if src[e] != 0 || dst[e] != 0 {
			Te.Errorf("edge %d connects %d-%d in a 1-atom graph", e, src[e], dst[e])
		}
	}
	for e, s := range g.NeighbourShifts() {
		if s == [3]int{0, 0, 0} {
			Te.Errorf("edge %d of a single periodic atom has a zero shift", e)
		}
	}
}

func TestRandomStructure(Te *testing.T) {
	g, err := GraphFromStructure(randomStructure(), 1.0)
	if err != nil {
		Te.Fatal(err)
	}
	if g.NAtoms() != 8 {
		Te.Fatalf("got %d atoms, want 8", g.NAtoms())
	}
	for e, d := range g.NeighbourDistances() {
		if d > 1.0+1e-12 {
			Te.Errorf("edge %d has distance %g beyond the cutoff", e, d)
		}
	}
	//distances must round-trip from the vectors
	vecs := g.NeighbourVectors()
	for e, d := range g.NeighbourDistances() {
		v := vecs.VecView(e)
		if math.Abs(v.Norm(2)-d) > 1e-12 {
			Te.Errorf("edge %d: |vector|=%g but distance=%g", e, v.Norm(2), d)
		}
	}
}

func TestPositionsWarning(Te *testing.T) {
	oldWarnings := Warnings
	defer func() { Warnings = oldWarnings }()
	var buf bytes.Buffer
	Warnings = log.New(&buf, "", 0)

	iso, err := GraphFromStructure(isolatedAtom(), 1.0)
	if err != nil {
		Te.Fatal(err)
	}
	_ = iso.Positions()
	if buf.Len() != 0 {
		Te.Errorf("raw position access without a cell warned: %q", buf.String())
	}
	per, err := GraphFromStructure(periodicAtom(), 1.1)
	if err != nil {
		Te.Fatal(err)
	}
	_ = per.Positions()
	if buf.Len() == 0 {
		Te.Error("raw position access on a periodic graph did not warn")
	}
}

func TestPrecisionCasting(Te *testing.T) {
	s := isolatedAtom()
	s.Coords.Set(0, 0, math.Pi)
	g, err := GraphFromStructure(s, 1.0)
	if err != nil {
		Te.Fatal(err)
	}
	cast := g.ToPrecision(Float32)
	if cast == g {
		Te.Error("ToPrecision returned the same instance")
	}
	if cast.Precision() != Float32 || g.Precision() != Float64 {
		Te.Errorf("precisions after casting: cast=%v original=%v", cast.Precision(), g.Precision())
	}
	if got := cast.coords.At(0, 0); got != float64(float32(math.Pi)) {
		Te.Errorf("cast coordinate %v not rounded through float32", got)
	}
	if g.coords.At(0, 0) != math.Pi {
		Te.Error("casting mutated the original graph")
	}
	//casting to the same precision must still return a fresh instance
	same := g.ToPrecision(Float64)
	if same == g {
		Te.Error("ToPrecision(Float64) returned the same instance")
	}
}

func TestExtractInformation(Te *testing.T) {
	coords, _ := v3.NewMatrix([]float64{0, 0, 0, 0, 0, 1})
	s := &Structure{
		Numbers: []int{1, 1},
		Coords:  coords,
		Info: map[string]interface{}{
			"energy":    -1.0,
			"positions": 42.0, //reserved, must never leak
		},
		Arrays: map[string]interface{}{
			"forces": [][]float64{{0, 0, 0}, {0, 0, 0}},
			"pbc":    []float64{0, 0}, //reserved, must never leak
		},
	}

	//defaults: everything non-reserved is extracted
	atomInfo, structureInfo, err := ExtractInformation(s, nil)
	if err != nil {
		Te.Fatal(err)
	}
	e, ok := structureInfo["energy"]
	if !ok || e.At(0, 0) != -1.0 {
		Te.Errorf("structure info energy: got %v, want -1.0", e)
	}
	f, ok := atomInfo["forces"]
	if !ok {
		Te.Fatal("forces not extracted")
	}
	if r, c := f.Dims(); r != 2 || c != 3 {
		Te.Errorf("forces shape (%d,%d), want (2,3)", r, c)
	}
	for _, key := range []string{"numbers", "positions", "cell", "pbc"} {
		if _, ok := atomInfo[key]; ok {
			Te.Errorf("reserved key %q leaked into atom info", key)
		}
		if _, ok := structureInfo[key]; ok {
			Te.Errorf("reserved key %q leaked into structure info", key)
		}
	}

	//explicit keys
	atomInfo, structureInfo, err = ExtractInformation(s, &ExtractOptions{StructureKeys: []string{"energy"}, AtomKeys: []string{}})
	if err != nil {
		Te.Fatal(err)
	}
	if _, ok := structureInfo["energy"]; !ok {
		Te.Error("explicitly requested energy not extracted")
	}
	if _, ok := atomInfo["forces"]; ok {
		Te.Error("forces extracted despite an empty atom key list")
	}

	//missing explicit key
	_, _, err = ExtractInformation(s, &ExtractOptions{StructureKeys: []string{"missing"}})
	if !IsMissingKey(err) {
		Te.Errorf("missing key: got %v, want a MissingKey error", err)
	}

	//explicitly asking for a non-numeric value
	s.Info["string"] = "test"
	_, _, err = ExtractInformation(s, &ExtractOptions{StructureKeys: []string{"string"}})
	if !IsBadType(err) {
		Te.Errorf("string value: got %v, want a BadType error", err)
	}
}

func TestIsolatedAPI(Te *testing.T) {
	coords, _ := v3.NewMatrix([]float64{0, 0, 0, 0, 0, 1})
	g := FromIsolatedStructure([]int{1, 1}, coords, [2][]int{{0, 1}, {1, 0}})
	if g.NAtoms() != 2 {
		Te.Errorf("unexpected graph created: %d atoms", g.NAtoms())
	}
	if g.HasCell() {
		Te.Error("graph should not have a cell")
	}
	if g.NEdges() != 2 {
		Te.Errorf("got %d edges, want the 2 given", g.NEdges())
	}
	for _, s := range g.NeighbourShifts() {
		if s != [3]int{0, 0, 0} {
			Te.Error("non-zero shift on a cell-less graph")
		}
	}
}

func TestGraphLabels(Te *testing.T) {
	coords, _ := v3.NewMatrix([]float64{0, 0, 0, 0, 0, 1})
	s := &Structure{
		Numbers: []int{1, 1},
		Coords:  coords,
		Info:    map[string]interface{}{"energy": -1.0},
		Arrays:  map[string]interface{}{"forces": [][]float64{{0, 0, 1}, {0, 0, -1}}},
	}
	g, err := GraphFromStructure(s, 1.5)
	if err != nil {
		Te.Fatal(err)
	}
	e, ok := g.StructureLabel("energy")
	if !ok || e.At(0, 0) != -1.0 {
		Te.Errorf("energy label: got %v", e)
	}
	f, ok := g.AtomLabel("forces")
	if !ok || f.At(0, 2) != 1 || f.At(1, 2) != -1 {
		Te.Errorf("forces label: got %v", mat.Formatted(f))
	}
	if _, ok := g.AtomLabel("nope"); ok {
		Te.Error("label lookup for an absent key succeeded")
	}
}
