/*
 * graph.go, part of goPES.
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

//Precision is the floating point width the data of a graph is stored at.
//Casting between precisions always builds a new graph, never mutates one,
//so graphs stay safe to share between concurrent readers.
type Precision uint8

const (
	Float64 Precision = iota
	Float32
)

func (p Precision) String() string {
	switch p {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	}
	panic(ErrBadPrecision)
}

//AtomicGraph is the neighbour-list representation of a single structure:
//atoms are nodes, pairs within the construction cutoff are directed edges.
//It is an immutable value object. None of its methods mutate it, and every
//accessor either copies or recomputes, so a graph may be shared read-only
//between goroutines with no locking.
type AtomicGraph struct {
	z             []int
	coords        *v3.Matrix
	cell          *v3.Matrix //3x3; all-zero when hasCell is false
	hasCell       bool
	index         [2][]int
	shifts        [][3]int
	atomInfo      map[string]*mat.Dense
	structureInfo map[string]*mat.Dense
	precision     Precision
}

//GraphFromStructure builds the atomic graph of s under the given cutoff.
//All non-reserved metadata of s is carried along as labels; use
//GraphFromStructureOpts for explicit label selection.
func GraphFromStructure(s *Structure, cutoff float64) (*AtomicGraph, error) {
	return GraphFromStructureOpts(s, cutoff, nil)
}

//GraphFromStructureOpts is GraphFromStructure with explicit label selection.
func GraphFromStructureOpts(s *Structure, cutoff float64, opts *ExtractOptions) (*AtomicGraph, error) {
	if s == nil || s.Coords == nil {
		panic(ErrNilData)
	}
	if len(s.Numbers) != s.NAtoms() {
		return nil, CError{msg: fmt.Sprintf("Structure has %d atomic numbers but %d coordinates", len(s.Numbers), s.NAtoms())}
	}
	atomInfo, structureInfo, err := ExtractInformation(s, opts)
	if err != nil {
		return nil, errDecorate(err, "GraphFromStructure")
	}
	hasCell := s.PBC && s.Cell != nil && !s.Cell.IsZero()
	var cell *v3.Matrix
	if hasCell {
		if r, c := s.Cell.Dims(); r != 3 || c != 3 {
			return nil, CError{msg: fmt.Sprintf("Cell must be 3x3, got %dx%d", r, c)}
		}
		cell = s.Cell.Copy()
	} else {
		cell = v3.Zeros(3)
	}
	index, shifts, err := NeighbourList(s.Coords, cell, hasCell, cutoff)
	if err != nil {
		return nil, errDecorate(err, "GraphFromStructure")
	}
	g := &AtomicGraph{
		z:             append([]int(nil), s.Numbers...),
		coords:        s.Coords.Copy(),
		cell:          cell,
		hasCell:       hasCell,
		index:         index,
		shifts:        shifts,
		atomInfo:      atomInfo,
		structureInfo: structureInfo,
		precision:     Float64,
	}
	g.check()
	return g, nil
}

//GraphsFromStructures builds one graph per structure, all under the same cutoff.
func GraphsFromStructures(ss []*Structure, cutoff float64) ([]*AtomicGraph, error) {
	graphs := make([]*AtomicGraph, len(ss))
	var err error
	for i, s := range ss {
		graphs[i], err = GraphFromStructure(s, cutoff)
		if err != nil {
			return nil, errDecorate(err, fmt.Sprintf("GraphsFromStructures: structure %d", i))
		}
	}
	return graphs, nil
}

//FromIsolatedStructure builds a graph directly from atomic numbers,
//coordinates and an explicit, already-computed neighbour index. The result
//has no cell and an all-zero shift per edge.
func FromIsolatedStructure(z []int, coords *v3.Matrix, index [2][]int) *AtomicGraph {
	if coords == nil {
		panic(ErrNilData)
	}
	g := &AtomicGraph{
		z:             append([]int(nil), z...),
		coords:        coords.Copy(),
		cell:          v3.Zeros(3),
		hasCell:       false,
		index:         [2][]int{append([]int(nil), index[0]...), append([]int(nil), index[1]...)},
		shifts:        make([][3]int, len(index[0])),
		atomInfo:      map[string]*mat.Dense{},
		structureInfo: map[string]*mat.Dense{},
		precision:     Float64,
	}
	g.check()
	return g
}

//check panics if the graph fields disagree on counts or the edge list points
//outside the atom range. Such a state is a construction bug, never user input.
func (G *AtomicGraph) check() {
	n := G.coords.NVecs()
	if len(G.z) != n {
		panic(ErrShapeMismatch)
	}
	if len(G.index[0]) != len(G.index[1]) || len(G.index[0]) != len(G.shifts) {
		panic(ErrShapeMismatch)
	}
	for k := 0; k < len(G.index[0]); k++ {
		i, j := G.index[0][k], G.index[1][k]
		if i < 0 || i >= n || j < 0 || j >= n {
			panic(ErrShapeMismatch)
		}
	}
	for key, m := range G.atomInfo {
		if r, _ := m.Dims(); r != n {
			panic(PanicMsg(fmt.Sprintf("%s: per-atom label %q", ErrShapeMismatch, key)))
		}
	}
}

//NAtoms returns the number of atoms in the graph.
func (G *AtomicGraph) NAtoms() int { return G.coords.NVecs() }

//NEdges returns the number of directed edges in the graph.
func (G *AtomicGraph) NEdges() int { return len(G.index[0]) }

//NStructures returns 1: a plain graph always holds a single structure.
func (G *AtomicGraph) NStructures() int { return 1 }

//Z returns a copy of the atomic number of each atom.
func (G *AtomicGraph) Z() []int { return append([]int(nil), G.z...) }

//HasCell reports whether the graph is periodic.
func (G *AtomicGraph) HasCell() bool { return G.hasCell }

//HasAllCells reports whether every structure in the graph is periodic.
//For a single graph this is just HasCell.
func (G *AtomicGraph) HasAllCells() bool { return G.hasCell }

//Cell returns a copy of the 3x3 cell matrix. It is all-zero when the graph
//is not periodic.
func (G *AtomicGraph) Cell() *v3.Matrix { return G.cell.Copy() }

//Positions returns a copy of the raw cartesian coordinates. On a periodic
//graph these alone do not describe the neighbour geometry (the periodic
//shifts are missing), so a warning is logged: callers probably want
//NeighbourVectors or NeighbourDistances instead.
func (G *AtomicGraph) Positions() *v3.Matrix {
	if G.hasCell {
		Warnings.Println("Positions: raw positions of a periodic graph requested; neighbour geometry needs the periodic shifts too. Consider NeighbourVectors/NeighbourDistances.")
	}
	return G.coords.Copy()
}

//NeighbourIndex returns copies of the source and target atom index of each edge.
func (G *AtomicGraph) NeighbourIndex() (src, dst []int) {
	return append([]int(nil), G.index[0]...), append([]int(nil), G.index[1]...)
}

//NeighbourShifts returns a copy of the integer cell shift of each edge.
func (G *AtomicGraph) NeighbourShifts() [][3]int {
	return append([][3]int(nil), G.shifts...)
}

//NeighbourVectors returns the displacement vector of each edge:
//coords[j] + shift*cell - coords[i]. It is recomputed from the base fields
//on every call and never cached, so it always reflects the stored positions
//and cell exactly; derivatives of the energy with respect to either stay
//well defined.
func (G *AtomicGraph) NeighbourVectors() *v3.Matrix {
	return edgeVectors(G.coords, G.index, G.shifts, func(e int) *v3.Matrix { return G.cell })
}

//NeighbourDistances returns the Euclidean length of each neighbour vector.
func (G *AtomicGraph) NeighbourDistances() []float64 {
	return rowNorms(G.NeighbourVectors())
}

//AtomLabel returns a copy of the per-atom label stored under key, e.g.
//reference forces under "forces".
func (G *AtomicGraph) AtomLabel(key string) (*mat.Dense, bool) {
	m, ok := G.atomInfo[key]
	if !ok {
		return nil, false
	}
	return mat.DenseCopyOf(m), true
}

//StructureLabel returns a copy of the per-structure label stored under key,
//e.g. the reference energy under "energy".
func (G *AtomicGraph) StructureLabel(key string) (*mat.Dense, bool) {
	m, ok := G.structureInfo[key]
	if !ok {
		return nil, false
	}
	return mat.DenseCopyOf(m), true
}

//Precision returns the floating point width the graph data is stored at.
func (G *AtomicGraph) Precision() Precision { return G.precision }

//Clone returns a deep copy of the graph.
func (G *AtomicGraph) Clone() *AtomicGraph {
	n := &AtomicGraph{
		z:             append([]int(nil), G.z...),
		coords:        G.coords.Copy(),
		cell:          G.cell.Copy(),
		hasCell:       G.hasCell,
		index:         [2][]int{append([]int(nil), G.index[0]...), append([]int(nil), G.index[1]...)},
		shifts:        append([][3]int(nil), G.shifts...),
		atomInfo:      copyInfo(G.atomInfo),
		structureInfo: copyInfo(G.structureInfo),
		precision:     G.precision,
	}
	return n
}

//ToPrecision returns a new graph with every float-valued field stored at
//precision p; the receiver is left untouched. Casting to Float32 rounds all
//data through 32-bit floats. The result is a fresh instance even when p is
//already the receiver's precision.
func (G *AtomicGraph) ToPrecision(p Precision) *AtomicGraph {
	if p != Float64 && p != Float32 {
		panic(ErrBadPrecision)
	}
	n := G.Clone()
	n.precision = p
	if p == Float32 {
		roundMatrix(n.coords.Dense)
		roundMatrix(n.cell.Dense)
		for _, m := range n.atomInfo {
			roundMatrix(m)
		}
		for _, m := range n.structureInfo {
			roundMatrix(m)
		}
	}
	return n
}

//WithCoords returns a new graph with the same topology, labels and cell, but
//new coordinates. The neighbour list is kept as is: this is the primitive
//that derivative code perturbs positions through.
func (G *AtomicGraph) WithCoords(coords *v3.Matrix) *AtomicGraph {
	if coords.NVecs() != G.NAtoms() {
		panic(ErrShapeMismatch)
	}
	n := G.Clone()
	n.coords = coords.Copy()
	return n
}

//Strained returns a new graph with positions and cell transformed by (I+eps),
//eps a (usually small, symmetric) strain matrix. The neighbour topology is
//kept fixed; the derived neighbour vectors pick the deformation up through
//the transformed positions and cell.
func (G *AtomicGraph) Strained(eps [3][3]float64) *AtomicGraph {
	n := G.Clone()
	def := deformation(eps)
	n.coords.Mul(G.coords, def)
	n.cell.Mul(G.cell, def)
	return n
}

//Volume returns the cell volume of structure i (always 0 for a single graph).
//It panics if the graph has no cell.
func (G *AtomicGraph) Volume(i int) float64 {
	if i != 0 {
		panic(ErrShapeMismatch)
	}
	if !G.hasCell {
		panic(PanicMsg("goPES: volume of a graph without a cell"))
	}
	v := G.cell.Det()
	if v < 0 {
		v = -v
	}
	return v
}

//BatchIndex returns the structure index of each atom: all zeros for a
//single graph.
func (G *AtomicGraph) BatchIndex() []int {
	return make([]int, G.NAtoms())
}

//Grapher interface plumbing. These unexported methods keep the set of graph
//implementations closed to this package.

func (G *AtomicGraph) coordsView() *v3.Matrix { return G.coords }

func (G *AtomicGraph) withCoords(c *v3.Matrix) Grapher { return G.WithCoords(c) }

func (G *AtomicGraph) strained(eps [3][3]float64) Grapher { return G.Strained(eps) }

func (G *AtomicGraph) structureGraph(i int) *AtomicGraph {
	if i != 0 {
		panic(ErrShapeMismatch)
	}
	return G
}

//helpers shared with the batch implementation

func edgeVectors(coords *v3.Matrix, index [2][]int, shifts [][3]int, cellOf func(e int) *v3.Matrix) *v3.Matrix {
	ne := len(index[0])
	out := v3.Zeros(ne)
	raw := out.RawMatrix().Data
	for e := 0; e < ne; e++ {
		ri := coords.RawRowView(index[0][e])
		rj := coords.RawRowView(index[1][e])
		s := shifts[e]
		c := cellOf(e).RawMatrix().Data
		fa, fb, fg := float64(s[0]), float64(s[1]), float64(s[2])
		raw[e*3+0] = rj[0] + fa*c[0] + fb*c[3] + fg*c[6] - ri[0]
		raw[e*3+1] = rj[1] + fa*c[1] + fb*c[4] + fg*c[7] - ri[1]
		raw[e*3+2] = rj[2] + fa*c[2] + fb*c[5] + fg*c[8] - ri[2]
	}
	return out
}

func rowNorms(m *v3.Matrix) []float64 {
	n := m.NVecs()
	out := make([]float64, n)
	raw := m.RawMatrix().Data
	for i := 0; i < n; i++ {
		x, y, z := raw[i*3], raw[i*3+1], raw[i*3+2]
		out[i] = sqrt3(x, y, z)
	}
	return out
}

func sqrt3(x, y, z float64) float64 {
	return math.Sqrt(x*x + y*y + z*z)
}

func deformation(eps [3][3]float64) *v3.Matrix {
	def := v3.Zeros(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := eps[i][j]
			if i == j {
				v++
			}
			def.Set(i, j, v)
		}
	}
	return def
}

func copyInfo(m map[string]*mat.Dense) map[string]*mat.Dense {
	out := make(map[string]*mat.Dense, len(m))
	for k, v := range m {
		out[k] = mat.DenseCopyOf(v)
	}
	return out
}

func roundMatrix(m *mat.Dense) {
	raw := m.RawMatrix()
	for i, v := range raw.Data {
		raw.Data[i] = float64(float32(v))
	}
}
