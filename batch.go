/*
 * batch.go, part of goPES.
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

	v3 "github.com/vmarchant/gopes/v3"
	"gonum.org/v1/gonum/mat"
)

//AtomicGraphBatch is the concatenation of several atomic graphs into one,
//with the bookkeeping needed to segment per-atom model outputs back into
//per-structure quantities. Edge indices live in the concatenated atom index
//space; cells and per-structure labels are kept per structure. Like
//AtomicGraph it is immutable once built.
type AtomicGraphBatch struct {
	z             []int
	coords        *v3.Matrix
	cells         []*v3.Matrix //one 3x3 cell per structure
	hasCell       []bool
	index         [2][]int
	shifts        [][3]int
	edgeStruct    []int //which structure each edge belongs to
	batchIndex    []int //which structure each atom belongs to
	ptr           []int //cumulative atom counts, len NStructures+1
	atomInfo      map[string]*mat.Dense
	structureInfo map[string][]*mat.Dense //leading "structure" axis is the slice
	precision     Precision
}

//Batch combines the given graphs, in input order, into a single batch.
//Per-atom fields are concatenated, each graph's edge indices are offset by
//the atom counts of the graphs before it, and shifts are concatenated
//unchanged (they are local geometry, not indices). A batch of one graph is
//valid and equivalent to that graph with a zero batch index everywhere.
//All graphs must share label keys, label widths, and storage precision.
func Batch(graphs ...*AtomicGraph) (*AtomicGraphBatch, error) {
	if len(graphs) == 0 {
		return nil, CError{msg: "Can't batch zero graphs"}
	}
	b := &AtomicGraphBatch{
		cells:         make([]*v3.Matrix, len(graphs)),
		hasCell:       make([]bool, len(graphs)),
		ptr:           make([]int, len(graphs)+1),
		atomInfo:      map[string]*mat.Dense{},
		structureInfo: map[string][]*mat.Dense{},
		precision:     graphs[0].precision,
	}
	totalAtoms := 0
	for s, g := range graphs {
		if g == nil {
			panic(ErrNilData)
		}
		if g.precision != b.precision {
			return nil, CError{msg: fmt.Sprintf("Graph %d is stored at %v, graph 0 at %v; cast them to a common precision before batching", s, g.precision, b.precision)}
		}
		offset := totalAtoms
		b.z = append(b.z, g.z...)
		b.cells[s] = g.cell.Copy()
		b.hasCell[s] = g.hasCell
		for e := 0; e < g.NEdges(); e++ {
			b.index[0] = append(b.index[0], g.index[0][e]+offset)
			b.index[1] = append(b.index[1], g.index[1][e]+offset)
			b.edgeStruct = append(b.edgeStruct, s)
		}
		b.shifts = append(b.shifts, g.shifts...)
		for i := 0; i < g.NAtoms(); i++ {
			b.batchIndex = append(b.batchIndex, s)
		}
		totalAtoms += g.NAtoms()
		b.ptr[s+1] = totalAtoms
	}
	b.coords = v3.Zeros(totalAtoms)
	for s, g := range graphs {
		b.coords.SetMatrix(b.ptr[s], 0, g.coords)
	}
	if err := b.gatherInfo(graphs); err != nil {
		return nil, errDecorate(err, "Batch")
	}
	return b, nil
}

//gatherInfo stacks the label maps of the graphs: per-atom labels are
//row-concatenated, per-structure labels become one matrix per structure.
//Every graph must carry the same keys, or the per-structure segmentation of
//a training batch would silently go ragged.
func (B *AtomicGraphBatch) gatherInfo(graphs []*AtomicGraph) error {
	for key := range graphs[0].atomInfo {
		_, cols := graphs[0].atomInfo[key].Dims()
		stacked := mat.NewDense(B.NAtoms(), cols, nil)
		for s, g := range graphs {
			m, ok := g.atomInfo[key]
			if !ok {
				return CError{msg: fmt.Sprintf("Per-atom label %q present in graph 0 but missing from graph %d", key, s)}
			}
			if _, c := m.Dims(); c != cols {
				return CError{msg: fmt.Sprintf("Per-atom label %q has %d columns in graph %d, %d in graph 0", key, c, s, cols)}
			}
			stacked.Slice(B.ptr[s], B.ptr[s+1], 0, cols).(*mat.Dense).Copy(m)
		}
		B.atomInfo[key] = stacked
	}
	for s, g := range graphs {
		if len(g.atomInfo) != len(graphs[0].atomInfo) {
			return CError{msg: fmt.Sprintf("Graph %d carries %d per-atom labels, graph 0 carries %d", s, len(g.atomInfo), len(graphs[0].atomInfo))}
		}
		if len(g.structureInfo) != len(graphs[0].structureInfo) {
			return CError{msg: fmt.Sprintf("Graph %d carries %d per-structure labels, graph 0 carries %d", s, len(g.structureInfo), len(graphs[0].structureInfo))}
		}
	}
	for key := range graphs[0].structureInfo {
		stacked := make([]*mat.Dense, len(graphs))
		for s, g := range graphs {
			m, ok := g.structureInfo[key]
			if !ok {
				return CError{msg: fmt.Sprintf("Per-structure label %q present in graph 0 but missing from graph %d", key, s)}
			}
			stacked[s] = mat.DenseCopyOf(m)
		}
		B.structureInfo[key] = stacked
	}
	return nil
}

//NAtoms returns the total atom count across all structures.
func (B *AtomicGraphBatch) NAtoms() int { return len(B.z) }

//NEdges returns the total directed edge count across all structures.
func (B *AtomicGraphBatch) NEdges() int { return len(B.index[0]) }

//NStructures returns the number of structures in the batch.
func (B *AtomicGraphBatch) NStructures() int { return len(B.cells) }

//Z returns a copy of the atomic number of each atom, in concatenation order.
func (B *AtomicGraphBatch) Z() []int { return append([]int(nil), B.z...) }

//BatchIndex returns a copy of the structure index of each atom. Per-atom
//model outputs are segment-reduced over it to get per-structure quantities.
func (B *AtomicGraphBatch) BatchIndex() []int {
	return append([]int(nil), B.batchIndex...)
}

//Ptr returns a copy of the cumulative atom-count boundaries: atoms of
//structure s occupy rows [Ptr()[s], Ptr()[s+1]).
func (B *AtomicGraphBatch) Ptr() []int { return append([]int(nil), B.ptr...) }

//HasAllCells reports whether every structure in the batch is periodic.
func (B *AtomicGraphBatch) HasAllCells() bool {
	for _, h := range B.hasCell {
		if !h {
			return false
		}
	}
	return true
}

//Cell returns a copy of the cell of structure i.
func (B *AtomicGraphBatch) Cell(i int) *v3.Matrix { return B.cells[i].Copy() }

//Positions returns a copy of the concatenated raw coordinates, logging the
//same advisory as AtomicGraph.Positions when any structure is periodic.
func (B *AtomicGraphBatch) Positions() *v3.Matrix {
	for _, h := range B.hasCell {
		if h {
			Warnings.Println("Positions: raw positions of a periodic graph requested; neighbour geometry needs the periodic shifts too. Consider NeighbourVectors/NeighbourDistances.")
			break
		}
	}
	return B.coords.Copy()
}

//NeighbourIndex returns copies of the source and target atom index of each
//edge, in the concatenated atom index space.
func (B *AtomicGraphBatch) NeighbourIndex() (src, dst []int) {
	return append([]int(nil), B.index[0]...), append([]int(nil), B.index[1]...)
}

//NeighbourShifts returns a copy of the integer cell shift of each edge.
func (B *AtomicGraphBatch) NeighbourShifts() [][3]int {
	return append([][3]int(nil), B.shifts...)
}

//NeighbourVectors returns the displacement vector of each edge, each one
//computed against the cell of the structure the edge belongs to. Recomputed
//on every call, never cached.
func (B *AtomicGraphBatch) NeighbourVectors() *v3.Matrix {
	return edgeVectors(B.coords, B.index, B.shifts, func(e int) *v3.Matrix { return B.cells[B.edgeStruct[e]] })
}

//NeighbourDistances returns the Euclidean length of each neighbour vector.
func (B *AtomicGraphBatch) NeighbourDistances() []float64 {
	return rowNorms(B.NeighbourVectors())
}

//AtomLabel returns a copy of the concatenated per-atom label stored under key.
func (B *AtomicGraphBatch) AtomLabel(key string) (*mat.Dense, bool) {
	m, ok := B.atomInfo[key]
	if !ok {
		return nil, false
	}
	return mat.DenseCopyOf(m), true
}

//StructureLabel returns a copy of the label stored under key for structure i.
func (B *AtomicGraphBatch) StructureLabel(key string, i int) (*mat.Dense, bool) {
	ms, ok := B.structureInfo[key]
	if !ok {
		return nil, false
	}
	return mat.DenseCopyOf(ms[i]), true
}

//Precision returns the floating point width the batch data is stored at.
func (B *AtomicGraphBatch) Precision() Precision { return B.precision }

//Volume returns the cell volume of structure i. It panics if that structure
//has no cell.
func (B *AtomicGraphBatch) Volume(i int) float64 {
	if !B.hasCell[i] {
		panic(PanicMsg("goPES: volume of a structure without a cell"))
	}
	v := B.cells[i].Det()
	if v < 0 {
		v = -v
	}
	return v
}

//Graph extracts structure i back out of the batch. Batching followed by
//Graph is exact: the result carries the same atoms, edges, shifts, cell and
//labels the original graph did.
func (B *AtomicGraphBatch) Graph(i int) *AtomicGraph {
	if i < 0 || i >= B.NStructures() {
		panic(ErrShapeMismatch)
	}
	lo, hi := B.ptr[i], B.ptr[i+1]
	g := &AtomicGraph{
		z:             append([]int(nil), B.z[lo:hi]...),
		coords:        B.coords.View(lo, 0, hi-lo, 3).Copy(),
		cell:          B.cells[i].Copy(),
		hasCell:       B.hasCell[i],
		atomInfo:      map[string]*mat.Dense{},
		structureInfo: map[string]*mat.Dense{},
		precision:     B.precision,
	}
	for e := 0; e < B.NEdges(); e++ {
		if B.edgeStruct[e] != i {
			continue
		}
		g.index[0] = append(g.index[0], B.index[0][e]-lo)
		g.index[1] = append(g.index[1], B.index[1][e]-lo)
		g.shifts = append(g.shifts, B.shifts[e])
	}
	if g.shifts == nil {
		g.shifts = make([][3]int, 0)
	}
	for key, m := range B.atomInfo {
		_, cols := m.Dims()
		g.atomInfo[key] = mat.DenseCopyOf(m.Slice(lo, hi, 0, cols))
	}
	for key, ms := range B.structureInfo {
		g.structureInfo[key] = mat.DenseCopyOf(ms[i])
	}
	g.check()
	return g
}

//Grapher interface plumbing, see graph.go.

func (B *AtomicGraphBatch) coordsView() *v3.Matrix { return B.coords }

func (B *AtomicGraphBatch) withCoords(c *v3.Matrix) Grapher {
	if c.NVecs() != B.NAtoms() {
		panic(ErrShapeMismatch)
	}
	n := *B
	n.coords = c.Copy()
	return &n
}

func (B *AtomicGraphBatch) strained(eps [3][3]float64) Grapher {
	def := deformation(eps)
	n := *B
	n.coords = v3.Zeros(B.NAtoms())
	n.coords.Mul(B.coords, def)
	n.cells = make([]*v3.Matrix, len(B.cells))
	for i, c := range B.cells {
		n.cells[i] = v3.Zeros(3)
		n.cells[i].Mul(c, def)
	}
	return &n
}

func (B *AtomicGraphBatch) structureGraph(i int) *AtomicGraph { return B.Graph(i) }
