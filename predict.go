/*
 * predict.go, part of goPES.
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
)

//Grapher is what models consume: a single AtomicGraph or an
//AtomicGraphBatch. The unexported methods keep the set of implementations
//closed to this package; everything a model needs is in the exported part.
type Grapher interface {
	NAtoms() int
	NEdges() int
	NStructures() int
	Z() []int
	BatchIndex() []int
	NeighbourIndex() (src, dst []int)
	NeighbourShifts() [][3]int
	NeighbourVectors() *v3.Matrix
	NeighbourDistances() []float64
	HasAllCells() bool
	Volume(i int) float64
	Precision() Precision

	coordsView() *v3.Matrix
	withCoords(*v3.Matrix) Grapher
	strained(eps [3][3]float64) Grapher
	structureGraph(i int) *AtomicGraph
}

//Property is one of the physical quantities a model can be asked for. The
//set is closed: asking for anything else is not representable, and an
//out-of-range value is a programmer error that panics.
type Property uint8

const (
	Energy Property = iota + 1
	Forces
	Stress
)

func (p Property) String() string {
	switch p {
	case Energy:
		return "energy"
	case Forces:
		return "forces"
	case Stress:
		return "stress"
	}
	panic(ErrBadProperty)
}

//Model is the contract a potential must satisfy to be evaluated through
//goPES: given a graph or batch, return the energy contribution of each atom.
//Atoms with no edges must naturally contribute their isolated-atom energy,
//with zero derivative. Implementations must be pure functions of the graph
//and their own parameters.
type Model interface {
	LocalEnergies(g Grapher) []float64
}

//ForceModel is a Model that can compute -dE/dR analytically. Predict uses it
//when available and falls back to finite differences otherwise.
type ForceModel interface {
	Model
	Forces(g Grapher) *v3.Matrix
}

//StressModel is a Model that can compute the virial stress analytically.
type StressModel interface {
	Model
	Stress(g Grapher) []*v3.Matrix
}

//Predictions holds the outputs of one Predict call. Lookups follow the
//comma-ok idiom: a property that was not requested, or could not be
//produced, is simply not there.
type Predictions struct {
	energy []float64    //one per structure, or nil
	forces *v3.Matrix   //total atoms x 3, or nil
	stress []*v3.Matrix //one 3x3 per structure, or nil
}

//Has reports whether property p was produced.
func (P *Predictions) Has(p Property) bool {
	switch p {
	case Energy:
		return P.energy != nil
	case Forces:
		return P.forces != nil
	case Stress:
		return P.stress != nil
	}
	panic(ErrBadProperty)
}

//Energy returns the predicted total energy of structure i.
func (P *Predictions) Energy(i int) (float64, bool) {
	if P.energy == nil || i < 0 || i >= len(P.energy) {
		return 0, false
	}
	return P.energy[i], true
}

//Energies returns a copy of the per-structure energies.
func (P *Predictions) Energies() ([]float64, bool) {
	if P.energy == nil {
		return nil, false
	}
	return append([]float64(nil), P.energy...), true
}

//Forces returns a copy of the predicted forces, one 3-vector per atom.
func (P *Predictions) Forces() (*v3.Matrix, bool) {
	if P.forces == nil {
		return nil, false
	}
	return P.forces.Copy(), true
}

//Stress returns a copy of the predicted 3x3 stress of structure i.
func (P *Predictions) Stress(i int) (*v3.Matrix, bool) {
	if P.stress == nil || i < 0 || i >= len(P.stress) {
		return nil, false
	}
	return P.stress[i].Copy(), true
}

//NStructures returns how many structures the predictions cover. It is read
//off the per-structure fields, so a prediction holding only forces (which
//are per atom, not per structure) reports 0.
func (P *Predictions) NStructures() int {
	if P.energy != nil {
		return len(P.energy)
	}
	if P.stress != nil {
		return len(P.stress)
	}
	return 0
}

//ForStructure slices a batched prediction back down to the single structure
//i of the batch b it was computed on. It inverts batching exactly.
func (P *Predictions) ForStructure(b *AtomicGraphBatch, i int) *Predictions {
	out := &Predictions{}
	if P.energy != nil {
		out.energy = []float64{P.energy[i]}
	}
	if P.forces != nil {
		ptr := b.ptr
		out.forces = P.forces.View(ptr[i], 0, ptr[i+1]-ptr[i], 3).Copy()
	}
	if P.stress != nil {
		out.stress = []*v3.Matrix{P.stress[i].Copy()}
	}
	return out
}

//Predict evaluates model m on g and returns the requested properties.
//With no explicit properties, energy and forces are computed, plus stress
//when every structure in g has a cell. Energies come from segment-summing
//the model's per-atom energies over the batch index; forces and stress come
//from the model's analytic derivatives when it has them (ForceModel,
//StressModel) and from central finite differences otherwise.
//
//Requesting Stress on a graph where any structure lacks a cell is an error
//(IsMissingCell): a non-periodic structure has no well-defined stress, and
//silently returning zeros would poison a training run.
func Predict(m Model, g Grapher, props ...Property) (*Predictions, error) {
	if m == nil || g == nil {
		panic(ErrNilData)
	}
	if len(props) == 0 {
		props = []Property{Energy, Forces}
		if g.HasAllCells() {
			props = append(props, Stress)
		}
	}
	out := &Predictions{}
	for _, p := range props {
		switch p {
		case Energy:
			out.energy = structureEnergies(m, g)
		case Forces:
			if fm, ok := m.(ForceModel); ok {
				out.forces = fm.Forces(g)
			} else {
				out.forces = NumForces(m, g)
			}
			if out.forces.NVecs() != g.NAtoms() {
				panic(ErrShapeMismatch)
			}
		case Stress:
			if !g.HasAllCells() {
				return nil, CError{msg: "Stress requested for a structure without a periodic cell", kind: errMissingCell}
			}
			if sm, ok := m.(StressModel); ok {
				out.stress = sm.Stress(g)
			} else {
				out.stress = NumStress(m, g)
			}
			if len(out.stress) != g.NStructures() {
				panic(ErrShapeMismatch)
			}
		default:
			panic(ErrBadProperty)
		}
	}
	return out, nil
}

//structureEnergies segment-sums the per-atom energies of m into one total
//per structure.
func structureEnergies(m Model, g Grapher) []float64 {
	local := m.LocalEnergies(g)
	if len(local) != g.NAtoms() {
		panic(PanicMsg(fmt.Sprintf("%s: model returned %d local energies for %d atoms", ErrShapeMismatch, len(local), g.NAtoms())))
	}
	total := make([]float64, g.NStructures())
	for a, s := range g.BatchIndex() {
		total[s] += local[a]
	}
	return total
}

//totalEnergy sums every structure's energy; the scalar objective that
//derivative code differentiates.
func totalEnergy(m Model, g Grapher) float64 {
	tot := 0.0
	local := m.LocalEnergies(g)
	if len(local) != g.NAtoms() {
		panic(ErrShapeMismatch)
	}
	for _, e := range local {
		tot += e
	}
	return tot
}
