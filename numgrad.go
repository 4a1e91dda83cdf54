/*
 * numgrad.go, part of goPES.
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
	v3 "github.com/vmarchant/gopes/v3"
	"gonum.org/v1/gonum/diff/fd"
)

//The derived neighbour geometry is recomputed from positions and cell on
//every access, so the energy of a model is a plain function of the
//coordinates and finite differences of it are well defined. The neighbour
//topology is held fixed while differentiating, which is exact as long as no
//pair sits precisely at the cutoff.

//fdSettings is used for all finite difference gradients.
var fdSettings = &fd.Settings{Formula: fd.Central}

//NumForces computes -dE/dR for any model by central finite differences on
//the atom coordinates. Models with analytic derivatives should implement
//ForceModel instead; Predict prefers that path.
func NumForces(m Model, g Grapher) *v3.Matrix {
	coords := g.coordsView()
	n := coords.NVecs()
	x := make([]float64, 3*n)
	copy(x, coords.RawMatrix().Data)
	f := func(y []float64) float64 {
		c, err := v3.NewMatrix(append([]float64(nil), y...))
		if err != nil {
			panic(ErrShapeMismatch)
		}
		return totalEnergy(m, g.withCoords(c))
	}
	grad := fd.Gradient(nil, f, x, fdSettings)
	forces := v3.Zeros(n)
	raw := forces.RawMatrix().Data
	for i := range grad {
		raw[i] = -grad[i]
	}
	return forces
}

//NumStress computes the stress of each structure in g by central finite
//differences on a strain applied to its positions and cell:
//sigma = (1/V) dE/dstrain at zero strain. Requires every structure to have
//a cell; Predict checks that before calling.
func NumStress(m Model, g Grapher) []*v3.Matrix {
	out := make([]*v3.Matrix, g.NStructures())
	for s := 0; s < g.NStructures(); s++ {
		sg := g.structureGraph(s)
		f := func(e []float64) float64 {
			var eps [3][3]float64
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					eps[i][j] = e[3*i+j]
				}
			}
			return totalEnergy(m, sg.Strained(eps))
		}
		grad := fd.Gradient(nil, f, make([]float64, 9), fdSettings)
		vol := sg.Volume(0)
		sigma := v3.Zeros(3)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				//symmetrised: the energy only sees the symmetric part of the strain
				sigma.Set(i, j, (grad[3*i+j]+grad[3*j+i])/(2*vol))
			}
		}
		out[s] = sigma
	}
	return out
}
