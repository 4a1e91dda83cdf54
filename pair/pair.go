/*
 * pair.go, part of goPES.
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

package pair

import (
	"fmt"

	pes "github.com/vmarchant/gopes"
	v3 "github.com/vmarchant/gopes/v3"
)

//potential is a radial pair potential: value and derivative at distance d.
type potential interface {
	phi(d float64) float64
	dphi(d float64) float64
}

//The neighbour list is directed, so every pair contributes two edges and
//each edge carries half the pair energy. The half is assigned to the edge's
//source atom, which makes the per-atom energies sum to the right total and
//gives isolated atoms exactly zero.

func localEnergies(p potential, g pes.Grapher) []float64 {
	local := make([]float64, g.NAtoms())
	src, _ := g.NeighbourIndex()
	for e, d := range g.NeighbourDistances() {
		local[src[e]] += 0.5 * p.phi(d)
	}
	return local
}

func forces(p potential, g pes.Grapher) *v3.Matrix {
	out := v3.Zeros(g.NAtoms())
	raw := out.RawMatrix().Data
	src, dst := g.NeighbourIndex()
	vecs := g.NeighbourVectors().RawMatrix().Data
	for e, d := range g.NeighbourDistances() {
		//f = 0.5*dphi(d) along the unit edge vector, pushed on the source
		//and pulled off the target. Self-image edges cancel themselves out.
		c := 0.5 * p.dphi(d) / d
		i, j := src[e], dst[e]
		for k := 0; k < 3; k++ {
			v := c * vecs[e*3+k]
			raw[i*3+k] += v
			raw[j*3+k] -= v
		}
	}
	return out
}

func stress(p potential, g pes.Grapher) []*v3.Matrix {
	out := make([]*v3.Matrix, g.NStructures())
	for s := range out {
		out[s] = v3.Zeros(3)
	}
	vols := make([]float64, g.NStructures())
	for s := range vols {
		vols[s] = g.Volume(s)
	}
	src, _ := g.NeighbourIndex()
	batch := g.BatchIndex()
	vecs := g.NeighbourVectors().RawMatrix().Data
	for e, d := range g.NeighbourDistances() {
		//virial: sigma += (1/2V) * dphi(d)/d * v (x) v, per directed edge
		s := batch[src[e]]
		c := 0.5 * p.dphi(d) / (d * vols[s])
		sig := out[s]
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				sig.Set(a, b, sig.At(a, b)+c*vecs[e*3+a]*vecs[e*3+b])
			}
		}
	}
	return out
}

//takeParams validates that params only carries known names, filling defaults
//for the missing ones. The registry promises that unknown parameter names
//fail instead of being ignored.
func takeParams(params, defaults map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range params {
		if _, ok := defaults[k]; !ok {
			return nil, fmt.Errorf("unknown parameter %q", k)
		}
		out[k] = v
	}
	return out, nil
}
