/*
 * lennardjones.go, part of goPES.
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
	"math"

	pes "github.com/vmarchant/gopes"
	v3 "github.com/vmarchant/gopes/v3"
)

//LennardJones is the 12-6 potential
//phi(d) = 4*epsilon*((sigma/d)^12 - (sigma/d)^6).
type LennardJones struct {
	Epsilon float64
	Sigma   float64
}

//NewLennardJones returns a Lennard-Jones potential with the given well depth
//and zero-crossing distance.
func NewLennardJones(epsilon, sigma float64) *LennardJones {
	return &LennardJones{Epsilon: epsilon, Sigma: sigma}
}

func (L *LennardJones) phi(d float64) float64 {
	s6 := math.Pow(L.Sigma/d, 6)
	return 4 * L.Epsilon * (s6*s6 - s6)
}

func (L *LennardJones) dphi(d float64) float64 {
	s6 := math.Pow(L.Sigma/d, 6)
	return 4 * L.Epsilon * (-12*s6*s6 + 6*s6) / d
}

//LocalEnergies returns half the pair energy of each directed edge, assigned
//to the edge's source atom.
func (L *LennardJones) LocalEnergies(g pes.Grapher) []float64 {
	return localEnergies(L, g)
}

//Forces returns the analytic -dE/dR.
func (L *LennardJones) Forces(g pes.Grapher) *v3.Matrix {
	return forces(L, g)
}

//Stress returns the analytic virial stress, one 3x3 matrix per structure.
func (L *LennardJones) Stress(g pes.Grapher) []*v3.Matrix {
	return stress(L, g)
}

func init() {
	pes.RegisterModel("lennard-jones", func(params map[string]float64) (pes.Model, error) {
		p, err := takeParams(params, map[string]float64{"epsilon": 1, "sigma": 1})
		if err != nil {
			return nil, err
		}
		return NewLennardJones(p["epsilon"], p["sigma"]), nil
	})
}
