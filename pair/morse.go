/*
 * morse.go, part of goPES.
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

//Morse is the potential
//phi(d) = D*(1 - exp(-a*(d-r0)))^2 - D,
//with well depth D, width a and equilibrium distance r0.
type Morse struct {
	D  float64
	A  float64
	R0 float64
}

//NewMorse returns a Morse potential.
func NewMorse(d, a, r0 float64) *Morse {
	return &Morse{D: d, A: a, R0: r0}
}

func (M *Morse) phi(d float64) float64 {
	e := 1 - math.Exp(-M.A*(d-M.R0))
	return M.D*e*e - M.D
}

func (M *Morse) dphi(d float64) float64 {
	x := math.Exp(-M.A * (d - M.R0))
	return 2 * M.D * M.A * x * (1 - x)
}

//LocalEnergies returns half the pair energy of each directed edge, assigned
//to the edge's source atom.
func (M *Morse) LocalEnergies(g pes.Grapher) []float64 {
	return localEnergies(M, g)
}

//Forces returns the analytic -dE/dR.
func (M *Morse) Forces(g pes.Grapher) *v3.Matrix {
	return forces(M, g)
}

//Stress returns the analytic virial stress, one 3x3 matrix per structure.
func (M *Morse) Stress(g pes.Grapher) []*v3.Matrix {
	return stress(M, g)
}

func init() {
	pes.RegisterModel("morse", func(params map[string]float64) (pes.Model, error) {
		p, err := takeParams(params, map[string]float64{"D": 1, "a": 5, "r0": 1})
		if err != nil {
			return nil, err
		}
		return NewMorse(p["D"], p["a"], p["r0"]), nil
	})
}
