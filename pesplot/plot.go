/*
 * plot.go, part of goPES.
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

//Package pesplot draws quick diagnostic plots for interatomic potentials:
//dimer curves (energy of an isolated pair against its separation) and
//histograms of the neighbour distances a dataset of graphs actually samples.
package pesplot

import (
	"fmt"

	pes "github.com/vmarchant/gopes"
	v3 "github.com/vmarchant/gopes/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//DimerCurve evaluates the model on an isolated two-atom structure of the
//given species at n separations between rmin and rmax, and saves the
//energy-vs-distance curve to filename. The image format follows the file
//extension (png, pdf, svg...).
func DimerCurve(m pes.Model, z1, z2 int, rmin, rmax float64, n int, filename string) error {
	if m == nil {
		return fmt.Errorf("pesplot: given a nil model")
	}
	if n < 2 || rmin <= 0 || rmax <= rmin {
		return fmt.Errorf("pesplot: need n>=2 and 0<rmin<rmax, got n=%d rmin=%g rmax=%g", n, rmin, rmax)
	}
	pts := make(plotter.XYs, n)
	index := [2][]int{{0, 1}, {1, 0}}
	for k := 0; k < n; k++ {
		r := rmin + float64(k)*(rmax-rmin)/float64(n-1)
		coords := v3.Zeros(2)
		coords.Set(1, 2, r)
		g := pes.FromIsolatedStructure([]int{z1, z2}, coords, index)
		pred, err := pes.Predict(m, g, pes.Energy)
		if err != nil {
			return err
		}
		e, _ := pred.Energy(0)
		pts[k].X = r
		pts[k].Y = e
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s-%s dimer curve", pes.AtomicSymbol(z1), pes.AtomicSymbol(z2))
	p.X.Label.Text = "separation"
	p.Y.Label.Text = "energy"
	p.Add(plotter.NewGrid())
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	return p.Save(4*vg.Inch, 4*vg.Inch, filename)
}

//DistanceHistogram bins the neighbour distances of every given graph into
//nbins and saves the histogram to filename. It shows what interatomic
//distances a training set actually covers under its cutoff.
func DistanceHistogram(nbins int, filename string, graphs ...pes.Grapher) error {
	if len(graphs) == 0 {
		return fmt.Errorf("pesplot: no graphs given")
	}
	var all plotter.Values
	for _, g := range graphs {
		all = append(all, g.NeighbourDistances()...)
	}
	if len(all) == 0 {
		return fmt.Errorf("pesplot: the given graphs have no edges")
	}
	p := plot.New()
	p.Title.Text = "Neighbour distances"
	p.X.Label.Text = "distance"
	p.Y.Label.Text = "count"
	p.X.Min = 0
	p.X.Max = floats.Max(all) * 1.05
	h, err := plotter.NewHist(all, nbins)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(4*vg.Inch, 4*vg.Inch, filename)
}
