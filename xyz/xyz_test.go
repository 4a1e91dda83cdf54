/*
 * xyz_test.go, part of goPES.
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

package xyz

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	pes "github.com/vmarchant/gopes"
	v3 "github.com/vmarchant/gopes/v3"
)

func waterish() *pes.Structure {
	coords, _ := v3.NewMatrix([]float64{
		0, 0, 0.1193,
		0, 0.7632, -0.4771,
		0, -0.7632, -0.4771,
	})
	cell, _ := v3.NewMatrix([]float64{10, 0, 0, 0, 10, 0, 0, 0, 10})
	return &pes.Structure{
		Numbers: []int{8, 1, 1},
		Coords:  coords,
		Cell:    cell,
		PBC:     true,
		Info:    map[string]interface{}{"energy": -76.3186, "converged": true},
		Arrays: map[string]interface{}{
			"forces": [][]float64{{0, 0, 0.01}, {0, 0.02, -0.005}, {0, -0.02, -0.005}},
		},
	}
}

func sameStructure(Te *testing.T, got, want *pes.Structure, label string) {
	if got.NAtoms() != want.NAtoms() {
		Te.Fatalf("%s: %d atoms, want %d", label, got.NAtoms(), want.NAtoms())
	}
	for i := range want.Numbers {
		if got.Numbers[i] != want.Numbers[i] {
			Te.Errorf("%s: atom %d is element %d, want %d", label, i, got.Numbers[i], want.Numbers[i])
		}
		for k := 0; k < 3; k++ {
			if got.Coords.At(i, k) != want.Coords.At(i, k) {
				Te.Errorf("%s: coordinate (%d,%d) is %v, want %v", label, i, k, got.Coords.At(i, k), want.Coords.At(i, k))
			}
		}
	}
	if got.PBC != want.PBC {
		Te.Errorf("%s: pbc %v, want %v", label, got.PBC, want.PBC)
	}
	if want.Cell != nil {
		if got.Cell == nil {
			Te.Fatalf("%s: cell lost", label)
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if got.Cell.At(i, j) != want.Cell.At(i, j) {
					Te.Errorf("%s: cell (%d,%d) is %v, want %v", label, i, j, got.Cell.At(i, j), want.Cell.At(i, j))
				}
			}
		}
	}
	e, ok := got.Info["energy"].(float64)
	if !ok || e != want.Info["energy"].(float64) {
		Te.Errorf("%s: energy %v, want %v", label, got.Info["energy"], want.Info["energy"])
	}
	c, ok := got.Info["converged"].(bool)
	if !ok || c != want.Info["converged"].(bool) {
		Te.Errorf("%s: converged %v, want %v", label, got.Info["converged"], want.Info["converged"])
	}
	f, ok := got.Arrays["forces"].([][]float64)
	if !ok {
		Te.Fatalf("%s: forces read back as %T", label, got.Arrays["forces"])
	}
	wf := want.Arrays["forces"].([][]float64)
	for i := range wf {
		for k := range wf[i] {
			if f[i][k] != wf[i][k] {
				Te.Errorf("%s: force (%d,%d) is %v, want %v", label, i, k, f[i][k], wf[i][k])
			}
		}
	}
}

func TestRoundTrip(Te *testing.T) {
	for _, ext := range []string{".xyz", ".xyz.gz", ".xyz.zst", ".xyz.flate"} {
		name := filepath.Join(Te.TempDir(), "water"+ext)
		want := waterish()
		if err := Write(name, want); err != nil {
			Te.Fatalf("%s: %v", ext, err)
		}
		got, err := ReadOne(name)
		if err != nil {
			Te.Fatalf("%s: %v", ext, err)
		}
		sameStructure(Te, got, want, ext)
	}
}

func TestMultiFrame(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "traj.xyz.gz")
	s1 := waterish()
	s2 := waterish()
	s2.Coords.Set(0, 2, 0.5)
	s2.Info["energy"] = -76.0
	if err := Write(name, s1, s2); err != nil {
		Te.Fatal(err)
	}
	frames, err := Read(name)
	if err != nil {
		Te.Fatal(err)
	}
	if len(frames) != 2 {
		Te.Fatalf("read %d frames, want 2", len(frames))
	}
	if frames[1].Coords.At(0, 2) != 0.5 {
		Te.Error("second frame carries the first frame's coordinates")
	}
	if frames[1].Info["energy"].(float64) != -76.0 {
		Te.Error("second frame carries the first frame's energy")
	}
}

func TestPlainXYZ(Te *testing.T) {
	//a bare XYZ file with a prose comment, no extxyz keys at all
	text := "2\na water-less comment\nH 0 0 0\nH 0 0 0.74\n"
	frames, err := ReadFrom(strings.NewReader(text), "inline")
	if err != nil {
		Te.Fatal(err)
	}
	if len(frames) != 1 {
		Te.Fatalf("read %d frames, want 1", len(frames))
	}
	s := frames[0]
	if s.NAtoms() != 2 || s.Numbers[0] != 1 || s.Numbers[1] != 1 {
		Te.Errorf("bad atoms: %v", s.Numbers)
	}
	if s.PBC || s.Cell != nil {
		Te.Error("a plain XYZ file came out periodic")
	}
	if math.Abs(s.Coords.At(1, 2)-0.74) > 1e-12 {
		Te.Errorf("coordinate %v, want 0.74", s.Coords.At(1, 2))
	}
}

func TestReadErrors(Te *testing.T) {
	if _, err := Read(filepath.Join(Te.TempDir(), "missing.xyz")); err == nil {
		Te.Error("reading a missing file did not fail")
	}
	if _, err := ReadFrom(strings.NewReader("not a count\ncomment\n"), "inline"); err == nil {
		Te.Error("a malformed atom count did not fail")
	}
	if _, err := ReadFrom(strings.NewReader("1\ncomment\nXx 0 0 0\n"), "inline"); err == nil {
		Te.Error("an unknown element symbol did not fail")
	}
	//truncated frame: 3 atoms promised, 1 given
	if _, err := ReadFrom(strings.NewReader("3\ncomment\nH 0 0 0\n"), "inline"); err == nil {
		Te.Error("a truncated frame did not fail")
	}
	if _, err := ReadFrom(strings.NewReader("-1\ncomment\n"), "inline"); err == nil {
		Te.Error("a negative atom count did not fail")
	}
	malformed := "1\nProperties=species:S:1:pos:R:3:forces::3\nH 0 0 0 0 0 0\n"
	if _, err := ReadFrom(strings.NewReader(malformed), "inline"); err == nil {
		Te.Error("an empty kind field in Properties did not fail")
	}
}

func TestGraphFromFile(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "water.xyz.zst")
	if err := Write(name, waterish()); err != nil {
		Te.Fatal(err)
	}
	s, err := ReadOne(name)
	if err != nil {
		Te.Fatal(err)
	}
	g, err := pes.GraphFromStructure(s, 1.2)
	if err != nil {
		Te.Fatal(err)
	}
	if g.NAtoms() != 3 {
		Te.Errorf("graph has %d atoms, want 3", g.NAtoms())
	}
	//both O-H bonds, both directions
	if g.NEdges() != 4 {
		Te.Errorf("water under a 1.2 cutoff has %d edges, want 4", g.NEdges())
	}
	if _, ok := g.StructureLabel("energy"); !ok {
		Te.Error("the file's energy did not survive into the graph")
	}
	if _, ok := g.AtomLabel("forces"); !ok {
		Te.Error("the file's forces did not survive into the graph")
	}
}
