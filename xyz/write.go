/*
 * write.go, part of goPES.
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
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	pes "github.com/vmarchant/gopes"
	v3 "github.com/vmarchant/gopes/v3"
	"gonum.org/v1/gonum/mat"
)

//Write writes the given structures as consecutive extended XYZ frames to the
//file name, compressing according to its extension. An existing file is
//overwritten. Floats are written with enough digits to round-trip exactly.
func Write(name string, structures ...*pes.Structure) error {
	f, err := os.Create(name)
	if err != nil {
		return Error{UnableToOpen + ": " + err.Error(), name, []string{"Write"}, true}
	}
	defer f.Close()
	w, err := wrapWriter(f, name)
	if err != nil {
		return Error{err.Error(), name, []string{"Write"}, true}
	}
	if err := WriteTo(w, name, structures...); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

//WriteTo writes the structures to w. The name is only used in error messages.
func WriteTo(w io.Writer, name string, structures ...*pes.Structure) error {
	for _, s := range structures {
		if err := writeFrame(w, s, name); err != nil {
			return err
		}
	}
	return nil
}

func writeFrame(w io.Writer, s *pes.Structure, name string) error {
	if s == nil || s.Coords == nil {
		return Error{NilStructure, name, []string{"writeFrame"}, true}
	}
	n := s.NAtoms()
	arrays, props, err := atomArrays(s)
	if err != nil {
		return Error{err.Error(), name, []string{"writeFrame"}, true}
	}
	if _, err := fmt.Fprintf(w, "%d\n%s\n", n, commentLine(s, props)); err != nil {
		return Error{err.Error(), name, []string{"writeFrame"}, true}
	}
	for i := 0; i < n; i++ {
		sym := pes.AtomicSymbol(s.Numbers[i])
		if sym == "" {
			return Error{fmt.Sprintf("No symbol for atomic number %d", s.Numbers[i]), name, []string{"writeFrame"}, true}
		}
		fields := []string{sym}
		for k := 0; k < 3; k++ {
			fields = append(fields, ftoa(s.Coords.At(i, k)))
		}
		for _, p := range props {
			m := arrays[p.name]
			for k := 0; k < p.cols; k++ {
				fields = append(fields, ftoa(m.At(i, k)))
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, " ")); err != nil {
			return Error{err.Error(), name, []string{"writeFrame"}, true}
		}
	}
	return nil
}

//atomArrays converts s.Arrays into matrices and a stable Properties layout.
func atomArrays(s *pes.Structure) (map[string]*mat.Dense, []property, error) {
	keys := make([]string, 0, len(s.Arrays))
	for k := range s.Arrays {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	arrays := make(map[string]*mat.Dense, len(keys))
	props := make([]property, 0, len(keys))
	for _, k := range keys {
		m, err := asDense(s.Arrays[k])
		if err != nil {
			return nil, nil, fmt.Errorf("per-atom array %q: %v", k, err)
		}
		r, c := m.Dims()
		if r != s.NAtoms() {
			return nil, nil, fmt.Errorf("per-atom array %q has %d rows for %d atoms", k, r, s.NAtoms())
		}
		arrays[k] = m
		props = append(props, property{k, 'R', c})
	}
	return arrays, props, nil
}

func asDense(v interface{}) (*mat.Dense, error) {
	switch t := v.(type) {
	case *mat.Dense:
		return t, nil
	case *v3.Matrix:
		return t.Dense, nil
	case []float64:
		return mat.NewDense(len(t), 1, append([]float64(nil), t...)), nil
	case [][]float64:
		if len(t) == 0 || len(t[0]) == 0 {
			return nil, fmt.Errorf("empty array")
		}
		cols := len(t[0])
		data := make([]float64, 0, len(t)*cols)
		for _, row := range t {
			if len(row) != cols {
				return nil, fmt.Errorf("ragged rows")
			}
			data = append(data, row...)
		}
		return mat.NewDense(len(t), cols, data), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}

func commentLine(s *pes.Structure, props []property) string {
	fields := []string{}
	if s.Cell != nil {
		lat := make([]string, 0, 9)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				lat = append(lat, ftoa(s.Cell.At(i, j)))
			}
		}
		fields = append(fields, `Lattice="`+strings.Join(lat, " ")+`"`)
	}
	desc := "species:S:1:pos:R:3"
	for _, p := range props {
		desc += fmt.Sprintf(":%s:R:%d", p.name, p.cols)
	}
	fields = append(fields, "Properties="+desc)
	if s.PBC {
		fields = append(fields, `pbc="T T T"`)
	} else {
		fields = append(fields, `pbc="F F F"`)
	}
	keys := make([]string, 0, len(s.Info))
	for k := range s.Info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, k+"="+infoString(s.Info[k]))
	}
	return strings.Join(fields, " ")
}

func infoString(v interface{}) string {
	switch t := v.(type) {
	case float64:
		return ftoa(t)
	case int:
		return strconv.Itoa(t)
	case bool:
		if t {
			return "T"
		}
		return "F"
	case string:
		if strings.ContainsAny(t, " \t") {
			return `"` + t + `"`
		}
		return t
	case []float64:
		all := make([]string, len(t))
		for i, f := range t {
			all[i] = ftoa(f)
		}
		return `"` + strings.Join(all, " ") + `"`
	default:
		return fmt.Sprintf("%v", v)
	}
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
