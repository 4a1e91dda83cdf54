/*
 * structure.go, part of goPES.
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

//Structure is an atomic structure as delivered by an external source:
//species, cartesian coordinates, an optional periodic cell, and free-form
//metadata. It is the only contract between goPES and the outside world;
//reading structures from files lives in the xyz subpackage.
type Structure struct {
	Numbers []int      //atomic number per atom
	Coords  *v3.Matrix //cartesian coordinates, NAtoms x 3
	Cell    *v3.Matrix //3 lattice vectors as rows, or nil for a non-periodic structure
	PBC     bool       //whether periodic wrapping applies
	Info    map[string]interface{} //per-structure metadata (reference energy, stress...)
	Arrays  map[string]interface{} //per-atom metadata, leading dimension NAtoms (reference forces...)
}

//NAtoms returns the number of atoms in the structure.
func (S *Structure) NAtoms() int {
	if S.Coords == nil {
		return 0
	}
	return S.Coords.NVecs()
}

//reserved geometry keys. These never leak into the info buckets, even if an
//external source stores them in its metadata maps.
var reservedKeys = map[string]bool{
	"numbers":   true,
	"positions": true,
	"cell":      true,
	"pbc":       true,
}

//ExtractOptions selects which metadata keys ExtractInformation pulls from a
//Structure. A nil key slice means "everything that is not a reserved geometry
//key"; an empty, non-nil slice means "nothing".
type ExtractOptions struct {
	AtomKeys      []string
	StructureKeys []string
}

//ExtractInformation splits the metadata of s into two buckets: per-atom
//labels (arrays with leading dimension NAtoms, e.g. reference forces) and
//per-structure labels (scalars or fixed-size arrays, e.g. reference energy
//or stress). With nil opts, everything non-reserved is extracted.
//Requesting an explicit key that s does not carry is an error (IsMissingKey);
//so is requesting a key whose value is not numeric (IsBadType).
func ExtractInformation(s *Structure, opts *ExtractOptions) (atomInfo, structureInfo map[string]*mat.Dense, err error) {
	if s == nil {
		panic(ErrNilData)
	}
	if opts == nil {
		opts = &ExtractOptions{}
	}
	atomInfo, err = extractBucket(s.Arrays, opts.AtomKeys, s.NAtoms())
	if err != nil {
		return nil, nil, errDecorate(err, "ExtractInformation")
	}
	structureInfo, err = extractBucket(s.Info, opts.StructureKeys, -1)
	if err != nil {
		return nil, nil, errDecorate(err, "ExtractInformation")
	}
	return atomInfo, structureInfo, nil
}

//extractBucket pulls keys from one metadata map. If wantRows is positive, the
//extracted values must have that many rows (per-atom bucket). keys==nil means
//every non-reserved key present.
func extractBucket(source map[string]interface{}, keys []string, wantRows int) (map[string]*mat.Dense, error) {
	bucket := make(map[string]*mat.Dense)
	if keys == nil {
		for k, v := range source {
			if reservedKeys[k] {
				continue
			}
			m, err := toDense(v)
			if err != nil {
				continue //default extraction just skips what it can't convert
			}
			if err := checkRows(k, m, wantRows); err != nil {
				return nil, err
			}
			bucket[k] = m
		}
		return bucket, nil
	}
	for _, k := range keys {
		v, ok := source[k]
		if !ok || reservedKeys[k] {
			return nil, CError{msg: fmt.Sprintf("Requested key %q not present in the structure's metadata", k), kind: errMissingKey}
		}
		m, err := toDense(v)
		if err != nil {
			return nil, errDecorate(err, fmt.Sprintf("extractBucket: key %q", k))
		}
		if err := checkRows(k, m, wantRows); err != nil {
			return nil, err
		}
		bucket[k] = m
	}
	return bucket, nil
}

func checkRows(key string, m *mat.Dense, wantRows int) error {
	if wantRows < 0 {
		return nil
	}
	if r, _ := m.Dims(); r != wantRows {
		return CError{msg: fmt.Sprintf("Per-atom array %q has %d rows, want one per atom (%d)", key, r, wantRows)}
	}
	return nil
}

//toDense converts the numeric metadata value v to a matrix. Scalars become
//1x1, flat slices become Nx1, and matrix-shaped values keep their dimensions.
func toDense(v interface{}) (*mat.Dense, error) {
	switch t := v.(type) {
	case float64:
		return mat.NewDense(1, 1, []float64{t}), nil
	case float32:
		return mat.NewDense(1, 1, []float64{float64(t)}), nil
	case int:
		return mat.NewDense(1, 1, []float64{float64(t)}), nil
	case int64:
		return mat.NewDense(1, 1, []float64{float64(t)}), nil
	case bool:
		b := 0.0
		if t {
			b = 1.0
		}
		return mat.NewDense(1, 1, []float64{b}), nil
	case []float64:
		if len(t) == 0 {
			return nil, CError{msg: "Empty slice in metadata", kind: errBadType}
		}
		d := make([]float64, len(t))
		copy(d, t)
		return mat.NewDense(len(t), 1, d), nil
	case []int:
		if len(t) == 0 {
			return nil, CError{msg: "Empty slice in metadata", kind: errBadType}
		}
		d := make([]float64, len(t))
		for i, x := range t {
			d[i] = float64(x)
		}
		return mat.NewDense(len(t), 1, d), nil
	case [][]float64:
		if len(t) == 0 || len(t[0]) == 0 {
			return nil, CError{msg: "Empty slice in metadata", kind: errBadType}
		}
		cols := len(t[0])
		d := make([]float64, 0, len(t)*cols)
		for _, row := range t {
			if len(row) != cols {
				return nil, CError{msg: "Ragged rows in metadata array", kind: errBadType}
			}
			d = append(d, row...)
		}
		return mat.NewDense(len(t), cols, d), nil
	case *mat.Dense:
		return mat.DenseCopyOf(t), nil
	case *v3.Matrix:
		return mat.DenseCopyOf(t.Dense), nil
	default:
		return nil, CError{msg: fmt.Sprintf("Metadata value of type %T cannot be converted to a numeric matrix", v), kind: errBadType}
	}
}
