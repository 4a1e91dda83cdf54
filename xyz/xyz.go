/*
 * xyz.go, part of goPES.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	pes "github.com/vmarchant/gopes"
	v3 "github.com/vmarchant/gopes/v3"
)

//Read opens the (possibly compressed) extended XYZ file name and returns
//every structure in it.
func Read(name string) ([]*pes.Structure, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"Read"}, true}
	}
	defer f.Close()
	r, err := wrapReader(f, name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"Read"}, true}
	}
	defer r.Close()
	return ReadFrom(r, name)
}

//ReadOne reads only the first structure of the file name.
func ReadOne(name string) (*pes.Structure, error) {
	ss, err := Read(name)
	if err != nil {
		return nil, err
	}
	if len(ss) == 0 {
		return nil, Error{"File contains no structures", name, []string{"ReadOne"}, true}
	}
	return ss[0], nil
}

//ReadFrom parses every extended XYZ frame in r. The name is only used in
//error messages.
func ReadFrom(r io.Reader, name string) ([]*pes.Structure, error) {
	br := bufio.NewReader(r)
	var structures []*pes.Structure
	for {
		s, err := readFrame(br, name)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		structures = append(structures, s)
	}
	return structures, nil
}

func readFrame(br *bufio.Reader, name string) (*pes.Structure, error) {
	line, err := nextNonEmptyLine(br)
	if err != nil {
		return nil, err //io.EOF between frames is a normal termination
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms < 0 {
		return nil, Error{WrongFormat + ": expected an atom count, got " + strings.TrimSpace(line), name, []string{"readFrame"}, true}
	}
	comment, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, Error{WrongFormat + ": frame truncated after the atom count", name, []string{"readFrame"}, true}
	}
	s := &pes.Structure{
		Numbers: make([]int, natoms),
		Coords:  v3.Zeros(natoms),
		Info:    map[string]interface{}{},
		Arrays:  map[string]interface{}{},
	}
	props, err := parseComment(comment, s, name)
	if err != nil {
		return nil, err
	}
	extra := make(map[string][][]float64, len(props))
	for _, p := range props {
		if p.name != "species" && p.name != "pos" {
			extra[p.name] = make([][]float64, natoms)
		}
	}
	for i := 0; i < natoms; i++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, Error{WrongFormat + fmt.Sprintf(": frame truncated at atom %d", i), name, []string{"readFrame"}, true}
		}
		fields := strings.Fields(line)
		col := 0
		for _, p := range props {
			if col+p.cols > len(fields) {
				return nil, Error{WrongFormat + fmt.Sprintf(": atom line %d has %d fields, Properties need more", i, len(fields)), name, []string{"readFrame"}, true}
			}
			switch p.name {
			case "species":
				z, err := pes.AtomicNumber(fields[col])
				if err != nil {
					return nil, Error{err.Error(), name, []string{"readFrame"}, true}
				}
				s.Numbers[i] = z
			case "pos":
				for k := 0; k < 3; k++ {
					v, err := strconv.ParseFloat(fields[col+k], 64)
					if err != nil {
						return nil, Error{WrongFormat + ": bad coordinate " + fields[col+k], name, []string{"readFrame"}, true}
					}
					s.Coords.Set(i, k, v)
				}
			default:
				row := make([]float64, p.cols)
				for k := 0; k < p.cols; k++ {
					v, err := strconv.ParseFloat(fields[col+k], 64)
					if err != nil {
						return nil, Error{WrongFormat + fmt.Sprintf(": bad value for %s: %s", p.name, fields[col+k]), name, []string{"readFrame"}, true}
					}
					row[k] = v
				}
				extra[p.name][i] = row
			}
			col += p.cols
		}
	}
	for k, v := range extra {
		s.Arrays[k] = v
	}
	return s, nil
}

//property is one column group of an extxyz Properties descriptor,
//e.g. forces:R:3.
type property struct {
	name string
	kind byte //S, R or I
	cols int
}

//parseComment fills the lattice, periodicity and info fields of s from the
//extxyz comment line, and returns the per-atom column layout.
func parseComment(comment string, s *pes.Structure, name string) ([]property, error) {
	//the default layout of a plain XYZ file
	props := []property{{"species", 'S', 1}, {"pos", 'R', 3}}
	for _, tok := range splitQuoted(comment) {
		key, value, found := strings.Cut(tok, "=")
		if !found {
			continue //bare tokens in plain-XYZ comments are just prose
		}
		switch strings.ToLower(key) {
		case "lattice":
			cell, err := parseLattice(value)
			if err != nil {
				return nil, Error{err.Error(), name, []string{"parseComment"}, true}
			}
			s.Cell = cell
			if !cell.IsZero() {
				s.PBC = true
			}
		case "properties":
			var err error
			props, err = parseProperties(value)
			if err != nil {
				return nil, Error{err.Error(), name, []string{"parseComment"}, true}
			}
		case "pbc":
			s.PBC = strings.Contains(strings.ToUpper(value), "T")
		default:
			s.Info[key] = parseValue(value)
		}
	}
	return props, nil
}

func parseLattice(value string) (*v3.Matrix, error) {
	fields := strings.Fields(value)
	if len(fields) != 9 {
		return nil, fmt.Errorf("Lattice needs 9 values, got %d", len(fields))
	}
	data := make([]float64, 9)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("Bad lattice value %s", f)
		}
		data[i] = v
	}
	return v3.NewMatrix(data)
}

func parseProperties(value string) ([]property, error) {
	fields := strings.Split(value, ":")
	if len(fields)%3 != 0 || len(fields) == 0 {
		return nil, fmt.Errorf("Malformed Properties descriptor: %s", value)
	}
	props := make([]property, 0, len(fields)/3)
	for i := 0; i < len(fields); i += 3 {
		cols, err := strconv.Atoi(fields[i+2])
		if err != nil || cols < 1 {
			return nil, fmt.Errorf("Bad column count in Properties: %s", fields[i+2])
		}
		if len(fields[i+1]) == 0 {
			return nil, fmt.Errorf("Empty kind field in Properties: %s", value)
		}
		kind := fields[i+1][0]
		name := fields[i]
		if kind == 'S' && name != "species" {
			return nil, fmt.Errorf("Only the species column may be strings, got %s", name)
		}
		props = append(props, property{name, kind, cols})
	}
	return props, nil
}

//parseValue turns an info value into a float64, bool or string. Strings
//survive as strings; asking the extraction layer for them explicitly is
//what fails, loudly, not the file read.
func parseValue(value string) interface{} {
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	switch value {
	case "T", "True", "true":
		return true
	case "F", "False", "false":
		return false
	}
	if fields := strings.Fields(value); len(fields) > 1 {
		all := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return value
			}
			all[i] = v
		}
		return all
	}
	return value
}

//splitQuoted splits an extxyz comment line on whitespace, keeping quoted
//substrings (single or double) together and stripping their quotes.
func splitQuoted(line string) []string {
	var out []string
	var cur strings.Builder
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteByte(c)
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func nextNonEmptyLine(br *bufio.Reader) (string, error) {
	for {
		line, err := br.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			return line, nil
		}
		if err != nil {
			return "", io.EOF
		}
	}
}
