/*
 * registry.go, part of goPES.
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
	"sort"
)

//Models are built from string identifiers through an explicit registry
//rather than by importing arbitrary names at runtime: the set of
//constructors is closed and can be validated up front, so a typo in a
//configuration file fails loudly at startup instead of half-working.

//ModelFactory builds a model from named numeric parameters. Factories must
//reject parameter names they don't know.
type ModelFactory func(params map[string]float64) (Model, error)

var modelRegistry = map[string]ModelFactory{}

//RegisterModel adds a named constructor to the registry, typically from an
//init function of the package defining the model. Registering an empty name
//or the same name twice panics: both are programming errors.
func RegisterModel(name string, f ModelFactory) {
	if name == "" || f == nil {
		panic(PanicMsg("goPES: RegisterModel needs a name and a factory"))
	}
	if _, dup := modelRegistry[name]; dup {
		panic(PanicMsg(fmt.Sprintf("goPES: model %q registered twice", name)))
	}
	modelRegistry[name] = f
}

//NewModel builds the model registered under name with the given parameters.
//Unknown names are an error (IsUnknownModel) listing what is available.
func NewModel(name string, params map[string]float64) (Model, error) {
	f, ok := modelRegistry[name]
	if !ok {
		return nil, CError{msg: fmt.Sprintf("Unknown model %q; known models: %v", name, KnownModels()), kind: errUnknownModel}
	}
	m, err := f(params)
	if err != nil {
		return nil, errDecorate(err, "NewModel")
	}
	return m, nil
}

//KnownModels returns the sorted names of every registered model.
func KnownModels() []string {
	names := make([]string, 0, len(modelRegistry))
	for name := range modelRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

//ValidateModelNames checks, typically at application startup, that every
//name is registered. It returns the first offender as an error.
func ValidateModelNames(names ...string) error {
	for _, name := range names {
		if _, ok := modelRegistry[name]; !ok {
			return CError{msg: fmt.Sprintf("Unknown model %q; known models: %v", name, KnownModels()), kind: errUnknownModel}
		}
	}
	return nil
}
