/*
 * errors.go, part of goPES.
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
	"log"
	"os"
	"strings"
)

//Warnings is where goPES logs advisories that are not errors, such as raw
//position access on a periodic graph. Swap it for a silent logger to mute
//them, or for your own to collect them.
var Warnings = log.New(os.Stderr, "goPES: ", 0)

//Error is the interface for errors returned by goPES functions. Decorate
//allows the caller to add context (typically the call chain) to the error
//as it travels up.
type Error interface {
	Error() string
	Decorate(string) []string
}

//errKind classifies the recoverable errors of the package so callers can
//branch on them without string matching.
type errKind uint8

const (
	errGeneric errKind = iota
	errMissingKey
	errBadType
	errMissingCell
	errUnknownModel
)

//CError is the concrete error type of the pes package.
type CError struct {
	msg  string
	kind errKind
	deco []string
}

func (err CError) Error() string {
	if len(err.deco) == 0 {
		return "goPES: " + err.msg
	}
	return "goPES: " + err.msg + " (" + strings.Join(err.deco, "/") + ")"
}

//Decorate adds the dec string to the decoration slice of strings of the
//error, and returns the resulting slice.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//errDecorate decorates err if it implements Error, and wraps it in a
//CError if it doesn't.
func errDecorate(err error, dec string) error {
	if err2, ok := err.(Error); ok {
		err2.Decorate(dec)
		return err2
	}
	return CError{msg: err.Error(), deco: []string{dec}}
}

//IsMissingKey reports whether err came from requesting a metadata key a
//structure does not carry.
func IsMissingKey(err error) bool { return is(err, errMissingKey) }

//IsBadType reports whether err came from metadata that could not be
//converted to a numeric matrix.
func IsBadType(err error) bool { return is(err, errBadType) }

//IsMissingCell reports whether err came from requesting stress on a
//structure without a periodic cell.
func IsMissingCell(err error) bool { return is(err, errMissingCell) }

//IsUnknownModel reports whether err came from looking up a model name that
//was never registered.
func IsUnknownModel(err error) bool { return is(err, errUnknownModel) }

func is(err error, kind errKind) bool {
	cerr, ok := err.(CError)
	return ok && cerr.kind == kind
}

//PanicMsg is the type used for the panics of this package. Recoverable
//conditions return an error; a PanicMsg panic always means a programming
//error, like a shape mismatch the caller built by hand.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNilData       = PanicMsg("goPES: nil data given")
	ErrShapeMismatch = PanicMsg("goPES: shape mismatch")
	ErrBadProperty   = PanicMsg("goPES: invalid Property value")
	ErrBadPrecision  = PanicMsg("goPES: invalid Precision value")
)
