/*
 * compress.go, part of goPES.
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
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//The compression level used for gzip and flate output.
const level = 9

//wrapWriter wraps w in the compressor matching the file extension. Plain
//files get a no-op wrapper so callers always hold a WriteCloser.
func wrapWriter(w io.Writer, name string) (io.WriteCloser, error) {
	switch {
	case strings.HasSuffix(name, ".zst"):
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case strings.HasSuffix(name, ".gz"):
		return gzip.NewWriterLevel(w, level)
	case strings.HasSuffix(name, ".flate"):
		return flate.NewWriter(w, level)
	default:
		return nopWriteCloser{w}, nil
	}
}

//wrapReader wraps r in the decompressor matching the file extension.
func wrapReader(r io.Reader, name string) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".zst"):
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &stdql{d.Close, d}, nil
	case strings.HasSuffix(name, ".gz"):
		return gzip.NewReader(r)
	case strings.HasSuffix(name, ".flate"):
		return flate.NewReader(r), nil
	default:
		return io.NopCloser(r), nil
	}
}

//zstd's Decoder.Close returns nothing, so it can't be an io.ReadCloser
//by itself.
type stdql struct {
	closeql func()
	*zstd.Decoder
}

func (s *stdql) Close() error {
	s.closeql()
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

//Errors

//Error is the error type of the xyz package. It implements pes.Error.
type Error struct {
	message  string
	filename string //the file with problems, or an empty string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("xyz file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file associated to the error.
func (err Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	UnableToOpen = "Unable to open file"
	WrongFormat  = "Wrong format in the XYZ file or frame"
	NilStructure = "Given nil structure"
)
