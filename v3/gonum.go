/*
 * gonum.go, part of goPES.
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

//All the *Vec functions operate on row vectors, i.e. the cartesian
//coordinates of one point in 3D space.

package v3

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const appzero float64 = 1e-12 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//Matrix is a set of vectors in 3D space, stored as the rows of a gonum
//Dense matrix with exactly 3 columns. It must be able to implement any
//gonum interface.
type Matrix struct {
	*mat.Dense
}

//NewMatrix generates and returns a Matrix with 3 columns from data.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	return &Matrix{mat.NewDense(rows, cols, data)}, nil
}

//Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//METHODS

//NVecs returns the number of 3D vectors in the matrix.
func (F *Matrix) NVecs() int {
	r, _ := F.Dims()
	return r
}

//VecView returns a view of the ith vector of the matrix. Changes in the
//view are reflected in F and vice-versa.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

//View returns a view of F starting from i,j and spanning r rows and
//c columns. Very little memory allocation happens, only a couple of
//ints and pointers.
func (F *Matrix) View(i, j, r, c int) *Matrix {
	ret := F.Dense.Slice(i, i+r, j, j+c).(*mat.Dense)
	return &Matrix{ret}
}

//Copy returns a fresh copy of F, sharing no memory with it.
func (F *Matrix) Copy() *Matrix {
	r := mat.DenseCopyOf(F.Dense)
	return &Matrix{r}
}

//SetMatrix puts the matrix A in the receiver, starting from the ith row
//and jth col of the receiver.
func (F *Matrix) SetMatrix(i, j int, A *Matrix) {
	b := F.RawMatrix()
	ar, ac := A.Dims()
	fc := 3
	if ar+i > F.NVecs() || ac+j > fc {
		panic(ErrShape)
	}
	r := make([]float64, ac)
	for k := 0; k < ar; k++ {
		mat.Row(r, k, A)
		startpoint := fc*(k+i) + j
		copy(b.Data[startpoint:startpoint+ac], r)
	}
}

//SwapVecs swaps the ith and jth vectors of the receiver.
func (F *Matrix) SwapVecs(i, j int) {
	if i >= F.NVecs() || j >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	rowi := F.RawRowView(i)
	rowj := F.RawRowView(j)
	for k := 0; k < 3; k++ {
		rowi[k], rowj[k] = rowj[k], rowi[k]
	}
}

//Mul wraps mat.Mul to take care of the case when one of the
//arguments is also the receiver. The gonum function checks A (mat.Dense)
//vs F (Matrix) and would not know that internally F.Dense==A.
func (F *Matrix) Mul(A, B mat.Matrix) {
	if A == F {
		A := A.(*Matrix)
		F.Dense.Mul(A.Dense, B)
	} else if B == F {
		B := B.(*Matrix)
		F.Dense.Mul(A, B.Dense)
	} else {
		F.Dense.Mul(A, B)
	}
}

//Norm returns the norm i of the receiver. For a 1x3 vector, Norm(2)
//is the Euclidean length.
func (F *Matrix) Norm(i float64) float64 {
	return mat.Norm(F.Dense, i)
}

//Dot returns the dot product between the receiver and A, both of which
//must be 1x3 vectors.
func (F *Matrix) Dot(A *Matrix) float64 {
	if F.NVecs() != 1 || A.NVecs() != 1 {
		panic(ErrNotEnoughElements)
	}
	f := F.RawRowView(0)
	a := A.RawRowView(0)
	return f[0]*a[0] + f[1]*a[1] + f[2]*a[2]
}

//Cross puts the cross product between the 1x3 vectors A and B in the
//receiver, which must also be 1x3.
func (F *Matrix) Cross(A, B *Matrix) {
	if F.NVecs() != 1 || A.NVecs() != 1 || B.NVecs() != 1 {
		panic(ErrNoCrossProduct)
	}
	a := A.RawRowView(0)
	b := B.RawRowView(0)
	F.Set(0, 0, a[1]*b[2]-a[2]*b[1])
	F.Set(0, 1, a[2]*b[0]-a[0]*b[2])
	F.Set(0, 2, a[0]*b[1]-a[1]*b[0])
}

//Unit puts in the receiver the unit vector in the direction of the 1x3
//vector A. It panics if A is shorter than appzero.
func (F *Matrix) Unit(A *Matrix) {
	norm := A.Norm(2)
	if norm <= appzero {
		panic(ErrNotEnoughElements)
	}
	F.Dense.Scale(1.0/norm, A.Dense)
}

//Det returns the determinant of the receiver, which must be a 3x3 matrix.
func (F *Matrix) Det() float64 {
	r, c := F.Dims()
	if r != 3 || c != 3 {
		panic(ErrDeterminant)
	}
	A := F.Dense
	return A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(2, 1)*A.At(1, 2)) -
		A.At(1, 0)*(A.At(0, 1)*A.At(2, 2)-A.At(2, 1)*A.At(0, 2)) +
		A.At(2, 0)*(A.At(0, 1)*A.At(1, 2)-A.At(1, 1)*A.At(0, 2))
}

//IsZero reports whether every element of the receiver is, within floating
//point error, zero.
func (F *Matrix) IsZero() bool {
	raw := F.RawMatrix()
	for _, v := range raw.Data {
		if math.Abs(v) > appzero {
			return false
		}
	}
	return true
}

//Errors

//Error is the concrete error type for the v3 package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

//Decorate adds the dec string to the decoration slice of strings of the error,
//and returns the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical or can be ignored.
func (err Error) Critical() bool { return err.critical }

//PanicMsg is a message used for panics. It does satisfy the error interface,
//but for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix      = PanicMsg("goPES/v3: A Matrix should have 3 columns")
	ErrNoCrossProduct    = PanicMsg("goPES/v3: Invalid matrix for cross product")
	ErrNotEnoughElements = PanicMsg("goPES/v3: not enough elements in Matrix")
	ErrDeterminant       = PanicMsg("goPES/v3: Determinants are only available for 3x3 matrices")
	ErrShape             = PanicMsg("goPES/v3: Dimension mismatch")
	ErrIndexOutOfRange   = PanicMsg("goPES/v3: index out of range")
)
