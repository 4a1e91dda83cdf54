/*
 * v3_test.go, part of goPES.
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

package v3

import (
	"math"
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 2 {
		Te.Errorf("got %d vectors, want 2", A.NVecs())
	}
	if _, err := NewMatrix([]float64{1, 2, 3, 4}); err == nil {
		Te.Error("a length not divisible by 3 did not fail")
	}
}

func TestVecView(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	v := A.VecView(1)
	if v.At(0, 0) != 4 || v.At(0, 2) != 6 {
		Te.Errorf("view holds %v %v", v.At(0, 0), v.At(0, 2))
	}
	v.Set(0, 0, 40)
	if A.At(1, 0) != 40 {
		Te.Error("a change through the view did not reach the matrix")
	}
	B := A.Copy()
	B.Set(0, 0, -1)
	if A.At(0, 0) == -1 {
		Te.Error("Copy shares memory with the original")
	}
}

func TestCross(Te *testing.T) {
	x, _ := NewMatrix([]float64{1, 0, 0})
	y, _ := NewMatrix([]float64{0, 1, 0})
	z := Zeros(1)
	z.Cross(x, y)
	if z.At(0, 0) != 0 || z.At(0, 1) != 0 || z.At(0, 2) != 1 {
		Te.Errorf("x cross y = %v %v %v", z.At(0, 0), z.At(0, 1), z.At(0, 2))
	}
	if x.Dot(y) != 0 || x.Dot(x) != 1 {
		Te.Errorf("dot products: %v %v", x.Dot(y), x.Dot(x))
	}
}

func TestUnit(Te *testing.T) {
	a, _ := NewMatrix([]float64{3, 4, 0})
	u := Zeros(1)
	u.Unit(a)
	if math.Abs(u.Norm(2)-1) > 1e-12 {
		Te.Errorf("unit vector has length %v", u.Norm(2))
	}
	if math.Abs(u.At(0, 0)-0.6) > 1e-12 || math.Abs(u.At(0, 1)-0.8) > 1e-12 {
		Te.Errorf("unit vector is (%v,%v,...)", u.At(0, 0), u.At(0, 1))
	}
}

func TestDet(Te *testing.T) {
	A, _ := NewMatrix([]float64{2, 0, 0, 0, 3, 0, 0, 0, 4})
	if A.Det() != 24 {
		Te.Errorf("det %v, want 24", A.Det())
	}
	B, _ := NewMatrix([]float64{1, 0, 0, 1, 0, 0, 0, 0, 1})
	if B.Det() != 0 {
		Te.Errorf("det of a singular matrix is %v", B.Det())
	}
}

func TestSetMatrix(Te *testing.T) {
	A := Zeros(3)
	B, _ := NewMatrix([]float64{1, 2, 3})
	A.SetMatrix(2, 0, B)
	if A.At(2, 0) != 1 || A.At(2, 2) != 3 || A.At(1, 0) != 0 {
		Te.Error("SetMatrix put the block in the wrong place")
	}
	A.SwapVecs(0, 2)
	if A.At(0, 1) != 2 || A.At(2, 1) != 0 {
		Te.Error("SwapVecs did not swap")
	}
}

func TestIsZero(Te *testing.T) {
	if !Zeros(2).IsZero() {
		Te.Error("a zero matrix is not zero")
	}
	A, _ := NewMatrix([]float64{0, 0, 1e-6})
	if A.IsZero() {
		Te.Error("a non-zero matrix is zero")
	}
}
