package modimage

import (
	"testing"

	"msolve-lift/monomial"
)

func TestInitAndAppend(t *testing.T) {
	// <x^2 - 2>: single polynomial, here given only its constant slot.
	staircase := []monomial.Exp{{0}, {1}}
	tbl := Init(4, []int32{1}, 1)

	basis := Basis{Polys: []BasisPoly{
		{Support: []monomial.Exp{{0}}, Coeffs: []uint32{5}},
	}}
	if !tbl.Append(basis, 101, staircase) {
		t.Fatalf("Append failed unexpectedly")
	}
	if tbl.NPrimes != 1 {
		t.Fatalf("NPrimes = %d, want 1", tbl.NPrimes)
	}
	if tbl.Polys[0].CfP[0][0] != 5 {
		t.Fatalf("cf_p[0][0] = %d, want 5", tbl.Polys[0].CfP[0][0])
	}
}

func TestAppendFailsWhenFull(t *testing.T) {
	staircase := []monomial.Exp{{0}, {1}}
	tbl := Init(1, []int32{1}, 1)
	basis := Basis{Polys: []BasisPoly{
		{Support: []monomial.Exp{{0}}, Coeffs: []uint32{5}},
	}}
	if tbl.Append(basis, 101, staircase) {
		t.Fatalf("expected Append to fail: alloc=1 leaves no room")
	}
}

func TestGrowPreservesData(t *testing.T) {
	staircase := []monomial.Exp{{0}, {1}}
	tbl := Init(2, []int32{1}, 1)
	basis := Basis{Polys: []BasisPoly{
		{Support: []monomial.Exp{{0}}, Coeffs: []uint32{7}},
	}}
	tbl.Append(basis, 101, staircase)
	tbl.Grow(4)
	if tbl.Alloc != 6 {
		t.Fatalf("Alloc = %d, want 6", tbl.Alloc)
	}
	if tbl.Polys[0].CfP[0][0] != 7 {
		t.Fatalf("Grow lost data: cf_p[0][0] = %d, want 7", tbl.Polys[0].CfP[0][0])
	}
}
