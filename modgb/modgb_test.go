package modgb

import (
	"testing"

	"msolve-lift/monomial"
)

func TestBuchbergerUnivariate(t *testing.T) {
	// x^2 - 2 mod 101.
	p := uint64(101)
	f := ReduceModP(&IntPoly{NV: 1, Terms: []IntTerm{
		{monomial.Exp{2}, 1},
		{monomial.Exp{0}, -2},
	}}, p)
	basis := Buchberger([]*Poly{f}, p)
	if len(basis) != 1 {
		t.Fatalf("len(basis) = %d, want 1", len(basis))
	}
	if !monomial.Equal(basis[0].LM(), monomial.Exp{2}) {
		t.Fatalf("LM = %v, want x^2", basis[0].LM())
	}
}

func TestBuchbergerBivariateLinear(t *testing.T) {
	// x - 1, y - 1 mod 101: Gröbner basis is itself, staircase is {1}.
	p := uint64(101)
	fx := ReduceModP(&IntPoly{NV: 2, Terms: []IntTerm{
		{monomial.Exp{1, 0}, 1},
		{monomial.Exp{0, 0}, -1},
	}}, p)
	fy := ReduceModP(&IntPoly{NV: 2, Terms: []IntTerm{
		{monomial.Exp{0, 1}, 1},
		{monomial.Exp{0, 0}, -1},
	}}, p)
	basis := Buchberger([]*Poly{fx, fy}, p)
	lms := LeadingMonomials(basis)
	staircase, dquot := monomial.MonomialBasisOfQuotient(2, lms)
	if dquot != 1 {
		t.Fatalf("dquot = %d, want 1", dquot)
	}
	if !monomial.Equal(staircase[0], monomial.Exp{0, 0}) {
		t.Fatalf("staircase = %v, want [[0 0]]", staircase)
	}
}

func TestReferenceProviderLearnApplyAgree(t *testing.T) {
	p1 := uint64(101)
	p2 := uint64(103)
	f := &IntPoly{NV: 1, Terms: []IntTerm{
		{monomial.Exp{2}, 1},
		{monomial.Exp{0}, -2},
	}}
	var rp ReferenceProvider
	trace, b1, ok := rp.Learn([]*IntPoly{f}, p1)
	if !ok {
		t.Fatalf("Learn failed")
	}
	b2, ok := rp.Apply(trace, p2)
	if !ok {
		t.Fatalf("Apply failed")
	}
	if len(b1) != len(b2) {
		t.Fatalf("basis cardinality mismatch across primes: %d vs %d", len(b1), len(b2))
	}
}

func TestReduceModPHandlesNegativeCoefficients(t *testing.T) {
	ip := &IntPoly{NV: 1, Terms: []IntTerm{{monomial.Exp{0}, -2}}}
	r := ReduceModP(ip, 101)
	if r.Terms[0].Coeff != 99 {
		t.Fatalf("ReduceModP(-2, 101) = %d, want 99", r.Terms[0].Coeff)
	}
}
