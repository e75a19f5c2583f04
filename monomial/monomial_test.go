package monomial

import "testing"

func TestLessGrevlex(t *testing.T) {
	one := Exp{0, 0}
	x := Exp{1, 0}
	y := Exp{0, 1}
	xx := Exp{2, 0}

	if !Less(one, x) {
		t.Fatalf("expected 1 < x")
	}
	if !Less(x, xx) {
		t.Fatalf("expected x < x^2")
	}
	// same degree: grevlex compares from the last variable, y < x
	if !Less(y, x) {
		t.Fatalf("expected y < x under grevlex")
	}
}

func TestDivides(t *testing.T) {
	x := Exp{1, 0}
	xy := Exp{1, 1}
	if !Divides(x, xy) {
		t.Fatalf("x should divide xy")
	}
	if Divides(xy, x) {
		t.Fatalf("xy should not divide x")
	}
}

func TestMonomialBasisOfQuotientUnivariate(t *testing.T) {
	// <x^2 - 2>: leading monomial x^2, staircase {1, x}.
	lm := []Exp{{2}}
	basis, dquot := MonomialBasisOfQuotient(1, lm)
	if dquot != 2 {
		t.Fatalf("dquot = %d, want 2", dquot)
	}
	want := []Exp{{0}, {1}}
	for i, w := range want {
		if !Equal(basis[i], w) {
			t.Fatalf("basis[%d] = %v, want %v", i, basis[i], w)
		}
	}
}

func TestMonomialBasisOfQuotientBivariate(t *testing.T) {
	// <x-1, y-1>: leading monomials x, y; staircase {1}.
	lm := []Exp{{1, 0}, {0, 1}}
	basis, dquot := MonomialBasisOfQuotient(2, lm)
	if dquot != 1 {
		t.Fatalf("dquot = %d, want 1", dquot)
	}
	if !Equal(basis[0], Exp{0, 0}) {
		t.Fatalf("basis[0] = %v, want [0 0]", basis[0])
	}
}

func TestComputeLength(t *testing.T) {
	basis := []Exp{{0}, {1}}
	if got := ComputeLength(Exp{1}, basis); got != 2 {
		t.Fatalf("ComputeLength = %d, want 2", got)
	}
}
