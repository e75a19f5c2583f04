// Package monomial implements the shared monomial support used by both the
// multi-modular lifter and the signature-based Gröbner engine: exponent
// vectors, the grevlex order, divisibility, and staircase enumeration.
package monomial

import "sort"

// Exp is an exponent vector over nv variables. Index i holds the exponent
// of variable i.
type Exp []int32

// Clone returns a fresh copy of e.
func (e Exp) Clone() Exp {
	c := make(Exp, len(e))
	copy(c, e)
	return c
}

// Degree returns the total degree of e.
func (e Exp) Degree() int32 {
	var d int32
	for _, v := range e {
		d += v
	}
	return d
}

// Equal reports whether a and b are the same exponent vector.
func Equal(a, b Exp) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Divides reports whether a divides b, i.e. a[i] <= b[i] for all i.
func Divides(a, b Exp) bool {
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}

// Mul returns the exponent-wise sum a*b (monomial product).
func Mul(a, b Exp) Exp {
	out := make(Exp, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// MulVar returns a copy of e with variable v's exponent incremented by one.
func MulVar(e Exp, v int) Exp {
	out := e.Clone()
	out[v]++
	return out
}

// Less implements the grevlex order: m1 < m2 iff deg(m1) < deg(m2), or
// deg(m1) == deg(m2) and the last nonzero entry of m1-m2 is positive.
// This mirrors grevlex_is_less_than in the original source, generalized to
// return a strict order (the source's "is_less_than" is in fact a
// less-than-or-equal predicate used only for one-directional scans; Less
// here is the strict comparison used to keep staircases sorted).
func Less(m1, m2 Exp) bool {
	d1, d2 := m1.Degree(), m2.Degree()
	if d1 != d2 {
		return d1 < d2
	}
	for i := len(m1) - 1; i >= 0; i-- {
		if m1[i] != m2[i] {
			return m1[i] > m2[i]
		}
	}
	return false
}

// SortIncreasing sorts monomials in strictly increasing grevlex order.
func SortIncreasing(ms []Exp) {
	sort.Slice(ms, func(i, j int) bool { return Less(ms[i], ms[j]) })
}

// ComputeLength mirrors compute_length in lifting-gb.c: basis is sorted
// increasingly under grevlex and mon is assumed to appear in, or be
// boundable by, basis. It scans from the highest index downward and
// returns the 1-based count of basis entries that are <= mon, i.e. the
// slot-count (excluding the leading monomial) a polynomial with leading
// monomial mon can use. Returns -1 if mon is smaller than every entry.
func ComputeLength(mon Exp, basis []Exp) int32 {
	for i := len(basis) - 1; i >= 0; i-- {
		if !Less(mon, basis[i]) {
			return int32(i + 1)
		}
	}
	return -1
}

// ArrayOfLengths computes ComputeLength for every leading monomial in lm,
// mirroring array_of_lengths.
func ArrayOfLengths(lm []Exp, basis []Exp) []int32 {
	out := make([]int32, len(lm))
	for i, m := range lm {
		out[i] = ComputeLength(m, basis)
	}
	return out
}

// MonomialBasisOfQuotient enumerates the staircase: the monomials not
// divisible by any of the leading monomials lm, assuming the ideal
// generated by lm is zero-dimensional (so the staircase is finite). It
// mirrors MonomialBasisOfQuotient's external contract from spec.md §6.
//
// The enumeration covers every monomial of total degree up to a bound derived from
// the maximal per-variable exponent appearing in lm (a zero-dimensional
// leading-term ideal must contain some pure power of every variable, so
// this bound is finite and safe).
func MonomialBasisOfQuotient(nv int, lm []Exp) (basis []Exp, dquot int) {
	maxDeg := int32(0)
	for _, m := range lm {
		for _, e := range m {
			if e > maxDeg {
				maxDeg = e
			}
		}
	}
	bound := maxDeg * int32(nv)
	if bound == 0 {
		bound = 1
	}

	var all []Exp
	cur := make(Exp, nv)
	var gen func(v int, remaining int32)
	gen = func(v int, remaining int32) {
		if v == nv {
			all = append(all, cur.Clone())
			return
		}
		for e := int32(0); e <= remaining; e++ {
			cur[v] = e
			gen(v+1, remaining-e)
		}
		cur[v] = 0
	}
	// gen(0, bound) already enumerates every monomial of degree <= bound
	// (the base case at v==nv appends unconditionally regardless of how
	// much of remaining is left unused), so a single call covers the
	// whole range; looping d from 0..bound would re-emit it bound+1 times.
	gen(0, bound)

	for _, m := range all {
		standard := true
		for _, l := range lm {
			if Divides(l, m) {
				standard = false
				break
			}
		}
		if standard {
			basis = append(basis, m)
		}
	}
	SortIncreasing(basis)
	return basis, len(basis)
}
