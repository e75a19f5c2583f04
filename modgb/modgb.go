// Package modgb implements the modular Gröbner basis provider contract
// from spec.md §6: "a modular F4 routine, given as an external
// collaborator." The real production solver (trace-based F4) is out of
// THE CORE's scope; this package supplies the Provider interface the
// orchestrator drives, plus a reference mod-p Buchberger solver (no trace
// reuse, no F4 matrices) that implements the same Learn/Apply contract so
// the orchestrator and its tests have something real to run against.
package modgb

import (
	"sort"

	"msolve-lift/monomial"
)

// Term is one monomial/coefficient pair of a polynomial reduced mod p.
type Term struct {
	Exp   monomial.Exp
	Coeff uint32
}

// Poly is a polynomial over F_p, terms held in strictly decreasing grevlex
// order with a monic leading term (Coeff == 1 after Normalize).
type Poly struct {
	NV    int
	Terms []Term
}

// IntTerm is one monomial/coefficient pair of an integer (characteristic
// zero) polynomial.
type IntTerm struct {
	Exp   monomial.Exp
	Coeff int64
}

// IntPoly is one of the input generators, with genuine (possibly negative)
// integer coefficients. The same IntPoly is reduced afresh modulo every
// prime the orchestrator tries, rather than carrying a stale mod-p
// residue across primes.
type IntPoly struct {
	NV    int
	Terms []IntTerm
}

// ReduceModP reduces an IntPoly's coefficients modulo p, dropping terms
// that vanish, and returns the resulting F_p polynomial (not yet
// normalized to a monic leading term).
func ReduceModP(ip *IntPoly, p uint64) *Poly {
	out := &Poly{NV: ip.NV}
	for _, t := range ip.Terms {
		r := t.Coeff % int64(p)
		if r < 0 {
			r += int64(p)
		}
		if r == 0 {
			continue
		}
		out.Terms = append(out.Terms, Term{Exp: t.Exp, Coeff: uint32(r)})
	}
	return out
}

// LM returns the leading monomial, or nil if p is the zero polynomial.
func (p *Poly) LM() monomial.Exp {
	if len(p.Terms) == 0 {
		return nil
	}
	return p.Terms[0].Exp
}

func modInverse(a uint32, p uint64) uint32 {
	// Fermat's little theorem: a^(p-2) mod p, p prime.
	a = a % uint32(p)
	result := uint64(1)
	base := uint64(a)
	e := p - 2
	for e > 0 {
		if e&1 == 1 {
			result = (result * base) % p
		}
		base = (base * base) % p
		e >>= 1
	}
	return uint32(result)
}

// Normalize scales p so its leading coefficient is 1 mod p, dropping any
// zero terms.
func Normalize(poly *Poly, p uint64) {
	var kept []Term
	for _, t := range poly.Terms {
		if t.Coeff%uint32(p) != 0 {
			kept = append(kept, t)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return monomial.Less(kept[i].Exp, kept[j].Exp) })
	reverseTerms(kept)
	poly.Terms = kept
	if len(poly.Terms) == 0 {
		return
	}
	inv := modInverse(poly.Terms[0].Coeff, p)
	for i := range poly.Terms {
		poly.Terms[i].Coeff = uint32((uint64(poly.Terms[i].Coeff) * uint64(inv)) % p)
	}
}

func exps(ts []Term) []monomial.Exp {
	out := make([]monomial.Exp, len(ts))
	for i, t := range ts {
		out[i] = t.Exp
	}
	return out
}

func reverseTerms(ts []Term) {
	// Sorting increasingly + reverse gives decreasing order without a
	// second comparator.
	for i, j := 0, len(ts)-1; i < j; i, j = i+1, j-1 {
		ts[i], ts[j] = ts[j], ts[i]
	}
}

func scale(poly *Poly, c uint32, p uint64) *Poly {
	out := &Poly{NV: poly.NV, Terms: make([]Term, len(poly.Terms))}
	for i, t := range poly.Terms {
		out.Terms[i] = Term{Exp: t.Exp, Coeff: uint32((uint64(t.Coeff) * uint64(c)) % p)}
	}
	return out
}

func mulByMonomial(poly *Poly, m monomial.Exp) *Poly {
	out := &Poly{NV: poly.NV, Terms: make([]Term, len(poly.Terms))}
	for i, t := range poly.Terms {
		out.Terms[i] = Term{Exp: monomial.Mul(t.Exp, m), Coeff: t.Coeff}
	}
	return out
}

// sub computes a - b mod p, merging sorted-decreasing term lists.
func sub(a, b *Poly, p uint64) *Poly {
	out := &Poly{NV: a.NV}
	i, j := 0, 0
	for i < len(a.Terms) || j < len(b.Terms) {
		switch {
		case j >= len(b.Terms) || (i < len(a.Terms) && monomial.Less(b.Terms[j].Exp, a.Terms[i].Exp)):
			out.Terms = append(out.Terms, a.Terms[i])
			i++
		case i >= len(a.Terms) || (j < len(b.Terms) && monomial.Less(a.Terms[i].Exp, b.Terms[j].Exp)):
			neg := (uint64(p) - uint64(b.Terms[j].Coeff)) % p
			out.Terms = append(out.Terms, Term{Exp: b.Terms[j].Exp, Coeff: uint32(neg)})
			j++
		default:
			c := (uint64(a.Terms[i].Coeff) + p - uint64(b.Terms[j].Coeff)) % p
			if c != 0 {
				out.Terms = append(out.Terms, Term{Exp: a.Terms[i].Exp, Coeff: uint32(c)})
			}
			i++
			j++
		}
	}
	return out
}

// reduce fully reduces poly against basis (normal form), returning the
// remainder.
func reduce(poly *Poly, basis []*Poly, p uint64) *Poly {
	rem := &Poly{NV: poly.NV, Terms: append([]Term(nil), poly.Terms...)}
	for {
		reducedSomething := false
		for idx := 0; idx < len(rem.Terms); idx++ {
			t := rem.Terms[idx]
			for _, g := range basis {
				if len(g.Terms) == 0 {
					continue
				}
				lm := g.LM()
				if !monomial.Divides(lm, t.Exp) {
					continue
				}
				quotExp := make(monomial.Exp, poly.NV)
				for v := 0; v < poly.NV; v++ {
					quotExp[v] = t.Exp[v] - lm[v]
				}
				shifted := mulByMonomial(g, quotExp)
				shifted = scale(shifted, t.Coeff, p)
				rem = sub(rem, shifted, p)
				reducedSomething = true
				break
			}
			if reducedSomething {
				break
			}
		}
		if !reducedSomething {
			break
		}
	}
	return rem
}

func lcm(a, b monomial.Exp) monomial.Exp {
	out := make(monomial.Exp, len(a))
	for i := range a {
		if a[i] > b[i] {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}

func spoly(f, g *Poly, p uint64) *Poly {
	l := lcm(f.LM(), g.LM())
	ef := make(monomial.Exp, f.NV)
	eg := make(monomial.Exp, f.NV)
	for i := range l {
		ef[i] = l[i] - f.LM()[i]
		eg[i] = l[i] - g.LM()[i]
	}
	lf := mulByMonomial(f, ef)
	lg := mulByMonomial(g, eg)
	return sub(lf, lg, p)
}

// Buchberger computes a (non-minimal, non-reduced-beyond-normal-form)
// Gröbner basis of the ideal generated by gens over F_p via the classical
// Buchberger algorithm. It is the reference implementation behind
// Provider.Learn/Apply's in-process default.
func Buchberger(gens []*Poly, p uint64) []*Poly {
	var basis []*Poly
	for _, g := range gens {
		c := &Poly{NV: g.NV, Terms: append([]Term(nil), g.Terms...)}
		Normalize(c, p)
		if len(c.Terms) > 0 {
			basis = append(basis, c)
		}
	}

	type pair struct{ i, j int }
	var pairs []pair
	for i := 0; i < len(basis); i++ {
		for j := i + 1; j < len(basis); j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	for len(pairs) > 0 {
		pr := pairs[0]
		pairs = pairs[1:]
		s := spoly(basis[pr.i], basis[pr.j], p)
		r := reduce(s, basis, p)
		Normalize(r, p)
		if len(r.Terms) == 0 {
			continue
		}
		newIdx := len(basis)
		basis = append(basis, r)
		for i := 0; i < newIdx; i++ {
			pairs = append(pairs, pair{i, newIdx})
		}
	}
	return basis
}

// LeadingMonomials extracts the leading monomial of every basis element,
// in basis order.
func LeadingMonomials(basis []*Poly) []monomial.Exp {
	out := make([]monomial.Exp, len(basis))
	for i, g := range basis {
		out[i] = g.LM()
	}
	return out
}

// Trace is the learned data an Apply call replays against a new prime:
// here, simply the original characteristic-zero generators, since the
// reference solver has no pivot/pair-schedule trace structure of its own
// to reuse. A real F4 trace (pivot order, pair schedule) would live here
// instead; the contract (Learn once, Apply repeatedly) is unchanged either
// way.
type Trace struct {
	Gens []*IntPoly
}

// Provider is the modular Gröbner basis contract the orchestrator drives:
// a one-time Learn over the first lucky prime, then repeated Apply calls
// that replay the same computation modulo further primes.
type Provider interface {
	Learn(gens []*IntPoly, p uint64) (trace *Trace, basis []*Poly, ok bool)
	Apply(trace *Trace, p uint64) (basis []*Poly, ok bool)
}

// ReferenceProvider is the in-process default Provider backed by
// Buchberger. It has no real trace reuse: Apply simply re-reduces the
// original generators modulo the new prime and reruns Buchberger; the
// orchestrator independently reports a prime as bad if the resulting
// basis cardinality or staircase differs from the learned one (the same
// signal lifting-gb.c's bad_primes[] check performs).
type ReferenceProvider struct{}

func (ReferenceProvider) Learn(gens []*IntPoly, p uint64) (*Trace, []*Poly, bool) {
	reduced := make([]*Poly, len(gens))
	for i, g := range gens {
		reduced[i] = ReduceModP(g, p)
	}
	basis := Buchberger(reduced, p)
	return &Trace{Gens: gens}, basis, true
}

func (ReferenceProvider) Apply(trace *Trace, p uint64) ([]*Poly, bool) {
	reduced := make([]*Poly, len(trace.Gens))
	for i, g := range trace.Gens {
		reduced[i] = ReduceModP(g, p)
	}
	basis := Buchberger(reduced, p)
	return basis, true
}
