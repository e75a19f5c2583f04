// Package sba implements the signature-based Gröbner engine of spec.md
// §4.5 (core_sba_schreyer): a degree-by-degree Schreyer-ordered SBA with
// syzygy and rewrite criteria, s-reduction, and basis insertion with
// compaction. It is grounded directly on neogb/sba.c's intended behavior
// as restated by spec.md, not on the C source's own typos/unbound
// identifiers.
package sba

import (
	"sort"

	"msolve-lift/monomial"
)

// Row is one row of a signature matrix: a polynomial (Support/Coeffs,
// parallel, strictly decreasing grevlex order) tagged with its signature
// (SM, SI) and the degree of its support.
type Row struct {
	Support []monomial.Exp
	Coeffs  []uint32
	SM      monomial.Exp
	SI      int
	Degree  int32
}

// BasisElem is one element of the running basis bs: a leading monomial,
// its full support/coefficients, and the signature of the row it was
// inserted from.
type BasisElem struct {
	LM      monomial.Exp
	Support []monomial.Exp
	Coeffs  []uint32
	SM      monomial.Exp
	SI      int
}

// criterionSet is a SignatureCriterion: per signature index, the set of
// monomials known to trigger that criterion (syzygy or rewrite).
type criterionSet map[int][]monomial.Exp

func (c criterionSet) divides(si int, m monomial.Exp) bool {
	for _, e := range c[si] {
		if monomial.Divides(e, m) {
			return true
		}
	}
	return false
}

func (c criterionSet) register(si int, m monomial.Exp) {
	c[si] = append(c[si], m)
}

func modInverse(a uint32, p uint64) uint32 {
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

func normalize(r Row, p uint64) Row {
	if len(r.Coeffs) == 0 {
		return r
	}
	inv := modInverse(r.Coeffs[0], p)
	out := Row{SM: r.SM, SI: r.SI, Degree: r.Degree, Support: r.Support, Coeffs: make([]uint32, len(r.Coeffs))}
	for i, c := range r.Coeffs {
		out.Coeffs[i] = uint32((uint64(c) * uint64(inv)) % p)
	}
	return out
}

func scaleRow(r Row, c uint32, p uint64) Row {
	out := Row{SM: r.SM, SI: r.SI, Degree: r.Degree, Support: append([]monomial.Exp(nil), r.Support...), Coeffs: make([]uint32, len(r.Coeffs))}
	for i, cf := range r.Coeffs {
		out.Coeffs[i] = uint32((uint64(cf) * uint64(c)) % p)
	}
	return out
}

func mulRowByMonomial(r Row, m monomial.Exp) Row {
	support := make([]monomial.Exp, len(r.Support))
	for i, e := range r.Support {
		support[i] = monomial.Mul(e, m)
	}
	return Row{SM: r.SM, SI: r.SI, Degree: r.Degree, Support: support, Coeffs: append([]uint32(nil), r.Coeffs...)}
}

// subRows computes a - b mod p, merging two decreasing-grevlex-ordered
// support lists.
func subRows(a, b Row, p uint64) Row {
	out := Row{SM: a.SM, SI: a.SI, Degree: a.Degree}
	i, j := 0, 0
	for i < len(a.Support) || j < len(b.Support) {
		switch {
		case j >= len(b.Support) || (i < len(a.Support) && monomial.Less(b.Support[j], a.Support[i])):
			out.Support = append(out.Support, a.Support[i])
			out.Coeffs = append(out.Coeffs, a.Coeffs[i])
			i++
		case i >= len(a.Support) || (j < len(b.Support) && monomial.Less(a.Support[i], b.Support[j])):
			neg := (p - uint64(b.Coeffs[j])%p) % p
			out.Support = append(out.Support, b.Support[j])
			out.Coeffs = append(out.Coeffs, uint32(neg))
			j++
		default:
			c := (uint64(a.Coeffs[i]) + p - uint64(b.Coeffs[j])%p) % p
			if c != 0 {
				out.Support = append(out.Support, a.Support[i])
				out.Coeffs = append(out.Coeffs, uint32(c))
			}
			i++
			j++
		}
	}
	return out
}

// sReduce top-reduces r against earlier (rows of strictly smaller
// signature, already reduced to their canonical representative this
// round) until no further reduction applies, returning the remainder.
func sReduce(r Row, earlier []Row, p uint64) Row {
	cur := Row{SM: r.SM, SI: r.SI, Degree: r.Degree,
		Support: append([]monomial.Exp(nil), r.Support...),
		Coeffs:  append([]uint32(nil), r.Coeffs...)}
	for {
		reducedAny := false
		for idx, m := range cur.Support {
			for _, g := range earlier {
				if len(g.Support) == 0 {
					continue
				}
				lm := g.Support[0]
				if !monomial.Divides(lm, m) {
					continue
				}
				quot := make(monomial.Exp, len(m))
				for v := range m {
					quot[v] = m[v] - lm[v]
				}
				shifted := mulRowByMonomial(g, quot)
				shifted = scaleRow(shifted, cur.Coeffs[idx], p)
				cur = subRows(cur, shifted, p)
				reducedAny = true
				break
			}
			if reducedAny {
				break
			}
		}
		if !reducedAny {
			break
		}
	}
	if len(cur.Support) > 0 {
		cur = normalize(cur, p)
	}
	return cur
}

func minDegree(groups ...[]Row) int32 {
	first := true
	var d int32
	for _, g := range groups {
		for _, r := range g {
			if first || r.Degree < d {
				d = r.Degree
				first = false
			}
		}
	}
	return d
}

// Engine runs core_sba_schreyer over nv variables modulo prime p.
type Engine struct {
	NV int
	P  uint64
}

// New builds an Engine.
func New(nv int, p uint64) *Engine {
	return &Engine{NV: nv, P: p}
}

// Run executes the degree-indexed SBA protocol of spec.md §4.5 over gens
// (each already reduced mod p, Support sorted strictly decreasing grevlex
// with Support[0] the leading monomial, SM initialized to that leading
// monomial and SI to the generator's input index). It returns the final
// basis bs.
func (e *Engine) Run(gens []Row) []BasisElem {
	syz := criterionSet{}
	in := append([]Row(nil), gens...)
	sort.SliceStable(in, func(i, j int) bool { return in[i].Degree > in[j].Degree })

	var psmat []Row
	var bs []BasisElem
	// canonical accumulates every row that has ever survived s-reduction,
	// across all degree rounds. A row of a later round can still have a
	// smaller signature than an earlier row (a smaller signature index
	// wins regardless of degree), so each row is reduced only against the
	// canonical rows whose signature is strictly smaller than its own.
	var canonical []Row

	for len(in) > 0 || len(psmat) > 0 {
		d := minDegree(in, psmat)
		rew := criterionSet{}
		var smat []Row

		var rest []Row
		for _, r := range in {
			if r.Degree == d {
				smat = append(smat, r)
			} else {
				rest = append(rest, r)
			}
		}
		in = rest

		for _, r := range psmat {
			for v := 0; v < e.NV; v++ {
				vmon := make(monomial.Exp, e.NV)
				vmon[v] = 1
				s := monomial.Mul(r.SM, vmon)
				if syz.divides(r.SI, s) {
					continue
				}
				if rew.divides(r.SI, s) {
					continue
				}
				nr := mulRowByMonomial(r, vmon)
				nr.SM = s
				nr.SI = r.SI
				nr.Degree = r.Degree + 1
				smat = append(smat, nr)
				rew.register(r.SI, s)
			}
		}

		sort.SliceStable(smat, func(i, j int) bool {
			if smat[i].SI != smat[j].SI {
				return smat[i].SI < smat[j].SI
			}
			return monomial.Less(smat[i].SM, smat[j].SM)
		})

		var reducedRows []Row
		for _, r := range smat {
			var earlier []Row
			for _, c := range canonical {
				if c.SI < r.SI || (c.SI == r.SI && monomial.Less(c.SM, r.SM)) {
					earlier = append(earlier, c)
				}
			}
			red := sReduce(r, earlier, e.P)
			if len(red.Support) == 0 {
				syz.register(r.SI, r.SM)
				continue
			}
			reducedRows = append(reducedRows, red)
			canonical = append(canonical, red)
		}

		var newElems []BasisElem
		for _, r := range reducedRows {
			lm := r.Support[0]
			divided := false
			for _, b := range bs {
				if monomial.Divides(b.LM, lm) {
					divided = true
					break
				}
			}
			if divided {
				continue
			}
			newElems = append(newElems, BasisElem{LM: lm, Support: r.Support, Coeffs: r.Coeffs, SM: r.SM, SI: r.SI})
		}
		bs = append(bs, newElems...)

		if len(newElems) > 0 {
			var compact []BasisElem
			for _, b := range bs {
				keep := true
				for _, ne := range newElems {
					if !monomial.Equal(b.LM, ne.LM) && monomial.Divides(ne.LM, b.LM) {
						keep = false
						break
					}
				}
				if keep {
					compact = append(compact, b)
				}
			}
			bs = compact
		}

		psmat = reducedRows
	}
	return bs
}

// LeadingMonomials extracts the leading monomial of every basis element.
func LeadingMonomials(bs []BasisElem) []monomial.Exp {
	out := make([]monomial.Exp, len(bs))
	for i, b := range bs {
		out[i] = b.LM
	}
	return out
}
