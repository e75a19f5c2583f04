// Package modimage implements the column-oriented per-prime coefficient
// store described in spec.md §4.1: ModularImageTable and ModularPoly.
package modimage

import (
	"bytes"
	"fmt"
	"math/big"

	"msolve-lift/monomial"
)

// Poly is one polynomial's mod-p image (ModularPoly in spec.md §3). The
// leading coefficient is normalized to 1 and is not stored; Len is the
// number of remaining (non-leading) monomial slots.
type Poly struct {
	Len int
	// CfP[slot][k] is the slot-th coefficient under the k-th accepted prime.
	CfP [][]uint32
	// CfZ[slot] is the CRT-lifted integer, populated once reconstruction
	// of this polynomial's slot is decided.
	CfZ []*big.Int
	// CfQ[slot] holds the final (numerator, denominator) pair.
	CfQ [][2]*big.Int
}

// Table is ModularImageTable from spec.md §3/§4.1.
type Table struct {
	Alloc   uint32
	NPrimes uint32
	Primes  []uint64
	Polys   []*Poly
	LD      uint32
}

// Init allocates ld polynomials with the given per-polynomial slot counts
// and per-slot capacity alloc (gb_modpoly_init).
func Init(alloc uint32, lens []int32, ld uint32) *Table {
	t := &Table{
		Alloc:  alloc,
		LD:     ld,
		Primes: make([]uint64, alloc),
		Polys:  make([]*Poly, ld),
	}
	for i := uint32(0); i < ld; i++ {
		n := int(lens[i])
		p := &Poly{
			Len: n,
			CfP: make([][]uint32, n),
			CfZ: make([]*big.Int, n),
			CfQ: make([][2]*big.Int, n),
		}
		for j := 0; j < n; j++ {
			p.CfP[j] = make([]uint32, alloc)
			p.CfZ[j] = new(big.Int)
			p.CfQ[j] = [2]*big.Int{new(big.Int), new(big.Int)}
		}
		t.Polys[i] = p
	}
	return t
}

// Grow increases per-slot capacity by extra; it never shrinks and
// zero-fills new cells (gb_modpoly_realloc).
func (t *Table) Grow(extra uint32) {
	old := t.Alloc
	t.Alloc += extra

	primes := make([]uint64, t.Alloc)
	copy(primes, t.Primes)
	t.Primes = primes

	for _, p := range t.Polys {
		for j := range p.CfP {
			cf := make([]uint32, t.Alloc)
			copy(cf, p.CfP[j])
			p.CfP[j] = cf
		}
	}
	_ = old
}

// BasisPoly is one polynomial of a mod-p Gröbner basis as consumed by
// Append: Support holds its non-leading monomials in strictly decreasing
// staircase order, parallel to Coeffs.
type BasisPoly struct {
	Support []monomial.Exp
	Coeffs  []uint32
}

// Basis is one mod-p Gröbner basis, one BasisPoly per polynomial, in the
// same order as the Table's polynomials.
type Basis struct {
	Polys []BasisPoly
}

// Append writes the coefficients of one accepted prime's basis into the
// table (modpgbs_set). staircase must be sorted increasingly and is
// scanned from high to low index per polynomial; position advances
// monotonically. Returns false (caller must treat the table as full) if
// nprimes+1 >= alloc.
func (t *Table) Append(b Basis, prime uint64, staircase []monomial.Exp) bool {
	if t.NPrimes+1 >= t.Alloc {
		return false
	}
	t.Primes[t.NPrimes] = prime
	for i, bp := range b.Polys {
		bc := t.Polys[i].Len - 1
		for j := 0; j < len(bp.Support); j++ {
			for bc >= 0 && !monomial.Equal(staircase[bc], bp.Support[j]) {
				bc--
			}
			if bc < 0 {
				break
			}
			t.Polys[i].CfP[bc][t.NPrimes] = bp.Coeffs[j]
			bc--
		}
	}
	t.NPrimes++
	return true
}

// EstimateInitialPrimeCapacity mirrors maxbitsize_gens: it sizes the
// initial table allocation from the largest bit-size among the input
// rational coefficients, so that few (if any) Grow calls are needed
// during lifting. primeBits is the bit-size of the primes that will be
// used (roughly 30, per spec.md §4.4's "primes of size >= 2^30").
func EstimateInitialPrimeCapacity(maxCoeffBits int, primeBits int) uint32 {
	if primeBits <= 0 {
		primeBits = 30
	}
	// +4 gives headroom for the two-prime verification step beyond the
	// primes strictly required to cover maxCoeffBits of precision.
	n := (maxCoeffBits+primeBits-1)/primeBits + 4
	if n < 4 {
		n = 4
	}
	return uint32(n)
}

// WriteRationalGB renders the table's reconstructed rational coefficients
// in the bracketed "num/den" (or bare "num" when den == 1) list format
// described in spec.md §6, mirroring display_gbmodpoly_cf_qq. Slots within
// a polynomial are printed from highest to lowest index, matching the
// source's output order.
func (t *Table) WriteRationalGB() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, p := range t.Polys {
		buf.WriteByte('[')
		for l := p.Len - 1; l >= 0; l-- {
			writeRational(&buf, p.CfQ[l][0], p.CfQ[l][1])
			if l > 0 {
				buf.WriteString(", ")
			}
		}
		buf.WriteByte(']')
		if i < len(t.Polys)-1 {
			buf.WriteString(",\n")
		}
	}
	buf.WriteString("]:")
	return buf.String()
}

func writeRational(buf *bytes.Buffer, num, den *big.Int) {
	if den != nil && den.CmpAbs(big.NewInt(1)) != 0 {
		fmt.Fprintf(buf, "%s/%s", num.String(), den.String())
	} else {
		fmt.Fprintf(buf, "%s", num.String())
	}
}
