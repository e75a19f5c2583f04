// Package orchestrator implements the multi-modular orchestrator of
// spec.md §4: prime selection, learn/apply phases against a modular
// Gröbner basis trace, coefficient-image accumulation into a
// modimage.Table, CRT (recomputed over all accepted primes at each
// reconstruction attempt; no incremental per-polynomial CRT state is
// kept), and rational reconstruction with adaptive cadence, mirroring msolve_gbtrace_qq's NEWGBLIFT control flow
// in lifting-gb.c.
package orchestrator

import (
	"math/big"
	"sort"
	"sync"
	"time"

	"msolve-lift/config"
	"msolve-lift/lifterr"
	"msolve-lift/liftstate"
	"msolve-lift/modgb"
	"msolve-lift/modimage"
	"msolve-lift/monomial"
	"msolve-lift/primes"
	"msolve-lift/reconstruct"
	"msolve-lift/stats"
)

// witnessRounds is the number of consecutive agreeing reconstructions of
// the witness coefficient required before the full polynomial is lifted
// (the "check1, then check2" two-round agreement in lifting-gb.c).
const witnessRounds = 2

// Result is the rational Gröbner basis produced by a successful Run.
type Result struct {
	Table *modimage.Table
	// BadPrimes lists every prime rejected mid-run because its modular
	// basis disagreed with the learned shape (mirroring the source's
	// per-batch bad_primes bookkeeping). Primes skipped by the lucky
	// predicate are not listed.
	BadPrimes []uint64
}

// Orchestrator drives one multi-modular lifting run.
type Orchestrator struct {
	Cfg      config.Config
	Provider modgb.Provider
	Stats    *stats.Recorder
	Bound    reconstruct.BoundPolicy

	// MaxPrimes caps how many primes may be accumulated before giving up
	// (lifterr.ErrResourceExhausted).
	MaxPrimes int
}

// New builds an Orchestrator with the default bound policy and a resource
// cap generous enough for small-to-medium systems.
func New(cfg config.Config, provider modgb.Provider) *Orchestrator {
	return &Orchestrator{
		Cfg:       cfg,
		Provider:  provider,
		Stats:     stats.NewRecorder(cfg.InfoLevel > 0),
		Bound:     reconstruct.DefaultBoundPolicy,
		MaxPrimes: 4096,
	}
}

// advanceCadence feeds this round's reconstruction and modular-solve
// durations to ls.AdvanceCadence (§4.3) and reports a doubling through
// o.Stats, mirroring the source's info_level-gated "(->%d)" log line.
func (o *Orchestrator) advanceCadence(rrTime, modularTime time.Duration, ls *liftstate.State) {
	if ls.AdvanceCadence(rrTime, modularTime) {
		o.Stats.CadenceDoubled(int(ls.RR))
	}
}

func (o *Orchestrator) nextLucky(s *primes.Stream, leadCoeffs []*big.Int, bad map[uint64]bool) uint64 {
	for {
		p := s.NextPrime()
		if primes.IsLucky(p, leadCoeffs, bad) {
			return p
		}
	}
}

func toBasis(polys []*modgb.Poly, staircase []monomial.Exp) modimage.Basis {
	b := modimage.Basis{Polys: make([]modimage.BasisPoly, len(polys))}
	for i, g := range polys {
		support := make([]monomial.Exp, 0, len(g.Terms)-1)
		coeffs := make([]uint32, 0, len(g.Terms)-1)
		for _, t := range g.Terms[1:] {
			support = append(support, t.Exp)
			coeffs = append(coeffs, t.Coeff)
		}
		b.Polys[i] = modimage.BasisPoly{Support: support, Coeffs: coeffs}
	}
	return b
}

// degreeSortOrder returns the permutation that sorts lm by ascending
// total degree (stable, so generators sharing a degree keep the order
// the provider returned them in). Applying this permutation consistently
// to every Learn/Apply basis makes liftstate.StepsByDegree's per-degree
// counts correspond to contiguous [lstart,lend] windows over the
// resulting polynomial ordering, per §D.3.
func degreeSortOrder(lm []monomial.Exp) []int {
	order := make([]int, len(lm))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return lm[order[i]].Degree() < lm[order[j]].Degree() })
	return order
}

func permutePolys(basis []*modgb.Poly, order []int) []*modgb.Poly {
	out := make([]*modgb.Poly, len(order))
	for newIdx, oldIdx := range order {
		out[newIdx] = basis[oldIdx]
	}
	return out
}

func equalStaircase(a, b []monomial.Exp) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !monomial.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Run lifts gens (generators of the input ideal, given with integer
// coefficients — a rational input is assumed pre-cleared to a common
// denominator by the caller) into a rational Gröbner basis.
func (o *Orchestrator) Run(gens []*modgb.IntPoly, seed []byte) (*Result, error) {
	if len(gens) == 0 {
		return nil, lifterr.ErrInvalidInput
	}
	nv := gens[0].NV

	leadCoeffs := make([]*big.Int, 0, len(gens))
	maxBits := 0
	for _, g := range gens {
		for _, t := range g.Terms {
			v := t.Coeff
			if v < 0 {
				v = -v
			}
			leadCoeffs = append(leadCoeffs, big.NewInt(v))
			if b := big.NewInt(v).BitLen(); b > maxBits {
				maxBits = b
			}
		}
	}

	stream := primes.NewStream(seed, 31)
	bad := map[uint64]bool{}

	p0 := o.nextLucky(stream, leadCoeffs, bad)
	trace, basis0, ok := o.Provider.Learn(gens, p0)
	if !ok || len(basis0) == 0 {
		return nil, lifterr.ErrNotGenericEnough
	}
	lm0raw := modgb.LeadingMonomials(basis0)
	staircase, _ := monomial.MonomialBasisOfQuotient(nv, lm0raw)

	// Reorder the learned basis (and every subsequent Apply basis, via
	// the same permutation) so that the [lstart,lend] windows liftstate
	// hands out are contiguous runs of equal leading-monomial degree, as
	// §D.3's increasing-degree schedule requires.
	order := degreeSortOrder(lm0raw)
	basis0 = permutePolys(basis0, order)
	lm0 := modgb.LeadingMonomials(basis0)
	lens := monomial.ArrayOfLengths(lm0, staircase)

	npol := int32(len(basis0))
	degrees := make([]int32, npol)
	for i, m := range lm0 {
		degrees[i] = m.Degree()
	}
	steps := liftstate.StepsByDegree(degrees)
	ls := liftstate.New(npol, steps)

	cap0 := modimage.EstimateInitialPrimeCapacity(maxBits+64, 31)
	tbl := modimage.Init(cap0, lens, uint32(npol))
	if !tbl.Append(toBasis(basis0, staircase), p0, staircase) {
		tbl.Grow(cap0)
		tbl.Append(toBasis(basis0, staircase), p0, staircase)
	}

	threads := o.Cfg.NRThreads
	if threads < 1 {
		threads = 1
	}

	var prevNum, prevDen map[int32]*big.Int
	agree := 0
	witnessChosen := false

	for {
		batch := make([]uint64, threads)
		for i := range batch {
			p := o.nextLucky(stream, leadCoeffs, bad)
			batch[i] = p
		}

		type applied struct {
			prime uint64
			basis []*modgb.Poly
			ok    bool
		}
		results := make([]applied, len(batch))
		var wg sync.WaitGroup
		modularStart := time.Now()
		for i, p := range batch {
			wg.Add(1)
			go func(i int, p uint64) {
				defer wg.Done()
				b, ok := o.Provider.Apply(trace, p)
				results[i] = applied{prime: p, basis: b, ok: ok}
			}(i, p)
		}
		wg.Wait()
		modularTime := time.Since(modularStart)

		for _, r := range results {
			permuted := permutePolys(r.basis, order)
			if !r.ok || len(permuted) != len(basis0) || !equalStaircase(modgb.LeadingMonomials(permuted), lm0) {
				bad[r.prime] = true
				continue
			}
			if tbl.NPrimes+1 >= tbl.Alloc {
				tbl.Grow(tbl.Alloc)
			}
			tbl.Append(toBasis(permuted, staircase), r.prime, staircase)
		}

		if int(tbl.NPrimes) > o.MaxPrimes {
			return nil, lifterr.ErrResourceExhausted
		}

		if !witnessChosen && tbl.NPrimes > 0 {
			ls.ChooseWitness(ls.LStart, witnessColumns(tbl, int(ls.LStart), int(ls.LEnd)))
			witnessChosen = true
		}
		if int(tbl.NPrimes) < 2 {
			continue
		}

		// reconstruct_round's step 3 only attempts reconstruction every
		// rr primes (§4.3); other rounds still append to the table above
		// but skip straight to the next batch.
		if ls.RR > 1 && int(tbl.NPrimes)%int(ls.RR) != 0 {
			continue
		}

		rrStart := time.Now()
		num, den, ok := o.reconstructWitnesses(tbl, ls)
		if !ok {
			agree = 0
			prevNum, prevDen = nil, nil
			o.advanceCadence(time.Since(rrStart), modularTime, ls)
			continue
		}
		if prevNum != nil && sameWitnesses(num, den, prevNum, prevDen) {
			agree++
		} else {
			agree = 1
		}
		prevNum, prevDen = num, den
		o.Stats.Mark("witness-agreement-round", float64(agree))
		if agree < witnessRounds {
			o.advanceCadence(time.Since(rrStart), modularTime, ls)
			continue
		}

		lifted := o.liftFullRange(tbl, ls, staircase, num, den)
		o.advanceCadence(time.Since(rrStart), modularTime, ls)
		if lifted {
			o.Stats.PercentComplete(int(ls.CStep+1), int(ls.NSteps))
			if !ls.NextStep() {
				break
			}
			agree = 0
			prevNum, prevDen = nil, nil
			witnessChosen = false
			ls.GDen = big.NewInt(1)
		}
	}

	badPrimes := make([]uint64, 0, len(bad))
	for p := range bad {
		badPrimes = append(badPrimes, p)
	}
	return &Result{Table: tbl, BadPrimes: badPrimes}, nil
}

// witnessColumns returns, for each polynomial in [lstart,lend], its
// slot values under the first accepted prime (cf_p[*][0]) so ChooseWitness can
// locate the first nonzero slot under the first accepted prime.
func witnessColumns(tbl *modimage.Table, lstart, lend int) [][]uint32 {
	out := make([][]uint32, lend-lstart+1)
	for i := lstart; i <= lend; i++ {
		poly := tbl.Polys[i]
		col := make([]uint32, poly.Len)
		for slot := 0; slot < poly.Len; slot++ {
			col[slot] = poly.CfP[slot][0]
		}
		out[i-lstart] = col
	}
	return out
}

// reconstructWitnesses runs seed_crt + ratrecon_with_den for every
// polynomial's witness slot in the current degree step, returning the
// candidate numerators/dens keyed by polynomial index. ok is false if any
// polynomial in range fails to reconstruct. ls.GDen carries the running
// LCM of denominators across the group (§4.3 "gden"), used as each
// successive polynomial's denominator guess.
func (o *Orchestrator) reconstructWitnesses(tbl *modimage.Table, ls *liftstate.State) (map[int32]*big.Int, map[int32]*big.Int, bool) {
	num := map[int32]*big.Int{}
	den := map[int32]*big.Int{}

	modulus := big.NewInt(1)
	for i := uint32(0); i < tbl.NPrimes; i++ {
		modulus.Mul(modulus, new(big.Int).SetUint64(tbl.Primes[i]))
	}
	N, D := o.Bound(modulus, int(ls.CStep))

	for k := ls.LStart; k <= ls.LEnd; k++ {
		poly := tbl.Polys[k]
		slot := int(ls.Coef[k])
		vals := make([]uint64, tbl.NPrimes)
		pr := make([]uint64, tbl.NPrimes)
		for i := uint32(0); i < tbl.NPrimes; i++ {
			vals[i] = uint64(poly.CfP[slot][i])
			pr[i] = tbl.Primes[i]
		}
		crt := reconstruct.SeedCRT([][]uint64{vals}, pr)[0]
		n, d, ok := reconstruct.RatreconWithDen(crt, modulus, ls.GDen, N, D)
		if !ok {
			return nil, nil, false
		}
		d.Mul(d, ls.GDen)
		num[k] = n
		den[k] = d
		ls.GDen = lcmBig(ls.GDen, d)
	}
	return num, den, true
}

func sameWitnesses(a1, d1, a2, d2 map[int32]*big.Int) bool {
	for k, v := range a1 {
		ov, ok := a2[k]
		if !ok || v.Cmp(ov) != 0 {
			return false
		}
		if d1[k].Cmp(d2[k]) != 0 {
			return false
		}
	}
	return true
}

// liftFullRange performs the full-polynomial CRT and rational
// reconstruction of every slot of every polynomial in [lstart,lend],
// using the verified witness denominator as the ratrecon_with_den guess,
// mirroring crt_lift_modgbs + ratrecon_lift_modgbs. Returns true if every
// polynomial in range fully reconstructed.
func (o *Orchestrator) liftFullRange(tbl *modimage.Table, ls *liftstate.State, staircase []monomial.Exp, witnessNum, witnessDen map[int32]*big.Int) bool {
	modulus := big.NewInt(1)
	for i := uint32(0); i < tbl.NPrimes; i++ {
		modulus.Mul(modulus, new(big.Int).SetUint64(tbl.Primes[i]))
	}
	N, D := o.Bound(modulus, int(ls.CStep))

	for k := ls.LStart; k <= ls.LEnd; k++ {
		poly := tbl.Polys[k]
		den := witnessDen[k]
		lcm := new(big.Int).Set(den)
		for slot := 0; slot < poly.Len; slot++ {
			vals := make([]uint64, tbl.NPrimes)
			pr := make([]uint64, tbl.NPrimes)
			for i := uint32(0); i < tbl.NPrimes; i++ {
				vals[i] = uint64(poly.CfP[slot][i])
				pr[i] = tbl.Primes[i]
			}
			crt := reconstruct.SeedCRT([][]uint64{vals}, pr)[0]
			poly.CfZ[slot] = crt

			n, d, ok := reconstruct.RatreconWithDen(crt, modulus, den, N, D)
			if !ok {
				return false
			}
			d.Mul(d, den)
			poly.CfQ[slot] = [2]*big.Int{n, d}
			lcm = lcmBig(lcm, d)
		}
		ls.Den[k] = lcm
		ls.Num[k] = witnessNum[k]
	}
	return true
}

func lcmBig(a, b *big.Int) *big.Int {
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
	if g.Sign() == 0 {
		return big.NewInt(0)
	}
	out := new(big.Int).Div(a, g)
	out.Mul(out, b)
	return new(big.Int).Abs(out)
}
