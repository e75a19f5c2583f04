// Package gbcore is the top-level entry point wiring config, modgb,
// orchestrator, modimage and sba into the single call msolve_gbtrace_qq
// exposes in lifting-gb.c, translating the internal sentinel errors of
// lifterr into the integer return-code contract of spec.md §6.
package gbcore

import (
	"errors"

	"msolve-lift/config"
	"msolve-lift/lifterr"
	"msolve-lift/modgb"
	"msolve-lift/modimage"
	"msolve-lift/monomial"
	"msolve-lift/orchestrator"
	"msolve-lift/sba"
	"msolve-lift/stats"
)

// Return codes, verbatim from spec.md §6.
const (
	CodeSuccess                = 0
	CodeNotGeneric             = 1
	CodeNotGenericEnoughSq     = 2
	CodePositiveCharacteristic = -2
	CodeMetaDataCorrupt        = -3
	CodeBadPrime               = -4
)

// Report is the outcome of one Run: the return code plus, on success, the
// rational Gröbner basis table.
type Report struct {
	Code  int
	Table *modimage.Table
	// BadPrimes lists primes rejected mid-run because their modular basis
	// disagreed with the learned one, for caller inspection; primes
	// skipped by the lucky predicate are not listed.
	BadPrimes []uint64
}

// Run lifts gens into a rational Gröbner basis, following the
// Config.UseSignatures switch to pick core_sba_schreyer (sba.Engine) or the
// external ModularGBProvider (modgb) as the per-prime solver, then driving
// the multi-modular orchestrator to CRT-accumulate and rationally
// reconstruct the result. seed deterministically drives prime selection.
func Run(cfg config.Config, gens []*modgb.IntPoly, seed []byte) Report {
	if len(gens) == 0 {
		return Report{Code: CodeMetaDataCorrupt}
	}
	nv := gens[0].NV
	for _, g := range gens {
		if g.NV != nv || len(g.Terms) == 0 {
			return Report{Code: CodeMetaDataCorrupt}
		}
	}

	provider := modgb.Provider(modgb.ReferenceProvider{})
	if cfg.UseSignatures {
		provider = sbaProvider{nv: nv}
	}

	orch := orchestrator.New(cfg, provider)
	orch.Stats = stats.NewRecorder(cfg.InfoLevel > 0)

	result, err := orch.Run(gens, seed)
	if err == nil {
		return Report{Code: CodeSuccess, Table: result.Table, BadPrimes: result.BadPrimes}
	}

	switch {
	case errors.Is(err, lifterr.ErrInvalidInput):
		return Report{Code: CodeMetaDataCorrupt}
	case errors.Is(err, lifterr.ErrNotGenericEnough):
		return Report{Code: CodeNotGeneric}
	case errors.Is(err, lifterr.ErrResourceExhausted):
		return Report{Code: CodeMetaDataCorrupt}
	case errors.Is(err, lifterr.ErrVerificationFailed):
		return Report{Code: CodeBadPrime}
	case errors.Is(err, lifterr.ErrPositiveCharacteristic):
		return Report{Code: CodePositiveCharacteristic}
	default:
		return Report{Code: CodeMetaDataCorrupt}
	}
}

// sbaProvider adapts the signature-based engine (sba.Engine) to the
// modgb.Provider interface so gbcore can select it via
// Config.UseSignatures without the orchestrator knowing which solver
// backs a given run.
type sbaProvider struct {
	nv int
}

func (s sbaProvider) Learn(gens []*modgb.IntPoly, p uint64) (*modgb.Trace, []*modgb.Poly, bool) {
	basis, ok := s.run(gens, p)
	if !ok {
		return nil, nil, false
	}
	return &modgb.Trace{Gens: gens}, basis, true
}

func (s sbaProvider) Apply(trace *modgb.Trace, p uint64) ([]*modgb.Poly, bool) {
	return s.run(trace.Gens, p)
}

// run reduces gens mod p, normalizes (monic, strictly decreasing grevlex
// support — the order Row.Support requires), converts each into a
// signature Row seeded with its own leading monomial as signature, runs
// the engine, and converts the resulting basis back to modgb.Poly
// (leading coefficient implicit/monic, matching modgb.Buchberger's output
// convention).
func (s sbaProvider) run(gens []*modgb.IntPoly, p uint64) ([]*modgb.Poly, bool) {
	rows := make([]sba.Row, len(gens))
	for i, g := range gens {
		reduced := modgb.ReduceModP(g, p)
		modgb.Normalize(reduced, p)
		if len(reduced.Terms) == 0 {
			return nil, false
		}
		rows[i] = toRow(reduced, i)
	}
	eng := sba.New(s.nv, p)
	bs := eng.Run(rows)
	out := make([]*modgb.Poly, len(bs))
	for i, b := range bs {
		terms := make([]modgb.Term, len(b.Support))
		for j, e := range b.Support {
			terms[j] = modgb.Term{Exp: e, Coeff: b.Coeffs[j]}
		}
		out[i] = &modgb.Poly{NV: s.nv, Terms: terms}
	}
	return out, true
}

func toRow(g *modgb.Poly, idx int) sba.Row {
	support := make([]monomial.Exp, len(g.Terms))
	coeffs := make([]uint32, len(g.Terms))
	for i, t := range g.Terms {
		support[i] = t.Exp
		coeffs[i] = t.Coeff
	}
	lm := g.Terms[0].Exp
	return sba.Row{Support: support, Coeffs: coeffs, SM: lm, SI: idx, Degree: lm.Degree()}
}
