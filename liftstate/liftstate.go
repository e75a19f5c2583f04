// Package liftstate implements data_lift_struct (the NEWGBLIFT variant) from
// lifting-gb.c: the bookkeeping record threaded through one lifting run —
// which polynomials are due for reconstruction at the current degree step,
// their lifted numerators/denominators and running denominator LCM, and the
// adaptive reconstruction cadence.
package liftstate

import (
	"math/big"
	"sort"
	"time"
)

// State is data_lift_t. All per-polynomial slices are indexed 0..npol-1.
//
// The source's per-polynomial check1[i]/check2[i] two-round verification
// flags and its crt[i]/crt_mult incremental-CRT bookkeeping and its
// start/end sliding window are not carried here: this implementation
// verifies the witness coefficient across the whole [lstart,lend] group
// at once (orchestrator.Run's agree counter, gated by witnessRounds)
// instead of tracking per-polynomial progress through a second state
// machine that would largely duplicate it. GDen is the one piece of that
// bookkeeping genuinely wired, since bound-policy callers consume it
// directly (see orchestrator.reconstructWitnesses).
type State struct {
	Npol int32

	// RR is the reconstruction cadence (dlift->rr): rational
	// reconstruction is attempted only when the accepted prime count is a
	// multiple of RR. AdvanceCadence doubles it.
	RR int32

	// Steps holds, per degree-step, how many polynomials become due; it
	// sums to Npol.
	Steps  []int32
	NSteps int32
	CStep  int32

	// LStart/LEnd bound the polynomial range due at the current step.
	LStart int32
	LEnd   int32

	// Coef[i] is the slot index of polynomial i's witness coefficient.
	Coef []int32

	Num []*big.Int
	Den []*big.Int
	// GDen is the running LCM of denominators reconstructed so far in
	// the current group, used as the ratrecon_with_den guess for the
	// next polynomial's witness coefficient.
	GDen *big.Int
}

// New builds a fresh State for npol polynomials due across the given steps
// (data_lift_init, NEWGBLIFT branch).
func New(npol int32, steps []int32) *State {
	s := &State{
		Npol:   npol,
		RR:     1,
		Steps:  append([]int32(nil), steps...),
		NSteps: int32(len(steps)),
		CStep:  0,
		LStart: 0,
		GDen:   big.NewInt(1),
		Coef:   make([]int32, npol),
		Num:    make([]*big.Int, npol),
		Den:    make([]*big.Int, npol),
	}
	if len(steps) > 0 {
		s.LEnd = steps[0] - 1
	} else {
		s.LEnd = -1
	}
	for i := range s.Num {
		s.Num[i] = new(big.Int)
		s.Den[i] = new(big.Int)
	}
	return s
}

// StepsByDegree groups leading monomials by total degree and returns the
// per-degree population counts (array_nbdegrees): the i-th entry is the
// number of polynomials whose leading-monomial degree equals the i-th
// smallest distinct degree present, per §D.3's increasing-degree schedule
// (the learned basis is not guaranteed to already be degree-sorted).
func StepsByDegree(degrees []int32) []int32 {
	counts := map[int32]int32{}
	for _, d := range degrees {
		counts[d]++
	}
	distinct := make([]int32, 0, len(counts))
	for d := range counts {
		distinct = append(distinct, d)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })

	steps := make([]int32, len(distinct))
	for i, d := range distinct {
		steps[i] = counts[d]
	}
	return steps
}

// NextStep moves to the next degree step, widening [lstart, lend] to cover
// the next batch of polynomials due (the cstep++, lstart/lend update at the
// end of reconstruct_round's step 4, §4.4).
func (s *State) NextStep() bool {
	if s.CStep+1 >= s.NSteps {
		return false
	}
	s.CStep++
	s.LStart = s.LEnd + 1
	s.LEnd += s.Steps[s.CStep]
	return true
}

// AdvanceCadence implements advance_cadence(rr_time, modular_time) from
// §4.3: if the time spent on the most recent reconstruction attempt
// (rrTime) exceeds rr modular rounds' worth of modular-solve time, rr is
// wasting more time than it saves, so double it. Reports whether it
// doubled, so callers can feed stats.Recorder.CadenceDoubled.
func (s *State) AdvanceCadence(rrTime, modularTime time.Duration) bool {
	if rrTime > time.Duration(s.RR)*modularTime {
		s.RR *= 2
		return true
	}
	return false
}

// ChooseWitness mirrors choose_coef_to_lift: for each polynomial in the
// current [lstart, lend] range, record the smallest slot index (slot 0 is
// the lowest staircase monomial) holding a nonzero coefficient under the
// first accepted prime — the witness slot used to drive reconstruction before the full
// polynomial is lifted.
//
// cfP0 is, per polynomial in [lstart, lend] (in that order), the slice of
// slot values at prime-column 0.
func (s *State) ChooseWitness(lstart int32, cfP0 [][]uint32) {
	for i, col := range cfP0 {
		k := lstart + int32(i)
		for d, v := range col {
			if v != 0 {
				s.Coef[k] = int32(d)
				break
			}
		}
	}
}
