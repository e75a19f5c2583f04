package orchestrator

import (
	"testing"

	"msolve-lift/config"
	"msolve-lift/modgb"
	"msolve-lift/monomial"
)

func TestRunUnivariateRecoversIntegerRoot(t *testing.T) {
	// <x^2 - 2>: the unique rational Gröbner basis coefficient is the
	// integer -2 (numerator -2, denominator 1).
	gens := []*modgb.IntPoly{{
		NV: 1,
		Terms: []modgb.IntTerm{
			{monomial.Exp{2}, 1},
			{monomial.Exp{0}, -2},
		},
	}}

	cfg, err := config.New(config.WithThreads(2))
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	orch := New(cfg, modgb.ReferenceProvider{})
	orch.MaxPrimes = 64

	res, err := orch.Run(gens, []byte("orchestrator-test-seed"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Table.Polys) != 1 {
		t.Fatalf("expected one polynomial, got %d", len(res.Table.Polys))
	}
	poly := res.Table.Polys[0]
	// Staircase for <x^2-2> is {1, x}, so ComputeLength(x^2, {1,x}) = 2:
	// slot 0 holds the constant coefficient, slot 1 the (always-zero) x
	// coefficient.
	if poly.Len != 2 {
		t.Fatalf("expected two non-leading slots, got %d", poly.Len)
	}
	num, den := poly.CfQ[0][0], poly.CfQ[0][1]
	if num == nil || den == nil {
		t.Fatalf("slot was never reconstructed")
	}
	if num.Int64() != -2 || den.Int64() != 1 {
		t.Fatalf("got %s/%s, want -2/1", num, den)
	}
}
