package gbcore

import (
	"testing"

	"msolve-lift/config"
	"msolve-lift/modgb"
	"msolve-lift/monomial"
)

func TestRunSuccessUnivariate(t *testing.T) {
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
	rep := Run(cfg, gens, []byte("gbcore-test-seed"))
	if rep.Code != CodeSuccess {
		t.Fatalf("Code = %d, want %d", rep.Code, CodeSuccess)
	}
	if rep.Table == nil || len(rep.Table.Polys) != 1 {
		t.Fatalf("expected a populated table")
	}
}

func TestRunRejectsEmptyInput(t *testing.T) {
	cfg, _ := config.New()
	rep := Run(cfg, nil, []byte("seed"))
	if rep.Code != CodeMetaDataCorrupt {
		t.Fatalf("Code = %d, want %d", rep.Code, CodeMetaDataCorrupt)
	}
}

func TestRunRejectsMismatchedVariableCounts(t *testing.T) {
	gens := []*modgb.IntPoly{
		{NV: 1, Terms: []modgb.IntTerm{{monomial.Exp{1}, 1}}},
		{NV: 2, Terms: []modgb.IntTerm{{monomial.Exp{1, 0}, 1}}},
	}
	cfg, _ := config.New()
	rep := Run(cfg, gens, []byte("seed"))
	if rep.Code != CodeMetaDataCorrupt {
		t.Fatalf("Code = %d, want %d", rep.Code, CodeMetaDataCorrupt)
	}
}

func TestRunWithSignaturesUsesSBAProvider(t *testing.T) {
	// <x-1, y-1>: staircase {1}, converges immediately with integer
	// coefficients under either provider.
	gens := []*modgb.IntPoly{
		{NV: 2, Terms: []modgb.IntTerm{{monomial.Exp{1, 0}, 1}, {monomial.Exp{0, 0}, -1}}},
		{NV: 2, Terms: []modgb.IntTerm{{monomial.Exp{0, 1}, 1}, {monomial.Exp{0, 0}, -1}}},
	}
	cfg, err := config.New(config.WithSignatures(true), config.WithThreads(2))
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	rep := Run(cfg, gens, []byte("gbcore-sba-seed"))
	if rep.Code != CodeSuccess {
		t.Fatalf("Code = %d, want %d", rep.Code, CodeSuccess)
	}
	if rep.Table == nil || len(rep.Table.Polys) != 2 {
		t.Fatalf("expected two polynomials in the lifted basis")
	}
}
