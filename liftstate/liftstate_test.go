package liftstate

import (
	"testing"
	"time"
)

func TestStepsByDegree(t *testing.T) {
	degrees := []int32{2, 2, 3, 3, 3, 5}
	steps := StepsByDegree(degrees)
	want := []int32{2, 3, 1}
	if len(steps) != len(want) {
		t.Fatalf("steps = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Fatalf("steps[%d] = %d, want %d", i, steps[i], want[i])
		}
	}
}

func TestNewAndNextStep(t *testing.T) {
	s := New(5, []int32{2, 3})
	if s.LStart != 0 || s.LEnd != 1 {
		t.Fatalf("initial range = [%d,%d], want [0,1]", s.LStart, s.LEnd)
	}
	if !s.NextStep() {
		t.Fatalf("expected a second step")
	}
	if s.LStart != 2 || s.LEnd != 4 {
		t.Fatalf("second range = [%d,%d], want [2,4]", s.LStart, s.LEnd)
	}
	if s.NextStep() {
		t.Fatalf("expected no third step")
	}
}

func TestAdvanceCadenceDoublesWhenReconstructionIsSlow(t *testing.T) {
	s := New(2, []int32{2})
	if s.RR != 1 {
		t.Fatalf("initial RR = %d, want 1", s.RR)
	}
	// rrTime (10ms) > RR(1) * modularTime(1ms): reconstruction is costing
	// more than the modular solve it's gating on, so rr should double.
	if !s.AdvanceCadence(10*time.Millisecond, 1*time.Millisecond) {
		t.Fatalf("expected AdvanceCadence to report a doubling")
	}
	if s.RR != 2 {
		t.Fatalf("RR = %d, want 2", s.RR)
	}
}

func TestAdvanceCadenceLeavesRRWhenReconstructionIsCheap(t *testing.T) {
	s := New(2, []int32{2})
	// rrTime (1ms) <= RR(1) * modularTime(10ms): reconstruction is cheap
	// relative to the modular solve, so rr should not change.
	if s.AdvanceCadence(1*time.Millisecond, 10*time.Millisecond) {
		t.Fatalf("did not expect AdvanceCadence to report a doubling")
	}
	if s.RR != 1 {
		t.Fatalf("RR = %d, want 1", s.RR)
	}
}

func TestChooseWitness(t *testing.T) {
	s := New(2, []int32{2})
	cfP0 := [][]uint32{
		{0, 0, 5, 1},
		{3, 0, 0, 0},
	}
	s.ChooseWitness(0, cfP0)
	if s.Coef[0] != 2 {
		t.Fatalf("Coef[0] = %d, want 2", s.Coef[0])
	}
	if s.Coef[1] != 0 {
		t.Fatalf("Coef[1] = %d, want 0", s.Coef[1])
	}
}

func TestChooseWitnessHonorsNonZeroLStart(t *testing.T) {
	s := New(4, []int32{2, 2})
	s.NextStep()
	cfP0 := [][]uint32{
		{0, 7},
		{9, 0},
	}
	s.ChooseWitness(s.LStart, cfP0)
	if s.Coef[2] != 1 {
		t.Fatalf("Coef[2] = %d, want 1", s.Coef[2])
	}
	if s.Coef[3] != 0 {
		t.Fatalf("Coef[3] = %d, want 0", s.Coef[3])
	}
	if s.Coef[0] != 0 || s.Coef[1] != 0 {
		t.Fatalf("Coef[0:2] should be untouched zero values, got %v", s.Coef[:2])
	}
}
