package config

import "testing"

func TestNewDefaults(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if c.NRThreads != 1 || c.ReduceGB != true {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestNewRejectsNonPositiveThreads(t *testing.T) {
	if _, err := New(WithThreads(0)); err == nil {
		t.Fatalf("expected error for NRThreads=0")
	}
}

func TestWithOutFileEnablesPrintGB(t *testing.T) {
	c, err := New(WithOutFile("out.gb"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !c.PrintGB || c.OutFile != "out.gb" {
		t.Fatalf("unexpected config: %+v", c)
	}
}
