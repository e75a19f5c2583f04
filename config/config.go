// Package config defines the tunable knobs threaded through the lifting
// engine (the Go analogue of msolve's stat_t), validated at construction
// the way ntru.NewParams validates its inputs.
package config

import "fmt"

// LAOption selects the linear-algebra strategy used by the modular
// Gröbner solver.
type LAOption int

const (
	// LADefault lets the solver pick its own strategy.
	LADefault LAOption = iota
	// LASparse forces sparse elimination.
	LASparse
	// LADense forces dense elimination (laopt > 40 in the source's
	// convention selects a simpler, non-trace F4 path).
	LADense
)

// Config collects the options that control one lifting run.
type Config struct {
	// HTSize is the initial hash-table size hint passed to the modular
	// solver.
	HTSize int
	// NRThreads bounds how many primes are solved concurrently per batch.
	NRThreads int
	// MaxNRPairs caps the S-pair queue size considered per degree.
	MaxNRPairs int
	// ElimBlockLen is the block size used by block elimination, when
	// applicable.
	ElimBlockLen int
	// ResetHT, when true, rebuilds the hash table between degree steps.
	ResetHT bool
	LAOption LAOption
	// UseSignatures selects the signature-based (SBA) engine over a plain
	// Buchberger/F4 pass.
	UseSignatures bool
	// ReduceGB requests the fully reduced (reduced row echelon) output
	// basis.
	ReduceGB bool
	// InfoLevel controls the verbosity of progress reporting (0 = silent).
	InfoLevel int
	// PrintGB requests the final rational basis be printed to OutFile.
	PrintGB bool
	// OutFile, when non-empty, is the path PrintGB writes to; empty means
	// standard output.
	OutFile string
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithThreads overrides NRThreads.
func WithThreads(n int) Option { return func(c *Config) { c.NRThreads = n } }

// WithSignatures toggles the signature-based engine.
func WithSignatures(on bool) Option { return func(c *Config) { c.UseSignatures = on } }

// WithInfoLevel overrides InfoLevel.
func WithInfoLevel(lvl int) Option { return func(c *Config) { c.InfoLevel = lvl } }

// WithOutFile overrides OutFile and enables PrintGB.
func WithOutFile(path string) Option {
	return func(c *Config) {
		c.OutFile = path
		c.PrintGB = true
	}
}

// New builds a validated Config with sane defaults, applying opts in order.
func New(opts ...Option) (Config, error) {
	c := Config{
		HTSize:        17,
		NRThreads:     1,
		MaxNRPairs:    0,
		ElimBlockLen:  256,
		ResetHT:       false,
		LAOption:      LADefault,
		UseSignatures: false,
		ReduceGB:      true,
		InfoLevel:     0,
	}
	for _, o := range opts {
		o(&c)
	}
	if c.NRThreads <= 0 {
		return Config{}, fmt.Errorf("config: NRThreads must be positive, got %d", c.NRThreads)
	}
	if c.HTSize <= 0 {
		return Config{}, fmt.Errorf("config: HTSize must be positive, got %d", c.HTSize)
	}
	if c.ElimBlockLen <= 0 {
		return Config{}, fmt.Errorf("config: ElimBlockLen must be positive, got %d", c.ElimBlockLen)
	}
	return c, nil
}
