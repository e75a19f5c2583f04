// Package primes implements the lucky-prime stream used to drive the
// multi-modular orchestrator: a deterministic pseudo-random generator of
// candidate word-size primes, seeded with a SHAKE extendable-output
// function the way the teacher's package seeds its own rejection-sampling
// XOFs, plus the "lucky prime" predicate from spec.md §4.1 (a prime is
// unlucky if it divides the leading coefficient of any input polynomial,
// or if the solver reports degeneration at that prime).
package primes

import (
	"math/big"

	"golang.org/x/crypto/sha3"
)

// Stream produces a deterministic sequence of candidate odd integers of a
// fixed bit size, read from a SHAKE128 extendable-output function.
type Stream struct {
	xof  sha3.ShakeHash
	bits int
}

// NewStream seeds a Stream from seed, generating candidates with the given
// bit size (spec.md §4.4 calls for primes of size >= 2^30).
func NewStream(seed []byte, bits int) *Stream {
	xof := sha3.NewShake128()
	xof.Write(seed)
	return &Stream{xof: xof, bits: bits}
}

// next draws one raw bits-sized odd candidate from the XOF.
func (s *Stream) next() uint64 {
	nbytes := (s.bits + 7) / 8
	buf := make([]byte, nbytes)
	s.xof.Read(buf)
	var v uint64
	for _, b := range buf {
		v = v<<8 | uint64(b)
	}
	mask := uint64(1)<<uint(s.bits) - 1
	v &= mask
	v |= uint64(1) << uint(s.bits-1) // force top bit set
	v |= 1                           // force odd
	return v
}

// NextPrime draws candidates from the stream until one passes a
// Miller-Rabin primality test, and returns it.
func (s *Stream) NextPrime() uint64 {
	for {
		c := s.next()
		if new(big.Int).SetUint64(c).ProbablyPrime(20) {
			return c
		}
	}
}

// IsLucky reports whether prime p is usable for the given input system: it
// must not divide the denominator-clearing leading coefficient of any
// input polynomial, and it must not appear in the caller-supplied set of
// primes already known to be bad (degenerate staircase, wrong basis
// cardinality, etc. — detected downstream by the modular solver and fed
// back here).
func IsLucky(p uint64, leadingCoeffs []*big.Int, bad map[uint64]bool) bool {
	if bad[p] {
		return false
	}
	pz := new(big.Int).SetUint64(p)
	for _, c := range leadingCoeffs {
		if c.Sign() == 0 {
			continue
		}
		if new(big.Int).Mod(c, pz).Sign() == 0 {
			return false
		}
	}
	return true
}
