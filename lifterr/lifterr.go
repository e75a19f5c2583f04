// Package lifterr defines the sentinel errors returned across package
// boundaries by the lifting engine, translated at the top-level entry
// point (gbcore) into the integer return-code contract of spec.md §6.
package lifterr

import "errors"

var (
	// ErrInvalidInput covers malformed configuration or input polynomials
	// (return code -3).
	ErrInvalidInput = errors.New("lifterr: invalid input")

	// ErrPositiveCharacteristic reports that the input system only makes
	// sense over a positive-characteristic field (return code -2).
	ErrPositiveCharacteristic = errors.New("lifterr: ideal has solutions only in positive characteristic")

	// ErrNotGenericEnough reports that the chosen term order or the primes
	// tried were not generic enough to produce a stable staircase (return
	// code 1).
	ErrNotGenericEnough = errors.New("lifterr: not enough generic primes, staircase did not stabilize")

	// ErrResourceExhausted reports a hard cap being hit (too many primes,
	// too many degree steps) without rational reconstruction converging
	// (return code -3).
	ErrResourceExhausted = errors.New("lifterr: resource bound exceeded before lift converged")

	// ErrVerificationFailed reports that a CRT'd lift candidate failed the
	// witness-coefficient verification pass against a further prime
	// (return code -4).
	ErrVerificationFailed = errors.New("lifterr: rational lift failed verification")
)
