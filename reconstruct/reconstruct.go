// Package reconstruct implements the ReconstructionKernel of spec.md §4.2:
// pure numerical routines for multi-prime CRT and bounded rational
// reconstruction. The underlying big-integer primitives (multiplication,
// GCD, modular inverse, integer square root) are treated as external
// collaborators per spec.md §1/§6 and are simply math/big calls, the way
// the original relies on GMP/FLINT; cubeRoot fills the one gap math/big
// leaves (no integer cube root), grounded on the same "small numeric
// helper" idiom as the teacher's ntru/egcd.go extGCDCanon.
package reconstruct

import "math/big"

// crtCombine returns (x, m1*m2) with 0 <= x < m1*m2, x ≡ a1 (mod m1),
// x ≡ a2 (mod m2). m1 and m2 must be coprime.
func crtCombine(a1, m1, a2, m2 *big.Int) (*big.Int, *big.Int) {
	u := new(big.Int)
	v := new(big.Int)
	new(big.Int).GCD(u, v, m1, m2) // m1*u + m2*v = 1

	diff := new(big.Int).Sub(a2, a1)
	t := new(big.Int).Mul(u, diff)
	t.Mul(t, m1)
	x := new(big.Int).Add(a1, t)
	mod := new(big.Int).Mul(m1, m2)
	x.Mod(x, mod)
	return x, mod
}

// seedCRTOne combines one polynomial's witness residues against their
// primes using a balanced product-tree (pairwise combination, halving the
// work list each round) rather than one long incremental chain.
func seedCRTOne(values []uint64, primes []uint64) *big.Int {
	if len(values) == 0 {
		return new(big.Int)
	}
	accs := make([]*big.Int, len(values))
	mods := make([]*big.Int, len(values))
	for i := range values {
		accs[i] = new(big.Int).SetUint64(values[i])
		mods[i] = new(big.Int).SetUint64(primes[i])
	}
	for len(accs) > 1 {
		n := len(accs)
		naccs := make([]*big.Int, 0, (n+1)/2)
		nmods := make([]*big.Int, 0, (n+1)/2)
		i := 0
		for ; i+1 < n; i += 2 {
			c, m := crtCombine(accs[i], mods[i], accs[i+1], mods[i+1])
			naccs = append(naccs, c)
			nmods = append(nmods, m)
		}
		if i < n {
			naccs = append(naccs, accs[i])
			nmods = append(nmods, mods[i])
		}
		accs, mods = naccs, nmods
	}
	return accs[0]
}

// SeedCRT is seed_crt: given k primes and, for each polynomial, the
// sequence of its mod-p witness coefficients, compute the unique integer
// in [0, Π primes) congruent to each.
func SeedCRT(perPolyValues [][]uint64, primes []uint64) []*big.Int {
	out := make([]*big.Int, len(perPolyValues))
	for i, vals := range perPolyValues {
		out[i] = seedCRTOne(vals, primes)
	}
	return out
}

// CRTStep is crt_step: update acc := CRT(acc mod modulus, c mod p); return
// the new accumulator and the new modulus (modulus*p).
func CRTStep(acc, modulus *big.Int, c uint64, p uint64) (newAcc, newModulus *big.Int) {
	cm := new(big.Int).SetUint64(c)
	pm := new(big.Int).SetUint64(p)
	return crtCombine(acc, modulus, cm, pm)
}

// centerMod returns n reduced modulo M into (-M/2, M/2].
func centerMod(n, M *big.Int) *big.Int {
	r := new(big.Int).Mod(n, M)
	half := new(big.Int).Rsh(M, 1)
	if r.Cmp(half) > 0 {
		r.Sub(r, M)
	}
	return r
}

// Ratrecon is ratrecon: returns the unique pair (n,d), gcd(n,d)=1,
// |n| <= NBound, 0 < d <= DBound, with n ≡ a*d (mod M), if one exists.
// Implemented via the partial extended-Euclidean algorithm (Wang's
// rational reconstruction).
func Ratrecon(a, M, NBound, DBound *big.Int) (num, den *big.Int, ok bool) {
	r0 := new(big.Int).Set(M)
	r1 := new(big.Int).Mod(a, M)
	t0 := big.NewInt(0)
	t1 := big.NewInt(1)

	for r1.CmpAbs(NBound) > 0 {
		if r1.Sign() == 0 {
			return nil, nil, false
		}
		q := new(big.Int).Div(r0, r1)
		r0, r1 = r1, new(big.Int).Sub(r0, new(big.Int).Mul(q, r1))
		t0, t1 = t1, new(big.Int).Sub(t0, new(big.Int).Mul(q, t1))
	}

	if t1.Sign() == 0 {
		return nil, nil, false
	}
	d := new(big.Int).Abs(t1)
	if d.Cmp(DBound) > 0 {
		return nil, nil, false
	}
	n := new(big.Int).Set(r1)
	if t1.Sign() < 0 {
		n.Neg(n)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(n), d)
	if g.Cmp(big.NewInt(1)) != 0 {
		return nil, nil, false
	}
	return n, d, true
}

// RatreconWithDen is ratrecon_with_den: first tries n := a*denGuess mod M
// centered into (-M/2, M/2]; if |n| <= NBound it succeeds immediately with
// den = 1. Otherwise falls back to Ratrecon on a*denGuess mod M. In both
// cases the returned pair reconstructs a*denGuess, so the caller is
// expected to multiply the returned den by denGuess, as spec.md §4.4 step
// 3/4 does.
func RatreconWithDen(a, M, denGuess, NBound, DBound *big.Int) (num, den *big.Int, ok bool) {
	n := new(big.Int).Mul(a, denGuess)
	n = centerMod(n, M)
	if new(big.Int).Abs(n).Cmp(NBound) <= 0 {
		return n, big.NewInt(1), true
	}
	return Ratrecon(n, M, NBound, DBound)
}

// cubeRoot returns floor(n^(1/3)) for n >= 0 via Newton's method, seeded
// from the bit length (mirrors GMP's mpz_root(_, _, 3), which the source
// calls directly and which math/big has no equivalent for).
func cubeRoot(n *big.Int) *big.Int {
	if n.Sign() <= 0 {
		return new(big.Int)
	}
	bits := n.BitLen()
	x := new(big.Int).Lsh(big.NewInt(1), uint((bits+2)/3+1))
	three := big.NewInt(3)
	two := big.NewInt(2)
	for {
		// x_{k+1} = (2*x_k + n/x_k^2) / 3
		x2 := new(big.Int).Mul(x, x)
		q := new(big.Int).Div(n, x2)
		next := new(big.Int).Mul(x, two)
		next.Add(next, q)
		next.Div(next, three)
		if next.Cmp(x) >= 0 {
			break
		}
		x = next
	}
	for {
		x3 := new(big.Int).Mul(x, x)
		x3.Mul(x3, x)
		if x3.Cmp(n) <= 0 {
			break
		}
		x.Sub(x, big.NewInt(1))
	}
	return x
}

// BoundPolicy computes the (N, D) bounds for rational reconstruction given
// the current modulus and the current degree-step index (cstep). It is a
// pluggable function value per spec.md §9's open question: "an implementor
// may replace it with any bound policy that preserves uniqueness of
// reconstruction given sufficient primes."
type BoundPolicy func(modulus *big.Int, cstep int) (N, D *big.Int)

// DefaultBoundPolicy implements spec.md §4.2's policy exactly: balanced
// bounds (N = D = floor(sqrt(M/2))) for the first group, cube-root-biased
// bounds (D = M^(1/3), N = (M/2)/D) for subsequent groups.
func DefaultBoundPolicy(modulus *big.Int, cstep int) (N, D *big.Int) {
	half := new(big.Int).Rsh(modulus, 1)
	if cstep == 0 {
		n := new(big.Int).Sqrt(half)
		return n, new(big.Int).Set(n)
	}
	d := cubeRoot(half)
	if d.Sign() == 0 {
		d = big.NewInt(1)
	}
	n := new(big.Int).Div(half, d)
	return n, d
}
