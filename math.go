// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package paillier

import "math/big"

var one = big.NewInt(1)

// gcd returns the greatest common divisor of a and b.
func gcd(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, a, b)
}

// lcm returns the least common multiple of a and b.
func lcm(a, b *big.Int) *big.Int {
	g := gcd(a, b)
	out := new(big.Int).Mul(a, b)
	return out.Div(out, g)
}

// extendedGCD returns (g, x, y) such that a*x + b*y = g where g = gcd(a, b).
func extendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	// Iterative form: maintains Bezout coefficients for the current remainder
	// pair so the recursion depth stays constant for multi-thousand-bit inputs.
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.Div(oldR, r)

		tmp.Mul(q, r)
		oldR.Sub(oldR, tmp)
		oldR, r = r, oldR

		tmp.Mul(q, s)
		oldS.Sub(oldS, tmp)
		oldS, s = s, oldS

		tmp.Mul(q, t)
		oldT.Sub(oldT, tmp)
		oldT, t = t, oldT
	}

	return oldR, oldS, oldT
}

// modInverse returns x with a*x = 1 (mod m). It returns ErrNoInverse when
// gcd(a, m) != 1; with correctly generated keys that indicates a key
// generation defect and is fatal.
func modInverse(a, m *big.Int) (*big.Int, error) {
	g, x, _ := extendedGCD(new(big.Int).Mod(a, m), m)
	if g.Cmp(one) != 0 {
		return nil, ErrNoInverse
	}
	return x.Mod(x, m), nil
}

// paillierL computes L(x) = (x - 1) / n. Every call site guarantees
// x = 1 (mod n) by construction, so the division is exact.
func paillierL(x, n *big.Int) *big.Int {
	out := new(big.Int).Sub(x, one)
	return out.Div(out, n)
}
