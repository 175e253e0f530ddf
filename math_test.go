// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package paillier

import (
	"errors"
	"math/big"
	"testing"
)

func TestGCDLCM(t *testing.T) {
	testCases := []struct {
		a, b, gcd, lcm int64
	}{
		{12, 18, 6, 36},
		{7, 13, 1, 91},
		{10, 10, 10, 10},
		{1, 999, 1, 999},
		{48, 180, 12, 720},
	}

	for _, tc := range testCases {
		a, b := big.NewInt(tc.a), big.NewInt(tc.b)
		if got := gcd(a, b); got.Int64() != tc.gcd {
			t.Errorf("gcd(%d, %d) = %v, want %d", tc.a, tc.b, got, tc.gcd)
		}
		if got := lcm(a, b); got.Int64() != tc.lcm {
			t.Errorf("lcm(%d, %d) = %v, want %d", tc.a, tc.b, got, tc.lcm)
		}
	}
}

func TestExtendedGCD(t *testing.T) {
	testCases := []struct {
		a, b int64
	}{
		{240, 46},
		{17, 5},
		{1, 1},
		{35, 64},
		{101, 103},
	}

	for _, tc := range testCases {
		a, b := big.NewInt(tc.a), big.NewInt(tc.b)
		g, x, y := extendedGCD(a, b)

		// Bezout identity: a*x + b*y = g
		lhs := new(big.Int).Mul(a, x)
		lhs.Add(lhs, new(big.Int).Mul(b, y))
		if lhs.Cmp(g) != 0 {
			t.Errorf("extendedGCD(%d, %d): %v*%v + %v*%v = %v, want %v",
				tc.a, tc.b, a, x, b, y, lhs, g)
		}
		if g.Cmp(gcd(a, b)) != 0 {
			t.Errorf("extendedGCD(%d, %d): g = %v, want %v", tc.a, tc.b, g, gcd(a, b))
		}
	}
}

func TestModInverse(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		testCases := []struct {
			a, m int64
		}{
			{3, 7},
			{2, 9},
			{17, 97},
			{100, 101},
		}

		for _, tc := range testCases {
			a, m := big.NewInt(tc.a), big.NewInt(tc.m)
			inv, err := modInverse(a, m)
			if err != nil {
				t.Fatalf("modInverse(%d, %d): %v", tc.a, tc.m, err)
			}

			prod := new(big.Int).Mul(a, inv)
			prod.Mod(prod, m)
			if prod.Cmp(one) != 0 {
				t.Errorf("modInverse(%d, %d) = %v, but %d*%v mod %d = %v",
					tc.a, tc.m, inv, tc.a, inv, tc.m, prod)
			}
			if inv.Sign() < 0 || inv.Cmp(m) >= 0 {
				t.Errorf("modInverse(%d, %d) = %v not reduced mod %d", tc.a, tc.m, inv, tc.m)
			}
		}
	})

	t.Run("NoInverse", func(t *testing.T) {
		_, err := modInverse(big.NewInt(6), big.NewInt(9))
		if !errors.Is(err, ErrNoInverse) {
			t.Errorf("modInverse(6, 9) err = %v, want ErrNoInverse", err)
		}
	})
}

func TestPaillierL(t *testing.T) {
	// L(x) = (x-1)/n with x = 1 (mod n) guaranteed by callers.
	testCases := []struct {
		x, n, want int64
	}{
		{1, 5, 0},
		{6, 5, 1},
		{11, 5, 2},
		{101, 10, 10},
	}

	for _, tc := range testCases {
		got := paillierL(big.NewInt(tc.x), big.NewInt(tc.n))
		if got.Int64() != tc.want {
			t.Errorf("paillierL(%d, %d) = %v, want %d", tc.x, tc.n, got, tc.want)
		}
	}
}
