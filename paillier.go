// Package paillier implements the Paillier public-key cryptosystem for
// additively homomorphic computation on encrypted integers.
//
// Paillier ciphertexts support a group operation that maps to plaintext
// addition modulo n, which makes the scheme suitable for privacy-preserving
// aggregation: many parties encrypt small counters under a shared public
// key, an untrusted aggregator multiplies the ciphertexts together, and only
// the final aggregate is ever decrypted.
//
// The implementation is built on arbitrary-precision integer arithmetic:
//   - key generation from two random probable primes
//   - randomized encryption with a CSPRNG blinding factor
//   - homomorphic addition, constant addition and constant multiplication
//
// This is not a hardened production cryptosystem. It targets correctness and
// a clean aggregation contract; there is no padding scheme, no side-channel
// hardening and no key rotation.
//
// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause
package paillier

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
)

// Standard modulus sizes. The bit length is the size of n = p*q; each prime
// is half that. 2048 is the smallest size considered secure against
// factoring today; the smaller sizes exist for tests and benchmarks.
const (
	// Bits1024 is fast but offers only legacy (~80-bit) security.
	Bits1024 = 1024
	// Bits2048 provides ~112-bit security.
	Bits2048 = 2048
	// Bits3072 provides ~128-bit security.
	Bits3072 = 3072

	// DefaultKeyBits is the modulus size used when no size is specified.
	DefaultKeyBits = Bits2048

	// minKeyBits is the smallest accepted modulus size. Anything below is a
	// configuration mistake even for tests.
	minKeyBits = 16
)

// maxPrimeAttempts bounds the search for two distinct primes. With primes of
// any realistic size a collision is essentially impossible, so exhausting
// the bound indicates a broken randomness source.
const maxPrimeAttempts = 16

// PublicKey is the encryption key. It is shared by the encrypting parties
// and the aggregator and is immutable after generation, so concurrent
// readers need no synchronization.
type PublicKey struct {
	// N is the plaintext modulus, a product of two large primes.
	N *big.Int
	// N2 is N^2, the ciphertext modulus, cached to avoid recomputation.
	N2 *big.Int
	// G is the generator, fixed to N+1. This choice avoids a generator
	// search and makes g^m mod n^2 cheap.
	G *big.Int
}

// Fingerprint returns a short stable identifier for the key, derived from N.
// Ciphertext values alone cannot be attributed to a key pair, so callers use
// the fingerprint to refuse combining ciphertexts from different keys.
func (pk *PublicKey) Fingerprint() string {
	sum := sha256.Sum256(pk.N.Bytes())
	return hex.EncodeToString(sum[:8])
}

// PrivateKey is the decryption key, held only by the party permitted to
// decrypt aggregates. Decryption is defined over the pair (PrivateKey,
// PublicKey): n is required alongside lambda and mu.
type PrivateKey struct {
	// Lambda is the Carmichael function lcm(p-1, q-1).
	Lambda *big.Int
	// Mu is the precomputed decryption coefficient
	// (L(g^lambda mod n^2))^-1 mod n.
	Mu *big.Int
}

// Ciphertext is an encrypted integer in [0, n^2). It is opaque to everyone
// except the private-key holder and combinable via the Evaluator.
type Ciphertext struct {
	Value *big.Int
}

// KeyGenerator produces Paillier key pairs. The randomness source is
// injectable for deterministic tests; production code uses crypto/rand.
//
// Generators carry no state between calls, so two independent calls always
// produce independent key pairs. There is deliberately no package-level
// shared key: each analytics session owns its key pair exclusively.
type KeyGenerator struct {
	rand io.Reader
}

// NewKeyGenerator creates a key generator backed by crypto/rand.
func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{rand: rand.Reader}
}

// NewKeyGeneratorFromReader creates a key generator reading randomness from
// r. Passing a deterministic reader yields a deterministic key pair; only
// tests should do that.
func NewKeyGeneratorFromReader(r io.Reader) *KeyGenerator {
	return &KeyGenerator{rand: r}
}

// GenerateKeys produces a key pair whose modulus n has the requested bit
// length. It returns ErrKeyGeneration when the prime search cannot produce
// two distinct primes within the attempt bound.
func (kg *KeyGenerator) GenerateKeys(bits int) (*PublicKey, *PrivateKey, error) {
	if bits < minKeyBits {
		return nil, nil, fmt.Errorf("%w: modulus size %d below minimum %d", ErrKeyGeneration, bits, minKeyBits)
	}

	p, q, err := kg.distinctPrimes(bits / 2)
	if err != nil {
		return nil, nil, err
	}

	n := new(big.Int).Mul(p, q)
	n2 := new(big.Int).Mul(n, n)
	g := new(big.Int).Add(n, one)

	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)
	lambda := lcm(pMinus1, qMinus1)

	// mu = (L(g^lambda mod n^2))^-1 mod n
	u := new(big.Int).Exp(g, lambda, n2)
	mu, err := modInverse(paillierL(u, n), n)
	if err != nil {
		// Cannot happen with distinct primes; treat as a generation defect.
		return nil, nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	pub := &PublicKey{N: n, N2: n2, G: g}
	priv := &PrivateKey{Lambda: lambda, Mu: mu}
	return pub, priv, nil
}

// distinctPrimes draws two distinct probable primes of the given bit length.
func (kg *KeyGenerator) distinctPrimes(bits int) (p, q *big.Int, err error) {
	p, err = rand.Prime(kg.rand, bits)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: prime search: %w", ErrKeyGeneration, err)
	}

	for attempt := 0; attempt < maxPrimeAttempts; attempt++ {
		q, err = rand.Prime(kg.rand, bits)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: prime search: %w", ErrKeyGeneration, err)
		}
		if p.Cmp(q) != 0 {
			return p, q, nil
		}
	}

	return nil, nil, fmt.Errorf("%w: no distinct primes after %d attempts", ErrKeyGeneration, maxPrimeAttempts)
}

// GenerateKeys produces a key pair using crypto/rand. It is shorthand for
// NewKeyGenerator().GenerateKeys(bits).
func GenerateKeys(bits int) (*PublicKey, *PrivateKey, error) {
	return NewKeyGenerator().GenerateKeys(bits)
}
