// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package paillier

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Encryptor encrypts non-negative integers under a public key.
//
// Encryption is randomized: every call draws a fresh blinding factor, so two
// encryptions of the same plaintext produce different ciphertexts that both
// decrypt to the same value. The blinding factor must come from a
// cryptographically secure source; the default is crypto/rand.
type Encryptor struct {
	pub  *PublicKey
	rand io.Reader
}

// NewEncryptor creates an encryptor for the given public key backed by
// crypto/rand.
func NewEncryptor(pub *PublicKey) *Encryptor {
	return &Encryptor{pub: pub, rand: rand.Reader}
}

// NewEncryptorFromReader creates an encryptor reading blinding randomness
// from r. Only tests should substitute a deterministic reader.
func NewEncryptorFromReader(pub *PublicKey, r io.Reader) *Encryptor {
	return &Encryptor{pub: pub, rand: r}
}

// PublicKey returns the key the encryptor is bound to.
func (enc *Encryptor) PublicKey() *PublicKey {
	return enc.pub
}

// Encrypt encrypts m, which must satisfy 0 <= m < n, as
// c = g^m * r^n mod n^2. Values outside the plaintext range are a usage
// error and return ErrInvalidPlaintext.
func (enc *Encryptor) Encrypt(m *big.Int) (*Ciphertext, error) {
	if m == nil || m.Sign() < 0 || m.Cmp(enc.pub.N) >= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlaintext, m)
	}

	r, err := enc.blindingFactor()
	if err != nil {
		return nil, err
	}

	// c = g^m * r^n mod n^2
	gm := new(big.Int).Exp(enc.pub.G, m, enc.pub.N2)
	rn := new(big.Int).Exp(r, enc.pub.N, enc.pub.N2)
	c := gm.Mul(gm, rn)
	c.Mod(c, enc.pub.N2)

	return &Ciphertext{Value: c}, nil
}

// EncryptUint64 encrypts a machine-word counter. Counters always fit the
// plaintext space for any realistic modulus size.
func (enc *Encryptor) EncryptUint64(v uint64) (*Ciphertext, error) {
	return enc.Encrypt(new(big.Int).SetUint64(v))
}

// blindingFactor draws r uniformly from [1, n-1] with gcd(r, n) = 1 by
// rejection sampling. A rejection only happens when r shares a factor with
// n, which for a well-formed modulus has probability ~1/p + 1/q.
func (enc *Encryptor) blindingFactor() (*big.Int, error) {
	max := new(big.Int).Sub(enc.pub.N, one)
	for {
		r, err := rand.Int(enc.rand, max)
		if err != nil {
			return nil, fmt.Errorf("draw blinding factor: %w", err)
		}
		r.Add(r, one) // shift [0, n-2] to [1, n-1]
		if gcd(r, enc.pub.N).Cmp(one) == 0 {
			return r, nil
		}
	}
}
