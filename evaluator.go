// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package paillier

import (
	"fmt"
	"math/big"
)

// Evaluator combines ciphertexts homomorphically. It does not require the
// private key: all operations are public modular arithmetic on ciphertexts.
//
// Every operation is defined for ciphertexts under the evaluator's key only.
// A ciphertext from a different key pair is not detectable from its value
// alone, so callers that mix key pairs must validate key identity themselves
// (see PublicKey.Fingerprint).
type Evaluator struct {
	pub *PublicKey
}

// NewEvaluator creates an evaluator bound to a public key.
func NewEvaluator(pub *PublicKey) *Evaluator {
	return &Evaluator{pub: pub}
}

// AddEncrypted combines two ciphertexts so the result decrypts to
// (m1 + m2) mod n. The operation is commutative and associative, so fold
// order over many ciphertexts never changes the decrypted sum.
func (eval *Evaluator) AddEncrypted(ct1, ct2 *Ciphertext) (*Ciphertext, error) {
	if err := checkCiphertext(eval.pub, ct1); err != nil {
		return nil, err
	}
	if err := checkCiphertext(eval.pub, ct2); err != nil {
		return nil, err
	}

	c := new(big.Int).Mul(ct1.Value, ct2.Value)
	c.Mod(c, eval.pub.N2)
	return &Ciphertext{Value: c}, nil
}

// AddConstant adds a plaintext constant k, 0 <= k < n, to a ciphertext:
// the result decrypts to (m + k) mod n.
func (eval *Evaluator) AddConstant(ct *Ciphertext, k *big.Int) (*Ciphertext, error) {
	if err := checkCiphertext(eval.pub, ct); err != nil {
		return nil, err
	}
	if k == nil || k.Sign() < 0 || k.Cmp(eval.pub.N) >= 0 {
		return nil, fmt.Errorf("%w: constant %v", ErrInvalidPlaintext, k)
	}

	gk := new(big.Int).Exp(eval.pub.G, k, eval.pub.N2)
	c := gk.Mul(ct.Value, gk)
	c.Mod(c, eval.pub.N2)
	return &Ciphertext{Value: c}, nil
}

// MulConstant multiplies the underlying plaintext by a constant k >= 0:
// the result decrypts to (m * k) mod n.
func (eval *Evaluator) MulConstant(ct *Ciphertext, k *big.Int) (*Ciphertext, error) {
	if err := checkCiphertext(eval.pub, ct); err != nil {
		return nil, err
	}
	if k == nil || k.Sign() < 0 {
		return nil, fmt.Errorf("%w: constant %v", ErrInvalidPlaintext, k)
	}

	c := new(big.Int).Exp(ct.Value, k, eval.pub.N2)
	return &Ciphertext{Value: c}, nil
}
