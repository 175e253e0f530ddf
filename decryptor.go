// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package paillier

import (
	"fmt"
	"math/big"
)

// Decryptor decrypts ciphertexts using a key pair. Only the party holding
// the private key can construct one; in the aggregation protocol that party
// decrypts aggregates only, never individual records.
type Decryptor struct {
	pub  *PublicKey
	priv *PrivateKey
}

// NewDecryptor creates a decryptor from a key pair.
func NewDecryptor(pub *PublicKey, priv *PrivateKey) *Decryptor {
	return &Decryptor{pub: pub, priv: priv}
}

// Decrypt recovers the plaintext as m = L(c^lambda mod n^2) * mu mod n.
// It is the exact inverse of Encrypt for every valid plaintext.
func (dec *Decryptor) Decrypt(ct *Ciphertext) (*big.Int, error) {
	if err := checkCiphertext(dec.pub, ct); err != nil {
		return nil, err
	}

	x := new(big.Int).Exp(ct.Value, dec.priv.Lambda, dec.pub.N2)
	m := paillierL(x, dec.pub.N)
	m.Mul(m, dec.priv.Mu)
	m.Mod(m, dec.pub.N)
	return m, nil
}

// DecryptUint64 decrypts a ciphertext known to hold a machine-word counter.
func (dec *Decryptor) DecryptUint64(ct *Ciphertext) (uint64, error) {
	m, err := dec.Decrypt(ct)
	if err != nil {
		return 0, err
	}
	if !m.IsUint64() {
		return 0, fmt.Errorf("decrypted value %v overflows uint64", m)
	}
	return m.Uint64(), nil
}

// checkCiphertext validates that ct lies in the ciphertext space [0, n^2).
func checkCiphertext(pub *PublicKey, ct *Ciphertext) error {
	if ct == nil || ct.Value == nil || ct.Value.Sign() < 0 || ct.Value.Cmp(pub.N2) >= 0 {
		return ErrInvalidCiphertext
	}
	return nil
}
