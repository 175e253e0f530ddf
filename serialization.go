// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package paillier

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
)

// Binary encoding: each big integer is written as a uint32 big-endian byte
// length followed by its magnitude bytes. All values in the scheme are
// non-negative, so no sign byte is needed.

// ========== Public Key Serialization ==========

// MarshalBinary serializes the public key. Only N is written; G and N^2 are
// derived on load.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeBigInt(&buf, pk.N); err != nil {
		return nil, fmt.Errorf("serialize N: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary deserializes the public key and restores the derived
// fields N2 and G.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	buf := bytes.NewReader(data)
	n, err := readBigInt(buf)
	if err != nil {
		return fmt.Errorf("deserialize N: %w", err)
	}
	pk.N = n
	pk.N2 = new(big.Int).Mul(n, n)
	pk.G = new(big.Int).Add(n, one)
	return nil
}

// ========== Private Key Serialization ==========

// MarshalBinary serializes the private key.
func (priv *PrivateKey) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeBigInt(&buf, priv.Lambda); err != nil {
		return nil, fmt.Errorf("serialize lambda: %w", err)
	}
	if err := writeBigInt(&buf, priv.Mu); err != nil {
		return nil, fmt.Errorf("serialize mu: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary deserializes the private key.
func (priv *PrivateKey) UnmarshalBinary(data []byte) error {
	buf := bytes.NewReader(data)

	lambda, err := readBigInt(buf)
	if err != nil {
		return fmt.Errorf("deserialize lambda: %w", err)
	}
	mu, err := readBigInt(buf)
	if err != nil {
		return fmt.Errorf("deserialize mu: %w", err)
	}

	priv.Lambda = lambda
	priv.Mu = mu
	return nil
}

// ========== Ciphertext Serialization ==========

// MarshalBinary serializes the ciphertext value.
func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeBigInt(&buf, ct.Value); err != nil {
		return nil, fmt.Errorf("serialize ciphertext: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary deserializes the ciphertext value.
func (ct *Ciphertext) UnmarshalBinary(data []byte) error {
	buf := bytes.NewReader(data)
	v, err := readBigInt(buf)
	if err != nil {
		return fmt.Errorf("deserialize ciphertext: %w", err)
	}
	ct.Value = v
	return nil
}

func writeBigInt(w io.Writer, x *big.Int) error {
	if x == nil || x.Sign() < 0 {
		return fmt.Errorf("cannot serialize nil or negative value")
	}
	b := x.Bytes()
	if err := binary.Write(w, binary.BigEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBigInt(r io.Reader) (*big.Int, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, err
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}
