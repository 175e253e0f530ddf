// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package paillier

import "errors"

// Common errors.
var (
	// ErrInvalidPlaintext is returned when a plaintext is negative or not
	// strictly less than the modulus n. This is a caller bug, not a protocol
	// failure; the operation is rejected without retry.
	ErrInvalidPlaintext = errors.New("plaintext out of range [0, n)")

	// ErrInvalidCiphertext is returned when a ciphertext is nil or outside
	// the ciphertext space [0, n^2).
	ErrInvalidCiphertext = errors.New("ciphertext out of range [0, n^2)")

	// ErrKeyGeneration is returned when the prime search cannot produce two
	// distinct primes within the attempt bound. Fatal; never retried silently.
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrNoInverse is returned when a modular inverse does not exist. With
	// correctly generated keys this cannot happen; seeing it means the key
	// material is corrupted or mismatched.
	ErrNoInverse = errors.New("modular inverse does not exist")

	// ErrKeyMismatch is returned when ciphertexts produced under different
	// key pairs are combined. The ciphertext value alone cannot always
	// reveal this, so callers must validate key identity before combining.
	ErrKeyMismatch = errors.New("ciphertexts encrypted under different keys")
)
