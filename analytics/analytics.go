// Package analytics implements privacy-preserving behavioral analytics on
// top of the Paillier cryptosystem.
//
// Per-user browsing logs are reduced to small integer feature vectors,
// encrypted independently under a session public key, and aggregated
// homomorphically across a sample of users. Only the population aggregate is
// ever decrypted; no individual record leaves the encrypted domain.
//
// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause
package analytics

import (
	"errors"
	"fmt"

	"github.com/luxfi/paillier"
)

// Common errors.
var (
	// ErrEmptyAggregate is returned when decrypting an aggregate that covers
	// zero users. Surfaced rather than defaulted to zero so a bogus all-zero
	// statistic is never reported silently.
	ErrEmptyAggregate = errors.New("aggregate covers no users")
)

// Analytics encrypts feature vectors and folds them homomorphically. It is
// bound to one public key for its lifetime; a fresh session gets a fresh
// Analytics with a fresh key pair.
type Analytics struct {
	pub  *paillier.PublicKey
	enc  *paillier.Encryptor
	eval *paillier.Evaluator
}

// New creates an analytics engine bound to the session public key.
func New(pub *paillier.PublicKey) *Analytics {
	return &Analytics{
		pub:  pub,
		enc:  paillier.NewEncryptor(pub),
		eval: paillier.NewEvaluator(pub),
	}
}

// EncryptedVector holds one user's feature vector with each of the four
// features encrypted independently. KeyID records the public key
// fingerprint so folds can refuse to mix key pairs.
type EncryptedVector struct {
	KeyID               string
	TotalVisits         *paillier.Ciphertext
	ShortVideoVisits    *paillier.Ciphertext
	EcommerceVisits     *paillier.Ciphertext
	EcommerceAfterVideo *paillier.Ciphertext
}

// EncryptVector encrypts each feature of v independently under the session
// key. There is no cross-feature entanglement: the four ciphertexts are
// drawn with four independent blinding factors.
func (a *Analytics) EncryptVector(v FeatureVector) (*EncryptedVector, error) {
	total, err := a.enc.EncryptUint64(v.TotalVisits)
	if err != nil {
		return nil, fmt.Errorf("encrypt total visits: %w", err)
	}
	video, err := a.enc.EncryptUint64(v.ShortVideoVisits)
	if err != nil {
		return nil, fmt.Errorf("encrypt short video visits: %w", err)
	}
	commerce, err := a.enc.EncryptUint64(v.EcommerceVisits)
	if err != nil {
		return nil, fmt.Errorf("encrypt ecommerce visits: %w", err)
	}
	after, err := a.enc.EncryptUint64(v.EcommerceAfterVideo)
	if err != nil {
		return nil, fmt.Errorf("encrypt ecommerce after video: %w", err)
	}

	return &EncryptedVector{
		KeyID:               a.pub.Fingerprint(),
		TotalVisits:         total,
		ShortVideoVisits:    video,
		EcommerceVisits:     commerce,
		EcommerceAfterVideo: after,
	}, nil
}

// Aggregate is the running homomorphic sum of encrypted feature vectors.
// Users counts how many vectors have been folded in; an aggregate with
// Users == 0 is explicitly empty, not a zero ciphertext, and cannot be
// decrypted.
type Aggregate struct {
	KeyID               string
	Users               int
	TotalVisits         *paillier.Ciphertext
	ShortVideoVisits    *paillier.Ciphertext
	EcommerceVisits     *paillier.Ciphertext
	EcommerceAfterVideo *paillier.Ciphertext
}

// NewAggregate returns an empty accumulator.
func (a *Analytics) NewAggregate() *Aggregate {
	return &Aggregate{KeyID: a.pub.Fingerprint()}
}

// Add folds one encrypted vector into the accumulator. Vectors encrypted
// under a different key pair are rejected with ErrKeyMismatch.
func (a *Analytics) Add(agg *Aggregate, ev *EncryptedVector) error {
	if ev.KeyID != agg.KeyID {
		return fmt.Errorf("%w: aggregate %s, vector %s", paillier.ErrKeyMismatch, agg.KeyID, ev.KeyID)
	}

	if agg.Users == 0 {
		agg.TotalVisits = ev.TotalVisits
		agg.ShortVideoVisits = ev.ShortVideoVisits
		agg.EcommerceVisits = ev.EcommerceVisits
		agg.EcommerceAfterVideo = ev.EcommerceAfterVideo
		agg.Users = 1
		return nil
	}

	var err error
	if agg.TotalVisits, err = a.eval.AddEncrypted(agg.TotalVisits, ev.TotalVisits); err != nil {
		return fmt.Errorf("fold total visits: %w", err)
	}
	if agg.ShortVideoVisits, err = a.eval.AddEncrypted(agg.ShortVideoVisits, ev.ShortVideoVisits); err != nil {
		return fmt.Errorf("fold short video visits: %w", err)
	}
	if agg.EcommerceVisits, err = a.eval.AddEncrypted(agg.EcommerceVisits, ev.EcommerceVisits); err != nil {
		return fmt.Errorf("fold ecommerce visits: %w", err)
	}
	if agg.EcommerceAfterVideo, err = a.eval.AddEncrypted(agg.EcommerceAfterVideo, ev.EcommerceAfterVideo); err != nil {
		return fmt.Errorf("fold ecommerce after video: %w", err)
	}
	agg.Users++
	return nil
}

// Merge folds the src accumulator into dst. Addition in the ciphertext
// group is commutative and associative, so partial accumulators built by
// parallel workers merge into the same result as a sequential fold, as long
// as each partial is merged exactly once.
func (a *Analytics) Merge(dst, src *Aggregate) error {
	if src.Users == 0 {
		return nil
	}
	if src.KeyID != dst.KeyID {
		return fmt.Errorf("%w: aggregate %s, partial %s", paillier.ErrKeyMismatch, dst.KeyID, src.KeyID)
	}
	if dst.Users == 0 {
		*dst = *src
		return nil
	}

	var err error
	if dst.TotalVisits, err = a.eval.AddEncrypted(dst.TotalVisits, src.TotalVisits); err != nil {
		return fmt.Errorf("merge total visits: %w", err)
	}
	if dst.ShortVideoVisits, err = a.eval.AddEncrypted(dst.ShortVideoVisits, src.ShortVideoVisits); err != nil {
		return fmt.Errorf("merge short video visits: %w", err)
	}
	if dst.EcommerceVisits, err = a.eval.AddEncrypted(dst.EcommerceVisits, src.EcommerceVisits); err != nil {
		return fmt.Errorf("merge ecommerce visits: %w", err)
	}
	if dst.EcommerceAfterVideo, err = a.eval.AddEncrypted(dst.EcommerceAfterVideo, src.EcommerceAfterVideo); err != nil {
		return fmt.Errorf("merge ecommerce after video: %w", err)
	}
	dst.Users += src.Users
	return nil
}

// AggregateVectors folds a batch of encrypted vectors sequentially. An
// empty batch yields an explicitly empty aggregate.
func (a *Analytics) AggregateVectors(vectors []*EncryptedVector) (*Aggregate, error) {
	agg := a.NewAggregate()
	for _, ev := range vectors {
		if err := a.Add(agg, ev); err != nil {
			return nil, err
		}
	}
	return agg, nil
}

// AggregateStats holds the decrypted population aggregates and the derived
// percentages. Counts cover all sampled users combined.
type AggregateStats struct {
	TotalVisits         uint64 `json:"total_visits"`
	ShortVideoVisits    uint64 `json:"short_video_visits"`
	EcommerceVisits     uint64 `json:"ecommerce_visits"`
	EcommerceAfterVideo uint64 `json:"ecommerce_after_video"`

	ShortVideoPercentage          float64 `json:"short_video_percentage"`
	EcommerceAfterVideoPercentage float64 `json:"ecommerce_after_video_percentage"`
}

// DecryptAndAnalyze decrypts the four aggregate lanes and derives the
// percentage statistics. Decrypting an empty aggregate is a caller error
// and returns ErrEmptyAggregate. Each percentage guards its denominator:
// a zero denominator yields 0, never a division by zero.
func (a *Analytics) DecryptAndAnalyze(agg *Aggregate, dec *paillier.Decryptor) (*AggregateStats, error) {
	if agg == nil || agg.Users == 0 {
		return nil, ErrEmptyAggregate
	}

	total, err := dec.DecryptUint64(agg.TotalVisits)
	if err != nil {
		return nil, fmt.Errorf("decrypt total visits: %w", err)
	}
	video, err := dec.DecryptUint64(agg.ShortVideoVisits)
	if err != nil {
		return nil, fmt.Errorf("decrypt short video visits: %w", err)
	}
	commerce, err := dec.DecryptUint64(agg.EcommerceVisits)
	if err != nil {
		return nil, fmt.Errorf("decrypt ecommerce visits: %w", err)
	}
	after, err := dec.DecryptUint64(agg.EcommerceAfterVideo)
	if err != nil {
		return nil, fmt.Errorf("decrypt ecommerce after video: %w", err)
	}

	return &AggregateStats{
		TotalVisits:                   total,
		ShortVideoVisits:              video,
		EcommerceVisits:               commerce,
		EcommerceAfterVideo:           after,
		ShortVideoPercentage:          percentage(video, total),
		EcommerceAfterVideoPercentage: percentage(after, video),
	}, nil
}

// percentage returns num/den * 100, or 0 when den is 0.
func percentage(num, den uint64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}
