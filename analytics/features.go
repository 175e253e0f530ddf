// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package analytics

import (
	"strings"
	"time"
)

// Event is a single browsing event in a per-user log. Only Site affects
// feature extraction; the remaining fields travel with the collaborator
// event logs and are preserved for them.
type Event struct {
	Site     string    `json:"site"`
	Time     time.Time `json:"time"`
	Duration int       `json:"duration,omitempty"` // seconds on site
	Referrer string    `json:"referrer,omitempty"`
}

// Categories holds the site marker lists used to classify events. Membership
// is substring containment against each list independently, so an event may
// match zero, one or both categories; the lists are deliberately not
// mutually exclusive.
//
// The lists are configuration, not code: tests substitute controlled
// fixtures and deployments tune them without rebuilding.
type Categories struct {
	ShortVideo []string `json:"short_video"`
	Ecommerce  []string `json:"ecommerce"`
}

// DefaultCategories returns the standard marker lists.
func DefaultCategories() Categories {
	return Categories{
		ShortVideo: []string{
			"tiktok.com", "youtube.com/shorts", "instagram.com/reels",
			"snapchat.com", "vimeo.com/shorts", "triller.co", "byte.co",
			"dubsmash.com", "likee.com", "funimate.com",
		},
		Ecommerce: []string{
			"amazon.com", "ebay.com", "walmart.com", "aliexpress.com",
			"etsy.com", "shopify.com", "bestbuy.com", "target.com",
			"newegg.com", "wayfair.com", "overstock.com", "homedepot.com",
		},
	}
}

// IsShortVideo reports whether the site matches the short-video markers.
func (c Categories) IsShortVideo(site string) bool {
	return containsAny(site, c.ShortVideo)
}

// IsEcommerce reports whether the site matches the e-commerce markers.
func (c Categories) IsEcommerce(site string) bool {
	return containsAny(site, c.Ecommerce)
}

func containsAny(site string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(site, m) {
			return true
		}
	}
	return false
}

// FeatureVector is the fixed-size tuple of non-negative behavioral counts
// extracted from one user's event log. These are the plaintexts fed to the
// cryptosystem; each count must stay below the key modulus, which any
// realistic browsing history does by a wide margin.
type FeatureVector struct {
	TotalVisits         uint64
	ShortVideoVisits    uint64
	EcommerceVisits     uint64
	EcommerceAfterVideo uint64
}

// PrimarilyVideo reports whether more than half of the user's visits are
// short-video visits. Zero total visits is false, never a division by zero.
func (v FeatureVector) PrimarilyVideo() bool {
	return 2*v.ShortVideoVisits > v.TotalVisits
}

// HasVideoToCommerce reports whether the user exhibited at least one
// video-to-ecommerce transition.
func (v FeatureVector) HasVideoToCommerce() bool {
	return v.EcommerceAfterVideo > 0
}

// ExtractFeatures scans an ordered-by-time event log once and produces the
// user's feature vector.
//
// A video-to-ecommerce transition is counted when an event matches the
// e-commerce markers and the immediately preceding event matched the
// short-video markers. The carried "previous event was video" flag resets
// whenever the current event is not a video match, even when it is an
// e-commerce match: video, video, shop counts a transition; video, news,
// shop does not.
func ExtractFeatures(events []Event, cats Categories) FeatureVector {
	v := FeatureVector{TotalVisits: uint64(len(events))}

	lastWasVideo := false
	for _, ev := range events {
		isVideo := cats.IsShortVideo(ev.Site)
		isEcommerce := cats.IsEcommerce(ev.Site)

		if isVideo {
			v.ShortVideoVisits++
		}
		if isEcommerce {
			v.EcommerceVisits++
			if lastWasVideo {
				v.EcommerceAfterVideo++
			}
		}

		lastWasVideo = isVideo
	}

	return v
}
