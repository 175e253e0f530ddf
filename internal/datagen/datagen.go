// Package datagen generates synthetic browsing-history populations for the
// CLI runner and the sampler tests. Each synthetic user has a short-video
// preference and a video-to-ecommerce tendency, so generated populations
// exhibit the behavioral patterns the analytics pipeline measures.
package datagen

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/luxfi/paillier/analytics"
)

// sitePool groups the synthetic site universe by category. The short-video
// and ecommerce lists match the default analytics marker lists so generated
// events classify as expected.
var sitePool = map[string][]string{
	"short_video": {
		"tiktok.com", "youtube.com/shorts", "instagram.com/reels",
		"snapchat.com", "vimeo.com/shorts", "triller.co", "byte.co",
		"dubsmash.com", "likee.com", "funimate.com",
	},
	"ecommerce": {
		"amazon.com", "ebay.com", "walmart.com", "aliexpress.com",
		"etsy.com", "shopify.com", "bestbuy.com", "target.com",
		"newegg.com", "wayfair.com", "overstock.com", "homedepot.com",
	},
	"social_media": {
		"facebook.com", "twitter.com", "instagram.com", "linkedin.com",
		"pinterest.com", "reddit.com", "tumblr.com", "quora.com",
	},
	"news": {
		"cnn.com", "bbc.com", "nytimes.com", "reuters.com",
		"apnews.com", "washingtonpost.com", "theguardian.com",
	},
	"entertainment": {
		"netflix.com", "hulu.com", "disneyplus.com", "spotify.com",
		"twitch.tv", "crunchyroll.com", "imdb.com",
	},
	"education": {
		"coursera.org", "udemy.com", "edx.org", "khanacademy.org",
		"duolingo.com", "codecademy.com",
	},
	"productivity": {
		"notion.so", "trello.com", "slack.com", "zoom.us",
		"dropbox.com", "drive.google.com",
	},
	"technology": {
		"github.com", "stackoverflow.com", "medium.com", "dev.to",
		"techcrunch.com", "arstechnica.com",
	},
}

var allSites = func() []string {
	// Deterministic pool order so a seeded generator is reproducible.
	categories := make([]string, 0, len(sitePool))
	for c := range sitePool {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var sites []string
	for _, c := range categories {
		sites = append(sites, sitePool[c]...)
	}
	return sites
}()

// Profile describes one synthetic user's behavioral tendencies.
type Profile struct {
	UserID string
	// VideoPreference is the probability a visit goes to a short-video site.
	VideoPreference float64
	// CommerceAfterVideo is the probability a visit right after a video
	// visit goes to an ecommerce site.
	CommerceAfterVideo float64
}

// Generator produces synthetic users and event logs from a seedable source.
type Generator struct {
	rnd   *rand.Rand
	start time.Time
	end   time.Time
}

// New creates a generator over a 90-day event window ending now.
func New(rnd *rand.Rand) *Generator {
	end := time.Now().UTC().Truncate(time.Second)
	return &Generator{
		rnd:   rnd,
		start: end.AddDate(0, 0, -90),
		end:   end,
	}
}

// Profile creates the i-th synthetic user profile. Preferences are drawn
// bell-shaped around moderate values, so populations contain both heavy
// video users and users who barely watch.
func (g *Generator) Profile(i int) Profile {
	return Profile{
		UserID: fmt.Sprintf("user-%06d", i),
		// Average of two uniforms approximates a Beta(2,2)-like hump.
		VideoPreference:    (g.rnd.Float64() + g.rnd.Float64()) / 2,
		CommerceAfterVideo: (g.rnd.Float64() + g.rnd.Float64()) / 2 * 0.8,
	}
}

// Session generates an ordered-by-time event log of numEvents visits for
// the given profile.
func (g *Generator) Session(p Profile, numEvents int) []analytics.Event {
	times := make([]time.Time, numEvents)
	window := g.end.Sub(g.start)
	for i := range times {
		times[i] = g.start.Add(time.Duration(g.rnd.Int64N(int64(window))))
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	events := make([]analytics.Event, 0, numEvents)
	lastWasVideo := false

	for i, ts := range times {
		var site string
		switch {
		case g.rnd.Float64() < p.VideoPreference:
			site = pick(g.rnd, sitePool["short_video"])
			lastWasVideo = true
		case lastWasVideo && g.rnd.Float64() < p.CommerceAfterVideo:
			site = pick(g.rnd, sitePool["ecommerce"])
			lastWasVideo = false
		default:
			site = pick(g.rnd, allSites)
			lastWasVideo = isVideoSite(site)
		}

		referrer := "direct"
		if i > 0 {
			referrer = events[i-1].Site
		}

		events = append(events, analytics.Event{
			Site:     site,
			Time:     ts,
			Duration: 10 + g.rnd.IntN(1791), // 10s to ~30min
			Referrer: referrer,
		})
	}

	return events
}

func pick(rnd *rand.Rand, sites []string) string {
	return sites[rnd.IntN(len(sites))]
}

func isVideoSite(site string) bool {
	for _, s := range sitePool["short_video"] {
		if s == site {
			return true
		}
	}
	return false
}
