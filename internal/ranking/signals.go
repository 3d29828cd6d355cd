// Package ranking holds the pure ranking logic of the feed: preference
// extraction from like history, weighted scoring with explanations, and
// windowed hashtag trend aggregation. Nothing here touches storage; callers
// load the inputs in batches and pass them in.
//
// All orderings are deterministic. Frequency ties keep first-encountered
// order, score ties fall back to recency and then id.
package ranking

import (
	"errors"
	"sort"

	"github.com/tbourn/go-social-feed/internal/domain"
)

// ErrNoPreferenceData is returned when a viewer has no liked tweets to learn
// from. Callers fall back to popularity ranking.
var ErrNoPreferenceData = errors.New("no preference data")

// Default preference sizes.
const (
	DefaultTopTags    = 5
	DefaultTopAuthors = 3
)

// Preferences are the tags and author ids a viewer favors, most frequent
// first.
type Preferences struct {
	Tags    []string
	Authors []string
}

// HasTag reports whether tag is preferred.
func (p Preferences) HasTag(tag string) bool { return contains(p.Tags, tag) }

// HasAuthor reports whether authorID is preferred.
func (p Preferences) HasAuthor(authorID string) bool { return contains(p.Authors, authorID) }

// ExtractPreferences derives favored tags and authors from liked tweets,
// given in like order. Every tag occurrence counts, as does each liked
// tweet's author. Values <= 0 for maxTags or maxAuthors select the defaults.
func ExtractPreferences(liked []domain.Tweet, maxTags, maxAuthors int) (Preferences, error) {
	if len(liked) == 0 {
		return Preferences{}, ErrNoPreferenceData
	}
	if maxTags <= 0 {
		maxTags = DefaultTopTags
	}
	if maxAuthors <= 0 {
		maxAuthors = DefaultTopAuthors
	}

	tags := newCounter()
	authors := newCounter()
	for _, t := range liked {
		for _, tag := range t.Tags {
			if tag != "" {
				tags.add(tag)
			}
		}
		if t.AuthorID != "" {
			authors.add(t.AuthorID)
		}
	}
	return Preferences{
		Tags:    tags.top(maxTags),
		Authors: authors.top(maxAuthors),
	}, nil
}

// counter tallies keys and remembers when each key was first seen.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter { return &counter{counts: map[string]int{}} }

func (c *counter) add(k string) {
	if _, ok := c.counts[k]; !ok {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

// top returns up to n keys by count desc, ties in first-seen order.
func (c *counter) top(n int) []string {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
