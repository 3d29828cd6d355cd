// Package hashtag extracts and normalizes hashtags and @mentions from tweet
// text. Tags are stored lowercase without the leading '#', de-duplicated in
// first-appearance order.
package hashtag

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxLen caps a normalized tag in runes.
const MaxLen = 100

var (
	tagRE     = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	mentionRE = regexp.MustCompile(`@([\p{L}\p{N}_]+)`)
	validRE   = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)
)

// Normalize lowercases tag and strips surrounding whitespace and '#'. It
// returns "" when the result is empty, too long or contains non-word runes.
func Normalize(tag string) string {
	t := strings.TrimSpace(tag)
	t = strings.TrimLeft(t, "#")
	// A Caser holds state, so one is built per call.
	t = cases.Lower(language.Und).String(t)
	if t == "" || utf8.RuneCountInString(t) > MaxLen || !validRE.MatchString(t) {
		return ""
	}
	return t
}

// Extract returns the normalized hashtags found in content.
func Extract(content string) []string {
	var raw []string
	for _, m := range tagRE.FindAllStringSubmatch(content, -1) {
		raw = append(raw, m[1])
	}
	return Merge(raw)
}

// Mentions returns the usernames mentioned with @name, in order, without
// duplicates. Usernames keep their case.
func Mentions(content string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, m := range mentionRE.FindAllStringSubmatch(content, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

// Merge normalizes every tag of every list and keeps the first occurrence of
// each. Invalid tags are dropped. The result is never nil.
func Merge(lists ...[]string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, l := range lists {
		for _, t := range l {
			n := Normalize(t)
			if n == "" {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}
