package ranking

import (
	"sort"
	"time"

	"github.com/tbourn/go-social-feed/internal/domain"
)

// DefaultTrendSamples is the number of sample tweets kept per trend.
const DefaultTrendSamples = 3

// AggregateTrends counts hashtags over tweets created in [since, until).
// Tweets outside the window, without tags, or that are retweets are skipped;
// every tag occurrence counts. Tags are ordered by count desc with ties in
// the order they were first seen; tweets should therefore arrive in a stable
// order (oldest first). Up to samples distinct tweets are kept per tag in
// encounter order. A non-positive limit yields an empty result.
func AggregateTrends(tweets []domain.Tweet, since, until time.Time, limit, samples int) []domain.Trend {
	out := []domain.Trend{}
	if limit <= 0 {
		return out
	}
	if samples < 0 {
		samples = 0
	}

	index := map[string]int{}
	for _, t := range tweets {
		if t.IsRetweet || len(t.Tags) == 0 || t.CreatedAt.Before(since) || !t.CreatedAt.Before(until) {
			continue
		}
		sampled := make(map[string]struct{}, len(t.Tags))
		for _, tag := range t.Tags {
			if tag == "" {
				continue
			}
			i, ok := index[tag]
			if !ok {
				i = len(out)
				index[tag] = i
				out = append(out, domain.Trend{Tag: tag, SampleTweets: []domain.SampleTweet{}})
			}
			out[i].Count++
			if _, dup := sampled[tag]; dup {
				continue
			}
			sampled[tag] = struct{}{}
			if len(out[i].SampleTweets) < samples {
				out[i].SampleTweets = append(out[i].SampleTweets, domain.SampleTweet{ID: t.ID, Content: t.Content})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
