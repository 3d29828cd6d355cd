package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tbourn/go-social-feed/internal/domain"
)

// Weights parameterize the recommendation score:
//
//	Tag*|tags ∩ preferred| + Author*[author preferred]
//	  + likes/LikeDivisor + retweets/RetweetDivisor + comments/CommentDivisor
type Weights struct {
	Tag            float64
	Author         float64
	LikeDivisor    float64
	RetweetDivisor float64
	CommentDivisor float64
}

// DefaultWeights returns 3, 5, 10, 20, 30.
func DefaultWeights() Weights {
	return Weights{Tag: 3, Author: 5, LikeDivisor: 10, RetweetDivisor: 20, CommentDivisor: 30}
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights replaces the score weights. Non-positive divisors keep their
// default so a misconfiguration never divides by zero.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		d := DefaultWeights()
		if w.LikeDivisor <= 0 {
			w.LikeDivisor = d.LikeDivisor
		}
		if w.RetweetDivisor <= 0 {
			w.RetweetDivisor = d.RetweetDivisor
		}
		if w.CommentDivisor <= 0 {
			w.CommentDivisor = d.CommentDivisor
		}
		s.w = w
	}
}

// WithReasonTags caps how many matched tags are named in the tag reason.
func WithReasonTags(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.reasonTags = n
		}
	}
}

// Scorer ranks candidate tweets against a viewer's preferences. It is
// immutable after construction and safe for concurrent use.
type Scorer struct {
	w          Weights
	reasonTags int
}

// NewScorer builds a Scorer with default weights unless overridden.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{w: DefaultWeights(), reasonTags: 2}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Weights returns the active weights.
func (s *Scorer) Weights() Weights { return s.w }

// Scored is a candidate with its score and explanation.
type Scored struct {
	Tweet       domain.Tweet
	Score       float64
	Explanation domain.RecommendationInfo
}

// MatchTags returns the distinct tags of tags that are also in preferred,
// in tags order. Its length never exceeds min(|tags|, |preferred|).
func MatchTags(tags, preferred []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if contains(preferred, t) {
			out = append(out, t)
		}
	}
	return out
}

// Score computes the score of one tweet.
func (s *Scorer) Score(t domain.Tweet, p Preferences) Scored {
	matched := MatchTags(t.Tags, p.Tags)
	author := p.HasAuthor(t.AuthorID)

	score := s.w.Tag * float64(len(matched))
	if author {
		score += s.w.Author
	}
	score += float64(t.LikeCount)/s.w.LikeDivisor +
		float64(t.RetweetCount)/s.w.RetweetDivisor +
		float64(t.CommentCount)/s.w.CommentDivisor

	reasons := []string{}
	if len(matched) > 0 {
		named := matched
		if len(named) > s.reasonTags {
			named = named[:s.reasonTags]
		}
		reasons = append(reasons, "similar tags: #"+strings.Join(named, ", #"))
	}
	if author {
		reasons = append(reasons, fmt.Sprintf("author you like: @%s", t.AuthorUsername))
	}

	return Scored{
		Tweet: t,
		Score: score,
		Explanation: domain.RecommendationInfo{
			Score:           score,
			MatchedTags:     matched,
			PreferredAuthor: author,
			Reasons:         reasons,
		},
	}
}

// Rank scores every candidate and returns up to limit results ordered by
// score desc, then created_at desc, then id desc. limit <= 0 returns all.
func (s *Scorer) Rank(candidates []domain.Tweet, p Preferences, limit int) []Scored {
	out := make([]Scored, 0, len(candidates))
	for _, t := range candidates {
		out = append(out, s.Score(t, p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Tweet.CreatedAt.Equal(b.Tweet.CreatedAt) {
			return a.Tweet.CreatedAt.After(b.Tweet.CreatedAt)
		}
		return a.Tweet.ID > b.Tweet.ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FilterCandidates drops the viewer's own tweets, tweets the viewer already
// liked, retweets of either and repeated ids, keeping order.
func FilterCandidates(candidates []domain.Tweet, viewerID string, liked map[string]bool) []domain.Tweet {
	out := make([]domain.Tweet, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, t := range candidates {
		if t.AuthorID == viewerID || liked[t.ID] {
			continue
		}
		if t.OriginalTweetID != nil && liked[*t.OriginalTweetID] {
			continue
		}
		if t.OriginalAuthorID != nil && *t.OriginalAuthorID == viewerID {
			continue
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
