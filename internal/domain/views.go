package domain

// Emotions lists the closed set of reaction labels in display order.
var Emotions = []string{"happy", "sad", "angry", "surprised", "neutral", "disgust", "fear"}

// ValidEmotion reports whether e is one of Emotions.
func ValidEmotion(e string) bool {
	for _, x := range Emotions {
		if x == e {
			return true
		}
	}
	return false
}

// AuthorInfo is the public projection of a user attached to feed items.
type AuthorInfo struct {
	ID               string  `json:"id"`
	Username         string  `json:"username"`
	ProfilePictureID *string `json:"profile_picture_id"`
	Bio              *string `json:"bio"`
}

// ReactionSummary aggregates emotion reactions on one tweet.
//
// Reactions maps emotion to count, ReactionCount is the sum of all counts and
// UserReaction is the viewer's own emotion, or nil when they have none.
type ReactionSummary struct {
	ReactionCount int            `json:"reaction_count"`
	Reactions     map[string]int `json:"reactions"`
	UserReaction  *string        `json:"user_reaction"`
}

// EmptyReactionSummary is the summary of a tweet nobody reacted to.
func EmptyReactionSummary() ReactionSummary {
	return ReactionSummary{Reactions: map[string]int{}}
}

// RecommendationInfo explains why a tweet was recommended.
type RecommendationInfo struct {
	Score           float64  `json:"score"`
	MatchedTags     []string `json:"matched_tags"`
	PreferredAuthor bool     `json:"preferred_author"`
	Reasons         []string `json:"reasons"`
}

// EnrichedTweet is a tweet decorated for one viewer. It is recomputed for
// every request and never persisted.
type EnrichedTweet struct {
	Tweet
	UserLiked          bool                `json:"user_liked"`
	UserRetweeted      bool                `json:"user_retweeted"`
	Reactions          ReactionSummary     `json:"reactions"`
	AuthorInfo         *AuthorInfo         `json:"author_info"`
	OriginalAuthorInfo *AuthorInfo         `json:"original_author_info"`
	RecommendationInfo *RecommendationInfo `json:"recommendation_info,omitempty"`
}

// SampleTweet is the short form of a tweet shown under a trend.
type SampleTweet struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Trend is a hashtag with its occurrence count inside a time window.
type Trend struct {
	Tag          string        `json:"tag"`
	Count        int           `json:"count"`
	SampleTweets []SampleTweet `json:"sample_tweets"`
}

// UserStats counts the follow edges of one user.
type UserStats struct {
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}
