package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
	"github.com/tbourn/go-social-feed/internal/repo"
)

// FeedRepo defines the read contract required by the feed, recommendation
// and trend services. Every method is a single batched query; missing ids in
// batched inputs are silently absent from the output.
type FeedRepo interface {
	// RecentTweets returns the newest tweets.
	RecentTweets(ctx context.Context, db *gorm.DB, limit int) ([]domain.Tweet, error)

	// TweetsByIDs returns tweets in the order of ids.
	TweetsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Tweet, error)

	// TweetsByAuthors returns tweets written or retweeted by any author.
	TweetsByAuthors(ctx context.Context, db *gorm.DB, authorIDs []string, limit int) ([]domain.Tweet, error)

	// MostLikedTweets returns the popularity ranking used as fallback.
	MostLikedTweets(ctx context.Context, db *gorm.DB, limit int) ([]domain.Tweet, error)

	// RecommendationCandidates returns tweets matching preferred tags or
	// authors, excluding the viewer's own and liked tweets.
	RecommendationCandidates(ctx context.Context, db *gorm.DB, q repo.CandidateQuery) ([]domain.Tweet, error)

	// TweetsInWindow returns tweets in [since, until), oldest first.
	TweetsInWindow(ctx context.Context, db *gorm.DB, since, until time.Time) ([]domain.Tweet, error)

	// SearchTweets matches content, author and tags.
	SearchTweets(ctx context.Context, db *gorm.DB, query string, offset, limit int) ([]domain.Tweet, error)

	// LikedTweetIDs returns userID's liked tweet ids, oldest like first.
	LikedTweetIDs(ctx context.Context, db *gorm.DB, userID string) ([]string, error)

	// RetweetedTweetIDs returns the originals userID retweeted, newest first.
	RetweetedTweetIDs(ctx context.Context, db *gorm.DB, userID string, limit int) ([]string, error)

	// BookmarkedTweetIDs returns the live tweets userID bookmarked, newest
	// bookmark first.
	BookmarkedTweetIDs(ctx context.Context, db *gorm.DB, userID string, limit int) ([]string, error)

	LikedSet(ctx context.Context, db *gorm.DB, tweetIDs []string, userID string) (map[string]bool, error)
	RetweetedSet(ctx context.Context, db *gorm.DB, tweetIDs []string, userID string) (map[string]bool, error)
	ReactionSummaries(ctx context.Context, db *gorm.DB, tweetIDs []string, viewerID string) (map[string]domain.ReactionSummary, error)

	// FolloweeIDs returns the ids userID follows.
	FolloweeIDs(ctx context.Context, db *gorm.DB, userID string) ([]string, error)
}

// UserDirectory resolves users to their public projection.
type UserDirectory interface {
	UsersByIDs(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.AuthorInfo, error)
	UsersByUsernames(ctx context.Context, db *gorm.DB, usernames []string) (map[string]domain.AuthorInfo, error)
}
