package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
	"github.com/tbourn/go-social-feed/internal/repo"
)

// sqlStore adapts the repo free functions to FeedRepo and UserDirectory.
type sqlStore struct{}

func (sqlStore) RecentTweets(ctx context.Context, db *gorm.DB, limit int) ([]domain.Tweet, error) {
	return repo.RecentTweets(ctx, db, limit)
}
func (sqlStore) TweetsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Tweet, error) {
	return repo.TweetsByIDs(ctx, db, ids)
}
func (sqlStore) TweetsByAuthors(ctx context.Context, db *gorm.DB, authorIDs []string, limit int) ([]domain.Tweet, error) {
	return repo.TweetsByAuthors(ctx, db, authorIDs, limit)
}
func (sqlStore) MostLikedTweets(ctx context.Context, db *gorm.DB, limit int) ([]domain.Tweet, error) {
	return repo.MostLikedTweets(ctx, db, limit)
}
func (sqlStore) RecommendationCandidates(ctx context.Context, db *gorm.DB, q repo.CandidateQuery) ([]domain.Tweet, error) {
	return repo.RecommendationCandidates(ctx, db, q)
}
func (sqlStore) TweetsInWindow(ctx context.Context, db *gorm.DB, since, until time.Time) ([]domain.Tweet, error) {
	return repo.TweetsInWindow(ctx, db, since, until)
}
func (sqlStore) SearchTweets(ctx context.Context, db *gorm.DB, query string, offset, limit int) ([]domain.Tweet, error) {
	return repo.SearchTweets(ctx, db, query, offset, limit)
}
func (sqlStore) LikedTweetIDs(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	return repo.LikedTweetIDs(ctx, db, userID)
}
func (sqlStore) RetweetedTweetIDs(ctx context.Context, db *gorm.DB, userID string, limit int) ([]string, error) {
	return repo.RetweetedTweetIDs(ctx, db, userID, limit)
}
func (sqlStore) BookmarkedTweetIDs(ctx context.Context, db *gorm.DB, userID string, limit int) ([]string, error) {
	return repo.BookmarkedTweetIDs(ctx, db, userID, limit)
}
func (sqlStore) LikedSet(ctx context.Context, db *gorm.DB, ids []string, userID string) (map[string]bool, error) {
	return repo.LikedSet(ctx, db, ids, userID)
}
func (sqlStore) RetweetedSet(ctx context.Context, db *gorm.DB, ids []string, userID string) (map[string]bool, error) {
	return repo.RetweetedSet(ctx, db, ids, userID)
}
func (sqlStore) ReactionSummaries(ctx context.Context, db *gorm.DB, ids []string, viewerID string) (map[string]domain.ReactionSummary, error) {
	return repo.ReactionSummaries(ctx, db, ids, viewerID)
}
func (sqlStore) FolloweeIDs(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	return repo.FolloweeIDs(ctx, db, userID)
}
func (sqlStore) UsersByIDs(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.AuthorInfo, error) {
	return repo.UsersByIDs(ctx, db, ids)
}
func (sqlStore) UsersByUsernames(ctx context.Context, db *gorm.DB, names []string) (map[string]domain.AuthorInfo, error) {
	return repo.UsersByUsernames(ctx, db, names)
}

// newServiceDB opens a private in-memory database with the full schema.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := repo.OpenSQLite(dsn, true)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func mustUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), db, username, nil, nil)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// mustTweet inserts a tweet by author created offset after base.
func mustTweet(t *testing.T, db *gorm.DB, id string, author *domain.User, tags []string, offset time.Duration, likes int) *domain.Tweet {
	t.Helper()
	tw := &domain.Tweet{
		ID:             id,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		Content:        "tweet " + id,
		Tags:           datatypes.JSONSlice[string](tags),
		LikeCount:      likes,
		CreatedAt:      base.Add(offset),
	}
	if err := repo.CreateTweet(context.Background(), db, tw); err != nil {
		t.Fatalf("create tweet %s: %v", id, err)
	}
	return tw
}

func mustLike(t *testing.T, db *gorm.DB, tweetID, userID string, offset time.Duration) {
	t.Helper()
	l := &domain.Like{ID: tweetID + ":" + userID, TweetID: tweetID, UserID: userID, CreatedAt: base.Add(offset)}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("like %s: %v", tweetID, err)
	}
}

func itemIDs(items []domain.EnrichedTweet) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
