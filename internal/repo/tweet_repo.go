// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for tweets.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. Reads that take a list of ids issue a
// single IN query regardless of list size; nothing here loops over rows
// issuing per-row queries.
//
// Error semantics:
//   - A missing single tweet yields ErrNotFound; missing ids in batched reads
//     are silently absent from the result.
//   - A second retweet of the same tweet by the same user yields ErrDuplicate.
//   - Other DB errors are propagated as-is.
//
// Every returned tweet has non-nil Tags.
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-social-feed/internal/domain"
)

const newestFirst = "created_at desc, id desc"

// NormalizeTweet fills optional fields absent on older rows with their empty
// values.
func NormalizeTweet(t *domain.Tweet) {
	if t.Tags == nil {
		t.Tags = datatypes.JSONSlice[string]{}
	}
}

func normalizeTweets(ts []domain.Tweet) []domain.Tweet {
	if ts == nil {
		return []domain.Tweet{}
	}
	for i := range ts {
		NormalizeTweet(&ts[i])
	}
	return ts
}

// NewTweetID returns a time-ordered UUIDv7.
func NewTweetID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// CreateTweet inserts t and indexes its tags. Missing ID and CreatedAt are
// generated. Retweet uniqueness violations are returned as ErrDuplicate.
func CreateTweet(ctx context.Context, db *gorm.DB, t *domain.Tweet) error {
	if t.ID == "" {
		t.ID = NewTweetID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	NormalizeTweet(t)

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		if len(t.Tags) == 0 {
			return nil
		}
		tags := make([]domain.Hashtag, 0, len(t.Tags))
		links := make([]domain.TweetHashtag, 0, len(t.Tags))
		for _, tag := range t.Tags {
			tags = append(tags, domain.Hashtag{Tag: tag, CreatedAt: t.CreatedAt})
			links = append(links, domain.TweetHashtag{TweetID: t.ID, Tag: tag})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	})
}

// GetTweet fetches one tweet by id or returns ErrNotFound.
func GetTweet(ctx context.Context, db *gorm.DB, id string) (*domain.Tweet, error) {
	var t domain.Tweet
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	NormalizeTweet(&t)
	return &t, nil
}

// TweetsByIDs returns the tweets for ids in the order of ids. Unknown or
// deleted ids are skipped, duplicates collapse to the first position.
func TweetsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Tweet, error) {
	if len(ids) == 0 {
		return []domain.Tweet{}, nil
	}
	var rows []domain.Tweet
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Tweet, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	out := make([]domain.Tweet, 0, len(rows))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
			delete(byID, id)
		}
	}
	return normalizeTweets(out), nil
}

// RecentTweets returns the newest limit tweets.
func RecentTweets(ctx context.Context, db *gorm.DB, limit int) ([]domain.Tweet, error) {
	var out []domain.Tweet
	err := db.WithContext(ctx).
		Order(newestFirst).
		Limit(limit).
		Find(&out).Error
	return normalizeTweets(out), err
}

// TweetsByAuthors returns tweets posted or retweeted by any of authorIDs
// (a retweet is a row authored by the retweeting user), newest first.
func TweetsByAuthors(ctx context.Context, db *gorm.DB, authorIDs []string, limit int) ([]domain.Tweet, error) {
	if len(authorIDs) == 0 {
		return []domain.Tweet{}, nil
	}
	var out []domain.Tweet
	err := db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order(newestFirst).
		Limit(limit).
		Find(&out).Error
	return normalizeTweets(out), err
}

// MostLikedTweets returns tweets by like_count desc, newest first on ties.
func MostLikedTweets(ctx context.Context, db *gorm.DB, limit int) ([]domain.Tweet, error) {
	var out []domain.Tweet
	err := db.WithContext(ctx).
		Order("like_count desc").
		Order(newestFirst).
		Limit(limit).
		Find(&out).Error
	return normalizeTweets(out), err
}

// CandidateQuery selects recommendation candidates.
type CandidateQuery struct {
	ViewerID  string
	Tags      []string // match any
	AuthorIDs []string // match any
	Limit     int
}

// RecommendationCandidates returns tweets carrying any of q.Tags or written
// by any of q.AuthorIDs, excluding the viewer's own tweets and tweets the
// viewer liked, along with retweets of either, newest first and capped at
// q.Limit.
func RecommendationCandidates(ctx context.Context, db *gorm.DB, q CandidateQuery) ([]domain.Tweet, error) {
	if len(q.Tags) == 0 && len(q.AuthorIDs) == 0 {
		return []domain.Tweet{}, nil
	}
	base := db.WithContext(ctx)
	liked := base.Model(&domain.Like{}).Select("tweet_id").Where("user_id = ?", q.ViewerID)
	tagged := base.Model(&domain.TweetHashtag{}).Select("tweet_id").Where("tag IN ?", q.Tags)

	tx := base.Model(&domain.Tweet{}).
		Where("author_id <> ?", q.ViewerID).
		Where("id NOT IN (?)", liked).
		Where("(original_tweet_id IS NULL OR original_tweet_id NOT IN (?))", liked).
		Where("(original_author_id IS NULL OR original_author_id <> ?)", q.ViewerID)
	switch {
	case len(q.Tags) > 0 && len(q.AuthorIDs) > 0:
		tx = tx.Where("(id IN (?) OR author_id IN ?)", tagged, q.AuthorIDs)
	case len(q.Tags) > 0:
		tx = tx.Where("id IN (?)", tagged)
	default:
		tx = tx.Where("author_id IN ?", q.AuthorIDs)
	}

	var out []domain.Tweet
	err := tx.Order(newestFirst).Limit(q.Limit).Find(&out).Error
	return normalizeTweets(out), err
}

// TweetsInWindow returns tweets created in [since, until), oldest first.
func TweetsInWindow(ctx context.Context, db *gorm.DB, since, until time.Time) ([]domain.Tweet, error) {
	var out []domain.Tweet
	err := db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", since.UTC(), until.UTC()).
		Order("created_at asc, id asc").
		Find(&out).Error
	return normalizeTweets(out), err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchTweets matches query case-insensitively against content, author
// username and tags, newest first.
func SearchTweets(ctx context.Context, db *gorm.DB, query string, offset, limit int) ([]domain.Tweet, error) {
	pat := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"
	base := db.WithContext(ctx)
	tagged := base.Model(&domain.TweetHashtag{}).Select("tweet_id").Where(`tag LIKE ? ESCAPE '\'`, pat)

	var out []domain.Tweet
	err := base.
		Where(`(LOWER(content) LIKE ? ESCAPE '\' OR LOWER(author_username) LIKE ? ESCAPE '\' OR id IN (?))`, pat, pat, tagged).
		Order(newestFirst).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return normalizeTweets(out), err
}

// DeleteTweet soft-deletes a tweet owned by authorID. It returns ErrNotFound
// when no such tweet exists.
func DeleteTweet(ctx context.Context, db *gorm.DB, id, authorID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&domain.Tweet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Counter columns adjustable with AdjustCounter.
const (
	CounterLikes    = "like_count"
	CounterComments = "comment_count"
	CounterRetweets = "retweet_count"
)

// AdjustCounter adds delta to a counter column of tweet id, clamping at
// zero. It returns ErrNotFound when the tweet is missing.
func AdjustCounter(ctx context.Context, db *gorm.DB, id, column string, delta int) error {
	switch column {
	case CounterLikes, CounterComments, CounterRetweets:
	default:
		return fmt.Errorf("unknown counter column %q", column)
	}
	expr := gorm.Expr("CASE WHEN "+column+" + ? < 0 THEN 0 ELSE "+column+" + ? END", delta, delta)
	res := db.WithContext(ctx).
		Model(&domain.Tweet{}).
		Where("id = ?", id).
		UpdateColumn(column, expr)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
