// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for likes and the
// retweet membership queries used to decorate feed items.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
)

// CreateLike records that userID liked tweetID. A repeated like returns
// ErrDuplicate.
func CreateLike(ctx context.Context, db *gorm.DB, tweetID, userID string) (*domain.Like, error) {
	l := &domain.Like{
		ID:        uuid.NewString(),
		TweetID:   tweetID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return l, nil
}

// DeleteLike removes the like of userID on tweetID, or returns ErrNotFound.
func DeleteLike(ctx context.Context, db *gorm.DB, tweetID, userID string) error {
	res := db.WithContext(ctx).
		Where("tweet_id = ? AND user_id = ?", tweetID, userID).
		Delete(&domain.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LikedTweetIDs returns the ids of every tweet userID liked, oldest like
// first.
func LikedTweetIDs(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.Like{}).
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Pluck("tweet_id", &ids).Error
	if ids == nil {
		ids = []string{}
	}
	return ids, err
}

// LikedSet reports which of tweetIDs userID has liked.
func LikedSet(ctx context.Context, db *gorm.DB, tweetIDs []string, userID string) (map[string]bool, error) {
	out := make(map[string]bool, len(tweetIDs))
	if len(tweetIDs) == 0 {
		return out, nil
	}
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.Like{}).
		Where("user_id = ? AND tweet_id IN ?", userID, tweetIDs).
		Pluck("tweet_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// RetweetedSet reports which of tweetIDs userID has retweeted.
func RetweetedSet(ctx context.Context, db *gorm.DB, tweetIDs []string, userID string) (map[string]bool, error) {
	out := make(map[string]bool, len(tweetIDs))
	if len(tweetIDs) == 0 {
		return out, nil
	}
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.Tweet{}).
		Where("author_id = ? AND is_retweet = ? AND original_tweet_id IN ?", userID, true, tweetIDs).
		Pluck("original_tweet_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// RetweetedTweetIDs returns the ids of originals userID retweeted, newest
// retweet first. Originals deleted since are skipped before the limit
// applies.
func RetweetedTweetIDs(ctx context.Context, db *gorm.DB, userID string, limit int) ([]string, error) {
	var ids []string
	base := db.WithContext(ctx)
	live := base.Model(&domain.Tweet{}).Select("id").Where("is_retweet = ?", false)
	err := base.
		Model(&domain.Tweet{}).
		Where("author_id = ? AND is_retweet = ?", userID, true).
		Where("original_tweet_id IN (?)", live).
		Order(newestFirst).
		Limit(limit).
		Pluck("original_tweet_id", &ids).Error
	if ids == nil {
		ids = []string{}
	}
	return ids, err
}

// DeleteRetweet hard-deletes the retweet of originalID by userID so the
// user may retweet again later. It returns the removed row's id or
// ErrNotFound.
func DeleteRetweet(ctx context.Context, db *gorm.DB, originalID, userID string) (string, error) {
	var rt domain.Tweet
	err := db.WithContext(ctx).
		Unscoped().
		Where("original_tweet_id = ? AND author_id = ?", originalID, userID).
		First(&rt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if err := db.WithContext(ctx).Unscoped().Delete(&domain.Tweet{}, "id = ?", rt.ID).Error; err != nil {
		return "", err
	}
	if err := db.WithContext(ctx).Where("tweet_id = ?", rt.ID).Delete(&domain.TweetHashtag{}).Error; err != nil {
		return "", err
	}
	return rt.ID, nil
}
