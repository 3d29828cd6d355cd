package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
)

// CreateBookmark saves tweetID for userID. Saving twice returns ErrDuplicate.
func CreateBookmark(ctx context.Context, db *gorm.DB, userID, tweetID string) error {
	b := &domain.Bookmark{
		ID:        uuid.NewString(),
		UserID:    userID,
		TweetID:   tweetID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// DeleteBookmark removes a bookmark or returns ErrNotFound.
func DeleteBookmark(ctx context.Context, db *gorm.DB, userID, tweetID string) error {
	res := db.WithContext(ctx).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Delete(&domain.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BookmarkedTweetIDs returns the tweets userID bookmarked, newest bookmark
// first. Tweets deleted since are skipped before the limit applies.
func BookmarkedTweetIDs(ctx context.Context, db *gorm.DB, userID string, limit int) ([]string, error) {
	var ids []string
	base := db.WithContext(ctx)
	live := base.Model(&domain.Tweet{}).Select("id")
	err := base.
		Model(&domain.Bookmark{}).
		Where("user_id = ?", userID).
		Where("tweet_id IN (?)", live).
		Order(newestFirst).
		Limit(limit).
		Pluck("tweet_id", &ids).Error
	if ids == nil {
		ids = []string{}
	}
	return ids, err
}
