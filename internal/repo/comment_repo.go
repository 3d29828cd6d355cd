package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
)

// CreateComment inserts a comment on tweetID. Counter maintenance is left to
// the caller so it can share a transaction with the insert.
func CreateComment(ctx context.Context, db *gorm.DB, tweetID, authorID, authorUsername, content string) (*domain.Comment, error) {
	c := &domain.Comment{
		ID:             uuid.NewString(),
		TweetID:        tweetID,
		AuthorID:       authorID,
		AuthorUsername: authorUsername,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments returns up to limit comments on tweetID, newest first.
func ListComments(ctx context.Context, db *gorm.DB, tweetID string, limit int) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Where("tweet_id = ?", tweetID).
		Order(newestFirst).
		Limit(limit).
		Find(&out).Error
	if out == nil {
		out = []domain.Comment{}
	}
	return out, err
}
