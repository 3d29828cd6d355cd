// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for emotion
// reactions: replace-on-write upserts and batched per-tweet summaries.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-social-feed/internal/domain"
)

// UpsertReaction stores userID's emotion on tweetID, replacing any earlier
// reaction by the same user.
func UpsertReaction(ctx context.Context, db *gorm.DB, tweetID, userID, emotion string, confidence float64) (*domain.EmotionReaction, error) {
	now := time.Now().UTC()
	r := &domain.EmotionReaction{
		ID:         uuid.NewString(),
		TweetID:    tweetID,
		UserID:     userID,
		Emotion:    emotion,
		Confidence: confidence,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tweet_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"emotion", "confidence", "updated_at"}),
		}).
		Create(r).Error
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ReactionSummaries aggregates reactions for every id in tweetIDs, filling
// UserReaction from viewerID's own reactions. Ids without reactions get an
// empty summary. Two queries are issued regardless of the number of ids.
func ReactionSummaries(ctx context.Context, db *gorm.DB, tweetIDs []string, viewerID string) (map[string]domain.ReactionSummary, error) {
	out := make(map[string]domain.ReactionSummary, len(tweetIDs))
	for _, id := range tweetIDs {
		out[id] = domain.EmptyReactionSummary()
	}
	if len(tweetIDs) == 0 {
		return out, nil
	}

	var counts []struct {
		TweetID string
		Emotion string
		N       int
	}
	err := db.WithContext(ctx).
		Model(&domain.EmotionReaction{}).
		Select("tweet_id, emotion, COUNT(*) AS n").
		Where("tweet_id IN ?", tweetIDs).
		Group("tweet_id, emotion").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		s := out[c.TweetID]
		s.Reactions[c.Emotion] = c.N
		s.ReactionCount += c.N
		out[c.TweetID] = s
	}

	if viewerID == "" {
		return out, nil
	}
	var mine []domain.EmotionReaction
	err = db.WithContext(ctx).
		Select("tweet_id", "emotion").
		Where("user_id = ? AND tweet_id IN ?", viewerID, tweetIDs).
		Find(&mine).Error
	if err != nil {
		return nil, err
	}
	for _, r := range mine {
		s := out[r.TweetID]
		emotion := r.Emotion
		s.UserReaction = &emotion
		out[r.TweetID] = s
	}
	return out, nil
}
