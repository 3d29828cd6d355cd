// Package services – SocialService
//
// This file implements SocialService, the read side of the social graph and
// of tweet conversations: comment threads, follower and following lists,
// follow status and per-user follow counts.
package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
	"github.com/tbourn/go-social-feed/internal/repo"
)

// SocialService serves comments and follow-graph reads.
type SocialService struct {
	DB *gorm.DB
	// MaxLimit caps list sizes; larger requests are clamped.
	MaxLimit int
}

// NewSocialService returns a SocialService with lists capped at 50.
func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{DB: db, MaxLimit: 50}
}

func (s *SocialService) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer("services/SocialService").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *SocialService) clampLimit(limit int) (int, error) {
	if limit <= 0 {
		return 0, ErrInvalidLimit
	}
	if s.MaxLimit > 0 && limit > s.MaxLimit {
		return s.MaxLimit, nil
	}
	return limit, nil
}

func (s *SocialService) user(ctx context.Context, username string) (*domain.User, error) {
	u, err := repo.GetUserByUsername(ctx, s.DB, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// Comments returns the comments on tweetID, newest first.
func (s *SocialService) Comments(ctx context.Context, tweetID string, limit int) ([]domain.Comment, error) {
	ctx, span := s.span(ctx, "Comments", attribute.String("tweet.id", tweetID), attribute.Int("limit", limit))
	defer span.End()

	limit, err := s.clampLimit(limit)
	if err != nil {
		return nil, err
	}
	if _, err := getTweet(ctx, s.DB, tweetID); err != nil {
		return nil, err
	}
	return repo.ListComments(ctx, s.DB, tweetID, limit)
}

// Followers lists the users following username, most recent follow first.
func (s *SocialService) Followers(ctx context.Context, username string, limit int) ([]domain.AuthorInfo, error) {
	return s.followList(ctx, "Followers", username, limit, repo.FollowerUsers)
}

// Following lists the users username follows, most recent follow first.
func (s *SocialService) Following(ctx context.Context, username string, limit int) ([]domain.AuthorInfo, error) {
	return s.followList(ctx, "Following", username, limit, repo.FollowingUsers)
}

func (s *SocialService) followList(
	ctx context.Context, name, username string, limit int,
	load func(context.Context, *gorm.DB, string, int) ([]domain.User, error),
) ([]domain.AuthorInfo, error) {
	ctx, span := s.span(ctx, name, attribute.String("profile.username", username), attribute.Int("limit", limit))
	defer span.End()

	limit, err := s.clampLimit(limit)
	if err != nil {
		return nil, err
	}
	u, err := s.user(ctx, username)
	if err != nil {
		return nil, err
	}
	users, err := load(ctx, s.DB, u.ID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AuthorInfo, len(users))
	for i, x := range users {
		out[i] = x.Info()
	}
	return out, nil
}

// FollowStatus reports whether viewerID follows username. Anonymous viewers
// follow nobody.
func (s *SocialService) FollowStatus(ctx context.Context, viewerID, username string) (bool, error) {
	ctx, span := s.span(ctx, "FollowStatus", attribute.String("user.id", viewerID), attribute.String("profile.username", username))
	defer span.End()

	u, err := s.user(ctx, username)
	if err != nil {
		return false, err
	}
	if viewerID == "" {
		return false, nil
	}
	return repo.IsFollowing(ctx, s.DB, viewerID, u.ID)
}

// Stats returns the follower and following counts of username.
func (s *SocialService) Stats(ctx context.Context, username string) (domain.UserStats, error) {
	ctx, span := s.span(ctx, "Stats", attribute.String("profile.username", username))
	defer span.End()

	u, err := s.user(ctx, username)
	if err != nil {
		return domain.UserStats{}, err
	}
	return repo.FollowCounts(ctx, s.DB, u.ID)
}
