// Package services – FeedService
//
// This file implements FeedService, which serves every read-only tweet list:
// the home feed, the following feed, personalized recommendations, user
// timelines, liked, retweeted and bookmarked tweets and search. Each request
// loads its tweets in one batched query, optionally ranks them and hands them
// to the Assembler for viewer-specific decoration. Nothing is cached between
// requests.
//
// Observability: all public methods are OpenTelemetry-instrumented and the
// pipeline stages are timed in feed_stage_duration_seconds.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
	"github.com/tbourn/go-social-feed/internal/ranking"
	"github.com/tbourn/go-social-feed/internal/repo"
	"github.com/tbourn/go-social-feed/internal/utils"
)

// FeedOptions bounds feed requests and tunes recommendations.
type FeedOptions struct {
	MaxLimit      int
	CandidatePool int
	TopTags       int
	TopAuthors    int
	Weights       ranking.Weights
}

// DefaultFeedOptions returns a max page of 50, a candidate pool of 200, top 5
// tags, top 3 authors and the default score weights.
func DefaultFeedOptions() FeedOptions {
	return FeedOptions{
		MaxLimit:      50,
		CandidatePool: 200,
		TopTags:       ranking.DefaultTopTags,
		TopAuthors:    ranking.DefaultTopAuthors,
		Weights:       ranking.DefaultWeights(),
	}
}

// FeedService builds enriched tweet lists for a viewer.
type FeedService struct {
	DB        *gorm.DB
	Repo      FeedRepo
	Users     UserDirectory
	Assembler *Assembler
	Scorer    *ranking.Scorer
	Opts      FeedOptions
}

// NewFeedService wires a FeedService and its Assembler. Zero option values
// take their defaults.
func NewFeedService(db *gorm.DB, r FeedRepo, users UserDirectory, opts FeedOptions) *FeedService {
	d := DefaultFeedOptions()
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = d.MaxLimit
	}
	if opts.CandidatePool <= 0 {
		opts.CandidatePool = d.CandidatePool
	}
	if opts.TopTags <= 0 {
		opts.TopTags = d.TopTags
	}
	if opts.TopAuthors <= 0 {
		opts.TopAuthors = d.TopAuthors
	}
	if opts.Weights == (ranking.Weights{}) {
		opts.Weights = d.Weights
	}
	return &FeedService{
		DB:        db,
		Repo:      r,
		Users:     users,
		Assembler: &Assembler{DB: db, Repo: r, Users: users},
		Scorer:    ranking.NewScorer(ranking.WithWeights(opts.Weights)),
		Opts:      opts,
	}
}

// clampLimit rejects non-positive limits and caps large ones.
func (s *FeedService) clampLimit(limit int) (int, error) {
	if limit <= 0 {
		return 0, ErrInvalidLimit
	}
	if limit > s.Opts.MaxLimit {
		return s.Opts.MaxLimit, nil
	}
	return limit, nil
}

func (s *FeedService) start(ctx context.Context, name, kind, viewerID string, limit int) (context.Context, trace.Span) {
	feedRequests.WithLabelValues(kind).Inc()
	return otel.Tracer("services/FeedService").Start(ctx, name,
		trace.WithAttributes(
			attribute.String("user.id", viewerID),
			attribute.Int("limit", limit),
		),
	)
}

// load runs a loader under the "load" stage timer.
func (s *FeedService) load(fn func() ([]domain.Tweet, error)) ([]domain.Tweet, error) {
	defer observeStage("load", time.Now())
	return fn()
}

// GetFeed returns the newest tweets, newest first.
func (s *FeedService) GetFeed(ctx context.Context, viewerID string, limit int) ([]domain.EnrichedTweet, error) {
	ctx, span := s.start(ctx, "GetFeed", kindHome, viewerID, limit)
	defer span.End()

	limit, err := s.clampLimit(limit)
	if err != nil {
		return nil, err
	}
	tweets, err := s.load(func() ([]domain.Tweet, error) { return s.Repo.RecentTweets(ctx, s.DB, limit) })
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Assembler.Enrich(ctx, viewerID, tweets)
}

// GetFollowingFeed returns tweets written or retweeted by the viewer and the
// users they follow, newest first.
func (s *FeedService) GetFollowingFeed(ctx context.Context, viewerID string, limit int) ([]domain.EnrichedTweet, error) {
	ctx, span := s.start(ctx, "GetFollowingFeed", kindFollowing, viewerID, limit)
	defer span.End()

	limit, err := s.clampLimit(limit)
	if err != nil {
		return nil, err
	}
	followees, err := s.Repo.FolloweeIDs(ctx, s.DB, viewerID)
	if err != nil {
		return nil, err
	}
	authors := append([]string{viewerID}, followees...)
	tweets, err := s.load(func() ([]domain.Tweet, error) { return s.Repo.TweetsByAuthors(ctx, s.DB, authors, limit) })
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Assembler.Enrich(ctx, viewerID, tweets)
}

// GetRecommendations ranks tweets against the tags and authors the viewer
// liked most. Viewers with no likes get the most liked tweets instead, so the
// result is non-empty whenever any tweet exists. Personalized items carry
// RecommendationInfo; fallback items do not.
//
// A viewer whose preferences match no candidate gets an empty list.
func (s *FeedService) GetRecommendations(ctx context.Context, viewerID string, limit int) ([]domain.EnrichedTweet, error) {
	ctx, span := s.start(ctx, "GetRecommendations", kindRecommend, viewerID, limit)
	defer span.End()

	limit, err := s.clampLimit(limit)
	if err != nil {
		return nil, err
	}

	likedIDs, err := s.Repo.LikedTweetIDs(ctx, s.DB, viewerID)
	if err != nil {
		return nil, err
	}
	liked, err := s.load(func() ([]domain.Tweet, error) { return s.Repo.TweetsByIDs(ctx, s.DB, likedIDs) })
	if err != nil {
		return nil, err
	}

	signalsStart := time.Now()
	prefs, err := ranking.ExtractPreferences(liked, s.Opts.TopTags, s.Opts.TopAuthors)
	observeStage("signals", signalsStart)
	if errors.Is(err, ranking.ErrNoPreferenceData) {
		return s.popular(ctx, viewerID, limit)
	}
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.StringSlice("prefs.tags", prefs.Tags),
		attribute.Int("prefs.authors", len(prefs.Authors)),
	)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates, err := s.load(func() ([]domain.Tweet, error) {
		return s.Repo.RecommendationCandidates(ctx, s.DB, repo.CandidateQuery{
			ViewerID:  viewerID,
			Tags:      prefs.Tags,
			AuthorIDs: prefs.Authors,
			Limit:     s.Opts.CandidatePool,
		})
	})
	if err != nil {
		return nil, err
	}

	likedSet := make(map[string]bool, len(likedIDs))
	for _, id := range likedIDs {
		likedSet[id] = true
	}
	candidates = ranking.FilterCandidates(candidates, viewerID, likedSet)

	scoreStart := time.Now()
	ranked := s.Scorer.Rank(candidates, prefs, limit)
	observeStage("score", scoreStart)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tweets := make([]domain.Tweet, len(ranked))
	for i, r := range ranked {
		tweets[i] = r.Tweet
	}
	items, err := s.Assembler.Enrich(ctx, viewerID, tweets)
	if err != nil {
		return nil, err
	}
	for i := range items {
		info := ranked[i].Explanation
		items[i].RecommendationInfo = &info
	}
	return items, nil
}

func (s *FeedService) popular(ctx context.Context, viewerID string, limit int) ([]domain.EnrichedTweet, error) {
	recommendationFallback.Inc()
	zerolog.Ctx(ctx).Debug().Str("user_id", viewerID).Msg("no like history, serving popular tweets")

	tweets, err := s.load(func() ([]domain.Tweet, error) { return s.Repo.MostLikedTweets(ctx, s.DB, limit) })
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Assembler.Enrich(ctx, viewerID, tweets)
}

// lookupUser resolves a username through the directory.
func (s *FeedService) lookupUser(ctx context.Context, username string) (domain.AuthorInfo, error) {
	users, err := s.Users.UsersByUsernames(ctx, s.DB, []string{username})
	if err != nil {
		return domain.AuthorInfo{}, err
	}
	u, ok := users[username]
	if !ok {
		return domain.AuthorInfo{}, ErrUserNotFound
	}
	return u, nil
}

// GetUserTimeline returns the tweets and retweets of username, newest first.
func (s *FeedService) GetUserTimeline(ctx context.Context, viewerID, username string, limit int) ([]domain.EnrichedTweet, error) {
	ctx, span := s.start(ctx, "GetUserTimeline", kindTimeline, viewerID, limit)
	defer span.End()
	span.SetAttributes(attribute.String("profile.username", username))

	limit, err := s.clampLimit(limit)
	if err != nil {
		return nil, err
	}
	user, err := s.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}
	tweets, err := s.load(func() ([]domain.Tweet, error) {
		return s.Repo.TweetsByAuthors(ctx, s.DB, []string{user.ID}, limit)
	})
	if err != nil {
		return nil, err
	}
	return s.Assembler.Enrich(ctx, viewerID, tweets)
}

// GetLikedTweets returns the tweets username liked, most recent like first.
func (s *FeedService) GetLikedTweets(ctx context.Context, viewerID, username string, limit int) ([]domain.EnrichedTweet, error) {
	ctx, span := s.start(ctx, "GetLikedTweets", kindLiked, viewerID, limit)
	defer span.End()
	span.SetAttributes(attribute.String("profile.username", username))

	limit, err := s.clampLimit(limit)
	if err != nil {
		return nil, err
	}
	user, err := s.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}
	ids, err := s.Repo.LikedTweetIDs(ctx, s.DB, user.ID)
	if err != nil {
		return nil, err
	}
	tweets, err := s.load(func() ([]domain.Tweet, error) { return s.newestLiked(ctx, ids, limit) })
	if err != nil {
		return nil, err
	}
	return s.Assembler.Enrich(ctx, viewerID, tweets)
}

// newestLiked walks ids (oldest like first) from the end in pages of limit
// until limit live tweets are found, so deleted tweets never shorten a page
// while older likes remain.
func (s *FeedService) newestLiked(ctx context.Context, ids []string, limit int) ([]domain.Tweet, error) {
	out := make([]domain.Tweet, 0, limit)
	end := len(ids)
	for end > 0 && len(out) < limit {
		start := end - limit
		if start < 0 {
			start = 0
		}
		chunk := make([]string, 0, end-start)
		for i := end - 1; i >= start; i-- {
			chunk = append(chunk, ids[i])
		}
		tweets, err := s.Repo.TweetsByIDs(ctx, s.DB, chunk)
		if err != nil {
			return nil, err
		}
		out = append(out, tweets...)
		end = start
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetRetweetedTweets returns the originals username retweeted, most recent
// retweet first. Originals deleted since are dropped.
func (s *FeedService) GetRetweetedTweets(ctx context.Context, viewerID, username string, limit int) ([]domain.EnrichedTweet, error) {
	ctx, span := s.start(ctx, "GetRetweetedTweets", kindRetweeted, viewerID, limit)
	defer span.End()
	span.SetAttributes(attribute.String("profile.username", username))

	limit, err := s.clampLimit(limit)
	if err != nil {
		return nil, err
	}
	user, err := s.lookupUser(ctx, username)
	if err != nil {
		return nil, err
	}
	ids, err := s.Repo.RetweetedTweetIDs(ctx, s.DB, user.ID, limit)
	if err != nil {
		return nil, err
	}
	tweets, err := s.load(func() ([]domain.Tweet, error) { return s.Repo.TweetsByIDs(ctx, s.DB, ids) })
	if err != nil {
		return nil, err
	}
	return s.Assembler.Enrich(ctx, viewerID, tweets)
}

// GetBookmarks returns the tweets viewerID bookmarked, most recent bookmark
// first.
func (s *FeedService) GetBookmarks(ctx context.Context, viewerID string, limit int) ([]domain.EnrichedTweet, error) {
	ctx, span := s.start(ctx, "GetBookmarks", kindBookmarks, viewerID, limit)
	defer span.End()

	limit, err := s.clampLimit(limit)
	if err != nil {
		return nil, err
	}
	ids, err := s.Repo.BookmarkedTweetIDs(ctx, s.DB, viewerID, limit)
	if err != nil {
		return nil, err
	}
	tweets, err := s.load(func() ([]domain.Tweet, error) { return s.Repo.TweetsByIDs(ctx, s.DB, ids) })
	if err != nil {
		return nil, err
	}
	return s.Assembler.Enrich(ctx, viewerID, tweets)
}

// Search matches query against content, author usernames and tags, newest
// first. page is 1-based; values below 1 select the first page.
func (s *FeedService) Search(ctx context.Context, viewerID, query string, page, pageSize int) ([]domain.EnrichedTweet, error) {
	ctx, span := s.start(ctx, "Search", kindSearch, viewerID, pageSize)
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	pageSize, err := s.clampLimit(pageSize)
	if err != nil {
		return nil, err
	}
	offset := utils.Offset(page, pageSize)
	span.SetAttributes(attribute.Int("page", page))

	tweets, err := s.load(func() ([]domain.Tweet, error) {
		return s.Repo.SearchTweets(ctx, s.DB, query, offset, pageSize)
	})
	if err != nil {
		return nil, err
	}
	return s.Assembler.Enrich(ctx, viewerID, tweets)
}
