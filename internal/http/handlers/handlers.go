// Package handlers exposes the feed, trend, tweet, user and notification
// endpoints.
//
// Handlers are transport-thin: they parse and validate input, call the
// application services and translate results and errors into HTTP responses.
// The caller is identified by middleware.Identity; read endpoints accept
// anonymous callers, write endpoints require an identity.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-feed/internal/domain"
	"github.com/tbourn/go-social-feed/internal/http/middleware"
	"github.com/tbourn/go-social-feed/internal/services"
	"github.com/tbourn/go-social-feed/internal/utils"
)

//
// Service contracts (context-aware)
//

// FeedService serves read-only tweet lists decorated for a viewer.
type FeedService interface {
	GetFeed(ctx context.Context, viewerID string, limit int) ([]domain.EnrichedTweet, error)
	GetFollowingFeed(ctx context.Context, viewerID string, limit int) ([]domain.EnrichedTweet, error)
	GetRecommendations(ctx context.Context, viewerID string, limit int) ([]domain.EnrichedTweet, error)
	GetUserTimeline(ctx context.Context, viewerID, username string, limit int) ([]domain.EnrichedTweet, error)
	GetLikedTweets(ctx context.Context, viewerID, username string, limit int) ([]domain.EnrichedTweet, error)
	GetRetweetedTweets(ctx context.Context, viewerID, username string, limit int) ([]domain.EnrichedTweet, error)
	GetBookmarks(ctx context.Context, viewerID string, limit int) ([]domain.EnrichedTweet, error)
	Search(ctx context.Context, viewerID, query string, page, pageSize int) ([]domain.EnrichedTweet, error)
}

// TrendService reports trending hashtags.
type TrendService interface {
	GetTrending(ctx context.Context, window time.Duration, limit int) ([]domain.Trend, error)
}

// InteractionService performs writes on behalf of a user.
type InteractionService interface {
	CreateUser(ctx context.Context, username string, bio, pictureID *string) (*domain.User, error)
	Follow(ctx context.Context, followerID, username string) error
	Unfollow(ctx context.Context, followerID, username string) error
	CreateTweet(ctx context.Context, authorID string, in services.NewTweet, idemKey string) (*domain.Tweet, bool, error)
	DeleteTweet(ctx context.Context, userID, tweetID string) error
	Retweet(ctx context.Context, userID, tweetID string) (*domain.Tweet, error)
	Unretweet(ctx context.Context, userID, tweetID string) error
	Like(ctx context.Context, userID, tweetID string) error
	Unlike(ctx context.Context, userID, tweetID string) error
	React(ctx context.Context, userID, tweetID, emotion string, confidence float64) (domain.ReactionSummary, error)
	Comment(ctx context.Context, userID, tweetID, content, idemKey string) (*domain.Comment, bool, error)
	Bookmark(ctx context.Context, userID, tweetID string) error
	Unbookmark(ctx context.Context, userID, tweetID string) error
}

// SocialService reads comment threads and the follow graph.
type SocialService interface {
	Comments(ctx context.Context, tweetID string, limit int) ([]domain.Comment, error)
	Followers(ctx context.Context, username string, limit int) ([]domain.AuthorInfo, error)
	Following(ctx context.Context, username string, limit int) ([]domain.AuthorInfo, error)
	FollowStatus(ctx context.Context, viewerID, username string) (bool, error)
	Stats(ctx context.Context, username string) (domain.UserStats, error)
}

// NotificationService reads and acknowledges the caller's notifications.
type NotificationService interface {
	List(ctx context.Context, userID string) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, id string) error
}

//
// Handler wiring
//

// Options holds request defaults.
type Options struct {
	// DefaultLimit is used when ?limit is absent; 0 means 20.
	DefaultLimit int
	// TrendWindow is used when ?window_hours is absent; 0 means 24h.
	TrendWindow time.Duration
	// TrendLimit is used when ?limit is absent on /trends; 0 means 10.
	TrendLimit int
}

// Services bundles the application services the handlers call.
type Services struct {
	Feed          FeedService
	Trends        TrendService
	Writes        InteractionService
	Social        SocialService
	Notifications NotificationService
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	feed   FeedService
	trends TrendService
	writes InteractionService
	social SocialService
	notes  NotificationService
	opts   Options
}

// New returns Handlers bound to the given services.
func New(svc Services, opts Options) *Handlers {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 20
	}
	if opts.TrendWindow <= 0 {
		opts.TrendWindow = 24 * time.Hour
	}
	if opts.TrendLimit <= 0 {
		opts.TrendLimit = 10
	}
	return &Handlers{
		feed:   svc.Feed,
		trends: svc.Trends,
		writes: svc.Writes,
		social: svc.Social,
		notes:  svc.Notifications,
		opts:   opts,
	}
}

//
// Helpers
//

// requireUser returns the caller or fails with 401.
func requireUser(c *gin.Context) (string, bool) {
	uid := middleware.UserID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, middleware.UserIDHeader+" header required")
		return "", false
	}
	return uid, true
}

// queryInt reads an integer query parameter, failing with 400 when it is
// malformed. Range checks are left to the services.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	n, valid := utils.QueryInt(c.Query(name), def)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be an integer")
		return 0, false
	}
	return n, true
}
