// Package httpapi wires the HTTP transport (Gin) to the feed, trend and
// interaction services. It owns the middleware chain (tracing, correlation
// ids, logging, recovery, metrics, compression, deadlines, idempotency, rate
// limiting, CORS and security headers) and mounts the public API under the
// configured base path.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/docs"
	"github.com/tbourn/go-social-feed/internal/config"
	"github.com/tbourn/go-social-feed/internal/domain"
	"github.com/tbourn/go-social-feed/internal/http/handlers"
	"github.com/tbourn/go-social-feed/internal/http/middleware"
	"github.com/tbourn/go-social-feed/internal/ranking"
	"github.com/tbourn/go-social-feed/internal/repo"
	"github.com/tbourn/go-social-feed/internal/services"
)

// feedRepoShim adapts the repository free functions to services.FeedRepo.
type feedRepoShim struct{}

func (feedRepoShim) RecentTweets(ctx context.Context, db *gorm.DB, limit int) ([]domain.Tweet, error) {
	return repo.RecentTweets(ctx, db, limit)
}

func (feedRepoShim) TweetsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Tweet, error) {
	return repo.TweetsByIDs(ctx, db, ids)
}

func (feedRepoShim) TweetsByAuthors(ctx context.Context, db *gorm.DB, authorIDs []string, limit int) ([]domain.Tweet, error) {
	return repo.TweetsByAuthors(ctx, db, authorIDs, limit)
}

func (feedRepoShim) MostLikedTweets(ctx context.Context, db *gorm.DB, limit int) ([]domain.Tweet, error) {
	return repo.MostLikedTweets(ctx, db, limit)
}

func (feedRepoShim) RecommendationCandidates(ctx context.Context, db *gorm.DB, q repo.CandidateQuery) ([]domain.Tweet, error) {
	return repo.RecommendationCandidates(ctx, db, q)
}

func (feedRepoShim) TweetsInWindow(ctx context.Context, db *gorm.DB, since, until time.Time) ([]domain.Tweet, error) {
	return repo.TweetsInWindow(ctx, db, since, until)
}

func (feedRepoShim) SearchTweets(ctx context.Context, db *gorm.DB, query string, offset, limit int) ([]domain.Tweet, error) {
	return repo.SearchTweets(ctx, db, query, offset, limit)
}

func (feedRepoShim) LikedTweetIDs(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	return repo.LikedTweetIDs(ctx, db, userID)
}

func (feedRepoShim) RetweetedTweetIDs(ctx context.Context, db *gorm.DB, userID string, limit int) ([]string, error) {
	return repo.RetweetedTweetIDs(ctx, db, userID, limit)
}

func (feedRepoShim) BookmarkedTweetIDs(ctx context.Context, db *gorm.DB, userID string, limit int) ([]string, error) {
	return repo.BookmarkedTweetIDs(ctx, db, userID, limit)
}

func (feedRepoShim) LikedSet(ctx context.Context, db *gorm.DB, tweetIDs []string, userID string) (map[string]bool, error) {
	return repo.LikedSet(ctx, db, tweetIDs, userID)
}

func (feedRepoShim) RetweetedSet(ctx context.Context, db *gorm.DB, tweetIDs []string, userID string) (map[string]bool, error) {
	return repo.RetweetedSet(ctx, db, tweetIDs, userID)
}

func (feedRepoShim) ReactionSummaries(ctx context.Context, db *gorm.DB, tweetIDs []string, viewerID string) (map[string]domain.ReactionSummary, error) {
	return repo.ReactionSummaries(ctx, db, tweetIDs, viewerID)
}

func (feedRepoShim) FolloweeIDs(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	return repo.FolloweeIDs(ctx, db, userID)
}

// userDirectoryShim serves services.UserDirectory from the users table.
type userDirectoryShim struct{}

func (userDirectoryShim) UsersByIDs(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.AuthorInfo, error) {
	return repo.UsersByIDs(ctx, db, ids)
}

func (userDirectoryShim) UsersByUsernames(ctx context.Context, db *gorm.DB, usernames []string) (map[string]domain.AuthorInfo, error) {
	return repo.UsersByUsernames(ctx, db, usernames)
}

// idempotencyScope names the resource a POST route under base creates. Other
// routes are never looked up.
func idempotencyScope(base string) func(*gin.Context) string {
	base = strings.TrimSuffix(base, "/")
	return func(c *gin.Context) string {
		if c.Request.Method != http.MethodPost {
			return ""
		}
		switch strings.TrimPrefix(c.FullPath(), base) {
		case "/tweets":
			return services.ScopeTweets
		case "/tweets/:id/comments":
			return services.ScopeComments
		}
		return ""
	}
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID and Identity: correlation id and caller
//  3. Logger: structured access log with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip
//  8. Deadline: per-request timeout
//  9. Idempotency validator (before rate limiter to allow bypass on replay)
//  10. Rate limiter (per user/IP, bypass on replay)
//  11. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID(), middleware.Identity())

	// 3) Structured logging with redaction
	r.Use(middleware.Logger(middleware.LogOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics("/metrics", "/health"))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Compress feed pages
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 8) Bound every request; services observe ctx between stages
	r.Use(middleware.Deadline(cfg.RequestTimeout))

	// 9) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
			Scope:  idempotencyScope(cfg.APIBasePath),
		},
		func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
			if errors.Is(err, repo.ErrNotFound) {
				return false, nil
			}
			if err != nil {
				return false, err
			}
			return rec != nil, nil
		},
	))

	// 10) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 11) CORS posture (allow all if none configured)
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match",
		middleware.UserIDHeader, middleware.HeaderIdempotencyKey}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag", handlers.HeaderIdempotencyReplayed}
	methods := []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     methods,
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     methods,
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(newServices(db, cfg))

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Feeds
		api.GET("/feed", h.GetFeed)
		api.GET("/feed/following", h.GetFollowingFeed)
		api.GET("/recommendations", h.GetRecommendations)
		api.GET("/trends", h.GetTrends)

		// Tweets
		api.GET("/tweets/search", h.Search)
		api.POST("/tweets", h.CreateTweet)
		api.DELETE("/tweets/:id", h.DeleteTweet)
		api.POST("/tweets/:id/like", h.Like)
		api.DELETE("/tweets/:id/like", h.Unlike)
		api.POST("/tweets/:id/retweet", h.Retweet)
		api.DELETE("/tweets/:id/retweet", h.Unretweet)
		api.POST("/tweets/:id/reactions", h.React)
		api.POST("/tweets/:id/comments", h.Comment)
		api.GET("/tweets/:id/comments", h.ListComments)
		api.POST("/tweets/:id/bookmark", h.Bookmark)
		api.DELETE("/tweets/:id/bookmark", h.Unbookmark)
		api.GET("/bookmarks", h.GetBookmarks)

		// Users
		api.POST("/users", h.CreateUser)
		api.GET("/users/:username/tweets", h.GetUserTimeline)
		api.GET("/users/:username/liked-tweets", h.GetLikedTweets)
		api.GET("/users/:username/retweets", h.GetRetweetedTweets)
		api.POST("/users/:username/follow", h.Follow)
		api.DELETE("/users/:username/follow", h.Unfollow)
		api.GET("/users/:username/followers", h.GetFollowers)
		api.GET("/users/:username/following", h.GetFollowing)
		api.GET("/users/:username/follow-status", h.GetFollowStatus)
		api.GET("/users/:username/stats", h.GetUserStats)

		// Notifications
		api.GET("/notifications", h.ListNotifications)
		api.GET("/notifications/count", h.CountUnreadNotifications)
		api.PUT("/notifications/read-all", h.MarkAllNotificationsRead)
		api.PUT("/notifications/:id/read", h.MarkNotificationRead)
	}
}

// newServices builds the application services from config. The user
// directory sits behind a circuit breaker so that author projections degrade
// to null instead of failing feeds.
func newServices(db *gorm.DB, cfg config.Config) (handlers.Services, handlers.Options) {
	users := services.NewBreakerDirectory(userDirectoryShim{}, services.BreakerOptions{
		MaxRequests:      cfg.Breaker.MaxRequests,
		Interval:         cfg.Breaker.Interval,
		Timeout:          cfg.Breaker.Timeout,
		FailureThreshold: cfg.Breaker.FailureThreshold,
	})

	score := cfg.Feed.Score
	feed := services.NewFeedService(db, feedRepoShim{}, users, services.FeedOptions{
		MaxLimit:      cfg.Feed.MaxLimit,
		CandidatePool: cfg.Feed.CandidatePool,
		TopTags:       cfg.Feed.TopTags,
		TopAuthors:    cfg.Feed.TopAuthors,
		Weights: ranking.Weights{
			Tag:            score.TagWeight,
			Author:         score.AuthorWeight,
			LikeDivisor:    score.LikeDivisor,
			RetweetDivisor: score.RetweetDivisor,
			CommentDivisor: score.CommentDivisor,
		},
	})

	trends := services.NewTrendService(db, feedRepoShim{})

	writes := services.NewInteractionService(db)
	if cfg.IdempotencyTTL > 0 {
		writes.IdempotencyTTL = cfg.IdempotencyTTL
	}

	social := services.NewSocialService(db)
	if cfg.Feed.MaxLimit > 0 {
		social.MaxLimit = cfg.Feed.MaxLimit
	}

	svc := handlers.Services{
		Feed:          feed,
		Trends:        trends,
		Writes:        writes,
		Social:        social,
		Notifications: services.NewNotificationService(db),
	}
	return svc, handlers.Options{
		DefaultLimit: cfg.Feed.DefaultLimit,
		TrendWindow:  cfg.Feed.TrendWindow,
		TrendLimit:   cfg.Feed.TrendLimit,
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
