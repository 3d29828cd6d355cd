// Feed HTTP handlers.
//
// This file exposes the read endpoints that return tweet lists:
//   - GET /feed                          (newest tweets)
//   - GET /feed/following                (viewer and followees)
//   - GET /recommendations               (personalized, popular fallback)
//   - GET /tweets/search                 (paginated search)
//   - GET /users/{username}/tweets       (user timeline)
//   - GET /users/{username}/liked-tweets (tweets a user liked)
//   - GET /users/{username}/retweets     (originals a user retweeted)
//   - GET /bookmarks                     (the caller's bookmarks)
//
// All of them answer with a weak ETag and honor If-None-Match.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-feed/internal/domain"
	"github.com/tbourn/go-social-feed/internal/http/middleware"
	"github.com/tbourn/go-social-feed/internal/utils"
)

// TweetListResponse wraps a list of enriched tweets.
type TweetListResponse struct {
	Tweets []domain.EnrichedTweet `json:"tweets"`
	Count  int                    `json:"count" example:"20"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Tweets   []domain.EnrichedTweet `json:"tweets"`
	Page     int                    `json:"page" example:"1"`
	PageSize int                    `json:"page_size" example:"20"`
}

func listResponse(items []domain.EnrichedTweet) TweetListResponse {
	if items == nil {
		items = []domain.EnrichedTweet{}
	}
	return TweetListResponse{Tweets: items, Count: len(items)}
}

// list runs a limit-bounded loader and writes the result.
func (h *Handlers) list(c *gin.Context, load func(viewerID string, limit int) ([]domain.EnrichedTweet, error)) {
	limit, valid := queryInt(c, "limit", h.opts.DefaultLimit)
	if !valid {
		return
	}
	items, err := load(middleware.UserID(c), limit)
	if err != nil {
		failErr(c, err)
		return
	}
	okETag(c, listResponse(items))
}

// GetFeed godoc
// @ID          getFeed
// @Summary     Home feed
// @Description Returns the newest tweets, newest first, decorated for the caller.
// @Tags        Feed
// @Produce     json
//
// @Param       X-User-ID      header  string  false "Viewer ID; anonymous when absent"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       limit          query   int     false "Max items" minimum(1) maximum(50) default(20)
//
// @Success     200  {object} handlers.TweetListResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     504  {object} handlers.ErrorResponse "Timeout"
// @Router      /feed [get]
func (h *Handlers) GetFeed(c *gin.Context) {
	h.list(c, func(viewerID string, limit int) ([]domain.EnrichedTweet, error) {
		return h.feed.GetFeed(c.Request.Context(), viewerID, limit)
	})
}

// GetFollowingFeed godoc
// @ID          getFollowingFeed
// @Summary     Following feed
// @Description Returns tweets and retweets by the caller and the users they follow, newest first.
// @Tags        Feed
// @Produce     json
//
// @Param       X-User-ID      header  string  false "Viewer ID"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       limit          query   int     false "Max items" minimum(1) maximum(50) default(20)
//
// @Success     200  {object} handlers.TweetListResponse
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     504  {object} handlers.ErrorResponse "Timeout"
// @Router      /feed/following [get]
func (h *Handlers) GetFollowingFeed(c *gin.Context) {
	h.list(c, func(viewerID string, limit int) ([]domain.EnrichedTweet, error) {
		return h.feed.GetFollowingFeed(c.Request.Context(), viewerID, limit)
	})
}

// GetRecommendations godoc
// @ID          getRecommendations
// @Summary     Recommended tweets
// @Description Ranks tweets by the tags and authors the caller liked most. Callers with no
// @Description likes receive the most liked tweets without recommendation_info.
// @Tags        Feed
// @Produce     json
//
// @Param       X-User-ID      header  string  false "Viewer ID"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       limit          query   int     false "Max items" minimum(1) maximum(50) default(20)
//
// @Success     200  {object} handlers.TweetListResponse
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     504  {object} handlers.ErrorResponse "Timeout"
// @Router      /recommendations [get]
func (h *Handlers) GetRecommendations(c *gin.Context) {
	h.list(c, func(viewerID string, limit int) ([]domain.EnrichedTweet, error) {
		return h.feed.GetRecommendations(c.Request.Context(), viewerID, limit)
	})
}

// GetUserTimeline godoc
// @ID          getUserTimeline
// @Summary     User timeline
// @Description Returns the tweets and retweets of a user, newest first.
// @Tags        Users
// @Produce     json
//
// @Param       X-User-ID      header  string  false "Viewer ID"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       username       path    string  true  "Username" example(alice)
// @Param       limit          query   int     false "Max items" minimum(1) maximum(50) default(20)
//
// @Success     200  {object} handlers.TweetListResponse
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /users/{username}/tweets [get]
func (h *Handlers) GetUserTimeline(c *gin.Context) {
	username := c.Param("username")
	h.list(c, func(viewerID string, limit int) ([]domain.EnrichedTweet, error) {
		return h.feed.GetUserTimeline(c.Request.Context(), viewerID, username, limit)
	})
}

// GetLikedTweets godoc
// @ID          getLikedTweets
// @Summary     Tweets liked by a user
// @Description Returns the tweets a user liked, most recent like first.
// @Tags        Users
// @Produce     json
//
// @Param       X-User-ID      header  string  false "Viewer ID"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       username       path    string  true  "Username" example(alice)
// @Param       limit          query   int     false "Max items" minimum(1) maximum(50) default(20)
//
// @Success     200  {object} handlers.TweetListResponse
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /users/{username}/liked-tweets [get]
func (h *Handlers) GetLikedTweets(c *gin.Context) {
	username := c.Param("username")
	h.list(c, func(viewerID string, limit int) ([]domain.EnrichedTweet, error) {
		return h.feed.GetLikedTweets(c.Request.Context(), viewerID, username, limit)
	})
}

// GetRetweetedTweets godoc
// @ID          getRetweetedTweets
// @Summary     Tweets retweeted by a user
// @Description Returns the original tweets a user retweeted, most recent retweet first.
// @Tags        Users
// @Produce     json
//
// @Param       X-User-ID      header  string  false "Viewer ID"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       username       path    string  true  "Username" example(alice)
// @Param       limit          query   int     false "Max items" minimum(1) maximum(50) default(20)
//
// @Success     200  {object} handlers.TweetListResponse
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /users/{username}/retweets [get]
func (h *Handlers) GetRetweetedTweets(c *gin.Context) {
	username := c.Param("username")
	h.list(c, func(viewerID string, limit int) ([]domain.EnrichedTweet, error) {
		return h.feed.GetRetweetedTweets(c.Request.Context(), viewerID, username, limit)
	})
}

// GetBookmarks godoc
// @ID          getBookmarks
// @Summary     Bookmarked tweets
// @Description Returns the tweets the caller bookmarked, most recent bookmark first.
// @Tags        Feed
// @Produce     json
//
// @Param       X-User-ID      header  string  true  "Caller ID"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       limit          query   int     false "Max items" minimum(1) maximum(50) default(20)
//
// @Success     200  {object} handlers.TweetListResponse
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Router      /bookmarks [get]
func (h *Handlers) GetBookmarks(c *gin.Context) {
	if _, authed := requireUser(c); !authed {
		return
	}
	h.list(c, func(viewerID string, limit int) ([]domain.EnrichedTweet, error) {
		return h.feed.GetBookmarks(c.Request.Context(), viewerID, limit)
	})
}

// Search godoc
// @ID          searchTweets
// @Summary     Search tweets
// @Description Matches the query against content, author usernames and tags, newest first.
// @Tags        Feed
// @Produce     json
//
// @Param       X-User-ID      header  string  false "Viewer ID"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       q              query   string  true  "Search text" example(golang)
// @Param       page           query   int     false "Page number, malformed values select page 1" minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page" minimum(1) maximum(50) default(20)
//
// @Success     200  {object} handlers.SearchResponse
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Router      /tweets/search [get]
func (h *Handlers) Search(c *gin.Context) {
	page := utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	pageSize, valid := queryInt(c, "page_size", h.opts.DefaultLimit)
	if !valid {
		return
	}

	items, err := h.feed.Search(c.Request.Context(), middleware.UserID(c), c.Query("q"), page, pageSize)
	if err != nil {
		failErr(c, err)
		return
	}
	if items == nil {
		items = []domain.EnrichedTweet{}
	}
	okETag(c, SearchResponse{Tweets: items, Page: page, PageSize: pageSize})
}
