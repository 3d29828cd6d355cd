// Tweet HTTP handlers.
//
// This file exposes the write endpoints on tweets:
//   - POST   /tweets                 (create, Idempotency-Key aware)
//   - DELETE /tweets/{id}            (delete own tweet or retweet)
//   - POST   /tweets/{id}/like       DELETE /tweets/{id}/like
//   - POST   /tweets/{id}/retweet    DELETE /tweets/{id}/retweet
//   - POST   /tweets/{id}/reactions  (emotion reaction)
//   - POST   /tweets/{id}/comments   (comment, Idempotency-Key aware)
//   - GET    /tweets/{id}/comments   (newest first)
//   - POST   /tweets/{id}/bookmark   DELETE /tweets/{id}/bookmark
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-feed/internal/domain"
	"github.com/tbourn/go-social-feed/internal/http/middleware"
	"github.com/tbourn/go-social-feed/internal/services"
)

// HeaderIdempotencyReplayed marks a response served from an earlier request.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

// CreateTweetRequest is the JSON payload for posting a tweet.
type CreateTweetRequest struct {
	// Content is the tweet text; #hashtags in it become tags.
	Content string `json:"content" binding:"required" example:"Shipping the new feed today #golang"`
	// Tags are merged with the hashtags found in Content.
	Tags      []string `json:"tags" example:"release"`
	MediaID   *string  `json:"media_id" example:"m_123"`
	MediaType *string  `json:"media_type" enums:"image,video"`
}

// ReactRequest is the JSON payload for an emotion reaction.
type ReactRequest struct {
	Emotion string `json:"emotion" binding:"required" enums:"happy,sad,angry,surprised,neutral,disgust,fear" example:"happy"`
	// Confidence in [0,1]; defaults to 1.
	Confidence *float64 `json:"confidence" example:"0.9"`
}

// CommentRequest is the JSON payload for commenting on a tweet.
type CommentRequest struct {
	Content string `json:"content" binding:"required" example:"Nice one"`
}

// CommentListResponse wraps the comments of one tweet.
type CommentListResponse struct {
	Comments []domain.Comment `json:"comments"`
	Count    int              `json:"count" example:"3"`
}

// created answers 201, or 200 with Idempotency-Replayed when the resource
// came from an earlier request.
func created(c *gin.Context, replayed bool, body any) {
	if replayed {
		c.Header(HeaderIdempotencyReplayed, "true")
		ok(c, http.StatusOK, body)
		return
	}
	ok(c, http.StatusCreated, body)
}

func idempotencyKey(c *gin.Context) string {
	key, _ := middleware.GetIdempotencyKey(c)
	return key
}

// CreateTweet godoc
// @ID          createTweet
// @Summary     Post a tweet
// @Description Creates a tweet for the caller. Hashtags in the content are added to the tags.
// @Description A repeated Idempotency-Key returns the original tweet with status 200.
// @Tags        Tweets
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true  "Caller ID"
// @Param       Idempotency-Key  header  string  false "Safe-retry key"
// @Param       body             body    handlers.CreateTweetRequest  true  "Tweet payload"
//
// @Success     201  {object} domain.Tweet
// @Success     200  {object} domain.Tweet "Idempotent replay"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /tweets [post]
func (h *Handlers) CreateTweet(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	var req CreateTweetRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	t, replayed, err := h.writes.CreateTweet(c.Request.Context(), uid, services.NewTweet{
		Content:   req.Content,
		Tags:      req.Tags,
		MediaID:   req.MediaID,
		MediaType: req.MediaType,
	}, idempotencyKey(c))
	if err != nil {
		failErr(c, err)
		return
	}
	created(c, replayed, t)
}

// DeleteTweet godoc
// @ID          deleteTweet
// @Summary     Delete a tweet
// @Description Deletes a tweet or retweet owned by the caller.
// @Tags        Tweets
//
// @Param       X-User-ID  header  string  true  "Caller ID"
// @Param       id         path    string  true  "Tweet ID"
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Tweet not found"
// @Router      /tweets/{id} [delete]
func (h *Handlers) DeleteTweet(c *gin.Context) {
	h.tweetAction(c, h.writes.DeleteTweet)
}

// Like godoc
// @ID          likeTweet
// @Summary     Like a tweet
// @Tags        Tweets
//
// @Param       X-User-ID  header  string  true  "Caller ID"
// @Param       id         path    string  true  "Tweet ID"
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     404  {object} handlers.ErrorResponse "Tweet not found"
// @Failure     409  {object} handlers.ErrorResponse "Already liked"
// @Router      /tweets/{id}/like [post]
func (h *Handlers) Like(c *gin.Context) {
	h.tweetAction(c, h.writes.Like)
}

// Unlike godoc
// @ID          unlikeTweet
// @Summary     Remove a like
// @Tags        Tweets
//
// @Param       X-User-ID  header  string  true  "Caller ID"
// @Param       id         path    string  true  "Tweet ID"
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     409  {object} handlers.ErrorResponse "Not liked"
// @Router      /tweets/{id}/like [delete]
func (h *Handlers) Unlike(c *gin.Context) {
	h.tweetAction(c, h.writes.Unlike)
}

// Unretweet godoc
// @ID          unretweet
// @Summary     Remove a retweet
// @Tags        Tweets
//
// @Param       X-User-ID  header  string  true  "Caller ID"
// @Param       id         path    string  true  "Original tweet ID"
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     409  {object} handlers.ErrorResponse "Not retweeted"
// @Router      /tweets/{id}/retweet [delete]
func (h *Handlers) Unretweet(c *gin.Context) {
	h.tweetAction(c, h.writes.Unretweet)
}

// tweetAction runs a (user, tweet) write that has no response body.
func (h *Handlers) tweetAction(c *gin.Context, fn func(ctx context.Context, userID, tweetID string) error) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	if err := fn(c.Request.Context(), uid, c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// Retweet godoc
// @ID          retweet
// @Summary     Retweet a tweet
// @Description Creates the caller's retweet. Retweets cannot be retweeted and a tweet can be
// @Description retweeted once per user.
// @Tags        Tweets
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller ID"
// @Param       id         path    string  true  "Tweet ID"
//
// @Success     201  {object} domain.Tweet
// @Failure     400  {object} handlers.ErrorResponse "Cannot retweet a retweet"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     404  {object} handlers.ErrorResponse "Tweet not found"
// @Failure     409  {object} handlers.ErrorResponse "Already retweeted"
// @Router      /tweets/{id}/retweet [post]
func (h *Handlers) Retweet(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	rt, err := h.writes.Retweet(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, rt)
}

// React godoc
// @ID          reactToTweet
// @Summary     React with an emotion
// @Description Sets the caller's emotion on a tweet, replacing any earlier one, and returns the
// @Description updated reaction summary.
// @Tags        Tweets
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Caller ID"
// @Param       id         path    string  true  "Tweet ID"
// @Param       body       body    handlers.ReactRequest  true  "Reaction"
//
// @Success     200  {object} domain.ReactionSummary
// @Failure     400  {object} handlers.ErrorResponse "Invalid emotion"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     404  {object} handlers.ErrorResponse "Tweet not found"
// @Router      /tweets/{id}/reactions [post]
func (h *Handlers) React(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	var req ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "emotion required")
		return
	}
	confidence := 1.0
	if req.Confidence != nil {
		confidence = *req.Confidence
	}

	summary, err := h.writes.React(c.Request.Context(), uid, c.Param("id"), req.Emotion, confidence)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, summary)
}

// Comment godoc
// @ID          commentOnTweet
// @Summary     Comment on a tweet
// @Description A repeated Idempotency-Key returns the original comment with status 200.
// @Tags        Tweets
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true  "Caller ID"
// @Param       Idempotency-Key  header  string  false "Safe-retry key"
// @Param       id               path    string  true  "Tweet ID"
// @Param       body             body    handlers.CommentRequest  true  "Comment payload"
//
// @Success     201  {object} domain.Comment
// @Success     200  {object} domain.Comment "Idempotent replay"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     404  {object} handlers.ErrorResponse "Tweet not found"
// @Router      /tweets/{id}/comments [post]
func (h *Handlers) Comment(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	cm, replayed, err := h.writes.Comment(c.Request.Context(), uid, c.Param("id"), req.Content, idempotencyKey(c))
	if err != nil {
		failErr(c, err)
		return
	}
	created(c, replayed, cm)
}

// ListComments godoc
// @ID          listComments
// @Summary     Comments on a tweet
// @Description Returns the comments on a tweet, newest first.
// @Tags        Tweets
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       id             path    string  true  "Tweet ID"
// @Param       limit          query   int     false "Max items" minimum(1) maximum(50) default(20)
//
// @Success     200  {object} handlers.CommentListResponse
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Tweet not found"
// @Router      /tweets/{id}/comments [get]
func (h *Handlers) ListComments(c *gin.Context) {
	limit, valid := queryInt(c, "limit", h.opts.DefaultLimit)
	if !valid {
		return
	}
	comments, err := h.social.Comments(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		failErr(c, err)
		return
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	okETag(c, CommentListResponse{Comments: comments, Count: len(comments)})
}

// Bookmark godoc
// @ID          bookmarkTweet
// @Summary     Bookmark a tweet
// @Tags        Tweets
//
// @Param       X-User-ID  header  string  true  "Caller ID"
// @Param       id         path    string  true  "Tweet ID"
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     404  {object} handlers.ErrorResponse "Tweet not found"
// @Failure     409  {object} handlers.ErrorResponse "Already bookmarked"
// @Router      /tweets/{id}/bookmark [post]
func (h *Handlers) Bookmark(c *gin.Context) {
	h.tweetAction(c, h.writes.Bookmark)
}

// Unbookmark godoc
// @ID          unbookmarkTweet
// @Summary     Remove a bookmark
// @Tags        Tweets
//
// @Param       X-User-ID  header  string  true  "Caller ID"
// @Param       id         path    string  true  "Tweet ID"
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Missing identity"
// @Failure     409  {object} handlers.ErrorResponse "Not bookmarked"
// @Router      /tweets/{id}/bookmark [delete]
func (h *Handlers) Unbookmark(c *gin.Context) {
	h.tweetAction(c, h.writes.Unbookmark)
}
