// Package services defines the business logic for feeds, recommendations,
// trends and user interactions. This file centralizes service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Lookup errors.
var (
	// ErrTweetNotFound indicates that the tweet does not exist or was deleted.
	ErrTweetNotFound = errors.New("tweet not found")

	// ErrUserNotFound indicates that no user has the requested id or username.
	ErrUserNotFound = errors.New("user not found")

	// ErrNotificationNotFound indicates that the notification does not exist
	// or belongs to someone else.
	ErrNotificationNotFound = errors.New("notification not found")
)

// Validation errors.
var (
	// ErrInvalidWindow is returned by trend queries with a non-positive window
	// or limit.
	ErrInvalidWindow = errors.New("window and limit must be positive")

	// ErrInvalidLimit is returned when a page size is not positive.
	ErrInvalidLimit = errors.New("limit must be positive")

	// ErrInvalidEmotion is returned when a reaction is outside the supported
	// emotion set or its confidence is outside [0,1].
	ErrInvalidEmotion = errors.New("invalid emotion")

	// ErrEmptyContent is returned when a tweet or comment has no text.
	ErrEmptyContent = errors.New("content is empty")

	// ErrEmptyQuery is returned when a search query is blank.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrContentTooLong is returned when text exceeds the configured rune limit.
	ErrContentTooLong = errors.New("content too long")

	// ErrInvalidMedia is returned when a media type is neither image nor video.
	ErrInvalidMedia = errors.New("media type must be image or video")

	// ErrInvalidUsername is returned when a username is empty or malformed.
	ErrInvalidUsername = errors.New("invalid username")
)

// Conflict errors.
var (
	ErrAlreadyLiked         = errors.New("tweet already liked")
	ErrNotLiked             = errors.New("tweet not liked")
	ErrAlreadyRetweeted     = errors.New("tweet already retweeted")
	ErrNotRetweeted         = errors.New("tweet not retweeted")
	ErrCannotRetweetRetweet = errors.New("cannot retweet a retweet")
	ErrAlreadyFollowing     = errors.New("already following")
	ErrNotFollowing         = errors.New("not following")
	ErrFollowSelf           = errors.New("cannot follow yourself")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrAlreadyBookmarked    = errors.New("tweet already bookmarked")
	ErrNotBookmarked        = errors.New("tweet not bookmarked")

	// ErrForbidden is returned when a user modifies a resource they do not own.
	ErrForbidden = errors.New("forbidden")
)
