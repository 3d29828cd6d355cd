// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are stable, lowercase snake_case strings returned in the `code` field
// of ErrorResponse. Clients branch on the code; the message is for humans.
// Service errors are translated in one place, statusFor, so every endpoint
// reports the same condition the same way.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "conflict",
//	  "message": "tweet already liked"
//	}
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/tbourn/go-social-feed/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeInvalidWindow = "invalid_window"
	ErrCodeTimeout       = "timeout"
	ErrCodeCanceled      = "request_canceled"
)

// statusFor maps a service error to an HTTP status, an error code and a
// client-safe message. Unknown errors become 500 internal_error with a
// generic message; the cause is logged by fail.
func statusFor(err error) (int, string, string) {
	switch {
	case errors.Is(err, services.ErrTweetNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		return http.StatusNotFound, ErrCodeNotFound, err.Error()

	case errors.Is(err, services.ErrInvalidWindow):
		return http.StatusBadRequest, ErrCodeInvalidWindow, err.Error()

	case errors.Is(err, services.ErrInvalidLimit),
		errors.Is(err, services.ErrInvalidEmotion),
		errors.Is(err, services.ErrEmptyContent),
		errors.Is(err, services.ErrEmptyQuery),
		errors.Is(err, services.ErrContentTooLong),
		errors.Is(err, services.ErrInvalidMedia),
		errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, services.ErrFollowSelf),
		errors.Is(err, services.ErrCannotRetweetRetweet):
		return http.StatusBadRequest, ErrCodeBadRequest, err.Error()

	case errors.Is(err, services.ErrAlreadyLiked),
		errors.Is(err, services.ErrNotLiked),
		errors.Is(err, services.ErrAlreadyRetweeted),
		errors.Is(err, services.ErrNotRetweeted),
		errors.Is(err, services.ErrAlreadyFollowing),
		errors.Is(err, services.ErrNotFollowing),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrAlreadyBookmarked),
		errors.Is(err, services.ErrNotBookmarked):
		return http.StatusConflict, ErrCodeConflict, err.Error()

	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden, "not allowed to modify this resource"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout, "request timed out"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, ErrCodeCanceled, "request canceled"
	}
	return http.StatusInternalServerError, ErrCodeInternal, "internal error"
}
