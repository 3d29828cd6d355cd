package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
)

// BreakerOptions tunes the circuit breaker in front of a UserDirectory.
type BreakerOptions struct {
	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32
	// Interval resets the failure counts while closed; 0 never resets.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// FailureThreshold is the number of consecutive failures that opens it.
	FailureThreshold uint32
}

// BreakerDirectory guards a UserDirectory with a circuit breaker so a failing
// user store stops being queried for a while. While open, every call fails
// fast with gobreaker.ErrOpenState.
type BreakerDirectory struct {
	next UserDirectory
	cb   *gobreaker.CircuitBreaker[map[string]domain.AuthorInfo]
}

// NewBreakerDirectory wraps next. Cancelled or timed out requests do not
// count as failures.
func NewBreakerDirectory(next UserDirectory, opts BreakerOptions) *BreakerDirectory {
	threshold := opts.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	directoryBreakerOpen.Set(0)

	cb := gobreaker.NewCircuitBreaker[map[string]domain.AuthorInfo](gobreaker.Settings{
		Name:        "user-directory",
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			if to == gobreaker.StateOpen {
				directoryBreakerOpen.Set(1)
			} else {
				directoryBreakerOpen.Set(0)
			}
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})
	return &BreakerDirectory{next: next, cb: cb}
}

// UsersByIDs resolves ids through the breaker.
func (d *BreakerDirectory) UsersByIDs(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.AuthorInfo, error) {
	return d.cb.Execute(func() (map[string]domain.AuthorInfo, error) {
		return d.next.UsersByIDs(ctx, db, ids)
	})
}

// UsersByUsernames resolves usernames through the breaker.
func (d *BreakerDirectory) UsersByUsernames(ctx context.Context, db *gorm.DB, usernames []string) (map[string]domain.AuthorInfo, error) {
	return d.cb.Execute(func() (map[string]domain.AuthorInfo, error) {
		return d.next.UsersByUsernames(ctx, db, usernames)
	})
}

// State reports the breaker state.
func (d *BreakerDirectory) State() gobreaker.State { return d.cb.State() }
