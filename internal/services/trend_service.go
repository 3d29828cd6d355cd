package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
	"github.com/tbourn/go-social-feed/internal/ranking"
)

// TrendService reports the hashtags used most within a recent window.
type TrendService struct {
	DB   *gorm.DB
	Repo FeedRepo
	// Now is the clock; nil means time.Now.
	Now func() time.Time
	// Samples is the number of sample tweets per trend; 0 means 3.
	Samples int
}

// NewTrendService returns a TrendService on the wall clock.
func NewTrendService(db *gorm.DB, r FeedRepo) *TrendService {
	return &TrendService{DB: db, Repo: r, Now: time.Now, Samples: ranking.DefaultTrendSamples}
}

// GetTrending counts hashtags over tweets created in [now-window, now) and
// returns the top limit tags, most used first. A non-positive window or limit
// is rejected with ErrInvalidWindow before any query runs.
func (s *TrendService) GetTrending(ctx context.Context, window time.Duration, limit int) ([]domain.Trend, error) {
	tr := otel.Tracer("services/TrendService")
	ctx, span := tr.Start(ctx, "GetTrending",
		trace.WithAttributes(
			attribute.String("window", window.String()),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	if window <= 0 || limit <= 0 {
		return nil, ErrInvalidWindow
	}
	feedRequests.WithLabelValues(kindTrends).Inc()

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	until := now().UTC()
	since := until.Add(-window)

	loadStart := time.Now()
	tweets, err := s.Repo.TweetsInWindow(ctx, s.DB, since, until)
	observeStage("load", loadStart)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	samples := s.Samples
	if samples <= 0 {
		samples = ranking.DefaultTrendSamples
	}
	defer observeStage("aggregate", time.Now())
	return ranking.AggregateTrends(tweets, since, until, limit, samples), nil
}
