// Package services – Assembler
//
// The Assembler decorates an ordered page of tweets for one viewer: whether
// the viewer liked or retweeted each item, the reaction summary and the
// author projections. Each decoration is a single batched lookup over the
// whole page, so the cost is constant in the number of queries regardless of
// page size. Output length and order always equal the input.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
	"github.com/tbourn/go-social-feed/internal/repo"
)

// Assembler turns tweets into viewer-specific feed items.
type Assembler struct {
	DB    *gorm.DB
	Repo  FeedRepo
	Users UserDirectory
}

// Enrich decorates tweets for viewerID. Like, retweet and reaction lookups
// are required and their failures abort the request. User lookups are best
// effort: an unavailable directory or an unknown user leaves the projection
// nil and is logged.
func (a *Assembler) Enrich(ctx context.Context, viewerID string, tweets []domain.Tweet) ([]domain.EnrichedTweet, error) {
	tr := otel.Tracer("services/Assembler")
	ctx, span := tr.Start(ctx, "Enrich",
		trace.WithAttributes(
			attribute.String("user.id", viewerID),
			attribute.Int("items", len(tweets)),
		),
	)
	defer span.End()
	defer observeStage("enrich", time.Now())

	out := make([]domain.EnrichedTweet, len(tweets))
	if len(tweets) == 0 {
		return out, nil
	}

	ids := make([]string, len(tweets))
	for i := range tweets {
		repo.NormalizeTweet(&tweets[i])
		ids[i] = tweets[i].ID
	}

	liked, err := a.Repo.LikedSet(ctx, a.DB, ids, viewerID)
	if err != nil {
		return nil, err
	}
	retweeted, err := a.Repo.RetweetedSet(ctx, a.DB, ids, viewerID)
	if err != nil {
		return nil, err
	}
	reactions, err := a.Repo.ReactionSummaries(ctx, a.DB, ids, viewerID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	byID, byName := a.resolveUsers(ctx, tweets)

	lg := zerolog.Ctx(ctx)
	for i, t := range tweets {
		item := domain.EnrichedTweet{
			Tweet:         t,
			UserLiked:     liked[t.ID],
			UserRetweeted: retweeted[t.ID],
			Reactions:     domain.EmptyReactionSummary(),
		}
		if s, ok := reactions[t.ID]; ok {
			item.Reactions = s
		}

		if info, ok := byID[t.AuthorID]; ok {
			item.AuthorInfo = &info
		} else {
			enrichmentMisses.WithLabelValues("author_info").Inc()
			lg.Warn().Str("tweet_id", t.ID).Str("author_id", t.AuthorID).Msg("author not resolved")
		}

		if t.IsRetweet {
			var (
				info domain.AuthorInfo
				ok   bool
			)
			if t.OriginalAuthorID != nil {
				info, ok = byID[*t.OriginalAuthorID]
			} else if t.OriginalAuthorUsername != nil {
				info, ok = byName[*t.OriginalAuthorUsername]
			}
			if ok {
				item.OriginalAuthorInfo = &info
			} else {
				enrichmentMisses.WithLabelValues("original_author_info").Inc()
				lg.Warn().Str("tweet_id", t.ID).Msg("original author not resolved")
			}
		}
		out[i] = item
	}
	return out, nil
}

// resolveUsers looks up every distinct author and original author on the
// page. Retweets from before original author ids were stored are resolved by
// username.
func (a *Assembler) resolveUsers(ctx context.Context, tweets []domain.Tweet) (map[string]domain.AuthorInfo, map[string]domain.AuthorInfo) {
	var (
		ids   []string
		names []string
		seen  = map[string]struct{}{}
	)
	add := func(list *[]string, key, v string) {
		if v == "" {
			return
		}
		if _, ok := seen[key+v]; ok {
			return
		}
		seen[key+v] = struct{}{}
		*list = append(*list, v)
	}
	for _, t := range tweets {
		add(&ids, "id:", t.AuthorID)
		if t.OriginalAuthorID != nil {
			add(&ids, "id:", *t.OriginalAuthorID)
		} else if t.OriginalAuthorUsername != nil {
			add(&names, "name:", *t.OriginalAuthorUsername)
		}
	}

	lg := zerolog.Ctx(ctx)
	byID, err := a.Users.UsersByIDs(ctx, a.DB, ids)
	if err != nil {
		lg.Warn().Err(err).Int("users", len(ids)).Msg("user directory unavailable")
		byID = nil
	}
	var byName map[string]domain.AuthorInfo
	if len(names) > 0 {
		if byName, err = a.Users.UsersByUsernames(ctx, a.DB, names); err != nil {
			lg.Warn().Err(err).Int("users", len(names)).Msg("user directory unavailable")
			byName = nil
		}
	}
	return byID, byName
}
