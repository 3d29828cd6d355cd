// Package services – InteractionService
//
// This file implements InteractionService, which owns every write: users,
// follows, tweets, retweets, likes, comments, bookmarks and emotion
// reactions. Each operation validates its input, runs inside one transaction
// and keeps the denormalized tweet counters in step with the rows it writes,
// so a failed write never leaves a counter behind.
//
// Likes, comments, retweets, follows and @mentions notify the user acted on
// inside the same transaction as the write.
//
// POST operations that create resources accept an optional idempotency key.
// A retried request with the same key returns the resource created by the
// first attempt instead of creating a second one.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
	"github.com/tbourn/go-social-feed/internal/hashtag"
	"github.com/tbourn/go-social-feed/internal/repo"
)

// Idempotency scopes.
const (
	ScopeTweets   = "tweets"
	ScopeComments = "comments"
)

var usernameRE = regexp.MustCompile(`^[A-Za-z0-9_]{1,64}$`)

// snippetRunes is the length of tweet and comment excerpts in notifications.
const snippetRunes = 50

// NewTweet is the input of CreateTweet.
type NewTweet struct {
	Content   string
	Tags      []string
	MediaID   *string
	MediaType *string
}

// InteractionService implements the write use-cases.
type InteractionService struct {
	DB *gorm.DB

	// MaxContentRunes caps tweet and comment length; 0 disables the check.
	MaxContentRunes int
	// IdempotencyTTL is how long idempotency keys are remembered.
	IdempotencyTTL time.Duration
}

// NewInteractionService returns a service with a 280 rune limit and a 24h
// idempotency window.
func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{DB: db, MaxContentRunes: 280, IdempotencyTTL: 24 * time.Hour}
}

func (s *InteractionService) span(ctx context.Context, name, userID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("user.id", userID))
	return otel.Tracer("services/InteractionService").Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *InteractionService) checkContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if s.MaxContentRunes > 0 && utf8.RuneCountInString(content) > s.MaxContentRunes {
		return "", ErrContentTooLong
	}
	return content, nil
}

// getUser maps a missing row to ErrUserNotFound.
func getUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, db, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// getTweet maps a missing row to ErrTweetNotFound.
func getTweet(ctx context.Context, db *gorm.DB, id string) (*domain.Tweet, error) {
	t, err := repo.GetTweet(ctx, db, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrTweetNotFound
	}
	return t, err
}

// snippet cuts s to snippetRunes runes, marking the cut with "...".
func snippet(s string) *string {
	if r := []rune(s); len(r) > snippetRunes {
		s = string(r[:snippetRunes]) + "..."
	}
	return &s
}

// notify stores n for its recipient. Acting on your own content notifies
// nobody. A sender without a user row is skipped since there is no name to
// show.
func notify(ctx context.Context, tx *gorm.DB, n domain.Notification) error {
	if n.RecipientID == "" || n.RecipientID == n.SenderID {
		return nil
	}
	if n.SenderUsername == "" {
		u, err := repo.GetUser(ctx, tx, n.SenderID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		n.SenderUsername = u.Username
	}
	if err := repo.CreateNotification(ctx, tx, &n); err != nil {
		return err
	}
	notificationsCreated.WithLabelValues(n.Type).Inc()
	return nil
}

// replayed returns the resource id stored for key, or "" when the key is
// blank, unknown or expired.
func (s *InteractionService) replayed(ctx context.Context, userID, scope, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", nil
	}
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, time.Now().UTC())
	if errors.Is(err, repo.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.ResourceID, nil
}

func (s *InteractionService) remember(ctx context.Context, tx *gorm.DB, userID, scope, key, resourceID string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	_, err := repo.CreateIdempotency(ctx, tx, userID, scope, key, resourceID, 201, s.IdempotencyTTL)
	return err
}

// CreateUser registers username. The username must be 1-64 letters, digits or
// underscores.
func (s *InteractionService) CreateUser(ctx context.Context, username string, bio, pictureID *string) (*domain.User, error) {
	ctx, span := s.span(ctx, "CreateUser", "", attribute.String("username", username))
	defer span.End()

	username = strings.TrimSpace(username)
	if !usernameRE.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	u, err := repo.CreateUser(ctx, s.DB, username, bio, pictureID)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrUsernameTaken
	}
	return u, err
}

// Follow makes followerID follow the user named username.
func (s *InteractionService) Follow(ctx context.Context, followerID, username string) error {
	ctx, span := s.span(ctx, "Follow", followerID, attribute.String("followee", username))
	defer span.End()

	followee, err := repo.GetUserByUsername(ctx, s.DB, username)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if followee.ID == followerID {
		return ErrFollowSelf
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateFollow(ctx, tx, followerID, followee.ID); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrAlreadyFollowing
			}
			return err
		}
		return notify(ctx, tx, domain.Notification{
			RecipientID: followee.ID,
			SenderID:    followerID,
			Type:        domain.NotifyFollow,
		})
	})
}

// Unfollow removes the follow edge from followerID to username.
func (s *InteractionService) Unfollow(ctx context.Context, followerID, username string) error {
	ctx, span := s.span(ctx, "Unfollow", followerID, attribute.String("followee", username))
	defer span.End()

	followee, err := repo.GetUserByUsername(ctx, s.DB, username)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	err = repo.DeleteFollow(ctx, s.DB, followerID, followee.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFollowing
	}
	return err
}

// CreateTweet posts a tweet by authorID. Tags are the union of in.Tags and
// the #hashtags in the content, normalized and in first-appearance order.
// Every registered user named with @username other than the author gets a
// mention notification.
// The returned bool is true when idemKey matched an earlier request and the
// earlier tweet was returned.
func (s *InteractionService) CreateTweet(ctx context.Context, authorID string, in NewTweet, idemKey string) (*domain.Tweet, bool, error) {
	ctx, span := s.span(ctx, "CreateTweet", authorID)
	defer span.End()

	if id, err := s.replayed(ctx, authorID, ScopeTweets, idemKey); err != nil {
		return nil, false, err
	} else if id != "" {
		t, err := getTweet(ctx, s.DB, id)
		if err == nil {
			return t, true, nil
		}
		if !errors.Is(err, ErrTweetNotFound) {
			return nil, false, err
		}
	}

	content, err := s.checkContent(in.Content)
	if err != nil {
		return nil, false, err
	}
	if in.MediaType != nil && *in.MediaType != domain.MediaImage && *in.MediaType != domain.MediaVideo {
		return nil, false, ErrInvalidMedia
	}
	tags := hashtag.Merge(in.Tags, hashtag.Extract(content))
	mentions := hashtag.Mentions(content)
	span.SetAttributes(
		attribute.StringSlice("tweet.tags", tags),
		attribute.Int("tweet.mentions", len(mentions)),
	)

	var created *domain.Tweet
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		author, err := getUser(ctx, tx, authorID)
		if err != nil {
			return err
		}
		t := &domain.Tweet{
			ID:             repo.NewTweetID(),
			AuthorID:       author.ID,
			AuthorUsername: author.Username,
			Content:        content,
			Tags:           datatypes.JSONSlice[string](tags),
			MediaID:        in.MediaID,
			MediaType:      in.MediaType,
			CreatedAt:      time.Now().UTC(),
		}
		if err := repo.CreateTweet(ctx, tx, t); err != nil {
			return err
		}
		created = t
		if err := notifyMentions(ctx, tx, author, t, mentions); err != nil {
			return err
		}
		return s.remember(ctx, tx, authorID, ScopeTweets, idemKey, t.ID)
	})
	if err != nil {
		return nil, false, err
	}
	zerolog.Ctx(ctx).Debug().Str("tweet_id", created.ID).Strs("mentions", mentions).Msg("tweet created")
	return created, false, nil
}

func notifyMentions(ctx context.Context, tx *gorm.DB, author *domain.User, t *domain.Tweet, mentions []string) error {
	if len(mentions) == 0 {
		return nil
	}
	users, err := repo.UsersByUsernames(ctx, tx, mentions)
	if err != nil {
		return err
	}
	for _, name := range mentions {
		u, ok := users[name]
		if !ok {
			continue
		}
		tweetID := t.ID
		if err := notify(ctx, tx, domain.Notification{
			RecipientID:    u.ID,
			SenderID:       author.ID,
			SenderUsername: author.Username,
			Type:           domain.NotifyMention,
			TweetID:        &tweetID,
			TweetContent:   snippet(t.Content),
		}); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTweet deletes a tweet owned by userID. Posts are soft-deleted;
// retweets are removed and the original's retweet counter decremented.
func (s *InteractionService) DeleteTweet(ctx context.Context, userID, tweetID string) error {
	ctx, span := s.span(ctx, "DeleteTweet", userID, attribute.String("tweet.id", tweetID))
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := getTweet(ctx, tx, tweetID)
		if err != nil {
			return err
		}
		if t.AuthorID != userID {
			return ErrForbidden
		}
		// Retweets are removed outright so the user can retweet again.
		if t.IsRetweet && t.OriginalTweetID != nil {
			if _, err := repo.DeleteRetweet(ctx, tx, *t.OriginalTweetID, userID); err != nil {
				return err
			}
			return ignoreNotFound(repo.AdjustCounter(ctx, tx, *t.OriginalTweetID, repo.CounterRetweets, -1))
		}
		return repo.DeleteTweet(ctx, tx, tweetID, userID)
	})
}

// Retweet creates userID's retweet of tweetID. The retweet copies the
// original's content but not its tags, so a hashtag use is counted and
// matched once, on the original. Retweets cannot be retweeted and each user
// may retweet a tweet once.
func (s *InteractionService) Retweet(ctx context.Context, userID, tweetID string) (*domain.Tweet, error) {
	ctx, span := s.span(ctx, "Retweet", userID, attribute.String("tweet.id", tweetID))
	defer span.End()

	var created *domain.Tweet
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orig, err := getTweet(ctx, tx, tweetID)
		if err != nil {
			return err
		}
		if orig.IsRetweet {
			return ErrCannotRetweetRetweet
		}
		user, err := getUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		origID, origAuthorID, origAuthor := orig.ID, orig.AuthorID, orig.AuthorUsername
		rt := &domain.Tweet{
			ID:                     repo.NewTweetID(),
			AuthorID:               user.ID,
			AuthorUsername:         user.Username,
			Content:                orig.Content,
			IsRetweet:              true,
			OriginalTweetID:        &origID,
			OriginalAuthorID:       &origAuthorID,
			OriginalAuthorUsername: &origAuthor,
			Tags:                   datatypes.JSONSlice[string]{},
			MediaID:                orig.MediaID,
			MediaType:              orig.MediaType,
			CreatedAt:              time.Now().UTC(),
		}
		if err := repo.CreateTweet(ctx, tx, rt); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrAlreadyRetweeted
			}
			return err
		}
		created = rt
		if err := repo.AdjustCounter(ctx, tx, orig.ID, repo.CounterRetweets, 1); err != nil {
			return err
		}
		return notify(ctx, tx, domain.Notification{
			RecipientID:    orig.AuthorID,
			SenderID:       user.ID,
			SenderUsername: user.Username,
			Type:           domain.NotifyRetweet,
			TweetID:        &origID,
			TweetContent:   snippet(orig.Content),
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Unretweet removes userID's retweet of tweetID so it may be retweeted again.
func (s *InteractionService) Unretweet(ctx context.Context, userID, tweetID string) error {
	ctx, span := s.span(ctx, "Unretweet", userID, attribute.String("tweet.id", tweetID))
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.DeleteRetweet(ctx, tx, tweetID, userID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrNotRetweeted
			}
			return err
		}
		return ignoreNotFound(repo.AdjustCounter(ctx, tx, tweetID, repo.CounterRetweets, -1))
	})
}

// Like records userID's like on tweetID.
func (s *InteractionService) Like(ctx context.Context, userID, tweetID string) error {
	ctx, span := s.span(ctx, "Like", userID, attribute.String("tweet.id", tweetID))
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := getTweet(ctx, tx, tweetID)
		if err != nil {
			return err
		}
		if _, err := repo.CreateLike(ctx, tx, tweetID, userID); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrAlreadyLiked
			}
			return err
		}
		if err := repo.AdjustCounter(ctx, tx, tweetID, repo.CounterLikes, 1); err != nil {
			return err
		}
		return notify(ctx, tx, domain.Notification{
			RecipientID:  t.AuthorID,
			SenderID:     userID,
			Type:         domain.NotifyLike,
			TweetID:      &t.ID,
			TweetContent: snippet(t.Content),
		})
	})
}

// Unlike removes userID's like on tweetID.
func (s *InteractionService) Unlike(ctx context.Context, userID, tweetID string) error {
	ctx, span := s.span(ctx, "Unlike", userID, attribute.String("tweet.id", tweetID))
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.DeleteLike(ctx, tx, tweetID, userID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrNotLiked
			}
			return err
		}
		return ignoreNotFound(repo.AdjustCounter(ctx, tx, tweetID, repo.CounterLikes, -1))
	})
}

// React stores userID's emotion on tweetID, replacing an earlier one, and
// returns the tweet's updated reaction summary.
func (s *InteractionService) React(ctx context.Context, userID, tweetID, emotion string, confidence float64) (domain.ReactionSummary, error) {
	ctx, span := s.span(ctx, "React", userID,
		attribute.String("tweet.id", tweetID),
		attribute.String("emotion", emotion),
	)
	defer span.End()

	emotion = strings.ToLower(strings.TrimSpace(emotion))
	if !domain.ValidEmotion(emotion) || confidence < 0 || confidence > 1 {
		return domain.ReactionSummary{}, ErrInvalidEmotion
	}

	var summary domain.ReactionSummary
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getTweet(ctx, tx, tweetID); err != nil {
			return err
		}
		if _, err := repo.UpsertReaction(ctx, tx, tweetID, userID, emotion, confidence); err != nil {
			return err
		}
		all, err := repo.ReactionSummaries(ctx, tx, []string{tweetID}, userID)
		if err != nil {
			return err
		}
		summary = all[tweetID]
		return nil
	})
	return summary, err
}

// Comment adds userID's comment to tweetID. The returned bool reports an
// idempotent replay, as in CreateTweet.
func (s *InteractionService) Comment(ctx context.Context, userID, tweetID, content, idemKey string) (*domain.Comment, bool, error) {
	ctx, span := s.span(ctx, "Comment", userID, attribute.String("tweet.id", tweetID))
	defer span.End()

	if id, err := s.replayed(ctx, userID, ScopeComments, idemKey); err != nil {
		return nil, false, err
	} else if id != "" {
		var c domain.Comment
		err := s.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error
		if err == nil {
			return &c, true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}

	content, err := s.checkContent(content)
	if err != nil {
		return nil, false, err
	}

	var created *domain.Comment
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := getUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		t, err := getTweet(ctx, tx, tweetID)
		if err != nil {
			return err
		}
		c, err := repo.CreateComment(ctx, tx, tweetID, user.ID, user.Username, content)
		if err != nil {
			return err
		}
		created = c
		if err := repo.AdjustCounter(ctx, tx, tweetID, repo.CounterComments, 1); err != nil {
			return err
		}
		if err := notify(ctx, tx, domain.Notification{
			RecipientID:    t.AuthorID,
			SenderID:       user.ID,
			SenderUsername: user.Username,
			Type:           domain.NotifyComment,
			TweetID:        &t.ID,
			TweetContent:   snippet(t.Content),
			CommentID:      &c.ID,
			CommentContent: snippet(content),
		}); err != nil {
			return err
		}
		return s.remember(ctx, tx, userID, ScopeComments, idemKey, c.ID)
	})
	if err != nil {
		return nil, false, err
	}
	return created, false, nil
}

// Bookmark saves tweetID for userID.
func (s *InteractionService) Bookmark(ctx context.Context, userID, tweetID string) error {
	ctx, span := s.span(ctx, "Bookmark", userID, attribute.String("tweet.id", tweetID))
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getTweet(ctx, tx, tweetID); err != nil {
			return err
		}
		err := repo.CreateBookmark(ctx, tx, userID, tweetID)
		if errors.Is(err, repo.ErrDuplicate) {
			return ErrAlreadyBookmarked
		}
		return err
	})
}

// Unbookmark removes userID's bookmark on tweetID. It works on deleted
// tweets too so stale bookmarks can be cleared.
func (s *InteractionService) Unbookmark(ctx context.Context, userID, tweetID string) error {
	ctx, span := s.span(ctx, "Unbookmark", userID, attribute.String("tweet.id", tweetID))
	defer span.End()

	err := repo.DeleteBookmark(ctx, s.DB, userID, tweetID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotBookmarked
	}
	return err
}

// ignoreNotFound treats a vanished counter target as success; the tweet may
// have been deleted since the row was written.
func ignoreNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	return err
}
