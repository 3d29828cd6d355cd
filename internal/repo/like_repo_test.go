package repo

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tbourn/go-social-feed/internal/domain"
)

func TestCreateLike_DuplicateAndDelete(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	seedTweet(t, db, "t1", "u1", nil, t0, 0)

	if _, err := CreateLike(ctx, db, "t1", "u2"); err != nil {
		t.Fatalf("CreateLike: %v", err)
	}
	if _, err := CreateLike(ctx, db, "t1", "u2"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := DeleteLike(ctx, db, "t1", "u2"); err != nil {
		t.Fatalf("DeleteLike: %v", err)
	}
	if err := DeleteLike(ctx, db, "t1", "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLikedTweetIDs_InLikeOrder(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		seedTweet(t, db, id, "u1", nil, t0.Add(time.Duration(i)*time.Minute), 0)
	}
	// Like in an order different from creation order.
	for i, id := range []string{"c", "a", "b"} {
		l := &domain.Like{ID: "l" + id, TweetID: id, UserID: "v", CreatedAt: t0.Add(time.Duration(i) * time.Hour)}
		if err := db.Create(l).Error; err != nil {
			t.Fatalf("seed like: %v", err)
		}
	}

	got, err := LikedTweetIDs(ctx, db, "v")
	if err != nil {
		t.Fatalf("LikedTweetIDs: %v", err)
	}
	if want := []string{"c", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	none, err := LikedTweetIDs(ctx, db, "nobody")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v %v", none, err)
	}
}

func TestLikedSet(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	seedTweet(t, db, "a", "u1", nil, t0, 0)
	seedTweet(t, db, "b", "u1", nil, t0, 0)
	if _, err := CreateLike(ctx, db, "a", "v"); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := CreateLike(ctx, db, "b", "other"); err != nil {
		t.Fatalf("like: %v", err)
	}

	set, err := LikedSet(ctx, db, []string{"a", "b"}, "v")
	if err != nil {
		t.Fatalf("LikedSet: %v", err)
	}
	if !set["a"] || set["b"] {
		t.Fatalf("unexpected set: %v", set)
	}
}

func TestRetweetQueries_AndDeleteRetweet(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	seedTweet(t, db, "orig1", "u1", []string{"go"}, t0, 0)
	seedTweet(t, db, "orig2", "u1", nil, t0, 0)

	for i, id := range []string{"orig1", "orig2"} {
		origID, author := id, "u1"
		rt := &domain.Tweet{
			AuthorID: "v", AuthorUsername: "viewer", Content: "rt", IsRetweet: true,
			OriginalTweetID: &origID, OriginalAuthorID: &author,
			CreatedAt: t0.Add(time.Duration(i+1) * time.Minute),
		}
		if id == "orig1" {
			rt.Tags = []string{"go"}
		}
		if err := CreateTweet(ctx, db, rt); err != nil {
			t.Fatalf("retweet %s: %v", id, err)
		}
	}

	set, err := RetweetedSet(ctx, db, []string{"orig1", "orig2", "x"}, "v")
	if err != nil {
		t.Fatalf("RetweetedSet: %v", err)
	}
	if !set["orig1"] || !set["orig2"] || set["x"] {
		t.Fatalf("unexpected set: %v", set)
	}

	rts, err := RetweetedTweetIDs(ctx, db, "v", 10)
	if err != nil {
		t.Fatalf("RetweetedTweetIDs: %v", err)
	}
	if want := []string{"orig2", "orig1"}; !reflect.DeepEqual(rts, want) {
		t.Fatalf("got %v want %v", rts, want)
	}

	rtID, err := DeleteRetweet(ctx, db, "orig1", "v")
	if err != nil {
		t.Fatalf("DeleteRetweet: %v", err)
	}
	var n int64
	db.Unscoped().Model(&domain.Tweet{}).Where("id = ?", rtID).Count(&n)
	if n != 0 {
		t.Fatalf("expected hard delete, row count=%d", n)
	}
	db.Model(&domain.TweetHashtag{}).Where("tweet_id = ?", rtID).Count(&n)
	if n != 0 {
		t.Fatalf("expected tag links removed, count=%d", n)
	}
	if _, err := DeleteRetweet(ctx, db, "orig1", "v"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	// Retweeting again after removal is allowed.
	origID, author := "orig1", "u1"
	again := &domain.Tweet{AuthorID: "v", AuthorUsername: "viewer", Content: "rt", IsRetweet: true, OriginalTweetID: &origID, OriginalAuthorID: &author}
	if err := CreateTweet(ctx, db, again); err != nil {
		t.Fatalf("retweet again: %v", err)
	}

	// Deleted originals are not listed.
	if err := DeleteTweet(ctx, db, "orig2", "u1"); err != nil {
		t.Fatalf("DeleteTweet: %v", err)
	}
	rts, err = RetweetedTweetIDs(ctx, db, "v", 10)
	if err != nil {
		t.Fatalf("RetweetedTweetIDs: %v", err)
	}
	if want := []string{"orig1"}; !reflect.DeepEqual(rts, want) {
		t.Fatalf("after delete: got %v want %v", rts, want)
	}
}
