package repo

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tbourn/go-social-feed/internal/domain"
)

func TestBookmarks_CreateListDelete(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	seedTweet(t, db, "b1", "a", nil, t0, 0)
	seedTweet(t, db, "b2", "a", nil, t0, 0)
	seedTweet(t, db, "b3", "a", nil, t0, 0)

	for i, id := range []string{"b1", "b2", "b3"} {
		if err := CreateBookmark(ctx, db, "u1", id); err != nil {
			t.Fatalf("CreateBookmark %s: %v", id, err)
		}
		db.Model(&domain.Bookmark{}).
			Where("user_id = ? AND tweet_id = ?", "u1", id).
			Update("created_at", t0.Add(time.Duration(i)*time.Minute))
	}
	if err := CreateBookmark(ctx, db, "u1", "b1"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := BookmarkedTweetIDs(ctx, db, "u1", 10)
	if err != nil {
		t.Fatalf("BookmarkedTweetIDs: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"b3", "b2", "b1"}) {
		t.Fatalf("got %v want [b3 b2 b1]", got)
	}

	// A deleted tweet drops out before the limit is applied.
	if err := DeleteTweet(ctx, db, "b3", "a"); err != nil {
		t.Fatalf("DeleteTweet: %v", err)
	}
	got, _ = BookmarkedTweetIDs(ctx, db, "u1", 2)
	if !reflect.DeepEqual(got, []string{"b2", "b1"}) {
		t.Fatalf("got %v want [b2 b1]", got)
	}

	if err := DeleteBookmark(ctx, db, "u1", "b2"); err != nil {
		t.Fatalf("DeleteBookmark: %v", err)
	}
	if err := DeleteBookmark(ctx, db, "u1", "b2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got, _ := BookmarkedTweetIDs(ctx, db, "u2", 10); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", got)
	}
}
