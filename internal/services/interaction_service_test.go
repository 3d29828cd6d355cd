package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
	"github.com/tbourn/go-social-feed/internal/repo"
)

func newInteractionSvc(t *testing.T) *InteractionService {
	t.Helper()
	return NewInteractionService(newServiceDB(t))
}

func reload(t *testing.T, s *InteractionService, id string) *domain.Tweet {
	t.Helper()
	tw, err := repo.GetTweet(context.Background(), s.DB, id)
	if err != nil {
		t.Fatalf("reload %s: %v", id, err)
	}
	return tw
}

func TestCreateUser_Validation(t *testing.T) {
	s := newInteractionSvc(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "bad name!", nil, nil); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}
	if _, err := s.CreateUser(ctx, "alice", nil, nil); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := s.CreateUser(ctx, "alice", nil, nil); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestCreateTweet_TagsAndValidation(t *testing.T) {
	s := newInteractionSvc(t)
	ctx := context.Background()
	alice := mustUser(t, s.DB, "alice")

	tw, replay, err := s.CreateTweet(ctx, alice.ID, NewTweet{
		Content: "Shipping #Go code with @bob #db #go",
		Tags:    []string{"#Release", "go"},
	}, "")
	if err != nil || replay {
		t.Fatalf("CreateTweet: %v replay=%v", err, replay)
	}
	if want := []string{"release", "go", "db"}; !reflect.DeepEqual([]string(tw.Tags), want) {
		t.Fatalf("tags: got %v want %v", tw.Tags, want)
	}
	if tw.AuthorUsername != "alice" {
		t.Fatalf("author username not set: %+v", tw)
	}

	if _, _, err := s.CreateTweet(ctx, alice.ID, NewTweet{Content: "   "}, ""); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if _, _, err := s.CreateTweet(ctx, alice.ID, NewTweet{Content: strings.Repeat("x", 281)}, ""); !errors.Is(err, ErrContentTooLong) {
		t.Fatalf("expected ErrContentTooLong, got %v", err)
	}
	gif := "gif"
	if _, _, err := s.CreateTweet(ctx, alice.ID, NewTweet{Content: "x", MediaType: &gif}, ""); !errors.Is(err, ErrInvalidMedia) {
		t.Fatalf("expected ErrInvalidMedia, got %v", err)
	}
	if _, _, err := s.CreateTweet(ctx, "ghost", NewTweet{Content: "x"}, ""); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateTweet_IdempotentReplay(t *testing.T) {
	s := newInteractionSvc(t)
	ctx := context.Background()
	alice := mustUser(t, s.DB, "alice")

	first, replay, err := s.CreateTweet(ctx, alice.ID, NewTweet{Content: "hello"}, "key-1")
	if err != nil || replay {
		t.Fatalf("first: %v replay=%v", err, replay)
	}
	second, replay, err := s.CreateTweet(ctx, alice.ID, NewTweet{Content: "hello again"}, "key-1")
	if err != nil || !replay {
		t.Fatalf("second: %v replay=%v", err, replay)
	}
	if second.ID != first.ID || second.Content != "hello" {
		t.Fatalf("expected the first tweet back, got %+v", second)
	}

	var n int64
	s.DB.Model(&domain.Tweet{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected a single tweet, got %d", n)
	}
}

func TestRetweet_UniquenessAndFlags(t *testing.T) {
	s := newInteractionSvc(t)
	ctx := context.Background()
	alice := mustUser(t, s.DB, "alice")
	bob := mustUser(t, s.DB, "bob")
	orig := mustTweet(t, s.DB, "orig", alice, []string{"go"}, 0, 0)

	rt, err := s.Retweet(ctx, bob.ID, orig.ID)
	if err != nil {
		t.Fatalf("Retweet: %v", err)
	}
	if !rt.IsRetweet || rt.Content != orig.Content || len(rt.Tags) != 0 {
		t.Fatalf("retweet must copy content but not tags: %+v", rt)
	}
	var links int64
	s.DB.Model(&domain.TweetHashtag{}).Where("tweet_id = ?", rt.ID).Count(&links)
	if links != 0 {
		t.Fatalf("retweet must not be indexed by tag, got %d links", links)
	}
	if rt.OriginalAuthorUsername == nil || *rt.OriginalAuthorUsername != "alice" {
		t.Fatalf("original author not recorded: %+v", rt)
	}
	if _, err := s.Retweet(ctx, bob.ID, orig.ID); !errors.Is(err, ErrAlreadyRetweeted) {
		t.Fatalf("expected ErrAlreadyRetweeted, got %v", err)
	}
	if _, err := s.Retweet(ctx, alice.ID, rt.ID); !errors.Is(err, ErrCannotRetweetRetweet) {
		t.Fatalf("expected ErrCannotRetweetRetweet, got %v", err)
	}
	if _, err := s.Retweet(ctx, bob.ID, "missing"); !errors.Is(err, ErrTweetNotFound) {
		t.Fatalf("expected ErrTweetNotFound, got %v", err)
	}
	if got := reload(t, s, orig.ID).RetweetCount; got != 1 {
		t.Fatalf("expected retweet_count 1, got %d", got)
	}

	// The viewer's feed shows user_retweeted on exactly one item: the original.
	feed := NewFeedService(s.DB, sqlStore{}, sqlStore{}, FeedOptions{})
	items, err := feed.GetFeed(ctx, bob.ID, 10)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	flagged := 0
	for _, it := range items {
		if it.UserRetweeted {
			flagged++
			if it.ID != orig.ID {
				t.Fatalf("unexpected flagged item %s", it.ID)
			}
		}
	}
	if len(items) != 2 || flagged != 1 {
		t.Fatalf("expected 2 items with one flagged, got %d items %d flagged", len(items), flagged)
	}

	if err := s.Unretweet(ctx, bob.ID, orig.ID); err != nil {
		t.Fatalf("Unretweet: %v", err)
	}
	if err := s.Unretweet(ctx, bob.ID, orig.ID); !errors.Is(err, ErrNotRetweeted) {
		t.Fatalf("expected ErrNotRetweeted, got %v", err)
	}
	if got := reload(t, s, orig.ID).RetweetCount; got != 0 {
		t.Fatalf("expected retweet_count 0, got %d", got)
	}
	if _, err := s.Retweet(ctx, bob.ID, orig.ID); err != nil {
		t.Fatalf("retweet after unretweet: %v", err)
	}
}

func TestLikeUnlike_Counters(t *testing.T) {
	s := newInteractionSvc(t)
	ctx := context.Background()
	alice := mustUser(t, s.DB, "alice")
	tw := mustTweet(t, s.DB, "t1", alice, nil, 0, 0)

	if err := s.Like(ctx, "u2", tw.ID); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if err := s.Like(ctx, "u2", tw.ID); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}
	if got := reload(t, s, tw.ID).LikeCount; got != 1 {
		t.Fatalf("expected like_count 1, got %d", got)
	}
	if err := s.Unlike(ctx, "u2", tw.ID); err != nil {
		t.Fatalf("Unlike: %v", err)
	}
	if err := s.Unlike(ctx, "u2", tw.ID); !errors.Is(err, ErrNotLiked) {
		t.Fatalf("expected ErrNotLiked, got %v", err)
	}
	if got := reload(t, s, tw.ID).LikeCount; got != 0 {
		t.Fatalf("expected like_count 0, got %d", got)
	}
	if err := s.Like(ctx, "u2", "missing"); !errors.Is(err, ErrTweetNotFound) {
		t.Fatalf("expected ErrTweetNotFound, got %v", err)
	}
}

func TestReact_SummaryExample(t *testing.T) {
	s := newInteractionSvc(t)
	ctx := context.Background()
	alice := mustUser(t, s.DB, "alice")
	tw := mustTweet(t, s.DB, "t1", alice, nil, 0, 0)

	for _, r := range []struct{ user, emotion string }{{"u1", "happy"}, {"u2", "happy"}, {"u3", "sad"}} {
		if _, err := s.React(ctx, r.user, tw.ID, r.emotion, 1); err != nil {
			t.Fatalf("React: %v", err)
		}
	}

	feed := NewFeedService(s.DB, sqlStore{}, sqlStore{}, FeedOptions{})
	items, err := feed.GetFeed(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	got := items[0].Reactions
	if got.ReactionCount != 3 || !reflect.DeepEqual(got.Reactions, map[string]int{"happy": 2, "sad": 1}) {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if got.UserReaction == nil || *got.UserReaction != "happy" {
		t.Fatalf("expected u1 -> happy, got %v", got.UserReaction)
	}

	if _, err := s.React(ctx, "u1", tw.ID, "bored", 1); !errors.Is(err, ErrInvalidEmotion) {
		t.Fatalf("expected ErrInvalidEmotion, got %v", err)
	}
	if _, err := s.React(ctx, "u1", tw.ID, "happy", 1.5); !errors.Is(err, ErrInvalidEmotion) {
		t.Fatalf("expected ErrInvalidEmotion for confidence, got %v", err)
	}
	if _, err := s.React(ctx, "u1", "missing", "happy", 1); !errors.Is(err, ErrTweetNotFound) {
		t.Fatalf("expected ErrTweetNotFound, got %v", err)
	}
}

func TestComment_CounterAndReplay(t *testing.T) {
	s := newInteractionSvc(t)
	ctx := context.Background()
	alice := mustUser(t, s.DB, "alice")
	tw := mustTweet(t, s.DB, "t1", alice, nil, 0, 0)

	c, replay, err := s.Comment(ctx, alice.ID, tw.ID, " nice ", "k1")
	if err != nil || replay || c.Content != "nice" {
		t.Fatalf("Comment: %+v replay=%v err=%v", c, replay, err)
	}
	again, replay, err := s.Comment(ctx, alice.ID, tw.ID, "nice", "k1")
	if err != nil || !replay || again.ID != c.ID {
		t.Fatalf("replay: %+v replay=%v err=%v", again, replay, err)
	}
	if got := reload(t, s, tw.ID).CommentCount; got != 1 {
		t.Fatalf("expected comment_count 1, got %d", got)
	}
	if _, _, err := s.Comment(ctx, alice.ID, tw.ID, "", ""); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestFollowUnfollow(t *testing.T) {
	s := newInteractionSvc(t)
	ctx := context.Background()
	alice := mustUser(t, s.DB, "alice")
	mustUser(t, s.DB, "bob")

	if err := s.Follow(ctx, alice.ID, "alice"); !errors.Is(err, ErrFollowSelf) {
		t.Fatalf("expected ErrFollowSelf, got %v", err)
	}
	if err := s.Follow(ctx, alice.ID, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := s.Follow(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := s.Follow(ctx, alice.ID, "bob"); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("expected ErrAlreadyFollowing, got %v", err)
	}
	if err := s.Unfollow(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	if err := s.Unfollow(ctx, alice.ID, "bob"); !errors.Is(err, ErrNotFollowing) {
		t.Fatalf("expected ErrNotFollowing, got %v", err)
	}
}

func TestDeleteTweet(t *testing.T) {
	s := newInteractionSvc(t)
	ctx := context.Background()
	alice := mustUser(t, s.DB, "alice")
	bob := mustUser(t, s.DB, "bob")
	orig := mustTweet(t, s.DB, "orig", alice, nil, 0, 0)
	rt, err := s.Retweet(ctx, bob.ID, orig.ID)
	if err != nil {
		t.Fatalf("Retweet: %v", err)
	}

	if err := s.DeleteTweet(ctx, bob.ID, orig.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := s.DeleteTweet(ctx, bob.ID, rt.ID); err != nil {
		t.Fatalf("DeleteTweet: %v", err)
	}
	if got := reload(t, s, orig.ID).RetweetCount; got != 0 {
		t.Fatalf("deleting a retweet must decrement the original, got %d", got)
	}
	if err := s.DeleteTweet(ctx, bob.ID, rt.ID); !errors.Is(err, ErrTweetNotFound) {
		t.Fatalf("expected ErrTweetNotFound, got %v", err)
	}
	if _, err := s.Retweet(ctx, bob.ID, orig.ID); err != nil {
		t.Fatalf("retweet after delete: %v", err)
	}

	if err := s.DeleteTweet(ctx, alice.ID, orig.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if err := s.Like(ctx, bob.ID, orig.ID); !errors.Is(err, ErrTweetNotFound) {
		t.Fatalf("deleted tweets cannot be liked, got %v", err)
	}
}

func notificationTypes(t *testing.T, db *gorm.DB, userID string) []string {
	t.Helper()
	list, err := NewNotificationService(db).List(context.Background(), userID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	out := []string{}
	for _, n := range list {
		out = append(out, n.Type)
	}
	return out
}

func TestInteractions_NotifyTheUserActedOn(t *testing.T) {
	s := newInteractionSvc(t)
	ctx := context.Background()
	alice := mustUser(t, s.DB, "alice")
	bob := mustUser(t, s.DB, "bob")
	mustUser(t, s.DB, "carol")

	if err := s.Follow(ctx, bob.ID, "alice"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	tw, _, err := s.CreateTweet(ctx, alice.ID, NewTweet{Content: "hi @bob @carol @ghost @alice @bob"}, "")
	if err != nil {
		t.Fatalf("CreateTweet: %v", err)
	}
	if err := s.Like(ctx, bob.ID, tw.ID); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if _, _, err := s.Comment(ctx, bob.ID, tw.ID, "nice", ""); err != nil {
		t.Fatalf("Comment: %v", err)
	}
	if _, err := s.Retweet(ctx, bob.ID, tw.ID); err != nil {
		t.Fatalf("Retweet: %v", err)
	}
	// Acting on your own tweet notifies nobody.
	if err := s.Like(ctx, alice.ID, tw.ID); err != nil {
		t.Fatalf("self like: %v", err)
	}
	if _, _, err := s.Comment(ctx, alice.ID, tw.ID, "thanks", ""); err != nil {
		t.Fatalf("self comment: %v", err)
	}

	want := []string{domain.NotifyRetweet, domain.NotifyComment, domain.NotifyLike, domain.NotifyFollow}
	if got := notificationTypes(t, s.DB, alice.ID); !reflect.DeepEqual(got, want) {
		t.Fatalf("alice notifications = %v; want %v", got, want)
	}
	if got := notificationTypes(t, s.DB, bob.ID); !reflect.DeepEqual(got, []string{domain.NotifyMention}) {
		t.Fatalf("bob notifications = %v; want one mention", got)
	}

	carol, _ := repo.GetUserByUsername(ctx, s.DB, "carol")
	list, _ := NewNotificationService(s.DB).List(ctx, carol.ID)
	if len(list) != 1 {
		t.Fatalf("carol notifications = %+v", list)
	}
	m := list[0]
	if m.SenderID != alice.ID || m.SenderUsername != "alice" || m.TweetID == nil || *m.TweetID != tw.ID || m.Read {
		t.Fatalf("unexpected mention: %+v", m)
	}

	aliceList, _ := NewNotificationService(s.DB).List(ctx, alice.ID)
	c := aliceList[1]
	if c.CommentID == nil || c.CommentContent == nil || *c.CommentContent != "nice" || c.SenderUsername != "bob" {
		t.Fatalf("unexpected comment notification: %+v", c)
	}
}

func TestInteractions_UnknownSenderSkipsNotification(t *testing.T) {
	s := newInteractionSvc(t)
	ctx := context.Background()
	alice := mustUser(t, s.DB, "alice")
	tw := mustTweet(t, s.DB, "t1", alice, nil, 0, 0)

	if err := s.Like(ctx, "unregistered", tw.ID); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if got := notificationTypes(t, s.DB, alice.ID); len(got) != 0 {
		t.Fatalf("expected no notifications, got %v", got)
	}
}

func TestSnippet(t *testing.T) {
	if got := *snippet("short"); got != "short" {
		t.Fatalf("snippet(short) = %q", got)
	}
	long := strings.Repeat("é", 60)
	if got := *snippet(long); got != strings.Repeat("é", 50)+"..." {
		t.Fatalf("snippet cut on bytes, not runes: %q", got)
	}
	if got := *snippet(strings.Repeat("x", 50)); got != strings.Repeat("x", 50) {
		t.Fatalf("exactly 50 runes must not be cut: %q", got)
	}
}

func TestBookmarkUnbookmark(t *testing.T) {
	f, s := newFeedSvc(t)
	ctx := context.Background()
	alice := mustUser(t, s.DB, "alice")
	bob := mustUser(t, s.DB, "bob")
	mustTweet(t, s.DB, "t1", alice, nil, 0, 0)
	mustTweet(t, s.DB, "t2", alice, nil, time.Minute, 0)

	if err := s.Bookmark(ctx, bob.ID, "t1"); err != nil {
		t.Fatalf("Bookmark: %v", err)
	}
	if err := s.Bookmark(ctx, bob.ID, "t1"); !errors.Is(err, ErrAlreadyBookmarked) {
		t.Fatalf("expected ErrAlreadyBookmarked, got %v", err)
	}
	if err := s.Bookmark(ctx, bob.ID, "missing"); !errors.Is(err, ErrTweetNotFound) {
		t.Fatalf("expected ErrTweetNotFound, got %v", err)
	}
	if err := s.Bookmark(ctx, bob.ID, "t2"); err != nil {
		t.Fatalf("Bookmark: %v", err)
	}

	got, err := f.GetBookmarks(ctx, bob.ID, 10)
	if err != nil {
		t.Fatalf("GetBookmarks: %v", err)
	}
	if ids := itemIDs(got); len(ids) != 2 {
		t.Fatalf("bookmarks = %v", ids)
	}
	if got, _ := f.GetBookmarks(ctx, alice.ID, 10); len(got) != 0 {
		t.Fatalf("alice has no bookmarks, got %v", itemIDs(got))
	}
	if _, err := f.GetBookmarks(ctx, bob.ID, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}

	if err := s.Unbookmark(ctx, bob.ID, "t1"); err != nil {
		t.Fatalf("Unbookmark: %v", err)
	}
	if err := s.Unbookmark(ctx, bob.ID, "t1"); !errors.Is(err, ErrNotBookmarked) {
		t.Fatalf("expected ErrNotBookmarked, got %v", err)
	}
	got, _ = f.GetBookmarks(ctx, bob.ID, 10)
	if ids := itemIDs(got); !reflect.DeepEqual(ids, []string{"t2"}) {
		t.Fatalf("bookmarks = %v; want [t2]", ids)
	}
}
