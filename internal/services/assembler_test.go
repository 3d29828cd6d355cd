package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
	"github.com/tbourn/go-social-feed/internal/repo"
)

// ----- Fakes -----

type fakeFeedRepo struct {
	liked     map[string]bool
	retweeted map[string]bool
	reactions map[string]domain.ReactionSummary
	likedErr  error

	likedCalls, retweetedCalls, reactionCalls int
}

func (f *fakeFeedRepo) RecentTweets(context.Context, *gorm.DB, int) ([]domain.Tweet, error) {
	return nil, nil
}
func (f *fakeFeedRepo) TweetsByIDs(context.Context, *gorm.DB, []string) ([]domain.Tweet, error) {
	return nil, nil
}
func (f *fakeFeedRepo) TweetsByAuthors(context.Context, *gorm.DB, []string, int) ([]domain.Tweet, error) {
	return nil, nil
}
func (f *fakeFeedRepo) MostLikedTweets(context.Context, *gorm.DB, int) ([]domain.Tweet, error) {
	return nil, nil
}
func (f *fakeFeedRepo) RecommendationCandidates(context.Context, *gorm.DB, repo.CandidateQuery) ([]domain.Tweet, error) {
	return nil, nil
}
func (f *fakeFeedRepo) TweetsInWindow(context.Context, *gorm.DB, time.Time, time.Time) ([]domain.Tweet, error) {
	return nil, nil
}
func (f *fakeFeedRepo) SearchTweets(context.Context, *gorm.DB, string, int, int) ([]domain.Tweet, error) {
	return nil, nil
}
func (f *fakeFeedRepo) LikedTweetIDs(context.Context, *gorm.DB, string) ([]string, error) {
	return nil, nil
}
func (f *fakeFeedRepo) RetweetedTweetIDs(context.Context, *gorm.DB, string, int) ([]string, error) {
	return nil, nil
}
func (f *fakeFeedRepo) BookmarkedTweetIDs(context.Context, *gorm.DB, string, int) ([]string, error) {
	return nil, nil
}
func (f *fakeFeedRepo) LikedSet(context.Context, *gorm.DB, []string, string) (map[string]bool, error) {
	f.likedCalls++
	return f.liked, f.likedErr
}
func (f *fakeFeedRepo) RetweetedSet(context.Context, *gorm.DB, []string, string) (map[string]bool, error) {
	f.retweetedCalls++
	return f.retweeted, nil
}
func (f *fakeFeedRepo) ReactionSummaries(context.Context, *gorm.DB, []string, string) (map[string]domain.ReactionSummary, error) {
	f.reactionCalls++
	return f.reactions, nil
}
func (f *fakeFeedRepo) FolloweeIDs(context.Context, *gorm.DB, string) ([]string, error) {
	return nil, nil
}

type fakeDirectory struct {
	users map[string]domain.AuthorInfo
	err   error
	calls int
	ids   []string
}

func (d *fakeDirectory) UsersByIDs(_ context.Context, _ *gorm.DB, ids []string) (map[string]domain.AuthorInfo, error) {
	d.calls++
	d.ids = ids
	if d.err != nil {
		return nil, d.err
	}
	out := map[string]domain.AuthorInfo{}
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (d *fakeDirectory) UsersByUsernames(_ context.Context, _ *gorm.DB, names []string) (map[string]domain.AuthorInfo, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	out := map[string]domain.AuthorInfo{}
	for _, u := range d.users {
		for _, n := range names {
			if u.Username == n {
				out[n] = u
			}
		}
	}
	return out, nil
}

// ----- Tests -----

func TestEnrich_PreservesLengthAndOrder_BatchedLookups(t *testing.T) {
	origID, origAuthor := "t1", "u1"
	tweets := []domain.Tweet{
		{ID: "t3", AuthorID: "u2"},
		{ID: "t1", AuthorID: "u1"},
		{ID: "t2", AuthorID: "u2", IsRetweet: true, OriginalTweetID: &origID, OriginalAuthorID: &origAuthor},
		{ID: "t4", AuthorID: "u1"},
	}
	fr := &fakeFeedRepo{
		liked:     map[string]bool{"t1": true},
		retweeted: map[string]bool{"t1": true},
		reactions: map[string]domain.ReactionSummary{},
	}
	dir := &fakeDirectory{users: map[string]domain.AuthorInfo{
		"u1": {ID: "u1", Username: "alice"},
		"u2": {ID: "u2", Username: "bob"},
	}}
	a := &Assembler{Repo: fr, Users: dir}

	got, err := a.Enrich(context.Background(), "viewer", tweets)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if want := []string{"t3", "t1", "t2", "t4"}; !reflect.DeepEqual(itemIDs(got), want) {
		t.Fatalf("order changed: got %v want %v", itemIDs(got), want)
	}
	if fr.likedCalls != 1 || fr.retweetedCalls != 1 || fr.reactionCalls != 1 || dir.calls != 1 {
		t.Fatalf("expected one batched call per lookup, got liked=%d rt=%d react=%d users=%d",
			fr.likedCalls, fr.retweetedCalls, fr.reactionCalls, dir.calls)
	}
	if len(dir.ids) != 2 {
		t.Fatalf("expected distinct user ids, got %v", dir.ids)
	}

	if !got[1].UserLiked || !got[1].UserRetweeted {
		t.Fatalf("t1 flags wrong: %+v", got[1])
	}
	if got[2].UserRetweeted {
		t.Fatalf("retweet row must not be flagged by its own id")
	}
	if got[2].OriginalAuthorInfo == nil || got[2].OriginalAuthorInfo.Username != "alice" {
		t.Fatalf("original author not resolved: %+v", got[2].OriginalAuthorInfo)
	}
	if got[0].OriginalAuthorInfo != nil {
		t.Fatalf("plain tweet must not carry original author info")
	}
	if got[3].Reactions.Reactions == nil {
		t.Fatalf("missing reactions must default to an empty summary")
	}
	for _, it := range got {
		if it.Tags == nil {
			t.Fatalf("tags must be normalized to empty, got nil for %s", it.ID)
		}
	}
}

func TestEnrich_UnknownAuthorRendersNull(t *testing.T) {
	before := testutil.ToFloat64(enrichmentMisses.WithLabelValues("author_info"))
	a := &Assembler{Repo: &fakeFeedRepo{}, Users: &fakeDirectory{users: map[string]domain.AuthorInfo{}}}

	got, err := a.Enrich(context.Background(), "v", []domain.Tweet{{ID: "t1", AuthorID: "ghost"}})
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(got) != 1 || got[0].AuthorInfo != nil {
		t.Fatalf("expected nil author info, got %+v", got)
	}
	if after := testutil.ToFloat64(enrichmentMisses.WithLabelValues("author_info")); after != before+1 {
		t.Fatalf("expected miss counter +1, got %v -> %v", before, after)
	}
}

func TestEnrich_DirectoryFailureStillRenders(t *testing.T) {
	a := &Assembler{Repo: &fakeFeedRepo{}, Users: &fakeDirectory{err: errors.New("down")}}

	got, err := a.Enrich(context.Background(), "v", []domain.Tweet{{ID: "t1", AuthorID: "u1"}, {ID: "t2", AuthorID: "u2"}})
	if err != nil {
		t.Fatalf("directory failures must not fail the page: %v", err)
	}
	if len(got) != 2 || got[0].AuthorInfo != nil || got[1].AuthorInfo != nil {
		t.Fatalf("expected two items with nil author info, got %+v", got)
	}
}

func TestEnrich_LikeLookupFailureIsRequestError(t *testing.T) {
	a := &Assembler{Repo: &fakeFeedRepo{likedErr: errors.New("boom")}, Users: &fakeDirectory{}}
	if _, err := a.Enrich(context.Background(), "v", []domain.Tweet{{ID: "t1"}}); err == nil {
		t.Fatal("expected error")
	}
}

func TestEnrich_EmptyInput(t *testing.T) {
	fr := &fakeFeedRepo{}
	a := &Assembler{Repo: fr, Users: &fakeDirectory{}}
	got, err := a.Enrich(context.Background(), "v", nil)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v %v", got, err)
	}
	if fr.likedCalls != 0 {
		t.Fatal("no lookups expected for an empty page")
	}
}

func TestEnrich_LegacyRetweetResolvedByUsername(t *testing.T) {
	name := "alice"
	dir := &fakeDirectory{users: map[string]domain.AuthorInfo{"u1": {ID: "u1", Username: "alice"}}}
	a := &Assembler{Repo: &fakeFeedRepo{}, Users: dir}

	got, err := a.Enrich(context.Background(), "v", []domain.Tweet{{ID: "r1", AuthorID: "u1", IsRetweet: true, OriginalAuthorUsername: &name}})
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if got[0].OriginalAuthorInfo == nil || got[0].OriginalAuthorInfo.ID != "u1" {
		t.Fatalf("expected original author by username, got %+v", got[0].OriginalAuthorInfo)
	}
}
