package ranking

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/tbourn/go-social-feed/internal/domain"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func tw(id, author string, tags ...string) domain.Tweet {
	return domain.Tweet{ID: id, AuthorID: author, AuthorUsername: "name_" + author, Content: "c " + id, Tags: tags, CreatedAt: base}
}

// --- preferences ---

func TestExtractPreferences_NoLikes(t *testing.T) {
	_, err := ExtractPreferences(nil, 5, 3)
	if !errors.Is(err, ErrNoPreferenceData) {
		t.Fatalf("want ErrNoPreferenceData, got %v", err)
	}
}

func TestExtractPreferences_FrequencyThenFirstSeen(t *testing.T) {
	liked := []domain.Tweet{
		tw("1", "a", "x", "y"),
		tw("2", "b", "z", "y"),
		tw("3", "c", "w", "y", "y"), // each occurrence counts
		tw("4", "b", "z"),
	}
	p, err := ExtractPreferences(liked, 3, 2)
	if err != nil {
		t.Fatalf("ExtractPreferences: %v", err)
	}
	// y=4, z=2, x=1 (seen before w=1)
	if want := []string{"y", "z", "x"}; !reflect.DeepEqual(p.Tags, want) {
		t.Fatalf("tags = %v want %v", p.Tags, want)
	}
	// b=2, a=1 (seen before c)
	if want := []string{"b", "a"}; !reflect.DeepEqual(p.Authors, want) {
		t.Fatalf("authors = %v want %v", p.Authors, want)
	}
}

func TestExtractPreferences_DefaultCaps(t *testing.T) {
	var liked []domain.Tweet
	for i := 0; i < 10; i++ {
		liked = append(liked, tw(fmt.Sprint(i), fmt.Sprint("u", i), fmt.Sprint("t", i)))
	}
	p, err := ExtractPreferences(liked, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Tags) != DefaultTopTags || len(p.Authors) != DefaultTopAuthors {
		t.Fatalf("caps: %d tags, %d authors", len(p.Tags), len(p.Authors))
	}
	if p.Tags[0] != "t0" || p.Authors[2] != "u2" {
		t.Fatalf("all-equal counts must keep first-seen order: %+v", p)
	}
}

// --- scoring ---

func TestScore_Formula(t *testing.T) {
	s := NewScorer()
	p := Preferences{Tags: []string{"go", "db"}, Authors: []string{"a"}}
	x := tw("1", "a", "go", "db", "web")
	x.LikeCount, x.RetweetCount, x.CommentCount = 20, 10, 15

	got := s.Score(x, p)
	want := 3.0*2 + 5 + 2 + 0.5 + 0.5
	if math.Abs(got.Score-want) > 1e-9 {
		t.Fatalf("score = %v want %v", got.Score, want)
	}
	if got.Explanation.Score != got.Score || !got.Explanation.PreferredAuthor {
		t.Fatalf("explanation: %+v", got.Explanation)
	}
	if !reflect.DeepEqual(got.Explanation.MatchedTags, []string{"go", "db"}) {
		t.Fatalf("matched: %v", got.Explanation.MatchedTags)
	}
	wantReasons := []string{"similar tags: #go, #db", "author you like: @name_a"}
	if !reflect.DeepEqual(got.Explanation.Reasons, wantReasons) {
		t.Fatalf("reasons = %v", got.Explanation.Reasons)
	}
}

func TestScore_CustomWeightsAndReasonCap(t *testing.T) {
	s := NewScorer(WithWeights(Weights{Tag: 1, Author: 0, LikeDivisor: 0}), WithReasonTags(1))
	if s.Weights().LikeDivisor != 10 {
		t.Fatalf("zero divisor should fall back to default, got %v", s.Weights().LikeDivisor)
	}
	x := tw("1", "a", "go", "db")
	x.LikeCount = 10
	got := s.Score(x, Preferences{Tags: []string{"db", "go"}, Authors: []string{"a"}})
	if got.Score != 2+1 {
		t.Fatalf("score = %v", got.Score)
	}
	if got.Explanation.Reasons[0] != "similar tags: #go" {
		t.Fatalf("reason = %q", got.Explanation.Reasons[0])
	}
}

func TestScore_NoMatchHasNoReasons(t *testing.T) {
	got := NewScorer().Score(tw("1", "z", "misc"), Preferences{Tags: []string{"go"}, Authors: []string{"a"}})
	if got.Score != 0 || len(got.Explanation.Reasons) != 0 || got.Explanation.Reasons == nil {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestMatchTags_BoundedByMin(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	vocab := []string{"a", "b", "c", "d", "e", "f", "g"}
	pick := func() []string {
		n := r.Intn(6)
		out := make([]string, n)
		for i := range out {
			out[i] = vocab[r.Intn(len(vocab))]
		}
		return out
	}
	distinct := func(xs []string) int {
		m := map[string]struct{}{}
		for _, x := range xs {
			m[x] = struct{}{}
		}
		return len(m)
	}
	for i := 0; i < 500; i++ {
		tags, pref := pick(), pick()
		m := MatchTags(tags, pref)
		bound := distinct(tags)
		if d := distinct(pref); d < bound {
			bound = d
		}
		if len(m) > bound || len(m) > len(tags) || len(m) > len(pref) {
			t.Fatalf("match %v exceeds bound for tags=%v pref=%v", m, tags, pref)
		}
	}
}

func TestRank_DeterministicWithTieBreaks(t *testing.T) {
	old := tw("a", "x", "go")
	old.CreatedAt = base.Add(-time.Hour)
	newer := tw("b", "x", "go")
	sameTimeLow := tw("c", "x", "go")
	sameTimeHigh := tw("d", "x", "go")
	top := tw("e", "x", "go")
	top.LikeCount = 100

	p := Preferences{Tags: []string{"go"}}
	s := NewScorer()
	cands := []domain.Tweet{old, sameTimeLow, top, newer, sameTimeHigh}

	ids := func(xs []Scored) []string {
		out := make([]string, len(xs))
		for i, x := range xs {
			out[i] = x.Tweet.ID
		}
		return out
	}
	first := ids(s.Rank(cands, p, 0))
	want := []string{"e", "d", "c", "b", "a"}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("rank = %v want %v", first, want)
	}

	// Shuffled input yields the same order every time.
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuf := append([]domain.Tweet(nil), cands...)
		r.Shuffle(len(shuf), func(i, j int) { shuf[i], shuf[j] = shuf[j], shuf[i] })
		if got := ids(s.Rank(shuf, p, 0)); !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: %v", i, got)
		}
	}

	if got := s.Rank(cands, p, 2); len(got) != 2 || got[0].Tweet.ID != "e" {
		t.Fatalf("limit not applied: %v", ids(got))
	}
}

func TestFilterCandidates(t *testing.T) {
	cands := []domain.Tweet{tw("1", "me"), tw("2", "x"), tw("3", "y"), tw("2", "x"), tw("4", "z")}
	got := FilterCandidates(cands, "me", map[string]bool{"3": true})
	var ids []string
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	if !reflect.DeepEqual(ids, []string{"2", "4"}) {
		t.Fatalf("filtered = %v", ids)
	}
}

func TestFilterCandidates_DropsRetweetsOfLikedAndOwn(t *testing.T) {
	liked, mine, other := "L", "M", "O"
	me := "me"
	rt := func(id, origID string, origAuthor *string) domain.Tweet {
		x := tw(id, "rter")
		x.IsRetweet, x.OriginalTweetID, x.OriginalAuthorID = true, &origID, origAuthor
		return x
	}
	author := "a"
	cands := []domain.Tweet{
		rt("r1", liked, &author),
		rt("r2", mine, &me),
		rt("r3", other, &author),
	}
	got := FilterCandidates(cands, me, map[string]bool{liked: true})
	if len(got) != 1 || got[0].ID != "r3" {
		t.Fatalf("filtered = %+v", got)
	}
}

// --- trends ---

func TestAggregateTrends_WindowExample(t *testing.T) {
	now := base
	tweets := []domain.Tweet{
		{ID: "old", Tags: []string{"a"}, CreatedAt: now.Add(-30 * time.Hour)},
		{ID: "1", Tags: []string{"a"}, Content: "first", CreatedAt: now.Add(-time.Hour)},
		{ID: "2", Tags: []string{}, CreatedAt: now.Add(-time.Hour)},
	}
	got := AggregateTrends(tweets, now.Add(-24*time.Hour), now, 10, DefaultTrendSamples)
	want := []domain.Trend{{Tag: "a", Count: 1, SampleTweets: []domain.SampleTweet{{ID: "1", Content: "first"}}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("trends = %+v want %+v", got, want)
	}
}

func TestAggregateTrends_HalfOpenWindow(t *testing.T) {
	now := base
	tweets := []domain.Tweet{
		{ID: "edge-start", Tags: []string{"a"}, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "edge-end", Tags: []string{"b"}, CreatedAt: now},
	}
	got := AggregateTrends(tweets, now.Add(-24*time.Hour), now, 10, 3)
	if len(got) != 1 || got[0].Tag != "a" {
		t.Fatalf("window should include start and exclude end: %+v", got)
	}
}

func TestAggregateTrends_OccurrencesAndSamples(t *testing.T) {
	now := base
	var tweets []domain.Tweet
	add := func(id string, tags ...string) {
		tweets = append(tweets, domain.Tweet{ID: id, Content: id, Tags: tags, CreatedAt: now.Add(-time.Duration(10-len(tweets)) * time.Minute)})
	}
	add("1", "x", "y")
	add("2", "y", "x", "x")
	add("3", "z")
	add("4", "y")
	add("5", "y")
	add("6", "z")

	got := AggregateTrends(tweets, now.Add(-time.Hour), now, 2, 3)
	if len(got) != 2 {
		t.Fatalf("limit: %+v", got)
	}
	// y=4, x=3 (tweet 2 carries it twice), z=2.
	if got[0].Tag != "y" || got[0].Count != 4 || got[1].Tag != "x" || got[1].Count != 3 {
		t.Fatalf("order: %+v", got)
	}
	if len(got[0].SampleTweets) != 3 || got[0].SampleTweets[0].ID != "1" || got[0].SampleTweets[2].ID != "4" {
		t.Fatalf("samples: %+v", got[0].SampleTweets)
	}
	if want := []domain.SampleTweet{{ID: "1", Content: "1"}, {ID: "2", Content: "2"}}; !reflect.DeepEqual(got[1].SampleTweets, want) {
		t.Fatalf("a tweet is sampled once per tag: %+v", got[1].SampleTweets)
	}
}

func TestAggregateTrends_FirstSeenTieBreak(t *testing.T) {
	tweets := []domain.Tweet{
		{ID: "1", Tags: []string{"b"}, CreatedAt: base.Add(-2 * time.Minute)},
		{ID: "2", Tags: []string{"a"}, CreatedAt: base.Add(-time.Minute)},
	}
	got := AggregateTrends(tweets, base.Add(-time.Hour), base, 10, 3)
	if len(got) != 2 || got[0].Tag != "b" || got[1].Tag != "a" {
		t.Fatalf("ties keep first-seen order: %+v", got)
	}
}

func TestAggregateTrends_SkipsRetweets(t *testing.T) {
	orig := "1"
	tweets := []domain.Tweet{
		{ID: "1", Tags: []string{"go"}, Content: "hello #go", CreatedAt: base.Add(-time.Hour)},
		// Rows written before retweets stopped copying tags.
		{ID: "2", Tags: []string{"go"}, Content: "hello #go", IsRetweet: true, OriginalTweetID: &orig, CreatedAt: base.Add(-time.Minute)},
	}
	got := AggregateTrends(tweets, base.Add(-24*time.Hour), base, 10, 3)
	if len(got) != 1 || got[0].Count != 1 || len(got[0].SampleTweets) != 1 || got[0].SampleTweets[0].ID != "1" {
		t.Fatalf("one hashtag use must count once: %+v", got)
	}
}

func TestAggregateTrends_NonPositiveLimit(t *testing.T) {
	got := AggregateTrends([]domain.Tweet{{ID: "1", Tags: []string{"a"}, CreatedAt: base}}, base.Add(-time.Hour), base.Add(time.Hour), 0, 3)
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil, got %#v", got)
	}
}
