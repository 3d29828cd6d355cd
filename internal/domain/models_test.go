package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &Tweet{}, &Like{}, &Comment{}, &EmotionReaction{},
		&Follow{}, &Hashtag{}, &TweetHashtag{}, &Idempotency{}, &Notification{}, &Bookmark{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func strp(s string) *string { return &s }

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		User{}.TableName():            "users",
		Tweet{}.TableName():           "tweets",
		Like{}.TableName():            "likes",
		Comment{}.TableName():         "comments",
		EmotionReaction{}.TableName(): "emotion_reactions",
		Follow{}.TableName():          "follows",
		Hashtag{}.TableName():         "hashtags",
		TweetHashtag{}.TableName():    "tweet_hashtags",
		Idempotency{}.TableName():     "idempotency",
		Notification{}.TableName():    "notifications",
		Bookmark{}.TableName():        "bookmarks",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_UniqueIndexes(t *testing.T) {
	db := newDomainDB(t)
	m := db.Migrator()
	for _, idx := range []struct {
		model any
		name  string
	}{
		{&Like{}, "ux_like_tweet_user"},
		{&Tweet{}, "ux_retweet_author"},
		{&EmotionReaction{}, "ux_reaction_tweet_user"},
		{&Follow{}, "ux_follow_pair"},
		{&Idempotency{}, "ux_user_scope_key"},
		{&Bookmark{}, "ux_bookmark_user_tweet"},
	} {
		if !m.HasIndex(idx.model, idx.name) {
			t.Fatalf("expected index %s on %T", idx.name, idx.model)
		}
	}
}

func TestTweet_RetweetUniquePerAuthor(t *testing.T) {
	db := newDomainDB(t)
	now := time.Now().UTC()

	// Two plain posts by the same author share a NULL original id and must not collide.
	for _, id := range []string{"t1", "t2"} {
		if err := db.Create(&Tweet{ID: id, AuthorID: "u1", AuthorUsername: "ann", Content: "x", CreatedAt: now}).Error; err != nil {
			t.Fatalf("create post %s: %v", id, err)
		}
	}

	rt := Tweet{ID: "rt1", AuthorID: "u2", AuthorUsername: "bob", Content: "x", IsRetweet: true,
		OriginalTweetID: strp("t1"), CreatedAt: now}
	if err := db.Create(&rt).Error; err != nil {
		t.Fatalf("create retweet: %v", err)
	}
	dup := rt
	dup.ID = "rt2"
	if err := db.Create(&dup).Error; err == nil {
		t.Fatalf("expected unique violation for second retweet by the same user")
	}
}

func TestLike_UniquePerUser(t *testing.T) {
	db := newDomainDB(t)
	if err := db.Create(&Like{ID: "l1", TweetID: "t1", UserID: "u1"}).Error; err != nil {
		t.Fatalf("create like: %v", err)
	}
	if err := db.Create(&Like{ID: "l2", TweetID: "t1", UserID: "u1"}).Error; err == nil {
		t.Fatalf("expected unique violation for duplicate like")
	}
	if err := db.Create(&Like{ID: "l3", TweetID: "t1", UserID: "u2"}).Error; err != nil {
		t.Fatalf("like by another user: %v", err)
	}
}

func TestEmotionReaction_CheckConstraint(t *testing.T) {
	db := newDomainDB(t)
	if err := db.Create(&EmotionReaction{ID: "r1", TweetID: "t1", UserID: "u1", Emotion: "bored", Confidence: 0.5}).Error; err == nil {
		t.Fatalf("expected check constraint failure for unknown emotion")
	}
	if err := db.Create(&EmotionReaction{ID: "r2", TweetID: "t1", UserID: "u1", Emotion: "happy", Confidence: 1.5}).Error; err == nil {
		t.Fatalf("expected check constraint failure for confidence > 1")
	}
	if err := db.Create(&EmotionReaction{ID: "r3", TweetID: "t1", UserID: "u1", Emotion: "happy", Confidence: 0.9}).Error; err != nil {
		t.Fatalf("valid reaction: %v", err)
	}
}

func TestNotification_TypeCheckAndReadDefault(t *testing.T) {
	db := newDomainDB(t)
	bad := Notification{ID: "n1", RecipientID: "u1", SenderID: "u2", SenderUsername: "bob", Type: "poke"}
	if err := db.Create(&bad).Error; err == nil {
		t.Fatalf("expected check constraint failure for unknown type")
	}
	ok := Notification{ID: "n2", RecipientID: "u1", SenderID: "u2", SenderUsername: "bob", Type: NotifyFollow}
	if err := db.Create(&ok).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	var got Notification
	if err := db.First(&got, "id = ?", "n2").Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Read || got.TweetID != nil {
		t.Fatalf("unexpected notification: %+v", got)
	}
	if !db.Migrator().HasColumn(&Notification{}, "is_read") {
		t.Fatalf("expected is_read column")
	}
}

func TestTweet_TagsPersistInOrder(t *testing.T) {
	db := newDomainDB(t)
	in := Tweet{ID: "t1", AuthorID: "u1", AuthorUsername: "ann", Content: "x", Tags: []string{"go", "db", "api"}}
	if err := db.Create(&in).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	var got Tweet
	if err := db.First(&got, "id = ?", "t1").Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(got.Tags, ",") != "go,db,api" {
		t.Fatalf("tags = %v", got.Tags)
	}
}

func TestTweet_SoftDeleteHidesRow(t *testing.T) {
	db := newDomainDB(t)
	if err := db.Create(&Tweet{ID: "t1", AuthorID: "u1", AuthorUsername: "ann", Content: "x"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.Delete(&Tweet{}, "id = ?", "t1").Error; err != nil {
		t.Fatalf("delete: %v", err)
	}
	var n int64
	db.Model(&Tweet{}).Where("id = ?", "t1").Count(&n)
	if n != 0 {
		t.Fatalf("soft-deleted tweet still visible")
	}
	db.Unscoped().Model(&Tweet{}).Where("id = ?", "t1").Count(&n)
	if n != 1 {
		t.Fatalf("row should remain unscoped")
	}
}

func TestValidEmotion(t *testing.T) {
	for _, e := range Emotions {
		if !ValidEmotion(e) {
			t.Fatalf("%q should be valid", e)
		}
	}
	for _, e := range []string{"", "Happy", "surprise", "joy"} {
		if ValidEmotion(e) {
			t.Fatalf("%q should be invalid", e)
		}
	}
}

func TestUserInfo(t *testing.T) {
	u := User{ID: "u1", Username: "ann", Bio: strp("hi"), CreatedAt: time.Now()}
	info := u.Info()
	if info.ID != "u1" || info.Username != "ann" || info.Bio == nil || *info.Bio != "hi" || info.ProfilePictureID != nil {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestEnrichedTweet_JSONShape(t *testing.T) {
	et := EnrichedTweet{
		Tweet:     Tweet{ID: "t1", Content: "hello", Tags: []string{}},
		UserLiked: true,
		Reactions: EmptyReactionSummary(),
	}
	b, err := json.Marshal(et)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// Fields of the embedded tweet are flattened.
	if m["id"] != "t1" || m["content"] != "hello" || m["user_liked"] != true {
		t.Fatalf("unexpected body: %s", b)
	}
	// Optional enrichment renders as explicit null, not missing.
	for _, k := range []string{"author_info", "original_author_info"} {
		v, ok := m[k]
		if !ok || v != nil {
			t.Fatalf("%s should be present and null in %s", k, b)
		}
	}
	if _, ok := m["recommendation_info"]; ok {
		t.Fatalf("recommendation_info should be omitted in %s", b)
	}
	r := m["reactions"].(map[string]any)
	if r["user_reaction"] != nil || r["reaction_count"].(float64) != 0 {
		t.Fatalf("unexpected reactions: %v", r)
	}
}
