// Package domain defines the persistence models for users, tweets and the
// interactions around them (likes, retweets, comments, emotion reactions,
// follows, hashtags, bookmarks and notifications). These types are mapped
// with GORM and are shared by the repository, ranking and service layers.
package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Media types accepted on a tweet.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// User is a registered account. The ranking core only ever sees the public
// projection returned by Info.
//
// Fields:
//   - ID: stable UUID primary key.
//   - Username: unique handle, referenced from tweets by value.
//   - ProfilePictureID: optional opaque media id.
//   - Bio: optional free text.
type User struct {
	ID               string    `json:"id"                 gorm:"type:varchar(36);primaryKey"`
	Username         string    `json:"username"           gorm:"type:varchar(64);not null;uniqueIndex"`
	ProfilePictureID *string   `json:"profile_picture_id" gorm:"type:varchar(64)"`
	Bio              *string   `json:"bio"                gorm:"type:text"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Info returns the author projection of the user.
func (u User) Info() AuthorInfo {
	return AuthorInfo{
		ID:               u.ID,
		Username:         u.Username,
		ProfilePictureID: u.ProfilePictureID,
		Bio:              u.Bio,
	}
}

// Tweet is a post or a retweet. A retweet is its own row authored by the
// retweeting user; it copies the original content, carries no tags of its
// own and points back to the original through OriginalTweetID.
//
// Fields:
//   - ID: UUIDv7 primary key, so ids sort in creation order.
//   - AuthorID / AuthorUsername: the posting user.
//   - LikeCount / CommentCount / RetweetCount: denormalized counters (>= 0).
//   - IsRetweet, OriginalTweetID, OriginalAuthorID, OriginalAuthorUsername:
//     retweet linkage; nil for original posts.
//   - Tags: normalized hashtags in first-appearance order; empty on retweets.
//   - MediaID / MediaType: opaque media reference ("image" or "video").
//   - DeletedAt: soft deletion marker; deleted tweets disappear from reads.
//
// The (original_tweet_id, author_id) unique index allows one retweet per user
// per tweet. Posts carry a NULL original id and never collide.
type Tweet struct {
	ID                     string                      `json:"id"                       gorm:"type:varchar(36);primaryKey"`
	AuthorID               string                      `json:"author_id"                gorm:"type:varchar(36);not null;index:idx_tweets_author;uniqueIndex:ux_retweet_author,priority:2"`
	AuthorUsername         string                      `json:"author_username"          gorm:"type:varchar(64);not null"`
	Content                string                      `json:"content"                  gorm:"type:text;not null"`
	LikeCount              int                         `json:"like_count"               gorm:"not null;default:0;index"`
	CommentCount           int                         `json:"comment_count"            gorm:"not null;default:0"`
	RetweetCount           int                         `json:"retweet_count"            gorm:"not null;default:0"`
	IsRetweet              bool                        `json:"is_retweet"               gorm:"not null;default:false"`
	OriginalTweetID        *string                     `json:"original_tweet_id"        gorm:"type:varchar(36);uniqueIndex:ux_retweet_author,priority:1"`
	OriginalAuthorID       *string                     `json:"-"                        gorm:"type:varchar(36)"`
	OriginalAuthorUsername *string                     `json:"original_author_username" gorm:"type:varchar(64)"`
	Tags                   datatypes.JSONSlice[string] `json:"tags"`
	MediaID                *string                     `json:"media_id,omitempty"       gorm:"type:varchar(64)"`
	MediaType              *string                     `json:"media_type,omitempty"     gorm:"type:varchar(16)"`
	CreatedAt              time.Time                   `json:"created_at"               gorm:"index"`
	DeletedAt              gorm.DeletedAt              `json:"-"                        gorm:"index"`
}

// TableName returns the database table name for Tweet.
func (Tweet) TableName() string { return "tweets" }

// Like records that UserID liked TweetID. One per (tweet, user).
type Like struct {
	ID        string    `json:"id"         gorm:"type:varchar(36);primaryKey"`
	TweetID   string    `json:"tweet_id"   gorm:"type:varchar(36);not null;uniqueIndex:ux_like_tweet_user,priority:1"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(36);not null;uniqueIndex:ux_like_tweet_user,priority:2;index:idx_likes_user"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName returns the database table name for Like.
func (Like) TableName() string { return "likes" }

// Comment is a reply on a tweet. Only the count matters to ranking.
type Comment struct {
	ID             string    `json:"id"              gorm:"type:varchar(36);primaryKey"`
	TweetID        string    `json:"tweet_id"        gorm:"type:varchar(36);not null;index"`
	AuthorID       string    `json:"author_id"       gorm:"type:varchar(36);not null"`
	AuthorUsername string    `json:"author_username" gorm:"type:varchar(64);not null"`
	Content        string    `json:"content"         gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// EmotionReaction is a user's emotion on a tweet. A user holds at most one
// reaction per tweet; reacting again replaces it.
type EmotionReaction struct {
	ID         string    `json:"id"         gorm:"type:varchar(36);primaryKey"`
	TweetID    string    `json:"tweet_id"   gorm:"type:varchar(36);not null;uniqueIndex:ux_reaction_tweet_user,priority:1"`
	UserID     string    `json:"user_id"    gorm:"type:varchar(36);not null;uniqueIndex:ux_reaction_tweet_user,priority:2"`
	Emotion    string    `json:"emotion"    gorm:"type:varchar(16);not null;check:emotion IN ('happy','sad','angry','surprised','neutral','disgust','fear')"`
	Confidence float64   `json:"confidence" gorm:"not null;default:1;check:confidence >= 0 AND confidence <= 1"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the database table name for EmotionReaction.
func (EmotionReaction) TableName() string { return "emotion_reactions" }

// Follow links a follower to a followee.
type Follow struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	FollowerID string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_follow_pair,priority:1"`
	FolloweeID string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_follow_pair,priority:2;index"`
	CreatedAt  time.Time
}

// TableName returns the database table name for Follow.
func (Follow) TableName() string { return "follows" }

// Hashtag is a normalized tag seen at least once.
type Hashtag struct {
	Tag       string    `gorm:"type:varchar(100);primaryKey"`
	CreatedAt time.Time
}

// TableName returns the database table name for Hashtag.
func (Hashtag) TableName() string { return "hashtags" }

// TweetHashtag associates a tweet with each of its tags so candidates can be
// selected by tag without scanning JSON.
type TweetHashtag struct {
	TweetID string `gorm:"type:varchar(36);primaryKey"`
	Tag     string `gorm:"type:varchar(100);primaryKey;index"`
}

// TableName returns the database table name for TweetHashtag.
func (TweetHashtag) TableName() string { return "tweet_hashtags" }

// Notification types.
const (
	NotifyLike    = "like"
	NotifyComment = "comment"
	NotifyRetweet = "retweet"
	NotifyFollow  = "follow"
	NotifyMention = "mention"
)

// Notification tells RecipientID that SenderID acted on them or their tweet.
// Tweet and comment fields are set for the types that concern a tweet; the
// content fields hold short snippets taken when the notification was made.
type Notification struct {
	ID             string    `json:"id"                        gorm:"type:varchar(36);primaryKey"`
	RecipientID    string    `json:"recipient_id"              gorm:"type:varchar(36);not null;index:idx_notifications_recipient,priority:1"`
	SenderID       string    `json:"sender_id"                 gorm:"type:varchar(36);not null"`
	SenderUsername string    `json:"sender_username"           gorm:"type:varchar(64);not null"`
	Type           string    `json:"type"                      gorm:"type:varchar(16);not null;check:type IN ('like','comment','retweet','follow','mention')"`
	TweetID        *string   `json:"tweet_id,omitempty"        gorm:"type:varchar(36)"`
	TweetContent   *string   `json:"tweet_content,omitempty"   gorm:"type:text"`
	CommentID      *string   `json:"comment_id,omitempty"      gorm:"type:varchar(36)"`
	CommentContent *string   `json:"comment_content,omitempty" gorm:"type:text"`
	Read           bool      `json:"read"                      gorm:"column:is_read;not null;default:false;index:idx_notifications_recipient,priority:2"`
	CreatedAt      time.Time `json:"created_at"                gorm:"index"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// Bookmark saves TweetID for UserID. One per (user, tweet).
type Bookmark struct {
	ID        string    `json:"id"         gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(36);not null;uniqueIndex:ux_bookmark_user_tweet,priority:1"`
	TweetID   string    `json:"tweet_id"   gorm:"type:varchar(36);not null;uniqueIndex:ux_bookmark_user_tweet,priority:2"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName returns the database table name for Bookmark.
func (Bookmark) TableName() string { return "bookmarks" }
