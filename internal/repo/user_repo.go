// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for users and the
// follow graph.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
)

// CreateUser inserts a user. A taken username returns ErrDuplicate.
func CreateUser(ctx context.Context, db *gorm.DB, username string, bio, pictureID *string) (*domain.User, error) {
	u := &domain.User{
		ID:               uuid.NewString(),
		Username:         username,
		Bio:              bio,
		ProfilePictureID: pictureID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return u, nil
}

// GetUser fetches a user by id or returns ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername fetches a user by username or returns ErrNotFound.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UsersByIDs resolves ids to author projections keyed by id. Unknown ids are
// absent from the map.
func UsersByIDs(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.AuthorInfo, error) {
	out := make(map[string]domain.AuthorInfo, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []domain.User
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u.Info()
	}
	return out, nil
}

// UsersByUsernames resolves usernames to author projections keyed by
// username.
func UsersByUsernames(ctx context.Context, db *gorm.DB, usernames []string) (map[string]domain.AuthorInfo, error) {
	out := make(map[string]domain.AuthorInfo, len(usernames))
	if len(usernames) == 0 {
		return out, nil
	}
	var users []domain.User
	if err := db.WithContext(ctx).Where("username IN ?", usernames).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.Username] = u.Info()
	}
	return out, nil
}

// CreateFollow makes followerID follow followeeID. Following twice returns
// ErrDuplicate.
func CreateFollow(ctx context.Context, db *gorm.DB, followerID, followeeID string) error {
	f := &domain.Follow{
		ID:         uuid.NewString(),
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(f).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// DeleteFollow removes a follow edge or returns ErrNotFound.
func DeleteFollow(ctx context.Context, db *gorm.DB, followerID, followeeID string) error {
	res := db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&domain.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FolloweeIDs returns the ids userID follows.
func FolloweeIDs(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ?", userID).
		Order("created_at asc").
		Pluck("followee_id", &ids).Error
	if ids == nil {
		ids = []string{}
	}
	return ids, err
}

// FollowerUsers returns up to limit users following userID, most recent
// follow first.
func FollowerUsers(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.User, error) {
	return followEdgeUsers(ctx, db, "followee_id", "follower_id", userID, limit)
}

// FollowingUsers returns up to limit users userID follows, most recent follow
// first.
func FollowingUsers(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.User, error) {
	return followEdgeUsers(ctx, db, "follower_id", "followee_id", userID, limit)
}

// followEdgeUsers joins follow edges matching match = userID to the users on
// the other end of the edge.
func followEdgeUsers(ctx context.Context, db *gorm.DB, match, other, userID string, limit int) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Joins("JOIN follows ON follows."+other+" = users.id").
		Where("follows."+match+" = ?", userID).
		Order("follows.created_at desc, follows.id desc").
		Limit(limit).
		Find(&out).Error
	if out == nil {
		out = []domain.User{}
	}
	return out, err
}

// IsFollowing reports whether followerID follows followeeID.
func IsFollowing(ctx context.Context, db *gorm.DB, followerID, followeeID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&n).Error
	return n > 0, err
}

// FollowCounts returns how many users follow userID and how many userID
// follows.
func FollowCounts(ctx context.Context, db *gorm.DB, userID string) (domain.UserStats, error) {
	var st domain.UserStats
	q := db.WithContext(ctx).Model(&domain.Follow{})
	if err := q.Where("followee_id = ?", userID).Count(&st.FollowersCount).Error; err != nil {
		return st, err
	}
	q = db.WithContext(ctx).Model(&domain.Follow{})
	if err := q.Where("follower_id = ?", userID).Count(&st.FollowingCount).Error; err != nil {
		return st, err
	}
	return st, nil
}
