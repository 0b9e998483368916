package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/elucidate-app/elucidate/internal/db"
)

// AffinityRepository provides data access for the like/dislike ledger.
// It encapsulates edge inserts, mutual-match checks and the candidate feed.
type AffinityRepository struct {
	db *gorm.DB
}

// NewAffinityRepository creates a new repository bound to the given DB connection.
func NewAffinityRepository(database *gorm.DB) *AffinityRepository {
	return &AffinityRepository{db: database}
}

// WithTx returns a copy of the repository bound to tx, so edge inserts can
// join a caller-managed transaction.
func (r *AffinityRepository) WithTx(tx *gorm.DB) *AffinityRepository {
	return &AffinityRepository{db: tx}
}

// RecordLike inserts a liker -> liked edge.
//
// Behavior:
//   - The composite PK makes the edge unique per direction; repeating a like
//     is a no-op rather than a duplicate row.
//   - Returns whether a new edge was created, which is what gates the
//     one-greeting-per-match rule in the discovery service.
//
// Example:
//
//	created, err := repo.RecordLike(ctx, 1, 2) // user 1 liked user 2
func (r *AffinityRepository) RecordLike(ctx context.Context, likerID, likedID uint64) (bool, error) {
	like := db.Like{LikerID: likerID, LikedID: likedID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RecordDislike inserts a disliker -> disliked edge. Same dedupe semantics
// as RecordLike.
func (r *AffinityRepository) RecordDislike(ctx context.Context, dislikerID, dislikedID uint64) (bool, error) {
	dislike := db.Dislike{DislikerID: dislikerID, DislikedID: dislikedID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dislike)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// HasLiked checks whether liker has a like edge towards liked.
func (r *AffinityRepository) HasLiked(ctx context.Context, likerID, likedID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		Count(&count).Error
	return count > 0, err
}

// IsMutualMatch reports whether like edges exist in both directions between
// the unordered pair {a, b}. Existence per direction, never a row count, so
// the result stays correct regardless of insert history.
func (r *AffinityRepository) IsMutualMatch(ctx context.Context, a, b uint64) (bool, error) {
	forward, err := r.HasLiked(ctx, a, b)
	if err != nil || !forward {
		return false, err
	}
	return r.HasLiked(ctx, b, a)
}

// MatchRow is one mutual match joined with the counterpart's profile.
type MatchRow struct {
	MatchID   string `gorm:"column:match_id" json:"match_id"`
	UserID    uint64 `gorm:"column:user_id" json:"user_id"`
	Name      string `gorm:"column:name" json:"name"`
	AvatarURL string `gorm:"column:avatar_url" json:"avatarUrl"`
}

// ListMatches returns every counterpart with a reciprocal like edge,
// joined with display name and photo.
//
// Behavior:
//   - A self-join of likes on the reversed pair yields mutual edges only.
//   - match_id is "<min>-<max>" of the pair ids, stable per pair.
//   - Ordered by counterpart name, then id for ties.
func (r *AffinityRepository) ListMatches(ctx context.Context, userID uint64) ([]MatchRow, error) {
	var matches []MatchRow
	err := r.db.WithContext(ctx).
		Table("likes l1").
		Select(`l1.liker_id, l1.liked_id, u.id AS user_id, u.name, u.photo AS avatar_url`).
		Joins("JOIN likes l2 ON l1.liker_id = l2.liked_id AND l1.liked_id = l2.liker_id").
		Joins("JOIN users u ON u.id = l1.liked_id").
		Where("l1.liker_id = ?", userID).
		Order("u.name, u.id").
		Scan(&matches).Error
	if err != nil {
		return nil, err
	}
	for i := range matches {
		matches[i].MatchID = pairID(userID, matches[i].UserID)
	}
	return matches, nil
}

// CountLikers returns how many users currently like the given user.
// Used with the Redis cache (DB is the fallback).
func (r *AffinityRepository) CountLikers(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("liked_id = ?", userID).
		Count(&count).Error
	return count, err
}

// pairID renders the unordered pair as "<min>-<max>".
func pairID(a, b uint64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d-%d", a, b)
}
