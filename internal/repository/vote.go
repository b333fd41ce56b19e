package repository

import (
	"context"

	"confessio/internal/cache"
	"confessio/internal/models"

	"gorm.io/gorm"
)

// VoteRepository defines the interface for vote ledger operations
type VoteRepository interface {
	Cast(ctx context.Context, voterID string, confessionID uint, weight int) error
	Clear(ctx context.Context, voterID string, confessionID uint) error
	ListByVoter(ctx context.Context, voterID string, confessionIDs []uint) (map[uint]int, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Cast records or replaces the voter's vote on a confession. The ledger keeps
// at most one row per (voter, confession); re-casting the same weight is a
// no-op beyond bumping updated_at, which is what feeds the hot score window.
// CURRENT_TIMESTAMP keeps the statement portable across postgres and sqlite.
func (r *voteRepository) Cast(ctx context.Context, voterID string, confessionID uint, weight int) error {
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO confession_votes (user_id, confession_id, weight, created_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, confession_id)
		DO UPDATE SET weight = EXCLUDED.weight, updated_at = CURRENT_TIMESTAMP
	`, voterID, confessionID, weight).Error
	if err != nil {
		return err
	}
	cache.InvalidateFeeds(ctx)
	cache.InvalidateConfession(ctx, confessionID)
	return nil
}

// Clear removes the voter's vote if one exists. Clearing an absent vote is a
// silent no-op.
func (r *voteRepository) Clear(ctx context.Context, voterID string, confessionID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND confession_id = ?", voterID, confessionID).
		Delete(&models.ConfessionVote{}).Error
	if err != nil {
		return err
	}
	cache.InvalidateFeeds(ctx)
	cache.InvalidateConfession(ctx, confessionID)
	return nil
}

// ListByVoter returns the voter's weights for the given confession ids, keyed
// by confession id. Confessions the voter never touched are absent from the
// map. Used to re-personalize cached feed payloads.
func (r *voteRepository) ListByVoter(ctx context.Context, voterID string, confessionIDs []uint) (map[uint]int, error) {
	votes := make(map[uint]int, len(confessionIDs))
	if voterID == "" || len(confessionIDs) == 0 {
		return votes, nil
	}

	var rows []models.ConfessionVote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND confession_id IN ?", voterID, confessionIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		votes[row.ConfessionID] = row.Weight
	}
	return votes, nil
}
