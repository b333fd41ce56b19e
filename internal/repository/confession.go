// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"confessio/internal/cache"
	"confessio/internal/models"
	"confessio/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Feed sort names accepted by ListFeed.
const (
	SortLatest  = "latest"
	SortHot     = "hot"
	SortPopular = "popular"
)

// Reply-count grouping keys. Top-level feeds and single lookups count every
// descendant of a thread via root_parent_id; the thread view counts direct
// children via parent_id. The two keys are intentionally not unified.
const (
	repliesByRoot   = "root_parent_id"
	repliesByParent = "parent_id"
)

// ConfessionRepository defines the interface for confession data operations
type ConfessionRepository interface {
	Create(ctx context.Context, confession *models.Confession) error
	GetByID(ctx context.Context, id uint, viewerID string) (*models.Confession, error)
	ListFeed(ctx context.Context, sort string, viewerID string) ([]*models.Confession, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Confession, error)
	ListReplies(ctx context.Context, parentID uint, viewerID string) ([]*models.Confession, error)
	DeleteOwned(ctx context.Context, id uint, requesterID string) (int64, error)
}

// confessionRepository implements ConfessionRepository
type confessionRepository struct {
	db *gorm.DB
	// hotVoteCutoff is the fixed reference date bounding which votes count
	// toward the hot feed's daily score.
	hotVoteCutoff time.Time
}

// NewConfessionRepository creates a new confession repository
func NewConfessionRepository(db *gorm.DB, hotVoteCutoff time.Time) ConfessionRepository {
	return &confessionRepository{db: db, hotVoteCutoff: hotVoteCutoff}
}

func (r *confessionRepository) Create(ctx context.Context, confession *models.Confession) error {
	err := r.db.WithContext(ctx).Create(confession).Error
	if err == nil {
		cache.InvalidateFeeds(ctx)
	}
	return err
}

func (r *confessionRepository) GetByID(ctx context.Context, id uint, viewerID string) (*models.Confession, error) {
	var confession models.Confession
	err := r.applyConfessionDetails(r.db.WithContext(ctx), viewerID, repliesByRoot).
		First(&confession, id).Error
	if err != nil {
		return nil, err
	}
	return &confession, nil
}

func (r *confessionRepository) ListFeed(ctx context.Context, sort string, viewerID string) ([]*models.Confession, error) {
	defer func(start time.Time) {
		observability.DatabaseQueryLatency.WithLabelValues("confessions.list_feed").Observe(time.Since(start).Seconds())
	}(time.Now())

	var confessions []*models.Confession
	base := r.applyConfessionDetails(r.db.WithContext(ctx), viewerID, repliesByRoot).
		Where("confessions.root_parent_id IS NULL")
	err := r.applySort(base, sort).Find(&confessions).Error
	return confessions, err
}

// ListByUser returns the given user's own confessions, newest first. The
// viewer is the owner, so the user-vote column is computed against the same id.
func (r *confessionRepository) ListByUser(ctx context.Context, userID string) ([]*models.Confession, error) {
	var confessions []*models.Confession
	err := r.applyConfessionDetails(r.db.WithContext(ctx), userID, repliesByRoot).
		Where("confessions.user_id = ?", userID).
		Order("confessions.created_at DESC").
		Find(&confessions).Error
	return confessions, err
}

func (r *confessionRepository) ListReplies(ctx context.Context, parentID uint, viewerID string) ([]*models.Confession, error) {
	var confessions []*models.Confession
	err := r.applyConfessionDetails(r.db.WithContext(ctx), viewerID, repliesByParent).
		Where("confessions.parent_id = ?", parentID).
		Order("confessions.created_at ASC").
		Find(&confessions).Error
	return confessions, err
}

// DeleteOwned hard-deletes the confession only when requesterID owns it and
// reports the number of rows affected. A request naming someone else's row (or
// a missing one) matches zero rows; callers treat that as a silent no-op so
// existence is never leaked. Replies are left in place.
func (r *confessionRepository) DeleteOwned(ctx context.Context, id uint, requesterID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, requesterID).
		Delete(&models.Confession{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		cache.InvalidateFeeds(ctx)
		cache.InvalidateConfession(ctx, id)
	}
	return res.RowsAffected, nil
}

// applyConfessionDetails adds subqueries to fetch vote counts, the reply count
// (grouped on replyKey) and the viewer's own vote in a single query. Zero-vote
// confessions report 0, not NULL, and participate normally in ordering.
func (r *confessionRepository) applyConfessionDetails(db *gorm.DB, viewerID, replyKey string) *gorm.DB {
	selectQuery := "confessions.*, " +
		"(SELECT COUNT(*) FROM confession_votes WHERE confession_votes.confession_id = confessions.id AND confession_votes.weight = 1) AS likes_count, " +
		"(SELECT COUNT(*) FROM confession_votes WHERE confession_votes.confession_id = confessions.id AND confession_votes.weight = -1) AS dislikes_count, " +
		"(SELECT COUNT(*) FROM confessions children WHERE children." + replyKey + " = confessions.id) AS replies_count"

	if viewerID != "" {
		return db.Select(selectQuery+
			", COALESCE((SELECT weight FROM confession_votes WHERE confession_votes.confession_id = confessions.id AND confession_votes.user_id = ?), 0) AS user_vote",
			viewerID)
	}

	return db.Select(selectQuery + ", 0 AS user_vote")
}

// applySort appends the WHERE/ORDER BY clauses for the requested feed sort.
// hot restricts rows to confessions created today and ranks by the signed vote
// sum of votes updated since the fixed cutoff date; popular ranks by the
// all-time signed vote sum. Both tie-break on created_at descending.
// The computed orderings go through clause.OrderBy: Order() only accepts
// strings and ready-made order clauses, not a bare expression.
func (r *confessionRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortHot:
		return db.
			Where("confessions.created_at >= ?", startOfDay(time.Now())).
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:  "COALESCE((SELECT SUM(weight) FROM confession_votes WHERE confession_votes.confession_id = confessions.id AND confession_votes.updated_at >= ?), 0) DESC, confessions.created_at DESC",
				Vars: []interface{}{r.hotVoteCutoff},
			}})
	case SortPopular:
		return db.Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL: "COALESCE((SELECT SUM(weight) FROM confession_votes WHERE confession_votes.confession_id = confessions.id), 0) DESC, confessions.created_at DESC",
		}})
	default: // "latest" and anything unrecognized
		return db.Order("confessions.created_at DESC")
	}
}

// startOfDay returns local midnight of t's calendar day.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
