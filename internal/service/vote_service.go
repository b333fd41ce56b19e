package service

import (
	"context"
	"errors"

	"confessio/internal/models"
	"confessio/internal/observability"
	"confessio/internal/repository"

	"gorm.io/gorm"
)

// VoteService handles business logic for votes
type VoteService interface {
	Cast(ctx context.Context, voterID string, confessionID uint, weight int) error
	Clear(ctx context.Context, voterID string, confessionID uint) error
}

type voteService struct {
	repo repository.VoteRepository
}

// NewVoteService creates a new vote service
func NewVoteService(repo repository.VoteRepository) VoteService {
	return &voteService{repo: repo}
}

// Cast records voterID's vote on a confession, replacing any previous vote by
// the same voter. Re-casting the identical weight is idempotent.
func (s *voteService) Cast(ctx context.Context, voterID string, confessionID uint, weight int) error {
	if !models.ValidVoteWeight(weight) {
		return models.NewValidationError("Vote weight must be 1 or -1")
	}

	if err := s.repo.Cast(ctx, voterID, confessionID, weight); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return models.NewReferentialError("confession no longer exists")
		}
		return models.NewInternalError(err)
	}

	kind := "like"
	if weight == models.VoteDislike {
		kind = "dislike"
	}
	observability.VotesRecorded.WithLabelValues(kind).Inc()
	return nil
}

// Clear removes voterID's vote if present; clearing nothing is fine.
func (s *voteService) Clear(ctx context.Context, voterID string, confessionID uint) error {
	if err := s.repo.Clear(ctx, voterID, confessionID); err != nil {
		return models.NewInternalError(err)
	}
	observability.VotesRecorded.WithLabelValues("clear").Inc()
	return nil
}
