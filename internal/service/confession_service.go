// Package service contains business logic for the application.
package service

import (
	"context"
	"errors"
	"strings"

	"confessio/internal/cache"
	"confessio/internal/models"
	"confessio/internal/observability"
	"confessio/internal/repository"

	"gorm.io/gorm"
)

// Submission limits, measured in runes. Longer input is silently truncated,
// not rejected; the UI enforces the same limits client-side.
const (
	MaxContentLength = 500
	MaxAliasLength   = 32
)

// ConfessionService handles business logic for confessions
type ConfessionService interface {
	Create(ctx context.Context, userID, content, alias string) (*models.Confession, error)
	CreateReply(ctx context.Context, userID string, parentID uint, content, alias string) (*models.Confession, error)
	GetByID(ctx context.Context, id uint, viewerID string) (*models.Confession, error)
	ListFeed(ctx context.Context, sort string, viewerID string) ([]*models.Confession, error)
	ListOwn(ctx context.Context, userID string) ([]*models.Confession, error)
	ListReplies(ctx context.Context, parentID uint, viewerID string) ([]*models.Confession, error)
	Delete(ctx context.Context, id uint, requesterID string) error
}

type confessionService struct {
	repo  repository.ConfessionRepository
	votes repository.VoteRepository
}

// NewConfessionService creates a new confession service
func NewConfessionService(repo repository.ConfessionRepository, votes repository.VoteRepository) ConfessionService {
	return &confessionService{repo: repo, votes: votes}
}

func (s *confessionService) Create(ctx context.Context, userID, content, alias string) (*models.Confession, error) {
	content, alias, err := normalizeSubmission(content, alias)
	if err != nil {
		return nil, err
	}

	confession := &models.Confession{
		Content: content,
		Alias:   alias,
		UserID:  userID,
	}
	if err := s.repo.Create(ctx, confession); err != nil {
		return nil, models.NewInternalError(err)
	}
	return confession, nil
}

// CreateReply attaches a reply under parentID. The root pointer always names
// the thread's top-level confession: replying to a reply inherits its root.
func (s *confessionService) CreateReply(ctx context.Context, userID string, parentID uint, content, alias string) (*models.Confession, error) {
	content, alias, err := normalizeSubmission(content, alias)
	if err != nil {
		return nil, err
	}

	parent, err := s.repo.GetByID(ctx, parentID, "")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewReferentialError("confession no longer exists")
		}
		return nil, models.NewInternalError(err)
	}

	rootID := parent.ID
	if parent.RootParentID != nil {
		rootID = *parent.RootParentID
	}

	reply := &models.Confession{
		Content:      content,
		Alias:        alias,
		UserID:       userID,
		ParentID:     &parent.ID,
		RootParentID: &rootID,
	}
	if err := s.repo.Create(ctx, reply); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, models.NewReferentialError("confession no longer exists")
		}
		return nil, models.NewInternalError(err)
	}
	return reply, nil
}

func (s *confessionService) GetByID(ctx context.Context, id uint, viewerID string) (*models.Confession, error) {
	var confession models.Confession
	_, err := cache.Aside(ctx, cache.ConfessionKey(id), &confession, cache.ConfessionTTL, func() error {
		found, err := s.repo.GetByID(ctx, id, "")
		if err != nil {
			return err
		}
		confession = *found
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("confession", id)
		}
		return nil, models.NewInternalError(err)
	}

	if viewerID != "" {
		votes, err := s.votes.ListByVoter(ctx, viewerID, []uint{confession.ID})
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		confession.UserVote = votes[confession.ID]
	}
	return &confession, nil
}

// ListFeed serves the three public feed orderings. The cached payload is
// viewer-independent (user_vote computed for nobody); after any cache hit or
// fill the viewer's own votes are layered back on from the ledger.
func (s *confessionService) ListFeed(ctx context.Context, sort string, viewerID string) ([]*models.Confession, error) {
	switch sort {
	case repository.SortLatest, repository.SortHot, repository.SortPopular:
	default:
		sort = repository.SortLatest
	}

	var confessions []*models.Confession
	hit, err := cache.Aside(ctx, cache.FeedKey(sort), &confessions, cache.FeedTTL, func() error {
		list, err := s.repo.ListFeed(ctx, sort, "")
		if err != nil {
			return err
		}
		confessions = list
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	source := "db"
	if hit {
		source = "cache"
	}
	observability.FeedQueries.WithLabelValues(sort, source).Inc()

	if err := s.enrichViewerVotes(ctx, viewerID, confessions); err != nil {
		return nil, models.NewInternalError(err)
	}
	return confessions, nil
}

func (s *confessionService) ListOwn(ctx context.Context, userID string) ([]*models.Confession, error) {
	confessions, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return confessions, nil
}

func (s *confessionService) ListReplies(ctx context.Context, parentID uint, viewerID string) ([]*models.Confession, error) {
	if _, err := s.repo.GetByID(ctx, parentID, ""); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("confession", parentID)
		}
		return nil, models.NewInternalError(err)
	}

	confessions, err := s.repo.ListReplies(ctx, parentID, viewerID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return confessions, nil
}

// Delete removes the confession only when requesterID owns it. Deleting a
// missing confession, or someone else's, succeeds without doing anything;
// the response never reveals whether the row existed.
func (s *confessionService) Delete(ctx context.Context, id uint, requesterID string) error {
	if _, err := s.repo.DeleteOwned(ctx, id, requesterID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// enrichViewerVotes overwrites user_vote on each confession with viewerID's
// actual ledger entry. Cached payloads carry user_vote=0 for everyone.
func (s *confessionService) enrichViewerVotes(ctx context.Context, viewerID string, confessions []*models.Confession) error {
	if viewerID == "" || len(confessions) == 0 {
		return nil
	}
	ids := make([]uint, len(confessions))
	for i, c := range confessions {
		ids[i] = c.ID
	}
	votes, err := s.votes.ListByVoter(ctx, viewerID, ids)
	if err != nil {
		return err
	}
	for _, c := range confessions {
		c.UserVote = votes[c.ID]
	}
	return nil
}

// normalizeSubmission trims whitespace and clips both fields to their rune
// limits. Empty content after trimming is the one rejected case; an empty
// alias just means the author stays anonymous.
func normalizeSubmission(content, alias string) (string, string, error) {
	content = truncateRunes(strings.TrimSpace(content), MaxContentLength)
	if content == "" {
		return "", "", models.NewValidationError("Confession content is required")
	}
	alias = truncateRunes(strings.TrimSpace(alias), MaxAliasLength)
	return content, alias, nil
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
