// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"confessio/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumIdentities  int
	NumConfessions int
	NumReplies     int
	NumVotes       int
	ShouldClean    bool
	// MaxDays is how far back created_at timestamps are spread.
	MaxDays int
}

// aliasPool mixes named and anonymous authors; an empty alias is rendered as
// the anonymous placeholder by clients.
var aliasPool = []string{
	"", "", "", // anonymity is the common case
	"night owl", "regretful", "sleepless", "the lurker", "caffeinated",
	"former optimist", "quiet one", "stranger", "overthinker",
}

// Seeder populates the database with generated confessions, replies and votes.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes seeded data. Votes go first to satisfy the FK to confessions.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	if err := s.db.Exec("DELETE FROM confession_votes").Error; err != nil {
		return fmt.Errorf("clearing votes: %w", err)
	}
	if err := s.db.Exec("DELETE FROM confessions").Error; err != nil {
		return fmt.Errorf("clearing confessions: %w", err)
	}
	return nil
}

// Seed populates the database per the given options.
func (s *Seeder) Seed(opts Options) error {
	if opts.NumIdentities <= 0 {
		opts.NumIdentities = 25
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}
	log.Printf("Seeding %d confessions, %d replies, %d votes across %d identities...",
		opts.NumConfessions, opts.NumReplies, opts.NumVotes, opts.NumIdentities)

	identities := make([]string, opts.NumIdentities)
	for i := range identities {
		identities[i] = uuid.NewString()
	}

	confessions := make([]*models.Confession, 0, opts.NumConfessions)
	for i := 0; i < opts.NumConfessions; i++ {
		c := s.buildConfession(identities, opts.MaxDays)
		if err := s.db.Create(c).Error; err != nil {
			return fmt.Errorf("creating confession: %w", err)
		}
		confessions = append(confessions, c)
	}
	if len(confessions) == 0 {
		return nil
	}

	for i := 0; i < opts.NumReplies; i++ {
		parent := confessions[s.rng.Intn(len(confessions))]
		reply := s.buildConfession(identities, opts.MaxDays)
		reply.ParentID = &parent.ID
		rootID := parent.ID
		if parent.RootParentID != nil {
			rootID = *parent.RootParentID
		}
		reply.RootParentID = &rootID
		if reply.CreatedAt.Before(parent.CreatedAt) {
			reply.CreatedAt = parent.CreatedAt.Add(time.Duration(s.rng.Intn(120)) * time.Minute)
		}
		if err := s.db.Create(reply).Error; err != nil {
			return fmt.Errorf("creating reply: %w", err)
		}
		// replies can themselves attract replies
		confessions = append(confessions, reply)
	}

	votesSeeded := 0
	for _, voter := range identities {
		for _, c := range confessions {
			if votesSeeded >= opts.NumVotes {
				break
			}
			// each voter touches roughly a third of the board
			if s.rng.Intn(3) != 0 {
				continue
			}
			weight := models.VoteLike
			if s.rng.Intn(4) == 0 {
				weight = models.VoteDislike
			}
			vote := &models.ConfessionVote{
				UserID:       voter,
				ConfessionID: c.ID,
				Weight:       weight,
			}
			if err := s.db.Create(vote).Error; err != nil {
				return fmt.Errorf("creating vote: %w", err)
			}
			votesSeeded++
		}
	}

	log.Printf("Seeded %d confessions and %d votes", len(confessions), votesSeeded)
	return nil
}

func (s *Seeder) buildConfession(identities []string, maxDays int) *models.Confession {
	daysBack := s.rng.Intn(maxDays)
	hoursBack := s.rng.Intn(24)
	minsBack := s.rng.Intn(60)

	return &models.Confession{
		Content: gofakeit.Paragraph(1, 2, 8, " "),
		Alias:   aliasPool[s.rng.Intn(len(aliasPool))],
		UserID:  identities[s.rng.Intn(len(identities))],
		CreatedAt: time.Now().
			Add(-time.Duration(daysBack)*24*time.Hour -
				time.Duration(hoursBack)*time.Hour -
				time.Duration(minsBack)*time.Minute),
	}
}
