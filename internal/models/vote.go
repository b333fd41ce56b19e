package models

import (
	"time"
)

// Vote weights. Anything else is rejected before reaching the store.
const (
	VoteLike    = 1
	VoteDislike = -1
)

// ConfessionVote records one user's signed vote on a confession.
// The combination of UserID and ConfessionID must be unique; casting again
// overwrites Weight and UpdatedAt instead of inserting a second row, and
// "no vote" simply has no row.
type ConfessionVote struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	UserID       string `gorm:"size:64;not null;uniqueIndex:idx_voter_confession" json:"user_id"`
	ConfessionID uint   `gorm:"not null;uniqueIndex:idx_voter_confession" json:"confession_id"`
	Weight       int    `gorm:"not null" json:"weight"`
	CreatedAt    time.Time `json:"created_at"`
	// UpdatedAt feeds the hot-feed vote window.
	UpdatedAt time.Time `json:"updated_at"`

	Confession Confession `gorm:"foreignKey:ConfessionID" json:"-"`
}

// ValidVoteWeight reports whether w is one of the two accepted weights.
func ValidVoteWeight(w int) bool {
	return w == VoteLike || w == VoteDislike
}
