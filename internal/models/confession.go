// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Confession is a single anonymous post. A reply is a Confession with a
// non-nil ParentID; RootParentID points at the top-level ancestor so a whole
// thread can be grouped regardless of nesting depth.
type Confession struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`
	// Alias is the self-chosen display name; empty means the author stays
	// anonymous ("Anonim" in the UI).
	Alias  string `gorm:"size:32" json:"alias,omitempty"`
	UserID string `gorm:"size:64;not null;index" json:"user_id"`

	ParentID     *uint       `gorm:"index" json:"parent_id,omitempty"`
	Parent       *Confession `gorm:"foreignKey:ParentID" json:"-"`
	RootParentID *uint       `gorm:"index" json:"root_parent_id,omitempty"`
	RootParent   *Confession `gorm:"foreignKey:RootParentID" json:"-"`

	// LikesCount is not persisted; computed at query time
	LikesCount int64 `gorm:"->" json:"likes_count"`
	// DislikesCount is not persisted; computed at query time
	DislikesCount int64 `gorm:"->" json:"dislikes_count"`
	// RepliesCount is not persisted; computed at query time
	RepliesCount int64 `gorm:"->" json:"replies_count"`
	// UserVote is the requesting viewer's own weight for this confession,
	// 0 when the viewer has not voted (computed)
	UserVote int `gorm:"->" json:"user_vote"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
