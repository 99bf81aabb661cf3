package model

import (
	"slices"
	"time"
)

type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionLaugh ReactionType = "laugh"
	ReactionAngry ReactionType = "angry"
	ReactionSad   ReactionType = "sad"
)

var ReactionTypes = []ReactionType{ReactionLike, ReactionLove, ReactionLaugh, ReactionAngry, ReactionSad}

func (t ReactionType) Valid() bool {
	return slices.Contains(ReactionTypes, t)
}

type Reaction struct {
	ID        string       `gorm:"primaryKey;size:26" json:"id"`
	Type      ReactionType `gorm:"size:16;not null" json:"type"`
	PostID    *string      `gorm:"index;size:26" json:"postId"`
	CommentID *string      `gorm:"index;size:26" json:"commentId"`
	UserID    string       `gorm:"index;size:26;not null" json:"userId"`
	CreatedAt time.Time    `json:"createdAt"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
}

// ReactionSummary counts reactions per type. Types with no reactions
// are still present with a zero count.
type ReactionSummary map[ReactionType]int

type ReactionsList struct {
	Reactions []Reaction      `json:"reactions"`
	Summary   ReactionSummary `json:"summary"`
}

func Summarize(reactions []Reaction) ReactionSummary {
	s := make(ReactionSummary, len(ReactionTypes)+1)
	for _, t := range ReactionTypes {
		s[t] = 0
	}
	s["total"] = 0

	for _, r := range reactions {
		s[r.Type]++
		s["total"]++
	}

	return s
}
