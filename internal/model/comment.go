package model

import "time"

// Comment targets either a post or another comment, never both
type Comment struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	Content   string    `gorm:"not null" json:"content"`
	PostID    *string   `gorm:"index;size:26" json:"postId"`
	CommentID *string   `gorm:"index;size:26" json:"commentId"`
	UserID    string    `gorm:"index;size:26;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	// Filled by queries that select it, never stored
	ReplyCount int64 `gorm:"->;-:migration" json:"replyCount"`

	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Replies   []Comment  `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
	Reactions []Reaction `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
}

type CommentsList struct {
	Comments []Comment `json:"comments"`
}
