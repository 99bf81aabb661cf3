package model

import "time"

type Post struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	Content   string    `gorm:"not null" json:"content"`
	UploadID  *string   `gorm:"size:26" json:"uploadId"`
	UserID    string    `gorm:"index;size:26;not null" json:"userId"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User   User    `gorm:"foreignKey:UserID" json:"user"`
	Upload *Upload `gorm:"foreignKey:UploadID;constraint:OnDelete:SET NULL" json:"upload"`

	Comments  []Comment  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Reactions []Reaction `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type PostsList struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}
