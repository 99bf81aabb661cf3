package model

import "time"

type Upload struct {
	ID               string    `gorm:"primaryKey;size:26" json:"id"`
	Key              string    `gorm:"uniqueIndex;not null" json:"key"` // uploads/<userID>/<ulid>.<ext>
	OriginalFileName string    `gorm:"not null" json:"originalFileName"`
	MimeType         string    `gorm:"not null" json:"mimeType"`
	FileSize         int64     `gorm:"not null" json:"fileSize"`
	PublicURL        string    `json:"publicUrl"` // Presigned, refreshed on every read
	UserID           string    `gorm:"index;size:26;not null" json:"userId"`
	CreatedAt        time.Time `json:"createdAt"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}

type PresignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	PublicURL string `json:"publicUrl"`
}

type UploadsList struct {
	Uploads []Upload `json:"uploads"`
}
