package models

import "time"

// Media references an uploaded file. FilePath is the storage key and
// ContentURL the locator handed to clients.
type Media struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	FilePath     string    `json:"filePath" gorm:"type:varchar(255);not null;uniqueIndex"`
	ContentURL   string    `json:"contentUrl" gorm:"type:varchar(1024);not null"`
	MimeType     string    `json:"mimeType" gorm:"type:varchar(127)"`
	Size         int64     `json:"size"`
	OriginalName string    `json:"originalName" gorm:"type:varchar(255)"`
	CreatedAt    time.Time `json:"createdAt"`

	Projects []Project `json:"-" gorm:"many2many:project_media;constraint:OnDelete:CASCADE"`
}

func (Media) TableName() string {
	return "media"
}
