package models

import (
	"time"
)

// Template is an uploaded DOCX document. Content bytes live in the blob
// store under ObjectPath; the row keeps the extracted placeholder set as a
// cache keyed by the content hash. Templates are immutable once stored.
type Template struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Filename     string    `gorm:"size:255;not null" json:"filename"`
	ObjectPath   string    `gorm:"size:1024;not null" json:"-"`
	FileSize     int64     `json:"file_size"`
	MimeType     string    `gorm:"size:255" json:"mime_type"`
	ContentHash  string    `gorm:"size:64" json:"-"`
	Placeholders string    `gorm:"type:json" json:"-"` // JSON array of placeholder keys
	CreatedAt    time.Time `json:"created_at"`
}

func (Template) TableName() string {
	return "document_templates"
}
