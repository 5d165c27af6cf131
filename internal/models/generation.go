package models

import (
	"time"
)

// GenerationRecord is one line of generation history: a client output that
// was actually rendered and packaged. Append-only, written on the success
// path only.
type GenerationRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TemplateID uint      `gorm:"not null;index" json:"template_id"`
	ClientID   uint      `gorm:"not null;index" json:"client_id"`
	OutputPath string    `gorm:"size:1024;not null" json:"output_path"`
	CreatedAt  time.Time `json:"created_at"`
}

func (GenerationRecord) TableName() string {
	return "generation_history"
}
