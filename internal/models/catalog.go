package models

import (
	"time"
)

// Entity is a named placeholder definition. Code is the literal marker used
// inside templates, braces included ("{FIO}"), and is unique.
type Entity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Code      string    `gorm:"size:255;not null;uniqueIndex" json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

func (Entity) TableName() string {
	return "entities"
}

// Client is a recipient of generated documents.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Client) TableName() string {
	return "clients"
}

// Value binds text to one (entity, client) pair. At most one row per pair;
// absence of a row means "no value bound", which is distinct from an empty
// string.
type Value struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	EntityID  uint   `gorm:"not null;uniqueIndex:uq_entity_client" json:"entity_id"`
	ClientID  uint   `gorm:"not null;uniqueIndex:uq_entity_client" json:"client_id"`
	ValueText string `gorm:"type:text" json:"value_text"`
}

// MySQL reserves VALUES, so the table carries a prefix.
func (Value) TableName() string {
	return "entity_values"
}
