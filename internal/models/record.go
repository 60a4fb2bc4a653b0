package models

import (
	"time"

	"github.com/google/uuid"
)

// Meta carries the identity and lifecycle timestamps shared by every persisted record.
// It is embedded so the fields serialize at the top level of each record.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Base gives collection code access to the embedded Meta.
func (m *Meta) Base() *Meta { return m }

// Record is implemented (through Meta) by pointers to every entity type.
type Record interface {
	Base() *Meta
}

// NewID returns a time-ordered identifier with a random tail (UUIDv7), so ids created
// within the same millisecond still differ.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
