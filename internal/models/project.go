package models

import "time"

// Project is the root scope for every other mirrored entity. Rows are
// created and mutated only by the upstream sync process; this service reads.
type Project struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}
