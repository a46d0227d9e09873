package models

import "time"

// Status is a label assignable to tasks within one project, with a display color.
type Status struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Color     string    `gorm:"size:32" json:"color"`
	ProjectID string    `gorm:"type:char(36);not null;index" json:"project_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for Status
func (Status) TableName() string {
	return "statuses"
}
