package models

import "time"

// Task is a work item pinned onto a floorplan sheet. PosX/PosY are pixel
// coordinates on the first sheet of the referenced floorplan. StatusID and
// FloorplanID are nullable: the upstream system occasionally syncs tasks with
// no assignment, and those must still show up in unfiltered listings.
type Task struct {
	ID          string  `gorm:"primaryKey;type:char(36)" json:"id"`
	Name        string  `gorm:"size:512;not null" json:"name"`
	ProjectID   string  `gorm:"type:char(36);not null;index" json:"project_id"`
	StatusID    *string `gorm:"type:char(36);index" json:"status_id"`
	FloorplanID *string `gorm:"type:char(36);index" json:"floorplan_id"`
	PosX        float64 `json:"pos_x"`
	PosY        float64 `json:"pos_y"`

	// Optional scheduling attributes, present only when set upstream.
	CostValue     *float64   `json:"cost_value,omitempty"`
	ManPowerValue *float64   `json:"man_power_value,omitempty"`
	StartAt       *time.Time `json:"start_at,omitempty"`
	EndAt         *time.Time `json:"end_at,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	FixedAt       *time.Time `json:"fixed_at,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`

	UpdatedAt time.Time `json:"modified_at"`

	// Bubbles are fetched in a second query and grouped on by task_id,
	// never preloaded through the ORM.
	Bubbles []Bubble `gorm:"-" json:"bubbles"`
}

// TableName overrides the table name for Task
func (Task) TableName() string {
	return "tasks"
}
