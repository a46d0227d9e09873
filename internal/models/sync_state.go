package models

import "time"

// SyncState records the last upstream sync cursor handed out for one
// (project, resource) pair, together with a JSON fingerprint of the filter
// set that produced it. A stored cursor is only valid for an identical filter
// set; changing filters invalidates it.
type SyncState struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	ProjectID string `gorm:"type:char(36);not null;index:idx_sync_project_resource,unique"`
	Resource  string `gorm:"size:64;not null;index:idx_sync_project_resource,unique"`
	Cursor    string `gorm:"size:64"`
	Filters   JSON   `gorm:"type:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name for SyncState
func (SyncState) TableName() string {
	return "sync_states"
}
