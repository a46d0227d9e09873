package models

import "time"

// Floorplan belongs to one Project and carries one or more Sheets. The first
// sheet is the canonical display image; task pin coordinates are only
// meaningful against its file_width/file_height.
type Floorplan struct {
	ID          string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:1024" json:"description"`
	ProjectID   string    `gorm:"type:char(36);not null;index" json:"project_id"`
	UpdatedAt   time.Time `json:"updated_at"`
	Sheets      []Sheet   `gorm:"-" json:"sheets"`
}

// Sheet is the rendered image file for one floorplan page.
type Sheet struct {
	ID             string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Name           string    `gorm:"size:255" json:"name"`
	ProjectID      string    `gorm:"type:char(36);not null;index" json:"project_id"`
	FloorplanID    string    `gorm:"type:char(36);not null;index" json:"floorplan_id"`
	FileName       string    `gorm:"size:512" json:"file_name"`
	FileURL        string    `gorm:"size:2048" json:"file_url"`
	ThumbURL       string    `gorm:"size:2048" json:"thumb_url"`
	OriginalURL    string    `gorm:"size:2048" json:"original_url"`
	FileWidth      int       `json:"file_width"`
	FileHeight     int       `json:"file_height"`
	OriginalWidth  int       `json:"original_width"`
	OriginalHeight int       `json:"original_height"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName overrides the table name for Floorplan
func (Floorplan) TableName() string {
	return "floorplans"
}

// TableName overrides the table name for Sheet
func (Sheet) TableName() string {
	return "sheets"
}
