package models

import "time"

// Bubble kinds as used by the upstream API.
const (
	BubbleKindText           = 1
	BubbleKindLog            = 2
	BubbleKindPhoto          = 10
	BubbleKindAnnotatedPhoto = 11
	BubbleKindPhoto360       = 12
)

// Bubble is a timestamped annotation (note, log entry, or photo) attached to
// exactly one task in the same project. Ordered by creation time.
type Bubble struct {
	ID               string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Kind             int       `gorm:"not null" json:"kind"`
	Content          string    `gorm:"size:4096" json:"content"`
	TaskID           string    `gorm:"type:char(36);not null;index" json:"task_id"`
	ProjectID        string    `gorm:"type:char(36);not null;index" json:"project_id"`
	FileSize         int64     `json:"file_size"`
	FileURL          string    `gorm:"size:2048" json:"file_url"`
	ThumbURL         string    `gorm:"size:2048" json:"thumb_url"`
	OriginalURL      string    `gorm:"size:2048" json:"original_url"`
	FlattenedFileURL string    `gorm:"size:2048" json:"flattened_file_url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsImage reports whether the bubble carries a displayable photo.
func (b Bubble) IsImage() bool {
	return b.Kind == BubbleKindPhoto || b.Kind == BubbleKindAnnotatedPhoto
}

// TableName overrides the table name for Bubble
func (Bubble) TableName() string {
	return "bubbles"
}
