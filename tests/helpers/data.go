package helpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/localsite/planboard/internal/models"
	"gorm.io/gorm"
)

// CreateTestProject creates a project and returns its id.
func CreateTestProject(t *testing.T, db *gorm.DB, name string) string {
	t.Helper()
	project := models.Project{
		ID:        uuid.NewString(),
		Name:      name,
		UpdatedAt: time.Now().UTC(),
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	return project.ID
}

// CreateTestFloorplan creates a floorplan with a single sheet and returns the
// floorplan id.
func CreateTestFloorplan(t *testing.T, db *gorm.DB, projectID, name string, fileWidth, fileHeight int) string {
	t.Helper()
	floorplan := models.Floorplan{
		ID:        uuid.NewString(),
		Name:      name,
		ProjectID: projectID,
		UpdatedAt: time.Now().UTC(),
	}
	if err := db.Create(&floorplan).Error; err != nil {
		t.Fatalf("Failed to create floorplan: %v", err)
	}
	sheet := models.Sheet{
		ID:          uuid.NewString(),
		Name:        name + " sheet 1",
		ProjectID:   projectID,
		FloorplanID: floorplan.ID,
		FileName:    name + ".png",
		FileWidth:   fileWidth,
		FileHeight:  fileHeight,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := db.Create(&sheet).Error; err != nil {
		t.Fatalf("Failed to create sheet: %v", err)
	}
	return floorplan.ID
}

// CreateTestStatus creates a status and returns its id.
func CreateTestStatus(t *testing.T, db *gorm.DB, projectID, name, color string) string {
	t.Helper()
	status := models.Status{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		ProjectID: projectID,
		UpdatedAt: time.Now().UTC(),
	}
	if err := db.Create(&status).Error; err != nil {
		t.Fatalf("Failed to create status: %v", err)
	}
	return status.ID
}

// CreateTestTask creates a task. statusID and floorplanID may be empty to
// leave the column NULL.
func CreateTestTask(t *testing.T, db *gorm.DB, projectID, name, statusID, floorplanID string) string {
	t.Helper()
	task := models.Task{
		ID:        uuid.NewString(),
		Name:      name,
		ProjectID: projectID,
		UpdatedAt: time.Now().UTC(),
	}
	if statusID != "" {
		task.StatusID = &statusID
	}
	if floorplanID != "" {
		task.FloorplanID = &floorplanID
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	return task.ID
}

// CreateTestBubble creates a text bubble on a task with the given timestamps.
func CreateTestBubble(t *testing.T, db *gorm.DB, projectID, taskID, content string, createdAt, updatedAt time.Time) string {
	t.Helper()
	bubble := models.Bubble{
		ID:        uuid.NewString(),
		Kind:      models.BubbleKindText,
		Content:   content,
		TaskID:    taskID,
		ProjectID: projectID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if err := db.Create(&bubble).Error; err != nil {
		t.Fatalf("Failed to create bubble: %v", err)
	}
	return bubble.ID
}
