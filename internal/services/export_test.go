package services_test

import (
	"testing"
	"time"

	"github.com/localsite/planboard/internal/services"
)

func TestExportTasksWorkbook(t *testing.T) {
	db := setupTestDB(t)
	seedProject(t, db)
	seedStatus(t, db, "s1", "Open")
	seedFloorplan(t, db, "f1", "Level 1", "")

	seedTask(t, db, "t1", "Patch drywall", "s1", "f1")
	seedTask(t, db, "t2", "Hang door", "", "")
	seedBubble(t, db, "b1", "t1", time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

	wb, err := services.ExportTasks(db, services.TaskFilter{ProjectID: testProjectID})
	if err != nil {
		t.Fatalf("ExportTasks failed: %v", err)
	}

	rows, err := wb.GetRows("Tasks")
	if err != nil {
		t.Fatalf("Failed to read workbook: %v", err)
	}
	// Header plus one row per task, not per page.
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][2] != "Status" {
		t.Errorf("Unexpected header row: %v", rows[0])
	}

	var drywall []string
	for _, row := range rows[1:] {
		if len(row) > 0 && row[0] == "t1" {
			drywall = row
		}
	}
	if drywall == nil {
		t.Fatalf("Seeded task missing from export: %v", rows)
	}
	if drywall[2] != "Open" || drywall[3] != "Level 1" {
		t.Errorf("Expected resolved status and floorplan names, got %v", drywall)
	}
	if drywall[7] != "1" {
		t.Errorf("Expected bubble count 1, got %q", drywall[7])
	}
}

func TestExportTasksEmptyListing(t *testing.T) {
	db := setupTestDB(t)
	seedProject(t, db)

	wb, err := services.ExportTasks(db, services.TaskFilter{ProjectID: testProjectID})
	if err != nil {
		t.Fatalf("ExportTasks failed: %v", err)
	}

	rows, err := wb.GetRows("Tasks")
	if err != nil {
		t.Fatalf("Failed to read workbook: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected header only, got %d rows", len(rows))
	}
}
