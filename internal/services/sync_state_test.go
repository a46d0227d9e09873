package services_test

import (
	"testing"

	"github.com/localsite/planboard/internal/models"
	"github.com/localsite/planboard/internal/services"
	"gorm.io/datatypes"
)

func TestResolveCursorNoState(t *testing.T) {
	db := setupTestDB(t)

	cursor, err := services.ResolveCursor(db, testProjectID, "tasks", nil)
	if err != nil {
		t.Fatalf("ResolveCursor failed: %v", err)
	}
	if cursor != "" {
		t.Errorf("Expected empty cursor without stored state, got %q", cursor)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	filters := map[string]string{"floorplan_id": "f1", "status_id": "s1"}
	if err := services.StoreCursor(db, testProjectID, "tasks", "2026-05-01T00:00:00Z", filters); err != nil {
		t.Fatalf("StoreCursor failed: %v", err)
	}

	cursor, err := services.ResolveCursor(db, testProjectID, "tasks", filters)
	if err != nil {
		t.Fatalf("ResolveCursor failed: %v", err)
	}
	if cursor != "2026-05-01T00:00:00Z" {
		t.Errorf("Expected stored cursor back, got %q", cursor)
	}

	// Map iteration order must not change the fingerprint.
	same := map[string]string{"status_id": "s1", "floorplan_id": "f1"}
	cursor, err = services.ResolveCursor(db, testProjectID, "tasks", same)
	if err != nil {
		t.Fatalf("ResolveCursor failed: %v", err)
	}
	if cursor == "" {
		t.Error("Equal filters in different insertion order must still match")
	}
}

// Postgres jsonb and mysql JSON columns hand back stored values with their
// own spacing and key order, so an equal filter set must still resume the
// cursor when the stored fingerprint is in a dialect-normalized form.
func TestCursorResumesAcrossFingerprintReserialization(t *testing.T) {
	db := setupTestDB(t)

	stored := []string{
		`{"floorplan_id": "f1", "status_id": "s1"}`, // jsonb spacing
		`{"status_id": "s1", "floorplan_id": "f1"}`, // reordered keys
	}
	for i, raw := range stored {
		state := models.SyncState{
			ProjectID: testProjectID,
			Resource:  "tasks",
			Cursor:    "2026-05-01T00:00:00Z",
			Filters:   models.JSON{JSON: datatypes.JSON(raw)},
		}
		if err := db.Create(&state).Error; err != nil {
			t.Fatalf("Failed to seed sync state: %v", err)
		}

		cursor, err := services.ResolveCursor(db, testProjectID, "tasks",
			map[string]string{"floorplan_id": "f1", "status_id": "s1"})
		if err != nil {
			t.Fatalf("ResolveCursor failed: %v", err)
		}
		if cursor != "2026-05-01T00:00:00Z" {
			t.Errorf("Stored form %d: equal filter set did not resume the cursor, got %q", i, cursor)
		}

		// A genuinely different filter set still misses.
		cursor, err = services.ResolveCursor(db, testProjectID, "tasks",
			map[string]string{"floorplan_id": "f2"})
		if err != nil {
			t.Fatalf("ResolveCursor failed: %v", err)
		}
		if cursor != "" {
			t.Errorf("Stored form %d: different filters resumed the cursor %q", i, cursor)
		}

		if err := db.Delete(&state).Error; err != nil {
			t.Fatalf("Failed to clear sync state: %v", err)
		}
	}
}

func TestCursorIgnoresUnreadableFingerprint(t *testing.T) {
	db := setupTestDB(t)

	state := models.SyncState{
		ProjectID: testProjectID,
		Resource:  "tasks",
		Cursor:    "2026-05-01T00:00:00Z",
		Filters:   models.JSON{JSON: datatypes.JSON(`not json`)},
	}
	if err := db.Create(&state).Error; err != nil {
		t.Fatalf("Failed to seed sync state: %v", err)
	}

	cursor, err := services.ResolveCursor(db, testProjectID, "tasks", nil)
	if err != nil {
		t.Fatalf("ResolveCursor failed: %v", err)
	}
	if cursor != "" {
		t.Errorf("Unreadable fingerprint must start a fresh sync, got %q", cursor)
	}
}

func TestCursorInvalidatedByFilterChange(t *testing.T) {
	db := setupTestDB(t)

	if err := services.StoreCursor(db, testProjectID, "tasks", "2026-05-01T00:00:00Z",
		map[string]string{"floorplan_id": "f1"}); err != nil {
		t.Fatalf("StoreCursor failed: %v", err)
	}

	cursor, err := services.ResolveCursor(db, testProjectID, "tasks",
		map[string]string{"floorplan_id": "f2"})
	if err != nil {
		t.Fatalf("ResolveCursor failed: %v", err)
	}
	if cursor != "" {
		t.Errorf("Changed filters must invalidate the cursor, got %q", cursor)
	}
}

func TestStoreCursorUpserts(t *testing.T) {
	db := setupTestDB(t)

	filters := map[string]string{"status_id": "s1"}
	if err := services.StoreCursor(db, testProjectID, "tasks", "2026-05-01T00:00:00Z", filters); err != nil {
		t.Fatalf("StoreCursor failed: %v", err)
	}
	if err := services.StoreCursor(db, testProjectID, "tasks", "2026-06-01T00:00:00Z", filters); err != nil {
		t.Fatalf("StoreCursor upsert failed: %v", err)
	}

	cursor, err := services.ResolveCursor(db, testProjectID, "tasks", filters)
	if err != nil {
		t.Fatalf("ResolveCursor failed: %v", err)
	}
	if cursor != "2026-06-01T00:00:00Z" {
		t.Errorf("Expected replaced cursor, got %q", cursor)
	}

	var count int64
	if err := db.Table("sync_states").
		Where("project_id = ? AND resource = ?", testProjectID, "tasks").
		Count(&count).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Upsert left %d rows for one project/resource pair", count)
	}
}

func TestCursorsScopedByResource(t *testing.T) {
	db := setupTestDB(t)

	if err := services.StoreCursor(db, testProjectID, "tasks", "task-cursor", nil); err != nil {
		t.Fatalf("StoreCursor failed: %v", err)
	}
	if err := services.StoreCursor(db, testProjectID, "floorplans", "floorplan-cursor", nil); err != nil {
		t.Fatalf("StoreCursor failed: %v", err)
	}

	cursor, err := services.ResolveCursor(db, testProjectID, "floorplans", nil)
	if err != nil {
		t.Fatalf("ResolveCursor failed: %v", err)
	}
	if cursor != "floorplan-cursor" {
		t.Errorf("Expected floorplan cursor, got %q", cursor)
	}
}
