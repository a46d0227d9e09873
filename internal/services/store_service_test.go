package services_test

import (
	"testing"

	"github.com/localsite/planboard/internal/models"
	"github.com/localsite/planboard/internal/services"
)

func TestListProjects(t *testing.T) {
	db := setupTestDB(t)

	projects, err := services.ListProjects(db)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if projects == nil {
		t.Error("Empty listing must be [], not null")
	}

	seedProject(t, db)
	if err := db.Create(&models.Project{ID: "p2", Name: "Second Site"}).Error; err != nil {
		t.Fatalf("Failed to seed project: %v", err)
	}

	projects, err = services.ListProjects(db)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("Expected 2 projects, got %d", len(projects))
	}
}

func TestListFloorplansGroupsSheets(t *testing.T) {
	db := setupTestDB(t)
	seedProject(t, db)
	seedFloorplan(t, db, "f1", "Level 1", "")
	seedFloorplan(t, db, "f2", "Level 2", "")

	sheets := []models.Sheet{
		{ID: "sh2", ProjectID: testProjectID, FloorplanID: "f1", FileWidth: 100, FileHeight: 80},
		{ID: "sh1", ProjectID: testProjectID, FloorplanID: "f1", FileWidth: 200, FileHeight: 160},
		{ID: "sh3", ProjectID: testProjectID, FloorplanID: "f2", FileWidth: 300, FileHeight: 240},
	}
	for i := range sheets {
		if err := db.Create(&sheets[i]).Error; err != nil {
			t.Fatalf("Failed to seed sheet: %v", err)
		}
	}

	floorplans, err := services.ListFloorplans(db, testProjectID)
	if err != nil {
		t.Fatalf("ListFloorplans failed: %v", err)
	}
	if len(floorplans) != 2 {
		t.Fatalf("Expected 2 floorplans, got %d", len(floorplans))
	}

	byID := map[string]models.Floorplan{}
	for _, fp := range floorplans {
		byID[fp.ID] = fp
	}
	if len(byID["f1"].Sheets) != 2 {
		t.Errorf("Expected 2 sheets on f1, got %d", len(byID["f1"].Sheets))
	}
	// Stable sheet order so sheets[0] is always the same marker reference.
	if byID["f1"].Sheets[0].ID != "sh1" {
		t.Errorf("Expected sh1 first on f1, got %s", byID["f1"].Sheets[0].ID)
	}
	if len(byID["f2"].Sheets) != 1 || byID["f2"].Sheets[0].ID != "sh3" {
		t.Errorf("Sheets grouped onto wrong floorplan: %+v", byID["f2"].Sheets)
	}
}

func TestListFloorplansRequiresProject(t *testing.T) {
	db := setupTestDB(t)
	if _, err := services.ListFloorplans(db, ""); err == nil {
		t.Error("Expected error for missing project id")
	}
}

func TestListStatusesCountsAndOrder(t *testing.T) {
	db := setupTestDB(t)
	seedProject(t, db)
	seedStatus(t, db, "s1", "Open")
	seedStatus(t, db, "s2", "Done")
	seedStatus(t, db, "s3", "Blocked")

	seedTask(t, db, "t1", "A", "s2", "")
	seedTask(t, db, "t2", "B", "s2", "")
	seedTask(t, db, "t3", "C", "s1", "")
	seedTask(t, db, "t4", "D", "", "")

	counts, err := services.ListStatuses(db, testProjectID, "")
	if err != nil {
		t.Fatalf("ListStatuses failed: %v", err)
	}
	if len(counts) != 3 {
		t.Fatalf("Expected 3 statuses, got %d", len(counts))
	}
	if counts[0].ID != "s2" || counts[0].Count != 2 {
		t.Errorf("Busiest status first: expected s2 with 2, got %s with %d", counts[0].ID, counts[0].Count)
	}
	for _, sc := range counts {
		if sc.ID == "s3" && sc.Count != 0 {
			t.Errorf("Status with no tasks must report count 0, got %d", sc.Count)
		}
	}
}

func TestListStatusesFloorplanRestriction(t *testing.T) {
	db := setupTestDB(t)
	seedProject(t, db)
	seedStatus(t, db, "s1", "Open")
	seedFloorplan(t, db, "f1", "Level 1", "")
	seedFloorplan(t, db, "f2", "Level 2", "")

	seedTask(t, db, "t1", "On level 1", "s1", "f1")
	seedTask(t, db, "t2", "On level 2", "s1", "f2")

	counts, err := services.ListStatuses(db, testProjectID, "f1")
	if err != nil {
		t.Fatalf("ListStatuses failed: %v", err)
	}
	// The restriction narrows the count but never drops the status row.
	if len(counts) != 1 {
		t.Fatalf("Expected 1 status, got %d", len(counts))
	}
	if counts[0].Count != 1 {
		t.Errorf("Expected count 1 restricted to f1, got %d", counts[0].Count)
	}
}
