package services_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/localsite/planboard/internal/models"
	"github.com/localsite/planboard/internal/services"
	"github.com/localsite/planboard/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Project{},
		&models.Floorplan{},
		&models.Sheet{},
		&models.Status{},
		&models.Task{},
		&models.Bubble{},
		&models.SyncState{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

const testProjectID = "11111111-1111-1111-1111-111111111111"

func seedProject(t *testing.T, db *gorm.DB) {
	if err := db.Create(&models.Project{ID: testProjectID, Name: "Test Site"}).Error; err != nil {
		t.Fatalf("Failed to seed project: %v", err)
	}
}

func seedStatus(t *testing.T, db *gorm.DB, id, name string) {
	s := models.Status{ID: id, Name: name, Color: "blue", ProjectID: testProjectID}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("Failed to seed status: %v", err)
	}
}

func seedFloorplan(t *testing.T, db *gorm.DB, id, name, description string) {
	fp := models.Floorplan{ID: id, Name: name, Description: description, ProjectID: testProjectID}
	if err := db.Create(&fp).Error; err != nil {
		t.Fatalf("Failed to seed floorplan: %v", err)
	}
}

func seedTask(t *testing.T, db *gorm.DB, id, name, statusID, floorplanID string) {
	task := models.Task{ID: id, Name: name, ProjectID: testProjectID}
	if statusID != "" {
		task.StatusID = &statusID
	}
	if floorplanID != "" {
		task.FloorplanID = &floorplanID
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("Failed to seed task %s: %v", id, err)
	}
}

func seedBubble(t *testing.T, db *gorm.DB, id, taskID string, at time.Time) {
	b := models.Bubble{
		ID:        id,
		Kind:      models.BubbleKindText,
		Content:   "note " + id,
		TaskID:    taskID,
		ProjectID: testProjectID,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("Failed to seed bubble %s: %v", id, err)
	}
}

func taskIDs(page *services.TaskPage) []string {
	ids := make([]string, len(page.Tasks))
	for i, task := range page.Tasks {
		ids[i] = task.ID
	}
	return ids
}

func TestListTasksRequiresProject(t *testing.T) {
	db := setupTestDB(t)

	_, err := services.ListTasks(db, services.TaskFilter{})
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Field != "project_id" {
		t.Errorf("Expected field project_id, got %s", verr.Field)
	}
}

// The canonical ordering scenario: three tasks, the latest bubble decides the
// position, tasks with no bubbles come last in either sort direction.
func TestListTasksActivityOrder(t *testing.T) {
	db := setupTestDB(t)
	seedProject(t, db)

	seedTask(t, db, "t1", "No activity yet", "", "")
	seedTask(t, db, "t2", "Older activity", "", "")
	seedTask(t, db, "t3", "Newest activity", "", "")

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	seedBubble(t, db, "b1", "t2", base)
	// Two bubbles on t3; only the max counts.
	seedBubble(t, db, "b2", "t3", base.Add(-48*time.Hour))
	seedBubble(t, db, "b3", "t3", base.Add(2*time.Hour))

	page, err := services.ListTasks(db, services.TaskFilter{ProjectID: testProjectID, Sort: services.SortDesc})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	got := taskIDs(page)
	want := []string{"t3", "t2", "t1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DESC order: expected %v, got %v", want, got)
		}
	}

	page, err = services.ListTasks(db, services.TaskFilter{ProjectID: testProjectID, Sort: services.SortAsc})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	got = taskIDs(page)
	want = []string{"t2", "t3", "t1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ASC order: expected %v, got %v (bubble-less tasks must stay last)", want, got)
		}
	}
}

func TestListTasksOrderIsStable(t *testing.T) {
	db := setupTestDB(t)
	seedProject(t, db)

	// All tasks tie on activity (none), so the id tiebreaker decides.
	for i := 0; i < 8; i++ {
		seedTask(t, db, fmt.Sprintf("t%02d", i), fmt.Sprintf("Task %d", i), "", "")
	}

	first, err := services.ListTasks(db, services.TaskFilter{ProjectID: testProjectID, PageCount: 20})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	for run := 0; run < 3; run++ {
		again, err := services.ListTasks(db, services.TaskFilter{ProjectID: testProjectID, PageCount: 20})
		if err != nil {
			t.Fatalf("ListTasks failed: %v", err)
		}
		for i := range first.Tasks {
			if first.Tasks[i].ID != again.Tasks[i].ID {
				t.Fatalf("Run %d returned different order at %d: %s vs %s",
					run, i, first.Tasks[i].ID, again.Tasks[i].ID)
			}
		}
	}
}

func TestListTasksPaginationPartition(t *testing.T) {
	db := setupTestDB(t)
	seedProject(t, db)

	total := 15
	for i := 0; i < total; i++ {
		seedTask(t, db, fmt.Sprintf("t%02d", i), fmt.Sprintf("Task %d", i), "", "")
	}

	seen := map[string]bool{}
	pageSizes := []int{10, 5, 0}
	for pageNum, wantLen := range pageSizes {
		page, err := services.ListTasks(db, services.TaskFilter{
			ProjectID: testProjectID,
			Page:      pageNum,
			PageCount: 10,
		})
		if err != nil {
			t.Fatalf("Page %d failed: %v", pageNum, err)
		}
		if len(page.Tasks) != wantLen {
			t.Errorf("Page %d: expected %d tasks, got %d", pageNum, wantLen, len(page.Tasks))
		}
		if page.TotalCount != int64(total) {
			t.Errorf("Page %d: expected total %d, got %d", pageNum, total, page.TotalCount)
		}
		for _, task := range page.Tasks {
			if seen[task.ID] {
				t.Errorf("Task %s returned on more than one page", task.ID)
			}
			seen[task.ID] = true
		}
	}
	if len(seen) != total {
		t.Errorf("Pages did not partition the result set: saw %d of %d tasks", len(seen), total)
	}
}

func TestListTasksCountMatchesFilteredSet(t *testing.T) {
	db := setupTestDB(t)
	seedProject(t, db)
	seedStatus(t, db, "s1", "Open")
	seedStatus(t, db, "s2", "Done")

	seedTask(t, db, "t1", "Alpha", "s1", "")
	seedTask(t, db, "t2", "Beta", "s1", "")
	seedTask(t, db, "t3", "Gamma", "s2", "")
	seedTask(t, db, "t4", "Delta", "", "")

	page, err := services.ListTasks(db, services.TaskFilter{
		ProjectID: testProjectID,
		StatusID:  "s1",
		PageCount: 100,
	})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if page.TotalCount != int64(len(page.Tasks)) {
		t.Errorf("Count %d disagrees with unpaginated result length %d", page.TotalCount, len(page.Tasks))
	}
	if page.TotalCount != 2 {
		t.Errorf("Expected 2 tasks with status s1, got %d", page.TotalCount)
	}
}

// An omitted optional filter must include rows where the column is NULL; a
// present filter must exclude them.
func TestListTasksOmittedFilterIncludesUnassigned(t *testing.T) {
	db := setupTestDB(t)
	seedProject(t, db)
	seedStatus(t, db, "s1", "Open")
	seedFloorplan(t, db, "f1", "Level 1", "")

	seedTask(t, db, "t1", "Assigned", "s1", "f1")
	seedTask(t, db, "t2", "Unassigned", "", "")

	page, err := services.ListTasks(db, services.TaskFilter{ProjectID: testProjectID})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if page.TotalCount != 2 {
		t.Errorf("Unfiltered listing must include NULL-status tasks, got %d of 2", page.TotalCount)
	}

	page, err = services.ListTasks(db, services.TaskFilter{ProjectID: testProjectID, StatusID: "s1"})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if page.TotalCount != 1 || page.Tasks[0].ID != "t1" {
		t.Errorf("Status filter must exclude unassigned tasks, got %v", taskIDs(page))
	}
}

func TestListTasksSearchReachesJoinedNames(t *testing.T) {
	db := setupTestDB(t)
	seedProject(t, db)
	seedStatus(t, db, "s1", "Roofing crew")
	seedFloorplan(t, db, "f1", "Roof plan", "")
	seedFloorplan(t, db, "f2", "Basement", "under the ROOF line")

	seedTask(t, db, "t1", "Fix gutter", "", "f1")
	seedTask(t, db, "t2", "Check drainage", "s1", "")
	seedTask(t, db, "t3", "Pour slab", "", "f2")
	seedTask(t, db, "t4", "Paint walls", "", "")

	page, err := services.ListTasks(db, services.TaskFilter{ProjectID: testProjectID, Search: "roof"})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if page.TotalCount != 3 {
		t.Fatalf("Expected 3 matches across task, status, floorplan columns, got %d: %v",
			page.TotalCount, taskIDs(page))
	}
	for _, task := range page.Tasks {
		if task.ID == "t4" {
			t.Error("Task with no match in any searched column returned")
		}
	}
}

func TestListTasksPagePastEnd(t *testing.T) {
	db := setupTestDB(t)
	seedProject(t, db)

	for i := 0; i < 3; i++ {
		seedTask(t, db, fmt.Sprintf("t%d", i), fmt.Sprintf("Task %d", i), "", "")
	}

	page, err := services.ListTasks(db, services.TaskFilter{
		ProjectID: testProjectID,
		Page:      7,
		PageCount: 10,
	})
	if err != nil {
		t.Fatalf("Page past the end must not error: %v", err)
	}
	if len(page.Tasks) != 0 {
		t.Errorf("Expected empty page, got %d tasks", len(page.Tasks))
	}
	if page.TotalCount != 3 {
		t.Errorf("Total must stay accurate on an empty page, got %d", page.TotalCount)
	}
	if page.Tasks == nil {
		t.Error("Empty page must serialize as [], not null")
	}
}

func TestListTasksBubbleGrouping(t *testing.T) {
	db := setupTestDB(t)
	seedProject(t, db)

	seedTask(t, db, "t1", "Chatty", "", "")
	seedTask(t, db, "t2", "Silent", "", "")

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	seedBubble(t, db, "b2", "t1", base.Add(time.Hour))
	seedBubble(t, db, "b1", "t1", base)

	page, err := services.ListTasks(db, services.TaskFilter{ProjectID: testProjectID})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}

	var chatty, silent *models.Task
	for i := range page.Tasks {
		switch page.Tasks[i].ID {
		case "t1":
			chatty = &page.Tasks[i]
		case "t2":
			silent = &page.Tasks[i]
		}
	}
	if chatty == nil || silent == nil {
		t.Fatalf("Seeded tasks missing from listing: %v", taskIDs(page))
	}

	if len(chatty.Bubbles) != 2 {
		t.Fatalf("Expected 2 bubbles on t1, got %d", len(chatty.Bubbles))
	}
	if chatty.Bubbles[0].ID != "b1" || chatty.Bubbles[1].ID != "b2" {
		t.Errorf("Bubbles must be in creation order, got %s then %s",
			chatty.Bubbles[0].ID, chatty.Bubbles[1].ID)
	}
	if silent.Bubbles == nil {
		t.Error("Bubble-less task must carry an empty slice, not nil")
	}
	if len(silent.Bubbles) != 0 {
		t.Errorf("Expected no bubbles on t2, got %d", len(silent.Bubbles))
	}
}

// Bubbles attached to tasks of another project must not bleed into the
// activity sort or the grouping.
func TestListTasksIgnoresOtherProjects(t *testing.T) {
	db := setupTestDB(t)
	seedProject(t, db)
	other := models.Project{ID: "22222222-2222-2222-2222-222222222222", Name: "Other Site"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("Failed to seed project: %v", err)
	}

	seedTask(t, db, "t1", "Mine", "", "")
	otherTask := models.Task{ID: "x1", Name: "Theirs", ProjectID: other.ID}
	if err := db.Create(&otherTask).Error; err != nil {
		t.Fatalf("Failed to seed task: %v", err)
	}

	page, err := services.ListTasks(db, services.TaskFilter{ProjectID: testProjectID})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if page.TotalCount != 1 || page.Tasks[0].ID != "t1" {
		t.Errorf("Listing leaked tasks across projects: %v", taskIDs(page))
	}
}

func TestParseSortDirection(t *testing.T) {
	cases := []struct {
		in   string
		want services.SortDirection
	}{
		{"asc", services.SortAsc},
		{"ASC", services.SortAsc},
		{"desc", services.SortDesc},
		{"", services.SortDesc},
		{"sideways", services.SortDesc},
	}
	for _, c := range cases {
		if got := services.ParseSortDirection(c.in); got != c.want {
			t.Errorf("ParseSortDirection(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
