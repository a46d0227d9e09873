package services

import (
	"strings"

	"github.com/localsite/planboard/internal/models"
	"github.com/localsite/planboard/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// SortDirection orders the task listing by latest bubble activity.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ParseSortDirection normalizes a query-string value; anything unrecognized
// falls back to DESC (most recent activity first).
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), "ASC") {
		return SortAsc
	}
	return SortDesc
}

// DefaultPageCount is the page size used when the caller does not pick one.
const DefaultPageCount = 10

// TaskFilter carries every optional predicate of the task listing. Empty
// optional fields are omitted from the query entirely; they never become
// IS NULL or equality-against-empty-string predicates.
type TaskFilter struct {
	ProjectID   string
	StatusID    string
	FloorplanID string
	Search      string
	Page        int // zero-based
	PageCount   int
	Sort        SortDirection
}

// TaskPage is one page of the listing plus the total for pagination math.
type TaskPage struct {
	Tasks      []models.Task `json:"tasks"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	PageCount  int           `json:"page_count"`
}

// ListTasks runs the task listing: one filtered, activity-sorted, paginated
// select; one count over the identical predicate set; one bubble fetch
// grouped onto the returned tasks.
func ListTasks(db *gorm.DB, f TaskFilter) (*TaskPage, error) {
	if f.ProjectID == "" {
		return nil, &types.ValidationError{Field: "project_id"}
	}
	if f.Page < 0 {
		f.Page = 0
	}
	if f.PageCount <= 0 {
		f.PageCount = DefaultPageCount
	}
	if f.Sort == "" {
		f.Sort = SortDesc
	}

	// The count must see the same predicates as the page so the two stay
	// consistent with each other.
	var total int64
	if err := filteredTasks(db, f).Count(&total).Error; err != nil {
		return nil, &types.QueryError{Op: "count tasks", Err: err}
	}

	tasks, err := selectTaskPage(db, f)
	if err != nil {
		return nil, err
	}

	if err := attachBubbles(db, f.ProjectID, tasks); err != nil {
		return nil, err
	}

	return &TaskPage{
		Tasks:      tasks,
		TotalCount: total,
		Page:       f.Page,
		PageCount:  f.PageCount,
	}, nil
}

// filteredTasks folds the optional predicates into a fresh query. Statuses and
// floorplans are left-joined so tasks with NULL assignments survive an
// unfiltered listing, and so the search group can reach their name columns.
func filteredTasks(db *gorm.DB, f TaskFilter) *gorm.DB {
	q := db.Model(&models.Task{}).
		Joins("LEFT JOIN statuses ON statuses.id = tasks.status_id").
		Joins("LEFT JOIN floorplans ON floorplans.id = tasks.floorplan_id").
		Where("tasks.project_id = ?", f.ProjectID)

	if s := strings.TrimSpace(f.Search); s != "" {
		needle := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(tasks.name) LIKE ? OR LOWER(floorplans.name) LIKE ? OR LOWER(floorplans.description) LIKE ? OR LOWER(statuses.name) LIKE ?",
			needle, needle, needle, needle,
		)
	}
	if f.StatusID != "" {
		q = q.Where("tasks.status_id = ?", f.StatusID)
	}
	if f.FloorplanID != "" {
		q = q.Where("tasks.floorplan_id = ?", f.FloorplanID)
	}

	return q
}

// selectTaskPage orders by the latest bubble activity per task. The activity
// subquery is left-joined so tasks with no bubbles are kept; they sort after
// every task that has activity, in either direction. tasks.id breaks ties so
// repeated identical queries return identical order.
func selectTaskPage(db *gorm.DB, f TaskFilter) ([]models.Task, error) {
	activity := db.Model(&models.Bubble{}).
		Select("task_id, MAX(updated_at) AS last_activity_at").
		Group("task_id")

	var tasks []models.Task
	err := filteredTasks(db, f).
		Clauses(hints.CommentBefore("select", "planboard:task_list")).
		Joins("LEFT JOIN (?) activity ON activity.task_id = tasks.id", activity).
		Select("tasks.*").
		Order("CASE WHEN activity.last_activity_at IS NULL THEN 1 ELSE 0 END").
		Order("activity.last_activity_at " + string(f.Sort)).
		Order("tasks.id").
		Limit(f.PageCount).
		Offset(f.Page * f.PageCount).
		Find(&tasks).Error
	if err != nil {
		return nil, &types.QueryError{Op: "list tasks", Err: err}
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// attachBubbles fetches the bubbles of the returned tasks in one query,
// creation order, and groups them onto their parents.
func attachBubbles(db *gorm.DB, projectID string, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	var bubbles []models.Bubble
	err := db.
		Where("project_id = ? AND task_id IN ?", projectID, ids).
		Order("created_at ASC").
		Find(&bubbles).Error
	if err != nil {
		return &types.QueryError{Op: "list bubbles", Err: err}
	}

	byTask := make(map[string][]models.Bubble, len(tasks))
	for _, b := range bubbles {
		byTask[b.TaskID] = append(byTask[b.TaskID], b)
	}
	for i := range tasks {
		if grouped, ok := byTask[tasks[i].ID]; ok {
			tasks[i].Bubbles = grouped
		} else {
			tasks[i].Bubbles = []models.Bubble{}
		}
	}
	return nil
}
