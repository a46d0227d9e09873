package services

import (
	"github.com/localsite/planboard/internal/models"
	"github.com/localsite/planboard/internal/types"
	"gorm.io/gorm"
)

// ListProjects returns every mirrored project.
func ListProjects(db *gorm.DB) ([]models.Project, error) {
	var projects []models.Project
	if err := db.Order("name").Find(&projects).Error; err != nil {
		return nil, &types.QueryError{Op: "list projects", Err: err}
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

// ListFloorplans returns the floorplans of one project with their sheets
// grouped on. Sheets come from a second query, ordered so the first element
// is stable; the view layer treats sheets[0] as the canonical image.
func ListFloorplans(db *gorm.DB, projectID string) ([]models.Floorplan, error) {
	if projectID == "" {
		return nil, &types.ValidationError{Field: "project_id"}
	}

	var floorplans []models.Floorplan
	if err := db.Where("project_id = ?", projectID).Order("name").Find(&floorplans).Error; err != nil {
		return nil, &types.QueryError{Op: "list floorplans", Err: err}
	}

	var sheets []models.Sheet
	if err := db.Where("project_id = ?", projectID).Order("id").Find(&sheets).Error; err != nil {
		return nil, &types.QueryError{Op: "list sheets", Err: err}
	}

	byFloorplan := make(map[string][]models.Sheet, len(floorplans))
	for _, s := range sheets {
		byFloorplan[s.FloorplanID] = append(byFloorplan[s.FloorplanID], s)
	}
	for i := range floorplans {
		if grouped, ok := byFloorplan[floorplans[i].ID]; ok {
			floorplans[i].Sheets = grouped
		} else {
			floorplans[i].Sheets = []models.Sheet{}
		}
	}
	if floorplans == nil {
		floorplans = []models.Floorplan{}
	}
	return floorplans, nil
}

// StatusCount is a status label with the number of tasks carrying it,
// optionally restricted to one floorplan.
type StatusCount struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	ProjectID string `json:"project_id"`
	Count     int64  `json:"count"`
}

// ListStatuses returns the statuses of a project with task counts, busiest
// first. The floorplan restriction lives on the join so statuses with zero
// matching tasks still appear with count 0.
func ListStatuses(db *gorm.DB, projectID, floorplanID string) ([]StatusCount, error) {
	if projectID == "" {
		return nil, &types.ValidationError{Field: "project_id"}
	}

	q := db.Model(&models.Status{}).
		Select("statuses.id, statuses.name, statuses.color, statuses.project_id, COUNT(tasks.id) AS count")

	if floorplanID != "" {
		q = q.Joins("LEFT JOIN tasks ON tasks.status_id = statuses.id AND tasks.floorplan_id = ?", floorplanID)
	} else {
		q = q.Joins("LEFT JOIN tasks ON tasks.status_id = statuses.id")
	}

	var rows []StatusCount
	err := q.Where("statuses.project_id = ?", projectID).
		Group("statuses.id, statuses.name, statuses.color, statuses.project_id").
		Order("count DESC").
		Order("statuses.id").
		Scan(&rows).Error
	if err != nil {
		return nil, &types.QueryError{Op: "list statuses", Err: err}
	}
	if rows == nil {
		rows = []StatusCount{}
	}
	return rows, nil
}
