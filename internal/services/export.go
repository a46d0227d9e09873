package services

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const exportSheet = "Tasks"

var exportHeader = []string{
	"ID", "Name", "Status", "Floorplan", "Pos X", "Pos Y", "Last Modified", "Bubble Count", "Last Activity",
}

// ExportTasks renders the full (unpaginated) filtered task listing to an XLSX
// workbook. The same filter semantics as ListTasks apply, so what you see in
// the dashboard is what lands in the export.
func ExportTasks(db *gorm.DB, f TaskFilter) (*excelize.File, error) {
	f.Page = 0
	f.PageCount = 1 // overwritten below once the total is known

	page, err := ListTasks(db, f)
	if err != nil {
		return nil, err
	}
	if page.TotalCount > 0 {
		f.PageCount = int(page.TotalCount)
		if page, err = ListTasks(db, f); err != nil {
			return nil, err
		}
	}

	statusNames, err := statusNameIndex(db, f.ProjectID)
	if err != nil {
		return nil, err
	}
	floorplanNames, err := floorplanNameIndex(db, f.ProjectID)
	if err != nil {
		return nil, err
	}

	wb := excelize.NewFile()
	if err := wb.SetSheetName(wb.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := wb.SetCellValue(exportSheet, cell, title); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, task := range page.Tasks {
		var lastActivity string
		if n := len(task.Bubbles); n > 0 {
			lastActivity = task.Bubbles[n-1].UpdatedAt.UTC().Format(time.RFC3339)
		}
		row := []interface{}{
			task.ID,
			task.Name,
			lookupName(statusNames, task.StatusID),
			lookupName(floorplanNames, task.FloorplanID),
			task.PosX,
			task.PosY,
			task.UpdatedAt.UTC().Format(time.RFC3339),
			len(task.Bubbles),
			lastActivity,
		}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := wb.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("write row: %w", err)
			}
		}
	}

	return wb, nil
}

func statusNameIndex(db *gorm.DB, projectID string) (map[string]string, error) {
	statuses, err := ListStatuses(db, projectID, "")
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(statuses))
	for _, s := range statuses {
		index[s.ID] = s.Name
	}
	return index, nil
}

func floorplanNameIndex(db *gorm.DB, projectID string) (map[string]string, error) {
	floorplans, err := ListFloorplans(db, projectID)
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(floorplans))
	for _, fp := range floorplans {
		index[fp.ID] = fp.Name
	}
	return index, nil
}

func lookupName(index map[string]string, id *string) string {
	if id == nil {
		return ""
	}
	return index[*id]
}
