package dashboard

import (
	"fmt"

	"github.com/localsite/planboard/internal/models"
)

// MarkerOffset is a task pin position as percentage offsets into the
// floorplan image, usable directly as CSS left/top percentages.
type MarkerOffset struct {
	LeftPercent float64 `json:"left_percent"`
	TopPercent  float64 `json:"top_percent"`
}

// ComputeMarkerOffset maps a task's pixel coordinates onto the first sheet of
// its floorplan: (pos_x / file_width) * 100, (pos_y / file_height) * 100.
// Coordinates are undefined against any other sheet, so the first sheet is
// always the reference.
func ComputeMarkerOffset(task models.Task, floorplan models.Floorplan) (MarkerOffset, error) {
	if len(floorplan.Sheets) == 0 {
		return MarkerOffset{}, fmt.Errorf("floorplan %s has no sheets", floorplan.ID)
	}
	sheet := floorplan.Sheets[0]
	if sheet.FileWidth <= 0 || sheet.FileHeight <= 0 {
		return MarkerOffset{}, fmt.Errorf("sheet %s has no usable dimensions", sheet.ID)
	}
	return MarkerOffset{
		LeftPercent: task.PosX / float64(sheet.FileWidth) * 100,
		TopPercent:  task.PosY / float64(sheet.FileHeight) * 100,
	}, nil
}
