package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localsite/planboard/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StoreHandler serves the relational mirror: projects, floorplans, statuses,
// and the filtered/paginated task listing.
type StoreHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// GetProjects handles GET /api/projects
// @Summary List mirrored projects
// @Tags Store
// @Produce json
// @Success 200 {array} models.Project
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /projects [get]
func (h *StoreHandler) GetProjects(c *fiber.Ctx) error {
	projects, err := services.ListProjects(h.DB)
	if err != nil {
		return respondError(c, h.Log, err, "getProjects")
	}
	return c.Status(fiber.StatusOK).JSON(projects)
}

// GetFloorplans handles GET /api/floorplans?project_id=
// @Summary List a project's floorplans with their sheets
// @Tags Store
// @Produce json
// @Param project_id query string true "Project ID"
// @Success 200 {array} models.Floorplan
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /floorplans [get]
func (h *StoreHandler) GetFloorplans(c *fiber.Ctx) error {
	floorplans, err := services.ListFloorplans(h.DB, c.Query("project_id"))
	if err != nil {
		return respondError(c, h.Log, err, "getFloorplans")
	}
	return c.Status(fiber.StatusOK).JSON(floorplans)
}

// GetStatuses handles GET /api/statuses?project_id=&floorplan_id=
// @Summary List a project's statuses with task counts
// @Tags Store
// @Produce json
// @Param project_id query string true "Project ID"
// @Param floorplan_id query string false "Restrict counts to one floorplan"
// @Success 200 {array} services.StatusCount
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /statuses [get]
func (h *StoreHandler) GetStatuses(c *fiber.Ctx) error {
	statuses, err := services.ListStatuses(h.DB, c.Query("project_id"), c.Query("floorplan_id"))
	if err != nil {
		return respondError(c, h.Log, err, "getStatuses")
	}
	return c.Status(fiber.StatusOK).JSON(statuses)
}

// GetTasks handles GET /api/tasks
// @Summary List tasks, filtered, searched, sorted by latest bubble activity, paginated
// @Tags Store
// @Produce json
// @Param project_id query string true "Project ID"
// @Param status_id query string false "Status filter"
// @Param floorplan_id query string false "Floorplan filter"
// @Param search query string false "Case-insensitive substring over task, floorplan, and status fields"
// @Param page query int false "Zero-based page index"
// @Param page_count query int false "Page size"
// @Param sort_direction query string false "ASC or DESC (default DESC)"
// @Success 200 {object} services.TaskPage
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tasks [get]
func (h *StoreHandler) GetTasks(c *fiber.Ctx) error {
	page, err := services.ListTasks(h.DB, taskFilterFromQuery(c))
	if err != nil {
		return respondError(c, h.Log, err, "getTasks")
	}
	c.Set("X-Total-Count", strconv.FormatInt(page.TotalCount, 10))
	return c.Status(fiber.StatusOK).JSON(page)
}

// ExportTasks handles GET /api/tasks/export
// @Summary Export the filtered task listing as an XLSX workbook
// @Tags Store
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param project_id query string true "Project ID"
// @Param status_id query string false "Status filter"
// @Param floorplan_id query string false "Floorplan filter"
// @Param search query string false "Search filter"
// @Param sort_direction query string false "ASC or DESC (default DESC)"
// @Success 200 {file} binary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tasks/export [get]
func (h *StoreHandler) ExportTasks(c *fiber.Ctx) error {
	wb, err := services.ExportTasks(h.DB, taskFilterFromQuery(c))
	if err != nil {
		return respondError(c, h.Log, err, "exportTasks")
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return respondError(c, h.Log, err, "exportTasks")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="tasks.xlsx"`)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}
