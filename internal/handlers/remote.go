package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localsite/planboard/internal/middleware"
	"github.com/localsite/planboard/internal/services"
	"github.com/localsite/planboard/internal/upstream"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RemoteHandler proxies filtered, paginated reads straight to the upstream
// project-management API, normalizing its pagination headers into response
// metadata. The DB is only touched to persist/resolve sync cursors.
type RemoteHandler struct {
	API *upstream.Client
	DB  *gorm.DB
	Log *zap.Logger
}

// GetProjects handles GET /api/remote/projects
// @Summary Fetch projects from the upstream API
// @Tags Remote
// @Produce json
// @Success 200 {object} upstream.Result
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /remote/projects [get]
func (h *RemoteHandler) GetProjects(c *fiber.Ctx) error {
	result, err := h.API.Projects(c.UserContext(), middleware.APIVersion(c))
	if err != nil {
		return respondError(c, h.Log, err, "remoteProjects")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetTasks handles GET /api/remote/projects/:projectId/tasks
// @Summary Fetch one task page from the upstream API
// @Description Optional floorplan_id / status_id filters and a last_synced_at
// @Description sync cursor. When the cursor is omitted, a stored cursor for
// @Description the same project and filter set is resumed; the cursor from
// @Description the upstream reply is recorded for the next call.
// @Tags Remote
// @Produce json
// @Param projectId path string true "Project ID"
// @Param floorplan_id query string false "Floorplan filter"
// @Param status_id query string false "Status filter"
// @Param last_synced_at query string false "Sync cursor"
// @Success 200 {object} upstream.Result
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /remote/projects/{projectId}/tasks [get]
func (h *RemoteHandler) GetTasks(c *fiber.Ctx) error {
	projectID := c.Params("projectId")
	filters := upstream.TaskFilters{
		FloorplanID:  c.Query("floorplan_id"),
		StatusID:     c.Query("status_id"),
		LastSyncedAt: c.Query("last_synced_at"),
	}

	if filters.LastSyncedAt == "" {
		cursor, err := services.ResolveCursor(h.DB, projectID, services.ResourceTasks, filters.Map())
		if err != nil {
			return respondError(c, h.Log, err, "remoteTasks")
		}
		filters.LastSyncedAt = cursor
	}

	result, err := h.API.ProjectTasks(c.UserContext(), middleware.APIVersion(c), projectID, filters)
	if err != nil {
		return respondError(c, h.Log, err, "remoteTasks")
	}

	if err := services.StoreCursor(h.DB, projectID, services.ResourceTasks, result.Meta.LastSyncedAt, filters.Map()); err != nil {
		// A failed cursor write must not fail the fetch the caller asked for.
		h.Log.Warn("failed to store sync cursor",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
	}

	c.Set("X-Last-Synced-At", result.Meta.LastSyncedAt)
	if result.Meta.HasMore {
		c.Set("X-Has-More", "true")
	} else {
		c.Set("X-Has-More", "false")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetTask handles GET /api/remote/projects/:projectId/tasks/:taskId
// @Summary Fetch a single task from the upstream API
// @Tags Remote
// @Produce json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} upstream.Result
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /remote/projects/{projectId}/tasks/{taskId} [get]
func (h *RemoteHandler) GetTask(c *fiber.Ctx) error {
	result, err := h.API.Task(c.UserContext(), middleware.APIVersion(c), c.Params("projectId"), c.Params("taskId"))
	if err != nil {
		return respondError(c, h.Log, err, "remoteTask")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetTaskBubbles handles GET /api/remote/projects/:projectId/tasks/:taskId/bubbles
// @Summary Fetch a task's bubbles from the upstream API
// @Tags Remote
// @Produce json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} upstream.Result
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /remote/projects/{projectId}/tasks/{taskId}/bubbles [get]
func (h *RemoteHandler) GetTaskBubbles(c *fiber.Ctx) error {
	result, err := h.API.TaskBubbles(c.UserContext(), middleware.APIVersion(c), c.Params("projectId"), c.Params("taskId"))
	if err != nil {
		return respondError(c, h.Log, err, "remoteTaskBubbles")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetFloorplans handles GET /api/remote/projects/:projectId/floorplans
// @Summary Fetch a project's floorplans from the upstream API
// @Tags Remote
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} upstream.Result
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /remote/projects/{projectId}/floorplans [get]
func (h *RemoteHandler) GetFloorplans(c *fiber.Ctx) error {
	result, err := h.API.ProjectFloorplans(c.UserContext(), middleware.APIVersion(c), c.Params("projectId"))
	if err != nil {
		return respondError(c, h.Log, err, "remoteFloorplans")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetFloorplan handles GET /api/remote/projects/:projectId/floorplans/:floorplanId
// @Summary Fetch a single floorplan from the upstream API
// @Tags Remote
// @Produce json
// @Param projectId path string true "Project ID"
// @Param floorplanId path string true "Floorplan ID"
// @Success 200 {object} upstream.Result
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /remote/projects/{projectId}/floorplans/{floorplanId} [get]
func (h *RemoteHandler) GetFloorplan(c *fiber.Ctx) error {
	result, err := h.API.Floorplan(c.UserContext(), middleware.APIVersion(c), c.Params("projectId"), c.Params("floorplanId"))
	if err != nil {
		return respondError(c, h.Log, err, "remoteFloorplan")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetStatuses handles GET /api/remote/projects/:projectId/statuses
// @Summary Fetch a project's statuses from the upstream API
// @Tags Remote
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} upstream.Result
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /remote/projects/{projectId}/statuses [get]
func (h *RemoteHandler) GetStatuses(c *fiber.Ctx) error {
	result, err := h.API.ProjectStatuses(c.UserContext(), middleware.APIVersion(c), c.Params("projectId"))
	if err != nil {
		return respondError(c, h.Log, err, "remoteStatuses")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetBubbles handles GET /api/remote/projects/:projectId/bubbles
// @Summary Fetch a project's bubbles from the upstream API
// @Tags Remote
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} upstream.Result
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /remote/projects/{projectId}/bubbles [get]
func (h *RemoteHandler) GetBubbles(c *fiber.Ctx) error {
	result, err := h.API.ProjectBubbles(c.UserContext(), middleware.APIVersion(c), c.Params("projectId"))
	if err != nil {
		return respondError(c, h.Log, err, "remoteBubbles")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
