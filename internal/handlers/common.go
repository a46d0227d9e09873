package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/localsite/planboard/internal/services"
	"github.com/localsite/planboard/internal/types"
	"github.com/localsite/planboard/internal/utils"
	"go.uber.org/zap"
)

// respondError maps the error taxonomy onto HTTP codes. Validation mistakes
// echo their reason back to the caller; everything else is logged with detail
// server-side and answered with a generic message so query text and
// credentials never leak.
func respondError(c *fiber.Ctx, log *zap.Logger, err error, op string) error {
	var validation *types.ValidationError
	if errors.As(err, &validation) {
		return utils.ErrorResponse(c, validation.Error(), fiber.StatusBadRequest, op)
	}

	var upstream *types.UpstreamError
	if errors.As(err, &upstream) {
		log.Error("upstream failure",
			zap.String("op", op),
			zap.Int("upstream_status", upstream.Status),
			zap.String("upstream_message", upstream.Message),
		)
		return utils.ErrorResponse(c, "Internal Server Error", fiber.StatusInternalServerError, op)
	}

	log.Error("request failed",
		zap.String("op", op),
		zap.Error(err),
		zap.Stack("stack"),
	)
	return utils.ErrorResponse(c, "Internal Server Error", fiber.StatusInternalServerError, op)
}

// taskFilterFromQuery builds the listing filter from query parameters.
// Absent optional parameters stay empty and are omitted from the query.
func taskFilterFromQuery(c *fiber.Ctx) services.TaskFilter {
	return services.TaskFilter{
		ProjectID:   c.Query("project_id"),
		StatusID:    c.Query("status_id"),
		FloorplanID: c.Query("floorplan_id"),
		Search:      c.Query("search"),
		Page:        c.QueryInt("page", 0),
		PageCount:   c.QueryInt("page_count", services.DefaultPageCount),
		Sort:        services.ParseSortDirection(c.Query("sort_direction")),
	}
}
