package dashboard

import (
	"context"
	"fmt"

	"github.com/localsite/planboard/internal/models"
	"github.com/localsite/planboard/internal/services"
)

// API is what the dashboard needs from the service surface. Client implements
// it over HTTP; tests substitute a fake.
type API interface {
	Projects(ctx context.Context) ([]models.Project, error)
	Floorplans(ctx context.Context, projectID string) ([]models.Floorplan, error)
	Statuses(ctx context.Context, projectID, floorplanID string) ([]services.StatusCount, error)
	Tasks(ctx context.Context, filter services.TaskFilter) (*services.TaskPage, error)
}

// State is the dashboard's UI-local selection: project, floorplan, status,
// search, page, page size, sort. Selections cascade and every filter change
// resets the page index to zero.
type State struct {
	Projects   []models.Project
	Floorplans []models.Floorplan
	Statuses   []services.StatusCount

	SelectedProject   *models.Project
	SelectedFloorplan *models.Floorplan
	SelectedStatus    *services.StatusCount

	Search    string
	Page      int
	PageCount int
	Sort      services.SortDirection

	Tasks *services.TaskPage
}

// Controller drives State against the API. Overlapping fetches triggered by
// rapid interaction keep the platform's last-write-wins behavior; there is no
// in-flight cancellation or de-duplication.
type Controller struct {
	api   API
	State State
}

// NewController builds a controller with the default page settings.
func NewController(api API) *Controller {
	return &Controller{
		api: api,
		State: State{
			PageCount: services.DefaultPageCount,
			Sort:      services.SortDesc,
		},
	}
}

// Load fetches the projects and selects the first one, cascading into
// floorplans, statuses, and the first task page.
func (ctl *Controller) Load(ctx context.Context) error {
	projects, err := ctl.api.Projects(ctx)
	if err != nil {
		return err
	}
	ctl.State.Projects = projects
	if len(projects) == 0 {
		return nil
	}
	return ctl.SelectProject(ctx, projects[0].ID)
}

// SelectProject cascades: reload floorplans and statuses, clear the floorplan
// and status selections, reset the page, refetch tasks.
func (ctl *Controller) SelectProject(ctx context.Context, projectID string) error {
	project := findProject(ctl.State.Projects, projectID)
	if project == nil {
		return fmt.Errorf("unknown project %q", projectID)
	}
	ctl.State.SelectedProject = project
	ctl.State.SelectedFloorplan = nil
	ctl.State.SelectedStatus = nil
	ctl.State.Page = 0

	floorplans, err := ctl.api.Floorplans(ctx, projectID)
	if err != nil {
		return err
	}
	ctl.State.Floorplans = floorplans

	statuses, err := ctl.api.Statuses(ctx, projectID, "")
	if err != nil {
		return err
	}
	ctl.State.Statuses = statuses

	return ctl.refetchTasks(ctx)
}

// SelectFloorplan filters by one floorplan; nil floorplanID clears the filter.
func (ctl *Controller) SelectFloorplan(ctx context.Context, floorplanID *string) error {
	ctl.State.SelectedFloorplan = nil
	if floorplanID != nil {
		for i := range ctl.State.Floorplans {
			if ctl.State.Floorplans[i].ID == *floorplanID {
				ctl.State.SelectedFloorplan = &ctl.State.Floorplans[i]
			}
		}
	}
	ctl.State.Page = 0
	return ctl.refetchTasks(ctx)
}

// SelectStatus filters by one status; nil statusID clears the filter.
func (ctl *Controller) SelectStatus(ctx context.Context, statusID *string) error {
	ctl.State.SelectedStatus = nil
	if statusID != nil {
		for i := range ctl.State.Statuses {
			if ctl.State.Statuses[i].ID == *statusID {
				ctl.State.SelectedStatus = &ctl.State.Statuses[i]
			}
		}
	}
	ctl.State.Page = 0
	return ctl.refetchTasks(ctx)
}

// SetSearch changes the free-text filter.
func (ctl *Controller) SetSearch(ctx context.Context, search string) error {
	ctl.State.Search = search
	ctl.State.Page = 0
	return ctl.refetchTasks(ctx)
}

// SetPageCount changes the page size.
func (ctl *Controller) SetPageCount(ctx context.Context, pageCount int) error {
	if pageCount <= 0 {
		pageCount = services.DefaultPageCount
	}
	ctl.State.PageCount = pageCount
	ctl.State.Page = 0
	return ctl.refetchTasks(ctx)
}

// SetSort flips the activity ordering.
func (ctl *Controller) SetSort(ctx context.Context, sort services.SortDirection) error {
	ctl.State.Sort = sort
	ctl.State.Page = 0
	return ctl.refetchTasks(ctx)
}

// NextPage advances one page, clamped at the last page.
func (ctl *Controller) NextPage(ctx context.Context) error {
	if ctl.State.Page+1 >= ctl.TotalPages() {
		return nil
	}
	ctl.State.Page++
	return ctl.refetchTasks(ctx)
}

// PrevPage steps back one page, clamped at zero.
func (ctl *Controller) PrevPage(ctx context.Context) error {
	if ctl.State.Page == 0 {
		return nil
	}
	ctl.State.Page--
	return ctl.refetchTasks(ctx)
}

// TotalPages derives the page count from the last fetched total.
func (ctl *Controller) TotalPages() int {
	if ctl.State.Tasks == nil || ctl.State.PageCount <= 0 {
		return 0
	}
	total := int(ctl.State.Tasks.TotalCount)
	return (total + ctl.State.PageCount - 1) / ctl.State.PageCount
}

func (ctl *Controller) refetchTasks(ctx context.Context) error {
	if ctl.State.SelectedProject == nil {
		ctl.State.Tasks = nil
		return nil
	}

	filter := services.TaskFilter{
		ProjectID: ctl.State.SelectedProject.ID,
		Search:    ctl.State.Search,
		Page:      ctl.State.Page,
		PageCount: ctl.State.PageCount,
		Sort:      ctl.State.Sort,
	}
	if ctl.State.SelectedFloorplan != nil {
		filter.FloorplanID = ctl.State.SelectedFloorplan.ID
	}
	if ctl.State.SelectedStatus != nil {
		filter.StatusID = ctl.State.SelectedStatus.ID
	}

	page, err := ctl.api.Tasks(ctx, filter)
	if err != nil {
		// Any failed fetch shows as an empty state, not an error kind.
		ctl.State.Tasks = nil
		return err
	}
	ctl.State.Tasks = page
	return nil
}

func findProject(projects []models.Project, id string) *models.Project {
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i]
		}
	}
	return nil
}
