package services

import (
	"encoding/json"
	"errors"
	"maps"

	"github.com/localsite/planboard/internal/models"
	"github.com/localsite/planboard/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Resource names tracked in sync_states.
const (
	ResourceTasks = "tasks"
)

// ResolveCursor returns the stored sync cursor for a (project, resource)
// pair, but only when the caller's filter set matches the fingerprint the
// cursor was recorded under. The upstream cursor is monotonic for a fixed
// filter set and meaningless across filter changes, so a mismatch yields an
// empty cursor and the caller starts a fresh sync.
func ResolveCursor(db *gorm.DB, projectID, resource string, filters map[string]string) (string, error) {
	var state models.SyncState
	err := db.Where("project_id = ? AND resource = ?", projectID, resource).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", &types.QueryError{Op: "resolve cursor", Err: err}
	}

	if !sameFilters(state.Filters.JSON, filters) {
		return "", nil
	}
	return state.Cursor, nil
}

// sameFilters compares the stored fingerprint against the caller's filter set
// semantically. jsonb and mysql JSON columns re-serialize stored values with
// their own spacing, so the comparison must never be byte-for-byte. An
// unreadable stored fingerprint counts as a mismatch and starts a fresh sync.
func sameFilters(stored datatypes.JSON, filters map[string]string) bool {
	recorded := map[string]string{}
	if len(stored) > 0 {
		if err := json.Unmarshal(stored, &recorded); err != nil {
			return false
		}
	}
	if filters == nil {
		filters = map[string]string{}
	}
	return maps.Equal(recorded, filters)
}

// StoreCursor upserts the latest cursor for a (project, resource) pair along
// with the fingerprint of the filters it belongs to. Empty cursors are not
// recorded.
func StoreCursor(db *gorm.DB, projectID, resource, cursor string, filters map[string]string) error {
	if cursor == "" {
		return nil
	}

	fp, err := filterFingerprint(filters)
	if err != nil {
		return err
	}

	state := models.SyncState{
		ProjectID: projectID,
		Resource:  resource,
		Cursor:    cursor,
		Filters:   models.JSON{JSON: datatypes.JSON(fp)},
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "resource"}},
		DoUpdates: clause.AssignmentColumns([]string{"cursor", "filters", "updated_at"}),
	}).Create(&state).Error
	if err != nil {
		return &types.QueryError{Op: "store cursor", Err: err}
	}
	return nil
}

// filterFingerprint serializes a filter set for storage (JSON object keys
// marshal sorted); sameFilters does the reading side.
func filterFingerprint(filters map[string]string) ([]byte, error) {
	if filters == nil {
		filters = map[string]string{}
	}
	fp, err := json.Marshal(filters)
	if err != nil {
		return nil, &types.QueryError{Op: "fingerprint filters", Err: err}
	}
	return fp, nil
}
