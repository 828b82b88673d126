package googletasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/tasks/v1"

	"github.com/opencrafts-io/keepup/internal/common"
	"github.com/opencrafts-io/keepup/internal/record"
	"github.com/opencrafts-io/keepup/internal/timex"
)

// Mapper translates between tasks/v1 wire objects and local records.
// Pure; no I/O.
type Mapper struct{}

// FromRemote maps a provider task into a local record. A task without an
// id cannot be keyed locally and is rejected.
func (Mapper) FromRemote(owner uuid.UUID, obj *tasks.Task) (*record.Record, error) {
	if obj == nil || obj.Id == "" {
		return nil, fmt.Errorf("task without id: %w", common.ErrValidation)
	}

	rec := &record.Record{
		ExternalID: obj.Id,
		OwnerID:    owner,
		Kind:       record.KindTask,
		Etag:       obj.Etag,
		Title:      obj.Title,
		Notes:      obj.Notes,
		Status:     record.Status(obj.Status),
		Parent:     obj.Parent,
		Position:   obj.Position,
		WebLink:    obj.WebViewLink,
		Deleted:    obj.Deleted,
		Hidden:     obj.Hidden,
	}
	if rec.WebLink == "" {
		rec.WebLink = obj.SelfLink
	}
	if rec.Status == "" {
		rec.Status = record.StatusNeedsAction
	}

	if t, ok := parseWireTime(obj.Due); ok {
		rec.Start = &t
	}
	if obj.Completed != nil {
		if t, ok := parseWireTime(*obj.Completed); ok {
			rec.CompletedAt = &t
		}
	}
	if t, ok := parseWireTime(obj.Updated); ok {
		rec.Updated = t
	} else {
		// The provider always reports an update time on well-formed items;
		// fall back to now rather than storing a zero time.
		rec.Updated = time.Now().UTC()
	}

	return rec, nil
}

// InsertPayload validates f and builds a tasks/v1 insert body. Title is
// required; new tasks always start as needsAction.
func (Mapper) InsertPayload(f record.Fields) (*tasks.Task, error) {
	title := strings.TrimSpace(record.StringValue(f.Title, ""))
	if title == "" {
		return nil, fmt.Errorf("task title is required: %w", common.ErrValidation)
	}

	obj := &tasks.Task{
		Title:  title,
		Status: string(record.StatusNeedsAction),
		Notes:  record.StringValue(f.Notes, ""),
		Parent: record.StringValue(f.Parent, ""),
	}
	if f.Start != nil {
		due, err := timex.Normalize(*f.Start)
		if err != nil {
			return nil, fmt.Errorf("task due: %v: %w", err, common.ErrValidation)
		}
		obj.Due = due
	}
	return obj, nil
}

// UpdatePayload merges f over the current local values into a full update
// body; the provider replaces the object wholesale on update.
func (Mapper) UpdatePayload(current *record.Record, f record.Fields) (*tasks.Task, error) {
	obj := &tasks.Task{
		Id:     current.ExternalID,
		Title:  record.StringValue(f.Title, current.Title),
		Notes:  record.StringValue(f.Notes, current.Notes),
		Status: record.StringValue(f.Status, string(current.Status)),
	}
	if strings.TrimSpace(obj.Title) == "" {
		return nil, fmt.Errorf("task title is required: %w", common.ErrValidation)
	}
	switch record.Status(obj.Status) {
	case record.StatusNeedsAction, record.StatusCompleted:
	default:
		return nil, fmt.Errorf("task status %q: %w", obj.Status, common.ErrValidation)
	}

	switch {
	case f.Start != nil:
		due, err := timex.Normalize(*f.Start)
		if err != nil {
			return nil, fmt.Errorf("task due: %v: %w", err, common.ErrValidation)
		}
		obj.Due = due
	case current.Start != nil:
		obj.Due = timex.Format(*current.Start)
	}
	return obj, nil
}

// SetCompletion flips status and the completion timestamp on a freshly
// fetched remote task, leaving every other field as the provider sent it.
func (Mapper) SetCompletion(obj *tasks.Task, completed bool, completedAt string) error {
	if completed {
		obj.Status = string(record.StatusCompleted)
		obj.Completed = &completedAt
		return nil
	}
	obj.Status = string(record.StatusNeedsAction)
	obj.Completed = nil
	obj.NullFields = append(obj.NullFields, "Completed")
	return nil
}

func parseWireTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := timex.Parse(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
