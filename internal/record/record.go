// Package record defines the local shape of a mirrored provider record and
// the validated field payloads accepted from callers. A Record generalizes
// both task and calendar-event collections; provider-specific fields that
// do not apply to a kind are simply left at their zero values.
package record

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates which provider collection a record belongs to.
type Kind string

const (
	KindTask  Kind = "task"
	KindEvent Kind = "event"
)

// Status values cover both collections. Tasks use needsAction/completed,
// events use confirmed/tentative/cancelled.
type Status string

const (
	StatusNeedsAction Status = "needsAction"
	StatusCompleted   Status = "completed"
	StatusConfirmed   Status = "confirmed"
	StatusTentative   Status = "tentative"
	StatusCancelled   Status = "cancelled"
)

// Record is the local mirror of a remote provider record.
//
// (OwnerID, ExternalID, Kind) is the identity key and is assigned by the
// remote system; it never changes once set. Etag and Updated are only ever
// taken from remote responses, never computed locally.
type Record struct {
	ExternalID string
	OwnerID    uuid.UUID
	Kind       Kind

	Etag     string
	Title    string
	Notes    string
	Location string
	Status   Status

	Start       *time.Time
	End         *time.Time
	CompletedAt *time.Time
	AllDay      bool
	Timezone    string

	Transparency string
	CalendarID   string
	Parent       string
	Position     string
	WebLink      string

	Created *time.Time
	Updated time.Time

	Deleted bool
	Hidden  bool

	// Provider passthrough, stored as canonical JSON.
	Attendees  json.RawMessage
	Reminders  json.RawMessage
	Recurrence json.RawMessage
}

// Completed reports whether the record is a completed task.
func (r *Record) Completed() bool {
	return r.Status == StatusCompleted
}
