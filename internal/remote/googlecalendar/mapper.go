package googlecalendar

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"

	"github.com/opencrafts-io/keepup/internal/common"
	"github.com/opencrafts-io/keepup/internal/record"
	"github.com/opencrafts-io/keepup/internal/timex"
)

// Mapper translates between calendar/v3 wire objects and local records.
// Pure; no I/O. CalendarID is recorded on ingested records so mutations
// can later address the right calendar.
type Mapper struct {
	CalendarID string
}

// FromRemote maps a provider event into a local record, applying the
// provider defaulting rules for absent fields.
func (m Mapper) FromRemote(owner uuid.UUID, obj *calendar.Event) (*record.Record, error) {
	if obj == nil || obj.Id == "" {
		return nil, fmt.Errorf("event without id: %w", common.ErrValidation)
	}

	rec := &record.Record{
		ExternalID:   obj.Id,
		OwnerID:      owner,
		Kind:         record.KindEvent,
		Etag:         obj.Etag,
		Title:        obj.Summary,
		Notes:        obj.Description,
		Location:     obj.Location,
		Status:       record.Status(obj.Status),
		Transparency: obj.Transparency,
		CalendarID:   m.CalendarID,
		WebLink:      obj.HtmlLink,
		Timezone:     "UTC",
	}
	if rec.Title == "" {
		rec.Title = "No Title"
	}
	if rec.Status == "" {
		rec.Status = record.StatusConfirmed
	}
	if rec.Transparency == "" {
		rec.Transparency = "opaque"
	}
	if rec.CalendarID == "" {
		rec.CalendarID = DefaultCalendarID
	}
	rec.Deleted = rec.Status == record.StatusCancelled

	if obj.Start != nil {
		rec.AllDay = obj.Start.Date != ""
		if obj.Start.TimeZone != "" {
			rec.Timezone = obj.Start.TimeZone
		}
		if t, ok := parseEventTime(obj.Start); ok {
			rec.Start = &t
		}
	}
	if obj.End != nil {
		if t, ok := parseEventTime(obj.End); ok {
			rec.End = &t
		}
	}

	if t, err := timex.Parse(obj.Updated); err == nil {
		rec.Updated = t
	} else {
		rec.Updated = time.Now().UTC()
	}
	if t, err := timex.Parse(obj.Created); err == nil {
		rec.Created = &t
	}

	var err error
	if rec.Attendees, err = marshalIfAny(obj.Attendees, len(obj.Attendees) > 0); err != nil {
		return nil, err
	}
	if rec.Reminders, err = marshalIfAny(obj.Reminders, obj.Reminders != nil); err != nil {
		return nil, err
	}
	if rec.Recurrence, err = marshalIfAny(obj.Recurrence, len(obj.Recurrence) > 0); err != nil {
		return nil, err
	}

	return rec, nil
}

// InsertPayload validates f and builds a calendar/v3 insert body. Summary,
// start and end are required; reminders default to the calendar defaults.
func (m Mapper) InsertPayload(f record.Fields) (*calendar.Event, error) {
	title := strings.TrimSpace(record.StringValue(f.Title, ""))
	if title == "" {
		return nil, fmt.Errorf("event summary is required: %w", common.ErrValidation)
	}
	if f.Start == nil || f.End == nil {
		return nil, fmt.Errorf("event start and end are required: %w", common.ErrValidation)
	}

	tz := record.StringValue(f.Timezone, "UTC")
	start, err := eventDateTime(*f.Start, tz)
	if err != nil {
		return nil, err
	}
	end, err := eventDateTime(*f.End, tz)
	if err != nil {
		return nil, err
	}

	obj := &calendar.Event{
		Summary:      title,
		Description:  record.StringValue(f.Notes, ""),
		Location:     record.StringValue(f.Location, ""),
		Start:        start,
		End:          end,
		Transparency: record.StringValue(f.Transparency, "opaque"),
		Reminders:    &calendar.EventReminders{UseDefault: true, ForceSendFields: []string{"UseDefault"}},
	}

	if err := applySubstructures(obj, f); err != nil {
		return nil, err
	}
	return obj, nil
}

// UpdatePayload merges f over the current local values into a full update
// body, mirroring the provider's replace-on-update semantics.
func (m Mapper) UpdatePayload(current *record.Record, f record.Fields) (*calendar.Event, error) {
	title := strings.TrimSpace(record.StringValue(f.Title, current.Title))
	if title == "" {
		return nil, fmt.Errorf("event summary is required: %w", common.ErrValidation)
	}

	tz := record.StringValue(f.Timezone, current.Timezone)
	if tz == "" {
		tz = "UTC"
	}

	start, err := mergedDateTime(f.Start, current.Start, tz)
	if err != nil {
		return nil, err
	}
	end, err := mergedDateTime(f.End, current.End, tz)
	if err != nil {
		return nil, err
	}
	if start == nil || end == nil {
		return nil, fmt.Errorf("event start and end are required: %w", common.ErrValidation)
	}

	obj := &calendar.Event{
		Id:           current.ExternalID,
		Summary:      title,
		Description:  record.StringValue(f.Notes, current.Notes),
		Location:     record.StringValue(f.Location, current.Location),
		Start:        start,
		End:          end,
		Transparency: record.StringValue(f.Transparency, current.Transparency),
	}

	if err := applySubstructures(obj, f); err != nil {
		return nil, err
	}
	return obj, nil
}

// SetCompletion is unsupported for calendar events; they have no
// completion concept.
func (Mapper) SetCompletion(obj *calendar.Event, completed bool, completedAt string) error {
	return fmt.Errorf("calendar events cannot be completed: %w", common.ErrValidation)
}

func applySubstructures(obj *calendar.Event, f record.Fields) error {
	if len(f.Attendees) > 0 {
		if err := json.Unmarshal(f.Attendees, &obj.Attendees); err != nil {
			return fmt.Errorf("attendees: %v: %w", err, common.ErrValidation)
		}
	}
	if len(f.Reminders) > 0 {
		reminders := &calendar.EventReminders{ForceSendFields: []string{"UseDefault"}}
		if err := json.Unmarshal(f.Reminders, reminders); err != nil {
			return fmt.Errorf("reminders: %v: %w", err, common.ErrValidation)
		}
		obj.Reminders = reminders
	}
	if len(f.Recurrence) > 0 {
		if err := json.Unmarshal(f.Recurrence, &obj.Recurrence); err != nil {
			return fmt.Errorf("recurrence: %v: %w", err, common.ErrValidation)
		}
	}
	return nil
}

func eventDateTime(raw, tz string) (*calendar.EventDateTime, error) {
	normalized, err := timex.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("event time: %v: %w", err, common.ErrValidation)
	}
	return &calendar.EventDateTime{DateTime: normalized, TimeZone: tz}, nil
}

func mergedDateTime(requested *string, current *time.Time, tz string) (*calendar.EventDateTime, error) {
	if requested != nil {
		return eventDateTime(*requested, tz)
	}
	if current != nil {
		return &calendar.EventDateTime{DateTime: timex.Format(*current), TimeZone: tz}, nil
	}
	return nil, nil
}

func parseEventTime(edt *calendar.EventDateTime) (time.Time, bool) {
	raw := edt.DateTime
	if raw == "" {
		raw = edt.Date
	}
	if raw == "" {
		return time.Time{}, false
	}
	t, err := timex.Parse(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func marshalIfAny(v any, present bool) (json.RawMessage, error) {
	if !present {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal passthrough: %w", err)
	}
	return b, nil
}
