package record

import (
	"encoding/json"
	"fmt"

	"github.com/opencrafts-io/keepup/internal/common"
)

// Fields is a partial mutation payload. A nil pointer means "leave the
// current value alone"; a pointer to the zero value clears the field where
// the provider allows that. Timestamps are raw strings in any accepted
// input shape and are normalized before they reach the wire.
type Fields struct {
	Title        *string
	Notes        *string
	Location     *string
	Status       *string
	Start        *string
	End          *string
	Timezone     *string
	Transparency *string
	Parent       *string

	// Substructures in any accepted client shape. Normalize rewrites them
	// into canonical form and rejects anything else.
	Attendees  json.RawMessage
	Reminders  json.RawMessage
	Recurrence json.RawMessage
}

// Normalize returns a copy of f with attendee, reminder and recurrence
// payloads rewritten into their canonical shapes. Malformed substructures
// are a validation error; they are never silently dropped.
func (f Fields) Normalize() (Fields, error) {
	var err error
	if f.Attendees, err = NormalizeAttendees(f.Attendees); err != nil {
		return Fields{}, fmt.Errorf("attendees: %w", err)
	}
	if f.Reminders, err = NormalizeReminders(f.Reminders); err != nil {
		return Fields{}, fmt.Errorf("reminders: %w", err)
	}
	if f.Recurrence, err = NormalizeRecurrence(f.Recurrence); err != nil {
		return Fields{}, fmt.Errorf("recurrence: %w", err)
	}
	return f, nil
}

// StringValue dereferences ptr, falling back to def when ptr is nil.
func StringValue(ptr *string, def string) string {
	if ptr == nil {
		return def
	}
	return *ptr
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, common.ErrValidation)...)
}
