package record

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Heterogeneous clients send event substructures in more than one shape:
// attendees arrive either as a JSON array of attendee objects or as an
// object keyed by synthetic names ({"attendee_0": {...}}), recurrence
// either as an array of RFC 5545 rule strings or as an object whose values
// are rule strings. The normalizers below rewrite every accepted shape into
// one canonical form and reject anything ambiguous or malformed instead of
// guessing.

var recurrencePrefixes = []string{"RRULE:", "EXRULE:", "RDATE:", "EXDATE:"}

// Attendee is the canonical attendee entry.
type Attendee struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	Optional       bool   `json:"optional,omitempty"`
	ResponseStatus string `json:"responseStatus,omitempty"`
}

// ReminderOverride is one entry of a reminder override list.
type ReminderOverride struct {
	Method  string `json:"method"`
	Minutes int64  `json:"minutes"`
}

// Reminders is the canonical reminder settings object.
type Reminders struct {
	UseDefault bool               `json:"useDefault"`
	Overrides  []ReminderOverride `json:"overrides,omitempty"`
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// NormalizeAttendees accepts either a JSON array of attendee objects or an
// object of keyed attendee entries and returns a canonical JSON array.
// Every entry must carry a non-empty email.
func NormalizeAttendees(raw json.RawMessage) (json.RawMessage, error) {
	if isNull(raw) {
		return nil, nil
	}

	var list []Attendee
	if err := strictUnmarshal(raw, &list); err == nil {
		return marshalAttendees(list)
	}

	var keyed map[string]Attendee
	if err := strictUnmarshal(raw, &keyed); err == nil {
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		list = make([]Attendee, 0, len(keyed))
		for _, k := range keys {
			list = append(list, keyed[k])
		}
		return marshalAttendees(list)
	}

	return nil, validationErr("unrecognized attendee payload shape")
}

func marshalAttendees(list []Attendee) (json.RawMessage, error) {
	for _, a := range list {
		if strings.TrimSpace(a.Email) == "" {
			return nil, validationErr("attendee without email")
		}
	}
	if len(list) == 0 {
		return nil, nil
	}
	return json.Marshal(list)
}

// NormalizeRecurrence accepts either a JSON array of recurrence rule
// strings or an object whose values are rule strings and returns a
// canonical JSON array. Every rule must carry a known RFC 5545 prefix.
func NormalizeRecurrence(raw json.RawMessage) (json.RawMessage, error) {
	if isNull(raw) {
		return nil, nil
	}

	var rules []string
	if err := strictUnmarshal(raw, &rules); err != nil {
		var keyed map[string]string
		if err := strictUnmarshal(raw, &keyed); err != nil {
			return nil, validationErr("unrecognized recurrence payload shape")
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rules = make([]string, 0, len(keyed))
		for _, k := range keys {
			rules = append(rules, keyed[k])
		}
	}

	for _, rule := range rules {
		if !hasRecurrencePrefix(rule) {
			return nil, validationErr("invalid recurrence rule %q", rule)
		}
	}
	if len(rules) == 0 {
		return nil, nil
	}
	return json.Marshal(rules)
}

func hasRecurrencePrefix(rule string) bool {
	for _, p := range recurrencePrefixes {
		if strings.HasPrefix(rule, p) {
			return true
		}
	}
	return false
}

// NormalizeReminders accepts a reminder settings object containing only
// useDefault and overrides keys and returns it re-marshaled canonically.
func NormalizeReminders(raw json.RawMessage) (json.RawMessage, error) {
	if isNull(raw) {
		return nil, nil
	}

	var r Reminders
	if err := strictUnmarshal(raw, &r); err != nil {
		return nil, validationErr("unrecognized reminder payload shape")
	}
	for _, o := range r.Overrides {
		if o.Method == "" || o.Minutes < 0 {
			return nil, validationErr("invalid reminder override")
		}
	}
	return json.Marshal(r)
}

// strictUnmarshal decodes raw into v rejecting unknown object keys, so a
// payload in the wrong shape fails instead of decoding partially.
func strictUnmarshal(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
