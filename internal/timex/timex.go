// Package timex provides timestamp normalization helpers. Every timestamp
// exchanged with the remote provider is rendered in one canonical shape:
// millisecond precision, UTC, trailing Z.
package timex

import (
	"fmt"
	"time"
)

// LayoutRFC3339Milli is the canonical wire layout for timestamps.
const LayoutRFC3339Milli = "2006-01-02T15:04:05.000Z"

// Accepted input layouts, tried in order. RFC3339Nano covers both
// offset-qualified and Z-suffixed timestamps with any fractional precision.
var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// seam for tests
var timeNow = time.Now

// Format renders t in the canonical layout.
func Format(t time.Time) string {
	return t.UTC().Format(LayoutRFC3339Milli)
}

// Parse interprets raw as a timestamp in one of the accepted shapes:
// an RFC 3339 timestamp (with offset or Z), a naive datetime, or a bare
// date. Naive inputs are assumed to be UTC.
func Parse(raw string) (time.Time, error) {
	for _, layout := range parseLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", raw)
}

// Normalize parses raw and reformats it in the canonical layout.
func Normalize(raw string) (string, error) {
	t, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return Format(t), nil
}

// NormalizeOrNow behaves like Normalize, except an empty input defaults to
// the current UTC time. An unparsable non-empty input is still an error.
func NormalizeOrNow(raw string) (string, error) {
	if raw == "" {
		return Format(timeNow()), nil
	}
	return Normalize(raw)
}
