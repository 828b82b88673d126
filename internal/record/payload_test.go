package record

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencrafts-io/keepup/internal/common"
)

func TestNormalizeAttendees(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "canonical list passes through",
			in:   `[{"email":"john@example.com","displayName":"John"}]`,
			want: `[{"email":"john@example.com","displayName":"John"}]`,
		},
		{
			name: "keyed entries are flattened in key order",
			in:   `{"attendee_1":{"email":"b@example.com"},"attendee_0":{"email":"a@example.com"}}`,
			want: `[{"email":"a@example.com"},{"email":"b@example.com"}]`,
		},
		{
			name:    "entry without email rejected",
			in:      `[{"displayName":"No Mail"}]`,
			wantErr: true,
		},
		{
			name:    "keyed entry without email rejected",
			in:      `{"attendee_0":{"displayName":"No Mail"}}`,
			wantErr: true,
		},
		{
			name:    "scalar payload rejected",
			in:      `"john@example.com"`,
			wantErr: true,
		},
		{
			name:    "unknown keys rejected rather than dropped",
			in:      `[{"email":"a@example.com","unexpected":true}]`,
			wantErr: true,
		},
		{
			name: "empty list normalizes to absent",
			in:   `[]`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAttendees(json.RawMessage(tt.in))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNormalizeRecurrence(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "rule list passes through",
			in:   `["RRULE:FREQ=WEEKLY"]`,
			want: `["RRULE:FREQ=WEEKLY"]`,
		},
		{
			name: "keyed rules are flattened",
			in:   `{"rule":"RRULE:FREQ=YEARLY"}`,
			want: `["RRULE:FREQ=YEARLY"]`,
		},
		{
			name:    "rule without known prefix rejected",
			in:      `["FREQ=WEEKLY"]`,
			wantErr: true,
		},
		{
			name:    "keyed rule without known prefix rejected",
			in:      `{"rule":"every week"}`,
			wantErr: true,
		},
		{
			name:    "object with non-string values rejected",
			in:      `{"rule":5}`,
			wantErr: true,
		},
		{
			name: "exdate accepted",
			in:   `["EXDATE:20250820"]`,
			want: `["EXDATE:20250820"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRecurrence(json.RawMessage(tt.in))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNormalizeReminders(t *testing.T) {
	got, err := NormalizeReminders(json.RawMessage(
		`{"useDefault":false,"overrides":[{"method":"popup","minutes":60}]}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"useDefault":false,"overrides":[{"method":"popup","minutes":60}]}`, string(got))

	_, err = NormalizeReminders(json.RawMessage(`{"useDefault":false,"extra":1}`))
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = NormalizeReminders(json.RawMessage(`{"overrides":[{"minutes":60}]}`))
	assert.ErrorIs(t, err, common.ErrValidation)

	got, err = NormalizeReminders(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFieldsNormalize(t *testing.T) {
	f := Fields{
		Attendees:  json.RawMessage(`{"attendee_0":{"email":"a@example.com"}}`),
		Recurrence: json.RawMessage(`{"rule":"RRULE:FREQ=DAILY"}`),
		Reminders:  json.RawMessage(`{"useDefault":true}`),
	}
	got, err := f.Normalize()
	require.NoError(t, err)
	assert.Equal(t, `[{"email":"a@example.com"}]`, string(got.Attendees))
	assert.Equal(t, `["RRULE:FREQ=DAILY"]`, string(got.Recurrence))

	f.Recurrence = json.RawMessage(`"RRULE:FREQ=DAILY"`)
	_, err = f.Normalize()
	assert.ErrorIs(t, err, common.ErrValidation)
}
