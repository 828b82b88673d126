package googletasks

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/tasks/v1"

	"github.com/opencrafts-io/keepup/internal/common"
	"github.com/opencrafts-io/keepup/internal/record"
)

func strptr(s string) *string { return &s }

func TestFromRemote(t *testing.T) {
	owner := uuid.New()
	m := Mapper{}

	completed := "2025-08-20T10:00:00.000Z"
	rec, err := m.FromRemote(owner, &tasks.Task{
		Id:          "t1",
		Etag:        `"v1"`,
		Title:       "write report",
		Notes:       "quarterly numbers",
		Status:      "completed",
		Due:         "2025-08-21T00:00:00.000Z",
		Completed:   &completed,
		Updated:     "2025-08-20T10:00:00.000Z",
		Parent:      "p1",
		Position:    "000001",
		WebViewLink: "https://tasks.google.com/task/t1",
		Hidden:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, "t1", rec.ExternalID)
	assert.Equal(t, owner, rec.OwnerID)
	assert.Equal(t, record.KindTask, rec.Kind)
	assert.Equal(t, `"v1"`, rec.Etag)
	assert.Equal(t, record.StatusCompleted, rec.Status)
	require.NotNil(t, rec.Start)
	assert.Equal(t, time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC), *rec.Start)
	require.NotNil(t, rec.CompletedAt)
	assert.True(t, rec.Hidden)
	assert.False(t, rec.Deleted)
	assert.Equal(t, "p1", rec.Parent)
}

func TestFromRemoteDefaults(t *testing.T) {
	m := Mapper{}
	rec, err := m.FromRemote(uuid.New(), &tasks.Task{Id: "t1"})
	require.NoError(t, err)

	assert.Equal(t, record.StatusNeedsAction, rec.Status)
	assert.Nil(t, rec.Start)
	assert.Nil(t, rec.CompletedAt)
	assert.False(t, rec.Updated.IsZero())
}

func TestFromRemoteMissingID(t *testing.T) {
	m := Mapper{}
	_, err := m.FromRemote(uuid.New(), &tasks.Task{Title: "orphan"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = m.FromRemote(uuid.New(), nil)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestInsertPayload(t *testing.T) {
	m := Mapper{}

	obj, err := m.InsertPayload(record.Fields{
		Title: strptr("buy milk"),
		Notes: strptr("2%"),
		Start: strptr("2025-08-22"),
	})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", obj.Title)
	assert.Equal(t, "needsAction", obj.Status)
	assert.Equal(t, "2025-08-22T00:00:00.000Z", obj.Due)

	_, err = m.InsertPayload(record.Fields{})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = m.InsertPayload(record.Fields{Title: strptr("   ")})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = m.InsertPayload(record.Fields{Title: strptr("x"), Start: strptr("not a date")})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdatePayloadMergesOverCurrent(t *testing.T) {
	m := Mapper{}
	due := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	current := &record.Record{
		ExternalID: "t1",
		Title:      "old title",
		Notes:      "old notes",
		Status:     record.StatusNeedsAction,
		Start:      &due,
	}

	obj, err := m.UpdatePayload(current, record.Fields{Notes: strptr("new notes")})
	require.NoError(t, err)
	assert.Equal(t, "t1", obj.Id)
	assert.Equal(t, "old title", obj.Title)
	assert.Equal(t, "new notes", obj.Notes)
	assert.Equal(t, "needsAction", obj.Status)
	assert.Equal(t, "2025-08-25T00:00:00.000Z", obj.Due)

	obj, err = m.UpdatePayload(current, record.Fields{Start: strptr("2025-09-01")})
	require.NoError(t, err)
	assert.Equal(t, "2025-09-01T00:00:00.000Z", obj.Due)

	obj, err = m.UpdatePayload(current, record.Fields{Status: strptr("completed")})
	require.NoError(t, err)
	assert.Equal(t, "completed", obj.Status)
}

func TestUpdatePayloadRejectsUnknownStatus(t *testing.T) {
	m := Mapper{}
	current := &record.Record{
		ExternalID: "t1",
		Title:      "title",
		Status:     record.StatusNeedsAction,
	}

	_, err := m.UpdatePayload(current, record.Fields{Status: strptr("archived")})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSetCompletionSymmetry(t *testing.T) {
	m := Mapper{}
	obj := &tasks.Task{Id: "t1", Status: "needsAction"}

	require.NoError(t, m.SetCompletion(obj, true, "2025-08-20T10:00:00.000Z"))
	assert.Equal(t, "completed", obj.Status)
	require.NotNil(t, obj.Completed)
	assert.Equal(t, "2025-08-20T10:00:00.000Z", *obj.Completed)

	require.NoError(t, m.SetCompletion(obj, false, ""))
	assert.Equal(t, "needsAction", obj.Status)
	assert.Nil(t, obj.Completed)
	assert.Contains(t, obj.NullFields, "Completed")
}
