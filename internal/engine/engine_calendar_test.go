package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"

	"github.com/opencrafts-io/keepup/internal/common"
	"github.com/opencrafts-io/keepup/internal/record"
	"github.com/opencrafts-io/keepup/internal/remote"
	"github.com/opencrafts-io/keepup/internal/remote/googlecalendar"
	"github.com/opencrafts-io/keepup/internal/store"
	"github.com/opencrafts-io/keepup/internal/timex"
)

// fakeCalendarRemote serves only the events inside its window, like the
// real provider does, while holding events outside it too.
type fakeCalendarRemote struct {
	mu      sync.Mutex
	events  map[string]*calendar.Event
	order   []string
	timeMin time.Time
	timeMax time.Time
}

func newFakeCalendarRemote(window time.Duration) *fakeCalendarRemote {
	now := time.Now().UTC()
	return &fakeCalendarRemote{
		events:  make(map[string]*calendar.Event),
		timeMin: now.Add(-window),
		timeMax: now.Add(window),
	}
}

func (f *fakeCalendarRemote) add(ev *calendar.Event) *calendar.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ev.Updated == "" {
		ev.Updated = "2026-03-01T10:00:00.000Z"
	}
	if _, ok := f.events[ev.Id]; !ok {
		f.order = append(f.order, ev.Id)
	}
	f.events[ev.Id] = ev
	return ev
}

func (f *fakeCalendarRemote) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

func (f *fakeCalendarRemote) ListWindow() (time.Time, time.Time) {
	return f.timeMin, f.timeMax
}

func (f *fakeCalendarRemote) inWindow(ev *calendar.Event) bool {
	if ev.Start == nil || ev.Start.DateTime == "" {
		return false
	}
	start, err := timex.Parse(ev.Start.DateTime)
	if err != nil {
		return false
	}
	return !start.Before(f.timeMin) && !start.After(f.timeMax)
}

func (f *fakeCalendarRemote) ListPage(ctx context.Context, pageToken string) ([]*calendar.Event, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []*calendar.Event
	for _, id := range f.order {
		if ev := f.events[id]; f.inWindow(ev) {
			cp := *ev
			items = append(items, &cp)
		}
	}
	return items, "", nil
}

func (f *fakeCalendarRemote) Get(ctx context.Context, id string) (*calendar.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, common.ErrNotFound)
	}
	cp := *ev
	return &cp, nil
}

func (f *fakeCalendarRemote) Insert(ctx context.Context, payload *calendar.Event) (*calendar.Event, error) {
	cp := *payload
	cp.Id = fmt.Sprintf("event-%d", len(f.order)+1)
	inserted := f.add(&cp)
	out := *inserted
	return &out, nil
}

func (f *fakeCalendarRemote) Update(ctx context.Context, id string, payload *calendar.Event) (*calendar.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return nil, fmt.Errorf("event %s: %w", id, common.ErrNotFound)
	}
	cp := *payload
	cp.Id = id
	cp.Updated = "2026-03-02T10:00:00.000Z"
	f.events[id] = &cp
	out := cp
	return &out, nil
}

func (f *fakeCalendarRemote) Delete(ctx context.Context, id string) error {
	f.remove(id)
	return nil
}

type fakeCalendarFactory struct {
	client *fakeCalendarRemote
}

func (f fakeCalendarFactory) ClientFor(ctx context.Context, owner uuid.UUID) (remote.Client[*calendar.Event], error) {
	return f.client, nil
}

func newEventService(rem *fakeCalendarRemote, st store.Store) *Service[*calendar.Event] {
	return New(record.KindEvent, fakeCalendarFactory{client: rem},
		googlecalendar.Mapper{CalendarID: "primary"}, st, testLogger())
}

func eventAt(id string, start time.Time) *calendar.Event {
	return &calendar.Event{
		Id:      id,
		Summary: "event " + id,
		Status:  "confirmed",
		Start:   &calendar.EventDateTime{DateTime: timex.Format(start), TimeZone: "UTC"},
		End:     &calendar.EventDateTime{DateTime: timex.Format(start.Add(time.Hour)), TimeZone: "UTC"},
	}
}

func TestCalendarSyncKeepsEventsOutsideWindow(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	rem := newFakeCalendarRemote(30 * 24 * time.Hour)
	rem.add(eventAt("near", time.Now().UTC().Add(24*time.Hour)))
	rem.add(eventAt("far", time.Now().UTC().Add(60*24*time.Hour)))

	st := store.NewMemoryStore(record.KindEvent)
	svc := newEventService(rem, st)

	// The far event was mirrored by an earlier run with a wider window.
	farStart := time.Now().UTC().Add(60 * 24 * time.Hour)
	farEnd := farStart.Add(time.Hour)
	require.NoError(t, st.Upsert(ctx, &record.Record{
		ExternalID: "far", OwnerID: owner, Kind: record.KindEvent,
		Title: "event far", Status: record.StatusConfirmed,
		Start: &farStart, End: &farEnd, Updated: time.Now().UTC(),
	}))

	res, err := svc.Sync(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Upserted, "only the in-window event is listed")
	assert.Equal(t, int64(0), res.Tombstoned)

	rec, err := st.Get(ctx, owner, "far")
	require.NoError(t, err)
	assert.False(t, rec.Deleted, "an event outside the listing window must survive sync")
}

func TestCalendarSyncTombstonesInsideWindow(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	rem := newFakeCalendarRemote(30 * 24 * time.Hour)
	keep := rem.add(eventAt("keep", time.Now().UTC().Add(24*time.Hour)))
	gone := rem.add(eventAt("gone", time.Now().UTC().Add(48*time.Hour)))

	st := store.NewMemoryStore(record.KindEvent)
	svc := newEventService(rem, st)

	_, err := svc.Sync(ctx, owner)
	require.NoError(t, err)

	rem.remove(gone.Id)

	res, err := svc.Sync(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Tombstoned)

	rec, err := st.Get(ctx, owner, gone.Id)
	require.NoError(t, err)
	assert.True(t, rec.Deleted)

	rec, err = st.Get(ctx, owner, keep.Id)
	require.NoError(t, err)
	assert.False(t, rec.Deleted)
}

func TestCalendarClientAdvertisesItsWindow(t *testing.T) {
	var client any = &fakeCalendarRemote{}
	_, ok := client.(remote.Windowed)
	assert.True(t, ok)

	// The production client carries the same contract.
	var real any = &googlecalendar.Client{}
	_, ok = real.(remote.Windowed)
	assert.True(t, ok)
}
