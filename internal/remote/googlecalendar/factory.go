package googlecalendar

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"

	"github.com/opencrafts-io/keepup/internal/remote"
)

const (
	defaultPageSize = 100
	defaultWindow   = 30 * 24 * time.Hour
)

// Factory builds per-owner calendar clients from identity-provider tokens.
// It implements remote.Factory[*calendar.Event].
type Factory struct {
	tokens     remote.TokenProvider
	calendarID string
	window     time.Duration
	pageSize   int64
}

func NewFactory(tokens remote.TokenProvider, calendarID string, window time.Duration, pageSize int64) *Factory {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &Factory{tokens: tokens, calendarID: calendarID, window: window, pageSize: pageSize}
}

func (f *Factory) ClientFor(ctx context.Context, owner uuid.UUID) (remote.Client[*calendar.Event], error) {
	ts, err := f.tokens.TokenSource(ctx, owner)
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, ts, f.calendarID, f.window, f.pageSize)
}
