// Package googlecalendar implements the remote client and record mapper
// for the Google Calendar API (calendar/v3).
package googlecalendar

import (
	"context"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/opencrafts-io/keepup/internal/remote"
)

// DefaultCalendarID is the provider alias for the owner's primary calendar.
const DefaultCalendarID = "primary"

// Client wraps the calendar/v3 service for one owner's calendar. It
// implements remote.Client[*calendar.Event].
//
// Listing is bounded to a window around now on both sides; recurring
// events are expanded into single instances, and cancelled events are
// included so local mirrors can observe them.
type Client struct {
	svc        *calendar.Service
	calendarID string
	pageSize   int64

	// Listing bounds, fixed at construction so every page of one run
	// covers the same range.
	timeMin time.Time
	timeMax time.Time
}

// NewClient builds a Client from an owner-scoped token source.
func NewClient(ctx context.Context, ts oauth2.TokenSource, calendarID string, window time.Duration, pageSize int64) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, remote.WrapGoogleError("calendar.connect", err)
	}
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	now := time.Now().UTC()
	return &Client{
		svc:        svc,
		calendarID: calendarID,
		pageSize:   pageSize,
		timeMin:    now.Add(-window),
		timeMax:    now.Add(window),
	}, nil
}

// ListWindow reports the time range ListPage covers, implementing
// remote.Windowed.
func (c *Client) ListWindow() (time.Time, time.Time) {
	return c.timeMin, c.timeMax
}

func (c *Client) ListPage(ctx context.Context, pageToken string) ([]*calendar.Event, string, error) {
	call := c.svc.Events.List(c.calendarID).
		TimeMin(c.timeMin.Format(time.RFC3339)).
		TimeMax(c.timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		ShowDeleted(true).
		MaxResults(c.pageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, "", remote.WrapGoogleError("calendar.list", err)
	}
	return resp.Items, resp.NextPageToken, nil
}

func (c *Client) Get(ctx context.Context, id string) (*calendar.Event, error) {
	obj, err := c.svc.Events.Get(c.calendarID, id).Context(ctx).Do()
	if err != nil {
		return nil, remote.WrapGoogleError("calendar.get", err)
	}
	return obj, nil
}

func (c *Client) Insert(ctx context.Context, payload *calendar.Event) (*calendar.Event, error) {
	obj, err := c.svc.Events.Insert(c.calendarID, payload).Context(ctx).Do()
	if err != nil {
		return nil, remote.WrapGoogleError("calendar.insert", err)
	}
	return obj, nil
}

func (c *Client) Update(ctx context.Context, id string, payload *calendar.Event) (*calendar.Event, error) {
	obj, err := c.svc.Events.Update(c.calendarID, id, payload).Context(ctx).Do()
	if err != nil {
		return nil, remote.WrapGoogleError("calendar.update", err)
	}
	return obj, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.svc.Events.Delete(c.calendarID, id).Context(ctx).Do(); err != nil {
		return remote.WrapGoogleError("calendar.delete", err)
	}
	return nil
}
