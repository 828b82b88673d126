// Package googletasks implements the remote client and record mapper for
// the Google Tasks API (tasks/v1).
package googletasks

import (
	"context"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/tasks/v1"

	"github.com/opencrafts-io/keepup/internal/remote"
)

// DefaultTaskList is the provider alias for the owner's default task list.
const DefaultTaskList = "@default"

// Client wraps the tasks/v1 service for one owner's task list. It
// implements remote.Client[*tasks.Task].
type Client struct {
	svc      *tasks.Service
	taskList string
	pageSize int64
}

// NewClient builds a Client from an owner-scoped token source.
func NewClient(ctx context.Context, ts oauth2.TokenSource, taskList string, pageSize int64) (*Client, error) {
	svc, err := tasks.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, remote.WrapGoogleError("tasks.connect", err)
	}
	if taskList == "" {
		taskList = DefaultTaskList
	}
	return &Client{svc: svc, taskList: taskList, pageSize: pageSize}, nil
}

// ListPage fetches one page of the task list, completed and hidden tasks
// included so status transitions remain observable.
func (c *Client) ListPage(ctx context.Context, pageToken string) ([]*tasks.Task, string, error) {
	call := c.svc.Tasks.List(c.taskList).
		ShowCompleted(true).
		ShowHidden(true).
		MaxResults(c.pageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, "", remote.WrapGoogleError("tasks.list", err)
	}
	return resp.Items, resp.NextPageToken, nil
}

func (c *Client) Get(ctx context.Context, id string) (*tasks.Task, error) {
	obj, err := c.svc.Tasks.Get(c.taskList, id).Context(ctx).Do()
	if err != nil {
		return nil, remote.WrapGoogleError("tasks.get", err)
	}
	return obj, nil
}

func (c *Client) Insert(ctx context.Context, payload *tasks.Task) (*tasks.Task, error) {
	call := c.svc.Tasks.Insert(c.taskList, payload).Context(ctx)
	if payload.Parent != "" {
		call = call.Parent(payload.Parent)
	}

	obj, err := call.Do()
	if err != nil {
		return nil, remote.WrapGoogleError("tasks.insert", err)
	}
	return obj, nil
}

func (c *Client) Update(ctx context.Context, id string, payload *tasks.Task) (*tasks.Task, error) {
	obj, err := c.svc.Tasks.Update(c.taskList, id, payload).Context(ctx).Do()
	if err != nil {
		return nil, remote.WrapGoogleError("tasks.update", err)
	}
	return obj, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.svc.Tasks.Delete(c.taskList, id).Context(ctx).Do(); err != nil {
		return remote.WrapGoogleError("tasks.delete", err)
	}
	return nil
}
