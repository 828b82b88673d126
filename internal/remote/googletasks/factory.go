package googletasks

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/api/tasks/v1"

	"github.com/opencrafts-io/keepup/internal/remote"
)

const defaultPageSize = 100

// Factory builds per-owner task clients from identity-provider tokens.
// It implements remote.Factory[*tasks.Task].
type Factory struct {
	tokens   remote.TokenProvider
	taskList string
	pageSize int64
}

func NewFactory(tokens remote.TokenProvider, taskList string, pageSize int64) *Factory {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Factory{tokens: tokens, taskList: taskList, pageSize: pageSize}
}

func (f *Factory) ClientFor(ctx context.Context, owner uuid.UUID) (remote.Client[*tasks.Task], error) {
	ts, err := f.tokens.TokenSource(ctx, owner)
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, ts, f.taskList, f.pageSize)
}
