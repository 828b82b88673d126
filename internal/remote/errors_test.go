package remote

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"github.com/opencrafts-io/keepup/internal/common"
)

func TestWrapGoogleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil passes through", nil, nil},
		{"404 maps to not found", &googleapi.Error{Code: 404}, common.ErrNotFound},
		{"410 maps to not found", &googleapi.Error{Code: 410}, common.ErrNotFound},
		{"401 maps to unauthorized", &googleapi.Error{Code: 401}, common.ErrUnauthorized},
		{"403 maps to unauthorized", &googleapi.Error{Code: 403}, common.ErrUnauthorized},
		{"500 maps to unavailable", &googleapi.Error{Code: 500}, common.ErrUnavailable},
		{"transport error maps to unavailable", errors.New("dial tcp: timeout"), common.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapGoogleError("tasks.list", tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
			assert.Contains(t, got.Error(), "tasks.list")
		})
	}
}
