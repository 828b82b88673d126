package remote

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/opencrafts-io/keepup/internal/common"
)

// WrapGoogleError maps a Google API call failure onto the shared error
// taxonomy, keeping the provider status code in the message for logging.
func WrapGoogleError(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound, http.StatusGone:
			return fmt.Errorf("%s: provider status %d: %w", op, apiErr.Code, common.ErrNotFound)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: provider status %d: %w", op, apiErr.Code, common.ErrUnauthorized)
		default:
			return fmt.Errorf("%s: provider status %d: %w", op, apiErr.Code, common.ErrUnavailable)
		}
	}

	return fmt.Errorf("%s: %v: %w", op, err, common.ErrUnavailable)
}
