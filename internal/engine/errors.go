package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/opencrafts-io/keepup/internal/common"
)

// InconsistentError reports a mutation whose remote half succeeded while
// the local half failed. Compensated records whether a compensating remote
// cleanup restored agreement between the two sides; when it is false the
// remote state differs from the local mirror until the next sync run
// repairs it.
type InconsistentError struct {
	Op              string
	Owner           uuid.UUID
	ExternalID      string
	Err             error
	Compensated     bool
	CompensationErr error
}

func (e *InconsistentError) Error() string {
	switch {
	case e.Compensated:
		return fmt.Sprintf("%s: owner %s record %s: local persist failed, remote change rolled back: %v",
			e.Op, e.Owner, e.ExternalID, e.Err)
	case e.CompensationErr != nil:
		return fmt.Sprintf("%s: owner %s record %s: local persist failed: %v (compensation also failed: %v)",
			e.Op, e.Owner, e.ExternalID, e.Err, e.CompensationErr)
	default:
		return fmt.Sprintf("%s: owner %s record %s: local persist failed after remote change: %v",
			e.Op, e.Owner, e.ExternalID, e.Err)
	}
}

func (e *InconsistentError) Unwrap() []error {
	errs := []error{common.ErrInconsistentState, e.Err}
	if e.CompensationErr != nil {
		errs = append(errs, e.CompensationErr)
	}
	return errs
}
