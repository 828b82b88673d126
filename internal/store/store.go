// Package store defines local persistence for mirrored records: the Store
// interface consumed by the sync engine plus PostgreSQL-backed and
// in-memory implementations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opencrafts-io/keepup/internal/record"
)

// Filter narrows List results. The zero value lists live, visible records.
type Filter struct {
	// IncludeDeleted includes tombstoned records.
	IncludeDeleted bool
	// IncludeHidden includes provider-hidden records.
	IncludeHidden bool
	// Status, when non-empty, restricts to records with that status.
	Status record.Status
	// StartAfter keeps records whose start time is at or after the bound.
	StartAfter *time.Time
	// EndBefore keeps records whose end time is at or before the bound.
	EndBefore *time.Time
}

// Store is keyed local storage for one record collection (kind). Records
// are addressed by (owner, external id); the external id is assigned by
// the remote provider.
type Store interface {
	// Get returns the record for (owner, externalID), including tombstoned
	// ones, or common.ErrNotFound.
	Get(ctx context.Context, owner uuid.UUID, externalID string) (*record.Record, error)

	// List returns the owner's records matching f, ordered by start time.
	List(ctx context.Context, owner uuid.UUID, f Filter) ([]*record.Record, error)

	// ActiveIDs returns the external ids of the owner's non-deleted
	// records. Non-nil bounds restrict the result to records whose start
	// time lies inside [start, end]; records without a start time are
	// excluded when any bound is set.
	ActiveIDs(ctx context.Context, owner uuid.UUID, start, end *time.Time) ([]string, error)

	// Upsert inserts rec or fully refreshes the stored copy from it.
	Upsert(ctx context.Context, rec *record.Record) error

	// MarkDeleted tombstones the given external ids for owner in a single
	// batched update and reports how many rows changed.
	MarkDeleted(ctx context.Context, owner uuid.UUID, ids []string) (int64, error)

	// Owners returns the distinct owner ids present in the store across
	// all collections.
	Owners(ctx context.Context) ([]uuid.UUID, error)
}
