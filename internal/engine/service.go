// Package engine implements the sync engine: full reconciliation of a
// remote record collection into the local store, and remote-first routing
// of local mutations back to the provider.
//
// One Service instance handles one collection kind. The engine is generic
// over the provider wire type W; all provider knowledge lives in the
// remote.Client and remote.Mapper it is built with.
package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencrafts-io/keepup/internal/logging"
	"github.com/opencrafts-io/keepup/internal/record"
	"github.com/opencrafts-io/keepup/internal/remote"
	"github.com/opencrafts-io/keepup/internal/store"
	"github.com/opencrafts-io/keepup/internal/syncx"
)

// Service reconciles and mutates one record collection for any number of
// owners. Sync runs are serialized per owner and mutations are serialized
// per record; see Sync and the mutation methods.
type Service[W any] struct {
	kind    record.Kind
	clients remote.Factory[W]
	mapper  remote.Mapper[W]
	store   store.Store
	log     logging.Logger

	syncLocks   *syncx.KeyedMutex
	recordLocks *syncx.KeyedMutex
}

func New[W any](kind record.Kind, clients remote.Factory[W], mapper remote.Mapper[W], st store.Store, log logging.Logger) *Service[W] {
	return &Service[W]{
		kind:        kind,
		clients:     clients,
		mapper:      mapper,
		store:       st,
		log:         log.With("kind", string(kind)),
		syncLocks:   syncx.NewKeyedMutex(),
		recordLocks: syncx.NewKeyedMutex(),
	}
}

// Kind returns the record kind this service manages.
func (s *Service[W]) Kind() record.Kind { return s.kind }

// Get returns one locally stored record, tombstoned or not.
func (s *Service[W]) Get(ctx context.Context, owner uuid.UUID, externalID string) (*record.Record, error) {
	return s.store.Get(ctx, owner, externalID)
}

// List returns the owner's locally stored records matching f. It reads the
// local mirror only; call Sync first for a fresh view.
func (s *Service[W]) List(ctx context.Context, owner uuid.UUID, f store.Filter) ([]*record.Record, error) {
	return s.store.List(ctx, owner, f)
}

// Owners returns every owner id present in the local store.
func (s *Service[W]) Owners(ctx context.Context) ([]uuid.UUID, error) {
	return s.store.Owners(ctx)
}

func (s *Service[W]) recordKey(owner uuid.UUID, externalID string) string {
	return owner.String() + "/" + externalID
}
