package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opencrafts-io/keepup/internal/record"
	"github.com/opencrafts-io/keepup/internal/timex"
)

// Mutations are remote-first: the provider call happens before anything is
// written locally, and the local copy is always rebuilt from the provider's
// confirmed response rather than from the caller's input. A remote failure
// therefore leaves the local mirror untouched.

// Create creates a record remotely and mirrors the provider's confirmed
// copy into the local store. If the local write fails after the remote
// insert succeeded, the remote record is deleted again as compensation and
// an InconsistentError is returned either way.
func (s *Service[W]) Create(ctx context.Context, owner uuid.UUID, f record.Fields) (*record.Record, error) {
	f, err := f.Normalize()
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	payload, err := s.mapper.InsertPayload(f)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	client, err := s.clients.ClientFor(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	confirmed, err := client.Insert(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	rec, err := s.mapper.FromRemote(owner, confirmed)
	if err != nil {
		return nil, fmt.Errorf("create: map confirmed record: %w", err)
	}

	if err := s.store.Upsert(ctx, rec); err != nil {
		incErr := &InconsistentError{Op: "create", Owner: owner, ExternalID: rec.ExternalID, Err: err}
		if compErr := client.Delete(ctx, rec.ExternalID); compErr != nil {
			incErr.CompensationErr = compErr
			s.log.Error(ctx, "compensating remote delete failed",
				"owner", owner, "external_id", rec.ExternalID, "error", compErr)
		} else {
			incErr.Compensated = true
		}
		return nil, incErr
	}

	return rec, nil
}

// Update merges f over the locally stored record, replaces the remote copy,
// and mirrors the provider's confirmed response locally. Unknown records
// are common.ErrNotFound. A local persist failure after the remote update
// is an InconsistentError; the remote side keeps the new values and the
// next sync run reconciles the mirror.
func (s *Service[W]) Update(ctx context.Context, owner uuid.UUID, externalID string, f record.Fields) (*record.Record, error) {
	key := s.recordKey(owner, externalID)
	s.recordLocks.Lock(key)
	defer s.recordLocks.Unlock(key)

	f, err := f.Normalize()
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}

	current, err := s.store.Get(ctx, owner, externalID)
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}

	payload, err := s.mapper.UpdatePayload(current, f)
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}

	client, err := s.clients.ClientFor(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}

	confirmed, err := client.Update(ctx, externalID, payload)
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}

	rec, err := s.mapper.FromRemote(owner, confirmed)
	if err != nil {
		return nil, fmt.Errorf("update: map confirmed record: %w", err)
	}

	if err := s.store.Upsert(ctx, rec); err != nil {
		return nil, &InconsistentError{Op: "update", Owner: owner, ExternalID: externalID, Err: err}
	}

	return rec, nil
}

// ToggleComplete flips the record's completion state, judged from the
// locally stored status. The remote object is fetched fresh, mutated only
// in its completion fields and written back, then the confirmed response
// is mirrored locally. Collections without a completion concept return
// common.ErrValidation.
func (s *Service[W]) ToggleComplete(ctx context.Context, owner uuid.UUID, externalID string) (*record.Record, error) {
	key := s.recordKey(owner, externalID)
	s.recordLocks.Lock(key)
	defer s.recordLocks.Unlock(key)

	current, err := s.store.Get(ctx, owner, externalID)
	if err != nil {
		return nil, fmt.Errorf("toggle complete: %w", err)
	}
	completed := !current.Completed()

	client, err := s.clients.ClientFor(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("toggle complete: %w", err)
	}

	obj, err := client.Get(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("toggle complete: %w", err)
	}

	if err := s.mapper.SetCompletion(obj, completed, timex.Format(time.Now())); err != nil {
		return nil, fmt.Errorf("toggle complete: %w", err)
	}

	confirmed, err := client.Update(ctx, externalID, obj)
	if err != nil {
		return nil, fmt.Errorf("toggle complete: %w", err)
	}

	rec, err := s.mapper.FromRemote(owner, confirmed)
	if err != nil {
		return nil, fmt.Errorf("toggle complete: map confirmed record: %w", err)
	}

	if err := s.store.Upsert(ctx, rec); err != nil {
		return nil, &InconsistentError{Op: "toggle complete", Owner: owner, ExternalID: externalID, Err: err}
	}

	return rec, nil
}

// Delete removes the record remotely, then tombstones the local copy. If
// the remote delete fails, including when the record is already gone
// remotely, the local copy is left untouched and the error is returned;
// the next sync run tombstones records the remote no longer has.
func (s *Service[W]) Delete(ctx context.Context, owner uuid.UUID, externalID string) error {
	key := s.recordKey(owner, externalID)
	s.recordLocks.Lock(key)
	defer s.recordLocks.Unlock(key)

	if _, err := s.store.Get(ctx, owner, externalID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	client, err := s.clients.ClientFor(ctx, owner)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if err := client.Delete(ctx, externalID); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if _, err := s.store.MarkDeleted(ctx, owner, []string{externalID}); err != nil {
		return &InconsistentError{Op: "delete", Owner: owner, ExternalID: externalID, Err: err}
	}

	return nil
}
