package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opencrafts-io/keepup/internal/remote"
)

// SyncResult summarizes one reconciliation run.
type SyncResult struct {
	// Upserted counts remote records written to the local store.
	Upserted int
	// Skipped counts remote records dropped because they failed mapping.
	Skipped int
	// Tombstoned counts local records marked deleted because the remote
	// collection no longer contains them.
	Tombstoned int64
}

// Sync performs a full reconciliation of the owner's remote collection into
// the local store: every remote record is fetched page by page and
// upserted, then local active records absent from the remote set are
// tombstoned in one batched update.
//
// A page fetch failure aborts the run before the tombstone phase, so a
// partial listing can never be mistaken for deletions. Runs for the same
// owner are serialized; concurrent callers block until the running sync
// finishes. Sync is idempotent: repeating it against an unchanged remote
// collection changes nothing.
func (s *Service[W]) Sync(ctx context.Context, owner uuid.UUID) (SyncResult, error) {
	s.syncLocks.Lock(owner.String())
	defer s.syncLocks.Unlock(owner.String())

	var res SyncResult

	client, err := s.clients.ClientFor(ctx, owner)
	if err != nil {
		return res, fmt.Errorf("sync: %w", err)
	}

	seen := make(map[string]struct{})

	pageToken := ""
	for {
		items, nextToken, err := client.ListPage(ctx, pageToken)
		if err != nil {
			return res, fmt.Errorf("sync: list page: %w", err)
		}

		for _, item := range items {
			rec, err := s.mapper.FromRemote(owner, item)
			if err != nil {
				res.Skipped++
				s.log.Warn(ctx, "skipping unmappable remote record", "owner", owner, "error", err)
				continue
			}
			seen[rec.ExternalID] = struct{}{}

			if err := s.store.Upsert(ctx, rec); err != nil {
				return res, fmt.Errorf("sync: upsert %s: %w", rec.ExternalID, err)
			}
			res.Upserted++
		}

		if nextToken == "" {
			break
		}
		pageToken = nextToken
	}

	// A bounded listing only proves absence inside its window; records
	// starting outside it must never become tombstone candidates.
	var windowStart, windowEnd *time.Time
	if w, ok := any(client).(remote.Windowed); ok {
		start, end := w.ListWindow()
		windowStart, windowEnd = &start, &end
	}

	active, err := s.store.ActiveIDs(ctx, owner, windowStart, windowEnd)
	if err != nil {
		return res, fmt.Errorf("sync: active ids: %w", err)
	}

	var missing []string
	for _, id := range active {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		res.Tombstoned, err = s.store.MarkDeleted(ctx, owner, missing)
		if err != nil {
			return res, fmt.Errorf("sync: tombstone: %w", err)
		}
	}

	s.log.Info(ctx, "sync finished", "owner", owner,
		"upserted", res.Upserted, "skipped", res.Skipped, "tombstoned", res.Tombstoned)
	return res, nil
}
