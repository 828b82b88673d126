package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opencrafts-io/keepup/internal/common"
	"github.com/opencrafts-io/keepup/internal/record"
)

// MemoryStore is an in-memory Store used in tests and as a reference
// implementation of the store contract. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	kind record.Kind
	recs map[string]map[string]*record.Record // owner -> external id -> record
}

func NewMemoryStore(kind record.Kind) *MemoryStore {
	return &MemoryStore{
		kind: kind,
		recs: make(map[string]map[string]*record.Record),
	}
}

func (s *MemoryStore) Get(ctx context.Context, owner uuid.UUID, externalID string) (*record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recs[owner.String()][externalID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context, owner uuid.UUID, f Filter) ([]*record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*record.Record
	for _, rec := range s.recs[owner.String()] {
		if !matches(rec, f) {
			continue
		}
		cp := *rec
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		switch {
		case a.Start == nil && b.Start == nil:
			return a.ExternalID < b.ExternalID
		case a.Start == nil:
			return false
		case b.Start == nil:
			return true
		case a.Start.Equal(*b.Start):
			return a.ExternalID < b.ExternalID
		default:
			return a.Start.Before(*b.Start)
		}
	})
	return result, nil
}

func matches(rec *record.Record, f Filter) bool {
	if rec.Deleted && !f.IncludeDeleted {
		return false
	}
	if rec.Hidden && !f.IncludeHidden {
		return false
	}
	if f.Status != "" && rec.Status != f.Status {
		return false
	}
	if f.StartAfter != nil && (rec.Start == nil || rec.Start.Before(*f.StartAfter)) {
		return false
	}
	if f.EndBefore != nil && (rec.End == nil || rec.End.After(*f.EndBefore)) {
		return false
	}
	return true
}

func (s *MemoryStore) ActiveIDs(ctx context.Context, owner uuid.UUID, start, end *time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bounded := start != nil || end != nil

	var ids []string
	for id, rec := range s.recs[owner.String()] {
		if rec.Deleted {
			continue
		}
		if bounded {
			if rec.Start == nil {
				continue
			}
			if start != nil && rec.Start.Before(*start) {
				continue
			}
			if end != nil && rec.Start.After(*end) {
				continue
			}
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) Upsert(ctx context.Context, rec *record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner := rec.OwnerID.String()
	if s.recs[owner] == nil {
		s.recs[owner] = make(map[string]*record.Record)
	}
	cp := *rec
	s.recs[owner][rec.ExternalID] = &cp
	return nil
}

func (s *MemoryStore) MarkDeleted(ctx context.Context, owner uuid.UUID, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, id := range ids {
		if rec, ok := s.recs[owner.String()][id]; ok && !rec.Deleted {
			rec.Deleted = true
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Owners(ctx context.Context) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owners := make([]uuid.UUID, 0, len(s.recs))
	for owner, recs := range s.recs {
		if len(recs) == 0 {
			continue
		}
		id, err := uuid.Parse(owner)
		if err != nil {
			return nil, err
		}
		owners = append(owners, id)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i].String() < owners[j].String() })
	return owners, nil
}
