package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"hoodreport/api/internal/report"
)

// reportsKey is the single blob the local cache lives under.
const reportsKey = "reports"

// LocalStore keeps at most one report per client identity. Saving a report
// for a client who already has one replaces it; the cache is a "latest visit
// per client" view, not a history.
type LocalStore struct {
	kv KV

	// One writer at a time; every save is a read-modify-write of the blob.
	mu sync.Mutex
}

func NewLocalStore(kv KV) *LocalStore {
	return &LocalStore{kv: kv}
}

// Save validates nothing; callers decide what is complete enough to keep.
func (s *LocalStore) Save(ctx context.Context, rec report.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}

	id := rec.Identity()
	kept := records[:0]
	for _, existing := range records {
		if !existing.Identity().Match(id) {
			kept = append(kept, existing)
		}
	}
	kept = append(kept, rec)

	return s.storeLocked(ctx, kept)
}

// LoadAll returns every cached report, tolerating legacy shapes in the blob.
func (s *LocalStore) LoadAll(ctx context.Context) ([]report.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// Delete removes the report for the given client identity. Deleting an
// identity that is not cached is not an error.
func (s *LocalStore) Delete(ctx context.Context, id report.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, existing := range records {
		if !existing.Identity().Match(id) {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return s.storeLocked(ctx, kept)
}

func (s *LocalStore) loadLocked(ctx context.Context) ([]report.Record, error) {
	raw, err := s.kv.Get(ctx, reportsKey)
	if err != nil {
		return nil, err
	}
	records, err := report.DecodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("load local reports: %w", err)
	}
	return records, nil
}

func (s *LocalStore) storeLocked(ctx context.Context, records []report.Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode local reports: %w", err)
	}
	return s.kv.Set(ctx, reportsKey, raw)
}
