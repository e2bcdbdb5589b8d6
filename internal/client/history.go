/**
 * @description
 * HistoryStore records and queries the append-only movement log of the
 * inventory. Entries are only ever created; there is no update or delete
 * path, so the log stays a faithful audit trail.
 */
package client

import (
	"context"
	"sort"
	"time"

	"github.com/labstock/labstock-backend/internal/domain"
)

type historyAPI interface {
	List(ctx context.Context) ([]domain.HistoryEntry, error)
	Create(ctx context.Context, entry domain.HistoryEntry) (domain.HistoryEntry, error)
}

// HistoryStore caches history entries and appends new ones on behalf of the
// session's user.
type HistoryStore struct {
	api      historyAPI
	identity Identity

	entries []domain.HistoryEntry
	errs    []error
	loaded  bool
}

// NewHistoryStore creates a HistoryStore. identity may be nil for read-only
// use; Record then leaves the actor fields empty.
func NewHistoryStore(api historyAPI, identity Identity) *HistoryStore {
	return &HistoryStore{api: api, identity: identity}
}

// Fetch loads the full log. A failed fetch is remembered in Errors but still
// marks the store as loaded, so the UI can render an empty log instead of
// spinning forever.
func (s *HistoryStore) Fetch(ctx context.Context) error {
	entries, err := s.api.List(ctx)
	if err != nil {
		s.errs = append(s.errs, err)
		s.loaded = true
		return err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	s.entries = entries
	s.loaded = true
	return nil
}

// Record appends an entry to the log. The timestamp is stamped at call time
// when unset, and the acting user is stamped from the session when one is
// signed in. Persistence happens before the cache is touched.
func (s *HistoryStore) Record(ctx context.Context, entry domain.HistoryEntry) (*domain.HistoryEntry, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if s.identity != nil {
		if user := s.identity.CurrentUser(); user != nil {
			entry.UserID = user.ID
			entry.Username = user.Username
		}
	}

	created, err := s.api.Create(ctx, entry)
	if err != nil {
		s.errs = append(s.errs, err)
		return nil, err
	}
	s.entries = append(s.entries, created)
	return &created, nil
}

// Entries returns the cached log in chronological order.
func (s *HistoryStore) Entries() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ByLaboratory returns the entries scoped to one laboratory.
func (s *HistoryStore) ByLaboratory(laboratoryID string) []domain.HistoryEntry {
	var out []domain.HistoryEntry
	for _, e := range s.entries {
		if e.LaboratoryID == laboratoryID {
			out = append(out, e)
		}
	}
	return out
}

// ByItem returns the entries for one inventory item.
func (s *HistoryStore) ByItem(inventoryItemID string) []domain.HistoryEntry {
	var out []domain.HistoryEntry
	for _, e := range s.entries {
		if e.InventoryItemID == inventoryItemID {
			out = append(out, e)
		}
	}
	return out
}

// Loaded reports whether a fetch has completed, successfully or not.
func (s *HistoryStore) Loaded() bool { return s.loaded }

// Errors returns the accumulated fetch/persist errors.
func (s *HistoryStore) Errors() []error { return s.errs }
