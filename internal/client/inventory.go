/**
 * @description
 * InventoryStore is the write path for laboratory stock. Every mutation goes
 * through here so that quantity arithmetic, status derivation and history
 * recording stay consistent: create, update and delete record one entry each,
 * while the business movements (sell, use, return) record two.
 *
 * Persistence is snapshot-based: the next state is computed on a copy, sent
 * to the store, and only applied to the local cache when the store accepted
 * it. A failed write leaves both the cache and the history log untouched.
 */
package client

import (
	"context"
	"fmt"

	"github.com/labstock/labstock-backend/internal/domain"
)

type inventoryAPI interface {
	List(ctx context.Context) ([]domain.InventoryItem, error)
	Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error)
	Update(ctx context.Context, id string, item domain.InventoryItem) (domain.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}

// Recorder appends an entry to the movement log. Implemented by HistoryStore.
type Recorder interface {
	Record(ctx context.Context, entry domain.HistoryEntry) (*domain.HistoryEntry, error)
}

// InventoryStore caches inventory items and applies lifecycle operations.
type InventoryStore struct {
	api       inventoryAPI
	recorder  Recorder
	usernames UsernameResolver

	items  []domain.InventoryItem
	errs   []error
	loaded bool
}

// NewInventoryStore creates an InventoryStore. recorder and usernames may be
// nil; history recording and username decoration are then skipped.
func NewInventoryStore(api inventoryAPI, recorder Recorder, usernames UsernameResolver) *InventoryStore {
	return &InventoryStore{api: api, recorder: recorder, usernames: usernames}
}

// Fetch loads the inventory, optionally scoped to one laboratory. A failed
// fetch still marks the store as loaded so callers can distinguish "empty"
// from "never asked".
func (s *InventoryStore) Fetch(ctx context.Context, laboratoryID string) error {
	items, err := s.api.List(ctx)
	if err != nil {
		s.errs = append(s.errs, err)
		s.loaded = true
		return err
	}
	filtered := items[:0:0]
	for _, item := range items {
		if laboratoryID != "" && item.LaboratoryID != laboratoryID {
			continue
		}
		filtered = append(filtered, s.decorate(item))
	}
	s.items = filtered
	s.loaded = true
	return nil
}

// AddItem creates an item and records its creation. A missing status is
// derived from the quantity.
func (s *InventoryStore) AddItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if item.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if item.Status == "" {
		item.Status = statusForQuantity(item.Quantity, domain.StatusInStock)
	}

	created, err := s.api.Create(ctx, item)
	if err != nil {
		s.errs = append(s.errs, err)
		return nil, err
	}
	created = s.decorate(created)
	s.items = append(s.items, created)

	s.record(ctx, domain.HistoryEntry{
		InventoryItemID: created.ID,
		LaboratoryID:    created.LaboratoryID,
		Action:          domain.ActionCreated,
		NewStatus:       created.Status,
		Quantity:        created.Quantity,
		Description:     created.Name,
	})
	return &created, nil
}

// UpdateItem persists field edits to an existing item and records the update.
// The status is re-derived from the quantity so an item edited to zero stock
// becomes depleted and a restocked depleted item returns to stock.
func (s *InventoryStore) UpdateItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if item.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	idx := s.indexOf(item.ID)
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	prev := s.items[idx]
	item.Status = statusForQuantity(item.Quantity, item.Status)
	if prev.Status == domain.StatusDepleted && item.Quantity > 0 {
		item.Status = domain.StatusInStock
	}

	updated, err := s.api.Update(ctx, item.ID, item)
	if err != nil {
		s.errs = append(s.errs, err)
		return nil, err
	}
	updated = s.decorate(updated)
	s.items[idx] = updated

	s.record(ctx, domain.HistoryEntry{
		InventoryItemID: updated.ID,
		LaboratoryID:    updated.LaboratoryID,
		Action:          domain.ActionUpdated,
		PreviousStatus:  prev.Status,
		NewStatus:       updated.Status,
		Quantity:        updated.Quantity,
		Description:     updated.Name,
	})
	return &updated, nil
}

// DeleteItem removes an item and records its final state in the log, which is
// the only place the item remains visible afterwards.
func (s *InventoryStore) DeleteItem(ctx context.Context, id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	item := s.items[idx]

	if err := s.api.Delete(ctx, id); err != nil {
		s.errs = append(s.errs, err)
		return err
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)

	s.record(ctx, domain.HistoryEntry{
		InventoryItemID: item.ID,
		LaboratoryID:    item.LaboratoryID,
		Action:          domain.ActionDeleted,
		PreviousStatus:  item.Status,
		Quantity:        item.Quantity,
		Description:     item.Name,
	})
	return nil
}

// Sell removes quantity units of stock as sold.
func (s *InventoryStore) Sell(ctx context.Context, id string, quantity int) (*domain.InventoryItem, error) {
	return s.consume(ctx, id, quantity, domain.ActionSold, domain.StatusSold)
}

// Use removes quantity units of stock as consumed in the laboratory.
func (s *InventoryStore) Use(ctx context.Context, id string, quantity int) (*domain.InventoryItem, error) {
	return s.consume(ctx, id, quantity, domain.ActionUsed, domain.StatusInUse)
}

// consume is the shared sell/use path: decrement stock, mark the item
// depleted when it hits zero, and record the update plus the movement.
func (s *InventoryStore) consume(ctx context.Context, id string, quantity int, action domain.HistoryAction, movementStatus domain.InventoryStatus) (*domain.InventoryItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	prev := s.items[idx]
	if quantity > prev.Quantity {
		return nil, fmt.Errorf("%w: have %d, requested %d", ErrInsufficientStock, prev.Quantity, quantity)
	}

	next := prev
	next.Quantity -= quantity
	next.Status = statusForQuantity(next.Quantity, prev.Status)

	persisted, err := s.api.Update(ctx, id, next)
	if err != nil {
		s.errs = append(s.errs, err)
		return nil, err
	}
	persisted = s.decorate(persisted)
	s.items[idx] = persisted

	s.recordMovement(ctx, prev, persisted, action, movementStatus, quantity)
	return &persisted, nil
}

// Return puts quantity units back into stock, reviving a depleted item.
func (s *InventoryStore) Return(ctx context.Context, id string, quantity int) (*domain.InventoryItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	prev := s.items[idx]

	next := prev
	next.Quantity += quantity
	if prev.Status == domain.StatusDepleted {
		next.Status = domain.StatusInStock
	}

	persisted, err := s.api.Update(ctx, id, next)
	if err != nil {
		s.errs = append(s.errs, err)
		return nil, err
	}
	persisted = s.decorate(persisted)
	s.items[idx] = persisted

	s.recordMovement(ctx, prev, persisted, domain.ActionReturned, domain.StatusInStock, quantity)
	return &persisted, nil
}

// recordMovement writes the two-entry trail of a business movement: first the
// state transition with the resulting total, then the movement itself with
// the operation quantity.
func (s *InventoryStore) recordMovement(ctx context.Context, prev, persisted domain.InventoryItem, action domain.HistoryAction, movementStatus domain.InventoryStatus, quantity int) {
	s.record(ctx, domain.HistoryEntry{
		InventoryItemID: persisted.ID,
		LaboratoryID:    persisted.LaboratoryID,
		Action:          domain.ActionUpdated,
		PreviousStatus:  prev.Status,
		NewStatus:       persisted.Status,
		Quantity:        persisted.Quantity,
		Description:     persisted.Name,
	})
	s.record(ctx, domain.HistoryEntry{
		InventoryItemID: persisted.ID,
		LaboratoryID:    persisted.LaboratoryID,
		Action:          action,
		PreviousStatus:  prev.Status,
		NewStatus:       movementStatus,
		Quantity:        quantity,
		Description:     persisted.Name,
	})
}

// GetItemByID returns the cached item with the given id.
func (s *InventoryStore) GetItemByID(id string) (domain.InventoryItem, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.InventoryItem{}, false
	}
	return s.items[idx], true
}

// Items returns a copy of the cached inventory.
func (s *InventoryStore) Items() []domain.InventoryItem {
	out := make([]domain.InventoryItem, len(s.items))
	copy(out, s.items)
	return out
}

// ItemsByStatus returns the cached items in the given status.
func (s *InventoryStore) ItemsByStatus(status domain.InventoryStatus) []domain.InventoryItem {
	var out []domain.InventoryItem
	for _, item := range s.items {
		if item.Status == status {
			out = append(out, item)
		}
	}
	return out
}

// Count returns the number of cached items.
func (s *InventoryStore) Count() int { return len(s.items) }

// Loaded reports whether a fetch has completed, successfully or not.
func (s *InventoryStore) Loaded() bool { return s.loaded }

// Errors returns the accumulated fetch/persist errors.
func (s *InventoryStore) Errors() []error { return s.errs }

func (s *InventoryStore) indexOf(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// record appends to the movement log, best effort. The recorder keeps its own
// error trail; a failed append never rolls back an accepted write.
func (s *InventoryStore) record(ctx context.Context, entry domain.HistoryEntry) {
	if s.recorder == nil {
		return
	}
	_, _ = s.recorder.Record(ctx, entry)
}

func (s *InventoryStore) decorate(item domain.InventoryItem) domain.InventoryItem {
	if s.usernames == nil || item.UserID == "" {
		return item
	}
	if name := s.usernames.UsernameByID(item.UserID); name != "" {
		item.Username = name
	} else {
		item.Username = "Unassigned"
	}
	return item
}

// statusForQuantity derives the stock status from a quantity, keeping the
// current status when stock remains.
func statusForQuantity(quantity int, current domain.InventoryStatus) domain.InventoryStatus {
	if quantity == 0 {
		return domain.StatusDepleted
	}
	if current == "" || current == domain.StatusDepleted {
		return domain.StatusInStock
	}
	return current
}
