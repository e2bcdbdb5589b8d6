package client

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/labstock/labstock-backend/internal/domain"
)

type stubInventoryAPI struct {
	items     []domain.InventoryItem
	listErr   error
	updateErr error

	creates []domain.InventoryItem
	updates []domain.InventoryItem
	deletes []string
	nextID  int
}

func (s *stubInventoryAPI) List(ctx context.Context) ([]domain.InventoryItem, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.items, nil
}

func (s *stubInventoryAPI) Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	s.nextID++
	item.ID = fmt.Sprintf("item-%d", s.nextID)
	s.creates = append(s.creates, item)
	return item, nil
}

func (s *stubInventoryAPI) Update(ctx context.Context, id string, item domain.InventoryItem) (domain.InventoryItem, error) {
	if s.updateErr != nil {
		return domain.InventoryItem{}, s.updateErr
	}
	item.ID = id
	s.updates = append(s.updates, item)
	return item, nil
}

func (s *stubInventoryAPI) Delete(ctx context.Context, id string) error {
	s.deletes = append(s.deletes, id)
	return nil
}

type stubRecorder struct {
	entries []domain.HistoryEntry
}

func (s *stubRecorder) Record(ctx context.Context, entry domain.HistoryEntry) (*domain.HistoryEntry, error) {
	s.entries = append(s.entries, entry)
	return &entry, nil
}

func newLoadedInventoryStore(t *testing.T, items []domain.InventoryItem) (*InventoryStore, *stubInventoryAPI, *stubRecorder) {
	t.Helper()
	api := &stubInventoryAPI{items: items}
	rec := &stubRecorder{}
	store := NewInventoryStore(api, rec, nil)
	if err := store.Fetch(context.Background(), ""); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	return store, api, rec
}

func TestSellReducesStockAndRecordsTrail(t *testing.T) {
	store, api, rec := newLoadedInventoryStore(t, []domain.InventoryItem{
		{ID: "item-1", Name: "Beaker", Quantity: 10, Status: domain.StatusInStock, LaboratoryID: "lab-1"},
	})

	got, err := store.Sell(context.Background(), "item-1", 4)
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if got.Quantity != 6 {
		t.Fatalf("expected quantity 6, got %d", got.Quantity)
	}
	if got.Status != domain.StatusInStock {
		t.Fatalf("expected status in_stock, got %s", got.Status)
	}
	if len(api.updates) != 1 {
		t.Fatalf("expected 1 persisted update, got %d", len(api.updates))
	}

	if len(rec.entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(rec.entries))
	}
	first, second := rec.entries[0], rec.entries[1]
	if first.Action != domain.ActionUpdated || first.Quantity != 6 || first.NewStatus != domain.StatusInStock {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if second.Action != domain.ActionSold || second.Quantity != 4 || second.NewStatus != domain.StatusSold {
		t.Fatalf("unexpected second entry: %+v", second)
	}
}

func TestSellToZeroMarksDepleted(t *testing.T) {
	store, _, rec := newLoadedInventoryStore(t, []domain.InventoryItem{
		{ID: "item-1", Name: "Gloves", Quantity: 5, Status: domain.StatusInStock, LaboratoryID: "lab-1"},
	})

	got, err := store.Sell(context.Background(), "item-1", 5)
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if got.Quantity != 0 || got.Status != domain.StatusDepleted {
		t.Fatalf("expected depleted at zero, got qty=%d status=%s", got.Quantity, got.Status)
	}
	if rec.entries[0].NewStatus != domain.StatusDepleted {
		t.Fatalf("expected updated entry to carry depleted, got %s", rec.entries[0].NewStatus)
	}
}

func TestSellValidation(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		wantErr  error
	}{
		{name: "zero quantity", quantity: 0, wantErr: ErrInvalidQuantity},
		{name: "negative quantity", quantity: -3, wantErr: ErrInvalidQuantity},
		{name: "more than stock", quantity: 6, wantErr: ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, api, rec := newLoadedInventoryStore(t, []domain.InventoryItem{
				{ID: "item-1", Quantity: 5, Status: domain.StatusInStock, LaboratoryID: "lab-1"},
			})

			_, err := store.Sell(context.Background(), "item-1", tt.quantity)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(api.updates) != 0 {
				t.Fatalf("rejected operation must not write, got %d updates", len(api.updates))
			}
			if len(rec.entries) != 0 {
				t.Fatalf("rejected operation must not record history, got %d entries", len(rec.entries))
			}
			if item, _ := store.GetItemByID("item-1"); item.Quantity != 5 {
				t.Fatalf("cache mutated on rejected operation: qty=%d", item.Quantity)
			}
		})
	}
}

func TestUseRecordsUsedEntry(t *testing.T) {
	store, _, rec := newLoadedInventoryStore(t, []domain.InventoryItem{
		{ID: "item-1", Quantity: 8, Status: domain.StatusInStock, LaboratoryID: "lab-1"},
	})

	got, err := store.Use(context.Background(), "item-1", 3)
	if err != nil {
		t.Fatalf("use failed: %v", err)
	}
	if got.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", got.Quantity)
	}
	second := rec.entries[1]
	if second.Action != domain.ActionUsed || second.Quantity != 3 || second.NewStatus != domain.StatusInUse {
		t.Fatalf("unexpected used entry: %+v", second)
	}
}

func TestReturnRevivesDepletedItem(t *testing.T) {
	store, _, rec := newLoadedInventoryStore(t, []domain.InventoryItem{
		{ID: "item-1", Quantity: 0, Status: domain.StatusDepleted, LaboratoryID: "lab-1"},
	})

	got, err := store.Return(context.Background(), "item-1", 3)
	if err != nil {
		t.Fatalf("return failed: %v", err)
	}
	if got.Quantity != 3 || got.Status != domain.StatusInStock {
		t.Fatalf("expected 3 in stock, got qty=%d status=%s", got.Quantity, got.Status)
	}

	if len(rec.entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(rec.entries))
	}
	first, second := rec.entries[0], rec.entries[1]
	if first.Action != domain.ActionUpdated || first.PreviousStatus != domain.StatusDepleted || first.NewStatus != domain.StatusInStock {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if second.Action != domain.ActionReturned || second.Quantity != 3 {
		t.Fatalf("unexpected second entry: %+v", second)
	}
}

func TestFailedPersistLeavesStateUntouched(t *testing.T) {
	store, api, rec := newLoadedInventoryStore(t, []domain.InventoryItem{
		{ID: "item-1", Quantity: 10, Status: domain.StatusInStock, LaboratoryID: "lab-1"},
	})
	api.updateErr = errors.New("store unavailable")

	_, err := store.Sell(context.Background(), "item-1", 4)
	if err == nil {
		t.Fatal("expected error from failed persist")
	}
	if item, _ := store.GetItemByID("item-1"); item.Quantity != 10 || item.Status != domain.StatusInStock {
		t.Fatalf("cache mutated after failed persist: %+v", item)
	}
	if len(rec.entries) != 0 {
		t.Fatalf("history recorded after failed persist: %d entries", len(rec.entries))
	}
	if len(store.Errors()) != 1 {
		t.Fatalf("expected 1 remembered error, got %d", len(store.Errors()))
	}
}

func TestAddItemDefaultsStatusAndRecordsCreation(t *testing.T) {
	store, _, rec := newLoadedInventoryStore(t, nil)

	got, err := store.AddItem(context.Background(), domain.InventoryItem{
		Name: "Pipette", Quantity: 6, LaboratoryID: "lab-1",
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if got.Status != domain.StatusInStock {
		t.Fatalf("expected defaulted status in_stock, got %s", got.Status)
	}
	if got.ID == "" {
		t.Fatal("expected server-assigned id")
	}
	if len(rec.entries) != 1 || rec.entries[0].Action != domain.ActionCreated {
		t.Fatalf("expected single created entry, got %+v", rec.entries)
	}
	if rec.entries[0].Quantity != 6 {
		t.Fatalf("expected creation entry quantity 6, got %d", rec.entries[0].Quantity)
	}
}

func TestUpdateItemDerivesStatusFromQuantity(t *testing.T) {
	tests := []struct {
		name       string
		current    domain.InventoryItem
		edit       domain.InventoryItem
		wantStatus domain.InventoryStatus
	}{
		{
			name:       "edited to zero becomes depleted",
			current:    domain.InventoryItem{ID: "item-1", Quantity: 4, Status: domain.StatusInStock, LaboratoryID: "lab-1"},
			edit:       domain.InventoryItem{ID: "item-1", Quantity: 0, Status: domain.StatusInStock, LaboratoryID: "lab-1"},
			wantStatus: domain.StatusDepleted,
		},
		{
			name:       "restocked depleted item returns to stock",
			current:    domain.InventoryItem{ID: "item-1", Quantity: 0, Status: domain.StatusDepleted, LaboratoryID: "lab-1"},
			edit:       domain.InventoryItem{ID: "item-1", Quantity: 7, Status: domain.StatusDepleted, LaboratoryID: "lab-1"},
			wantStatus: domain.StatusInStock,
		},
		{
			name:       "reserved status survives a quantity edit",
			current:    domain.InventoryItem{ID: "item-1", Quantity: 4, Status: domain.StatusReserved, LaboratoryID: "lab-1"},
			edit:       domain.InventoryItem{ID: "item-1", Quantity: 2, Status: domain.StatusReserved, LaboratoryID: "lab-1"},
			wantStatus: domain.StatusReserved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _, rec := newLoadedInventoryStore(t, []domain.InventoryItem{tt.current})

			got, err := store.UpdateItem(context.Background(), tt.edit)
			if err != nil {
				t.Fatalf("update failed: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Fatalf("expected status %s, got %s", tt.wantStatus, got.Status)
			}
			if len(rec.entries) != 1 || rec.entries[0].Action != domain.ActionUpdated {
				t.Fatalf("expected single updated entry, got %+v", rec.entries)
			}
			if rec.entries[0].PreviousStatus != tt.current.Status {
				t.Fatalf("expected previous status %s, got %s", tt.current.Status, rec.entries[0].PreviousStatus)
			}
		})
	}
}

func TestDeleteItemRecordsFinalState(t *testing.T) {
	store, api, rec := newLoadedInventoryStore(t, []domain.InventoryItem{
		{ID: "item-1", Name: "Flask", Quantity: 2, Status: domain.StatusReserved, LaboratoryID: "lab-1"},
	})

	if err := store.DeleteItem(context.Background(), "item-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if store.Count() != 0 {
		t.Fatalf("expected empty cache, got %d items", store.Count())
	}
	if len(api.deletes) != 1 || api.deletes[0] != "item-1" {
		t.Fatalf("expected delete call for item-1, got %v", api.deletes)
	}

	if len(rec.entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(rec.entries))
	}
	entry := rec.entries[0]
	if entry.Action != domain.ActionDeleted || entry.PreviousStatus != domain.StatusReserved || entry.Quantity != 2 {
		t.Fatalf("unexpected deletion entry: %+v", entry)
	}
}

func TestOperationsOnUnknownItem(t *testing.T) {
	store, _, _ := newLoadedInventoryStore(t, nil)

	if _, err := store.Sell(context.Background(), "missing", 1); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound from sell, got %v", err)
	}
	if _, err := store.Return(context.Background(), "missing", 1); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound from return, got %v", err)
	}
	if err := store.DeleteItem(context.Background(), "missing"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound from delete, got %v", err)
	}
}

func TestFetchFiltersByLaboratory(t *testing.T) {
	api := &stubInventoryAPI{items: []domain.InventoryItem{
		{ID: "item-1", LaboratoryID: "lab-1", Quantity: 1, Status: domain.StatusInStock},
		{ID: "item-2", LaboratoryID: "lab-2", Quantity: 1, Status: domain.StatusInStock},
		{ID: "item-3", LaboratoryID: "lab-1", Quantity: 1, Status: domain.StatusInStock},
	}}
	scoped := NewInventoryStore(api, nil, nil)
	if err := scoped.Fetch(context.Background(), "lab-1"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if scoped.Count() != 2 {
		t.Fatalf("expected 2 items for lab-1, got %d", scoped.Count())
	}
	if _, ok := scoped.GetItemByID("item-2"); ok {
		t.Fatal("item from another laboratory leaked through the filter")
	}
}

type staticUsernames map[string]string

func (m staticUsernames) UsernameByID(id string) string { return m[id] }

func TestFetchDecoratesUsernames(t *testing.T) {
	api := &stubInventoryAPI{items: []domain.InventoryItem{
		{ID: "item-1", UserID: "user-1", Quantity: 1, Status: domain.StatusInStock, LaboratoryID: "lab-1"},
		{ID: "item-2", UserID: "user-ghost", Quantity: 1, Status: domain.StatusInStock, LaboratoryID: "lab-1"},
		{ID: "item-3", Quantity: 1, Status: domain.StatusInStock, LaboratoryID: "lab-1"},
	}}
	store := NewInventoryStore(api, nil, staticUsernames{"user-1": "carlos"})
	if err := store.Fetch(context.Background(), ""); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	item, _ := store.GetItemByID("item-1")
	if item.Username != "carlos" {
		t.Fatalf("expected resolved username, got %q", item.Username)
	}
	ghost, _ := store.GetItemByID("item-2")
	if ghost.Username != "Unassigned" {
		t.Fatalf("expected fallback for unknown user, got %q", ghost.Username)
	}
	bare, _ := store.GetItemByID("item-3")
	if bare.Username != "" {
		t.Fatalf("expected no decoration without an owner, got %q", bare.Username)
	}
}

func TestFetchFailureStillMarksLoaded(t *testing.T) {
	api := &stubInventoryAPI{listErr: errors.New("store unavailable")}
	store := NewInventoryStore(api, nil, nil)

	if err := store.Fetch(context.Background(), ""); err == nil {
		t.Fatal("expected fetch error")
	}
	if !store.Loaded() {
		t.Fatal("failed fetch must still mark the store loaded")
	}
	if len(store.Errors()) != 1 {
		t.Fatalf("expected 1 remembered error, got %d", len(store.Errors()))
	}
}
