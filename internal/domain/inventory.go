package domain

// InventoryStatus is the lifecycle state of an inventory item. Transitions
// happen only through the inventory store operations, never by assigning the
// field directly.
type InventoryStatus string

const (
	StatusInStock  InventoryStatus = "in_stock"
	StatusReserved InventoryStatus = "reserved"
	StatusDepleted InventoryStatus = "depleted"
	StatusSold     InventoryStatus = "sold"
	StatusInUse    InventoryStatus = "in_use"
)

// InventoryItem represents a stock-tracked item owned by a laboratory.
type InventoryItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category,omitempty"`
	Quantity     int             `json:"quantity"`
	Status       InventoryStatus `json:"status"`
	Description  string          `json:"description,omitempty"`
	UserID       string          `json:"userId,omitempty"`
	LaboratoryID string          `json:"laboratoryId"`

	// Username is a client-side decoration resolved from the users
	// collection; it is not persisted with the item.
	Username string `json:"username,omitempty"`
}

// IsDepleted reports whether the item has no stock left.
func (i InventoryItem) IsDepleted() bool {
	return i.Quantity == 0
}
