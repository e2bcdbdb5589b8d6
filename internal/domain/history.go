package domain

import "time"

// HistoryAction names the business event a history entry records.
type HistoryAction string

const (
	ActionCreated  HistoryAction = "created"
	ActionUpdated  HistoryAction = "updated"
	ActionSold     HistoryAction = "sold"
	ActionUsed     HistoryAction = "used"
	ActionReturned HistoryAction = "returned"
	ActionDeleted  HistoryAction = "deleted"
)

// HistoryEntry is an immutable audit record of a single state-changing event
// on an inventory item. Entries are append-only: once recorded they are never
// updated or deleted.
//
// Quantity is the amount involved in this specific action. For the business
// event entries (sold/used/returned) that is the operation argument, not the
// item's resulting total.
type HistoryEntry struct {
	ID              string          `json:"id"`
	InventoryItemID string          `json:"inventoryItemId"`
	LaboratoryID    string          `json:"laboratoryId"`
	Action          HistoryAction   `json:"action"`
	PreviousStatus  InventoryStatus `json:"previousStatus,omitempty"`
	NewStatus       InventoryStatus `json:"newStatus,omitempty"`
	Quantity        int             `json:"quantity"`
	UserID          string          `json:"userId,omitempty"`
	Username        string          `json:"username,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
	Description     string          `json:"description,omitempty"`
}
