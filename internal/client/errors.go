package client

import "errors"

// Sentinel errors surfaced by the client stores.
var (
	// ErrNotSignedIn is returned by operations that need an acting user
	// while the session is anonymous.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrUnauthorized is returned when a non-admin attempts a laboratory
	// mutation. The rejection happens before any network call.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrItemNotFound is returned when an inventory item id has no match in
	// the loaded set.
	ErrItemNotFound = errors.New("inventory item not found")
	// ErrLaboratoryNotFound is returned when a laboratory id has no match in
	// the loaded set.
	ErrLaboratoryNotFound = errors.New("laboratory not found")
	// ErrPlanNotFound is returned when a plan name does not exist in the
	// catalog.
	ErrPlanNotFound = errors.New("subscription plan not found")
	// ErrInvalidQuantity is returned when an operation quantity is not a
	// positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrInsufficientStock is returned when a sell/use quantity exceeds the
	// item's current stock.
	ErrInsufficientStock = errors.New("quantity exceeds available stock")
)
