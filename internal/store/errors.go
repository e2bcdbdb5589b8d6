package store

import "errors"

// Sentinel errors shared by the repositories. Handlers translate these into
// HTTP status codes instead of matching on driver errors.
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrDuplicateUser          = errors.New("username or email already exists")
	ErrItemNotFound           = errors.New("inventory item not found")
	ErrLaboratoryNotFound     = errors.New("laboratory not found")
	ErrLabResponsibleNotFound = errors.New("lab responsible not found")
	ErrSubscriptionNotFound   = errors.New("subscription not found")
	ErrPlanNotFound           = errors.New("subscription plan not found")
)
