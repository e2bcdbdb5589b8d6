package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unlimited is the sentinel value meaning "no cap" on a capacity field.
const Unlimited = -1

// Default limits applied when a user has no active subscription. They match
// the Free plan so an account that somehow lost its subscription row degrades
// to the free tier instead of being locked out.
const (
	DefaultFreeMaxMembers        = 3
	DefaultFreeMaxInventoryItems = 50
)

// SubscriptionPlan is immutable reference data describing a purchasable tier.
// A capacity of Unlimited (-1) means the plan imposes no cap.
type SubscriptionPlan struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Currency          string          `json:"currency"`
	Period            string          `json:"period"`
	MaxMembers        int             `json:"maxMembers"`
	MaxInventoryItems int             `json:"maxInventoryItems"`
	Features          []string        `json:"features,omitempty"`
}

// IsFree reports whether the plan costs nothing.
func (p SubscriptionPlan) IsFree() bool {
	return p.Price.IsZero()
}

// IsUnlimited reports whether the plan caps neither members nor items.
func (p SubscriptionPlan) IsUnlimited() bool {
	return p.MaxMembers == Unlimited && p.MaxInventoryItems == Unlimited
}

// Subscription ties a user to a plan. At most one subscription per user is
// active at any time; the limits are denormalized from the plan at the moment
// of subscribing so later plan edits do not retroactively change entitlements.
type Subscription struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	PlanType          string     `json:"planType"`
	StartDate         time.Time  `json:"startDate"`
	EndDate           *time.Time `json:"endDate,omitempty"`
	MaxMembers        int        `json:"maxMembers"`
	MaxInventoryItems int        `json:"maxInventoryItems"`
	IsActive          bool       `json:"isActive"`
}

// IsExpired reports whether the subscription has an end date in the past.
func (s Subscription) IsExpired() bool {
	return s.EndDate != nil && s.EndDate.Before(time.Now())
}

// HasUnlimitedMembers reports whether the member cap is the Unlimited sentinel.
func (s Subscription) HasUnlimitedMembers() bool {
	return s.MaxMembers == Unlimited
}

// HasUnlimitedItems reports whether the item cap is the Unlimited sentinel.
func (s Subscription) HasUnlimitedItems() bool {
	return s.MaxInventoryItems == Unlimited
}

// Limits is the entitlement a user's active subscription grants.
type Limits struct {
	MaxMembers        int `json:"maxMembers"`
	MaxInventoryItems int `json:"maxInventoryItems"`
}

// DefaultFreeLimits is the implicit free tier used when no active
// subscription exists for a user.
func DefaultFreeLimits() Limits {
	return Limits{
		MaxMembers:        DefaultFreeMaxMembers,
		MaxInventoryItems: DefaultFreeMaxInventoryItems,
	}
}
