/**
 * @description
 * SubscriptionStore resolves what a user is entitled to. Plans are immutable
 * reference data; subscriptions tie users to plans. Entitlement resolution
 * prefers the live plan named by the active subscription, falls back to the
 * limits denormalized onto the subscription row, and degrades to the implicit
 * free tier when the user has no active subscription at all.
 */
package client

import (
	"context"
	"strings"
	"time"

	"github.com/labstock/labstock-backend/internal/domain"
)

type subscriptionAPI interface {
	List(ctx context.Context) ([]domain.Subscription, error)
	Create(ctx context.Context, sub domain.Subscription) (domain.Subscription, error)
	Update(ctx context.Context, id string, sub domain.Subscription) (domain.Subscription, error)
}

type planAPI interface {
	List(ctx context.Context) ([]domain.SubscriptionPlan, error)
}

// SubscriptionStore caches plans and subscriptions and answers entitlement
// questions.
type SubscriptionStore struct {
	subs  subscriptionAPI
	plans planAPI

	planList []domain.SubscriptionPlan
	subList  []domain.Subscription
	errs     []error
	loaded   bool
}

// NewSubscriptionStore creates a SubscriptionStore over the subscriptions and
// plans endpoints.
func NewSubscriptionStore(subs subscriptionAPI, plans planAPI) *SubscriptionStore {
	return &SubscriptionStore{subs: subs, plans: plans}
}

// FetchPlans loads the plan catalog.
func (s *SubscriptionStore) FetchPlans(ctx context.Context) error {
	plans, err := s.plans.List(ctx)
	if err != nil {
		s.errs = append(s.errs, err)
		return err
	}
	s.planList = plans
	return nil
}

// FetchSubscriptions loads all subscriptions. A failed fetch still marks the
// store as loaded.
func (s *SubscriptionStore) FetchSubscriptions(ctx context.Context) error {
	subs, err := s.subs.List(ctx)
	if err != nil {
		s.errs = append(s.errs, err)
		s.loaded = true
		return err
	}
	s.subList = subs
	s.loaded = true
	return nil
}

// Plans returns the cached plan catalog.
func (s *SubscriptionStore) Plans() []domain.SubscriptionPlan {
	out := make([]domain.SubscriptionPlan, len(s.planList))
	copy(out, s.planList)
	return out
}

// PlanByName returns the plan with the given name, case-insensitively.
func (s *SubscriptionStore) PlanByName(name string) (domain.SubscriptionPlan, bool) {
	for _, p := range s.planList {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return domain.SubscriptionPlan{}, false
}

// ActiveSubscription returns the user's active, unexpired subscription.
func (s *SubscriptionStore) ActiveSubscription(userID string) (domain.Subscription, bool) {
	for _, sub := range s.subList {
		if sub.UserID == userID && sub.IsActive && !sub.IsExpired() {
			return sub, true
		}
	}
	return domain.Subscription{}, false
}

// ResolveLimits returns the entitlement for a user. Without an active
// subscription the implicit free tier applies.
func (s *SubscriptionStore) ResolveLimits(userID string) domain.Limits {
	sub, ok := s.ActiveSubscription(userID)
	if !ok {
		return domain.DefaultFreeLimits()
	}
	if plan, ok := s.PlanByName(sub.PlanType); ok {
		return domain.Limits{
			MaxMembers:        plan.MaxMembers,
			MaxInventoryItems: plan.MaxInventoryItems,
		}
	}
	// The plan catalog may be missing or renamed; the limits snapshotted on
	// the subscription row still describe what was bought.
	return domain.Limits{
		MaxMembers:        sub.MaxMembers,
		MaxInventoryItems: sub.MaxInventoryItems,
	}
}

// CanAddMember reports whether a laboratory with current members may accept
// one more under the given limits.
func CanAddMember(current int, limits domain.Limits) bool {
	return limits.MaxMembers == domain.Unlimited || current < limits.MaxMembers
}

// CanAddInventoryItem reports whether an inventory with current items may
// accept one more under the given limits.
func CanAddInventoryItem(current int, limits domain.Limits) bool {
	return limits.MaxInventoryItems == domain.Unlimited || current < limits.MaxInventoryItems
}

// ChangePlan moves the user onto the named plan. An existing subscription row
// is mutated in place so the user keeps a single row across plan changes; a
// user without one gets a fresh row. The store is only updated after the
// write is accepted.
func (s *SubscriptionStore) ChangePlan(ctx context.Context, userID, planName string) (*domain.Subscription, error) {
	plan, ok := s.PlanByName(planName)
	if !ok {
		return nil, ErrPlanNotFound
	}

	next := domain.Subscription{
		UserID:            userID,
		PlanType:          plan.Name,
		StartDate:         time.Now().UTC(),
		MaxMembers:        plan.MaxMembers,
		MaxInventoryItems: plan.MaxInventoryItems,
		IsActive:          true,
	}

	if existing, ok := s.ActiveSubscription(userID); ok {
		next.ID = existing.ID
		persisted, err := s.subs.Update(ctx, existing.ID, next)
		if err != nil {
			s.errs = append(s.errs, err)
			return nil, err
		}
		s.replace(persisted)
		return &persisted, nil
	}

	persisted, err := s.subs.Create(ctx, next)
	if err != nil {
		s.errs = append(s.errs, err)
		return nil, err
	}
	s.subList = append(s.subList, persisted)
	return &persisted, nil
}

// Loaded reports whether a subscriptions fetch has completed.
func (s *SubscriptionStore) Loaded() bool { return s.loaded }

// Errors returns the accumulated fetch/persist errors.
func (s *SubscriptionStore) Errors() []error { return s.errs }

func (s *SubscriptionStore) replace(sub domain.Subscription) {
	for i := range s.subList {
		if s.subList[i].ID == sub.ID {
			s.subList[i] = sub
			return
		}
	}
	s.subList = append(s.subList, sub)
}
