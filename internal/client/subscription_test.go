package client

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/labstock/labstock-backend/internal/domain"
)

type stubSubscriptionAPI struct {
	subs      []domain.Subscription
	createErr error
	updateErr error

	creates []domain.Subscription
	updates []domain.Subscription
	nextID  int
}

func (s *stubSubscriptionAPI) List(ctx context.Context) ([]domain.Subscription, error) {
	return s.subs, nil
}

func (s *stubSubscriptionAPI) Create(ctx context.Context, sub domain.Subscription) (domain.Subscription, error) {
	if s.createErr != nil {
		return domain.Subscription{}, s.createErr
	}
	s.nextID++
	sub.ID = fmt.Sprintf("sub-%d", s.nextID)
	s.creates = append(s.creates, sub)
	return sub, nil
}

func (s *stubSubscriptionAPI) Update(ctx context.Context, id string, sub domain.Subscription) (domain.Subscription, error) {
	if s.updateErr != nil {
		return domain.Subscription{}, s.updateErr
	}
	sub.ID = id
	s.updates = append(s.updates, sub)
	return sub, nil
}

type stubPlanAPI struct {
	plans []domain.SubscriptionPlan
}

func (s *stubPlanAPI) List(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	return s.plans, nil
}

func demoPlans() []domain.SubscriptionPlan {
	return []domain.SubscriptionPlan{
		{ID: "plan-1", Name: "Free", MaxMembers: 3, MaxInventoryItems: 50},
		{ID: "plan-2", Name: "Standard", MaxMembers: 10, MaxInventoryItems: 500},
		{ID: "plan-3", Name: "Premium", MaxMembers: domain.Unlimited, MaxInventoryItems: domain.Unlimited},
	}
}

func newLoadedSubscriptionStore(t *testing.T, subs []domain.Subscription) (*SubscriptionStore, *stubSubscriptionAPI) {
	t.Helper()
	api := &stubSubscriptionAPI{subs: subs}
	store := NewSubscriptionStore(api, &stubPlanAPI{plans: demoPlans()})
	if err := store.FetchPlans(context.Background()); err != nil {
		t.Fatalf("fetch plans failed: %v", err)
	}
	if err := store.FetchSubscriptions(context.Background()); err != nil {
		t.Fatalf("fetch subscriptions failed: %v", err)
	}
	return store, api
}

func TestResolveLimits(t *testing.T) {
	expired := time.Now().Add(-24 * time.Hour)

	tests := []struct {
		name string
		subs []domain.Subscription
		want domain.Limits
	}{
		{
			name: "no subscription falls back to free tier",
			subs: nil,
			want: domain.DefaultFreeLimits(),
		},
		{
			name: "active subscription resolves through plan catalog",
			subs: []domain.Subscription{
				{ID: "sub-1", UserID: "user-1", PlanType: "Standard", IsActive: true, MaxMembers: 10, MaxInventoryItems: 500},
			},
			want: domain.Limits{MaxMembers: 10, MaxInventoryItems: 500},
		},
		{
			name: "unknown plan falls back to snapshotted limits",
			subs: []domain.Subscription{
				{ID: "sub-1", UserID: "user-1", PlanType: "Legacy", IsActive: true, MaxMembers: 7, MaxInventoryItems: 70},
			},
			want: domain.Limits{MaxMembers: 7, MaxInventoryItems: 70},
		},
		{
			name: "inactive subscription is ignored",
			subs: []domain.Subscription{
				{ID: "sub-1", UserID: "user-1", PlanType: "Premium", IsActive: false},
			},
			want: domain.DefaultFreeLimits(),
		},
		{
			name: "expired subscription is ignored",
			subs: []domain.Subscription{
				{ID: "sub-1", UserID: "user-1", PlanType: "Premium", IsActive: true, EndDate: &expired},
			},
			want: domain.DefaultFreeLimits(),
		},
		{
			name: "unlimited plan carries the sentinel through",
			subs: []domain.Subscription{
				{ID: "sub-1", UserID: "user-1", PlanType: "Premium", IsActive: true},
			},
			want: domain.Limits{MaxMembers: domain.Unlimited, MaxInventoryItems: domain.Unlimited},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newLoadedSubscriptionStore(t, tt.subs)
			if got := store.ResolveLimits("user-1"); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestCapacityChecks(t *testing.T) {
	tests := []struct {
		name    string
		current int
		limits  domain.Limits
		member  bool
		item    bool
	}{
		{name: "under both caps", current: 2, limits: domain.Limits{MaxMembers: 3, MaxInventoryItems: 3}, member: true, item: true},
		{name: "at cap", current: 3, limits: domain.Limits{MaxMembers: 3, MaxInventoryItems: 3}, member: false, item: false},
		{name: "over cap", current: 4, limits: domain.Limits{MaxMembers: 3, MaxInventoryItems: 3}, member: false, item: false},
		{name: "unlimited never caps", current: 100000, limits: domain.Limits{MaxMembers: domain.Unlimited, MaxInventoryItems: domain.Unlimited}, member: true, item: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAddMember(tt.current, tt.limits); got != tt.member {
				t.Fatalf("CanAddMember(%d, %+v) = %v, want %v", tt.current, tt.limits, got, tt.member)
			}
			if got := CanAddInventoryItem(tt.current, tt.limits); got != tt.item {
				t.Fatalf("CanAddInventoryItem(%d, %+v) = %v, want %v", tt.current, tt.limits, got, tt.item)
			}
		})
	}
}

func TestChangePlanMutatesExistingRowInPlace(t *testing.T) {
	store, api := newLoadedSubscriptionStore(t, []domain.Subscription{
		{ID: "sub-1", UserID: "user-1", PlanType: "Free", IsActive: true, MaxMembers: 3, MaxInventoryItems: 50},
	})

	got, err := store.ChangePlan(context.Background(), "user-1", "Premium")
	if err != nil {
		t.Fatalf("change plan failed: %v", err)
	}
	if got.ID != "sub-1" {
		t.Fatalf("expected the existing row to be reused, got id %s", got.ID)
	}
	if got.PlanType != "Premium" || got.MaxMembers != domain.Unlimited {
		t.Fatalf("expected premium entitlements, got %+v", got)
	}
	if len(api.creates) != 0 {
		t.Fatalf("plan change must not create a second row, got %d creates", len(api.creates))
	}
	if len(api.updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(api.updates))
	}

	sub, ok := store.ActiveSubscription("user-1")
	if !ok || sub.PlanType != "Premium" {
		t.Fatalf("cache not updated after plan change: %+v", sub)
	}
	if got := store.ResolveLimits("user-1"); got.MaxMembers != domain.Unlimited {
		t.Fatalf("entitlements did not follow the plan change: %+v", got)
	}
}

func TestChangePlanCreatesRowForNewUser(t *testing.T) {
	store, api := newLoadedSubscriptionStore(t, nil)

	got, err := store.ChangePlan(context.Background(), "user-1", "standard")
	if err != nil {
		t.Fatalf("change plan failed: %v", err)
	}
	if got.ID == "" {
		t.Fatal("expected server-assigned id")
	}
	if got.PlanType != "Standard" {
		t.Fatalf("expected catalog-cased plan name, got %s", got.PlanType)
	}
	if !got.IsActive {
		t.Fatal("new subscription must be active")
	}
	if len(api.creates) != 1 || len(api.updates) != 0 {
		t.Fatalf("expected exactly one create, got creates=%d updates=%d", len(api.creates), len(api.updates))
	}
}

func TestChangePlanUnknownPlan(t *testing.T) {
	store, api := newLoadedSubscriptionStore(t, nil)

	_, err := store.ChangePlan(context.Background(), "user-1", "Platinum")
	if !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
	if len(api.creates) != 0 || len(api.updates) != 0 {
		t.Fatal("unknown plan must not reach the store")
	}
}

func TestChangePlanFailedPersistLeavesEntitlementsUntouched(t *testing.T) {
	store, api := newLoadedSubscriptionStore(t, []domain.Subscription{
		{ID: "sub-1", UserID: "user-1", PlanType: "Free", IsActive: true, MaxMembers: 3, MaxInventoryItems: 50},
	})
	api.updateErr = errors.New("store unavailable")

	if _, err := store.ChangePlan(context.Background(), "user-1", "Premium"); err == nil {
		t.Fatal("expected error from failed persist")
	}
	sub, _ := store.ActiveSubscription("user-1")
	if sub.PlanType != "Free" {
		t.Fatalf("cache mutated after failed persist: %+v", sub)
	}
	if got := store.ResolveLimits("user-1"); got.MaxMembers != 3 {
		t.Fatalf("entitlements changed after failed persist: %+v", got)
	}
}
