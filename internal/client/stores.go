package client

import (
	"github.com/labstock/labstock-backend/internal/domain"
	"github.com/labstock/labstock-backend/pkg/resource"
)

// Stores bundles every client store wired to one session, so a caller gets a
// fully connected client with a single constructor.
type Stores struct {
	Session       *Session
	Users         *UserStore
	History       *HistoryStore
	Inventory     *InventoryStore
	Subscriptions *SubscriptionStore
	Laboratories  *LaboratoryStore
}

// NewStores connects a full set of stores to the resource server at baseURL.
func NewStores(baseURL string, opts ...resource.Option) *Stores {
	session := NewSession(baseURL, opts...)
	rc := session.Client()

	users := NewUserStore(resource.NewEndpoint[domain.User](rc, "users"))
	history := NewHistoryStore(resource.NewEndpoint[domain.HistoryEntry](rc, "history"), session)
	inventory := NewInventoryStore(resource.NewEndpoint[domain.InventoryItem](rc, "inventory"), history, users)
	subscriptions := NewSubscriptionStore(
		resource.NewEndpoint[domain.Subscription](rc, "subscriptions"),
		resource.NewEndpoint[domain.SubscriptionPlan](rc, "plans"),
	)
	laboratories := NewLaboratoryStore(
		resource.NewEndpoint[domain.Laboratory](rc, "laboratories"),
		resource.NewEndpoint[domain.LabResponsible](rc, "labResponsibles"),
		session,
	)

	return &Stores{
		Session:       session,
		Users:         users,
		History:       history,
		Inventory:     inventory,
		Subscriptions: subscriptions,
		Laboratories:  laboratories,
	}
}
