/**
 * @description
 * Demo data seeder. It drives the public API the same way a real client
 * would: sign up a set of demo accounts, sign in as each laboratory admin,
 * and create laboratories, responsibles and stock through the client stores
 * so every invariant (admin assignment, history trail, free-tier bootstrap)
 * is exercised rather than bypassed.
 *
 * Usage:
 *   go run ./cmd/seed -base-url http://localhost:5205/api/v1
 */
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/labstock/labstock-backend/internal/client"
	"github.com/labstock/labstock-backend/internal/domain"
	"github.com/labstock/labstock-backend/pkg/resource"
)

const demoPassword = "password123"

var demoUsers = []domain.SignUpRequest{
	{Username: "user1", Password: demoPassword, FullName: "Carlos Ramírez", Email: "carlos.ramirez@labstock.dev", Role: domain.RoleTechnician, Organization: "BioLab Central"},
	{Username: "user2", Password: demoPassword, FullName: "María González", Email: "maria.gonzalez@labstock.dev", Role: domain.RoleResearcher, Organization: "BioLab Central"},
	{Username: "user3", Password: demoPassword, FullName: "Jorge Salas", Email: "jorge.salas@labstock.dev", Role: domain.RoleProcurementSupervisor, Organization: "QuimLab Andina"},
	{Username: "user4", Password: demoPassword, FullName: "Lucía Paredes", Email: "lucia.paredes@labstock.dev", Role: domain.RoleInspector, Organization: "QuimLab Andina"},
	{Username: "user5", Password: demoPassword, FullName: "Andrés Quispe", Email: "andres.quispe@labstock.dev", Role: domain.RoleTechnician, Organization: "Instituto Pacífico"},
	{Username: "user6", Password: demoPassword, FullName: "Elena Torres", Email: "elena.torres@labstock.dev", Role: domain.RoleResearcher, Organization: "Instituto Pacífico"},
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:5205/api/v1", "base URL of the labstock API")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, logger, *baseURL); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seeding complete")
}

func run(ctx context.Context, logger *slog.Logger, baseURL string) error {
	stores := client.NewStores(baseURL)

	for _, req := range demoUsers {
		if _, err := stores.Session.SignUp(ctx, req); err != nil {
			var statusErr *resource.StatusError
			if errors.As(err, &statusErr) && statusErr.Code == 409 {
				logger.Info("user already exists, skipping", "username", req.Username)
				continue
			}
			return err
		}
		logger.Info("created user", "username", req.Username)
	}

	// user1 administers the first demo laboratory.
	if _, err := stores.Session.SignIn(ctx, domain.SignInRequest{Username: "user1", Password: demoPassword}); err != nil {
		return err
	}
	if err := stores.Users.Fetch(ctx); err != nil {
		return err
	}
	if err := stores.Laboratories.Fetch(ctx); err != nil {
		return err
	}

	if len(stores.Laboratories.Laboratories()) > 0 {
		logger.Info("laboratories already present, skipping demo data")
		return nil
	}

	responsible, err := stores.Laboratories.AddLabResponsible(ctx, domain.LabResponsible{
		FullName:      "Dra. Silvia Mendoza",
		Email:         "silvia.mendoza@labstock.dev",
		Phone:         "+51 987 654 321",
		Certification: "ISO 17025 Lead Assessor",
	})
	if err != nil {
		return err
	}

	lab, err := stores.Laboratories.AddLaboratory(ctx, domain.Laboratory{
		Name:             "Laboratorio de Química Analítica",
		Address:          "Av. Universitaria 1801, Lima",
		Phone:            "+51 1 626 2000",
		Capacity:         40,
		LabResponsibleID: responsible.ID,
	})
	if err != nil {
		return err
	}
	logger.Info("created laboratory", "id", lab.ID, "name", lab.Name)

	for _, username := range []string{"user2", "user3"} {
		member := findUserByUsername(stores.Users, username)
		if member == nil {
			continue
		}
		if _, err := stores.Laboratories.AddMember(ctx, lab.ID, member.ID); err != nil {
			return err
		}
		logger.Info("added member", "laboratory", lab.ID, "username", username)
	}

	items := []domain.InventoryItem{
		{Name: "Matraz Erlenmeyer 250ml", Category: "glassware", Quantity: 24, LaboratoryID: lab.ID},
		{Name: "Ácido clorhídrico 37%", Category: "reagents", Quantity: 12, LaboratoryID: lab.ID},
		{Name: "Guantes de nitrilo (caja)", Category: "consumables", Quantity: 50, LaboratoryID: lab.ID},
		{Name: "Micropipeta 100-1000µl", Category: "equipment", Quantity: 6, LaboratoryID: lab.ID},
	}
	for _, item := range items {
		created, err := stores.Inventory.AddItem(ctx, item)
		if err != nil {
			return err
		}
		logger.Info("created inventory item", "id", created.ID, "name", created.Name)
	}

	// A couple of movements so the history view has something to show.
	if item, ok := firstItemByName(stores.Inventory, "Guantes de nitrilo (caja)"); ok {
		if _, err := stores.Inventory.Use(ctx, item.ID, 5); err != nil {
			return err
		}
	}
	if item, ok := firstItemByName(stores.Inventory, "Matraz Erlenmeyer 250ml"); ok {
		if _, err := stores.Inventory.Sell(ctx, item.ID, 4); err != nil {
			return err
		}
	}

	stores.Session.SignOut()
	return nil
}

func findUserByUsername(users *client.UserStore, username string) *domain.User {
	for _, u := range users.Users() {
		if u.Username == username {
			user := u
			return &user
		}
	}
	return nil
}

func firstItemByName(inv *client.InventoryStore, name string) (domain.InventoryItem, bool) {
	for _, item := range inv.Items() {
		if item.Name == name {
			return item, true
		}
	}
	return domain.InventoryItem{}, false
}
