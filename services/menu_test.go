package services

import (
	"context"
	"testing"

	"food-ordering-api/apperr"

	"github.com/shopspring/decimal"
)

func TestDeleteCategoryBlockedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.shop(t, "olga", "Downtown Pizza")

	err := env.svc.Menu.DeleteCategory(ctx, f.owner.ID, f.category.ID)
	if !apperr.Is(err, apperr.KindValidationFailed) {
		t.Fatalf("delete referenced category: err = %v, want validation", err)
	}

	if err := env.svc.Menu.DeleteItem(ctx, f.owner.ID, f.pizza.ID); err != nil {
		t.Fatalf("delete pizza: %v", err)
	}
	if err := env.svc.Menu.DeleteItem(ctx, f.owner.ID, f.soda.ID); err != nil {
		t.Fatalf("delete soda: %v", err)
	}
	if err := env.svc.Menu.DeleteCategory(ctx, f.owner.ID, f.category.ID); err != nil {
		t.Fatalf("delete empty category: %v", err)
	}

	cats, err := env.svc.Menu.ListCategories(ctx, f.owner.ID)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != 0 {
		t.Fatalf("categories after delete = %+v", cats)
	}
}

func TestCategoryNameRequired(t *testing.T) {
	env := newTestEnv(t)
	f := env.shop(t, "olga", "Downtown Pizza")

	if _, err := env.svc.Menu.CreateCategory(context.Background(), f.owner.ID, "   "); !apperr.Is(err, apperr.KindValidationFailed) {
		t.Fatalf("blank category: err = %v", err)
	}
	if _, err := env.svc.Menu.RenameCategory(context.Background(), f.owner.ID, f.category.ID, ""); !apperr.Is(err, apperr.KindValidationFailed) {
		t.Fatalf("rename to blank: err = %v", err)
	}
}

func TestMenuItemValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.shop(t, "olga", "Downtown Pizza")
	other := env.shop(t, "pete", "Pete's Grill")

	cases := []struct {
		name string
		in   MenuItemInput
		kind apperr.Kind
	}{
		{"zero price", MenuItemInput{CategoryID: f.category.ID, Name: "Free", Price: decimal.Zero}, apperr.KindValidationFailed},
		{"negative price", MenuItemInput{CategoryID: f.category.ID, Name: "Neg", Price: decimal.NewFromInt(-1)}, apperr.KindValidationFailed},
		{"sub-cent price", MenuItemInput{CategoryID: f.category.ID, Name: "Odd", Price: decimal.RequireFromString("1.005")}, apperr.KindValidationFailed},
		{"missing name", MenuItemInput{CategoryID: f.category.ID, Price: decimal.NewFromInt(3)}, apperr.KindValidationFailed},
		{"foreign category", MenuItemInput{CategoryID: other.category.ID, Name: "Steal", Price: decimal.NewFromInt(3)}, apperr.KindValidationFailed},
		{"unknown category", MenuItemInput{CategoryID: 9999, Name: "Ghost", Price: decimal.NewFromInt(3)}, apperr.KindValidationFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Menu.CreateItem(ctx, f.owner.ID, tc.in)
			if !apperr.Is(err, tc.kind) {
				t.Fatalf("err = %v, want %s", err, tc.kind)
			}
		})
	}

	if _, err := env.svc.Menu.UpdateItem(ctx, other.owner.ID, f.pizza.ID, MenuItemInput{
		CategoryID: other.category.ID, Name: "Mine now", Price: decimal.NewFromInt(1),
	}); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("update foreign item: err = %v, want forbidden", err)
	}
}

func TestPublicMenuGroupsAvailableItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.shop(t, "olga", "Downtown Pizza")

	drinks, err := env.svc.Menu.CreateCategory(ctx, f.owner.ID, "Drinks")
	if err != nil {
		t.Fatalf("create drinks: %v", err)
	}
	unavailable := false
	if _, err := env.svc.Menu.UpdateItem(ctx, f.owner.ID, f.soda.ID, MenuItemInput{
		CategoryID: drinks.ID, Name: "Soda", Price: decimal.RequireFromString("5.00"), IsAvailable: &unavailable,
	}); err != nil {
		t.Fatalf("update soda: %v", err)
	}

	menu, err := env.svc.Menu.PublicMenu(ctx, "downtown-pizza")
	if err != nil {
		t.Fatalf("public menu: %v", err)
	}
	if len(menu.Sections) != 1 {
		t.Fatalf("sections = %+v, want only Mains", menu.Sections)
	}
	if menu.Sections[0].Category.Name != "Mains" || len(menu.Sections[0].Items) != 1 || menu.Sections[0].Items[0].ID != f.pizza.ID {
		t.Fatalf("mains section = %+v", menu.Sections[0])
	}
}
