package services

import (
	"context"
	"testing"

	"food-ordering-api/apperr"
	"food-ordering-api/models"
)

func TestLocationUpsertAndOwnerAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.shop(t, "olga", "Downtown Pizza")
	other := env.shop(t, "pete", "Pete's Grill")
	customer := env.user(t, "carla", models.RoleCustomer)
	order := placeOrder(t, env, customer.ID, f, "10.00")

	for _, in := range []LocationInput{
		{Latitude: 91, Longitude: 0},
		{Latitude: 0, Longitude: -180.5},
	} {
		if _, err := env.svc.Locations.Upsert(ctx, customer.ID, in); !apperr.Is(err, apperr.KindValidationFailed) {
			t.Fatalf("upsert %+v: err = %v", in, err)
		}
	}

	if _, err := env.svc.Locations.Upsert(ctx, customer.ID, LocationInput{Latitude: 40.7, Longitude: -74.0, Address: "1 Main St"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := env.svc.Locations.Upsert(ctx, customer.ID, LocationInput{Latitude: 40.8, Longitude: -73.9, Address: "2 Side St"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	loc, err := env.svc.Locations.GetForOrder(ctx, f.owner.ID, order.ID)
	if err != nil {
		t.Fatalf("owner view: %v", err)
	}
	if loc.Address != "2 Side St" || loc.Latitude != 40.8 {
		t.Fatalf("location = %+v", loc)
	}
	if _, err := env.svc.Locations.GetForOrder(ctx, other.owner.ID, order.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("other owner: err = %v", err)
	}
}
