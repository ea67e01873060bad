package services

import (
	"context"
	"strings"
	"time"

	"food-ordering-api/apperr"
	"food-ordering-api/models"
	"food-ordering-api/repository"
)

type LocationInput struct {
	Latitude  float64 `validate:"min=-90,max=90"`
	Longitude float64 `validate:"min=-180,max=180"`
	Address   string  `validate:"max=255"`
}

type LocationService struct {
	locations repository.LocationRepository
	orders    repository.OrderRepository
	shops     repository.ShopRepository
	now       clock
}

func NewLocationService(locations repository.LocationRepository, orders repository.OrderRepository, shops repository.ShopRepository) *LocationService {
	return &LocationService{locations: locations, orders: orders, shops: shops, now: time.Now}
}

func (s *LocationService) Upsert(ctx context.Context, customerID uint, in LocationInput) (*models.CustomerLocation, error) {
	in.Address = strings.TrimSpace(in.Address)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	loc := &models.CustomerLocation{
		CustomerID: customerID,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		Address:    in.Address,
		UpdatedAt:  s.now().UTC(),
	}
	if err := s.locations.Upsert(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *LocationService) Get(ctx context.Context, customerID uint) (*models.CustomerLocation, error) {
	return s.locations.Get(ctx, customerID)
}

// GetForOrder shows the owner where the customer of one of their orders is.
func (s *LocationService) GetForOrder(ctx context.Context, ownerID, orderID uint) (*models.CustomerLocation, error) {
	shop, err := ownedShop(ctx, s.shops, ownerID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ShopID != shop.ID {
		return nil, apperr.Forbidden("this order does not belong to your shop")
	}
	return s.locations.Get(ctx, order.CustomerID)
}
