package services

import (
	"context"
	"time"

	"food-ordering-api/apperr"
	"food-ordering-api/models"
	"food-ordering-api/repository"
	"food-ordering-api/statemachine"

	"github.com/shopspring/decimal"
)

type TransitionInput struct {
	To                     models.OrderStatus
	Note                   string `validate:"max=500"`
	EstimatedPickupMinutes int    `validate:"min=0,max=720"`
}

// Dashboard summarises a shop's orders from the live database.
type Dashboard struct {
	Shop         *models.Shop                 `json:"shop"`
	StatusCounts map[models.OrderStatus]int64 `json:"status_counts"`
	Pending      int64                        `json:"pending"`
	Active       int64                        `json:"active"`
	RevenueToday decimal.Decimal              `json:"revenue_today"`
	RevenueTotal decimal.Decimal              `json:"revenue_total"`
	RecentOrders []models.Order               `json:"recent_orders"`
}

// Pipeline documents the order status machine for clients.
type Pipeline struct {
	Statuses    []models.OrderStatus      `json:"statuses"`
	Transitions []statemachine.Transition `json:"transitions"`
}

const recentOrderCount = 5

type OrderService struct {
	orders repository.OrderRepository
	shops  repository.ShopRepository
	now    clock
}

func NewOrderService(orders repository.OrderRepository, shops repository.ShopRepository) *OrderService {
	return &OrderService{orders: orders, shops: shops, now: time.Now}
}

func (s *OrderService) ListForCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

func (s *OrderService) GetForCustomer(ctx context.Context, customerID, orderID uint) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, apperr.Forbidden("this order does not belong to you")
	}
	return order, nil
}

// ListForOwner lists the owner's shop orders, newest first, optionally
// narrowed to one status.
func (s *OrderService) ListForOwner(ctx context.Context, ownerID uint, status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !statemachine.IsKnown(status) {
		return nil, apperr.Validation("unknown order status %q", status)
	}
	shop, err := ownedShop(ctx, s.shops, ownerID)
	if err != nil {
		return nil, err
	}
	return s.orders.ListByShop(ctx, shop.ID, status)
}

func (s *OrderService) GetForOwner(ctx context.Context, ownerID, orderID uint) (*models.Order, error) {
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
	return order, nil
}

// Transition moves an order one step along the pipeline. The write only
// succeeds if nobody else changed the status in the meantime.
func (s *OrderService) Transition(ctx context.Context, ownerID, orderID uint, in TransitionInput) (*models.Order, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !statemachine.IsKnown(in.To) {
		return nil, apperr.Validation("unknown order status %q", in.To)
	}
	order, err := s.GetForOwner(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}
	if err := statemachine.CanTransition(order.Status, in.To, statemachine.ActorOwner); err != nil {
		return nil, err
	}

	change := repository.StatusChange{
		OrderID:   order.ID,
		From:      order.Status,
		To:        in.To,
		ChangedBy: ownerID,
		Note:      in.Note,
	}
	if in.EstimatedPickupMinutes > 0 {
		at := s.now().UTC().Add(time.Duration(in.EstimatedPickupMinutes) * time.Minute)
		change.EstimatedPickupAt = &at
	}
	if err := s.orders.UpdateStatus(ctx, change); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, order.ID)
}

// Advance moves the order to its next non-cancel status.
func (s *OrderService) Advance(ctx context.Context, ownerID, orderID uint) (*models.Order, error) {
	order, err := s.GetForOwner(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}
	next, ok := statemachine.Next(order.Status)
	if !ok {
		return nil, apperr.New(apperr.KindInvalidTransition, "order %d is %s and has no next status", order.ID, order.Status)
	}
	return s.Transition(ctx, ownerID, orderID, TransitionInput{To: next})
}

func (s *OrderService) Dashboard(ctx context.Context, ownerID uint) (*Dashboard, error) {
	shop, err := ownedShop(ctx, s.shops, ownerID)
	if err != nil {
		return nil, err
	}
	counts, err := s.orders.CountByStatus(ctx, shop.ID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.orders.Revenue(ctx, shop.ID, startOfDay)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.Revenue(ctx, shop.ID, time.Time{})
	if err != nil {
		return nil, err
	}
	recent, err := s.orders.ListByShop(ctx, shop.ID, "")
	if err != nil {
		return nil, err
	}
	if len(recent) > recentOrderCount {
		recent = recent[:recentOrderCount]
	}

	return &Dashboard{
		Shop:         shop,
		StatusCounts: counts,
		Pending:      counts[models.StatusPending],
		Active:       counts[models.StatusConfirmed] + counts[models.StatusPreparing] + counts[models.StatusReady],
		RevenueToday: today,
		RevenueTotal: total,
		RecentOrders: recent,
	}, nil
}

func (s *OrderService) Pipeline() Pipeline {
	return Pipeline{Statuses: models.AllStatuses, Transitions: statemachine.GetAllTransitions()}
}
