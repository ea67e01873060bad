package repository

import (
	"context"
	"time"

	"food-ordering-api/apperr"
	"food-ordering-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateWithPayment(ctx context.Context, order *models.Order, payment *models.Payment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		// Record initial status history
		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  order.Status,
			ChangedBy: order.CustomerID,
			Note:      "Order placed by customer",
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		order.StatusHistory = []models.OrderStatusHistory{history}

		// Only a payment still in "created" may be consumed by an order
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentCreated).
			Updates(map[string]interface{}{
				"status":             models.PaymentPaid,
				"order_id":           order.ID,
				"gateway_payment_id": payment.GatewayPaymentID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("payment %s was already used", payment.GatewayOrderID)
		}
		payment.Status = models.PaymentPaid
		payment.OrderID = &order.ID
		return nil
	})
	if apperr.KindOf(err) == apperr.KindConflict {
		return err
	}
	return translate(err, "order")
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc, id asc") }).
		First(&order, id).Error
	if err != nil {
		return nil, translate(err, "order")
	}
	return &order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, translate(err, "orders")
	}
	return orders, nil
}

func (r *orderRepository) ListByShop(ctx context.Context, shopID uint, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.WithContext(ctx).Preload("Items").Where("shop_id = ?", shopID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, translate(err, "orders")
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, change StatusChange) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": change.To}
		if change.EstimatedPickupAt != nil {
			updates["estimated_pickup_at"] = change.EstimatedPickupAt
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", change.OrderID, change.From).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("order %d is no longer %s", change.OrderID, change.From)
		}
		history := models.OrderStatusHistory{
			OrderID:    change.OrderID,
			FromStatus: change.From,
			ToStatus:   change.To,
			ChangedBy:  change.ChangedBy,
			Note:       change.Note,
		}
		return tx.Create(&history).Error
	})
	if apperr.KindOf(err) == apperr.KindConflict {
		return err
	}
	return translate(err, "order")
}

func (r *orderRepository) CountByStatus(ctx context.Context, shopID uint) (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("shop_id = ?", shopID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "orders")
	}
	counts := make(map[models.OrderStatus]int64, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Revenue sums totals of completed orders created at or after since.
func (r *orderRepository) Revenue(ctx context.Context, shopID uint, since time.Time) (decimal.Decimal, error) {
	var totals []decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("shop_id = ? AND status = ? AND created_at >= ?", shopID, models.StatusCompleted, since).
		Pluck("total", &totals).Error
	if err != nil {
		return decimal.Zero, translate(err, "orders")
	}
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return sum, nil
}
