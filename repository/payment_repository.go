package repository

import (
	"context"

	"food-ordering-api/models"

	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return translate(r.db.WithContext(ctx).Create(p).Error, "payment")
}

func (r *paymentRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).Where("gateway_order_id = ?", gatewayOrderID).First(&p).Error; err != nil {
		return nil, translate(err, "payment")
	}
	return &p, nil
}

// MarkFailed only touches payments that have not been settled yet.
func (r *paymentRepository) MarkFailed(ctx context.Context, id uint, reason string) error {
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, models.PaymentCreated).
		Updates(map[string]interface{}{
			"status":         models.PaymentFailed,
			"failure_reason": reason,
		}).Error
	return translate(err, "payment")
}

func (r *paymentRepository) ListByShop(ctx context.Context, shopID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).Where("shop_id = ?", shopID).Order("created_at desc").Find(&payments).Error
	if err != nil {
		return nil, translate(err, "payments")
	}
	return payments, nil
}
