package repository

import (
	"context"

	"food-ordering-api/models"

	"gorm.io/gorm"
)

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Append(ctx context.Context, msg *models.ChatMessage) error {
	return translate(r.db.WithContext(ctx).Create(msg).Error, "chat message")
}

func (r *chatRepository) ListByOrder(ctx context.Context, orderID uint) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc, id asc").
		Find(&msgs).Error
	if err != nil {
		return nil, translate(err, "chat messages")
	}
	return msgs, nil
}
