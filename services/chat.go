package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"food-ordering-api/apperr"
	"food-ordering-api/models"
	"food-ordering-api/repository"
)

const maxMessageLength = 2000

// ChatService keeps the per-order conversation between a customer and the
// owner of the shop the order was placed with.
type ChatService struct {
	chat      repository.ChatRepository
	orders    repository.OrderRepository
	shops     repository.ShopRepository
	publisher Publisher
	log       *slog.Logger
	now       clock
}

func NewChatService(chat repository.ChatRepository, orders repository.OrderRepository, shops repository.ShopRepository, publisher Publisher, log *slog.Logger) *ChatService {
	return &ChatService{chat: chat, orders: orders, shops: shops, publisher: publisher, log: log, now: time.Now}
}

// Authorize checks that userID takes part in the order's conversation and
// returns the other party.
func (s *ChatService) Authorize(ctx context.Context, userID, orderID uint) (counterpart uint, err error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return 0, err
	}
	shop, err := s.shops.GetByID(ctx, order.ShopID)
	if err != nil {
		return 0, err
	}
	switch userID {
	case order.CustomerID:
		return shop.OwnerID, nil
	case shop.OwnerID:
		return order.CustomerID, nil
	default:
		return 0, apperr.Forbidden("you are not part of this order's conversation")
	}
}

// Send appends a message with a server timestamp and pushes the whole
// conversation to live subscribers.
func (s *ChatService) Send(ctx context.Context, userID, orderID uint, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("message text is required")
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return nil, apperr.Validation("message text must be at most %d characters", maxMessageLength)
	}
	receiver, err := s.Authorize(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		OrderID:    orderID,
		SenderID:   userID,
		ReceiverID: receiver,
		Text:       text,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.chat.Append(ctx, msg); err != nil {
		return nil, err
	}

	msgs, err := s.chat.ListByOrder(ctx, orderID)
	if err != nil {
		s.log.Warn("chat: message stored but not published", "order_id", orderID, "message_id", msg.ID, "error", err)
		return msg, nil
	}
	if s.publisher != nil {
		s.publisher.Publish(orderID, SortMessages(msgs))
	}
	return msg, nil
}

// List returns the conversation oldest first.
func (s *ChatService) List(ctx context.Context, userID, orderID uint) ([]models.ChatMessage, error) {
	if _, err := s.Authorize(ctx, userID, orderID); err != nil {
		return nil, err
	}
	msgs, err := s.chat.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return SortMessages(msgs), nil
}

// SortMessages orders messages by timestamp ascending, breaking ties by ID.
// It sorts in place and returns msgs.
func SortMessages(msgs []models.ChatMessage) []models.ChatMessage {
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID < msgs[j].ID
	})
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	return msgs
}
