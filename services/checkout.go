package services

import (
	"context"
	"log/slog"

	"food-ordering-api/apperr"
	"food-ordering-api/cart"
	"food-ordering-api/models"
	"food-ordering-api/payment"
	"food-ordering-api/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentIntent is what the client needs to open the payment widget.
type PaymentIntent struct {
	KeyID        string                `json:"key_id"`
	GatewayOrder *payment.GatewayOrder `json:"gateway_order"`
	Totals       cart.Totals           `json:"totals"`
}

// Confirmation is the result the payment widget hands back to the client.
type Confirmation struct {
	GatewayOrderID   string `json:"order_id" validate:"required"`
	GatewayPaymentID string `json:"payment_id" validate:"required"`
	Signature        string `json:"signature" validate:"required"`
}

// CheckoutService turns a cart into an order. The order is only written once
// the gateway's signature over the payment has been verified.
type CheckoutService struct {
	carts       cart.Store
	shops       repository.ShopRepository
	menu        repository.MenuRepository
	orders      repository.OrderRepository
	payments    repository.PaymentRepository
	gateway     payment.Gateway
	currency    string
	deliveryFee decimal.Decimal
	log         *slog.Logger
}

func NewCheckoutService(
	carts cart.Store,
	shops repository.ShopRepository,
	menu repository.MenuRepository,
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	gateway payment.Gateway,
	currency string,
	deliveryFee decimal.Decimal,
	log *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:       carts,
		shops:       shops,
		menu:        menu,
		orders:      orders,
		payments:    payments,
		gateway:     gateway,
		currency:    currency,
		deliveryFee: deliveryFee,
		log:         log,
	}
}

// StartPayment prices the cart from the current menu and opens a gateway
// order for its total.
func (s *CheckoutService) StartPayment(ctx context.Context, userID, shopID uint) (*PaymentIntent, error) {
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if !shop.IsOpen {
		return nil, apperr.Validation("%s is currently closed", shop.Name)
	}
	c, err := s.carts.Get(ctx, userID, shopID)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, apperr.Validation("cart is empty")
	}
	lines, err := s.reprice(ctx, shopID, c.Lines)
	if err != nil {
		return nil, err
	}
	totals := cart.ComputeTotals(lines, s.deliveryFee)

	receipt := uuid.NewString()
	gwOrder, err := s.gateway.CreateOrder(ctx, payment.CreateOrderRequest{
		Amount:   totals.Total,
		Currency: s.currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, err
	}

	p := &models.Payment{
		ShopID:         shopID,
		CustomerID:     userID,
		Receipt:        receipt,
		GatewayOrderID: gwOrder.ID,
		Amount:         totals.Total,
		AmountMinor:    payment.ToMinorUnits(totals.Total),
		Currency:       s.currency,
		Status:         models.PaymentCreated,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("checkout: payment started", "user_id", userID, "shop_id", shopID, "gateway_order_id", gwOrder.ID, "amount", totals.Total.StringFixed(2))
	return &PaymentIntent{KeyID: s.gateway.KeyID(), GatewayOrder: gwOrder, Totals: totals}, nil
}

// Complete verifies the gateway signature and only then places the order.
// A failed verification marks the payment failed and leaves the cart as it
// was.
func (s *CheckoutService) Complete(ctx context.Context, userID, shopID uint, conf Confirmation) (*models.Order, error) {
	if err := validateInput(conf); err != nil {
		return nil, err
	}
	p, err := s.pendingPayment(ctx, userID, conf.GatewayOrderID)
	if err != nil {
		return nil, err
	}
	if p.ShopID != shopID {
		return nil, apperr.NotFound("payment %s not found", conf.GatewayOrderID)
	}

	if err := s.gateway.VerifySignature(conf.GatewayOrderID, conf.GatewayPaymentID, conf.Signature); err != nil {
		s.markFailed(ctx, p, "signature verification failed")
		if !apperr.Is(err, apperr.KindPaymentVerificationFailed) {
			err = apperr.Wrap(apperr.KindPaymentVerificationFailed, err, "payment could not be verified")
		}
		return nil, err
	}

	c, err := s.carts.Get(ctx, userID, shopID)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		s.markFailed(ctx, p, "cart emptied before confirmation")
		return nil, apperr.PaymentFailed("cart is empty; nothing to order")
	}
	lines, err := s.reprice(ctx, shopID, c.Lines)
	if err != nil {
		return nil, err
	}
	totals := cart.ComputeTotals(lines, s.deliveryFee)
	if !totals.Total.Equal(p.Amount) {
		s.markFailed(ctx, p, "cart total changed after payment")
		return nil, apperr.PaymentFailed("cart total %s does not match the paid amount %s",
			totals.Total.StringFixed(2), p.Amount.StringFixed(2))
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			MenuItemID:   l.MenuItemID,
			Name:         l.Name,
			Price:        l.Price,
			Quantity:     l.Quantity,
			Instructions: l.Instructions,
		})
	}
	order := &models.Order{
		CustomerID:  userID,
		ShopID:      shopID,
		Status:      models.StatusPending,
		Subtotal:    totals.Subtotal,
		Tax:         totals.Tax,
		DeliveryFee: totals.DeliveryFee,
		Total:       totals.Total,
		PaymentRef:  conf.GatewayPaymentID,
		Items:       items,
	}
	p.GatewayPaymentID = conf.GatewayPaymentID
	if err := s.orders.CreateWithPayment(ctx, order, p); err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, userID, shopID); err != nil {
		s.log.Warn("checkout: order placed but cart not cleared", "user_id", userID, "shop_id", shopID, "order_id", order.ID, "error", err)
	}
	s.log.Info("checkout: order placed", "user_id", userID, "shop_id", shopID, "order_id", order.ID, "payment_id", conf.GatewayPaymentID)
	return order, nil
}

// Abort records that the customer dismissed the payment widget. The cart is
// kept so they can try again.
func (s *CheckoutService) Abort(ctx context.Context, userID uint, gatewayOrderID string) error {
	p, err := s.pendingPayment(ctx, userID, gatewayOrderID)
	if err != nil {
		return err
	}
	return s.payments.MarkFailed(ctx, p.ID, "dismissed by customer")
}

// pendingPayment loads a payment that belongs to userID and is still open.
// Payments of other customers are reported as missing.
func (s *CheckoutService) pendingPayment(ctx context.Context, userID uint, gatewayOrderID string) (*models.Payment, error) {
	p, err := s.payments.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if p.CustomerID != userID {
		return nil, apperr.NotFound("payment %s not found", gatewayOrderID)
	}
	if p.Status != models.PaymentCreated {
		return nil, apperr.Conflict("payment %s is already %s", gatewayOrderID, p.Status)
	}
	return p, nil
}

func (s *CheckoutService) markFailed(ctx context.Context, p *models.Payment, reason string) {
	if err := s.payments.MarkFailed(ctx, p.ID, reason); err != nil {
		s.log.Warn("checkout: could not mark payment failed", "payment_id", p.ID, "reason", reason, "error", err)
		return
	}
	p.Status = models.PaymentFailed
	p.FailureReason = reason
}

// reprice replaces the cart's prices and names with the current menu and
// rejects lines whose item was removed, moved or made unavailable.
func (s *CheckoutService) reprice(ctx context.Context, shopID uint, lines []cart.Line) ([]cart.Line, error) {
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.MenuItemID)
	}
	items, err := s.menu.GetItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.MenuItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	out := make([]cart.Line, 0, len(lines))
	for _, l := range lines {
		it, ok := byID[l.MenuItemID]
		if !ok || it.ShopID != shopID {
			return nil, apperr.Validation("%s is no longer on the menu", l.Name)
		}
		if !it.IsAvailable {
			return nil, apperr.Validation("%s is no longer available", it.Name)
		}
		l.Price = it.Price
		l.Name = it.Name
		out = append(out, l)
	}
	return out, nil
}
