package services

import (
	"context"
	"strings"

	"food-ordering-api/apperr"
	"food-ordering-api/models"
	"food-ordering-api/payment"
	"food-ordering-api/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payouts is the owner's view of the payments taken for their shop.
type Payouts struct {
	Payments  []models.Payment `json:"payments"`
	Paid      int              `json:"paid"`
	Failed    int              `json:"failed"`
	Open      int              `json:"open"`
	GrossPaid decimal.Decimal  `json:"gross_paid"`
}

type PaymentService struct {
	payments repository.PaymentRepository
	shops    repository.ShopRepository
	gateway  payment.Gateway
	currency string
}

func NewPaymentService(payments repository.PaymentRepository, shops repository.ShopRepository, gateway payment.Gateway, currency string) *PaymentService {
	return &PaymentService{payments: payments, shops: shops, gateway: gateway, currency: currency}
}

func (s *PaymentService) ListForOwner(ctx context.Context, ownerID uint) (*Payouts, error) {
	shop, err := ownedShop(ctx, s.shops, ownerID)
	if err != nil {
		return nil, err
	}
	list, err := s.payments.ListByShop(ctx, shop.ID)
	if err != nil {
		return nil, err
	}
	out := &Payouts{Payments: list, GrossPaid: decimal.Zero}
	for _, p := range list {
		switch p.Status {
		case models.PaymentPaid:
			out.Paid++
			out.GrossPaid = out.GrossPaid.Add(p.Amount)
		case models.PaymentFailed:
			out.Failed++
		default:
			out.Open++
		}
	}
	return out, nil
}

// CreateGatewayOrder opens a bare gateway order for amount; currency falls
// back to the configured one.
func (s *PaymentService) CreateGatewayOrder(ctx context.Context, amount decimal.Decimal, currency string) (*payment.GatewayOrder, error) {
	if !amount.IsPositive() {
		return nil, apperr.Validation("amount must be greater than zero")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = s.currency
	}
	return s.gateway.CreateOrder(ctx, payment.CreateOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  uuid.NewString(),
	})
}

// Verify checks the signature the payment widget returned.
func (s *PaymentService) Verify(conf Confirmation) error {
	if err := validateInput(conf); err != nil {
		return err
	}
	return s.gateway.VerifySignature(conf.GatewayOrderID, conf.GatewayPaymentID, conf.Signature)
}
