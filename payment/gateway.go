// Package payment is the server side of the payment bridge: it opens gateway
// orders with the secret key and verifies the signature the payment widget
// returns.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	Amount   decimal.Decimal
	Currency string
	Receipt  string
}

// GatewayOrder is the gateway's order descriptor, returned to the client so
// it can open the payment widget.
type GatewayOrder struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	CreatedAt  int64  `json:"created_at"`
}

//go:generate mockgen -source=gateway.go -destination=mocks/mock_gateway.go -package=mocks

type Gateway interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) error
	KeyID() string
}

// ToMinorUnits converts a major-unit amount to the gateway's integer minor
// units (×100, rounded to the nearest unit).
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
