// Package services holds the business rules of the ordering API. Services
// depend on repository interfaces, the cart store and the payment gateway,
// and return only apperr-classified errors.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"food-ordering-api/apperr"
	"food-ordering-api/cart"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/payment"
	"food-ordering-api/repository"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput runs struct tag validation and reports the first failing
// field as a ValidationFailed error.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return apperr.Validation("%s is required", field)
		case "email":
			return apperr.Validation("%s must be a valid email address", field)
		case "oneof":
			return apperr.Validation("%s must be one of: %s", field, fe.Param())
		default:
			return apperr.Validation("%s failed the %s=%s check", field, fe.Tag(), fe.Param())
		}
	}
	return apperr.Validation("invalid input: %v", err)
}

// Publisher pushes the full message list of an order to live subscribers.
type Publisher interface {
	Publish(orderID uint, messages []models.ChatMessage)
}

// Deps is everything the service layer needs from the outside world.
type Deps struct {
	Repos       *repository.Repositories
	Carts       cart.Store
	Gateway     payment.Gateway
	Tokens      *middleware.TokenIssuer
	Chat        Publisher
	Currency    string
	DeliveryFee decimal.Decimal
	Log         *slog.Logger
}

// Services bundles every service so handlers can be built from one value.
type Services struct {
	Auth      *AuthService
	Shops     *ShopService
	Menu      *MenuService
	Cart      *CartService
	Checkout  *CheckoutService
	Orders    *OrderService
	Chat      *ChatService
	Locations *LocationService
	Payments  *PaymentService
}

func New(d Deps) *Services {
	r := d.Repos
	return &Services{
		Auth:      NewAuthService(r.Users, d.Tokens),
		Shops:     NewShopService(r.Shops, r.Users),
		Menu:      NewMenuService(r.Shops, r.Menu),
		Cart:      NewCartService(d.Carts, r.Shops, r.Menu, d.DeliveryFee),
		Checkout:  NewCheckoutService(d.Carts, r.Shops, r.Menu, r.Orders, r.Payments, d.Gateway, d.Currency, d.DeliveryFee, d.Log),
		Orders:    NewOrderService(r.Orders, r.Shops),
		Chat:      NewChatService(r.Chat, r.Orders, r.Shops, d.Chat, d.Log),
		Locations: NewLocationService(r.Locations, r.Orders, r.Shops),
		Payments:  NewPaymentService(r.Payments, r.Shops, d.Gateway, d.Currency),
	}
}

// clock is swapped in tests.
type clock func() time.Time

// ownedShop loads the shop of an owner, reporting a missing shop as NotFound
// with a message that tells the owner to create one.
func ownedShop(ctx context.Context, shops repository.ShopRepository, ownerID uint) (*models.Shop, error) {
	shop, err := shops.GetByOwner(ctx, ownerID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.NotFound("no shop found for your account")
	}
	return shop, err
}
