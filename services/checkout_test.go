package services

import (
	"context"
	"testing"

	"food-ordering-api/apperr"
	"food-ordering-api/models"
	"food-ordering-api/payment"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func expectGatewayOrder(env *testEnv, id string) {
	env.gateway.EXPECT().
		CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req payment.CreateOrderRequest) (*payment.GatewayOrder, error) {
			return &payment.GatewayOrder{
				ID:       id,
				Entity:   "order",
				Amount:   payment.ToMinorUnits(req.Amount),
				Currency: req.Currency,
				Receipt:  req.Receipt,
				Status:   "created",
			}, nil
		})
	env.gateway.EXPECT().KeyID().Return("rzp_test_key").AnyTimes()
}

func TestStartPaymentOpensGatewayOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.shop(t, "olga", "Downtown Pizza")
	customer := env.user(t, "carla", models.RoleCustomer)
	env.fillCart(t, customer.ID, f)
	expectGatewayOrder(env, "order_1")

	intent, err := env.svc.Checkout.StartPayment(ctx, customer.ID, f.shop.ID)
	if err != nil {
		t.Fatalf("start payment: %v", err)
	}
	if intent.GatewayOrder.Amount != 2999 || intent.GatewayOrder.Currency != "INR" || intent.KeyID != "rzp_test_key" {
		t.Fatalf("intent = %+v / %+v", intent, intent.GatewayOrder)
	}
	if intent.GatewayOrder.Receipt == "" {
		t.Fatalf("receipt not set")
	}

	p, err := env.repos.Payments.GetByGatewayOrderID(ctx, "order_1")
	if err != nil {
		t.Fatalf("payment row: %v", err)
	}
	if p.Status != models.PaymentCreated || !p.Amount.Equal(decimal.RequireFromString("29.99")) || p.AmountMinor != 2999 {
		t.Fatalf("payment = %+v", p)
	}
}

func TestStartPaymentRejectsEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	f := env.shop(t, "olga", "Downtown Pizza")
	customer := env.user(t, "carla", models.RoleCustomer)

	_, err := env.svc.Checkout.StartPayment(context.Background(), customer.ID, f.shop.ID)
	if !apperr.Is(err, apperr.KindValidationFailed) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestStartPaymentGatewayDown(t *testing.T) {
	env := newTestEnv(t)
	f := env.shop(t, "olga", "Downtown Pizza")
	customer := env.user(t, "carla", models.RoleCustomer)
	env.fillCart(t, customer.ID, f)
	env.gateway.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
		Return(nil, apperr.RemoteUnavailable(context.DeadlineExceeded, "payment gateway unreachable"))

	_, err := env.svc.Checkout.StartPayment(context.Background(), customer.ID, f.shop.ID)
	if !apperr.Is(err, apperr.KindRemoteServiceUnavailable) {
		t.Fatalf("err = %v, want remote unavailable", err)
	}
}

func TestCompleteWithBadSignatureLeavesCartAndCreatesNoOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.shop(t, "olga", "Downtown Pizza")
	customer := env.user(t, "carla", models.RoleCustomer)
	env.fillCart(t, customer.ID, f)
	expectGatewayOrder(env, "order_bad")
	if _, err := env.svc.Checkout.StartPayment(ctx, customer.ID, f.shop.ID); err != nil {
		t.Fatalf("start payment: %v", err)
	}

	env.gateway.EXPECT().
		VerifySignature("order_bad", "pay_1", "forged").
		Return(apperr.PaymentVerificationFailed("payment signature mismatch"))

	_, err := env.svc.Checkout.Complete(ctx, customer.ID, f.shop.ID, Confirmation{
		GatewayOrderID: "order_bad", GatewayPaymentID: "pay_1", Signature: "forged",
	})
	if !apperr.Is(err, apperr.KindPaymentVerificationFailed) {
		t.Fatalf("err = %v, want payment verification failed", err)
	}

	orders, err := env.svc.Orders.ListForCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("orders = %d, want none", len(orders))
	}
	view, err := env.svc.Cart.Get(ctx, customer.ID, f.shop.ID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(view.Cart.Lines) != 2 || !view.Totals.Total.Equal(decimal.RequireFromString("29.99")) {
		t.Fatalf("cart changed: %+v", view)
	}
	p, _ := env.repos.Payments.GetByGatewayOrderID(ctx, "order_bad")
	if p.Status != models.PaymentFailed {
		t.Fatalf("payment status = %s, want failed", p.Status)
	}
}

func TestCompletePlacesOrderAndClearsCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.shop(t, "olga", "Downtown Pizza")
	customer := env.user(t, "carla", models.RoleCustomer)
	env.fillCart(t, customer.ID, f)
	expectGatewayOrder(env, "order_ok")
	if _, err := env.svc.Checkout.StartPayment(ctx, customer.ID, f.shop.ID); err != nil {
		t.Fatalf("start payment: %v", err)
	}
	env.gateway.EXPECT().VerifySignature("order_ok", "pay_ok", "sig").Return(nil)

	conf := Confirmation{GatewayOrderID: "order_ok", GatewayPaymentID: "pay_ok", Signature: "sig"}
	order, err := env.svc.Checkout.Complete(ctx, customer.ID, f.shop.ID, conf)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if order.Status != models.StatusPending || !order.Total.Equal(decimal.RequireFromString("29.99")) || order.PaymentRef != "pay_ok" {
		t.Fatalf("order = %+v", order)
	}
	if len(order.Items) != 2 {
		t.Fatalf("order items = %+v", order.Items)
	}

	view, err := env.svc.Cart.Get(ctx, customer.ID, f.shop.ID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(view.Cart.Lines) != 0 {
		t.Fatalf("cart not cleared: %+v", view.Cart.Lines)
	}
	p, _ := env.repos.Payments.GetByGatewayOrderID(ctx, "order_ok")
	if p.Status != models.PaymentPaid || p.OrderID == nil || *p.OrderID != order.ID {
		t.Fatalf("payment = %+v", p)
	}

	// The same confirmation cannot be replayed into a second order.
	if _, err := env.svc.Checkout.Complete(ctx, customer.ID, f.shop.ID, conf); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("replay: err = %v, want conflict", err)
	}
}

func TestCompleteRejectsRepricedCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.shop(t, "olga", "Downtown Pizza")
	customer := env.user(t, "carla", models.RoleCustomer)
	env.fillCart(t, customer.ID, f)
	expectGatewayOrder(env, "order_drift")
	if _, err := env.svc.Checkout.StartPayment(ctx, customer.ID, f.shop.ID); err != nil {
		t.Fatalf("start payment: %v", err)
	}
	if _, err := env.svc.Menu.UpdateItem(ctx, f.owner.ID, f.pizza.ID, MenuItemInput{
		CategoryID: f.category.ID, Name: "Margherita", Price: decimal.RequireFromString("12.00"),
	}); err != nil {
		t.Fatalf("reprice pizza: %v", err)
	}
	env.gateway.EXPECT().VerifySignature("order_drift", "pay_2", "sig").Return(nil)

	_, err := env.svc.Checkout.Complete(ctx, customer.ID, f.shop.ID, Confirmation{
		GatewayOrderID: "order_drift", GatewayPaymentID: "pay_2", Signature: "sig",
	})
	if !apperr.Is(err, apperr.KindPaymentFailed) {
		t.Fatalf("err = %v, want payment failed", err)
	}
}

func TestAbortKeepsCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := env.shop(t, "olga", "Downtown Pizza")
	customer := env.user(t, "carla", models.RoleCustomer)
	stranger := env.user(t, "sam", models.RoleCustomer)
	env.fillCart(t, customer.ID, f)
	expectGatewayOrder(env, "order_dismissed")
	if _, err := env.svc.Checkout.StartPayment(ctx, customer.ID, f.shop.ID); err != nil {
		t.Fatalf("start payment: %v", err)
	}

	if err := env.svc.Checkout.Abort(ctx, stranger.ID, "order_dismissed"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("abort by stranger: err = %v, want not found", err)
	}
	if err := env.svc.Checkout.Abort(ctx, customer.ID, "order_dismissed"); err != nil {
		t.Fatalf("abort: %v", err)
	}
	p, _ := env.repos.Payments.GetByGatewayOrderID(ctx, "order_dismissed")
	if p.Status != models.PaymentFailed {
		t.Fatalf("payment status = %s", p.Status)
	}
	view, _ := env.svc.Cart.Get(ctx, customer.ID, f.shop.ID)
	if len(view.Cart.Lines) != 2 {
		t.Fatalf("cart lines = %d, want 2", len(view.Cart.Lines))
	}
}
