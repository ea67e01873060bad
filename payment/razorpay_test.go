package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"food-ordering-api/apperr"

	"github.com/shopspring/decimal"
)

func TestToMinorUnits(t *testing.T) {
	cases := map[string]int64{
		"29.99":  2999,
		"25":     2500,
		"0.01":   1,
		"10.005": 1001,
	}
	for in, want := range cases {
		if got := ToMinorUnits(decimal.RequireFromString(in)); got != want {
			t.Errorf("ToMinorUnits(%s) = %d, want %d", in, got, want)
		}
	}
}

func TestCreateOrderSendsMinorUnits(t *testing.T) {
	var received createOrderBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_id" || pass != "secret" {
			t.Errorf("basic auth = %q/%q", user, pass)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(GatewayOrder{
			ID: "order_abc", Entity: "order", Amount: received.Amount, AmountDue: received.Amount,
			Currency: received.Currency, Receipt: received.Receipt, Status: "created",
		})
	}))
	defer srv.Close()

	gw := NewRazorpay(srv.URL+"/", "key_id", "secret")
	order, err := gw.CreateOrder(context.Background(), CreateOrderRequest{
		Amount: decimal.RequireFromString("29.99"), Currency: "inr", Receipt: "rcpt_1",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if received.Amount != 2999 || received.Currency != "INR" || received.Receipt != "rcpt_1" {
		t.Fatalf("gateway received %+v", received)
	}
	if order.ID != "order_abc" || order.Amount != 2999 {
		t.Fatalf("order = %+v", order)
	}
}

func TestCreateOrderErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		want   apperr.Kind
	}{
		{http.StatusBadRequest, apperr.KindPaymentFailed},
		{http.StatusUnauthorized, apperr.KindPaymentFailed},
		{http.StatusBadGateway, apperr.KindRemoteServiceUnavailable},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
		}))
		gw := NewRazorpay(srv.URL, "k", "s")
		_, err := gw.CreateOrder(context.Background(), CreateOrderRequest{Amount: decimal.NewFromInt(1), Currency: "INR"})
		srv.Close()
		if got := apperr.KindOf(err); got != tc.want {
			t.Errorf("status %d: kind = %v, want %v (%v)", tc.status, got, tc.want, err)
		}
	}

	gw := NewRazorpay("http://127.0.0.1:1", "k", "s")
	_, err := gw.CreateOrder(context.Background(), CreateOrderRequest{Amount: decimal.NewFromInt(1), Currency: "INR"})
	if !apperr.Is(err, apperr.KindRemoteServiceUnavailable) {
		t.Errorf("unreachable gateway: %v", err)
	}
	_, err = gw.CreateOrder(context.Background(), CreateOrderRequest{Amount: decimal.Zero, Currency: "INR"})
	if !apperr.Is(err, apperr.KindValidationFailed) {
		t.Errorf("zero amount: %v", err)
	}
}

func TestVerifySignature(t *testing.T) {
	gw := NewRazorpay("http://unused", "key", "topsecret")
	good := Sign("topsecret", "order_1", "pay_1")

	if err := gw.VerifySignature("order_1", "pay_1", good); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
	bad := []struct{ order, pay, sig string }{
		{"order_1", "pay_2", good},
		{"order_1", "pay_1", Sign("other", "order_1", "pay_1")},
		{"order_1", "pay_1", ""},
	}
	for _, b := range bad {
		if err := gw.VerifySignature(b.order, b.pay, b.sig); !apperr.Is(err, apperr.KindPaymentVerificationFailed) {
			t.Errorf("VerifySignature(%q, %q) = %v", b.order, b.pay, err)
		}
	}
}
