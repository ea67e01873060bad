package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"food-ordering-api/apperr"
)

// Razorpay talks to a Razorpay-compatible orders API.
type Razorpay struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

func NewRazorpay(baseURL, keyID, keySecret string) *Razorpay {
	return &Razorpay{
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Razorpay) KeyID() string { return r.keyID }

type createOrderBody struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type gatewayErrorBody struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (r *Razorpay) CreateOrder(ctx context.Context, req CreateOrderRequest) (*GatewayOrder, error) {
	if !req.Amount.IsPositive() {
		return nil, apperr.Validation("amount must be greater than zero")
	}
	if req.Currency == "" {
		return nil, apperr.Validation("currency is required")
	}
	payload, err := json.Marshal(createOrderBody{
		Amount:   ToMinorUnits(req.Amount),
		Currency: strings.ToUpper(req.Currency),
		Receipt:  req.Receipt,
	})
	if err != nil {
		return nil, apperr.Internal(err, "encode gateway order")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Internal(err, "build gateway request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(r.keyID, r.keySecret)

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, apperr.RemoteUnavailable(err, "payment gateway unreachable")
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperr.RemoteUnavailable(err, "payment gateway response unreadable")
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, apperr.RemoteUnavailable(fmt.Errorf("status %d", resp.StatusCode), "payment gateway unavailable")
	case resp.StatusCode >= 400:
		var gerr gatewayErrorBody
		_ = json.Unmarshal(body, &gerr)
		msg := gerr.Error.Description
		if msg == "" {
			msg = fmt.Sprintf("gateway rejected order with status %d", resp.StatusCode)
		}
		return nil, apperr.PaymentFailed("%s", msg)
	}

	var order GatewayOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, apperr.RemoteUnavailable(err, "payment gateway returned malformed order")
	}
	return &order, nil
}

// VerifySignature checks the widget's signature, the hex HMAC-SHA256 of
// "orderID|paymentID" keyed with the secret.
func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return apperr.PaymentVerificationFailed("order id, payment id and signature are required")
	}
	expected := Sign(r.keySecret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return apperr.PaymentVerificationFailed("payment signature mismatch")
	}
	return nil
}

// Sign computes the signature the gateway attaches to a successful payment.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
