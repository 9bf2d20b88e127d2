package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sokoni/market/internal/service/daraja"

	"github.com/stretchr/testify/assert"
)

func TestProcess_NonMobileMoney(t *testing.T) {
	svc := NewPaymentService(nil)
	svc.Delay = 5 * time.Millisecond

	// The order id is never validated on this path.
	result, err := svc.Process(context.Background(), "no-such-order", "card", "")
	assert.NoError(t, err)
	assert.Equal(t, "Payment processed successfully", result.Message)
	assert.Empty(t, result.CheckoutRequestID)
}

func TestProcess_NonMobileMoney_ContextCancelled(t *testing.T) {
	svc := NewPaymentService(nil)
	svc.Delay = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := svc.Process(ctx, "order-1", "card", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProcess_MobileMoney(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
		case "/mpesa/stkpush/v1/processrequest":
			var req map[string]any
			json.NewDecoder(r.Body).Decode(&req)
			assert.Equal(t, "Order-abc", req["AccountReference"])
			json.NewEncoder(w).Encode(map[string]string{"CheckoutRequestID": "ws_CO_42"})
		}
	}))
	defer ts.Close()

	gateway := daraja.NewClient(daraja.Config{
		APIURL:         ts.URL,
		ConsumerKey:    "k",
		ConsumerSecret: "s",
		ShortCode:      "174379",
		Passkey:        "pk",
		CallbackURL:    "https://example.com/callback",
	})
	svc := NewPaymentService(gateway)

	result, err := svc.Process(context.Background(), "abc", MethodMobileMoney, "254712345678")
	assert.NoError(t, err)
	assert.Equal(t, "ws_CO_42", result.CheckoutRequestID)
	assert.Contains(t, result.Message, "STK Push sent")
}

func TestGatewayMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"credentials code",
			&daraja.GatewayError{Code: "500.001.1001", Message: "Invalid Authentication passed"},
			"Invalid credentials for M-Pesa STK Push. Please check your passkey and shortcode.",
		},
		{
			"gateway message",
			&daraja.GatewayError{Code: "400.002.02", Message: "Bad Request - Invalid PhoneNumber"},
			"M-Pesa error: Bad Request - Invalid PhoneNumber",
		},
		{
			"code only",
			&daraja.GatewayError{Code: "404.001.03"},
			"M-Pesa error code: 404.001.03",
		},
		{
			"plain error",
			errors.New("connection refused"),
			"Payment processing failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GatewayMessage(tt.err))
		})
	}
}
