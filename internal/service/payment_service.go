package service

import (
	"context"
	"errors"
	"time"

	"sokoni/market/internal/service/daraja"
)

const MethodMobileMoney = "mobile-money"

// sandboxAmount is the fixed test value the gateway sandbox accepts; the
// order total is not charged.
const sandboxAmount = 1

type PaymentService struct {
	gateway *daraja.Client

	// Delay is the simulated processing time for non mobile-money methods.
	Delay time.Duration
}

func NewPaymentService(gateway *daraja.Client) *PaymentService {
	return &PaymentService{gateway: gateway, Delay: time.Second}
}

type PaymentResult struct {
	Message           string
	CheckoutRequestID string
}

// Process initiates payment for an order. Non mobile-money methods are a
// simulated stand-in: they succeed unconditionally after Delay, without
// validating the order id. Mobile-money drives an STK push through the
// gateway, echoing the order id as the account reference; the gateway's
// asynchronous confirmation callback is not handled.
func (s *PaymentService) Process(ctx context.Context, orderID, method, phone string) (*PaymentResult, error) {
	if method != MethodMobileMoney {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return &PaymentResult{Message: "Payment processed successfully"}, nil
	}

	checkoutID, err := s.gateway.STKPush(ctx, phone, "Order-"+orderID, sandboxAmount)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{
		Message:           "STK Push sent to your phone. Please enter your PIN to complete payment.",
		CheckoutRequestID: checkoutID,
	}, nil
}

// GatewayMessage maps a payment failure to user-facing text.
func GatewayMessage(err error) string {
	var gerr *daraja.GatewayError
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == "500.001.1001":
			return "Invalid credentials for M-Pesa STK Push. Please check your passkey and shortcode."
		case gerr.Message != "":
			return "M-Pesa error: " + gerr.Message
		case gerr.Code != "":
			return "M-Pesa error code: " + gerr.Code
		}
	}
	return "Payment processing failed"
}
