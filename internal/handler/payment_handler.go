package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"sokoni/market/internal/service"
)

type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type paymentRequest struct {
	OrderID       string `json:"order_id"`
	PaymentMethod string `json:"payment_method"`
	PhoneNumber   string `json:"phone_number"`
}

func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Process(r.Context(), req.OrderID, req.PaymentMethod, req.PhoneNumber)
	if err != nil {
		fmt.Printf("Error processing payment: %v\n", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": service.GatewayMessage(err),
		})
		return
	}

	resp := map[string]any{
		"success": true,
		"message": result.Message,
	}
	if result.CheckoutRequestID != "" {
		resp["checkoutRequestId"] = result.CheckoutRequestID
	}
	writeJSON(w, http.StatusOK, resp)
}
