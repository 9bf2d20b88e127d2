package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"sokoni/market/internal/model"
	"sokoni/market/internal/service"

	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type placeOrderRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.svc.PlaceOrder(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProductNotFound):
			writeError(w, http.StatusNotFound, "Product not found")
		case errors.Is(err, model.ErrInsufficientStock):
			writeError(w, http.StatusBadRequest, "Insufficient quantity")
		case errors.Is(err, model.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":      order.ID,
		"message": "Order placed successfully",
	})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, order)
}
