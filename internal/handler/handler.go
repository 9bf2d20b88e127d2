package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	router *chi.Mux

	auth     *AuthHandler
	products *ProductHandler
	orders   *OrderHandler
	payments *PaymentHandler
	phishing *PhishingHandler

	uploadDir string
}

func NewHandler(auth *AuthHandler, products *ProductHandler, orders *OrderHandler, payments *PaymentHandler, phishing *PhishingHandler, uploadDir string) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	h := &Handler{
		router:    router,
		auth:      auth,
		products:  products,
		orders:    orders,
		payments:  payments,
		phishing:  phishing,
		uploadDir: uploadDir,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	r := h.router

	r.Get("/health", h.HealthCheck)

	r.Post("/register", h.auth.Register)
	r.Post("/login", h.auth.Login)
	r.Post("/admin/login", h.auth.AdminLogin)

	r.Get("/products", h.products.List)
	r.Get("/products/{id}", h.products.Get)
	r.Post("/products", h.products.Create)
	r.Put("/products/{id}", h.products.Replace)
	r.Delete("/products/{id}", h.products.Delete)

	r.Post("/orders", h.orders.Place)
	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireAdmin)
		r.Get("/orders/{id}", h.orders.Get)
	})

	r.Post("/payment", h.payments.Process)

	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireUser)
		r.Post("/api/predict", h.phishing.Check)
		r.Post("/api/predict/url", h.phishing.CheckURL)
		r.Post("/api/predict/email", h.phishing.CheckEmail)
	})

	uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.uploadDir)))
	r.Get("/uploads/*", uploads.ServeHTTP)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
