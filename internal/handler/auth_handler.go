package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"sokoni/market/internal/model"
	"sokoni/market/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if err := h.svc.Register(r.Context(), req.Name, req.Email, req.Phone, req.Password); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			writeMessage(w, http.StatusBadRequest, "User already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeMessage(w, http.StatusOK, "User registered successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Login successful",
		"token":   token,
	})
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.AdminLogin(r.Context(), req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"success": false,
				"message": "Invalid password",
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
	})
}

func (h *AuthHandler) RequireUser(next http.Handler) http.Handler {
	return h.requireRole(model.RoleUser, next)
}

func (h *AuthHandler) RequireAdmin(next http.Handler) http.Handler {
	return h.requireRole(model.RoleAdmin, next)
}

func (h *AuthHandler) requireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if _, err := h.svc.Verify(r.Context(), token, role); err != nil {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return token
}
