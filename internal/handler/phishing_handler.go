package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"sokoni/market/internal/service/phishing"
)

type PhishingHandler struct {
	client *phishing.Client
}

func NewPhishingHandler(client *phishing.Client) *PhishingHandler {
	return &PhishingHandler{client: client}
}

type predictURLRequest struct {
	URL string `json:"url"`
}

func (h *PhishingHandler) CheckURL(w http.ResponseWriter, r *http.Request) {
	var req predictURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	verdict, err := h.client.CheckURL(r.Context(), req.URL)
	if err != nil {
		h.classifierError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

type predictEmailRequest struct {
	Subject     string `json:"subject"`
	Text        string `json:"text"`
	FromAddress string `json:"from_address"`
}

func (h *PhishingHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var req predictEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	verdict, err := h.client.CheckEmail(r.Context(), req.Subject, req.Text, req.FromAddress)
	if err != nil {
		h.classifierError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

type predictRequest struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Check classifies a URL and an email body in one request.
func (h *PhishingHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" && req.Text == "" {
		writeError(w, http.StatusBadRequest, "url or text is required")
		return
	}

	verdict, err := h.client.CheckBoth(r.Context(), req.URL, req.Text)
	if err != nil {
		h.classifierError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

func (h *PhishingHandler) classifierError(w http.ResponseWriter, err error) {
	fmt.Printf("Error calling classifier: %v\n", err)

	var apiErr *phishing.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": apiErr.Detail})
		return
	}
	writeError(w, http.StatusBadGateway, "classifier request failed")
}
