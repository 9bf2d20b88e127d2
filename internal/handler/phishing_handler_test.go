package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sokoni/market/internal/handler"
	"sokoni/market/internal/service/phishing"

	"github.com/stretchr/testify/assert"
)

func postPredict(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestPredictURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict/url", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"status": "phishing", "probability": 0.93})
	}))
	defer ts.Close()

	h := handler.NewPhishingHandler(phishing.NewClient(phishing.Config{APIURL: ts.URL}))

	w := postPredict(h.CheckURL, `{"url":"http://evil.example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var verdict phishing.Verdict
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&verdict))
	assert.Equal(t, "phishing", verdict.Status)
	if assert.NotNil(t, verdict.Confidence) {
		assert.InDelta(t, 93.0, *verdict.Confidence, 0.001)
	}
}

func TestPredictURL_MissingURL(t *testing.T) {
	h := handler.NewPhishingHandler(phishing.NewClient(phishing.Config{APIURL: "http://127.0.0.1:1"}))

	w := postPredict(h.CheckURL, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictEmail_MissingText(t *testing.T) {
	h := handler.NewPhishingHandler(phishing.NewClient(phishing.Config{APIURL: "http://127.0.0.1:1"}))

	w := postPredict(h.CheckEmail, `{"subject":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictCombined(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/predict/url":
			json.NewEncoder(w).Encode(map[string]any{"status": "phishing", "probability": 0.9})
		case "/predict/email":
			json.NewEncoder(w).Encode(map[string]any{"status": "legitimate", "probability": 0.1})
		}
	}))
	defer ts.Close()

	h := handler.NewPhishingHandler(phishing.NewClient(phishing.Config{APIURL: ts.URL}))

	w := postPredict(h.Check, `{"url":"http://evil.example.com","text":"dear customer"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var combined phishing.CombinedVerdict
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&combined))
	if assert.NotNil(t, combined.URL) {
		assert.Equal(t, "phishing", combined.URL.Status)
	}
	if assert.NotNil(t, combined.Email) {
		assert.Equal(t, "legitimate", combined.Email.Status)
	}
}

func TestPredictCombined_NothingToCheck(t *testing.T) {
	h := handler.NewPhishingHandler(phishing.NewClient(phishing.Config{APIURL: "http://127.0.0.1:1"}))

	w := postPredict(h.Check, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictURL_ClassifierDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"URL model not loaded"}`))
	}))
	defer ts.Close()

	h := handler.NewPhishingHandler(phishing.NewClient(phishing.Config{APIURL: ts.URL}))

	w := postPredict(h.CheckURL, `{"url":"http://evil.example.com"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp map[string]string
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "URL model not loaded", resp["error"])
}
