package daraja

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig(apiURL string) Config {
	return Config{
		APIURL:         apiURL,
		ConsumerKey:    "consumer_key",
		ConsumerSecret: "consumer_secret",
		ShortCode:      "174379",
		Passkey:        "test_passkey",
		CallbackURL:    "https://example.com/callback",
	}
}

func TestSTKPassword(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)
	password, timestamp := stkPassword("174379", "test_passkey", at)

	assert.Equal(t, "20240501123045", timestamp)
	expected := base64.StdEncoding.EncodeToString([]byte("174379" + "test_passkey" + "20240501123045"))
	assert.Equal(t, expected, password)
}

func TestSTKPush_Success(t *testing.T) {
	tokenCalls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			tokenCalls++
			expectedAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("consumer_key:consumer_secret"))
			if r.Header.Get("Authorization") != expectedAuth {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			assert.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": "test-token",
				"expires_in":   "3599",
			})

		case "/mpesa/stkpush/v1/processrequest":
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			var req map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			timestamp, _ := req["Timestamp"].(string)
			expectedPassword := base64.StdEncoding.EncodeToString([]byte("174379" + "test_passkey" + timestamp))
			assert.Equal(t, expectedPassword, req["Password"])
			assert.Equal(t, "174379", req["BusinessShortCode"])
			assert.Equal(t, "CustomerPayBillOnline", req["TransactionType"])
			assert.Equal(t, float64(1), req["Amount"])
			assert.Equal(t, "254712345678", req["PartyA"])
			assert.Equal(t, "254712345678", req["PhoneNumber"])
			assert.Equal(t, "174379", req["PartyB"])
			assert.Equal(t, "https://example.com/callback", req["CallBackURL"])
			assert.Equal(t, "Order-abc123", req["AccountReference"])

			json.NewEncoder(w).Encode(map[string]string{
				"MerchantRequestID":   "29115-34620561-1",
				"CheckoutRequestID":   "ws_CO_191220191020363925",
				"ResponseCode":        "0",
				"ResponseDescription": "Success. Request accepted for processing",
			})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL))

	checkoutID, err := client.STKPush(context.Background(), "254712345678", "Order-abc123", 1)
	assert.NoError(t, err)
	assert.Equal(t, "ws_CO_191220191020363925", checkoutID)

	// Second push reuses the cached token.
	_, err = client.STKPush(context.Background(), "254712345678", "Order-abc123", 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, tokenCalls, "token should be fetched once and cached")
}

func TestSTKPush_GatewayError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"requestId":"1234","errorCode":"500.001.1001","errorMessage":"Invalid Authentication passed"}`))
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL))

	_, err := client.STKPush(context.Background(), "254712345678", "Order-1", 1)
	assert.Error(t, err)

	var gerr *GatewayError
	if assert.ErrorAs(t, err, &gerr) {
		assert.Equal(t, "500.001.1001", gerr.Code)
		assert.Equal(t, "Invalid Authentication passed", gerr.Message)
		assert.Equal(t, http.StatusInternalServerError, gerr.Status)
	}
}

func TestSTKPush_TokenRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorCode":"400.008.01","errorMessage":"Invalid grant type passed"}`))
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL))

	_, err := client.STKPush(context.Background(), "254712345678", "Order-1", 1)
	assert.Error(t, err)

	var gerr *GatewayError
	if assert.ErrorAs(t, err, &gerr) {
		assert.Equal(t, "400.008.01", gerr.Code)
	}
}

func TestSTKPush_UnstructuredError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL))

	_, err := client.STKPush(context.Background(), "254712345678", "Order-1", 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 502")
}

func TestAccessToken_EmptyToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"expires_in": "3599"})
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL))

	_, err := client.accessToken(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty access token")
}
