// Package daraja is a client for the Safaricom Daraja mobile-money
// gateway: OAuth token exchange plus Lipa Na M-Pesa STK push.
package daraja

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type Config struct {
	APIURL         string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
}

type Client struct {
	client *http.Client
	config Config

	tokenMu     sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg Config) *Client {
	return &Client{
		client: &http.Client{Timeout: 10 * time.Second},
		config: cfg,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	// Seconds, but the gateway sends it as a string.
	ExpiresIn string `json:"expires_in"`
}

// accessToken exchanges the consumer credentials for a bearer token,
// caching it until shortly before expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	url := c.config.APIURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.config.ConsumerKey + ":" + c.config.ConsumerSecret))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeGatewayError(resp)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("gateway returned an empty access token")
	}

	// Refresh a minute early; fall back to the gateway's usual 3599s.
	ttl := 50 * time.Minute
	if secs, err := strconv.Atoi(tok.ExpiresIn); err == nil && secs > 60 {
		ttl = time.Duration(secs-60) * time.Second
	}
	c.token = tok.AccessToken
	c.tokenExpiry = time.Now().Add(ttl)

	return c.token, nil
}

// stkPassword derives the Lipa Na M-Pesa password: base64 of
// shortcode + passkey + timestamp, timestamp formatted YYYYMMDDHHmmss.
func stkPassword(shortCode, passkey string, t time.Time) (password, timestamp string) {
	timestamp = t.Format("20060102150405")
	password = base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))
	return password, timestamp
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
}

// STKPush prompts the phone to authorize a payment and returns the
// gateway's checkout-tracking id. The eventual outcome arrives on the
// configured callback URL and is not consumed here.
func (c *Client) STKPush(ctx context.Context, phone, accountRef string, amount int64) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	password, timestamp := stkPassword(c.config.ShortCode, c.config.Passkey, time.Now())
	payload := stkPushRequest{
		BusinessShortCode: c.config.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            amount,
		PartyA:            phone,
		PartyB:            c.config.ShortCode,
		PhoneNumber:       phone,
		CallBackURL:       c.config.CallbackURL,
		AccountReference:  accountRef,
		TransactionDesc:   "Payment for order",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := c.config.APIURL + "/mpesa/stkpush/v1/processrequest"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit stk push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeGatewayError(resp)
	}

	var out stkPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode stk push response: %w", err)
	}
	return out.CheckoutRequestID, nil
}
