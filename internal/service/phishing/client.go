// Package phishing is a client for the external phishing-classification
// service. It normalizes the classifier's loosely-specified responses
// into a single verdict shape.
package phishing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	APIURL string
	// APIKey is sent as a bearer token when set.
	APIKey string
}

type Client struct {
	client *http.Client
	config Config
}

func NewClient(cfg Config) *Client {
	return &Client{
		client: &http.Client{
			Transport: &authTransport{
				APIKey: cfg.APIKey,
				Base:   http.DefaultTransport,
			},
			Timeout: 15 * time.Second,
		},
		config: cfg,
	}
}

type authTransport struct {
	APIKey string
	Base   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.APIKey)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")
	return t.Base.RoundTrip(req)
}

func (c *Client) CheckURL(ctx context.Context, rawURL string) (*Verdict, error) {
	return c.predict(ctx, "/predict/url", map[string]string{"url": rawURL})
}

func (c *Client) CheckEmail(ctx context.Context, subject, text, fromAddress string) (*Verdict, error) {
	return c.predict(ctx, "/predict/email", map[string]string{
		"subject":      subject,
		"text":         text,
		"from_address": fromAddress,
	})
}

type CombinedVerdict struct {
	URL   *Verdict `json:"url,omitempty"`
	Email *Verdict `json:"email,omitempty"`
}

// CheckBoth classifies a URL and an email body concurrently; either may
// be empty.
func (c *Client) CheckBoth(ctx context.Context, rawURL, emailText string) (*CombinedVerdict, error) {
	g, ctx := errgroup.WithContext(ctx)
	var out CombinedVerdict

	if rawURL != "" {
		g.Go(func() error {
			v, err := c.CheckURL(ctx, rawURL)
			if err != nil {
				return fmt.Errorf("failed to check url: %w", err)
			}
			out.URL = v
			return nil
		})
	}

	if emailText != "" {
		g.Go(func() error {
			v, err := c.CheckEmail(ctx, "", emailText, "")
			if err != nil {
				return fmt.Errorf("failed to check email: %w", err)
			}
			out.Email = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) predict(ctx context.Context, path string, payload any) (*Verdict, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr APIError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Detail != "" {
			apiErr.StatusCode = resp.StatusCode
			return nil, &apiErr
		}
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(raw))
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return parseVerdict(raw), nil
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}
