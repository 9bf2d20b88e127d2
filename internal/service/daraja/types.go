package daraja

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GatewayError is the gateway's structured error body.
type GatewayError struct {
	RequestID string `json:"requestId"`
	Code      string `json:"errorCode"`
	Message   string `json:"errorMessage"`
	Status    int    `json:"-"`
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("daraja gateway error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("daraja gateway error %s (status %d)", e.Code, e.Status)
}

func decodeGatewayError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var gerr GatewayError
	if err := json.Unmarshal(body, &gerr); err == nil && (gerr.Code != "" || gerr.Message != "") {
		gerr.Status = resp.StatusCode
		return &gerr
	}
	return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
}
