package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Client checks Turnstile tokens against the siteverify endpoint. The
// oracle's internals are opaque; only the success flag matters.
type Client struct {
	httpClient *http.Client
	secret     string
	endpoint   string
}

// NewClient constructs a verification client.
func NewClient(secret string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		secret:     secret,
		endpoint:   defaultEndpoint,
	}
}

type siteverifyRequest struct {
	Secret   string `json:"secret"`
	Response string `json:"response"`
	RemoteIP string `json:"remoteip"`
}

type siteverifyResponse struct {
	Success bool `json:"success"`
}

// Verify reports whether the token proves a non-automated origin for the
// given client address.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	payload, err := json.Marshal(siteverifyRequest{
		Secret:   c.secret,
		Response: token,
		RemoteIP: remoteIP,
	})
	if err != nil {
		return false, fmt.Errorf("encode siteverify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("call siteverify: %w", err)
	}
	defer res.Body.Close()

	var parsed siteverifyResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return false, fmt.Errorf("decode siteverify response: %w", err)
	}

	return parsed.Success, nil
}
