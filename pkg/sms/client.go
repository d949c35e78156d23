// Package sms provides a simple client for sending notifications through an HTTP SMS provider.
//
// The provider is expected to accept a JSON POST with the destination number, the sender name
// and the message text, authenticated with a bearer token.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client represents an SMS provider client.
type Client struct {
	url    string       // provider endpoint
	token  string       // bearer token for authentication
	sender string       // sender name shown to the recipient
	client *http.Client // HTTP client used to make requests
}

// NewClient creates a new SMS Client instance.
func NewClient(url, token, sender string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		token:  token,
		sender: sender,
		client: &http.Client{Timeout: timeout},
	}
}

// sendRequest represents the payload accepted by the provider.
type sendRequest struct {
	To   string `json:"to"`   // destination phone number
	From string `json:"from"` // sender name
	Text string `json:"text"` // message text
}

// SendSMS sends a text message to the given phone number.
//
// It returns an error if the request fails or the provider responds with a non-2xx status.
// ctx is only checked before the request is made; the request itself is bounded by the client timeout.
func (c *Client) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	payload, err := json.Marshal(sendRequest{
		To:   to,
		From: c.sender,
		Text: body,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms provider error: %s", resp.Status)
	}

	return nil
}
