// Package transaction is the client of the transaction service.
package transaction

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aliskhannn/banking-notifier/internal/model"
	"github.com/aliskhannn/banking-notifier/pkg/httpclient"
)

const (
	getPath       = "/api/transactions/get/"
	feesPath      = "/api/transactions/calculate-fees/"
	antiFraudPath = "/api/transactions/anti-fraud-check/"
)

type getter interface {
	Get(ctx context.Context, path string) (httpclient.Response, error)
}

// Client talks to the transaction service.
type Client struct {
	http getter
}

// NewClient creates a transaction service client on top of an HTTP client bound to its base URL.
func NewClient(hc getter) *Client {
	return &Client{http: hc}
}

// VerifyTransaction reports whether the transaction exists.
// A 4xx answer means it does not; 5xx and transport failures are errors.
func (c *Client) VerifyTransaction(ctx context.Context, id string) (model.Verification, error) {
	resp, err := c.http.Get(ctx, getPath+url.PathEscape(id))
	if err != nil {
		return model.Verification{}, err
	}

	switch {
	case resp.OK():
		return model.Verification{Exists: true, Raw: resp.Body}, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return model.Verification{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	default:
		return model.Verification{Exists: false, Raw: resp.Body}, nil
	}
}

// CalculateFees returns the fee of the transaction as text.
func (c *Client) CalculateFees(ctx context.Context, id string) (model.Assessment, error) {
	return c.assess(ctx, feesPath+url.PathEscape(id))
}

// CheckFraud returns the anti-fraud verdict of the transaction as text.
func (c *Client) CheckFraud(ctx context.Context, id string) (model.Assessment, error) {
	return c.assess(ctx, antiFraudPath+url.PathEscape(id))
}

func (c *Client) assess(ctx context.Context, path string) (model.Assessment, error) {
	resp, err := c.http.Get(ctx, path)
	if err != nil {
		return model.Assessment{}, err
	}

	text := strings.TrimSpace(string(resp.Body))
	if !resp.OK() {
		if text == "" {
			text = http.StatusText(resp.StatusCode)
		}
		return model.Assessment{Success: false, Text: fmt.Sprintf("status %d: %s", resp.StatusCode, text)}, nil
	}

	return model.Assessment{Success: true, Text: text}, nil
}
