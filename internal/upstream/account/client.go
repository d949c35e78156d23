// Package account is the client of the account service.
package account

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aliskhannn/banking-notifier/internal/model"
	"github.com/aliskhannn/banking-notifier/pkg/httpclient"
)

const generalDataPath = "/api/accounts/fetch_general_data?accountNumber="

type getter interface {
	Get(ctx context.Context, path string) (httpclient.Response, error)
}

// Client talks to the account service.
type Client struct {
	http getter
}

// NewClient creates an account service client on top of an HTTP client bound to its base URL.
func NewClient(hc getter) *Client {
	return &Client{http: hc}
}

// VerifyAccount reports whether the account exists. Any 2xx answer means it does, whatever the body.
// A 4xx answer means it does not; 5xx and transport failures are errors.
func (c *Client) VerifyAccount(ctx context.Context, accountNumber string) (model.Verification, error) {
	resp, err := c.http.Get(ctx, generalDataPath+url.QueryEscape(accountNumber))
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
