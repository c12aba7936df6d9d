package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client queries the external Identity Authority over HTTP.
//
//	GET {base}/accounts/{account}/credential  → {"balance": <int>}
//	GET {base}/accounts/{account}/suspension  → {"suspended": <bool>}
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client for the given authority endpoint.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Endpoint returns the authority base URL this client talks to.
func (c *Client) Endpoint() string { return c.baseURL }

// CredentialBalance returns the number of identity credentials the account
// holds according to the authority.
func (c *Client) CredentialBalance(ctx context.Context, account string) (int64, error) {
	var out struct {
		Balance int64 `json:"balance"`
	}
	if err := c.get(ctx, fmt.Sprintf("/accounts/%s/credential", url.PathEscape(account)), &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

// IsSuspended reports whether the authority flags the account as suspended.
func (c *Client) IsSuspended(ctx context.Context, account string) (bool, error) {
	var out struct {
		Suspended bool `json:"suspended"`
	}
	if err := c.get(ctx, fmt.Sprintf("/accounts/%s/suspension", url.PathEscape(account)), &out); err != nil {
		return false, err
	}
	return out.Suspended, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity authority: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("identity authority returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("identity authority: decode: %w", err)
	}
	return nil
}
