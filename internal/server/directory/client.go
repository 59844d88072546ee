// Package directory reads the collaborator snapshot published by the external
// user directory.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/collabsync/internal/common"
)

const (
	DefaultURL     = "https://jsonplaceholder.typicode.com/users"
	DefaultTimeout = 10 * time.Second

	fetchFailedMessage = "failed to fetch users from external API"

	// maxErrorBody caps how much of a failed response ends up in the error.
	maxErrorBody = 512
)

// User is one directory record, flattened.
// City and Company are empty when the directory omits them.
type User struct {
	Name    string
	Email   string
	City    string
	Company string
}

// wireUser is the upstream JSON shape.
type wireUser struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address *struct {
		City string `json:"city"`
	} `json:"address"`
	Company *struct {
		Name string `json:"name"`
	} `json:"company"`
}

func (w wireUser) user() User {
	u := User{Name: w.Name, Email: w.Email}
	if w.Address != nil {
		u.City = w.Address.City
	}
	if w.Company != nil {
		u.Company = w.Company.Name
	}
	return u
}

// Config contains configuration for Client.
type Config struct {
	// URL returns the full snapshot as a JSON array.
	URL string

	// Timeout bounds one Fetch. Zero means DefaultTimeout.
	Timeout time.Duration

	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client
}

// Client fetches the directory over HTTP.
type Client struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{url: url, timeout: timeout, httpClient: httpClient}
}

// Fetch returns the current snapshot. Every failure carries
// common.ErrorUpstreamUnavailable with the underlying cause attached.
func (c *Client) Fetch(ctx context.Context) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	users, err := c.fetch(ctx)
	if err != nil {
		return nil, common.NewError(common.ErrorUpstreamUnavailable, fetchFailedMessage, err)
	}
	return users, nil
}

func (c *Client) fetch(ctx context.Context) ([]User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return decode(resp.Body)
}

func decode(r io.Reader) ([]User, error) {
	var wire []wireUser
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode users response: %w", err)
	}

	users := make([]User, len(wire))
	for i, w := range wire {
		users[i] = w.user()
	}
	return users, nil
}
