// Package rentcast provides a RentCast-backed implementation of
// zalert.PropertyService for enriching extracted listing stubs with full
// property records.
package rentcast

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/kmathews/zalert"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the RentCast API root.
const DefaultBaseURL = "https://api.rentcast.io/v1"

// DefaultTimeout is the default timeout for API requests.
const DefaultTimeout = 15 * time.Second

// DefaultRequestsPerSecond is the default client-side rate limit. RentCast
// meters by monthly quota, so this only smooths bursts within a run.
const DefaultRequestsPerSecond = 2.0

// Ensure Client implements zalert.PropertyService at compile time.
var _ zalert.PropertyService = (*Client)(nil)

// Client looks up property records via the RentCast /properties endpoint.
// One API call per lookup.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root. Used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the timeout for API requests.
// Defaults to DefaultTimeout (15s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit sets the client-side requests-per-second cap.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a RentCast client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{Timeout: c.timeout}
	return c
}

// Lookup returns the enriched property for a listing, queried by address.
func (c *Client) Lookup(ctx context.Context, listing *zalert.Listing) (*zalert.Property, error) {
	if listing == nil || listing.Address == "" {
		return nil, zalert.Errorf(zalert.EINVALID, "listing address required for lookup")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + "/properties?" + url.Values{"address": {listing.Address}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, zalert.Errorf(zalert.EUNAVAILABLE, "rentcast request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, zalert.Errorf(zalert.ENOTFOUND, "no property record for %q", listing.Address)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, zalert.Errorf(zalert.EUNAVAILABLE, "rentcast returned HTTP %d", resp.StatusCode)
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, zalert.Errorf(zalert.EINTERNAL, "failed to decode rentcast response: %v", err)
	}
	if len(records) == 0 {
		return nil, zalert.Errorf(zalert.ENOTFOUND, "no property record for %q", listing.Address)
	}

	return MapRecord(records[0], listing), nil
}
