// Package gmaps provides a Google Distance Matrix implementation of
// zalert.CommuteService for looking up drive times to labeled destinations.
package gmaps

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/kmathews/zalert"
)

// DefaultBaseURL is the Distance Matrix endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

// DefaultTimeout is the default timeout for API requests.
const DefaultTimeout = 15 * time.Second

// Ensure Client implements zalert.CommuteService at compile time.
var _ zalert.CommuteService = (*Client)(nil)

// Client looks up drive times via the Distance Matrix API, one call per
// origin for all destinations.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used in tests.
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

// NewClient creates a Distance Matrix client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{Timeout: c.timeout}
	return c
}

// response mirrors the Distance Matrix JSON we consume.
type response struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Value int `json:"value"` // seconds
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// CommuteTimes returns minutes of driving time per destination label,
// omitting destinations the API could not resolve. Labels are sorted before
// the call so label-to-element pairing is deterministic.
func (c *Client) CommuteTimes(ctx context.Context, origin string, destinations map[string]string) (map[string]int, error) {
	if origin == "" {
		return nil, zalert.Errorf(zalert.EINVALID, "commute origin required")
	}
	if len(destinations) == 0 {
		return map[string]int{}, nil
	}

	labels := make([]string, 0, len(destinations))
	for label := range destinations {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	addresses := make([]string, len(labels))
	for i, label := range labels {
		addresses[i] = destinations[label]
	}

	query := url.Values{
		"origins":        {origin},
		"destinations":   {strings.Join(addresses, "|")},
		"key":            {c.apiKey},
		"mode":           {"driving"},
		"departure_time": {"now"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, zalert.Errorf(zalert.EUNAVAILABLE, "distance matrix request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, zalert.Errorf(zalert.EUNAVAILABLE, "distance matrix returned HTTP %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, zalert.Errorf(zalert.EINTERNAL, "failed to decode distance matrix response: %v", err)
	}
	if body.Status != "OK" {
		return nil, zalert.Errorf(zalert.EUNAVAILABLE, "distance matrix status %q", body.Status)
	}
	if len(body.Rows) == 0 {
		return map[string]int{}, nil
	}

	results := make(map[string]int)
	for i, element := range body.Rows[0].Elements {
		if i >= len(labels) {
			break
		}
		if element.Status != "OK" {
			continue
		}
		results[labels[i]] = int(math.Round(float64(element.Duration.Value) / 60))
	}

	return results, nil
}
