// Package geolocation resolves the approximate position of this machine from
// an IP geolocation service.
package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mrlokans/redshift-manager/internal/entities"
)

const (
	DefaultURL     = "https://geoip.fedoraproject.org/city"
	DefaultTimeout = 10 * time.Second
)

// Locator looks up the current location.
type Locator interface {
	Lookup(ctx context.Context) (entities.Location, error)
}

// Client implements Locator against a GeoIP "city" endpoint.
type Client struct {
	httpClient *http.Client
	url        string
}

func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

type cityResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      string   `json:"city"`
	Country   string   `json:"country_name"`
}

// Lookup fetches the location. A response without both coordinates, or with
// both at zero, is a failure.
func (c *Client) Lookup(ctx context.Context) (entities.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return entities.Location{}, fmt.Errorf("%w: create request: %v", ErrLookupFailed, err)
	}
	req.Header.Set("User-Agent", "RedshiftManager/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entities.Location{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entities.Location{}, &StatusError{StatusCode: resp.StatusCode}
	}

	var body cityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return entities.Location{}, fmt.Errorf("%w: decode response: %v", ErrLookupFailed, err)
	}
	if body.Latitude == nil || body.Longitude == nil {
		return entities.Location{}, fmt.Errorf("%w: response has no coordinates", ErrLookupFailed)
	}

	loc := entities.Location{Latitude: *body.Latitude, Longitude: *body.Longitude}
	if !loc.IsSet() {
		return entities.Location{}, fmt.Errorf("%w: response has zero coordinates", ErrLookupFailed)
	}
	return loc, nil
}
