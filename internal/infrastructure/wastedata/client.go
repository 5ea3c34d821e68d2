package wastedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"binday/internal/application/dto"
	appErrors "binday/internal/pkg/errors"
	"binday/internal/pkg/logger"
)

// fetchTimeout bounds the whole fetch round trip.
const fetchTimeout = 5 * time.Second

// Client fetches collection schedules from the remote waste-calendar API.
// Every failure mode (timeout, transport error, non-success status, bad
// payload) surfaces as ErrNetworkUnavailable so callers handle the boundary
// uniformly.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewClient creates a new waste-calendar API client.
func NewClient(baseURL string, log logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: fetchTimeout},
		log:        log,
	}
}

// FetchSchedule retrieves the raw collection events for a location.
func (c *Client) FetchSchedule(ctx context.Context, locationID int) ([]dto.BinDayRaw, error) {
	endpoint, err := url.Parse(c.baseURL + "/api/schedule")
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL: %v", appErrors.ErrNetworkUnavailable, err)
	}
	query := endpoint.Query()
	query.Set("location_id", strconv.Itoa(locationID))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrNetworkUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn(fmt.Sprintf("Schedule fetch for location %d failed: %v", locationID, err))
		return nil, fmt.Errorf("%w: %v", appErrors.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn(fmt.Sprintf("Schedule fetch for location %d returned status %d", locationID, resp.StatusCode))
		return nil, fmt.Errorf("%w: unexpected status %d", appErrors.ErrNetworkUnavailable, resp.StatusCode)
	}

	var raw []dto.BinDayRaw
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", appErrors.ErrNetworkUnavailable, err)
	}
	return raw, nil
}
