//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package extract pulls the raw bank holiday and weather feeds over HTTP
// and stores them unmodified under the raw data directory.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pgEdge/pgedge-tourcast/internal/logging"
	"github.com/pgEdge/pgedge-tourcast/pkg/version"
)

// HourlyVariables are the hourly series requested from the weather API.
var HourlyVariables = []string{
	"temperature_2m",
	"precipitation",
	"snowfall",
	"wind_speed_10m",
	"wind_gusts_10m",
	"weather_code",
}

// Client fetches raw JSON documents. Requests are not retried.
type Client struct {
	client *http.Client
	log    zerolog.Logger
}

// NewClient creates a client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{Timeout: timeout},
		log:    logging.Component("extract"),
	}
}

// ForecastQuery identifies a single weather pull.
type ForecastQuery struct {
	Latitude  float64
	Longitude float64
	Model     string
	Timezone  string
}

// Values encodes the query parameters.
func (q ForecastQuery) Values() url.Values {
	v := url.Values{}
	v.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	v.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	v.Set("hourly", strings.Join(HourlyVariables, ","))
	v.Set("models", q.Model)
	v.Set("timezone", q.Timezone)
	return v
}

// FetchBankHolidays downloads the bank holiday feed.
func (c *Client) FetchBankHolidays(ctx context.Context, feedURL string) ([]byte, error) {
	return c.get(ctx, feedURL)
}

// FetchForecast downloads an hourly forecast for one coordinate.
func (c *Client) FetchForecast(ctx context.Context, endpoint string, q ForecastQuery) ([]byte, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid weather endpoint %q: %w", endpoint, err)
	}
	u.RawQuery = q.Values().Encode()
	return c.get(ctx, u.String())
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error requesting %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from %s: %d", target, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	c.log.Debug().
		Str("url", target).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched")
	return body, nil
}

// SaveRaw writes a fetched document, creating parent directories.
func SaveRaw(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadRaw reads a previously saved document.
func LoadRaw(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("raw file %s not available: %w", path, err)
	}
	return data, nil
}

// BankHolidaysPath returns the raw bank holiday file location.
func BankHolidaysPath(rawDir string) string {
	return filepath.Join(rawDir, "bank_holidays.json")
}

// ForecastPath returns the raw weather file location for a route.
func ForecastPath(rawDir string, routeID int) string {
	return filepath.Join(rawDir, "weather_ukmo", fmt.Sprintf("ukmo_route_%d.json", routeID))
}
