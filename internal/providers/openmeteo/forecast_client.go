package openmeteo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"tempcast/internal/types"
)

// API Docs: https://open-meteo.com/en/docs
// Sample request: https://api.open-meteo.com/v1/forecast?latitude=51.5&longitude=-0.12&hourly=temperature_2m&models=gfs_seamless&temperature_unit=fahrenheit
const (
	baseForecastURL = "https://api.open-meteo.com/v1/forecast"
	maxErrorBody    = 512
)

// ForecastQuery holds the query parameters of a single forecast request
type ForecastQuery struct {
	Latitude        float64
	Longitude       float64
	Hourly          string // e.g. temperature_2m
	Model           string // e.g. gfs_seamless
	TemperatureUnit string // fahrenheit or celsius
	Timezone        string // optional IANA name; empty keeps the API default (GMT)
}

type ForecastClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

type Option func(*ForecastClient)

// WithBaseURL points the client at a different forecast endpoint
func WithBaseURL(u string) Option {
	return func(c *ForecastClient) { c.baseURL = u }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *ForecastClient) { c.httpClient = hc }
}

func NewForecastClient(logger *slog.Logger, opts ...Option) *ForecastClient {
	c := &ForecastClient{
		httpClient: &http.Client{},
		baseURL:    baseForecastURL,
		logger:     logger.With("component", "openmeteo-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetForecast fetches the hourly forecast and returns the undecoded response body.
// A non-200 answer is reported as *types.HTTPError.
func (c *ForecastClient) GetForecast(ctx context.Context, query ForecastQuery) ([]byte, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(query.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(query.Longitude, 'f', -1, 64))
	q.Set("hourly", query.Hourly)
	q.Set("models", query.Model)
	q.Set("temperature_unit", query.TemperatureUnit)
	if query.Timezone != "" {
		q.Set("timezone", query.Timezone)
	}
	u.RawQuery = q.Encode()

	c.logger.Debug("fetching Open-Meteo forecast",
		"latitude", query.Latitude,
		"longitude", query.Longitude,
		"url", u.String(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch Open-Meteo forecast",
			"latitude", query.Latitude,
			"longitude", query.Longitude,
			"error", err,
		)
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("Open-Meteo API returned error",
			"status_code", resp.StatusCode,
			"latitude", query.Latitude,
			"longitude", query.Longitude,
			"response_body", string(body),
		)
		return nil, &types.HTTPError{
			URL:        u.String(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("successfully fetched Open-Meteo forecast",
		"latitude", query.Latitude,
		"longitude", query.Longitude,
		"bytes", len(body),
	)

	return body, nil
}
