package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tempcast/internal/config"
	"tempcast/internal/location"
	"tempcast/internal/types"
	"tempcast/internal/weather"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWeatherService struct {
	report    *weather.Report
	err       error
	addresses []string
}

func (m *mockWeatherService) GetForecast(ctx context.Context, address string) (*weather.Report, error) {
	m.addresses = append(m.addresses, address)
	return m.report, m.err
}

func londonReport(t *testing.T) *weather.Report {
	t.Helper()
	result, err := weather.SchemaValidator{}.Validate(weather.SamplePayload)
	require.NoError(t, err)
	return &weather.Report{
		Address:     "London, England",
		Coordinates: types.NewCoords(51.5, -0.12),
		Result:      result,
	}
}

func newTestApp(svc weather.Service) *App {
	cfg := &config.Config{Server: config.ServerConfig{GinMode: "test"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newAppWithService(cfg, logger, svc)
}

func TestHandlePing(t *testing.T) {
	app := newTestApp(&mockWeatherService{})

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong","service":"tempcast"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestHandleGetForecast(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		svc        *mockWeatherService
		wantStatus int
		wantHours  int
		wantCalls  int
	}{
		{
			name:       "success",
			query:      "?address=London,%20England",
			svc:        &mockWeatherService{report: londonReport(t)},
			wantStatus: http.StatusOK,
			wantHours:  3,
			wantCalls:  1,
		},
		{
			name:       "hours limit",
			query:      "?address=London&hours=2",
			svc:        &mockWeatherService{report: londonReport(t)},
			wantStatus: http.StatusOK,
			wantHours:  2,
			wantCalls:  1,
		},
		{
			name:       "missing address",
			query:      "",
			svc:        &mockWeatherService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid hours",
			query:      "?address=London&hours=-1",
			svc:        &mockWeatherService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank address",
			query:      "?address=%20%20",
			svc:        &mockWeatherService{err: location.ErrEmptyAddress},
			wantStatus: http.StatusBadRequest,
			wantCalls:  1,
		},
		{
			name:       "not found",
			query:      "?address=Atlantis",
			svc:        &mockWeatherService{err: &types.NotFoundError{Address: "Atlantis"}},
			wantStatus: http.StatusNotFound,
			wantCalls:  1,
		},
		{
			name:  "upstream failure",
			query: "?address=London",
			svc: &mockWeatherService{err: fmt.Errorf("failed to get forecast: %w", &types.HTTPError{
				URL:        "https://api.open-meteo.com/v1/forecast",
				StatusCode: http.StatusServiceUnavailable,
			})},
			wantStatus: http.StatusBadGateway,
			wantCalls:  1,
		},
		{
			name:  "invalid payload",
			query: "?address=London",
			svc: &mockWeatherService{err: &types.ValidationError{
				Fields: []types.FieldError{{Field: "latitude", Reason: "field required"}},
			}},
			wantStatus: http.StatusBadGateway,
			wantCalls:  1,
		},
		{
			name:       "unexpected failure",
			query:      "?address=London",
			svc:        &mockWeatherService{err: errors.New("boom")},
			wantStatus: http.StatusInternalServerError,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(tt.svc)

			w := httptest.NewRecorder()
			app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/forecast"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Len(t, tt.svc.addresses, tt.wantCalls)

			if tt.wantStatus != http.StatusOK {
				var body ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.NotEmpty(t, body.Error)
				return
			}

			var body struct {
				Address     string       `json:"address"`
				Coordinates types.Coords `json:"coordinates"`
				Forecast    struct {
					Timezone string `json:"timezone"`
					Hourly   struct {
						Time        []string  `json:"time"`
						Temperature []float64 `json:"temperature"`
					} `json:"hourly"`
				} `json:"forecast"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "London, England", body.Address)
			assert.Equal(t, 51.5, body.Coordinates.Latitude)
			assert.Equal(t, "GMT", body.Forecast.Timezone)
			assert.Len(t, body.Forecast.Hourly.Time, tt.wantHours)
			assert.Len(t, body.Forecast.Hourly.Temperature, tt.wantHours)
		})
	}
}

func TestHandleGetForecast_ValidationFields(t *testing.T) {
	app := newTestApp(&mockWeatherService{err: &types.ValidationError{
		Fields: []types.FieldError{{Field: "hourly.time[2]", Reason: "value is null"}},
	}})

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/forecast?address=London", nil))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "hourly.time[2]", body.Fields[0].Field)
}

func TestRequestID_Reused(t *testing.T) {
	app := newTestApp(&mockWeatherService{report: londonReport(t)})

	req := httptest.NewRequest(http.MethodGet, "/forecast?address=London", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}
