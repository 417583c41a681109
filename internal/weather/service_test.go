package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"tempcast/internal/config"
	"tempcast/internal/providers/openmeteo"
	"tempcast/internal/timezone"
	"tempcast/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock collaborators for testing

type mockGeocoder struct {
	coords types.Coords
	err    error
}

func (m *mockGeocoder) Resolve(ctx context.Context, address string) (types.Coords, error) {
	return m.coords, m.err
}

type mockForecastProvider struct {
	body    []byte
	err     error
	queries []openmeteo.ForecastQuery
}

func (m *mockForecastProvider) GetForecast(ctx context.Context, query openmeteo.ForecastQuery) ([]byte, error) {
	m.queries = append(m.queries, query)
	return m.body, m.err
}

type countingValidator struct {
	calls int
}

func (v *countingValidator) Validate(raw []byte) (*ForecastResult, error) {
	v.calls++
	return SchemaValidator{}.Validate(raw)
}

type mockTimezone struct {
	name string
	err  error
}

func (m *mockTimezone) Lookup(latitude, longitude float64) (string, error) {
	return m.name, m.err
}

func testConfig() *config.Config {
	return &config.Config{
		Forecast: config.ForecastConfig{
			Hourly: "temperature_2m",
			Model:  "gfs_seamless",
			Unit:   "fahrenheit",
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWeatherService_GetForecast(t *testing.T) {
	london := types.NewCoords(51.5, -0.12)

	tests := []struct {
		name          string
		geocoder      *mockGeocoder
		provider      *mockForecastProvider
		timezone      *mockTimezone
		wantKind      types.Kind
		wantErr       bool
		wantValidated int
		wantQueries   int
		wantTimezone  string
	}{
		{
			name:          "success",
			geocoder:      &mockGeocoder{coords: london},
			provider:      &mockForecastProvider{body: SamplePayload},
			wantValidated: 1,
			wantQueries:   1,
		},
		{
			name:        "address not found",
			geocoder:    &mockGeocoder{err: &types.NotFoundError{Address: "Atlantis"}},
			provider:    &mockForecastProvider{body: SamplePayload},
			wantErr:     true,
			wantKind:    types.KindNotFound,
			wantQueries: 0,
		},
		{
			name:     "non-200 never reaches the validator",
			geocoder: &mockGeocoder{coords: london},
			provider: &mockForecastProvider{err: &types.HTTPError{
				URL:        "https://api.open-meteo.com/v1/forecast",
				StatusCode: 503,
			}},
			wantErr:       true,
			wantKind:      types.KindHTTP,
			wantValidated: 0,
			wantQueries:   1,
		},
		{
			name:          "invalid payload",
			geocoder:      &mockGeocoder{coords: london},
			provider:      &mockForecastProvider{body: []byte(`{"latitude": 51.5}`)},
			wantErr:       true,
			wantKind:      types.KindValidation,
			wantValidated: 1,
			wantQueries:   1,
		},
		{
			name:          "timezone requested when available",
			geocoder:      &mockGeocoder{coords: london},
			provider:      &mockForecastProvider{body: SamplePayload},
			timezone:      &mockTimezone{name: "Europe/London"},
			wantValidated: 1,
			wantQueries:   1,
			wantTimezone:  "Europe/London",
		},
		{
			name:          "timezone lookup failure falls back to API default",
			geocoder:      &mockGeocoder{coords: london},
			provider:      &mockForecastProvider{body: SamplePayload},
			timezone:      &mockTimezone{err: errors.New("ocean")},
			wantValidated: 1,
			wantQueries:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := &countingValidator{}

			var tz timezone.Service
			if tt.timezone != nil {
				tz = tt.timezone
			}

			service := NewWeatherServiceWithProviders(tt.geocoder, tt.provider, validator, tz, testConfig(), testLogger())

			report, err := service.GetForecast(context.Background(), "London, England")

			assert.Equal(t, tt.wantValidated, validator.calls)
			require.Len(t, tt.provider.queries, tt.wantQueries)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, report)
				assert.Equal(t, tt.wantKind, types.KindOf(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "London, England", report.Address)
			assert.Equal(t, london, report.Coordinates)
			assert.Equal(t, 3, report.Result.Hourly().Len())

			query := tt.provider.queries[0]
			assert.Equal(t, openmeteo.ForecastQuery{
				Latitude:        51.5,
				Longitude:       -0.12,
				Hourly:          "temperature_2m",
				Model:           "gfs_seamless",
				TemperatureUnit: "fahrenheit",
				Timezone:        tt.wantTimezone,
			}, query)
		})
	}
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", requestID(ctx))
	assert.NotEmpty(t, requestID(context.Background()))
}
