package present_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"tempcast/internal/config"
	"tempcast/internal/location"
	"tempcast/internal/present"
	"tempcast/internal/providers/openmeteo"
	"tempcast/internal/providers/openstreetmap"
	"tempcast/internal/weather"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hourLine = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}: `)

type stubGeocodeProvider struct {
	results map[string][]openstreetmap.SearchResult
}

func (s *stubGeocodeProvider) Search(ctx context.Context, query string) ([]openstreetmap.SearchResult, error) {
	return s.results[query], nil
}

// Address in, summary out, with only the network edges stubbed
func TestPipeline_LondonSummary(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(weather.SamplePayload)
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Forecast: config.ForecastConfig{
			Hourly: "temperature_2m",
			Model:  "gfs_seamless",
			Unit:   "fahrenheit",
		},
		Present: config.PresentConfig{Hours: 24},
	}

	geocoder := location.NewLocationServiceWithProvider(&stubGeocodeProvider{
		results: map[string][]openstreetmap.SearchResult{
			"London, England": {{Lat: "51.5", Lon: "-0.12", DisplayName: "London, Greater London, England"}},
		},
	}, logger)

	service := weather.NewWeatherServiceWithProviders(
		geocoder,
		openmeteo.NewForecastClient(logger, openmeteo.WithBaseURL(server.URL)),
		weather.SchemaValidator{},
		nil,
		cfg,
		logger,
	)

	report, err := service.GetForecast(context.Background(), "London, England")
	require.NoError(t, err)

	assert.Equal(t, 51.5, report.Coordinates.Latitude)
	assert.Equal(t, -0.12, report.Coordinates.Longitude)
	assert.Contains(t, gotQuery, "latitude=51.5")
	assert.Contains(t, gotQuery, "longitude=-0.12")

	summary := present.Summary(report.Address, report.Result, cfg.Present.Hours)
	assert.Contains(t, summary, "London, England")

	lines := 0
	for _, line := range strings.Split(summary, "\n") {
		if hourLine.MatchString(line) {
			lines++
		}
	}
	assert.Equal(t, 3, lines)
}
