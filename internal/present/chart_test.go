package present

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tempcast/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	assert.IsType(t, &TerminalChart{}, NewRenderer(config.ChartConfig{Mode: "terminal"}, &bytes.Buffer{}, "°F"))
	assert.IsType(t, &PNGChart{}, NewRenderer(config.ChartConfig{Mode: "png", Output: "x.png"}, nil, "°F"))
	assert.IsType(t, NoChart{}, NewRenderer(config.ChartConfig{Mode: "none"}, nil, "°F"))
}

func TestTerminalChart_Render(t *testing.T) {
	result := sampleResult(t)
	hourly := result.Hourly()

	var buf bytes.Buffer
	chart := &TerminalChart{Out: &buf, Unit: "°F", Height: 5}
	require.NoError(t, chart.Render(hourly.Times(), hourly.Temperatures(), "London, England"))

	out := buf.String()
	assert.Contains(t, out, "Temperature for London, England (°F)")
	assert.Contains(t, out, "2024-01-01 00:00 .. 2024-01-01 02:00")
	assert.Contains(t, out, "78.2")
}

func TestTerminalChart_RenderEmpty(t *testing.T) {
	chart := &TerminalChart{Out: &bytes.Buffer{}}
	assert.ErrorIs(t, chart.Render(nil, nil, "London"), ErrNoData)
}

func TestPNGChart_Render(t *testing.T) {
	result := sampleResult(t)
	hourly := result.Hourly()
	path := filepath.Join(t.TempDir(), "forecast.png")

	var opened string
	chart := &PNGChart{
		Path: path,
		Unit: "°F",
		Open: true,
		opener: func(p string) error {
			opened = p
			return nil
		},
	}

	require.NoError(t, chart.Render(hourly.Times(), hourly.Temperatures(), "London, England"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, path, opened)
}

func TestPNGChart_OpenFailure(t *testing.T) {
	result := sampleResult(t)
	hourly := result.Hourly()

	chart := &PNGChart{
		Path:   filepath.Join(t.TempDir(), "forecast.png"),
		Open:   true,
		opener: func(string) error { return errors.New("no display") },
	}

	err := chart.Render(hourly.Times(), hourly.Temperatures(), "London")
	assert.ErrorContains(t, err, "failed to open chart")
}
