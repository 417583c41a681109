package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Geocoder GeocoderConfig
	Forecast ForecastConfig
	HTTP     HTTPConfig
	Present  PresentConfig
	Chart    ChartConfig
	CSV      CSVConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port    int
	GinMode string // debug, release, test
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// GeocoderConfig holds Nominatim search settings
type GeocoderConfig struct {
	URL       string
	UserAgent string
	RPS       float64 // requests per second allowed by the usage policy
}

// ForecastConfig holds Open-Meteo query settings
type ForecastConfig struct {
	URL           string
	Hourly        string
	Model         string
	Unit          string // fahrenheit, celsius
	LocalTimezone bool   // resolve the IANA zone locally and request local timestamps
}

// HTTPConfig holds outbound HTTP client settings
type HTTPConfig struct {
	Timeout time.Duration
}

// PresentConfig holds text summary settings
type PresentConfig struct {
	Hours int // number of hourly readings listed in the summary
}

// ChartConfig holds chart rendering settings
type ChartConfig struct {
	Mode   string // terminal, png, none
	Output string
	Open   bool
}

// CSVConfig holds CSV export settings
type CSVConfig struct {
	Output string // empty disables export
}

// BindFlags registers the command line flags understood by Load.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "text", "log format (text, json)")
	fs.String("model", "gfs_seamless", "Open-Meteo forecast model")
	fs.String("unit", "fahrenheit", "temperature unit (fahrenheit, celsius)")
	fs.Bool("local-timezone", false, "request timestamps in the location's local timezone")
	fs.Int("hours", 24, "number of hourly readings to list")
	fs.String("chart", "terminal", "chart output (terminal, png, none)")
	fs.String("chart-output", "forecast.png", "file written when --chart=png")
	fs.Bool("open", false, "open the PNG chart in the desktop viewer")
	fs.String("csv", "", "write the hourly series to this CSV file")
	fs.Int("port", 8080, "HTTP API port")
}

var flagKeys = map[string]string{
	"log.level":              "log-level",
	"log.format":             "log-format",
	"forecast.model":         "model",
	"forecast.unit":          "unit",
	"forecast.localtimezone": "local-timezone",
	"present.hours":          "hours",
	"chart.mode":             "chart",
	"chart.output":           "chart-output",
	"chart.open":             "open",
	"csv.output":             "csv",
	"server.port":            "port",
}

// Load reads configuration from defaults, environment variables and the given flags.
// fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.ginmode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("geocoder.url", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("geocoder.useragent", "tempcast")
	v.SetDefault("geocoder.rps", 1.0)
	v.SetDefault("forecast.url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("forecast.hourly", "temperature_2m")
	v.SetDefault("forecast.model", "gfs_seamless")
	v.SetDefault("forecast.unit", "fahrenheit")
	v.SetDefault("forecast.localtimezone", false)
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("present.hours", 24)
	v.SetDefault("chart.mode", "terminal")
	v.SetDefault("chart.output", "forecast.png")
	v.SetDefault("chart.open", false)
	v.SetDefault("csv.output", "")

	// Read from environment variables, e.g. TEMPCAST_FORECAST_MODEL
	v.SetEnvPrefix("TEMPCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for key, name := range flagKeys {
			flag := fs.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Chart.Mode) {
	case "terminal", "png", "none":
	default:
		return fmt.Errorf("invalid chart mode %q", c.Chart.Mode)
	}
	if c.Present.Hours < 0 {
		return fmt.Errorf("invalid hours %d", c.Present.Hours)
	}
	if c.Geocoder.RPS <= 0 {
		return fmt.Errorf("invalid geocoder rps %v", c.Geocoder.RPS)
	}
	return nil
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewHTTPClient returns an HTTP client honoring the configured timeout
func (c *Config) NewHTTPClient() *http.Client {
	return &http.Client{Timeout: c.HTTP.Timeout}
}

// NewLogger creates a new slog.Logger writing to stderr, keeping stdout for results
func (c *Config) NewLogger() *slog.Logger {
	return c.NewLoggerTo(os.Stderr)
}

// NewLoggerTo creates a new slog.Logger based on the configuration writing to w
func (c *Config) NewLoggerTo(w io.Writer) *slog.Logger {
	// Parse log level
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// Create handler options
	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Choose handler based on format
	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
