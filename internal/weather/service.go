package weather

import (
	"context"
	"fmt"
	"log/slog"

	"tempcast/internal/config"
	"tempcast/internal/location"
	"tempcast/internal/providers/openmeteo"
	"tempcast/internal/timezone"
	"tempcast/internal/types"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// WithRequestID tags ctx so the pipeline logs under the caller's request id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

type ForecastProvider interface {
	// GetForecast fetches the raw forecast payload for the query
	GetForecast(ctx context.Context, query openmeteo.ForecastQuery) ([]byte, error)
}

type Service interface {
	// GetForecast geocodes address, fetches its hourly forecast and validates the payload
	GetForecast(ctx context.Context, address string) (*Report, error)
}

type weatherService struct {
	geocoder         location.Service
	forecastProvider ForecastProvider
	validator        Validator
	timezoneService  timezone.Service
	cfg              *config.Config
	logger           *slog.Logger
}

// NewWeatherService wires the service to Nominatim and Open-Meteo.
// The tzf finder is only loaded when local timestamps are requested.
func NewWeatherService(cfg *config.Config, logger *slog.Logger) (Service, error) {
	var tzSvc timezone.Service
	if cfg.Forecast.LocalTimezone {
		svc, err := timezone.NewService()
		if err != nil {
			return nil, fmt.Errorf("failed to create timezone service: %w", err)
		}
		tzSvc = svc
	}

	forecastClient := openmeteo.NewForecastClient(logger,
		openmeteo.WithBaseURL(cfg.Forecast.URL),
		openmeteo.WithHTTPClient(cfg.NewHTTPClient()),
	)

	return NewWeatherServiceWithProviders(
		location.NewLocationService(cfg, logger),
		forecastClient,
		SchemaValidator{TemperatureField: cfg.Forecast.Hourly},
		tzSvc,
		cfg,
		logger,
	), nil
}

// NewWeatherServiceWithProviders creates the service with custom collaborators.
// timezoneService may be nil, in which case no timezone is requested.
func NewWeatherServiceWithProviders(
	geocoder location.Service,
	forecastProvider ForecastProvider,
	validator Validator,
	timezoneService timezone.Service,
	cfg *config.Config,
	logger *slog.Logger,
) Service {
	return &weatherService{
		geocoder:         geocoder,
		forecastProvider: forecastProvider,
		validator:        validator,
		timezoneService:  timezoneService,
		cfg:              cfg,
		logger:           logger.With("component", "weather-service"),
	}
}

func (s *weatherService) GetForecast(ctx context.Context, address string) (*Report, error) {
	logger := s.logger.With("request_id", requestID(ctx), "address", address)

	coords, err := s.geocoder.Resolve(ctx, address)
	if err != nil {
		logger.Error("failed to resolve address", "error", err, "kind", types.KindOf(err))
		return nil, err
	}

	query := openmeteo.ForecastQuery{
		Latitude:        coords.Latitude,
		Longitude:       coords.Longitude,
		Hourly:          s.cfg.Forecast.Hourly,
		Model:           s.cfg.Forecast.Model,
		TemperatureUnit: s.cfg.Forecast.Unit,
	}

	if s.timezoneService != nil {
		tz, err := s.timezoneService.Lookup(coords.Latitude, coords.Longitude)
		if err != nil {
			// The API default (GMT) is still usable
			logger.Warn("failed to determine timezone", "error", err)
		} else {
			logger.Debug("determined timezone for location", "timezone", tz)
			query.Timezone = tz
		}
	}

	raw, err := s.forecastProvider.GetForecast(ctx, query)
	if err != nil {
		logger.Error("failed to get forecast from provider", "error", err, "kind", types.KindOf(err))
		return nil, fmt.Errorf("failed to get forecast: %w", err)
	}

	result, err := s.validator.Validate(raw)
	if err != nil {
		logger.Error("forecast payload failed validation", "error", err)
		return nil, err
	}

	logger.Info("forecast ready",
		"latitude", coords.Latitude,
		"longitude", coords.Longitude,
		"hours", result.Hourly().Len(),
	)

	return &Report{
		Address:     address,
		Coordinates: coords,
		Result:      result,
	}, nil
}
