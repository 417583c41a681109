package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"tempcast/internal/config"
	"tempcast/internal/providers/openstreetmap"
	"tempcast/internal/types"
)

var (
	ErrEmptyAddress     = errors.New("address must not be empty")
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
)

// Service resolves free-text addresses to coordinates
type Service interface {
	// Resolve returns the coordinates of the best match for address
	Resolve(ctx context.Context, address string) (types.Coords, error)
}

// GeocodeProvider defines the interface for forward geocoding providers
type GeocodeProvider interface {
	Search(ctx context.Context, query string) ([]openstreetmap.SearchResult, error)
}

// locationService implements the Service interface
type locationService struct {
	geocodeProvider GeocodeProvider
	logger          *slog.Logger
}

// NewLocationService creates a new location service backed by Nominatim
func NewLocationService(cfg *config.Config, logger *slog.Logger) Service {
	client := openstreetmap.NewClient(logger,
		openstreetmap.WithBaseURL(cfg.Geocoder.URL),
		openstreetmap.WithUserAgent(cfg.Geocoder.UserAgent),
		openstreetmap.WithRateLimit(cfg.Geocoder.RPS),
		openstreetmap.WithHTTPClient(cfg.NewHTTPClient()),
	)
	return NewLocationServiceWithProvider(client, logger)
}

// NewLocationServiceWithProvider creates a new location service with a custom provider
// This is useful for testing with mock providers
func NewLocationServiceWithProvider(geocodeProvider GeocodeProvider, logger *slog.Logger) Service {
	return &locationService{
		geocodeProvider: geocodeProvider,
		logger:          logger.With("component", "location-service"),
	}
}

// Resolve performs a single search round trip; there is no retry
func (s *locationService) Resolve(ctx context.Context, address string) (types.Coords, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return types.Coords{}, ErrEmptyAddress
	}

	results, err := s.geocodeProvider.Search(ctx, address)
	if err != nil {
		return types.Coords{}, fmt.Errorf("failed to geocode address: %w", err)
	}

	if len(results) == 0 {
		s.logger.Info("no geocoding match", "address", address)
		return types.Coords{}, &types.NotFoundError{Address: address}
	}

	coords, err := s.translateCoords(results[0])
	if err != nil {
		return types.Coords{}, err
	}

	s.logger.Debug("resolved address",
		"address", address,
		"display_name", results[0].DisplayName,
		"latitude", coords.Latitude,
		"longitude", coords.Longitude,
	)

	return coords, nil
}

// translateCoords converts the string coordinates Nominatim returns to domain Coords
func (s *locationService) translateCoords(result openstreetmap.SearchResult) (types.Coords, error) {
	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return types.Coords{}, fmt.Errorf("failed to parse latitude %q: %w", result.Lat, err)
	}
	lon, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return types.Coords{}, fmt.Errorf("failed to parse longitude %q: %w", result.Lon, err)
	}

	if lat < -90 || lat > 90 {
		return types.Coords{}, fmt.Errorf("%w: got %f", ErrInvalidLatitude, lat)
	}
	if lon < -180 || lon > 180 {
		return types.Coords{}, fmt.Errorf("%w: got %f", ErrInvalidLongitude, lon)
	}

	return types.NewCoords(lat, lon), nil
}
