package timezone

import (
	"fmt"
	"sync"

	"github.com/ringsaturn/tzf"
)

// Service maps coordinates to IANA timezone names
type Service interface {
	// Lookup returns names like "Europe/London" or "America/Denver"
	Lookup(latitude, longitude float64) (string, error)
}

// finderService implements Service using tzf
type finderService struct {
	finder tzf.F
}

var (
	instance *finderService
	initErr  error
	once     sync.Once
)

// NewService returns the shared tzf-backed service.
// The finder keeps its polygon data in memory, so it is built once per process.
func NewService() (Service, error) {
	once.Do(func() {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			initErr = fmt.Errorf("failed to initialize timezone finder: %w", err)
			return
		}
		instance = &finderService{finder: finder}
	})
	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

func (s *finderService) Lookup(latitude, longitude float64) (string, error) {
	// tzf takes longitude first
	name := s.finder.GetTimezoneName(longitude, latitude)
	if name == "" {
		return "", fmt.Errorf("could not determine timezone for coordinates lat=%f, lon=%f", latitude, longitude)
	}
	return name, nil
}
