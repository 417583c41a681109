package weather

import (
	"encoding/json"
	"time"

	"tempcast/internal/types"
)

// HourlySeries is a read-only pair of parallel timestamp and temperature sequences.
// Both sequences always have the same length and timestamps are strictly ascending.
type HourlySeries struct {
	times []time.Time
	temps []float64
}

func (h HourlySeries) Len() int {
	return len(h.times)
}

// At returns the i-th reading
func (h HourlySeries) At(i int) (time.Time, float64) {
	return h.times[i], h.temps[i]
}

// Times returns a copy of the timestamps
func (h HourlySeries) Times() []time.Time {
	out := make([]time.Time, len(h.times))
	copy(out, h.times)
	return out
}

// Temperatures returns a copy of the temperatures
func (h HourlySeries) Temperatures() []float64 {
	out := make([]float64, len(h.temps))
	copy(out, h.temps)
	return out
}

// Head returns the first n readings, or all of them when n exceeds the length
func (h HourlySeries) Head(n int) HourlySeries {
	if n < 0 {
		n = 0
	}
	if n > len(h.times) {
		n = len(h.times)
	}
	// Full slice expressions keep appends on the result out of the shared backing arrays
	return HourlySeries{
		times: h.times[:n:n],
		temps: h.temps[:n:n],
	}
}

// Units carries the unit labels reported for the hourly series
type Units struct {
	Time        string `json:"time"`
	Temperature string `json:"temperature"`
}

// Site carries the forecast grid cell metadata
type Site struct {
	Elevation            float64 `json:"elevation"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	Timezone             string  `json:"timezone"`
	TimezoneAbbreviation string  `json:"timezone_abbreviation"`
	UTCOffsetSeconds     int     `json:"utc_offset_seconds"`
	GenerationTimeMs     float64 `json:"generationtime_ms"`
}

// ForecastResult is the validated, typed form of an Open-Meteo response.
// It is built only by Validate and never changes afterwards.
type ForecastResult struct {
	hourly HourlySeries
	units  Units
	site   Site
}

func (r *ForecastResult) Hourly() HourlySeries {
	return r.hourly
}

func (r *ForecastResult) Units() Units {
	return r.units
}

func (r *ForecastResult) Site() Site {
	return r.site
}

// Head returns a result limited to the first n hourly readings
func (r *ForecastResult) Head(n int) *ForecastResult {
	return &ForecastResult{
		hourly: r.hourly.Head(n),
		units:  r.units,
		site:   r.site,
	}
}

type hourlyJSON struct {
	Time        []time.Time `json:"time"`
	Temperature []float64   `json:"temperature"`
}

func (r *ForecastResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Site
		HourlyUnits Units      `json:"hourly_units"`
		Hourly      hourlyJSON `json:"hourly"`
	}{
		Site:        r.site,
		HourlyUnits: r.units,
		Hourly: hourlyJSON{
			Time:        r.hourly.times,
			Temperature: r.hourly.temps,
		},
	})
}

// Report is the outcome of one pipeline run
type Report struct {
	Address     string          `json:"address"`
	Coordinates types.Coords    `json:"coordinates"`
	Result      *ForecastResult `json:"forecast"`
}
