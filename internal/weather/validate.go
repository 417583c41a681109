package weather

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
	_ "time/tzdata" // IANA zones for payloads in local time

	"tempcast/internal/types"
)

// DefaultTemperatureField is the Open-Meteo hourly variable requested by default
const DefaultTemperatureField = "temperature_2m"

// Timestamp layouts accepted in hourly.time, tried in order
var timeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Validator turns a raw payload into a ForecastResult
type Validator interface {
	Validate(raw []byte) (*ForecastResult, error)
}

// SchemaValidator checks payloads against the Open-Meteo hourly forecast schema
type SchemaValidator struct {
	// TemperatureField names the hourly variable holding temperatures; empty means temperature_2m
	TemperatureField string
}

// Validate parses raw and reports every missing or malformed field at once as *types.ValidationError
func (v SchemaValidator) Validate(raw []byte) (*ForecastResult, error) {
	field := v.TemperatureField
	if field == "" {
		field = DefaultTemperatureField
	}

	c := &checker{}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil || root == nil {
		c.fail("(root)", "expected a JSON object")
		return nil, c.err()
	}

	var site Site
	c.decode(root, "", "elevation", "number", &site.Elevation)
	c.decode(root, "", "latitude", "number", &site.Latitude)
	c.decode(root, "", "longitude", "number", &site.Longitude)
	c.decode(root, "", "timezone", "string", &site.Timezone)
	c.decode(root, "", "timezone_abbreviation", "string", &site.TimezoneAbbreviation)
	offsetOK := c.decode(root, "", "utc_offset_seconds", "integer", &site.UTCOffsetSeconds)
	c.decode(root, "", "generationtime_ms", "number", &site.GenerationTimeMs)

	var units Units
	var unitsObj map[string]json.RawMessage
	if c.decode(root, "", "hourly_units", "object", &unitsObj) {
		c.decode(unitsObj, "hourly_units", "time", "string", &units.Time)
		c.decode(unitsObj, "hourly_units", field, "string", &units.Temperature)
	}

	loc := payloadLocation(site, offsetOK)

	var hourly HourlySeries
	var hourlyObj map[string]json.RawMessage
	if c.decode(root, "", "hourly", "object", &hourlyObj) {
		times, timesOK := c.times(hourlyObj, "hourly", "time", loc)
		temps, tempsOK := c.numbers(hourlyObj, "hourly", field)
		if timesOK && tempsOK {
			if len(times) != len(temps) {
				c.fail("hourly", fmt.Sprintf("time has %d entries but %s has %d", len(times), field, len(temps)))
			} else {
				hourly = HourlySeries{times: times, temps: temps}
			}
		}
	}

	if err := c.err(); err != nil {
		return nil, err
	}

	return &ForecastResult{
		hourly: hourly,
		units:  units,
		site:   site,
	}, nil
}

// checker accumulates field errors so a single ValidationError can name all of them
type checker struct {
	fields []types.FieldError
}

func (c *checker) fail(field, reason string) {
	c.fields = append(c.fields, types.FieldError{Field: field, Reason: reason})
}

func (c *checker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &types.ValidationError{Fields: c.fields}
}

func path(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// lookup returns the raw value of a required key, recording an error when it is absent or null
func (c *checker) lookup(obj map[string]json.RawMessage, prefix, key string) (json.RawMessage, bool) {
	raw, ok := obj[key]
	if !ok || isNull(raw) {
		c.fail(path(prefix, key), "field required")
		return nil, false
	}
	return raw, true
}

func (c *checker) decode(obj map[string]json.RawMessage, prefix, key, want string, dst any) bool {
	raw, ok := c.lookup(obj, prefix, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.fail(path(prefix, key), "expected "+want)
		return false
	}
	return true
}

func (c *checker) array(obj map[string]json.RawMessage, prefix, key string) ([]json.RawMessage, bool) {
	var items []json.RawMessage
	return items, c.decode(obj, prefix, key, "array", &items)
}

func (c *checker) numbers(obj map[string]json.RawMessage, prefix, key string) ([]float64, bool) {
	items, ok := c.array(obj, prefix, key)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(items))
	valid := true
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", path(prefix, key), i)
		if isNull(item) {
			c.fail(p, "value is null")
			valid = false
			continue
		}
		if err := json.Unmarshal(item, &out[i]); err != nil {
			c.fail(p, "expected number")
			valid = false
		}
	}
	return out, valid
}

func (c *checker) times(obj map[string]json.RawMessage, prefix, key string, loc *time.Location) ([]time.Time, bool) {
	items, ok := c.array(obj, prefix, key)
	if !ok {
		return nil, false
	}
	out := make([]time.Time, len(items))
	valid := true
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", path(prefix, key), i)
		var s string
		if err := json.Unmarshal(item, &s); err != nil || isNull(item) {
			c.fail(p, "expected datetime string")
			valid = false
			continue
		}
		t, err := parseTime(s, loc)
		if err != nil {
			c.fail(p, fmt.Sprintf("invalid datetime %q", s))
			valid = false
			continue
		}
		// A wall-clock time repeated at a fall-back change has two instants;
		// take the earliest one that keeps the series ascending.
		for _, candidate := range occurrences(t) {
			if i == 0 || !valid || candidate.After(out[i-1]) {
				t = candidate
				break
			}
		}
		out[i] = t
		if i > 0 && valid && !t.After(out[i-1]) {
			c.fail(p, "timestamps must be strictly ascending")
			valid = false
		}
	}
	return out, valid
}

// payloadLocation resolves the zone the hourly wall-clock times are written in.
// A named IANA zone follows DST changes; otherwise the fixed utc_offset_seconds is used.
func payloadLocation(site Site, offsetOK bool) *time.Location {
	if site.Timezone != "" && site.Timezone != "Local" {
		if loc, err := time.LoadLocation(site.Timezone); err == nil {
			return loc
		}
	}
	if offsetOK {
		return time.FixedZone(site.TimezoneAbbreviation, site.UTCOffsetSeconds)
	}
	return time.UTC
}

// occurrences lists, in order, every instant that shows the same wall clock as t in its location
func occurrences(t time.Time) []time.Time {
	_, offset := t.Zone()
	_, before := t.Add(-12 * time.Hour).Zone()
	_, after := t.Add(12 * time.Hour).Zone()

	out := []time.Time{t}
	if before > offset {
		if earlier := t.Add(-time.Duration(before-offset) * time.Second); sameWallClock(earlier, t) {
			out = []time.Time{earlier, t}
		}
	}
	if after < offset {
		if later := t.Add(time.Duration(offset-after) * time.Second); sameWallClock(later, t) {
			out = append(out, later)
		}
	}
	return out
}

func sameWallClock(a, b time.Time) bool {
	const layout = "2006-01-02T15:04:05"
	return a.Format(layout) == b.Format(layout)
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
