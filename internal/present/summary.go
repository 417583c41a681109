// Package present renders forecast reports as text, charts and CSV.
package present

import (
	"fmt"
	"io"
	"strings"

	"tempcast/internal/weather"
)

// HourLayout is the timestamp format of the hourly lines in a summary
const HourLayout = "2006-01-02 15:04"

// Summary formats the location, current reading, site metadata and the first hours readings.
func Summary(address string, result *weather.ForecastResult, hours int) string {
	var b strings.Builder

	site := result.Site()
	unit := result.Units().Temperature
	hourly := result.Hourly().Head(hours)

	current := "N/A"
	if hourly.Len() > 0 {
		_, temp := hourly.At(0)
		current = formatTemp(temp, unit)
	}

	fmt.Fprintf(&b, "Weather for: %s\n", address)
	fmt.Fprintf(&b, "Current Temperature: %s\n", current)
	fmt.Fprintf(&b, "Timezone: %s\n", timezoneLabel(site.Timezone, site.TimezoneAbbreviation))
	fmt.Fprintf(&b, "Elevation: %gm\n", site.Elevation)
	fmt.Fprintf(&b, "Latitude: %g\n", site.Latitude)
	fmt.Fprintf(&b, "Longitude: %g\n", site.Longitude)
	fmt.Fprintf(&b, "Generated in: %.2fms\n", site.GenerationTimeMs)
	fmt.Fprintf(&b, "\nTemperature Forecast (next %d hours):\n", hourly.Len())

	for i := 0; i < hourly.Len(); i++ {
		t, temp := hourly.At(i)
		fmt.Fprintf(&b, "%s: %s\n", t.Format(HourLayout), formatTemp(temp, unit))
	}

	return b.String()
}

// WriteSummary writes Summary to w
func WriteSummary(w io.Writer, address string, result *weather.ForecastResult, hours int) error {
	_, err := io.WriteString(w, Summary(address, result, hours))
	return err
}

func timezoneLabel(name, abbreviation string) string {
	if abbreviation == "" || abbreviation == name {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, abbreviation)
}

func formatTemp(temp float64, unit string) string {
	return fmt.Sprintf("%.1f%s", temp, unit)
}
