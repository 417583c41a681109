package present

import (
	"fmt"
	"io"
	"time"

	"tempcast/internal/weather"

	"github.com/gocarina/gocsv"
)

type hourlyRow struct {
	Time        string  `csv:"time"`
	Temperature float64 `csv:"temperature"`
	Unit        string  `csv:"unit"`
}

// WriteCSV writes one row per hourly reading
func WriteCSV(w io.Writer, result *weather.ForecastResult) error {
	hourly := result.Hourly()
	unit := result.Units().Temperature

	rows := make([]*hourlyRow, 0, hourly.Len())
	for i := 0; i < hourly.Len(); i++ {
		t, temp := hourly.At(i)
		rows = append(rows, &hourlyRow{
			Time:        t.Format(time.RFC3339),
			Temperature: temp,
			Unit:        unit,
		})
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
