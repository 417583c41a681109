package main

import (
	"log"
	"os"

	"tempcast/internal/config"
	"tempcast/internal/tui"
	"tempcast/internal/weather"

	"github.com/spf13/pflag"
)

func main() {
	fs := pflag.NewFlagSet("tui", pflag.ExitOnError)
	config.BindFlags(fs)
	_ = fs.Parse(os.Args[1:])

	// Load configuration
	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Log lines go to the diagnostics pane; stderr belongs to the terminal UI
	shell := tui.NewShell(cfg)
	logger := shell.Logger()

	service, err := weather.NewWeatherService(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create weather service: %v", err)
	}

	shell.Mount(service, weather.SchemaValidator{TemperatureField: cfg.Forecast.Hourly})

	if err := shell.Run(); err != nil {
		log.Fatalf("Terminal UI failed: %v", err)
	}
}
