package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"tempcast/internal/config"
	"tempcast/internal/present"
	"tempcast/internal/weather"

	"github.com/spf13/pflag"
)

const defaultAddress = "London, England"

func main() {
	fs := pflag.NewFlagSet("forecast", pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: forecast [flags] [address]\n\n")
		fs.PrintDefaults()
	}
	config.BindFlags(fs)
	_ = fs.Parse(os.Args[1:])

	// Load configuration
	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	address := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if address == "" {
		address = defaultAddress
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger, address); err != nil {
		logger.Error("forecast failed", "address", address, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, address string) error {
	service, err := weather.NewWeatherService(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create weather service: %w", err)
	}

	report, err := service.GetForecast(ctx, address)
	if err != nil {
		return err
	}

	if err := present.WriteSummary(os.Stdout, report.Address, report.Result, cfg.Present.Hours); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	hourly := report.Result.Hourly().Head(cfg.Present.Hours)
	renderer := present.NewRenderer(cfg.Chart, os.Stdout, report.Result.Units().Temperature)
	if err := renderer.Render(hourly.Times(), hourly.Temperatures(), report.Address); err != nil {
		logger.Warn("failed to render chart", "mode", cfg.Chart.Mode, "error", err)
	}

	if cfg.CSV.Output != "" {
		if err := writeCSV(cfg.CSV.Output, report.Result); err != nil {
			return err
		}
		logger.Info("wrote csv", "path", cfg.CSV.Output)
	}

	return nil
}

func writeCSV(path string, result *weather.ForecastResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	if err := present.WriteCSV(f, result); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
