package main

// @title Tempcast API
// @version 1.0
// @description Hourly temperature forecasts for free-text addresses, backed by OpenStreetMap Nominatim and Open-Meteo.

// @contact.name API Support
// @contact.email support@example.com

// @host localhost:8080
// @BasePath /
