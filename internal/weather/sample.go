package weather

import _ "embed"

// SamplePayload is a well-formed three-hour Open-Meteo response for London
//
//go:embed sample_forecast.json
var SamplePayload []byte
