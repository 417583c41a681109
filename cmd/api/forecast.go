package main

import (
	"errors"
	"net/http"

	"tempcast/internal/location"
	"tempcast/internal/types"
	"tempcast/internal/weather"

	"github.com/gin-gonic/gin"
)

// GetForecastInput defines the query parameters for the forecast endpoint
type GetForecastInput struct {
	Address string `form:"address" binding:"required"`       // Free-text address
	Hours   *int   `form:"hours" binding:"omitempty,min=0"` // Limit on hourly readings
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error  string             `json:"error" example:"location not found: Atlantis"`
	Fields []types.FieldError `json:"fields,omitempty"`
}

// handleGetForecast godoc
// @Summary Get hourly temperature forecast
// @Description Resolve an address to coordinates and return its validated hourly temperature forecast
// @Tags forecast
// @Accept json
// @Produce json
// @Param address query string true "Free-text address" example(London)
// @Param hours query int false "Number of hourly readings to return" minimum(0)
// @Success 200 {object} weather.Report
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /forecast [get]
func (app *App) handleGetForecast(c *gin.Context) {
	var input GetForecastInput

	// Bind and validate query parameters
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	// Delegate to business layer
	report, err := app.weatherService.GetForecast(c.Request.Context(), input.Address)
	if err != nil {
		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			app.logger.Error("failed to get forecast",
				"address", input.Address,
				"error", err,
			)
		}
		c.JSON(status, body)
		return
	}

	if input.Hours != nil {
		report = &weather.Report{
			Address:     report.Address,
			Coordinates: report.Coordinates,
			Result:      report.Result.Head(*input.Hours),
		}
	}

	c.JSON(http.StatusOK, report)
}

// errorResponse maps pipeline failures to HTTP statuses
func errorResponse(err error) (int, ErrorResponse) {
	if errors.Is(err, location.ErrEmptyAddress) {
		return http.StatusBadRequest, ErrorResponse{Error: err.Error()}
	}

	switch types.KindOf(err) {
	case types.KindNotFound:
		return http.StatusNotFound, ErrorResponse{Error: err.Error()}
	case types.KindValidation:
		var verr *types.ValidationError
		errors.As(err, &verr)
		return http.StatusBadGateway, ErrorResponse{Error: "forecast payload failed validation", Fields: verr.Fields}
	case types.KindHTTP:
		return http.StatusBadGateway, ErrorResponse{Error: "upstream service error"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "failed to get forecast"}
	}
}
