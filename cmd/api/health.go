package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PingResponse is the liveness payload
type PingResponse struct {
	Message string `json:"message" example:"pong"`
	Service string `json:"service" example:"tempcast"`
}

// handlePing godoc
// @Summary Liveness check
// @Description Reports that the forecast API is accepting requests. No upstream service is contacted.
// @Tags health
// @Produce json
// @Success 200 {object} PingResponse
// @Router /ping [get]
func (app *App) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong", Service: serviceName})
}
