package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/estate/internal/models"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse(http.StatusServiceUnavailable, "database unavailable"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(http.StatusOK, gin.H{
			"status":  "OK",
			"service": "estate-api",
		}, ""))
	}
}
