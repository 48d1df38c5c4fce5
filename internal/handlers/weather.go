package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/namefreezers/weather-archive-export/internal/repository"
)

const dateLayout = "2006-01-02"

// dailyRequest defines the query parameters for GET /api/weather/daily
type dailyRequest struct {
	City string `form:"city" binding:"required"`
	From string `form:"from"`
	To   string `form:"to"`
}

// dailyResponse wraps the stored rows for one city
type dailyResponse struct {
	City string                    `json:"city"`
	Days []repository.DailyWeather `json:"days"`
}

// DailyWeatherHandler returns a Gin handler for GET /api/weather/daily
func DailyWeatherHandler(repo repository.DailyWeatherRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1) Bind and validate the query parameters
		var req dailyRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			// 400 Invalid request
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		from, err := parseDate(req.From, time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date: " + err.Error()})
			return
		}
		to, err := parseDate(req.To, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date: " + err.Error()})
			return
		}
		if to.Before(from) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
			return
		}

		// 2) Load stored rows
		days, err := repo.ListByCity(c.Request.Context(), req.City, from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(days) == 0 {
			// 404 Nothing exported for this city (in this window)
			c.JSON(http.StatusNotFound, gin.H{"error": "no weather data for city"})
			return
		}

		// 3) 200 Successful operation
		c.JSON(http.StatusOK, dailyResponse{City: req.City, Days: days})
	}
}

// CitiesHandler returns a Gin handler for GET /api/cities
func CitiesHandler(repo repository.DailyWeatherRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		names, err := repo.ListCities(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if names == nil {
			names = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"cities": names})
	}
}

func parseDate(raw string, def time.Time) (time.Time, error) {
	if raw == "" {
		return def, nil
	}
	return time.Parse(dateLayout, raw)
}
