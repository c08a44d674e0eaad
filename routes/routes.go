package routes

import (
	"net/http"
	"time"

	"fitstudio/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterScheduleRoutes sets up the endpoints for the scheduling optimizer.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	schedule := r.Group("/api/schedule")
	{
		schedule.GET("/availability", hb.GetAvailabilityHandler)
		schedule.POST("/suggestions", hb.GenerateSuggestionsHandler)
		schedule.POST("/suggestions/re-suggest", hb.ReSuggestHandler)
		schedule.POST("/suggestions/re-suggest-all", hb.ReSuggestAllHandler)
		schedule.POST("/bookings/book-selected", hb.BookSelectedHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "fitstudio scheduler up"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterScheduleRoutes(r, hb)
	RegisterHealthRoute(r)
}
