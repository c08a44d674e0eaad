package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Scheduling endpoints
	GetAvailabilityHandler     gin.HandlerFunc
	GenerateSuggestionsHandler gin.HandlerFunc
	ReSuggestHandler           gin.HandlerFunc
	ReSuggestAllHandler        gin.HandlerFunc
	BookSelectedHandler        gin.HandlerFunc
}
