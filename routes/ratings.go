package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehelp-server/models"
	"homehelp-server/services"
)

// RatingHandler lets customers rate completed bookings.
type RatingHandler struct {
	ratings *services.RatingService
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(ratings *services.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

// RegisterRatingRoutes registers the rating routes
func RegisterRatingRoutes(router *gin.RouterGroup, h *RatingHandler) {
	router.POST("/bookings/:id/rating", h.createRating)
}

func (h *RatingHandler) createRating(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID := c.GetUint("user_id")

	var req models.RatingCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.ratings.Create(c.Request.Context(), id, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rating": rating})
}
