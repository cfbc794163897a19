package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehelp-server/models"
	"homehelp-server/services"
)

// GuestHandler serves the single unauthenticated endpoint: a guest
// booking submission gated by captcha and the per-IP rate limit.
type GuestHandler struct {
	guests *services.GuestService
}

// NewGuestHandler creates a new guest handler
func NewGuestHandler(guests *services.GuestService) *GuestHandler {
	return &GuestHandler{guests: guests}
}

// RegisterGuestRoutes registers the public guest routes
func RegisterGuestRoutes(router *gin.RouterGroup, h *GuestHandler) {
	router.POST("/bookings", h.createGuestBooking)
}

func (h *GuestHandler) createGuestBooking(c *gin.Context) {
	var req struct {
		models.GuestBookingCreate
		CaptchaToken string `json:"captcha_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.guests.CreateBooking(c.Request.Context(), req.GuestBookingCreate, req.CaptchaToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
