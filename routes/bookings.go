package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"homehelp-server/middleware"
	"homehelp-server/models"
	"homehelp-server/services"
)

// BookingHandler serves the customer-facing booking endpoints.
type BookingHandler struct {
	bookings *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// RegisterBookingRoutes registers the customer booking routes
func RegisterBookingRoutes(router *gin.RouterGroup, h *BookingHandler) {
	router.POST("", h.createBooking)
	router.GET("", h.listMyBookings)
	router.GET("/:id", h.getBooking)
	router.PATCH("/:id", h.updateBooking)
	router.PUT("/:id/status", h.updateStatus)
	router.POST("/:id/cancel", h.cancelBooking)
	router.POST("/:id/confirm", h.confirmBooking)
}

func (h *BookingHandler) createBooking(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.BookingCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), userID, req, false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

func (h *BookingHandler) listMyBookings(c *gin.Context) {
	userID := c.GetUint("user_id")

	page, err := h.bookings.ListCustomerBookings(c.Request.Context(), userID, bookingFilterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *BookingHandler) getBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	actor := services.Actor{UserID: c.GetUint("user_id"), Role: middleware.ActorRole(c)}

	booking, err := h.bookings.Get(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

func (h *BookingHandler) updateBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	actor := services.Actor{UserID: c.GetUint("user_id"), Role: middleware.ActorRole(c)}

	var req struct {
		models.BookingPatch
		// Optimistic-concurrency token: the updated_at the client last saw.
		UpdatedAt time.Time `json:"updated_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.Update(c.Request.Context(), id, req.BookingPatch, req.UpdatedAt, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	actor := services.Actor{UserID: c.GetUint("user_id"), Role: middleware.ActorRole(c)}

	var req struct {
		Status models.BookingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.bookings.UpdateStatus(c.Request.Context(), id, req.Status, actor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *BookingHandler) cancelBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	actor := services.Actor{UserID: c.GetUint("user_id"), Role: middleware.ActorRole(c)}

	booking, err := h.bookings.Cancel(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// confirmBooking records a completion confirmation, dispatched on the
// caller's role: customers flip the customer flag, helpers the helper
// flag.
func (h *BookingHandler) confirmBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID := c.GetUint("user_id")

	var (
		booking *models.Booking
		err     error
	)
	switch middleware.ActorRole(c) {
	case models.RoleHelper:
		booking, err = h.bookings.ConfirmByHelper(c.Request.Context(), id, userID)
	default:
		booking, err = h.bookings.ConfirmByCustomer(c.Request.Context(), id, userID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"status":             booking.Status,
		"customer_confirmed": booking.CustomerConfirmed,
		"helper_confirmed":   booking.HelperConfirmed,
	})
}
