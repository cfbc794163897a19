package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehelp-server/models"
	"homehelp-server/services"
)

// AdminHandler serves the moderation surface: the approval queue,
// direct assignment, completion override, and payment confirmation.
type AdminHandler struct {
	bookings *services.BookingService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(bookings *services.BookingService) *AdminHandler {
	return &AdminHandler{bookings: bookings}
}

// RegisterAdminRoutes registers the admin booking routes
func RegisterAdminRoutes(router *gin.RouterGroup, h *AdminHandler) {
	router.POST("/bookings", h.createForCustomer)
	router.GET("/bookings", h.listAll)
	router.GET("/bookings/pending", h.listPendingApprovals)
	router.POST("/bookings/:id/approve", h.approveBooking)
	router.POST("/bookings/:id/reject", h.rejectBooking)
	router.POST("/bookings/:id/assign", h.assignHelper)
	router.POST("/bookings/:id/complete", h.completeBooking)
	router.POST("/bookings/:id/payment", h.confirmPayment)
}

// createForCustomer creates a booking on a customer's behalf. Admin
// creations start approved and may carry a pre-selected helper.
func (h *AdminHandler) createForCustomer(c *gin.Context) {
	var req struct {
		CustomerID uint `json:"customer_id" binding:"required"`
		models.BookingCreate
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), req.CustomerID, req.BookingCreate, true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

func (h *AdminHandler) listAll(c *gin.Context) {
	f := bookingFilterFromQuery(c)
	f.Normalize()

	page, err := h.bookings.ListAll(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) listPendingApprovals(c *gin.Context) {
	page, err := h.bookings.ListPendingApprovals(c.Request.Context(), bookingFilterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) approveBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	adminID := c.GetUint("user_id")

	var req struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.Approve(c.Request.Context(), id, adminID, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

func (h *AdminHandler) rejectBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	adminID := c.GetUint("user_id")

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required"})
		return
	}

	booking, err := h.bookings.Reject(c.Request.Context(), id, adminID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

func (h *AdminHandler) assignHelper(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		HelperID uint `json:"helper_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.AssignHelper(c.Request.Context(), id, req.HelperID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

func (h *AdminHandler) completeBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	adminID := c.GetUint("user_id")

	booking, err := h.bookings.AdminConfirmBoth(c.Request.Context(), id, adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

func (h *AdminHandler) confirmPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.ConfirmPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}
