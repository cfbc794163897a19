package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehelp-server/services"
)

// JobHandler serves the helper-facing job board: browsing open posts,
// accepting them, and listing the helper's own engagements.
type JobHandler struct {
	bookings *services.BookingService
}

// NewJobHandler creates a new job handler
func NewJobHandler(bookings *services.BookingService) *JobHandler {
	return &JobHandler{bookings: bookings}
}

// RegisterJobRoutes registers the helper job routes
func RegisterJobRoutes(router *gin.RouterGroup, h *JobHandler) {
	router.GET("/available", h.listAvailableJobs)
	router.GET("/mine", h.listMyJobs)
	router.POST("/:id/accept", h.acceptJob)
}

func (h *JobHandler) listAvailableJobs(c *gin.Context) {
	userID := c.GetUint("user_id")

	page, err := h.bookings.ListAvailableJobs(c.Request.Context(), userID, bookingFilterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *JobHandler) listMyJobs(c *gin.Context) {
	userID := c.GetUint("user_id")

	page, err := h.bookings.ListHelperJobs(c.Request.Context(), userID, bookingFilterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *JobHandler) acceptJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID := c.GetUint("user_id")

	booking, err := h.bookings.AcceptJob(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}
