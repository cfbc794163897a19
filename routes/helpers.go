package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"homehelp-server/models"
	"homehelp-server/services"
)

// HelperHandler serves the availability search, helper schedules and
// helper ratings.
type HelperHandler struct {
	bookings *services.BookingService
	ratings  *services.RatingService
}

// NewHelperHandler creates a new helper handler
func NewHelperHandler(bookings *services.BookingService, ratings *services.RatingService) *HelperHandler {
	return &HelperHandler{bookings: bookings, ratings: ratings}
}

// RegisterHelperRoutes registers the helper discovery routes
func RegisterHelperRoutes(router *gin.RouterGroup, h *HelperHandler) {
	router.GET("/available", h.findAvailable)
	router.GET("/:id/schedule", h.getSchedule)
	router.GET("/:id/ratings", h.listRatings)
}

// findAvailable lists active helpers free in the requested window,
// ranked best first.
func (h *HelperHandler) findAvailable(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "service_id is required"})
		return
	}

	window, ok := windowFromQuery(c)
	if !ok {
		return
	}
	if err := window.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := models.HelperFilter{Province: c.Query("province")}
	candidates, err := h.bookings.Matcher().FindAvailable(c.Request.Context(), window, uint(serviceID), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"helpers": candidates, "count": len(candidates)})
}

// getSchedule returns the helper's occupied slots in a date range,
// defaulting to the next 30 days.
func (h *HelperHandler) getSchedule(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	from := time.Now()
	to := from.AddDate(0, 0, 30)
	if t, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		from = t
	}
	if t, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		to = t
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
		return
	}

	entries, err := h.bookings.HelperSchedule(c.Request.Context(), id, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": entries, "count": len(entries)})
}

func (h *HelperHandler) listRatings(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ratings, err := h.ratings.ListForHelper(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings, "count": len(ratings)})
}

func windowFromQuery(c *gin.Context) (models.Window, bool) {
	startDate, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return models.Window{}, false
	}
	endDate, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return models.Window{}, false
	}
	return models.Window{
		StartDate:  startDate,
		EndDate:    endDate,
		ShiftStart: models.ShiftTime(c.Query("shift_start")),
		ShiftEnd:   models.ShiftTime(c.Query("shift_end")),
	}, true
}
