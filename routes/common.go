package routes

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"homehelp-server/apperror"
	"homehelp-server/models"
)

// respondError maps application errors to their HTTP status; anything
// untyped becomes a 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// bookingFilterFromQuery reads the common listing filter from query
// parameters.
func bookingFilterFromQuery(c *gin.Context) models.BookingFilter {
	var f models.BookingFilter

	if v, err := strconv.ParseUint(c.Query("service_id"), 10, 32); err == nil {
		id := uint(v)
		f.ServiceID = &id
	}
	f.Province = c.Query("province")
	if t, err := time.Parse("2006-01-02", c.Query("date_from")); err == nil {
		f.DateFrom = &t
	}
	if t, err := time.Parse("2006-01-02", c.Query("date_to")); err == nil {
		f.DateTo = &t
	}
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		f.MaxPrice = &v
	}
	f.Sort = c.Query("sort")
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		f.Page = v
	}
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil {
		f.PageSize = v
	}
	if s := models.BookingStatus(c.Query("status")); s.IsValid() {
		f.Status = s
	}
	return f
}
