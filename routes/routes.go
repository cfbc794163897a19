package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homehelp-server/middleware"
	"homehelp-server/models"
	"homehelp-server/services"
)

// Deps carries everything the route tree needs.
type Deps struct {
	Bookings  *services.BookingService
	Guests    *services.GuestService
	Ratings   *services.RatingService
	Catalog   services.ServiceStore
	JWTSecret string
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Deps) {
	router.Use(middleware.CORSMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.AuthMiddleware(deps.JWTSecret)
	apiV1 := router.Group("/api/v1")
	{
		// Public service catalog
		catalog := apiV1.Group("/services")
		RegisterCatalogRoutes(catalog, NewCatalogHandler(deps.Catalog))

		// Guest routes: unauthenticated, throttled per IP
		guest := apiV1.Group("/guest")
		guest.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(10, 5)))
		RegisterGuestRoutes(guest, NewGuestHandler(deps.Guests))

		// Customer booking routes
		bookings := apiV1.Group("/bookings")
		bookings.Use(auth)
		RegisterBookingRoutes(bookings, NewBookingHandler(deps.Bookings))

		// Rating routes (customer only)
		ratings := apiV1.Group("")
		ratings.Use(auth, middleware.RequireRole(models.RoleCustomer, models.RoleAdmin))
		RegisterRatingRoutes(ratings, NewRatingHandler(deps.Ratings))

		// Helper job board
		jobs := apiV1.Group("/jobs")
		jobs.Use(auth, middleware.RequireRole(models.RoleHelper))
		RegisterJobRoutes(jobs, NewJobHandler(deps.Bookings))

		// Helper discovery and schedules
		helpers := apiV1.Group("/helpers")
		helpers.Use(auth)
		RegisterHelperRoutes(helpers, NewHelperHandler(deps.Bookings, deps.Ratings))

		// Admin moderation surface
		admin := apiV1.Group("/admin")
		admin.Use(auth, middleware.RequireRole(models.RoleAdmin))
		RegisterAdminRoutes(admin, NewAdminHandler(deps.Bookings))
	}
}
