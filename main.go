package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"homehelp-server/captcha"
	"homehelp-server/config"
	"homehelp-server/database"
	"homehelp-server/jobs"
	"homehelp-server/notify"
	"homehelp-server/obs"
	"homehelp-server/repository"
	"homehelp-server/routes"
	"homehelp-server/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Initialize database
	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}

	// Tracing
	shutdownTracer := obs.InitTracer("homehelp-server")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			log.Printf("⚠️ Tracer shutdown: %v", err)
		}
	}()

	// Repositories
	bookingRepo := repository.NewBookingRepo(db)
	helperRepo := repository.NewHelperRepo(db)
	userRepo := repository.NewUserRepo(db)
	serviceRepo := repository.NewServiceRepo(db)
	ratingRepo := repository.NewRatingRepo(db)

	// Notification gateway: message broker if configured, database inbox
	// otherwise
	var gateway services.NotificationGateway
	if cfg.MQ.URL != "" {
		mq, err := notify.NewAMQP(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to message broker: ", err)
		}
		defer mq.Close()
		gateway = mq
		log.Printf("📡 Publishing lifecycle events to exchange %q", cfg.MQ.Exchange)
	} else {
		gateway = notify.NewStore(db)
		log.Println("📥 Storing lifecycle events as notification rows")
	}

	// Captcha verifier for the guest endpoint
	var verifier services.CaptchaVerifier
	if cfg.Captcha.Endpoint != "" {
		verifier = captcha.NewHTTPVerifier(cfg.Captcha.Endpoint, cfg.Captcha.Secret)
	} else {
		verifier = captcha.StaticVerifier{}
		log.Println("⚠️ No captcha endpoint configured, using static dev verifier")
	}

	// Services
	bookingService := services.NewBookingService(bookingRepo, helperRepo, userRepo, serviceRepo, gateway)
	guestService := services.NewGuestService(bookingRepo, serviceRepo, verifier, gateway)
	ratingService := services.NewRatingService(ratingRepo, bookingRepo, helperRepo)

	// Seed the service catalog on first boot
	if err := SeedServices(db); err != nil {
		log.Printf("⚠️ Failed to seed services: %v", err)
	}

	// Background expiration sweeper
	sweeper := jobs.NewExpirationJob(bookingRepo, gateway, time.Duration(cfg.Sweeper.IntervalSeconds)*time.Second)
	sweeper.Start()
	defer sweeper.Stop()

	// Set Gin mode
	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.RedirectTrailingSlash = false

	routes.RegisterRoutes(router, routes.Deps{
		Bookings:  bookingService,
		Guests:    guestService,
		Ratings:   ratingService,
		Catalog:   serviceRepo,
		JWTSecret: cfg.JWT.Secret,
	})

	log.Printf("🚀 Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
