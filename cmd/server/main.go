package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skyvoyage/flight-booking-backend/internal/cache"
	"github.com/skyvoyage/flight-booking-backend/internal/config"
	"github.com/skyvoyage/flight-booking-backend/internal/database"
	"github.com/skyvoyage/flight-booking-backend/internal/handlers"
	"github.com/skyvoyage/flight-booking-backend/internal/middleware"
	"github.com/skyvoyage/flight-booking-backend/internal/services"
	"github.com/skyvoyage/flight-booking-backend/pkg/jwt"
	"github.com/skyvoyage/flight-booking-backend/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SkyVoyage Flight Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if err := database.RunMigrations(db, logger); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Flight cache is optional; an empty REDIS_ADDR disables it
	var flightCache *cache.FlightCache
	if cfg.Redis.Addr != "" {
		flightCache = cache.NewFlightCache(cfg.Redis)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := flightCache.Ping(pingCtx); err != nil {
			logger.WithError(err).Warn("Redis unreachable, flight caching disabled")
			flightCache = nil
		} else {
			logger.Info("Flight cache enabled")
		}
		cancel()
	}

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	tokenRepository := database.NewTokenRepository(db)
	flightRepository := database.NewFlightRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	couponRepository := database.NewCouponRepository(db)
	paymentRepository := database.NewPaymentRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	airportValidator := validator.NewAirportValidator()
	bookingService := services.NewBookingService(bookingRepository, flightRepository, paymentRepository, userRepository, logger)
	couponService := services.NewCouponService(userRepository, bookingRepository, couponRepository, logger)
	stripeService := services.NewStripeService(&cfg.Stripe, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(jwtService, userRepository, tokenRepository, bookingService, cfg, logger)
	flightHandler := handlers.NewFlightHandler(flightRepository, airportValidator, flightCache, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, couponService, logger)
	paymentHandler := handlers.NewPaymentHandler(stripeService, paymentRepository, bookingRepository, userRepository, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/sign-up", authHandler.Register)
			auth.POST("/login", authHandler.Login)

			authProtected := auth.Group("")
			authProtected.Use(middleware.AuthMiddleware(jwtService, tokenRepository))
			{
				authProtected.GET("/user-meta-data", authHandler.UserMetaData)
				authProtected.PUT("/edit-user", authHandler.EditUser)
				authProtected.GET("/logout", authHandler.Logout)
			}
		}

		flights := api.Group("/flights")
		{
			flights.GET("", flightHandler.ListFlights)
			flights.GET("/search", flightHandler.SearchFlights)
			flights.GET("/:flightNumber", flightHandler.GetFlight)

			admin := flights.Group("")
			admin.Use(middleware.AuthMiddleware(jwtService, tokenRepository), middleware.RequireRole("admin"))
			{
				admin.POST("/add", flightHandler.AddFlight)
				admin.PUT("/update/:flightNumber", flightHandler.UpdateFlight)
				admin.DELETE("/:flightNumber", flightHandler.DeleteFlight)
			}
		}

		bookings := api.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(jwtService, tokenRepository))
		{
			bookings.POST("/create", bookingHandler.CreateBooking)
			bookings.GET("/id/:bookingId", bookingHandler.GetBooking)
			bookings.PUT("/id/:bookingId/cancel", bookingHandler.CancelBooking)
			bookings.GET("/coupon-codes", bookingHandler.CouponCodes)
			bookings.GET("/user-bookings", bookingHandler.GetUserBookings)
			bookings.PATCH("/:bookingId/payment-status", bookingHandler.UpdatePaymentStatus)
		}

		payments := api.Group("/payments")
		{
			// The webhook is authenticated by its signature, not a bearer token
			payments.POST("/webhook", paymentHandler.Webhook)

			paymentsProtected := payments.Group("")
			paymentsProtected.Use(middleware.AuthMiddleware(jwtService, tokenRepository))
			{
				paymentsProtected.POST("/checkout", paymentHandler.Checkout)
			}
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if c.Writer.Status() >= 500 {
			logger.WithFields(fields).Error("Request failed")
		} else {
			logger.WithFields(fields).Info("Request completed")
		}
	}
}

func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
