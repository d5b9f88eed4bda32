package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stayvilla/booking-pricing-system/internal/config"
	"github.com/stayvilla/booking-pricing-system/internal/handler"
	"github.com/stayvilla/booking-pricing-system/internal/pricing"
	"github.com/stayvilla/booking-pricing-system/internal/repository"
	"github.com/stayvilla/booking-pricing-system/internal/service"
	"github.com/stayvilla/booking-pricing-system/internal/validator"
	"github.com/stayvilla/booking-pricing-system/pkg/database"
)

func main() {
	// Local development convenience; a missing .env is not an error
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	app := fiber.New(fiber.Config{
		AppName:      "Booking Pricing Service",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB body limit
	})

	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	validate := validator.New()

	// Pricing engine parameters are fixed at startup
	engine := pricing.NewEngine(cfg.Pricing.ServiceFeeRate, cfg.Pricing.LoyaltyEarnRatio)

	// Layered wiring: repositories -> services -> handlers
	propertyRepo := repository.NewPropertyRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	redemptionRepo := repository.NewRedemptionRepository(pool)
	loyaltyRepo := repository.NewLoyaltyRepository(pool)

	pricingService := service.NewPricingService(propertyRepo, couponRepo, engine)
	couponService := service.NewCouponService(couponRepo, redemptionRepo)
	bookingService := service.NewBookingService(pool, couponRepo, redemptionRepo, loyaltyRepo, engine)

	pricingHandler := handler.NewPricingHandler(pricingService, validate)
	propertyHandler := handler.NewPropertyHandler(pricingService, validate)
	couponHandler := handler.NewCouponHandler(couponService, validate)
	bookingHandler := handler.NewBookingHandler(bookingService, validate)
	healthHandler := handler.NewHealthHandler(pool)

	app.Get("/health", healthHandler.Check)

	app.Post("/api/pricing/quote", pricingHandler.Quote)
	app.Post("/api/bookings/confirm", bookingHandler.Confirm)
	app.Get("/api/loyalty/:guest_id", bookingHandler.LoyaltyBalance)

	app.Post("/api/coupons", couponHandler.CreateCoupon)
	app.Get("/api/coupons/:code", couponHandler.GetCoupon)
	app.Post("/api/coupons/:code/deactivate", couponHandler.DeactivateCoupon)

	app.Post("/api/properties", propertyHandler.CreateProperty)
	app.Get("/api/properties/:id", propertyHandler.GetProperty)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	pool.Close()
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
