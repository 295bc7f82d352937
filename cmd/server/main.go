package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campuspark/campuspark/internal/config"
	"github.com/campuspark/campuspark/internal/database"
	"github.com/campuspark/campuspark/internal/directory"
	"github.com/campuspark/campuspark/internal/handler"
	"github.com/campuspark/campuspark/internal/janitor"
	"github.com/campuspark/campuspark/internal/service"
	"github.com/campuspark/campuspark/pkg/middleware"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	config.InitLogger(cfg)

	slog.Info("Starting Campus Parking Service", "version", version)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to MongoDB
	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	// Create indexes
	if err := database.CreateIndexes(ctx, db); err != nil {
		slog.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	slotRepo := database.NewSlotRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	userRepo := database.NewUserRepository(db)

	// Seed the fixed slot pool on first start
	if err := slotRepo.EnsurePool(ctx, cfg.PoolSize); err != nil {
		slog.Error("Failed to initialize slot pool", "error", err)
		os.Exit(1)
	}

	// Open the campus eligibility directories
	staffDir, err := directory.Open(cfg.StaffDirectoryPath, directory.DefaultStaffSeed())
	if err != nil {
		slog.Error("Failed to open staff directory", "error", err)
		os.Exit(1)
	}
	studentDir, err := directory.Open(cfg.StudentDirectoryPath, directory.DefaultStudentSeed())
	if err != nil {
		slog.Error("Failed to open student directory", "error", err)
		os.Exit(1)
	}
	logDirectorySummary(staffDir, studentDir)

	// Initialize services
	reservationService := service.NewReservationService(slotRepo, bookingRepo, userRepo, cfg.LeaseTTL)
	statusService := service.NewStatusService(slotRepo, userRepo, cfg.LeaseTTL, cfg.RefreshInterval)
	bookingService := service.NewBookingService(bookingRepo)
	authService := service.NewAuthService(userRepo, staffDir, studentDir, cfg.BcryptCost, cfg.JWTSecret, cfg.JWTTTL)

	// Initialize the optional lease sweep
	var sweeper *janitor.Janitor
	if cfg.SweepEnabled {
		sweeper, err = janitor.New(slotRepo, cfg.LeaseTTL, cfg.SweepSchedule)
		if err != nil {
			slog.Error("Failed to configure lease sweep", "error", err)
			os.Exit(1)
		}
		sweeper.Start(ctx)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	statusHandler := handler.NewStatusHandler(statusService)
	hardwareHandler := handler.NewHardwareHandler(statusService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	adminHandler := handler.NewAdminHandler(authService)
	healthHandler := handler.NewHealthHandler(db, version)

	// Create CORS config
	corsConfig := middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
	}

	// Create router
	router := handler.NewRouter(
		authHandler,
		reservationHandler,
		statusHandler,
		hardwareHandler,
		bookingHandler,
		adminHandler,
		healthHandler,
		corsConfig,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Received shutdown signal, initiating graceful shutdown")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the sweep first so no release races the drain
	if sweeper != nil {
		slog.Info("Stopping lease sweep...")
		sweeper.Stop(shutdownCtx)
	}

	// Shutdown HTTP server
	slog.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Campus Parking Service stopped")
}

// logDirectorySummary replaces the legacy process-wide member counters with a
// one-time summary at startup.
func logDirectorySummary(staffDir, studentDir *directory.Directory) {
	if members, departments, err := staffDir.Counts(); err == nil {
		slog.Info("Loaded staff directory", "members", members, "departments", departments)
	} else {
		slog.Warn("Failed to summarize staff directory", "error", err)
	}
	if members, departments, err := studentDir.Counts(); err == nil {
		slog.Info("Loaded student directory", "members", members, "departments", departments)
	} else {
		slog.Warn("Failed to summarize student directory", "error", err)
	}
}
