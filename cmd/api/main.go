package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	// Application Layer
	appService "binday/internal/application/service"
	"binday/internal/application/dto"

	// Infrastructure Layer
	"binday/internal/infrastructure/database/sqlite"
	lineClient "binday/internal/infrastructure/line"
	"binday/internal/infrastructure/notification"
	"binday/internal/infrastructure/poller"
	"binday/internal/infrastructure/wastedata"

	// Interfaces Layer
	"binday/internal/interfaces/api/handler"
	"binday/internal/interfaces/api/router"

	// Packages
	appErrors "binday/internal/pkg/errors"
	appLogger "binday/internal/pkg/logger"

	"github.com/jonboulle/clockwork"
	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
)

func gracefulShutdown(apiServer *http.Server, dayPoller *poller.DayChangePoller, deliveryScheduler *notification.Scheduler, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")

	// In-process timers first; OS-independent scheduled deliveries are gone
	// with the process anyway and get re-registered from the persisted
	// trigger set on the next start.
	log.Println("Stopping day-change poller...")
	dayPoller.Cancel()

	log.Println("Stopping delivery scheduler...")
	deliveryScheduler.Stop()

	log.Println("Closing database connection...")
	if err := sqlite.CloseDB(); err != nil {
		log.Printf("Error closing database: %v", err)
	} else {
		log.Println("Database connection closed.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {
	// --- Initialization ---
	appLog := appLogger.New()
	appLog.Info("Logger initialized.")

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080" // Default port
		appLog.Warn("PORT environment variable not set, defaulting to 8080")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		appLog.Error("Invalid PORT environment variable", err)
		os.Exit(1)
	}

	apiBaseURL := os.Getenv("WASTE_API_BASE_URL")
	if apiBaseURL == "" {
		appLog.Error("WASTE_API_BASE_URL environment variable must be set", nil)
		os.Exit(1)
	}

	minFreshDays := appService.DefaultMinFreshDays
	if v := os.Getenv("BINDAY_MIN_FRESH_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			minFreshDays = parsed
		} else {
			appLog.Warn(fmt.Sprintf("Invalid BINDAY_MIN_FRESH_DAYS %q, using default %d", v, appService.DefaultMinFreshDays))
		}
	}

	clock := clockwork.NewRealClock()
	loc := time.Local

	// --- Infrastructure ---
	db := sqlite.NewDB()
	archiveRepo := sqlite.NewArchiveRepository(db)
	appLog.Info("Database and archive repository initialized.")

	line := lineClient.NewClient(appLog)
	fetcher := wastedata.NewClient(apiBaseURL, appLog)
	deliveryScheduler := notification.NewScheduler(line, loc, appLog)
	dayPoller := poller.New(clock, appLog)

	// --- Application Services ---
	addressSvc := appService.NewAddressService(archiveRepo, appLog)
	prefsSvc := appService.NewPreferencesService(archiveRepo, appLog)
	scheduleSvc := appService.NewScheduleService(archiveRepo, fetcher, addressSvc, prefsSvc, clock, loc, minFreshDays, appLog)
	dispatchSvc := appService.NewDispatchService(scheduleSvc, deliveryScheduler, clock, loc, appLog)
	deliveryScheduler.SetDeliveredHandler(func(identity string) {
		if err := dispatchSvc.HandleDelivered(context.Background(), identity); err != nil {
			appLog.Error(fmt.Sprintf("Failed to record delivery for %s", identity), err)
		}
	})
	appLog.Info("Application services initialized.")

	// --- Seed Address From Environment (optional) ---
	if v := os.Getenv("WASTE_API_LOCATION_ID"); v != "" {
		locationID, err := strconv.Atoi(v)
		if err != nil {
			appLog.Error("Invalid WASTE_API_LOCATION_ID environment variable", err)
			os.Exit(1)
		}
		title := os.Getenv("WASTE_ADDRESS_TITLE")
		changed, err := addressSvc.Set(context.Background(), dto.SetAddressRequest{ID: locationID, Title: title})
		if err != nil {
			appLog.Error("Failed to persist configured address", err)
			os.Exit(1)
		}
		if changed {
			appLog.Info("Configured address changed, clearing cached schedule.")
			if err := scheduleSvc.Clear(context.Background()); err != nil {
				appLog.Error("Failed to clear cached schedule after address change", err)
			}
		}
	}

	// --- Initialize Deliveries ---
	// Re-register from the last persisted trigger set first; a crash during
	// an earlier resync is recovered here. The network refresh afterwards is
	// best effort.
	appLog.Info("Restoring scheduled deliveries from persisted state...")
	if days, err := scheduleSvc.Load(context.Background()); len(days) > 0 {
		if errors.Is(err, appErrors.ErrStaleData) {
			appLog.Warn("Persisted schedule is stale, scheduling from it anyway until refresh succeeds")
		}
		if err := dispatchSvc.Resync(context.Background(), days); err != nil {
			appLog.Error("Failed to restore scheduled deliveries", err)
		}
	}
	go func() {
		if _, err := dispatchSvc.RefreshAndResync(context.Background()); err != nil {
			appLog.Warn(fmt.Sprintf("Initial schedule refresh failed: %v", err))
		}
	}()

	// --- Day-Change Poller ---
	dayPoller.Start(true, func() {
		err := dispatchSvc.ExpireStale(context.Background())
		if err != nil && !errors.Is(err, appErrors.ErrAuthorizationDenied) {
			appLog.Error("Day-change recomputation failed", err)
		}
	})

	// --- API Handlers ---
	lineHandler := handler.NewLineHandler(line, dispatchSvc, scheduleSvc, prefsSvc, appLog)
	appLog.Info("API handlers initialized.")

	// --- Router ---
	routerCfg := &router.Config{
		LineHandler: lineHandler,
		Logger:      appLog,
	}
	echoRouter := router.NewRouter(routerCfg)

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// --- Start Server & Shutdown Handling ---
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dayPoller, deliveryScheduler, done)

	appLog.Info(fmt.Sprintf("Server starting on port %d", port))
	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		appLog.Error("HTTP server ListenAndServe error", err)
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for graceful shutdown signal
	<-done
	appLog.Info("Graceful shutdown complete.")
}
