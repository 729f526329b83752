package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrescamacho/work4food-go/internal/adapters/metrics"
	"github.com/andrescamacho/work4food-go/internal/adapters/persistence"
	"github.com/andrescamacho/work4food-go/internal/application/common"
	appdispatch "github.com/andrescamacho/work4food-go/internal/application/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/matching"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
	"github.com/andrescamacho/work4food-go/internal/infrastructure/config"
	"github.com/andrescamacho/work4food-go/internal/infrastructure/database"
	"github.com/andrescamacho/work4food-go/internal/infrastructure/logging"
	"github.com/andrescamacho/work4food-go/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	fmt.Println("work4food Dispatch Daemon v0.1.0")
	fmt.Println("================================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	// Acquire PID file lock to prevent concurrent schedulers
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	if err := pf.Acquire(); err != nil {
		if *forceFlag {
			fmt.Println("Force mode enabled - attempting to kill existing daemon...")
			if killErr := pf.KillExisting(); killErr != nil {
				log.Fatalf("Failed to kill existing daemon: %v", killErr)
			}
			fmt.Println("Existing daemon killed")

			if err := pf.Acquire(); err != nil {
				log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
			}
		} else {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
	}

	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	// 1. Setup database connection
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("Database connected")

	// 2. Repositories
	courierRepo := persistence.NewCourierRepository(db)
	orderRepo := persistence.NewOrderRepository(db)
	batchRepo := persistence.NewBatchRepository(db)

	// 3. Matching pipeline
	predictor, err := matching.NewGuaranteePredictor(matching.PredictorConfig{
		InitialOmega: cfg.Dispatch.Predictor.InitialOmega,
		OmegaMin:     cfg.Dispatch.Predictor.MinOmega,
		OmegaMax:     cfg.Dispatch.Predictor.MaxOmega,
		Smoothing:    cfg.Dispatch.Predictor.Smoothing,
		HistoryCap:   cfg.Dispatch.Predictor.HistoryCap,
	})
	if err != nil {
		return fmt.Errorf("failed to build guarantee predictor: %w", err)
	}

	estimator := dispatch.NewWorkEstimator(cfg.Dispatch.PrepTimeMinutes, cfg.Dispatch.AgentSpeedKmph)
	engine := matching.NewAssignmentEngine(estimator)

	// 4. Metrics (optional)
	var recorder appdispatch.MetricsRecorder
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		collector := metrics.NewBatchMetricsCollector()
		if err := collector.Register(); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		recorder = collector

		metricsServer = metrics.NewServer(&cfg.Metrics)
		go func() {
			fmt.Printf("Metrics listening on %s%s\n", metricsServer.Addr, cfg.Metrics.Path)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// 5. Batch processor and scheduler
	processor := appdispatch.NewBatchProcessor(
		orderRepo, courierRepo, batchRepo,
		engine, predictor,
		appdispatch.ProcessorConfig{
			WindowMinutes:       cfg.Dispatch.BatchWindowMinutes,
			CarryForwardPending: cfg.Dispatch.CarryForwardPending,
		},
		shared.NewRealClock(),
		recorder,
	)
	scheduler := appdispatch.NewBatchScheduler(processor)

	// 6. Structured logger carried through context
	logger := logging.NewLogger(&cfg.Logging)
	ctx := common.WithLogger(context.Background(), logger)
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("\nBatch window: %d min, omega start %.4f\n",
		cfg.Dispatch.BatchWindowMinutes, predictor.Predict())
	fmt.Println("Scheduler running. Press Ctrl+C to stop")

	// Blocks until the context is cancelled
	if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler error: %w", err)
	}

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
		defer shutdownCancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}

	fmt.Println("\nDaemon stopped")
	return nil
}
