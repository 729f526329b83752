package cli

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/work4food-go/internal/adapters/persistence"
	"github.com/andrescamacho/work4food-go/internal/application/common"
	"github.com/andrescamacho/work4food-go/internal/domain/dispatch"
	"github.com/andrescamacho/work4food-go/internal/domain/matching"
	"github.com/andrescamacho/work4food-go/internal/domain/shared"
	"github.com/andrescamacho/work4food-go/internal/infrastructure/config"
	"github.com/andrescamacho/work4food-go/internal/infrastructure/database"
	"github.com/andrescamacho/work4food-go/internal/infrastructure/logging"
)

// app bundles the wiring every CLI command needs: config, database and
// the repositories built on it.
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	couriers *persistence.CourierRepositoryGORM
	orders   *persistence.OrderRepositoryGORM
	batches  *persistence.BatchRepositoryGORM
	clock    shared.Clock
}

// openApp loads configuration, connects to the database and builds the
// repositories. Callers must close() the app when done.
func openApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &app{
		cfg:      cfg,
		db:       db,
		couriers: persistence.NewCourierRepository(db),
		orders:   persistence.NewOrderRepository(db),
		batches:  persistence.NewBatchRepository(db),
		clock:    shared.NewRealClock(),
	}, nil
}

func (a *app) close() {
	_ = database.Close(a.db)
}

// ctx returns the command context; verbose mode attaches a debug-level
// console logger.
func (a *app) ctx() context.Context {
	ctx := context.Background()
	if verbose {
		logCfg := a.cfg.Logging
		logCfg.Level = "debug"
		logCfg.Format = "text"
		ctx = common.WithLogger(ctx, logging.NewLogger(&logCfg))
	}
	return ctx
}

func (a *app) estimator() *dispatch.WorkEstimator {
	return dispatch.NewWorkEstimator(a.cfg.Dispatch.PrepTimeMinutes, a.cfg.Dispatch.AgentSpeedKmph)
}

// predictor builds a guarantee predictor seeded from the most recent batch
// record, so one-shot CLI invocations continue from where the scheduler
// left off instead of resetting to the configured initial ratio.
func (a *app) predictor(ctx context.Context) (*matching.GuaranteePredictor, error) {
	p := a.cfg.Dispatch.Predictor
	cfg := matching.PredictorConfig{
		InitialOmega: p.InitialOmega,
		OmegaMin:     p.MinOmega,
		OmegaMax:     p.MaxOmega,
		Smoothing:    p.Smoothing,
		HistoryCap:   p.HistoryCap,
	}

	records, err := a.batches.RecentBatches(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && records[0].OmegaUsed >= cfg.OmegaMin && records[0].OmegaUsed <= cfg.OmegaMax {
		cfg.InitialOmega = records[0].OmegaUsed
	}

	return matching.NewGuaranteePredictor(cfg)
}
