package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/work4food-go/internal/domain/matching"
)

func TestGuaranteePredictor_InitialOmega(t *testing.T) {
	p, err := matching.NewGuaranteePredictor(matching.DefaultPredictorConfig())
	require.NoError(t, err)

	assert.Equal(t, 0.25, p.Predict())
	assert.Zero(t, p.HistoryLen())
}

func TestGuaranteePredictor_InvalidConfig(t *testing.T) {
	cfg := matching.DefaultPredictorConfig()
	cfg.OmegaMin = 0.9
	cfg.OmegaMax = 0.1
	_, err := matching.NewGuaranteePredictor(cfg)
	assert.Error(t, err)

	cfg = matching.DefaultPredictorConfig()
	cfg.InitialOmega = 0.95
	_, err = matching.NewGuaranteePredictor(cfg)
	assert.Error(t, err)

	cfg = matching.DefaultPredictorConfig()
	cfg.Smoothing = 0
	_, err = matching.NewGuaranteePredictor(cfg)
	assert.Error(t, err)
}

func TestGuaranteePredictor_SmoothsTowardObservedRatio(t *testing.T) {
	p, err := matching.NewGuaranteePredictor(matching.DefaultPredictorConfig())
	require.NoError(t, err)

	// One observation with ratio 0.5: omega = 0.8*0.25 + 0.2*0.5 = 0.3
	p.Update(2.0, 4.0)
	assert.InDelta(t, 0.3, p.Predict(), 1e-9)

	// History now holds two entries with average ratio (0.5 + 0.5)/2
	p.Update(3.0, 6.0)
	assert.InDelta(t, 0.34, p.Predict(), 1e-9)
	assert.Equal(t, 2, p.HistoryLen())
}

func TestGuaranteePredictor_IgnoresZeroActiveEntries(t *testing.T) {
	p, err := matching.NewGuaranteePredictor(matching.DefaultPredictorConfig())
	require.NoError(t, err)

	// No active hours observed: omega must not move
	p.Update(1.0, 0)
	assert.InDelta(t, 0.25, p.Predict(), 1e-9)
}

func TestGuaranteePredictor_ClampsToBounds(t *testing.T) {
	cfg := matching.DefaultPredictorConfig()
	cfg.Smoothing = 1.0 // jump straight to the observed average
	p, err := matching.NewGuaranteePredictor(cfg)
	require.NoError(t, err)

	// Ratio 5.0 would blow past the cap
	p.Update(10.0, 2.0)
	assert.InDelta(t, 0.9, p.Predict(), 1e-9)

	// Ratio 0.001 falls below the floor
	for i := 0; i < 60; i++ {
		p.Update(0.002, 2.0)
	}
	assert.InDelta(t, 0.05, p.Predict(), 1e-9)
}

func TestGuaranteePredictor_HistoryEviction(t *testing.T) {
	cfg := matching.DefaultPredictorConfig()
	cfg.HistoryCap = 3
	p, err := matching.NewGuaranteePredictor(cfg)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		p.Update(1.0, 4.0)
	}
	assert.Equal(t, 3, p.HistoryLen())
}
