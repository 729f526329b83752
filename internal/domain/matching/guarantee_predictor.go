package matching

import (
	"sync"

	"github.com/andrescamacho/work4food-go/internal/domain/shared"
)

// PredictorConfig carries the tunables of the guarantee-ratio estimator.
type PredictorConfig struct {
	InitialOmega float64
	OmegaMin     float64
	OmegaMax     float64
	Smoothing    float64
	HistoryCap   int
}

// DefaultPredictorConfig returns the platform defaults.
func DefaultPredictorConfig() PredictorConfig {
	return PredictorConfig{
		InitialOmega: 0.25,
		OmegaMin:     0.05,
		OmegaMax:     0.9,
		Smoothing:    0.2,
		HistoryCap:   50,
	}
}

type workActivePair struct {
	work   float64
	active float64
}

// GuaranteePredictor is a smoothed estimator of omega, the platform-wide
// work/active ratio. Each batch window appends one (total work, total active)
// aggregate; omega moves toward the average observed ratio by the smoothing
// factor and is clamped to [OmegaMin, OmegaMax].
//
// The batch processor is the single writer. Predict may be called
// concurrently by read-side services.
type GuaranteePredictor struct {
	mu      sync.RWMutex
	omega   float64
	history []workActivePair
	cfg     PredictorConfig
}

// NewGuaranteePredictor validates the config and builds the predictor.
func NewGuaranteePredictor(cfg PredictorConfig) (*GuaranteePredictor, error) {
	if cfg.OmegaMin < 0 || cfg.OmegaMax <= cfg.OmegaMin {
		return nil, shared.NewValidationError("omega_bounds",
			"omega bounds must satisfy 0 <= min < max")
	}
	if cfg.InitialOmega < cfg.OmegaMin || cfg.InitialOmega > cfg.OmegaMax {
		return nil, shared.NewValidationError("initial_omega",
			"initial omega must lie within the clamp bounds")
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		return nil, shared.NewValidationError("smoothing",
			"smoothing factor must be in (0, 1]")
	}
	if cfg.HistoryCap <= 0 {
		return nil, shared.NewValidationError("history_cap",
			"history cap must be positive")
	}
	return &GuaranteePredictor{
		omega:   cfg.InitialOmega,
		history: make([]workActivePair, 0, cfg.HistoryCap),
		cfg:     cfg,
	}, nil
}

// Predict returns the current omega, always within the clamp bounds.
func (p *GuaranteePredictor) Predict() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.omega
}

// Update appends a (total work, total active) aggregate and re-smooths omega.
// Windows where every historical active total is zero leave omega unchanged.
func (p *GuaranteePredictor) Update(totalWork, totalActive float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.history = append(p.history, workActivePair{work: totalWork, active: totalActive})
	if len(p.history) > p.cfg.HistoryCap {
		p.history = p.history[1:]
	}

	avg, ok := p.averageRatio()
	if !ok {
		return
	}

	p.omega = (1-p.cfg.Smoothing)*p.omega + p.cfg.Smoothing*avg
	p.omega = clamp(p.omega, p.cfg.OmegaMin, p.cfg.OmegaMax)
}

// HistoryLen returns the number of aggregates currently retained.
func (p *GuaranteePredictor) HistoryLen() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.history)
}

// averageRatio computes mean(work/active) over history entries with
// active > 0. The second return is false when no entry qualifies.
func (p *GuaranteePredictor) averageRatio() (float64, bool) {
	sum := 0.0
	count := 0
	for _, pair := range p.history {
		if pair.active <= 0 {
			continue
		}
		sum += pair.work / pair.active
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
