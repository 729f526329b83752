package config

// DispatchConfig holds the batching, travel and payment parameters of the
// dispatch engine.
type DispatchConfig struct {
	// Length of an assignment window in minutes
	BatchWindowMinutes int `mapstructure:"batch_window_minutes" validate:"min=1"`

	// Whether a batch also picks up pending orders left over from
	// earlier windows instead of only the current window
	CarryForwardPending bool `mapstructure:"carry_forward_pending"`

	// Default courier travel speed in km/h (used when a courier has no
	// speed of its own)
	AgentSpeedKmph float64 `mapstructure:"agent_speed_kmph" validate:"gt=0"`

	// Fixed food preparation time added to every delivery estimate, in minutes
	PrepTimeMinutes float64 `mapstructure:"prep_time_minutes" validate:"gte=0"`

	// Payment rate in currency units per guaranteed work hour
	PayPerHour float64 `mapstructure:"pay_per_hour" validate:"gt=0"`

	// Minimum hourly wage used for violation reporting at finalization
	MinWage float64 `mapstructure:"min_wage" validate:"gte=0"`

	// Guarantee predictor tuning
	Predictor PredictorConfig `mapstructure:"predictor"`
}

// PredictorConfig holds the smoothed work-to-active ratio predictor tuning
type PredictorConfig struct {
	// Starting ratio before any history has accumulated
	InitialOmega float64 `mapstructure:"initial_omega" validate:"gt=0,lte=1"`

	// Hard bounds the ratio is clamped into after every update
	MinOmega float64 `mapstructure:"min_omega" validate:"gt=0"`
	MaxOmega float64 `mapstructure:"max_omega" validate:"gt=0,lte=1"`

	// Exponential smoothing factor applied per batch
	Smoothing float64 `mapstructure:"smoothing" validate:"gt=0,lte=1"`

	// Maximum number of batch observations retained
	HistoryCap int `mapstructure:"history_cap" validate:"min=1"`
}
