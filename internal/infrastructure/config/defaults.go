package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "work4food"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "work4food"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Dispatch defaults
	if cfg.Dispatch.BatchWindowMinutes == 0 {
		cfg.Dispatch.BatchWindowMinutes = 3
	}
	if cfg.Dispatch.AgentSpeedKmph == 0 {
		cfg.Dispatch.AgentSpeedKmph = 25
	}
	if cfg.Dispatch.PrepTimeMinutes == 0 {
		cfg.Dispatch.PrepTimeMinutes = 8
	}
	if cfg.Dispatch.PayPerHour == 0 {
		cfg.Dispatch.PayPerHour = 100
	}
	if cfg.Dispatch.MinWage == 0 {
		cfg.Dispatch.MinWage = 80
	}
	if cfg.Dispatch.Predictor.InitialOmega == 0 {
		cfg.Dispatch.Predictor.InitialOmega = 0.25
	}
	if cfg.Dispatch.Predictor.MinOmega == 0 {
		cfg.Dispatch.Predictor.MinOmega = 0.05
	}
	if cfg.Dispatch.Predictor.MaxOmega == 0 {
		cfg.Dispatch.Predictor.MaxOmega = 0.9
	}
	if cfg.Dispatch.Predictor.Smoothing == 0 {
		cfg.Dispatch.Predictor.Smoothing = 0.2
	}
	if cfg.Dispatch.Predictor.HistoryCap == 0 {
		cfg.Dispatch.Predictor.HistoryCap = 50
	}

	// Daemon defaults
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/work4food-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 30 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
