package config

import "time"

// DaemonConfig holds dispatch daemon process configuration
type DaemonConfig struct {
	// PID file path for single-instance enforcement
	PIDFile string `mapstructure:"pid_file"`

	// Grace period given to an in-flight batch during shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}
