package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/andrescamacho/work4food-go/internal/application/common"
	"github.com/andrescamacho/work4food-go/internal/infrastructure/config"
)

// ZerologAdapter bridges the application-level Logger interface onto a
// structured zerolog logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewLogger builds a zerolog-backed logger from configuration
func NewLogger(cfg *config.LoggingConfig) *ZerologAdapter {
	var out io.Writer = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}
	if cfg.Format == "text" {
		out = zerolog.ConsoleWriter{Out: out}
	}

	level := parseLevel(cfg.Level)
	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if cfg.IncludeCaller {
		ctx = ctx.Caller()
	}

	return &ZerologAdapter{logger: ctx.Logger()}
}

// Log implements common.Logger
func (z *ZerologAdapter) Log(level, message string, fields map[string]interface{}) {
	var event *zerolog.Event
	switch level {
	case common.LevelDebug:
		event = z.logger.Debug()
	case common.LevelWarn:
		event = z.logger.Warn()
	case common.LevelError:
		event = z.logger.Error()
	default:
		event = z.logger.Info()
	}

	event.Fields(fields).Msg(message)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

var _ common.Logger = (*ZerologAdapter)(nil)
