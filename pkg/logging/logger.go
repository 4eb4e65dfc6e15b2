package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// DefaultName is the root logger name; components log as gen3save.<component>.
const DefaultName = "gen3save"

// Levels accepted by NewLogger and GEN3SAVE_LOG_LEVEL.
var Levels = []string{"trace", "debug", "info", "warn", "error", "off"}

// NewLogger creates the CLI logger. An empty name becomes DefaultName and an
// unknown level falls back to warn. Plain output gets a 💾 prefix on every
// line; GEN3SAVE_JSON_LOG=1 switches to JSON.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if name == "" {
		name = DefaultName
	}
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv("GEN3SAVE_JSON_LOG") == "1"
	if !jsonFormat {
		output = NewPrefixWriter("💾 ", output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      parseLevel(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// ValidLevel reports whether level is one of Levels, ignoring case.
func ValidLevel(level string) bool {
	level = strings.ToLower(strings.TrimSpace(level))
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

func parseLevel(level string) hclog.Level {
	if !ValidLevel(level) {
		return hclog.Warn
	}
	return hclog.LevelFromString(strings.TrimSpace(level))
}

// GetLogLevel returns GEN3SAVE_LOG_LEVEL, or warn when it is unset.
func GetLogLevel() string {
	level := os.Getenv("GEN3SAVE_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	return level
}

// OrNull returns logger, or a null logger when logger is nil.
func OrNull(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}

// For returns the sub-logger a package logs through. A nil parent yields a
// null logger so library callers need not configure logging.
func For(parent hclog.Logger, component string) hclog.Logger {
	logger := OrNull(parent)
	if component == "" {
		return logger
	}
	return logger.Named(component)
}
