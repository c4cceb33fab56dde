package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

const linePrefix = "🧱 "

// NewLogger creates an hclog logger with the standard tileforge settings.
// A nil output defaults to stderr.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv("TILEFORGE_JSON_LOG") == "1"

	// Prefix each line for human-readable output; JSON stays machine-clean.
	if !jsonFormat {
		output = NewPrefixWriter(linePrefix, output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// ResolveLevel picks the effective log level: an explicit value wins,
// then TILEFORGE_LOG_LEVEL, then "warn".
func ResolveLevel(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if level := os.Getenv("TILEFORGE_LOG_LEVEL"); level != "" {
		return level
	}
	return "warn"
}
