package tts

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger builds a logger at the given verbosity ("debug", "info",
// "warn", "error"). Unknown levels fall back to info.
func NewLogger(w io.Writer, verbosity string) *log.Logger {
	level, err := log.ParseLevel(verbosity)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           level,
		Prefix:          "orpheus",
	})
}
