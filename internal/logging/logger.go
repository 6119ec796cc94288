// Package logging builds the logrus loggers shared by the servers and CLI.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dementia-probability-mcp/internal/domain"
)

// Operation types
const (
	OperationToolCall   = "tool_call"
	OperationAPIRequest = "api_request"
	OperationCLI        = "cli"
)

// New creates a logger from cfg. Output defaults to stderr so that stdout
// stays free for the stdio MCP transport and CLI results.
func New(cfg domain.LoggingConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	if strings.EqualFold(cfg.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// Operation logs the outcome of one calculation request at info level, or
// at warn level when it failed.
func Operation(logger *logrus.Logger, opType, name string, sel domain.Selection, duration time.Duration, err error) {
	entry := logger.WithFields(logrus.Fields{
		"operation_type": opType,
		"operation_name": name,
		"duration_ms":    float64(duration.Microseconds()) / 1000,
		"success":        err == nil,
	})
	if sel.Gender.Valid() {
		entry = entry.WithField("gender", sel.Gender.String())
	}
	if sel.AgeBracket.Valid() {
		entry = entry.WithField("age_bracket", sel.AgeBracket.String())
	}
	if sel.MMSEResult.Valid() {
		entry = entry.WithField("mmse_result", sel.MMSEResult.String())
	}

	if err != nil {
		entry.WithError(err).Warn("Operation failed")
		return
	}
	entry.Info("Operation completed")
}
