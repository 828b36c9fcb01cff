// config/logger.go
package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

func InitLogger(level string) {
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	// stdout belongs to the dashboard
	Logger.SetOutput(os.Stderr)
	Logger.SetLevel(ParseLevel(level))
}

// ParseLevel maps LOG_LEVEL values onto logrus levels, defaulting to warn so
// the terminal UI stays readable.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}
