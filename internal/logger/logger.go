// Package logger configures the process-wide logrus logger.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/plotwist/importer/internal/config"
)

// Setup applies the configured level and format to the standard logrus
// logger. Unknown levels fall back to info.
func Setup(cfg config.Log) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
