package main

import (
	"github.com/forumkit/wagerhall/internal/config"
	"github.com/forumkit/wagerhall/internal/logger"
)

// ServiceName identifies this service in log attributes
const ServiceName = "wagerhall"

// Version is overridable at build time via -ldflags
var Version = "dev"

// initLogger initializes the logger using centralized app configuration
func initLogger(cfg *config.Config) {
	// Source info is only useful in dev
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"

	loggerConfig := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		ServiceName,
		Version,
		cfg.Environment,
		addSource,
	)

	logger.InitLogger(loggerConfig)
}
