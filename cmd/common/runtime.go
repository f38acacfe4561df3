package common

import (
	"github.com/tata-ai/tata/pkg/config"
	"github.com/tata-ai/tata/pkg/logger"
)

// Runtime is filled by the root command before any subcommand runs
type Runtime struct {
	Config *config.Config
	Logger *logger.Logger
}
