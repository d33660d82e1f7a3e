package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/aliskhannn/kural-wallpaper/internal/config"
)

// New builds the application logger. Scheduled runs have no console, so
// when cfg.LogFile is set the output goes there as well as to stderr.
func New(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zcfg = zap.NewProductionConfig()
	}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		zcfg.OutputPaths = append(zcfg.OutputPaths, cfg.LogFile)
		zcfg.ErrorOutputPaths = append(zcfg.ErrorOutputPaths, cfg.LogFile)
	}

	return zcfg.Build()
}
