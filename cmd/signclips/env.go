package main

import (
	"context"

	"github.com/sethvargo/go-envconfig"
	"github.com/tauraamui/xerror"
)

// Env holds the settings read from the environment rather than the
// config file.
type Env struct {
	LoggingLevel  string `env:"SIGNCLIPS_LOGGING_LEVEL, default=warn"`
	VideoBackend  string `env:"SIGNCLIPS_VIDEO_BACKEND"`
	ExportWorkers int    `env:"SIGNCLIPS_EXPORT_WORKERS, default=1"`
}

func loadEnv(ctx context.Context, lookuper envconfig.Lookuper) (Env, error) {
	var env Env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &env, Lookuper: lookuper}); err != nil {
		return Env{}, xerror.Errorf("unable to read environment: %w", err)
	}
	if env.ExportWorkers < 1 {
		env.ExportWorkers = 1
	}
	return env, nil
}
