package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/catsort"
	"github.com/aretw0/catsort/internal/config"
	"github.com/aretw0/catsort/pkg/domain"
)

// NewEngine initializes a catsort engine from the config file settings.
func NewEngine(cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*catsort.Engine, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts,
		catsort.WithLogger(logger),
		catsort.WithLifecycleHooks(hooks),
	)

	engine, err := catsort.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
