package cli

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/aretw0/catsort"
	"github.com/aretw0/catsort/internal/config"
	"github.com/aretw0/catsort/pkg/domain"
	"github.com/aretw0/catsort/pkg/layout"
	"github.com/aretw0/catsort/pkg/mapping"
	"golang.org/x/net/html"
)

// ReloadingEngine serves requests from the most recently loaded engine.
// A request with an empty mapping falls back to the configured one.
type ReloadingEngine struct {
	current atomic.Pointer[loaded]
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

type loaded struct {
	engine  *catsort.Engine
	mapping mapping.Source
}

// NewReloadingEngine builds the initial engine from cfg.
func NewReloadingEngine(cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*ReloadingEngine, error) {
	r := &ReloadingEngine{hooks: hooks, logger: logger}
	if err := r.Reload(cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload swaps in an engine built from cfg. On error the previous engine stays.
func (r *ReloadingEngine) Reload(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	engine, err := NewEngine(cfg, r.logger, r.hooks)
	if err != nil {
		return err
	}
	r.current.Store(&loaded{engine: engine, mapping: cfg.Mapping})
	return nil
}

// GroupDocument regroups source with the current engine.
func (r *ReloadingEngine) GroupDocument(ctx context.Context, source string, categories []domain.Category, src mapping.Source) (string, *domain.Report, error) {
	cur := r.current.Load()
	if src.IsZero() {
		src = cur.mapping
	}
	return cur.engine.GroupDocument(ctx, source, categories, src)
}

// Detect runs layout detection with the current engine.
func (r *ReloadingEngine) Detect(root *html.Node) (*layout.Match, bool) {
	return r.current.Load().engine.Detect(root)
}

// Strategies returns the current strategy order.
func (r *ReloadingEngine) Strategies() []layout.Kind {
	return r.current.Load().engine.Strategies()
}
