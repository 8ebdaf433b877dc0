package catsort

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/catsort/internal/logging"
	"github.com/aretw0/catsort/internal/runtime"
	"github.com/aretw0/catsort/pkg/document"
	"github.com/aretw0/catsort/pkg/domain"
	"github.com/aretw0/catsort/pkg/layout"
	"github.com/aretw0/catsort/pkg/mapping"
	"golang.org/x/net/html"
)

// Engine is the high-level entry point for the catsort library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine
	kinds   []layout.Kind
	layout  layout.Options
	removal layout.Removal
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	runIDs  func() string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStrategies sets the layout strategies in the order they are tried
// (default: tabular, list).
func WithStrategies(kinds ...layout.Kind) Option {
	return func(e *Engine) {
		e.kinds = kinds
	}
}

// WithWrapperClass sets the class an original wrapper must carry.
// An empty class accepts any element except html, head and body.
func WithWrapperClass(class string) Option {
	return func(e *Engine) {
		e.layout.WrapperClass = class
	}
}

// WithRemoval forces how the original wrapper is retired.
func WithRemoval(mode layout.Removal) Option {
	return func(e *Engine) {
		e.removal = mode
	}
}

// WithRunIDGenerator replaces the default UUID run ids.
func WithRunIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.runIDs = fn
	}
}

// New initializes an Engine. It fails when the strategy list names an
// unknown strategy or the removal mode is invalid.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		kinds:  layout.DefaultOrder,
		layout: layout.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if len(eng.kinds) == 0 {
		eng.kinds = layout.DefaultOrder
	}
	strategies, err := layout.Resolve(eng.kinds, eng.layout)
	if err != nil {
		return nil, err
	}
	if eng.removal != "" {
		if _, err := layout.ParseRemoval(string(eng.removal)); err != nil {
			return nil, err
		}
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithStrategies(strategies...),
		runtime.WithRemoval(eng.removal),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithRunIDGenerator(eng.runIDs),
	)
	return eng, nil
}

// Run regroups the category listing under root in place.
func (e *Engine) Run(ctx context.Context, root *html.Node, categories []domain.Category, m domain.GroupMapping) (*domain.Report, error) {
	return e.runtime.Run(ctx, root, categories, m)
}

// RunSource parses the raw mapping source, logs its diagnostics and runs.
func (e *Engine) RunSource(ctx context.Context, root *html.Node, categories []domain.Category, src mapping.Source) (*domain.Report, error) {
	return e.Run(ctx, root, categories, e.Mapping(src))
}

// Mapping parses src, logging every dropped or degraded entry.
func (e *Engine) Mapping(src mapping.Source) domain.GroupMapping {
	m, diags := src.Parse()
	for _, d := range diags {
		e.logger.Warn("Group mapping entry degraded", "entry", d.Entry, "reason", d.Reason)
	}
	return m
}

// GroupDocument parses an HTML document, regroups it and renders it back.
// A document without a recognized layout is returned unchanged.
func (e *Engine) GroupDocument(ctx context.Context, source string, categories []domain.Category, src mapping.Source) (string, *domain.Report, error) {
	root, err := document.ParseString(source)
	if err != nil {
		return "", nil, err
	}

	report, err := e.RunSource(ctx, root, categories, src)
	if err != nil {
		return "", nil, err
	}
	if !report.Found() {
		return source, report, nil
	}

	out, err := document.RenderString(root)
	if err != nil {
		return "", report, fmt.Errorf("failed to render document: %w", err)
	}
	return out, report, nil
}

// Detect reports which strategy recognizes the document, without mutating it.
func (e *Engine) Detect(root *html.Node) (*layout.Match, bool) {
	return e.runtime.Detect(root)
}

// Strategies returns the configured strategy order.
func (e *Engine) Strategies() []layout.Kind {
	return e.runtime.Strategies()
}
