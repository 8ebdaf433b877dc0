package runtime

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/catsort/internal/logging"
	"github.com/aretw0/catsort/pkg/domain"
	"github.com/aretw0/catsort/pkg/layout"
	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// ErrNilDocument is returned when Run receives no document root.
var ErrNilDocument = errors.New("document root is nil")

// Engine regroups a rendered category listing into per-group containers.
// It holds no state between runs; a run completes synchronously.
type Engine struct {
	strategies []layout.Strategy
	removal    layout.Removal
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	newRunID   func() string
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithStrategies sets the layout strategies, in the order they are tried.
func WithStrategies(strategies ...layout.Strategy) EngineOption {
	return func(e *Engine) {
		if len(strategies) > 0 {
			e.strategies = strategies
		}
	}
}

// WithRemoval forces how the original wrapper is retired. Empty keeps the
// matching strategy's preference.
func WithRemoval(mode layout.Removal) EngineOption {
	return func(e *Engine) {
		e.removal = mode
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger. A nil logger keeps the default.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRunIDGenerator replaces the run id source.
func WithRunIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		if fn != nil {
			e.newRunID = fn
		}
	}
}

// NewEngine creates an engine trying layout.DefaultOrder unless configured otherwise.
func NewEngine(opts ...EngineOption) *Engine {
	defaults, _ := layout.Resolve(layout.DefaultOrder, layout.DefaultOptions())
	e := &Engine{
		strategies: defaults,
		logger:     logging.NewNop(),
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategies returns the configured strategy kinds in order.
func (e *Engine) Strategies() []layout.Kind {
	kinds := make([]layout.Kind, len(e.strategies))
	for i, s := range e.strategies {
		kinds[i] = s.Kind()
	}
	return kinds
}

// Detect runs layout detection without touching the document.
func (e *Engine) Detect(root *html.Node) (*layout.Match, bool) {
	if root == nil {
		return nil, false
	}
	return layout.Detect(root, e.strategies)
}

// Run detects the original listing under root, moves every rendered
// category into the container of its group, mounts the non-empty containers
// and retires the original wrapper.
//
// When no strategy recognizes the document the report outcome is
// domain.OutcomeNotFound and the document is left untouched. The returned
// error is only set for a nil root or a context cancelled before the run began.
func (e *Engine) Run(ctx context.Context, root *html.Node, categories []domain.Category, mapping domain.GroupMapping) (*domain.Report, error) {
	if root == nil {
		return nil, ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &domain.Report{RunID: e.newRunID()}
	logger := e.logger.With("run_id", report.RunID)

	match, ok := layout.Detect(root, e.strategies)
	if !ok {
		report.Outcome = domain.OutcomeNotFound
		logger.Warn("Could not find any supported category layout", "strategies", e.Strategies())
		if e.hooks.OnLayoutMissing != nil {
			e.hooks.OnLayoutMissing(ctx, &domain.LayoutEvent{EventBase: e.base(domain.EventLayoutMissing, report.RunID)})
		}
		e.finish(ctx, report, start)
		return report, nil
	}

	report.Layout = string(match.Kind)
	logger.Info("Category layout detected", "layout", match.Kind, "items", len(match.IDs))
	if e.hooks.OnLayoutDetected != nil {
		e.hooks.OnLayoutDetected(ctx, &domain.LayoutEvent{
			EventBase: e.base(domain.EventLayoutDetected, report.RunID),
			Layout:    report.Layout,
			Items:     len(match.IDs),
		})
	}

	groups := mapping.Groups()
	containers := make(map[string]*layout.Container, len(groups))
	for _, g := range groups {
		c := layout.NewContainer(root, g, match.Shape)
		if c.SynthesizedMount {
			logger.Warn("No container found for group, appending fallback", "group", g)
		}
		containers[g] = c
	}

	placed := make(map[int]bool, len(match.IDs))
	members := make(map[string][]int, len(groups))
	for _, cat := range categories {
		item, ok := match.Items[cat.ID]
		if !ok {
			report.Skipped = append(report.Skipped, cat.ID)
			logger.Debug("Category has no rendered item", "category_id", cat.ID, "slug", cat.Slug)
			if e.hooks.OnItemSkipped != nil {
				e.hooks.OnItemSkipped(ctx, &domain.PlacementEvent{
					EventBase:  e.base(domain.EventItemSkipped, report.RunID),
					CategoryID: cat.ID,
					Slug:       cat.Slug,
				})
			}
			continue
		}
		if placed[cat.ID] {
			logger.Debug("Duplicate category ignored", "category_id", cat.ID, "slug", cat.Slug)
			continue
		}

		group := mapping.Match(cat.Slug)
		containers[group].Add(item)
		placed[cat.ID] = true
		members[group] = append(members[group], cat.ID)
		report.Relocated++

		logger.Debug("Category placed", "category_id", cat.ID, "slug", cat.Slug, "group", group)
		if e.hooks.OnItemPlaced != nil {
			e.hooks.OnItemPlaced(ctx, &domain.PlacementEvent{
				EventBase:  e.base(domain.EventItemPlaced, report.RunID),
				CategoryID: cat.ID,
				Slug:       cat.Slug,
				Group:      group,
			})
		}
	}

	for _, id := range match.IDs {
		if !placed[id] {
			report.Unlisted = append(report.Unlisted, id)
		}
	}

	for _, g := range groups {
		c := containers[g]
		gr := domain.GroupReport{
			Key:              g,
			Items:            members[g],
			SynthesizedMount: c.SynthesizedMount,
			Attached:         c.Attach(),
		}
		if gr.Attached && e.hooks.OnGroupAttached != nil {
			e.hooks.OnGroupAttached(ctx, &domain.GroupEvent{
				EventBase:        e.base(domain.EventGroupAttached, report.RunID),
				Group:            g,
				Items:            len(gr.Items),
				SynthesizedMount: c.SynthesizedMount,
			})
		}
		report.Groups = append(report.Groups, gr)
	}

	removal := e.removal
	if removal == "" {
		removal = match.Removal
	}
	match.Retire(removal)

	report.Outcome = domain.OutcomeSuccess
	logger.Info("Categories regrouped",
		"layout", match.Kind,
		"relocated", report.Relocated,
		"skipped", len(report.Skipped),
		"unlisted", len(report.Unlisted),
		"removal", removal,
	)
	e.finish(ctx, report, start)
	return report, nil
}

func (e *Engine) finish(ctx context.Context, report *domain.Report, start time.Time) {
	report.Duration = time.Since(start)
	if e.hooks.OnRunFinished != nil {
		e.hooks.OnRunFinished(ctx, &domain.RunEvent{
			EventBase: e.base(domain.EventRunFinished, report.RunID),
			Outcome:   report.Outcome,
			Layout:    report.Layout,
			Relocated: report.Relocated,
			Duration:  report.Duration,
		})
	}
}

func (e *Engine) base(t domain.EventType, runID string) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, RunID: runID}
}
