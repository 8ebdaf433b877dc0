package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/catsort/pkg/domain"
)

// LogHooks returns lifecycle hooks writing one structured line per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLayoutDetected: func(ctx context.Context, e *domain.LayoutEvent) {
			logger.InfoContext(ctx, string(e.Type), "run_id", e.RunID, "layout", e.Layout, "items", e.Items)
		},
		OnLayoutMissing: func(ctx context.Context, e *domain.LayoutEvent) {
			logger.InfoContext(ctx, string(e.Type), "run_id", e.RunID)
		},
		OnGroupAttached: func(ctx context.Context, e *domain.GroupEvent) {
			logger.InfoContext(ctx, string(e.Type),
				"run_id", e.RunID,
				"group", e.Group,
				"items", e.Items,
				"synthesized_mount", e.SynthesizedMount,
			)
		},
		OnRunFinished: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, string(e.Type),
				"run_id", e.RunID,
				"outcome", e.Outcome,
				"layout", e.Layout,
				"relocated", e.Relocated,
				"duration", e.Duration,
			)
		},
	}
}
