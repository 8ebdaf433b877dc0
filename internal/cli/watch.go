package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/catsort"
	"github.com/aretw0/catsort/internal/config"
	"github.com/aretw0/catsort/internal/presentation/tui"
	"github.com/aretw0/catsort/pkg/trigger"
)

// WatchOptions configures RunWatch.
type WatchOptions struct {
	Group GroupOptions
	// CategoriesPath is reloaded whenever it changes.
	CategoriesPath string
	Status         io.Writer
}

// RunWatch regroups opts.Group.Input once and again every time the input
// document or the categories file changes, until ctx is done. Bursts of
// changes collapse into one run after cfg.Trigger.Delay.
func RunWatch(ctx context.Context, engine *catsort.Engine, cfg config.Config, opts WatchOptions, logger *slog.Logger) error {
	if opts.Group.Input == "" || opts.Group.Input == "-" {
		return fmt.Errorf("watch needs an input file")
	}
	status := opts.Status
	if status == nil {
		status = io.Discard
	}

	run := func(ctx context.Context) error {
		group := opts.Group
		if opts.CategoriesPath != "" {
			cats, err := LoadCategories(opts.CategoriesPath)
			if err != nil {
				return err
			}
			group.Categories = cats
		}

		report, err := Group(ctx, engine, group)
		if err != nil {
			return err
		}
		if report.Found() {
			PrintSystemMessage(status, "%s", tui.Status(fmt.Sprintf("Regrouped %d categories (%s).", report.Relocated, report.Layout), true))
		} else {
			PrintSystemMessage(status, "%s", tui.Status("No category layout found, waiting for changes.", false))
		}
		return nil
	}

	scheduler := trigger.NewScheduler(run,
		trigger.WithDelay(cfg.Trigger.Delay),
		trigger.WithKey(opts.Group.Input),
		trigger.WithLogger(logger),
		trigger.OnDone(func(err error) {
			if err != nil {
				PrintSystemMessage(status, "%s", tui.Status("Run failed: "+err.Error(), false))
			}
		}),
	)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logger.Info("Starting Watcher", "path", opts.Group.Input, "categories", opts.CategoriesPath)
	PrintSystemMessage(status, "Watching '%s'.", opts.Group.Input)

	return config.Watch(ctx, logger, []string{opts.Group.Input, opts.CategoriesPath}, func(string) {
		scheduler.Trigger()
	})
}
