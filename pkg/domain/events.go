package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventLayoutDetected EventType = "layout_detected"
	EventLayoutMissing  EventType = "layout_missing"
	EventItemPlaced     EventType = "item_placed"
	EventItemSkipped    EventType = "item_skipped"
	EventGroupAttached  EventType = "group_attached"
	EventRunFinished    EventType = "run_finished"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// LayoutEvent reports the result of layout detection.
type LayoutEvent struct {
	EventBase
	Layout string `json:"layout,omitempty"`
	Items  int    `json:"items"`
}

// PlacementEvent reports a category placed into (or skipped from) a group.
type PlacementEvent struct {
	EventBase
	CategoryID int    `json:"category_id"`
	Slug       string `json:"slug"`
	Group      string `json:"group,omitempty"`
}

// GroupEvent reports a group container mounted into the document.
type GroupEvent struct {
	EventBase
	Group            string `json:"group"`
	Items            int    `json:"items"`
	SynthesizedMount bool   `json:"synthesized_mount,omitempty"`
}

// RunEvent reports the end of a run.
type RunEvent struct {
	EventBase
	Outcome   Outcome       `json:"outcome"`
	Layout    string        `json:"layout,omitempty"`
	Relocated int           `json:"relocated"`
	Duration  time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil hooks are skipped.
type LifecycleHooks struct {
	OnLayoutDetected func(context.Context, *LayoutEvent)
	OnLayoutMissing  func(context.Context, *LayoutEvent)
	OnItemPlaced     func(context.Context, *PlacementEvent)
	OnItemSkipped    func(context.Context, *PlacementEvent)
	OnGroupAttached  func(context.Context, *GroupEvent)
	OnRunFinished    func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnLayoutDetected: chain(h.OnLayoutDetected, other.OnLayoutDetected),
		OnLayoutMissing:  chain(h.OnLayoutMissing, other.OnLayoutMissing),
		OnItemPlaced:     chain(h.OnItemPlaced, other.OnItemPlaced),
		OnItemSkipped:    chain(h.OnItemSkipped, other.OnItemSkipped),
		OnGroupAttached:  chain(h.OnGroupAttached, other.OnGroupAttached),
		OnRunFinished:    chain(h.OnRunFinished, other.OnRunFinished),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
