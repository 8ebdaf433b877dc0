package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/catsort"
	"github.com/aretw0/catsort/pkg/domain"
	"github.com/aretw0/catsort/pkg/mapping"
	"github.com/aretw0/catsort/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div class="category-thing bugs"></div>
<div class="ember-view"><table class="category-list with-topics"><tbody>
<tr data-category-id="1"></tr>
<tr data-category-id="2"></tr>
</tbody></table></div>
</body></html>`

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	var logs bytes.Buffer
	hooks := metrics.Hooks().Merge(observability.LogHooks(slog.New(slog.NewTextHandler(&logs, nil))))

	eng, err := catsort.New(catsort.WithLifecycleHooks(hooks))
	require.NoError(t, err)

	cats := []domain.Category{{ID: 1, Slug: "chat"}, {ID: 2, Slug: "bug"}, {ID: 3, Slug: "gone"}}
	ctx := context.Background()

	_, _, err = eng.GroupDocument(ctx, page, cats, mapping.FromString("bugs;bug"))
	require.NoError(t, err)
	_, _, err = eng.GroupDocument(ctx, "<p></p>", cats, mapping.FromString("bugs;bug"))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues("success", "tabular")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues("not_found", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ItemsPlaced.WithLabelValues("bugs")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ItemsPlaced.WithLabelValues("other")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ItemsSkipped))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.GroupsAttached))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MountsSynthesized.WithLabelValues("other")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.MountsSynthesized), "the bugs mount point exists in the page")

	assert.Contains(t, logs.String(), "msg=layout_detected")
	assert.Contains(t, logs.String(), "msg=layout_missing")
	assert.Contains(t, logs.String(), "outcome=success")
}

func TestNewMetrics_Unregistered(t *testing.T) {
	m := observability.NewMetrics(nil)
	m.Hooks().OnItemSkipped(context.Background(), &domain.PlacementEvent{})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ItemsSkipped))
}
