package catsort_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/catsort"
	"github.com/aretw0/catsort/pkg/document"
	"github.com/aretw0/catsort/pkg/domain"
	"github.com/aretw0/catsort/pkg/layout"
	"github.com/aretw0/catsort/pkg/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><head></head><body>
<div class="category-thing bugs"></div>
<div class="ember-view"><table class="category-list with-topics"><tbody>
<tr data-category-id="1"><td>General</td></tr>
<tr data-category-id="2"><td>Bugs</td></tr>
</tbody></table></div>
</body></html>`

var cats = []domain.Category{
	{ID: 1, Slug: "general-chat"},
	{ID: 2, Slug: "bug-reports-urgent"},
}

func TestNew_Defaults(t *testing.T) {
	eng, err := catsort.New()
	require.NoError(t, err)
	assert.Equal(t, layout.DefaultOrder, eng.Strategies())
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := catsort.New(catsort.WithStrategies("grid"))
	assert.ErrorIs(t, err, domain.ErrUnknownStrategy)

	_, err = catsort.New(catsort.WithRemoval("shred"))
	assert.ErrorIs(t, err, domain.ErrUnknownRemoval)
}

func TestEngine_GroupDocument(t *testing.T) {
	eng, err := catsort.New(catsort.WithRunIDGenerator(func() string { return "fixed" }))
	require.NoError(t, err)

	out, report, err := eng.GroupDocument(context.Background(), page, cats, mapping.FromString("bugs;bug-reports"))
	require.NoError(t, err)

	assert.Equal(t, "fixed", report.RunID)
	assert.True(t, report.Found())
	assert.Contains(t, out, `data-category-group="bugs"`)
	assert.Contains(t, out, `data-category-group="other"`)
	assert.Contains(t, out, `class="category-thing other"`, "the missing mount point is synthesized")
	assert.NotContains(t, out, `class="ember-view"`)

	root, err := document.ParseString(out)
	require.NoError(t, err)
	eng2, err := catsort.New()
	require.NoError(t, err)
	_, ok := eng2.Detect(root)
	assert.False(t, ok, "the grouped output is not recognized again")
}

func TestEngine_GroupDocument_NotFoundReturnsSource(t *testing.T) {
	eng, err := catsort.New()
	require.NoError(t, err)

	src := "<p>still rendering</p>"
	out, report, err := eng.GroupDocument(context.Background(), src, cats, mapping.FromString("a;b"))
	require.NoError(t, err)

	assert.Equal(t, src, out)
	assert.Equal(t, domain.OutcomeNotFound, report.Outcome)
}

func TestEngine_WrapperClass(t *testing.T) {
	custom := strings.ReplaceAll(page, "ember-view", "listing-shell")

	eng, err := catsort.New()
	require.NoError(t, err)
	root, err := document.ParseString(custom)
	require.NoError(t, err)
	_, ok := eng.Detect(root)
	assert.False(t, ok)

	eng, err = catsort.New(catsort.WithWrapperClass("listing-shell"))
	require.NoError(t, err)
	m, ok := eng.Detect(root)
	require.True(t, ok)
	assert.Equal(t, layout.KindTabular, m.Kind)
}

func TestEngine_MappingLogsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	eng, err := catsort.New(catsort.WithLogger(logger))
	require.NoError(t, err)

	m := eng.Mapping(mapping.FromString("bad|a;z"))
	assert.Equal(t, []string{"a", domain.OtherGroup}, m.Groups())
	assert.Contains(t, buf.String(), "Group mapping entry degraded")
	assert.Contains(t, buf.String(), "entry=bad")
}

func TestEngine_HooksAndRemoval(t *testing.T) {
	var finished int
	eng, err := catsort.New(
		catsort.WithRemoval(layout.RemovalHide),
		catsort.WithLifecycleHooks(domain.LifecycleHooks{
			OnRunFinished: func(context.Context, *domain.RunEvent) { finished++ },
		}),
	)
	require.NoError(t, err)

	out, _, err := eng.GroupDocument(context.Background(), page, cats, mapping.FromString("bugs;bug"))
	require.NoError(t, err)

	assert.Equal(t, 1, finished)
	assert.Contains(t, out, `class="ember-view" hidden=""`)
}
