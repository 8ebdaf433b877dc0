package runtime_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/aretw0/catsort/internal/runtime"
	"github.com/aretw0/catsort/pkg/document"
	"github.com/aretw0/catsort/pkg/domain"
	"github.com/aretw0/catsort/pkg/layout"
	"github.com/aretw0/catsort/pkg/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const tabularPage = `<html><body>
<div class="category-thing bugs" id="bugs-mount"></div>
<div class="category-thing other" id="other-mount"></div>
<div class="ember-view" id="wrapper"><table class="category-list with-topics">
  <thead><tr><th>Category</th></tr></thead>
  <tbody>
    <tr data-category-id="1"><td>General</td></tr>
    <tr data-category-id="2"><td>Bugs</td></tr>
  </tbody>
</table></div>
</body></html>`

const listPage = `<html><body>
<div class="ember-view" id="wrapper"><div class="category-list with-topics">
  <div class="category-list-item" data-category-id="3"></div>
  <div class="category-list-item" data-category-id="4"></div>
</div></div>
</body></html>`

func parse(t *testing.T, s string) *html.Node {
	t.Helper()
	root, err := document.ParseString(s)
	require.NoError(t, err)
	return root
}

func byID(root *html.Node, id string) *html.Node {
	return document.FindFirst(root, func(n *html.Node) bool {
		v, ok := document.Attr(n, "id")
		return ok && v == id
	})
}

func item(root *html.Node, categoryID int) *html.Node {
	want := strconv.Itoa(categoryID)
	return document.FindFirst(root, func(n *html.Node) bool {
		v, ok := document.Attr(n, domain.AttrCategoryID)
		return ok && v == want
	})
}

// groupOf returns the group of the nearest produced container holding n.
func groupOf(n *html.Node) string {
	for p := n.Parent; p != nil; p = p.Parent {
		if g, ok := document.Attr(p, domain.AttrGroup); ok {
			return g
		}
	}
	return ""
}

func categories(slugs ...string) []domain.Category {
	out := make([]domain.Category, len(slugs))
	for i, s := range slugs {
		out[i] = domain.Category{ID: i + 1, Slug: s}
	}
	return out
}

func TestEngine_Run_Scenario(t *testing.T) {
	root := parse(t, tabularPage)
	engine := runtime.NewEngine()

	cats := []domain.Category{
		{ID: 1, Slug: "general-chat"},
		{ID: 2, Slug: "bug-reports-urgent"},
	}
	report, err := engine.Run(context.Background(), root, cats, mapping.Parse("bugs;bug-reports"))
	require.NoError(t, err)

	require.True(t, report.Found())
	assert.Equal(t, "tabular", report.Layout)
	assert.Equal(t, 2, report.Relocated)
	assert.NotEmpty(t, report.RunID)

	require.Len(t, report.Groups, 2)
	assert.Equal(t, domain.GroupReport{Key: "bugs", Items: []int{2}, Attached: true}, report.Groups[0])
	assert.Equal(t, domain.GroupReport{Key: "other", Items: []int{1}, Attached: true}, report.Groups[1])

	assert.Equal(t, "bugs", groupOf(item(root, 2)))
	assert.Equal(t, "other", groupOf(item(root, 1)))
	assert.Nil(t, byID(root, "wrapper"), "original wrapper is removed")

	bugsTable := document.FirstElementChild(byID(root, "bugs-mount"))
	require.NotNil(t, bugsTable)
	assert.Equal(t, "table", bugsTable.Data)
	assert.True(t, document.HasClass(bugsTable, domain.ClassCategoryList, domain.ClassWithTopics))
	assert.True(t, document.Contains(byID(root, "other-mount"), item(root, 1)))
}

func TestEngine_Run_FirstMatchWins(t *testing.T) {
	root := parse(t, listPage)
	m := domain.NewGroupMapping(
		domain.GroupRule{Group: "a", Patterns: []string{"foo"}},
		domain.GroupRule{Group: "b", Patterns: []string{"foobar"}},
	)
	cats := []domain.Category{{ID: 3, Slug: "foobar-topic"}, {ID: 4, Slug: "unrelated"}}

	report, err := runtime.NewEngine().Run(context.Background(), root, cats, m)
	require.NoError(t, err)

	assert.Equal(t, "a", groupOf(item(root, 3)))
	assert.Equal(t, "other", groupOf(item(root, 4)), "unmatched slugs go to the default group")

	b, ok := report.Group("b")
	require.True(t, ok)
	assert.Empty(t, b.Items)
	assert.False(t, b.Attached)
}

func TestEngine_Run_Conservation(t *testing.T) {
	root := parse(t, `<html><body><div class="ember-view"><table class="category-list with-topics"><tbody>
		<tr data-category-id="1"></tr>
		<tr data-category-id="2"></tr>
		<tr data-category-id="3"></tr>
		<tr data-category-id="9"></tr>
	</tbody></table></div></body></html>`)

	cats := append(categories("alpha", "beta", "gamma"), domain.Category{ID: 7, Slug: "ghost"})
	m := mapping.Parse("g1;alpha|g2;gamma")

	report, err := runtime.NewEngine().Run(context.Background(), root, cats, m)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Relocated)
	assert.Equal(t, []int{7}, report.Skipped)
	assert.Equal(t, []int{9}, report.Unlisted)

	total := 0
	for _, g := range report.Groups {
		total += len(g.Items)
	}
	assert.Equal(t, report.Relocated, total)

	for _, id := range []int{1, 2, 3} {
		n := item(root, id)
		require.NotNil(t, n, "category %d must survive the run", id)
		assert.NotEmpty(t, groupOf(n))
	}
	assert.Nil(t, item(root, 9), "unlisted rows leave with the original wrapper")
}

func TestEngine_Run_EmptyGroupsAreNotAttached(t *testing.T) {
	root := parse(t, tabularPage)
	m := mapping.Parse("bugs;nomatch|feature;nomatch")

	report, err := runtime.NewEngine().Run(context.Background(), root, categories("x", "y"), m)
	require.NoError(t, err)

	for _, g := range report.Groups {
		if g.Key == domain.OtherGroup {
			assert.True(t, g.Attached)
			continue
		}
		assert.False(t, g.Attached, "group %s", g.Key)
	}
	assert.Nil(t, document.FirstElementChild(byID(root, "bugs-mount")))
	assert.Empty(t, document.FindAll(root, func(n *html.Node) bool {
		g, ok := document.Attr(n, domain.AttrGroup)
		return ok && g == "feature"
	}))
}

func TestEngine_Run_NoMatchLeavesDocumentUntouched(t *testing.T) {
	root := parse(t, `<html><body><div class="ember-view"><p data-category-id="1">x</p></div></body></html>`)
	before := document.CountNodes(root)

	report, err := runtime.NewEngine().Run(context.Background(), root, categories("a"), mapping.Parse("a;a"))
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeNotFound, report.Outcome)
	assert.ErrorIs(t, report.Err(), domain.ErrLayoutNotFound)
	assert.Equal(t, before, document.CountNodes(root))
	assert.Empty(t, report.Groups)
}

func TestEngine_Run_SecondRunIsNotFound(t *testing.T) {
	root := parse(t, tabularPage)
	engine := runtime.NewEngine()
	m := mapping.Parse("bugs;bug")

	first, err := engine.Run(context.Background(), root, categories("chat", "bug"), m)
	require.NoError(t, err)
	require.True(t, first.Found())

	before, err := document.RenderString(root)
	require.NoError(t, err)

	second, err := engine.Run(context.Background(), root, categories("chat", "bug"), m)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNotFound, second.Outcome)

	after, err := document.RenderString(root)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEngine_Run_ListLayout(t *testing.T) {
	root := parse(t, listPage)

	cats := []domain.Category{{ID: 3, Slug: "dev-tools"}, {ID: 4, Slug: "lounge"}}
	report, err := runtime.NewEngine().Run(context.Background(), root, cats, mapping.Parse("dev;dev"))
	require.NoError(t, err)

	assert.Equal(t, "list", report.Layout)
	dev := item(root, 3).Parent
	assert.Equal(t, "div", dev.Data)
	assert.True(t, document.HasClass(dev, domain.ClassCategoryList, domain.ClassMobileGrouped))

	g, _ := report.Group("dev")
	assert.True(t, g.SynthesizedMount, "the page has no mount points")
	assert.True(t, document.HasClass(dev.Parent, domain.ClassMountPoint, "dev"))
}

func TestEngine_Run_DuplicateCategoriesPlacedOnce(t *testing.T) {
	root := parse(t, listPage)
	cats := []domain.Category{{ID: 3, Slug: "a"}, {ID: 3, Slug: "b"}, {ID: 4, Slug: "b"}}

	report, err := runtime.NewEngine().Run(context.Background(), root, cats, mapping.Parse("a;a|b;b"))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Relocated)
	assert.Equal(t, "a", groupOf(item(root, 3)))
}

func TestEngine_Run_HideRemoval(t *testing.T) {
	root := parse(t, tabularPage)
	engine := runtime.NewEngine(runtime.WithRemoval(layout.RemovalHide))

	_, err := engine.Run(context.Background(), root, categories("a", "b"), mapping.Parse("a;a"))
	require.NoError(t, err)

	wrapper := byID(root, "wrapper")
	require.NotNil(t, wrapper)
	_, hidden := document.Attr(wrapper, "hidden")
	assert.True(t, hidden)
}

func TestEngine_Run_HiddenWrapperIsNotFoundAgain(t *testing.T) {
	root := parse(t, `<html><body><div class="ember-view" id="wrapper"><table class="category-list with-topics"><tbody>
<tr data-category-id="1"><td>General</td></tr>
<tr data-category-id="2"><td>Bugs</td></tr>
<tr data-category-id="9"><td>Staff</td></tr>
</tbody></table></div></body></html>`)
	engine := runtime.NewEngine(runtime.WithRemoval(layout.RemovalHide))
	m := mapping.Parse("bugs;bug")

	first, err := engine.Run(context.Background(), root, categories("chat", "bug"), m)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeSuccess, first.Outcome)
	assert.Equal(t, []int{9}, first.Unlisted)
	require.NotNil(t, item(root, 9), "unlisted rows stay in the hidden wrapper")

	before := document.CountNodes(root)
	second, err := engine.Run(context.Background(), root, categories("chat", "bug"), m)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNotFound, second.Outcome)
	assert.Equal(t, before, document.CountNodes(root))
}

func TestEngine_Run_StrategyOrder(t *testing.T) {
	page := `<html><body>
<div class="ember-view" id="table-wrapper"><table class="category-list with-topics">
  <tbody><tr data-category-id="1"></tr></tbody>
</table></div>
<div class="ember-view" id="list-wrapper"><div class="category-list with-topics">
  <div class="category-list-item" data-category-id="2"></div>
</div></div>
</body></html>`

	for _, tc := range []struct {
		name    string
		kinds   []layout.Kind
		want    string
		removed string
	}{
		{"tabular first", []layout.Kind{layout.KindTabular, layout.KindList}, "tabular", "table-wrapper"},
		{"list first", []layout.Kind{layout.KindList, layout.KindTabular}, "list", "list-wrapper"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			root := parse(t, page)
			strategies, err := layout.Resolve(tc.kinds, layout.DefaultOptions())
			require.NoError(t, err)

			engine := runtime.NewEngine(runtime.WithStrategies(strategies...))
			assert.Equal(t, tc.kinds, engine.Strategies())

			report, err := engine.Run(context.Background(), root, categories("a", "b"), domain.GroupMapping{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, report.Layout)
			assert.Nil(t, byID(root, tc.removed))
		})
	}
}

func TestEngine_Run_AncestorHidesWrapper(t *testing.T) {
	root := parse(t, `<html><body><section id="wrapper"><ul class="category-list with-topics">
		<li data-category-id="1"><a data-category-id="1">General</a></li>
		<li data-category-id="2">Bugs</li>
	</ul></section></body></html>`)

	strategies, err := layout.Resolve([]layout.Kind{layout.KindAncestor}, layout.DefaultOptions())
	require.NoError(t, err)

	report, err := runtime.NewEngine(runtime.WithStrategies(strategies...)).
		Run(context.Background(), root, categories("general", "bugs"), mapping.Parse("bugs;bugs"))
	require.NoError(t, err)

	assert.Equal(t, "ancestor", report.Layout)
	assert.Equal(t, 2, report.Relocated)
	assert.Equal(t, "bugs", groupOf(item(root, 2)))

	wrapper := byID(root, "wrapper")
	require.NotNil(t, wrapper, "the ancestor strategy hides instead of removing")
	_, hidden := document.Attr(wrapper, "hidden")
	assert.True(t, hidden)
}

func TestEngine_Run_AncestorHiddenWrapperIsNotFoundAgain(t *testing.T) {
	root := parse(t, `<html><body><section id="wrapper"><ul class="category-list with-topics">
		<li data-category-id="1">General</li>
		<li data-category-id="2">Bugs</li>
		<li data-category-id="9">Staff</li>
	</ul></section></body></html>`)

	strategies, err := layout.Resolve([]layout.Kind{layout.KindAncestor}, layout.DefaultOptions())
	require.NoError(t, err)
	engine := runtime.NewEngine(runtime.WithStrategies(strategies...))
	m := mapping.Parse("bugs;bugs")

	first, err := engine.Run(context.Background(), root, categories("general", "bugs"), m)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeSuccess, first.Outcome)
	assert.Equal(t, []int{9}, first.Unlisted)

	second, err := engine.Run(context.Background(), root, categories("general", "bugs"), m)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNotFound, second.Outcome)
}

func TestEngine_Run_CancelledContext(t *testing.T) {
	root := parse(t, tabularPage)
	before := document.CountNodes(root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := runtime.NewEngine().Run(ctx, root, categories("a"), domain.GroupMapping{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report)
	assert.Equal(t, before, document.CountNodes(root))
}

func TestEngine_Run_NilRoot(t *testing.T) {
	_, err := runtime.NewEngine().Run(context.Background(), nil, nil, domain.GroupMapping{})
	assert.ErrorIs(t, err, runtime.ErrNilDocument)
}

func TestEngine_RunIDGenerator(t *testing.T) {
	engine := runtime.NewEngine(runtime.WithRunIDGenerator(func() string { return "run-1" }))
	report, err := engine.Run(context.Background(), parse(t, "<p></p>"), nil, domain.GroupMapping{})
	require.NoError(t, err)
	assert.Equal(t, "run-1", report.RunID)
}
