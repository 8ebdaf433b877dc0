package layout

import (
	"github.com/aretw0/catsort/pkg/document"
	"github.com/aretw0/catsort/pkg/domain"
	"golang.org/x/net/html"
)

const tabularRows = ".//tbody/tr[@" + domain.AttrCategoryID + "]"

// Tabular detects the desktop listing rendered as a table.
type Tabular struct {
	opts Options
}

// NewTabular returns the table strategy.
func NewTabular(opts Options) *Tabular {
	return &Tabular{opts: opts}
}

func (s *Tabular) Kind() Kind { return KindTabular }

func (s *Tabular) Detect(root *html.Node) (*Match, bool) {
	wrapper, table := findWrapper(root, s.opts, func(n *html.Node) bool {
		return document.IsElement(n, "table") && isListing(n)
	})
	if wrapper == nil {
		return nil, false
	}

	rows, err := document.Query(table, tabularRows)
	if err != nil {
		return nil, false
	}
	items, ids := indexItems(rows)
	if len(ids) == 0 {
		return nil, false
	}

	return &Match{
		Kind:    KindTabular,
		Shape:   KindTabular,
		Wrapper: wrapper,
		Listing: table,
		Items:   items,
		IDs:     ids,
		Removal: RemovalRemove,
	}, true
}
