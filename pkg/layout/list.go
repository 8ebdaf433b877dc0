package layout

import (
	"github.com/aretw0/catsort/pkg/document"
	"github.com/aretw0/catsort/pkg/domain"
	"golang.org/x/net/html"
)

var listItems = ".//*[" + document.ClassPredicate(domain.ClassListItem) + "][@" + domain.AttrCategoryID + "]"

// List detects the mobile listing rendered as nested blocks.
type List struct {
	opts Options
}

// NewList returns the list strategy.
func NewList(opts Options) *List {
	return &List{opts: opts}
}

func (s *List) Kind() Kind { return KindList }

func (s *List) Detect(root *html.Node) (*Match, bool) {
	wrapper, list := findWrapper(root, s.opts, func(n *html.Node) bool {
		return n.Data != "table" && isListing(n)
	})
	if wrapper == nil {
		return nil, false
	}

	nodes, err := document.Query(list, listItems)
	if err != nil {
		return nil, false
	}
	items, ids := indexItems(nodes)
	if len(ids) == 0 {
		return nil, false
	}

	return &Match{
		Kind:    KindList,
		Shape:   KindList,
		Wrapper: wrapper,
		Listing: list,
		Items:   items,
		IDs:     ids,
		Removal: RemovalRemove,
	}, true
}
