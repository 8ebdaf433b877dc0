package layout

import (
	"github.com/aretw0/catsort/pkg/document"
	"github.com/aretw0/catsort/pkg/domain"
	"golang.org/x/net/html"
)

// Ancestor finds the listing by walking up from id-bearing elements. It
// does not depend on the wrapper markup, so it hides the guessed wrapper
// instead of removing it.
type Ancestor struct{}

func (s *Ancestor) Kind() Kind { return KindAncestor }

func (s *Ancestor) Detect(root *html.Node) (*Match, bool) {
	marked := document.FindAll(root, func(n *html.Node) bool {
		_, ok := document.Attr(n, domain.AttrCategoryID)
		return ok
	})

	for _, n := range marked {
		listing := listingAncestor(n)
		if listing == nil {
			continue
		}
		items, ids := indexItems(outermostItems(listing))
		if len(ids) == 0 {
			continue
		}

		wrapper := listing.Parent
		if wrapper == nil || !isWrapperCandidate(wrapper, Options{}) {
			wrapper = listing
		}

		shape := KindList
		if listing.Data == "table" {
			shape = KindTabular
		}
		return &Match{
			Kind:    KindAncestor,
			Shape:   shape,
			Wrapper: wrapper,
			Listing: listing,
			Items:   items,
			IDs:     ids,
			Removal: RemovalHide,
		}, true
	}
	return nil, false
}

// listingAncestor returns the nearest original listing above n. Items already
// inside a produced container or a retired wrapper have none.
func listingAncestor(n *html.Node) *html.Node {
	var listing *html.Node
	for p := n.Parent; p != nil; p = p.Parent {
		if _, produced := document.Attr(p, domain.AttrGroup); produced {
			return nil
		}
		if isRetired(p) {
			return nil
		}
		if listing == nil && isListing(p) {
			listing = p
		}
	}
	return listing
}

// outermostItems returns id-bearing elements under listing, skipping marked
// elements nested inside another one (badges inside an item, for example).
func outermostItems(listing *html.Node) []*html.Node {
	var out []*html.Node
	for c := listing.FirstChild; c != nil; c = c.NextSibling {
		document.Walk(c, func(n *html.Node) bool {
			if n.Type != html.ElementNode {
				return true
			}
			if _, ok := document.Attr(n, domain.AttrCategoryID); ok {
				out = append(out, n)
				return false
			}
			return true
		})
	}
	return out
}
