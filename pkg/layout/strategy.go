package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/catsort/pkg/document"
	"github.com/aretw0/catsort/pkg/domain"
	"golang.org/x/net/html"
)

// Kind names a layout strategy, and doubles as the container shape.
type Kind string

const (
	KindTabular  Kind = "tabular"
	KindList     Kind = "list"
	KindAncestor Kind = "ancestor"
)

// DefaultOrder tries the table layout before the list layout.
var DefaultOrder = []Kind{KindTabular, KindList}

// Removal is how the original wrapper leaves the page after a run.
type Removal string

const (
	RemovalRemove Removal = "remove"
	RemovalHide   Removal = "hide"
)

// ParseRemoval validates a removal mode name. Empty means RemovalRemove.
func ParseRemoval(s string) (Removal, error) {
	switch Removal(strings.ToLower(strings.TrimSpace(s))) {
	case "", RemovalRemove:
		return RemovalRemove, nil
	case RemovalHide:
		return RemovalHide, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownRemoval, s)
}

// Options tune detection.
type Options struct {
	// WrapperClass restricts wrapper candidates to elements carrying this
	// class. Empty accepts any element below body.
	WrapperClass string
}

// DefaultOptions matches the markup rendered by the forum frontend.
func DefaultOptions() Options {
	return Options{WrapperClass: domain.DefaultWrapperClass}
}

// Match is the original listing found by a strategy.
type Match struct {
	// Kind is the strategy that matched.
	Kind Kind
	// Shape is the container shape to build: KindTabular or KindList.
	Shape Kind

	Wrapper *html.Node
	Listing *html.Node

	// Items holds the rendered unit per category id. IDs keeps their
	// document order.
	Items map[int]*html.Node
	IDs   []int

	// Removal is the strategy's preferred way to retire the wrapper.
	Removal Removal
}

// Retire takes the original wrapper out of the visible page.
func (m *Match) Retire(mode Removal) {
	if mode == RemovalHide {
		document.SetAttr(m.Wrapper, "hidden", "")
		document.SetAttr(m.Wrapper, domain.AttrRetired, "")
		return
	}
	document.Detach(m.Wrapper)
}

// Strategy detects one listing shape.
type Strategy interface {
	Kind() Kind
	// Detect reports a match only when it finds a wrapper with at least one item.
	Detect(root *html.Node) (*Match, bool)
}

// New returns the strategy registered under kind.
func New(kind Kind, opts Options) (Strategy, error) {
	switch kind {
	case KindTabular:
		return NewTabular(opts), nil
	case KindList:
		return NewList(opts), nil
	case KindAncestor:
		return &Ancestor{}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, kind)
}

// Resolve builds strategies for kinds, keeping their order.
func Resolve(kinds []Kind, opts Options) ([]Strategy, error) {
	out := make([]Strategy, 0, len(kinds))
	for _, k := range kinds {
		s, err := New(k, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ParseKinds converts strategy names, rejecting unknown and repeated ones.
func ParseKinds(names []string) ([]Kind, error) {
	seen := make(map[Kind]bool, len(names))
	kinds := make([]Kind, 0, len(names))
	for _, name := range names {
		k := Kind(strings.ToLower(strings.TrimSpace(name)))
		switch k {
		case KindTabular, KindList, KindAncestor:
		default:
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, name)
		}
		if seen[k] {
			return nil, fmt.Errorf("strategy %q listed twice", name)
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Detect tries strategies in order and returns the first match.
func Detect(root *html.Node, strategies []Strategy) (*Match, bool) {
	for _, s := range strategies {
		if m, ok := s.Detect(root); ok {
			return m, true
		}
	}
	return nil, false
}

// isListing reports whether n carries the original listing markers and was not
// produced by a previous run.
func isListing(n *html.Node) bool {
	if !document.HasClass(n, domain.ClassCategoryList, domain.ClassWithTopics) {
		return false
	}
	_, produced := document.Attr(n, domain.AttrGroup)
	return !produced
}

// findWrapper returns the last candidate (in document order) whose first
// element child satisfies listing.
func findWrapper(root *html.Node, opts Options, listing func(*html.Node) bool) (wrapper, list *html.Node) {
	document.Walk(root, func(n *html.Node) bool {
		if !isWrapperCandidate(n, opts) {
			return true
		}
		if first := document.FirstElementChild(n); first != nil && listing(first) {
			wrapper, list = n, first
		}
		return true
	})
	return wrapper, list
}

func isWrapperCandidate(n *html.Node, opts Options) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "html", "head", "body":
		return false
	}
	if document.HasClass(n, domain.ClassMountPoint) || isRetired(n) {
		return false
	}
	return opts.WrapperClass == "" || document.HasClass(n, opts.WrapperClass)
}

func isRetired(n *html.Node) bool {
	_, ok := document.Attr(n, domain.AttrRetired)
	return ok
}

// CategoryID reads the category id marker of n.
func CategoryID(n *html.Node) (int, bool) {
	v, ok := document.Attr(n, domain.AttrCategoryID)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return id, true
}

// indexItems keys nodes by category id. A repeated id keeps the last node.
func indexItems(nodes []*html.Node) (map[int]*html.Node, []int) {
	items := make(map[int]*html.Node, len(nodes))
	ids := make([]int, 0, len(nodes))
	for _, n := range nodes {
		id, ok := CategoryID(n)
		if !ok {
			continue
		}
		if _, dup := items[id]; !dup {
			ids = append(ids, id)
		}
		items[id] = n
	}
	return items, ids
}
