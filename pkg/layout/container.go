package layout

import (
	"strings"

	"github.com/aretw0/catsort/pkg/document"
	"github.com/aretw0/catsort/pkg/domain"
	"golang.org/x/net/html"
)

// Column headings of a tabular container.
var tableHeadings = []struct{ class, label string }{
	{"topics", "Topics"},
	{"latest", "Latest"},
}

// Container is the per-group destination of relocated items.
type Container struct {
	Group string

	// Element is appended to Mount once the container holds items.
	Element *html.Node
	// Body receives the relocated items.
	Body  *html.Node
	Mount *html.Node

	// SynthesizedMount is true when the page lacked a mount point for the
	// group and a fallback was appended to the document body.
	SynthesizedMount bool
}

// NewContainer builds the container for group in the given shape and
// resolves its mount point, synthesizing one when the page has none.
func NewContainer(root *html.Node, group string, shape Kind) *Container {
	c := &Container{Group: group}
	if shape == KindTabular {
		c.Element, c.Body = newTable(group)
	} else {
		c.Element = newList(group)
		c.Body = c.Element
	}

	c.Mount = FindMount(root, group)
	if c.Mount == nil {
		c.Mount = newMount(root, group)
		c.SynthesizedMount = true
	}
	return c
}

// Add relocates item into the container body.
func (c *Container) Add(item *html.Node) {
	document.Move(item, c.Body)
}

// Len returns the number of items in the container body.
func (c *Container) Len() int {
	return len(document.ElementChildren(c.Body))
}

// Attach mounts the container if it holds at least one item.
func (c *Container) Attach() bool {
	if c.Len() == 0 {
		return false
	}
	c.Mount.AppendChild(c.Element)
	return true
}

// FindMount returns the first element carrying the mount class and every
// class token of group.
func FindMount(root *html.Node, group string) *html.Node {
	classes := append([]string{domain.ClassMountPoint}, strings.Fields(group)...)
	return document.FindFirst(root, func(n *html.Node) bool {
		return document.HasClass(n, classes...)
	})
}

func newMount(root *html.Node, group string) *html.Node {
	mount := document.NewElement("div", "class", domain.ClassMountPoint+" "+group)
	document.Body(root).AppendChild(mount)
	return mount
}

func newTable(group string) (table, body *html.Node) {
	headingID := domain.HeadingIDPrefix + group

	table = document.NewElement("table",
		"class", domain.ClassCategoryList+" "+domain.ClassWithTopics,
		domain.AttrGroup, group,
	)

	heading := document.Append(
		document.NewElement("span", "role", "heading", "aria-level", "2", "id", headingID),
		document.NewText("Category"),
	)
	row := document.Append(document.NewElement("tr"),
		document.Append(document.NewElement("th", "class", "category"), heading),
	)
	for _, h := range tableHeadings {
		document.Append(row, document.Append(document.NewElement("th", "class", h.class), document.NewText(h.label)))
	}

	body = document.NewElement("tbody", "aria-labelledby", headingID)
	document.Append(table, document.Append(document.NewElement("thead"), row), body)
	return table, body
}

func newList(group string) *html.Node {
	return document.NewElement("div",
		"class", domain.ClassCategoryList+" "+domain.ClassWithTopics+" "+domain.ClassMobileGrouped,
		domain.AttrGroup, group,
		"aria-label", group,
	)
}
