package domain

// OtherGroup is the reserved group receiving every category no rule matches.
const OtherGroup = "other"

// Markers of the rendered category listing.
const (
	ClassCategoryList  = "category-list"
	ClassWithTopics    = "with-topics"
	ClassListItem      = "category-list-item"
	ClassMobileGrouped = "mobile-grouped"
	ClassMountPoint    = "category-thing"
	AttrCategoryID     = "data-category-id"

	// AttrGroup marks containers produced by a run so they are never detected again.
	AttrGroup = "data-category-group"

	// AttrRetired marks a hidden original wrapper so it is never detected again.
	AttrRetired = "data-category-retired"

	// HeadingIDPrefix prefixes the id of a tabular container heading; the body
	// references it through aria-labelledby.
	HeadingIDPrefix = "categories-only-category-"
)

// Defaults applied by the host plumbing.
const (
	DefaultWrapperClass = "ember-view"
	DefaultRoute        = "discovery.categories"
)
