/*
Package layout recognizes the rendered category listing and builds the
per-group containers that replace it.

A Strategy inspects the tree for one known listing shape and returns a Match
(wrapper, listing and the rendered items keyed by category id). Strategies are
tried in a configured order and the first match wins:

  - tabular: a wrapper whose first element child is a
    table.category-list.with-topics holding tbody rows with data-category-id.
  - list: the same wrapper around a non-table listing holding
    .category-list-item elements with data-category-id.
  - ancestor: walks up from any element carrying data-category-id to the
    nearest listing. Not part of DefaultOrder.

Containers produced by a run carry data-category-group, so a listing that was
already regrouped is never detected again.
*/
package layout
