/*
Package domain contains the core domain models of the catsort grouping engine.

It defines the inputs supplied by the host (categories and group rules), the
outcome of a run (Report), and the lifecycle events emitted while a run
relocates rendered items. The package is kept pure: it knows nothing about
HTML trees, transports or storage.

# Key Entities

  - Category: A read-only record supplied by the host, identified by ID.
  - GroupRule: A named group with one or more substring patterns.
  - GroupMapping: Ordered rules, with the reserved "other" group always last.
  - Report: What a run did (layout, per-group placements, skipped ids).
*/
package domain
