/*
Package trigger decides when a grouping run happens.

The grouping engine is synchronous and must not run twice against the same
document at once. Hosts invoke it after a short delay, once when the view is
constructed and again on every navigation into the categories view, giving
the renderer time to produce the original listing.

Scheduler implements that contract: a newer trigger supersedes a pending one,
and a run whose route was left before it fired is skipped. Manager serializes
the runs themselves per key, optionally across processes through a
ports.DistributedLocker.
*/
package trigger
