/*
Package http exposes catsort over HTTP with a chi router.

	POST /v1/group    {"html", "categories", "mapping", "view"} -> {"html", "report"}
	POST /v1/detect   {"html"} -> {"found", "layout", "items", "strategies"}
	POST /v1/mapping  {"mapping"} -> {"rules", "groups", "diagnostics"}
	GET  /health, GET /info, GET /metrics (when configured)

Group requests for the same view are serialized through a trigger.Manager,
which may span replicas when it carries a distributed locker.
*/
package http
