/*
Package mapping parses the user supplied group mapping configuration.

The raw format is a list of entries separated by "|". Each entry is
"group;rule", where rule is either a literal substring or a JSON document:

	bugs;bug-reports
	support;["support","help"]
	staff;{"patterns":["staff","mods"],"label":"Team"}

Parsing never fails. Entries without a group or a rule are dropped and JSON
that does not decode falls back to the literal text; both are reported as
Diagnostics for callers that want to surface them.
*/
package mapping
