// Package tui renders catsort output for terminals: the banner, colored
// status lines and markdown run reports.
package tui
