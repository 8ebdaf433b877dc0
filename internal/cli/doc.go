// Package cli holds the command implementations shared by cmd/catsort:
// payload loading, engine construction, file regrouping and watch mode.
package cli
