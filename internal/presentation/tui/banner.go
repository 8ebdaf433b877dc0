package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the catsort ASCII banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"            _                  _   ", "#818cf8"},
		{"   ___ __ _| |_ ___  ___  _ __| |_ ", "#a78bfa"},
		{"  / __/ _` | __/ __|/ _ \\| '__| __|", "#c084fc"},
		{" | (_| (_| | |_\\__ \\ (_) | |  | |_ ", "#e879f9"},
		{"  \\___\\__,_|\\__|___/\\___/|_|   \\__|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  "+version).Faint())
	fmt.Fprintln(w)
}

// Status returns msg colored for a success (green) or warning (yellow) line.
func Status(msg string, ok bool) string {
	p := termenv.ColorProfile()
	color := "#22c55e"
	if !ok {
		color = "#eab308"
	}
	return termenv.String(msg).Foreground(p.Color(color)).String()
}
