package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/catsort/pkg/domain"
)

// ReportMarkdown formats a run report as a markdown document.
func ReportMarkdown(r *domain.Report) string {
	var b strings.Builder

	if !r.Found() {
		fmt.Fprintf(&b, "# No category layout found\n\nThe document was left untouched (run `%s`).\n", r.RunID)
		return b.String()
	}

	fmt.Fprintf(&b, "# Categories regrouped\n\n")
	fmt.Fprintf(&b, "Layout **%s**, %d categories relocated in %s.\n\n", r.Layout, r.Relocated, r.Duration.Round(time.Microsecond))

	b.WriteString("| Group | Items | Mounted | Mount point |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, g := range r.Groups {
		mounted := "no"
		if g.Attached {
			mounted = "yes"
		}
		mount := "page"
		if g.SynthesizedMount {
			mount = "synthesized"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", g.Key, joinIDs(g.Items), mounted, mount)
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintf(&b, "\nSkipped (not rendered): %s\n", joinIDs(r.Skipped))
	}
	if len(r.Unlisted) > 0 {
		fmt.Fprintf(&b, "\nUnlisted (dropped with the original listing): %s\n", joinIDs(r.Unlisted))
	}
	return b.String()
}

func joinIDs(ids []int) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
