package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aretw0/catsort"
	"github.com/aretw0/catsort/pkg/domain"
	"github.com/aretw0/catsort/pkg/mapping"
)

// GroupOptions describes one document regrouping.
type GroupOptions struct {
	// Input is the HTML document path; "-" or empty reads Stdin.
	Input string
	// Output is the destination path; empty writes Stdout.
	Output     string
	Categories []domain.Category
	Mapping    mapping.Source

	Stdin  io.Reader
	Stdout io.Writer
}

// Group regroups the input document and writes the result. A document
// without a recognized layout is passed through unchanged, except that it
// is never written back over itself.
func Group(ctx context.Context, engine *catsort.Engine, opts GroupOptions) (*domain.Report, error) {
	source, err := readInput(opts)
	if err != nil {
		return nil, err
	}

	out, report, err := engine.GroupDocument(ctx, source, opts.Categories, opts.Mapping)
	if err != nil {
		return nil, err
	}

	if !report.Found() && opts.Output != "" && samePath(opts.Input, opts.Output) {
		return report, nil
	}
	if err := writeOutput(opts, out); err != nil {
		return report, err
	}
	return report, nil
}

func readInput(opts GroupOptions) (string, error) {
	if opts.Input == "" || opts.Input == "-" {
		if opts.Stdin == nil {
			return "", fmt.Errorf("no input document")
		}
		data, err := io.ReadAll(opts.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return string(data), nil
}

func writeOutput(opts GroupOptions, out string) error {
	if opts.Output == "" {
		if opts.Stdout == nil {
			return nil
		}
		_, err := io.WriteString(opts.Stdout, out)
		return err
	}
	if err := os.WriteFile(opts.Output, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

func samePath(a, b string) bool {
	if a == "" || a == "-" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
