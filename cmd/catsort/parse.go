package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/catsort/internal/presentation/tui"
	"github.com/aretw0/catsort/pkg/domain"
	"github.com/aretw0/catsort/pkg/mapping"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type parseResult struct {
	Rules       []domain.GroupRule   `json:"rules" yaml:"rules"`
	Groups      []string             `json:"groups" yaml:"groups"`
	Diagnostics []mapping.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

var parseCmd = &cobra.Command{
	Use:   "parse [mapping]",
	Short: "Print the normalized group mapping",
	Long: `Parses a group mapping (the argument, or the config file mapping when
omitted) and prints its rules in evaluation order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		src := cfg.Mapping
		if len(args) == 1 {
			src = mapping.FromString(args[0])
		}

		m, diags := src.Parse()
		res := parseResult{Rules: m.Rules(), Groups: m.Groups(), Diagnostics: diags}

		format, _ := cmd.Flags().GetString("format")
		return writeMapping(cmd.OutOrStdout(), res, format)
	},
}

func writeMapping(w io.Writer, res parseResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		md := mappingMarkdown(res)
		if f, ok := w.(*os.File); ok && tui.IsTerminal(f) {
			if rendered, err := tui.NewRenderer()(md); err == nil {
				md = rendered
			}
		}
		_, err := io.WriteString(w, md)
		return err
	}
	return fmt.Errorf("unknown format %q (table, json, yaml)", format)
}

func mappingMarkdown(res parseResult) string {
	var b strings.Builder
	b.WriteString("| # | Group | Patterns | Label |\n|---|---|---|---|\n")
	for i, r := range res.Rules {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, r.Group, strings.Join(r.Patterns, ", "), r.Label)
	}
	fmt.Fprintf(&b, "| %d | %s | (default) | |\n", len(res.Rules)+1, domain.OtherGroup)
	for _, d := range res.Diagnostics {
		fmt.Fprintf(&b, "\n- `%s`: %s", d.Entry, d.Reason)
	}
	if len(res.Diagnostics) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("format", "f", "table", "Output format (table, json, yaml)")
}
