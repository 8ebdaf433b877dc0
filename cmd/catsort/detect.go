package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/catsort/internal/cli"
	"github.com/aretw0/catsort/pkg/document"
	"github.com/aretw0/catsort/pkg/domain"
	"github.com/spf13/cobra"
)

type detectResult struct {
	Found      bool     `json:"found"`
	Layout     string   `json:"layout,omitempty"`
	Items      []int    `json:"items,omitempty"`
	Strategies []string `json:"strategies"`
}

var detectCmd = &cobra.Command{
	Use:   "detect [file]",
	Short: "Report which category layout a document uses",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine, err := cli.NewEngine(cfg, logger, domain.LifecycleHooks{})
		if err != nil {
			return err
		}

		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		root, err := document.Parse(r)
		if err != nil {
			return err
		}

		res := detectResult{}
		for _, k := range engine.Strategies() {
			res.Strategies = append(res.Strategies, string(k))
		}
		if m, ok := engine.Detect(root); ok {
			res.Found = true
			res.Layout = string(m.Kind)
			res.Items = m.IDs
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		if !res.Found {
			fmt.Fprintf(out, "no supported layout found (tried %v)\n", res.Strategies)
			return nil
		}
		fmt.Fprintf(out, "layout: %s\nitems: %d %v\n", res.Layout, len(res.Items), res.Items)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
	addEngineFlags(detectCmd)
	detectCmd.Flags().Bool("json", false, "Print the result as JSON")
}
