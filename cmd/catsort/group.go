package main

import (
	"fmt"
	"os"

	"github.com/aretw0/catsort/internal/cli"
	"github.com/aretw0/catsort/internal/presentation/tui"
	"github.com/aretw0/catsort/pkg/domain"
	"github.com/spf13/cobra"
)

var groupCmd = &cobra.Command{
	Use:   "group [file]",
	Short: "Regroup the category listing of an HTML document",
	Long: `Reads an HTML document (a file, or stdin when omitted or "-"), regroups its
category listing and writes the result to stdout or --output.
A document without a recognized layout is passed through unchanged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")

		var hooks domain.LifecycleHooks
		if debug {
			hooks = cli.DebugHooks(logger)
		}
		engine, err := cli.NewEngine(cfg, logger, hooks)
		if err != nil {
			return err
		}

		cats, err := cli.LoadCategories(cfg.Categories)
		if err != nil {
			return err
		}

		opts := cli.GroupOptions{
			Categories: cats,
			Mapping:    cfg.Mapping,
			Stdin:      cmd.InOrStdin(),
			Stdout:     cmd.OutOrStdout(),
		}
		if len(args) == 1 {
			opts.Input = args[0]
		}
		opts.Output, _ = cmd.Flags().GetString("output")
		if inPlace, _ := cmd.Flags().GetBool("in-place"); inPlace {
			if opts.Input == "" || opts.Input == "-" {
				return fmt.Errorf("--in-place needs an input file")
			}
			opts.Output = opts.Input
		}

		report, err := cli.Group(cmd.Context(), engine, opts)
		if err != nil {
			return err
		}

		if showReport, _ := cmd.Flags().GetBool("report"); showReport {
			md := tui.ReportMarkdown(report)
			if tui.IsTerminal(os.Stderr) {
				if rendered, err := tui.NewRenderer()(md); err == nil {
					md = rendered
				}
			}
			fmt.Fprint(cmd.ErrOrStderr(), md)
		}

		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			return report.Err()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(groupCmd)
	addEngineFlags(groupCmd)
	groupCmd.Flags().StringP("output", "o", "", "Write the regrouped document to this file")
	groupCmd.Flags().BoolP("in-place", "i", false, "Rewrite the input file")
	groupCmd.Flags().Bool("report", false, "Print the run report on stderr")
	groupCmd.Flags().Bool("strict", false, "Exit with an error when no layout is found")
}
