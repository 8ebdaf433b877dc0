package main

import (
	"github.com/aretw0/catsort/internal/cli"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Regroup a document every time it or its categories change",
	Long: `Regroups the document once, then watches it and the categories file.
Bursts of writes collapse into a single run after trigger.delay.
Output goes to --output, or back into the document when omitted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine, err := cli.NewEngine(cfg, logger, cli.DebugHooks(logger))
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = args[0]
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		err = cli.RunWatch(sc, engine, cfg, cli.WatchOptions{
			Group: cli.GroupOptions{
				Input:   args[0],
				Output:  output,
				Mapping: cfg.Mapping,
				Stdout:  cmd.OutOrStdout(),
			},
			CategoriesPath: cfg.Categories,
			Status:         cmd.ErrOrStderr(),
		}, logger)
		if sig := sc.Signal(); sig != nil {
			cli.PrintSystemMessage(cmd.ErrOrStderr(), "Watcher stopped (%v)", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addEngineFlags(watchCmd)
	watchCmd.Flags().StringP("output", "o", "", "Write the regrouped document to this file")
}
