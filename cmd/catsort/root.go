package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/catsort/internal/cli"
	"github.com/aretw0/catsort/internal/config"
	"github.com/aretw0/catsort/pkg/mapping"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "catsort",
	Short: "catsort regroups rendered category listings",
	Long: `catsort finds the flat category listing of a rendered forum page and
regroups its categories into the containers named by a group mapping.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// addEngineFlags registers the flags overriding the config file layout and mapping.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("mapping", "m", "", "Group mapping, e.g. bugs;bug-reports|feature;feature")
	cmd.Flags().StringP("categories", "c", "", "Path to the categories JSON payload")
	cmd.Flags().StringSlice("strategies", nil, "Layout strategies in order (tabular, list, ancestor)")
	cmd.Flags().String("wrapper-class", "", "Class the original wrapper must carry")
	cmd.Flags().String("removal", "", "How to retire the original wrapper (remove, hide)")
}

// loadConfig reads the config file, applies flag overrides and builds the logger.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := readConfig(cmd)
	if err != nil {
		return cfg, nil, err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	logger, err := cli.CreateLogger(cfg.Log.Level, debug)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

// readConfig reads the config file and applies the flags the user set.
func readConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if f := cmd.Flags().Lookup("mapping"); f != nil && f.Changed {
		cfg.Mapping = mapping.FromString(f.Value.String())
	}
	if f := cmd.Flags().Lookup("categories"); f != nil && f.Changed {
		cfg.Categories = f.Value.String()
	}
	if f := cmd.Flags().Lookup("strategies"); f != nil && f.Changed {
		cfg.Layout.Strategies, _ = cmd.Flags().GetStringSlice("strategies")
	}
	if f := cmd.Flags().Lookup("wrapper-class"); f != nil && f.Changed {
		class := f.Value.String()
		cfg.Layout.WrapperClass = &class
	}
	if f := cmd.Flags().Lookup("removal"); f != nil && f.Changed {
		cfg.Layout.Removal = f.Value.String()
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.Log.Level = f.Value.String()
	}
	return cfg, cfg.Validate()
}
