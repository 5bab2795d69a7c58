package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/newsmeme/internal/config"
	"github.com/aretw0/newsmeme/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "newsmeme",
	Short:         "newsmeme posts page actions and applies their effects",
	Long:          `newsmeme submits votes and deletions to a newsmeme site, resolves the JSON reply to a page effect and prints what happened. It can also serve the reference action server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd)
}

// addGlobalFlags registers the persistent flags (available to all commands).
func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	cmd.PersistentFlags().String("base-url", "", "Site URL that action paths are resolved against")
	cmd.PersistentFlags().String("user", "", "Act as this user")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// loadSettings reads the config file, if any, and applies flag overrides.
func loadSettings(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, nil, err
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("user") {
		cfg.User, _ = flags.GetString("user")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return &cfg, logging.New(level), nil
}
