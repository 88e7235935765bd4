package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"bmitrack/internal/config"
	"bmitrack/internal/logging"

	"github.com/spf13/cobra"
)

// cli carries state shared by the subcommands once the root command has
// loaded configuration.
type cli struct {
	envFile string
	cfg     *config.Config
	log     *slog.Logger
	closer  io.Closer
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "bmitrack",
		Short:         "BMI calculator and weight log",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if c.envFile != "" {
				files = []string{c.envFile}
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			log, closer, err := logging.New(logging.Options{
				Level:      cfg.Log.Level,
				Format:     cfg.Log.Format,
				File:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAgeDays: cfg.Log.MaxAgeDays,
			})
			if err != nil {
				return err
			}
			c.cfg, c.log, c.closer = cfg, log, closer
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.closer != nil {
				return c.closer.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.envFile, "env-file", "", "load variables from this file instead of .env.local/.env")

	rootCmd.AddCommand(c.serveCmd())
	rootCmd.AddCommand(c.bmiCmd())
	rootCmd.AddCommand(c.categoriesCmd())
	rootCmd.AddCommand(c.logCmd())
	rootCmd.AddCommand(c.historyCmd())
	rootCmd.AddCommand(c.settingsCmd())

	return rootCmd
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
