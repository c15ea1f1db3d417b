// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

// Package commands implements the appranker command line.
package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/appranker/internal/config"
	"github.com/tomtom215/appranker/internal/logging"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// cli carries state shared by the subcommands of one invocation.
type cli struct {
	configPath string
	cfg        *config.Config
}

// Execute runs the root command with os.Args. SIGINT and SIGTERM cancel
// the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "appranker",
		Short: "Rank catalog apps for users from latent factor models",
		Long: `appranker ranks catalog apps for a user by scoring them against
latent factor matrices and passing the scores through a configurable
filter and reranker pipeline.

Configuration is read from a YAML file (--config, CONFIG_PATH or
./config.yaml) and environment variables.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg

			logging.Init(logging.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Caller: cfg.Logging.Caller,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		newServeCmd(c),
		newTrainCmd(c),
		newRecommendCmd(c),
		newImportCmd(c),
	)
	return root
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
