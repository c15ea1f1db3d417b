// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package commands

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/appranker/internal/logging"
)

// trainResult is the output of appranker train.
type trainResult struct {
	Generation int64         `json:"generation"`
	Rank       int           `json:"rank"`
	Users      int           `json:"users"`
	Items      int           `json:"items"`
	TrainedAt  time.Time     `json:"trained_at"`
	Duration   time.Duration `json:"duration_ns"`
}

func newTrainCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train and store a new factor generation",
		Long: `Run one ALS training over the installs in the catalog, store the
resulting generation and prune old ones.

Requires recommend.provider = trained.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Recommend.Provider != "trained" {
				return errors.New("train needs recommend.provider = trained")
			}

			a, err := newApp(c.cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := logging.ContextWithNewCorrelationID(cmd.Context())
			if timeout := c.cfg.Training.Timeout; timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			start := time.Now()
			gen, err := a.trained.Retrain(ctx)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), trainResult{
				Generation: gen.ID,
				Rank:       gen.Rank(),
				Users:      gen.Users.Cols,
				Items:      gen.Items.Cols,
				TrainedAt:  gen.TrainedAt,
				Duration:   time.Since(start),
			})
		},
	}
}
