// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package commands

import (
	"context"
	"errors"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tomtom215/appranker/internal/api"
	"github.com/tomtom215/appranker/internal/logging"
	"github.com/tomtom215/appranker/internal/metrics"
	"github.com/tomtom215/appranker/internal/supervisor"
	"github.com/tomtom215/appranker/internal/supervisor/services"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled training and the metrics server",
		Long: `Run the supervisor tree until SIGINT or SIGTERM:

  training-layer  scheduled retraining (recommend.provider = trained)
  api-layer       /metrics, /api/v1/health and /api/v1/stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(c.cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			tree, err := buildTree(a)
			if err != nil {
				return err
			}

			logging.Info().
				Str("version", Version).
				Str("provider", a.provider.Name()).
				Bool("metrics", c.cfg.Metrics.Enabled).
				Msg("Starting appranker")

			err = tree.Serve(cmd.Context())
			if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
				logging.Warn().Int("count", len(report)).Msg("Services did not stop in time")
			}
			if errors.Is(err, context.Canceled) {
				logging.Info().Msg("Shutdown complete")
				return nil
			}
			return err
		},
	}
}

// buildTree assembles the supervisor tree for a.
func buildTree(a *app) (*supervisor.SupervisorTree, error) {
	metrics.SetAppInfo(Version, runtime.Version())

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		return nil, err
	}

	if a.trained != nil {
		tree.AddTrainingService(services.NewTrainService(a.trained, services.TrainServiceConfig{
			OnStartup: a.cfg.Training.OnStartup,
			Interval:  a.cfg.Training.Interval,
			Timeout:   a.cfg.Training.Timeout,
		}, a.logger))
	}

	if a.cfg.Metrics.Enabled {
		var breaker api.BreakerReporter
		if a.trained != nil {
			breaker = a.trained
		}
		handler, err := api.NewHandler(a.db, a.controller, breaker, Version)
		if err != nil {
			return nil, err
		}
		router := api.NewRouter(handler, &api.ChiMiddlewareConfig{
			CORSAllowedOrigins: a.cfg.Metrics.CORSOrigins,
			CORSMaxAge:         86400,
			RateLimitRequests:  a.cfg.Metrics.RateLimit,
			RateLimitWindow:    a.cfg.Metrics.RateLimitWindow,
		})
		server := services.NewMetricsServer(a.cfg.Metrics.Address, router.Setup())
		tree.AddAPIService(services.NewHTTPServerService(server, services.DefaultShutdownTimeout))

		logging.Info().Str("address", a.cfg.Metrics.Address).Msg("Serving metrics")
	}

	return tree, nil
}
