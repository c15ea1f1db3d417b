// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

/*
Package supervisor runs the long-lived parts of appranker serve under a
suture v4 supervisor tree.

# Overview

	RootSupervisor ("appranker")
	├── TrainingSupervisor ("training-layer")
	│   └── TrainService (trained provider only)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (metrics, health, stats)

Each layer counts failures on its own, so a training run that keeps
failing backs off without restarting the HTTP server.

# Logging

Supervisor events go through sutureslog into a *slog.Logger. appranker
passes logging.NewSlogLogger("supervisor"), which writes the events to
the zerolog global logger.

# Configuration

	TreeConfig{
	    FailureThreshold: 5,                // failures before backoff
	    FailureDecay:     30,               // seconds for failures to decay
	    FailureBackoff:   15 * time.Second, // wait once the threshold is hit
	    ShutdownTimeout:  10 * time.Second, // per-service stop timeout
	}

Zero fields take these defaults.

# What Is Not Supervised

DuckDB and Badger are embedded libraries opened once by the command and
closed when it returns. Recommendation requests run on the caller's
goroutine.
*/
package supervisor
