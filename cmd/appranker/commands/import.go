// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package commands

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/appranker/internal/database"
	"github.com/tomtom215/appranker/internal/logging"
	"github.com/tomtom215/appranker/internal/recommend"
)

// catalogFile is the JSON document accepted by appranker import.
type catalogFile struct {
	Users []recommend.User `json:"users"`
	Items []recommend.Item `json:"items"`
}

func readCatalogFile(path string) (*catalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <catalog.json>",
		Short: "Replace the catalog with the users and items of a JSON file",
		Long: `Load users and items from a JSON document of the form

  {"users": [{"key": 1, "external_id": "u1", "locale": "pt",
              "regions": ["pt"], "installed_apps": [2]}],
   "items": [{"key": 1, "external_id": "app-1", "module": "store",
              "categories": ["games"], "locales": ["pt"],
              "regions": ["worldwide"]}]}

Keys must be dense and 1-based. The import replaces the whole catalog in
one transaction; on error the previous catalog stays.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readCatalogFile(args[0])
			if err != nil {
				return err
			}

			db, err := database.New(&c.cfg.Database, logging.Logger())
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing database")
				}
			}()

			if err := db.ImportCatalog(cmd.Context(), f.Users, f.Items); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]int{
				"users": len(f.Users),
				"items": len(f.Items),
			})
		},
	}
}
