// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tomtom215/appranker/internal/logging"
)

// recommendation is the output of appranker recommend.
type recommendation struct {
	RequestID string   `json:"request_id"`
	User      string   `json:"user"`
	Provider  string   `json:"provider"`
	Keys      []int    `json:"keys,omitempty"`
	Items     []string `json:"items,omitempty"`
}

func newRecommendCmd(c *cli) *cobra.Command {
	var (
		userID   string
		n        int
		external bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print the top-n apps for a user",
		Long: `Rank the catalog for one user and print the result as JSON.

Keys are internal item keys; --external prints the items' external ids.

Example:
  appranker recommend --user 3f2a -n 20 --external`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}

			a, err := newApp(c.cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := logging.ContextWithNewRequestID(cmd.Context())
			user, err := a.db.User(ctx, userID)
			if err != nil {
				return err
			}

			out := recommendation{
				RequestID: logging.RequestIDFromContext(ctx),
				User:      user.ExternalID,
				Provider:  a.controller.Name(),
			}
			if external {
				out.Items, err = a.controller.GetExternalIDRecommendations(ctx, user, n)
			} else {
				out.Keys, err = a.controller.GetRecommendation(ctx, user, n)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "external id of the user")
	cmd.Flags().IntVarP(&n, "n", "n", -1, "number of apps, negative uses recommend.default_n")
	cmd.Flags().BoolVar(&external, "external", false, "print external item ids instead of keys")
	return cmd
}
