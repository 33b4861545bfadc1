/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"strconv"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"chainguard.dev/devloop/reconcilers/implement"
)

func newImplementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "implement <issue>",
		Short: "Implement a GitHub issue and open a pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			issue, err := parseIssue(args[0])
			if err != nil {
				return err
			}

			var cfg implement.Config
			if err := envconfig.Process(ctx, &cfg); err != nil {
				clog.FatalContextf(ctx, "failed to process config: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				clog.FatalContextf(ctx, "invalid config: %v", err)
			}

			p, err := implement.Setup(ctx, cfg)
			if err != nil {
				return fmt.Errorf("setting up implementation pipeline: %w", err)
			}

			s, err := p.Run(ctx, issue)
			if err != nil {
				return err
			}
			if s.PullRequestURL != "" {
				clog.FromContext(ctx).With("pr_url", s.PullRequestURL).Info("Developer agent completed")
			}
			return nil
		},
	}
}

func parseIssue(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("issue must be a positive number, got %q", arg)
	}
	return n, nil
}
