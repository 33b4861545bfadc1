/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"chainguard.dev/devloop/reconcilers/gatekeep"
)

func newGateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gate",
		Short: "Judge CI artifacts and report a PASS or FAIL verdict",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var cfg gatekeep.Config
			if err := envconfig.Process(ctx, &cfg); err != nil {
				clog.FatalContextf(ctx, "failed to process config: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				clog.FatalContextf(ctx, "invalid config: %v", err)
			}

			p, err := gatekeep.Setup(ctx, cfg)
			if err != nil {
				return fmt.Errorf("setting up gate pipeline: %w", err)
			}

			v, err := p.Run(ctx)
			if err != nil {
				return err
			}
			if code := v.ExitCode(); code != 0 {
				return exitCode(code)
			}
			return nil
		},
	}
}
