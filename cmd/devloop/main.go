/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Command devloop runs the issue-to-pull-request implementation pipeline and
// the pull request gate.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"chainguard.dev/devloop/telemetry"
)

const flushTimeout = 10 * time.Second

// exitCode ends the process with its value without logging a second error.
type exitCode int

func (c exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(c))
}

// processExitCode maps the result of the root command to the process status.
func processExitCode(err error) int {
	var code exitCode
	switch {
	case err == nil:
		return 0
	case errors.As(err, &code):
		return int(code)
	default:
		return 1
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := run(ctx, os.Args[1:])
	cancel()
	os.Exit(status)
}

// run executes the command line in args with telemetry installed, and flushes
// the telemetry before returning the process status.
func run(ctx context.Context, args []string) int {
	log := clog.FromContext(ctx)

	var cfg telemetry.Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Error("failed to process telemetry config", "error", err)
		return 1
	}
	shutdown, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to set up telemetry", "error", err)
		return 1
	}
	defer func() {
		// Flush even when a signal cancelled ctx.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.Warn("failed to flush telemetry", "error", err)
		}
	}()

	root := newRootCmd()
	root.SetArgs(args)
	err = root.ExecuteContext(ctx)
	var code exitCode
	if err != nil && !errors.As(err, &code) {
		log.Error("devloop failed", "error", err)
	}
	return processExitCode(err)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "devloop",
		Short: "Implement issues with Claude and gate pull requests with Gemini",
		Long: `devloop automates a development loop on GitHub.

"devloop implement <issue>" plans and writes the change for an issue and opens
a pull request. "devloop gate" turns lint, build, test and snapshot diff
artifacts into a PASS or FAIL verdict for a pull request.

Both commands are configured through environment variables.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	root.AddCommand(newImplementCmd(), newGateCmd())
	return root
}
