// Command reconcile runs one reconciliation pass and exits. It is meant to
// be scheduled externally, e.g. by cron or a Kubernetes CronJob.
//
//	reconcile                       sync every live sponsorship with the gateway
//	reconcile --fix-stuck           also cancel abandoned pending checkouts
//	reconcile --fix-stuck --sponsor user_123 --skip-sync
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/sponsor/internal"
	"github.com/dukerupert/sponsor/internal/bootstrap"
	"github.com/dukerupert/sponsor/internal/middleware"
	"github.com/dukerupert/sponsor/internal/telemetry"
	"github.com/spf13/cobra"
)

type options struct {
	fixStuck bool
	skipSync bool
	sponsor  string
	timeout  time.Duration
}

func (o options) validate() error {
	if o.sponsor != "" && !o.fixStuck {
		return errors.New("--sponsor requires --fix-stuck")
	}
	if o.skipSync && !o.fixStuck {
		return errors.New("nothing to do: --skip-sync without --fix-stuck")
	}
	return nil
}

// newRootCmd builds the reconcile command. runFn does the work once the
// flags are known to be consistent.
func newRootCmd(runFn func(ctx context.Context, opts options) error) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "reconcile",
		Short:         "Reconcile sponsorships with the billing gateway",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			return runFn(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.fixStuck, "fix-stuck", false, "Cancel sponsorships stuck in pending")
	cmd.Flags().BoolVar(&opts.skipSync, "skip-sync", false, "Skip the full gateway sync")
	cmd.Flags().StringVar(&opts.sponsor, "sponsor", "", "Limit --fix-stuck to one sponsor id")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", middleware.ReconcileTimeout, "Overall deadline")

	return cmd
}

// report is printed to stdout as JSON.
type report struct {
	Sync     any `json:"sync,omitempty"`
	FixStuck any `json:"fix_stuck,omitempty"`
}

func run(ctx context.Context, opts options) error {
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	logger := internal.NewLogger(os.Stderr, cfg.Env, cfg.LogLevel)

	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Enabled:     cfg.Sentry.Enabled,
		Environment: cfg.Env,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	app, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	var (
		out      report
		failures int
	)

	if !opts.skipSync {
		summary, err := app.Reconciliation.SyncAllSponsorships(ctx)
		if summary != nil {
			out.Sync = summary
			failures += summary.ErrorCount
		}
		if err != nil {
			logger.Error("sponsorship sync interrupted", "error", err.Error())
			failures++
		}
	}

	if opts.fixStuck && ctx.Err() == nil {
		var sponsorID *string
		if opts.sponsor != "" {
			sponsorID = &opts.sponsor
		}
		result, err := app.Reconciliation.FixStuckSponsorships(ctx, sponsorID)
		if err != nil {
			logger.Error("fix stuck sponsorships failed", "error", err.Error())
			failures++
		}
		if result != nil {
			out.FixStuck = result
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if failures > 0 {
		return fmt.Errorf("reconciliation finished with %d failure(s)", failures)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(run).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
