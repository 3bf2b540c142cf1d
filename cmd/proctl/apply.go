package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/insan3d/proctl/internal/config"
	"github.com/insan3d/proctl/internal/logger"
	"github.com/insan3d/proctl/internal/procli"
	"github.com/insan3d/proctl/internal/reconcile"
	proctlerrors "github.com/insan3d/proctl/pkg/errors"
)

type applyOptions struct {
	ConfigPath     string
	DryRun         bool
	Verbose        bool
	NonInteractive bool
}

var applyCmdRunner = runApply

// newProClient is a seam for tests; production always execs the real CLI.
var newProClient = func(log *logger.Logger) (reconcile.Client, error) {
	return procli.NewExecClient(log)
}

func newApplyCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Converge the machine to a declared Ubuntu Pro state",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DryRun = root.dryRun
			opts.Verbose = root.verbose
			opts.NonInteractive = !term.IsTerminal(int(os.Stdin.Fd()))

			if err := validateApplyOptions(opts); err != nil {
				return err
			}

			return applyCmdRunner(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to declaration file")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runApply(opts applyOptions) error {
	cfg, err := config.ParseConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	level := "info"
	if opts.Verbose {
		level = "debug"
	}

	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return err
	}

	desired, err := cfg.DesiredState()
	if err != nil {
		return err
	}
	if desired.Token == "" {
		desired.Token = os.Getenv(tokenEnvVar)
	}

	client, err := newProClient(log)
	if err != nil {
		return err
	}
	rec := reconcile.New(client, log)

	ctx := context.Background()
	result, err := runReconcile(ctx, rec, desired, opts.DryRun)

	// A missing token is recoverable when a human is on the other end.
	var precondErr *proctlerrors.PreconditionError
	if errors.As(err, &precondErr) && desired.Token == "" && !opts.NonInteractive {
		token, promptErr := promptToken(os.Stdin, os.Stderr)
		if promptErr != nil {
			return promptErr
		}
		desired.Token = token
		result, err = runReconcile(ctx, rec, desired, opts.DryRun)
	}

	if result != nil {
		fmt.Fprint(os.Stdout, renderResult(cfg.Name, result, opts.DryRun))
	}

	return err
}

func runReconcile(ctx context.Context, rec *reconcile.Reconciler, desired reconcile.DesiredState, dryRun bool) (*reconcile.Result, error) {
	if dryRun {
		return rec.Preview(ctx, desired)
	}
	return rec.Reconcile(ctx, desired)
}
