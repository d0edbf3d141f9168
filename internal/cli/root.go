// Package cli implements the lineage command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/crm-lineage/internal/app"
	"github.com/heartmarshall/crm-lineage/internal/dataloader"
	"github.com/heartmarshall/crm-lineage/internal/domain"
	"github.com/heartmarshall/crm-lineage/pkg/ctxutil"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitInvalid  = 2
	ExitNotFound = 3
)

type rootFlags struct {
	configPath  string
	output      string
	user        int64
	metricsFile string
}

// runner carries the state shared by every subcommand.
type runner struct {
	open  Opener
	flags rootFlags
}

// NewRootCmd creates the root command. open is called once per subcommand
// that needs the tracker.
func NewRootCmd(open Opener) *cobra.Command {
	r := &runner{open: open}

	root := &cobra.Command{
		Use:   "lineage",
		Short: "Track conversions between CRM pipeline entities",
		Long: `lineage records when a CRM entity is converted into another
(invite to lead, lead to projet, ...) and reconstructs the history of an entity
from those records.

Entities are written as type:id, for example lead:55.`,
		Version: app.BuildVersion(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := parseFormat(r.flags.output)
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&r.flags.configPath, "config", "", "config file (default: $CONFIG_PATH or ./config.yaml)")
	pf.StringVarP(&r.flags.output, "output", "o", string(formatTable), "output format (table|json)")
	pf.Int64VarP(&r.flags.user, "user", "u", 0, "id of the CRM user performing the action")
	pf.StringVar(&r.flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the command")

	_ = root.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(formatTable), string(formatJSON)}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		r.newRecordCmd(),
		r.newImportCmd(),
		r.newChainCmd(),
		r.newDescendantsCmd(),
		r.newHasTargetCmd(),
		r.newHasSourceCmd(),
		r.newTargetCmd(),
		r.newSourceCmd(),
		r.newHistoryCmd(),
		r.newTypesCmd(),
	)

	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, open Opener, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(open)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return ExitOK
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrValidation):
		return ExitInvalid
	case errors.Is(err, domain.ErrNotFound):
		return ExitNotFound
	default:
		return ExitError
	}
}

// run opens a session and calls fn with a context carrying the query
// timeout, a request id, the acting user and fresh dataloaders. The metrics
// file is written whether or not fn succeeds.
func (r *runner) run(cmd *cobra.Command, fn func(ctx context.Context, t Tracker, out *printer) error) (err error) {
	format, err := parseFormat(r.flags.output)
	if err != nil {
		return err
	}

	s, err := r.open(cmd.Context(), r.flags.configPath)
	if err != nil {
		return err
	}
	if s.Close != nil {
		defer s.Close()
	}
	defer func() {
		err = errors.Join(err, r.writeMetrics(s.Metrics))
	}()

	ctx := cmd.Context()
	if s.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.QueryTimeout)
		defer cancel()
	}

	ctx = ctxutil.WithRequestID(ctx, uuid.NewString())
	if r.flags.user > 0 {
		ctx = ctxutil.WithUserID(ctx, r.flags.user)
	}
	if s.Loaders != nil {
		ctx = dataloader.WithLoaders(ctx, s.Loaders())
	}

	return fn(ctx, s.Tracker, &printer{w: cmd.OutOrStdout(), format: format})
}

func (r *runner) writeMetrics(g prometheus.Gatherer) error {
	if r.flags.metricsFile == "" || g == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.flags.metricsFile, g); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// Main is the entry point used by cmd/lineage.
func Main() {
	os.Exit(Execute(context.Background(), Open, os.Args[1:], os.Stdout, os.Stderr))
}
