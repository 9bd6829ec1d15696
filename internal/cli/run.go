package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/proplink/internal/harness"
	"github.com/roach88/proplink/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
}

// RunResult is the outcome of one scenario run.
type RunResult struct {
	Scenario string              `json:"scenario"`
	Session  string              `json:"session"`
	Pass     bool                `json:"pass"`
	Ticks    []harness.TickTrace `json:"ticks"`
	Final    map[string]string   `json:"final"`
	Errors   []string            `json:"errors,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a binding scenario",
		Long: `Run one scenario: instantiate its objects, wire its bindings and execute
its steps. Each tick step drains the change log into a replicated batch.

With --db (or PROPLINK_DB) the session, its owners and every batch are
persisted so the run can be replayed later.

Exit codes:
  0 - Every step behaved as expected
  1 - One or more expectations failed
  2 - Command error (scenario not found, bad schema, store failure)

Examples:
  proplink run ./scenarios/rect_area.yaml
  proplink run ./scenarios/rect_area.yaml --db ./proplink.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database to persist batches to (default $PROPLINK_DB)")
	return cmd
}

func runScenarioFile(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	sc, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	if sc.MaxDepth == 0 {
		sc.MaxDepth = opts.Config.MaxDepth
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runOpts := []harness.Option{harness.WithLogger(slog.Default())}
	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.Config.DBPath
	}
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		runOpts = append(runOpts, harness.WithStore(st))
		formatter.VerboseLog("Persisting to %s", dbPath)
	}

	result, err := harness.Run(ctx, sc, runOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "scenario execution failed", err)
	}

	out := RunResult{
		Scenario: sc.Name,
		Session:  harness.SessionID(sc.Name),
		Pass:     result.Pass,
		Ticks:    result.Ticks,
		Final:    result.Final,
		Errors:   result.Errors,
	}
	if formatter.JSON() {
		if !out.Pass {
			_ = formatter.Failure(out, "SCENARIO_FAILED", fmt.Sprintf("%d expectation(s) failed", len(out.Errors)))
			return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", sc.Name))
		}
		return formatter.Success(out)
	}

	writeRunText(formatter, out)
	if !out.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", sc.Name))
	}
	return nil
}

func writeRunText(formatter *OutputFormatter, out RunResult) {
	w := formatter.Writer
	mark := "✓"
	if !out.Pass {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %s (%d tick(s))\n", mark, out.Scenario, len(out.Ticks))
	for _, e := range out.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
	for _, t := range out.Ticks {
		fmt.Fprintf(w, "tick %d: %d record(s)\n", t.Tick, len(t.Records))
		if !formatter.Verbose {
			continue
		}
		for _, r := range t.Records {
			fmt.Fprintf(w, "  %d %s.%s %s %v\n", r.Seq, r.Owner, r.Name, r.Kind, r.Value)
		}
	}
	writeValues(w, out.Final)
}

// writeValues prints path = value lines in path order.
func writeValues(w io.Writer, values map[string]string) {
	paths := make([]string, 0, len(values))
	for p := range values {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintf(w, "%s = %s\n", p, values[p])
	}
}
