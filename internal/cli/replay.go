package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/proplink/internal/property"
	"github.com/roach88/proplink/internal/replicate"
	"github.com/roach88/proplink/internal/schema"
	"github.com/roach88/proplink/internal/store"
	"github.com/roach88/proplink/internal/value"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database  string
	SessionID string // optional - lists sessions when empty
	SchemaDir string
}

// SessionSummary describes one stored session.
type SessionSummary struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	MaxDepth int    `json:"max_depth"`
	LastTick int64  `json:"last_tick"`
}

// ReplayResult holds the outcome of replaying one session.
type ReplayResult struct {
	Session string            `json:"session"`
	Owners  int               `json:"owners"`
	Batches int               `json:"batches"`
	Records int               `json:"records"`
	Applied int               `json:"applied"`
	Values  map[string]string `json:"values"`
	Errors  []string          `json:"errors,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Rebuild a stored session from its batches",
		Long: `Rebuild the objects of a stored session and apply every batch in tick
order. Each payload is checked against its stored hash first.

Without --session the stored sessions are listed.

Exit codes:
  0 - Every record applied
  1 - Some records could not be applied
  2 - Command error (database or session not found, corrupt batch, etc.)

Examples:
  proplink replay --db ./proplink.db
  proplink replay --db ./proplink.db --session scenario/rect_area --schema ./classes`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database (default $PROPLINK_DB)")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "session to replay (optional - lists sessions when omitted)")
	cmd.Flags().StringVar(&opts.SchemaDir, "schema", "", "CUE schema directory declaring the session's classes")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.Config.DBPath
	}
	if dbPath == "" {
		return NewExitError(ExitCommandError, "--db is required")
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", dbPath))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.SessionID == "" {
		return listSessions(ctx, st, formatter)
	}
	if opts.SchemaDir == "" {
		return NewExitError(ExitCommandError, "--schema is required to replay a session")
	}
	return replaySession(ctx, st, opts, formatter)
}

func listSessions(ctx context.Context, st *store.Store, formatter *OutputFormatter) error {
	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}
	summaries := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		last, err := st.LastTick(ctx, s.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read session", err)
		}
		summaries = append(summaries, SessionSummary{ID: s.ID, Label: s.Label, MaxDepth: s.MaxDepth, LastTick: last})
	}

	if formatter.JSON() {
		return formatter.Success(summaries)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No sessions found.")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(formatter.Writer, "%s\tticks=%d\t%s\n", s.ID, s.LastTick, s.Label)
	}
	return nil
}

func replaySession(ctx context.Context, st *store.Store, opts *ReplayOptions, formatter *OutputFormatter) error {
	sess, found, err := st.GetSession(ctx, opts.SessionID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}
	if !found {
		return NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", opts.SessionID))
	}

	sch, err := schema.Load(opts.SchemaDir)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	owners, err := st.ReadOwners(ctx, sess.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read owners", err)
	}

	session := property.NewSession(property.WithMaxDepth(sess.MaxDepth))
	defer session.Close()
	registry := replicate.NewRegistry(replicate.UUIDv7Generator{})
	nodes := make([]*schema.Node, 0, len(owners))
	keys := make([]string, 0, len(owners))
	defer func() {
		for _, n := range nodes {
			n.Destroy()
		}
		for _, n := range nodes {
			registry.Unregister(n)
		}
	}()

	for _, o := range owners {
		class, ok := sch.Class(o.Class)
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("owner %s: class %q not in schema", o.Key, o.Class))
		}
		n := class.New(o.Name)
		if err := registry.RegisterAs(n, o.Key); err != nil {
			n.Destroy()
			return WrapExitError(ExitCommandError, "failed to register owner", err)
		}
		nodes = append(nodes, n)
		keys = append(keys, o.Key)
	}

	repl := replicate.New(session, registry, replicate.WithSessionID(sess.ID))
	res, applyErr := repl.Replay(ctx, st, sess.ID)
	if applyErr != nil && errors.Is(applyErr, replicate.ErrHashMismatch) {
		return WrapExitError(ExitCommandError, "corrupt batch", applyErr)
	}
	if applyErr != nil && res.Batches == 0 && res.Records == 0 {
		return WrapExitError(ExitCommandError, "replay failed", applyErr)
	}

	out := ReplayResult{
		Session: sess.ID,
		Owners:  len(nodes),
		Batches: res.Batches,
		Records: res.Records,
		Applied: res.Applied,
		Values:  make(map[string]string),
	}
	for i, n := range nodes {
		for _, p := range n.Properties() {
			b := p.Box()
			out.Values[keys[i]+"."+p.Name()] = value.DisplayString(b, p.Spec().EnumNames())
			b.Destroy()
		}
	}
	if applyErr != nil {
		out.Errors = append(out.Errors, applyErr.Error())
	}

	if formatter.JSON() {
		if applyErr != nil {
			_ = formatter.Failure(out, "APPLY_FAILED", fmt.Sprintf("%d of %d record(s) applied", out.Applied, out.Records))
		} else if err := formatter.Success(out); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(formatter.Writer, "Replayed %s: %d batch(es), %d of %d record(s) applied\n",
			out.Session, out.Batches, out.Applied, out.Records)
		for _, e := range out.Errors {
			fmt.Fprintf(formatter.Writer, "  %s\n", e)
		}
		writeValues(formatter.Writer, out.Values)
	}

	if applyErr != nil {
		return WrapExitError(ExitFailure, "replay incomplete", applyErr)
	}
	return nil
}
