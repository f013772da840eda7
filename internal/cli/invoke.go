package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/greentic-ai/cardengine/internal/engine"
	"github.com/greentic-ai/cardengine/internal/log"
	"github.com/greentic-ai/cardengine/internal/statestore"
)

// NewInvokeCommand creates the invoke command, which runs an invocation
// against a persistent state store and commits the resulting updates.
func NewInvokeCommand(rootOpts *RootOptions) *cobra.Command {
	var stateDB string

	cmd := &cobra.Command{
		Use:   "invoke <invocation.json>",
		Short: "Run an invocation with persistent state",
		Long: `Run a card invocation against a SQLite state store.

Stored state and session documents are loaded for the invocation's key
before rendering, and the state and session update operations from the
result are applied and persisted afterwards. Use "-" to read the
invocation from stdin.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(rootOpts, cmd, args[0], stateDB)
		},
	}

	cmd.Flags().StringVar(&stateDB, "state-db", "cardengine.db", "path to the SQLite state database")
	return cmd
}

func runInvoke(opts *RootOptions, cmd *cobra.Command, path, dbPath string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	input, err := readInput(path, cmd)
	if err != nil {
		formatter.Error(ErrCodeReadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading invocation", err)
	}

	var envelope any
	if err := json.Unmarshal(input, &envelope); err != nil {
		formatter.Error(ErrCodeBadInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parsing invocation", err)
	}
	inv, err := engine.ParseInvocation(envelope)
	if err != nil {
		formatter.Error(ErrCodeBadInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parsing invocation", err)
	}

	store, err := statestore.Open(dbPath)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening state store", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	key := statestore.KeyFor(inv)
	formatter.VerboseLog("state key: %s", key)

	// An explicit scope in the invocation wins over the stored document.
	// Parsing defaults an absent scope to an empty object, so an empty
	// object counts as absent here.
	if m, ok := inv.State.(map[string]any); ok && len(m) == 0 {
		if state, found, err := store.LoadState(ctx, key); err != nil {
			formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "loading state", err)
		} else if found {
			inv.State = state
		}
	}
	if m, ok := inv.Session.(map[string]any); ok && len(m) == 0 {
		if session, found, err := store.LoadSession(ctx, key); err != nil {
			formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "loading session", err)
		} else if found {
			inv.Session = session
		}
	}

	eng := engine.New(engine.WithLogger(log.New(log.Config{Level: opts.LogLevel})))
	result, err := eng.HandleInvocation(inv)
	if err != nil {
		raw, merr := json.Marshal(engine.Envelope(err))
		if merr != nil {
			formatter.Error(ErrCodeEngine, err.Error(), nil)
			return WrapExitError(ExitFailure, "invocation refused", err)
		}
		formatter.SuccessRaw(raw)
		return NewExitError(ExitFailure, "invocation refused")
	}

	if err := store.Commit(ctx, key, result); err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "committing updates", err)
	}
	formatter.VerboseLog("committed %d state and %d session updates",
		len(result.StateUpdates), len(result.SessionUpdates))

	raw, err := json.Marshal(result)
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "serializing result", err)
	}
	return formatter.SuccessRaw(raw)
}
