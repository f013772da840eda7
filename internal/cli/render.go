package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/greentic-ai/cardengine/internal/engine"
	"github.com/greentic-ai/cardengine/internal/log"
)

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <invocation.json>",
		Short: "Render a card invocation",
		Long: `Render an Adaptive Card invocation and print the result.

The input file holds the invocation JSON: card source, template params,
payload/session/state scopes, and mode. Use "-" to read from stdin.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngineOperation(rootOpts, cmd, args[0], "card")
		},
	}
	return cmd
}

// runEngineOperation reads the invocation file and runs one engine
// operation; render and validate share it.
func runEngineOperation(opts *RootOptions, cmd *cobra.Command, path, operation string) error {
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

	eng := engine.New(engine.WithLogger(log.New(log.Config{Level: opts.LogLevel})))
	output := eng.HandleMessage(operation, input)

	if isErrorEnvelope(output) {
		formatter.SuccessRaw(output)
		return NewExitError(ExitFailure, "invocation refused")
	}
	return formatter.SuccessRaw(output)
}

func readInput(path string, cmd *cobra.Command) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// isErrorEnvelope detects the {"error": {...}} shape without a full parse
// of the result.
func isErrorEnvelope(raw []byte) bool {
	var probe struct {
		Error *json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return probe.Error != nil
}
