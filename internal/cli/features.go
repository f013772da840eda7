package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/greentic-ai/cardengine/internal/features"
)

// NewFeaturesCommand creates the features command.
func NewFeaturesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features <card.json>",
		Short: "Summarize the features a card uses",
		Long: `Count the element, input, action, and media kinds in a raw card
document. The input is the card itself, not an invocation. Use "-" to
read from stdin.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeatures(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runFeatures(opts *RootOptions, cmd *cobra.Command, path string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	input, err := readInput(path, cmd)
	if err != nil {
		formatter.Error(ErrCodeReadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading card", err)
	}

	var card any
	if err := json.Unmarshal(input, &card); err != nil {
		formatter.Error(ErrCodeBadInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parsing card", err)
	}

	summary := features.Analyze(card)
	raw, err := json.Marshal(summary)
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "serializing summary", err)
	}
	return formatter.SuccessRaw(raw)
}
