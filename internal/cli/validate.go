package cli

import (
	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <invocation.json>",
		Short: "Validate a card without rendering it",
		Long: `Validate the card named by an invocation and print the issues.

The card is checked structurally against the Adaptive Card v1.6 rules;
bindings are left untouched and no rendered card is produced. Use "-"
to read the invocation from stdin.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngineOperation(rootOpts, cmd, args[0], "validate")
		},
	}
	return cmd
}
