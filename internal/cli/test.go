package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/greentic-ai/cardengine/internal/harness"
)

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <scenario.yaml|directory>",
		Short: "Run conformance scenarios",
		Long: `Run one scenario file, or every scenario in a directory, through
the engine and report pass or fail per scenario.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

// scenarioReport is the JSON shape for one scenario outcome.
type scenarioReport struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

func runTest(opts *RootOptions, cmd *cobra.Command, path string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	paths, err := scenarioPaths(path)
	if err != nil {
		formatter.Error(ErrCodeReadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "locating scenarios", err)
	}
	if len(paths) == 0 {
		formatter.Error(ErrCodeReadFailed, "no scenario files found", nil)
		return NewExitError(ExitCommandError, "no scenario files found")
	}

	reports := make([]scenarioReport, 0, len(paths))
	failed := 0
	for _, scenarioPath := range paths {
		report := runScenario(scenarioPath)
		if !report.Pass {
			failed++
		}
		reports = append(reports, report)
	}

	if opts.Format == "json" {
		if err := formatter.Success(map[string]any{
			"scenarios": reports,
			"total":     len(reports),
			"failed":    failed,
		}); err != nil {
			return err
		}
	} else {
		for _, report := range reports {
			status := "PASS"
			if !report.Pass {
				status = "FAIL"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%s)\n", status, report.Name, report.Path)
			for _, msg := range report.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "      %s\n", msg)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d scenarios, %d failed\n", len(reports), failed)
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", failed, len(reports)))
	}
	return nil
}

// runScenario loads and executes one scenario, folding load errors into the
// report so one broken file does not abort the run.
func runScenario(path string) scenarioReport {
	report := scenarioReport{Path: path}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		report.Errors = []string{err.Error()}
		return report
	}
	report.Name = scenario.Name

	result, err := harness.Run(scenario)
	if err != nil {
		report.Errors = []string{err.Error()}
		return report
	}

	report.Pass = result.Pass
	report.Errors = result.Errors
	return report
}

func scenarioPaths(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return harness.DiscoverScenarios(path)
	}
	return []string{path}, nil
}
