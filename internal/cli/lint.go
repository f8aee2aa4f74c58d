package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// LintError is one scenario file that failed to load.
type LintError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// LintResult holds lint results.
type LintResult struct {
	Valid  bool        `json:"valid"`
	Files  int         `json:"files"`
	Errors []LintError `json:"errors,omitempty"`
}

// NewLintCommand creates the lint command.
func NewLintCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <scenarios-dir>",
		Short: "Validate scenario files without running queries",
		Long: `Load every scenario file under a directory and report configuration
errors: unknown fields, unknown column types, duplicate columns, invalid
category parameters, bad row-count expectations and duplicate scenario
names. No query is executed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runLint(opts *RootOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if err := checkDir(scenariosDir); err != nil {
		return err
	}

	paths, err := findScenarioFiles(scenariosDir, "")
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	result := LintResult{Valid: true, Files: len(paths)}
	for _, f := range loadScenarioFiles(paths) {
		if f.Err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, LintError{File: f.Path, Message: f.Err.Error()})
			continue
		}
		formatter.VerboseLog("ok: %s (%s, %d column(s))", f.Path, f.Scenario.Name, len(f.Scenario.Columns))
	}

	if formatter.Format == "json" {
		response := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    ErrCodeLintFailed,
				Message: fmt.Sprintf("%d invalid scenario file(s)", len(result.Errors)),
			}
		}
		if err := formatter.JSON(response); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		if result.Valid {
			fmt.Fprintf(w, "%s %d scenario file(s) valid\n", passMark("✓"), result.Files)
		} else {
			fmt.Fprintf(w, "%s Lint failed\n\n", failMark("✗"))
			for _, e := range result.Errors {
				fmt.Fprintf(w, "  %s\n", e.Message)
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("lint failed with %d error(s)", len(result.Errors)))
	}
	return nil
}
