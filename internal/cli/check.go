package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tablecheck/internal/harness"
	"github.com/roach88/tablecheck/internal/rowset"
	"github.com/roach88/tablecheck/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	DB        string // database path; empty means TABLECHECK_DB
	Filter    string // scenario filter (glob pattern)
	Jobs      int    // parallel scenarios; 0 means TABLECHECK_JOBS
	Update    bool   // regenerate golden files
	TimeoutMs int    // per-query timeout; 0 means TABLECHECK_QUERY_TIMEOUT_MS
}

// Golden file states reported per scenario.
const (
	GoldenMatch    = "match"
	GoldenMismatch = "mismatch"
	GoldenUpdated  = "updated"
)

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name       string           `json:"name"`
	File       string           `json:"file"`
	RunID      string           `json:"run_id,omitempty"`
	Pass       bool             `json:"pass"`
	RowCount   int              `json:"row_count"`
	Failures   []rowset.Failure `json:"failures,omitempty"`
	Errors     []string         `json:"errors,omitempty"`
	Golden     string           `json:"golden,omitempty"`
	DurationMs int64            `json:"duration_ms"`
}

// CheckResult holds the overall check result.
type CheckResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <scenarios-dir>",
		Short: "Run table scenarios and validate their results",
		Long: `Run every scenario file (.yaml, .yml, .cue) under a directory.

Each scenario runs its setup statements, executes its query, checks the
row count, and validates every declared column of every row. All
nonconforming cells are reported, not just the first.

If <scenarios-dir>/golden/<name>.golden exists, the verdict snapshot must
also match it. Use --update to write the current snapshots.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  tablecheck check ./scenarios
  tablecheck check ./scenarios --filter "bluetooth_*"
  tablecheck check ./scenarios --db ./osquery.db --jobs 8
  tablecheck check ./scenarios --update
  tablecheck check ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database to query (default $TABLECHECK_DB or in-memory)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "scenarios to run in parallel (default $TABLECHECK_JOBS)")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().IntVar(&opts.TimeoutMs, "timeout", 0, "query timeout in milliseconds (default $TABLECHECK_QUERY_TIMEOUT_MS)")

	return cmd
}

func runCheck(opts *CheckOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if err := checkDir(scenariosDir); err != nil {
		return err
	}

	cfg := opts.settings()
	dbPath := cfg.DBPath
	if opts.DB != "" {
		dbPath = opts.DB
	}
	timeout := cfg.QueryTimeout
	if opts.TimeoutMs > 0 {
		timeout = time.Duration(opts.TimeoutMs) * time.Millisecond
	}
	jobs := cfg.Jobs
	if opts.Jobs > 0 {
		jobs = opts.Jobs
	}

	if dbPath != store.MemoryPath {
		if _, err := os.Stat(dbPath); err != nil {
			return WrapExitError(ExitCommandError, "database not found", err)
		}
	}

	paths, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	if len(paths) == 0 {
		if opts.Format == "json" {
			return outputCheckJSON(formatter, CheckResult{Scenarios: []ScenarioResult{}})
		}
		fmt.Fprintln(formatter.Writer, "No scenarios found.")
		return nil
	}

	formatter.VerboseLog("Found %d scenario file(s) in %s", len(paths), scenariosDir)
	files := loadScenarioFiles(paths)

	var runnable []*harness.Scenario
	for _, f := range files {
		if f.Scenario != nil {
			runnable = append(runnable, f.Scenario)
		}
	}

	slog.Info("running scenarios", "count", len(runnable), "db", dbPath, "jobs", jobs)
	outcomes := harness.RunAll(cmd.Context(), runnable, harness.RunOptions{
		Open: func() (*store.Store, error) {
			return store.Open(dbPath, store.WithQueryTimeout(timeout))
		},
		Jobs:   jobs,
		Logger: slog.Default(),
	})

	result := CheckResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}

	next := 0
	for _, f := range files {
		var res ScenarioResult
		if f.Err != nil {
			res = ScenarioResult{
				Name:   f.name(),
				File:   f.Path,
				Errors: []string{fmt.Sprintf("failed to load scenario: %v", f.Err)},
			}
		} else {
			res = scenarioResult(opts, scenariosDir, f, outcomes[next], formatter)
			next++
		}

		result.Scenarios = append(result.Scenarios, res)
		if res.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		return outputCheckJSON(formatter, result)
	}
	return outputCheckText(formatter, result)
}

// scenarioResult converts a run outcome, applying golden comparison.
func scenarioResult(opts *CheckOptions, scenariosDir string, f scenarioFile, out harness.Outcome, formatter *OutputFormatter) ScenarioResult {
	res := ScenarioResult{Name: f.Scenario.Name, File: f.Path}

	if out.Err != nil {
		res.Errors = []string{fmt.Sprintf("execution failed: %v", out.Err)}
		return res
	}

	r := out.Result
	formatter.VerboseLog("%s: run %s, query %q", r.Scenario, r.RunID, r.Query)
	res.RunID = r.RunID
	res.Pass = r.Pass
	res.RowCount = r.RowCount
	res.Failures = r.Failures()
	res.Errors = r.Errors
	res.DurationMs = r.Duration.Milliseconds()

	golden, err := applyGolden(opts.Update, goldenFilePath(scenariosDir, r.Scenario), r)
	if err != nil {
		res.Pass = false
		res.Errors = append(res.Errors, err.Error())
		return res
	}
	res.Golden = golden
	if golden == GoldenMismatch {
		res.Pass = false
		res.Errors = append(res.Errors, "verdict does not match golden file (run with --update to regenerate)")
	}
	return res
}

// applyGolden writes or compares the snapshot of result at path. It
// returns "" when no golden file exists and update is false.
func applyGolden(update bool, path string, result *harness.Result) (string, error) {
	data, err := harness.MarshalSnapshot(result)
	if err != nil {
		return "", err
	}

	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return "", fmt.Errorf("failed to write golden file: %w", err)
		}
		slog.Debug("golden file updated", "scenario", result.Scenario, "path", path)
		return GoldenUpdated, nil
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read golden file: %w", err)
	}

	if !bytes.Equal(want, data) {
		return GoldenMismatch, nil
	}
	return GoldenMatch, nil
}

// outputCheckJSON outputs the check result as JSON.
func outputCheckJSON(formatter *OutputFormatter, result CheckResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeCheckFailed,
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	if err := formatter.JSON(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// outputCheckText outputs the check result as text.
func outputCheckText(formatter *OutputFormatter, result CheckResult) error {
	w := formatter.Writer

	for _, s := range result.Scenarios {
		detail := fmt.Sprintf("%d row(s), %dms", s.RowCount, s.DurationMs)
		if s.Golden == GoldenUpdated {
			detail += ", golden updated"
		}

		if s.Pass {
			fmt.Fprintf(w, "%s %s %s\n", passMark("✓"), s.Name, dimText("("+detail+")"))
			continue
		}

		fmt.Fprintf(w, "%s %s\n", failMark("✗"), boldText(s.Name))
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Check Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintf(w, "%s All scenarios passed\n", passMark("✓"))
	return nil
}
