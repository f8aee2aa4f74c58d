package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/tablecheck/internal/rowset"
	"github.com/roach88/tablecheck/internal/store"
)

// Runner executes scenarios against one store.
type Runner struct {
	Store  *store.Store
	IDs    IDGenerator  // nil means UUIDv7Generator
	Logger *slog.Logger // nil means slog.Default()
}

// Run applies the scenario's setup, executes its query, checks the row
// count and validates the rows. Setup is rolled back afterwards, so the
// store is unchanged when Run returns.
//
// A returned error means the scenario could not be evaluated (bad schema,
// setup or query failure). Nonconforming data is reported in the Result
// with Pass false, never as an error.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	if r.Store == nil {
		return nil, errors.New("runner has no store")
	}

	schema, err := scenario.Schema()
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	query, args, err := scenario.SQL()
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	result := NewResult(r.ids().Generate(), scenario.Name)
	result.Query = query

	logger := r.logger().With("scenario", scenario.Name, "run_id", result.RunID)
	if scenario.Table != "" {
		logger.Debug("scenario started", "table", scenario.Table, "where", formatWhereClause(scenario.Where))
	} else {
		logger.Debug("scenario started", "query", query)
	}
	start := time.Now()

	rows, err := r.Store.QueryWithSetup(ctx, scenario.Setup, query, args...)
	if err != nil {
		var setupErr *store.SetupError
		if errors.As(err, &setupErr) {
			return nil, fmt.Errorf("scenario %q: setup failed: %w", scenario.Name, err)
		}
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	result.RowCount = len(rows)

	if err := scenario.Rows.Check(len(rows)); err != nil {
		var cardErr *CardinalityError
		if errors.As(err, &cardErr) {
			result.Cardinality = cardErr
		}
		result.AddError(err.Error())
	}

	result.Verdict = rowset.Validate(rows, schema)
	for _, f := range result.Verdict.Failures {
		result.AddError(f.String())
	}

	result.Duration = time.Since(start)
	logger.Info("scenario finished",
		"pass", result.Pass,
		"rows", result.RowCount,
		"failures", len(result.Failures()),
		"duration", result.Duration,
	)
	return result, nil
}

func (r *Runner) ids() IDGenerator {
	if r.IDs == nil {
		return UUIDv7Generator{}
	}
	return r.IDs
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Run executes a scenario against a fresh in-memory store.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	return (&Runner{Store: st}).Run(ctx, scenario)
}

// StoreOpener opens the store a single scenario runs against.
type StoreOpener func() (*store.Store, error)

// MemoryStores opens a private in-memory store per scenario, so setup
// statements of different scenarios never see each other.
func MemoryStores(opts ...store.Option) StoreOpener {
	return func() (*store.Store, error) {
		return store.Open(store.MemoryPath, opts...)
	}
}

// Outcome pairs a scenario with its result or evaluation error.
type Outcome struct {
	Scenario *Scenario
	Result   *Result
	Err      error
}

// RunOptions configures RunAll.
type RunOptions struct {
	Open   StoreOpener  // nil means MemoryStores()
	Jobs   int          // values below 1 mean 1
	IDs    IDGenerator  // nil means UUIDv7Generator
	Logger *slog.Logger // nil means slog.Default()
}

// RunAll runs scenarios with at most opts.Jobs in flight. Each scenario
// gets its own store. Outcomes are returned in input order; one failing
// scenario never stops the others. Scenarios not started before ctx is
// cancelled report ctx.Err().
func RunAll(ctx context.Context, scenarios []*Scenario, opts RunOptions) []Outcome {
	open := opts.Open
	if open == nil {
		open = MemoryStores()
	}
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	outcomes := make([]Outcome, len(scenarios))
	var g errgroup.Group
	g.SetLimit(jobs)

	for i, scenario := range scenarios {
		i, scenario := i, scenario
		outcomes[i].Scenario = scenario
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}

			st, err := open()
			if err != nil {
				outcomes[i].Err = fmt.Errorf("scenario %q: failed to open store: %w", scenario.Name, err)
				return nil
			}
			defer st.Close()

			runner := &Runner{Store: st, IDs: opts.IDs, Logger: opts.Logger}
			outcomes[i].Result, outcomes[i].Err = runner.Run(ctx, scenario)
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}
