package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tablecheck/internal/store"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables of a database",
		Long: `List the user tables and views of a SQLite database, as candidates for
scenario queries. The database is opened read-only.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = rootOpts.settings().DBPath
			}
			return runTables(rootOpts, dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default $TABLECHECK_DB)")
	return cmd
}

func runTables(opts *RootOptions, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format: opts.Format,
		Writer: cmd.OutOrStdout(),
	}

	st, err := store.Open(dbPath, store.WithReadOnly())
	if err != nil {
		_ = formatter.Error(ErrCodeDatabaseError, err.Error(), map[string]string{"db": dbPath})
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	tables, err := st.Tables(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list tables", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"db": dbPath, "tables": tables})
	}

	if len(tables) == 0 {
		fmt.Fprintln(formatter.Writer, "No tables found.")
		return nil
	}
	for _, name := range tables {
		fmt.Fprintln(formatter.Writer, name)
	}
	return nil
}
