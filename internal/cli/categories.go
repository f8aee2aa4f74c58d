package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/tablecheck/internal/shape"
)

// CategoryInfo describes one shape kind.
type CategoryInfo struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// NewCategoriesCommand creates the categories command.
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "categories",
		Short:         "List the column types a scenario may declare",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

			kinds := shape.Kinds()
			infos := make([]CategoryInfo, len(kinds))
			for i, k := range kinds {
				infos[i] = CategoryInfo{Kind: string(k), Description: k.Description()}
			}

			if formatter.Format == "json" {
				return formatter.Success(infos)
			}

			tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\n", info.Kind, info.Description)
			}
			return tw.Flush()
		},
	}
}
