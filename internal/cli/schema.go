package cli

import (
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/roach88/tablecheck/internal/harness"
)

// ScenarioSchemaID identifies the generated scenario JSON Schema.
const ScenarioSchemaID = "https://github.com/roach88/tablecheck/scenario.schema.json"

// ScenarioSchema reflects the JSON Schema of the scenario file format.
// Editors can use it to validate YAML scenarios while they are written.
func ScenarioSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}
	s := r.Reflect(&harness.Scenario{})
	s.ID = ScenarioSchemaID
	s.Title = "tablecheck scenario"
	return s
}

// NewScenarioSchemaCommand creates the scenario-schema command.
func NewScenarioSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "scenario-schema",
		Short:         "Print the JSON Schema of scenario files",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			// The schema is the payload in both formats.
			return formatter.JSON(ScenarioSchema())
		},
	}
}
