package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/x2bin-lang/x2bin/internal/cli/ui"
	"github.com/x2bin-lang/x2bin/internal/compiler/errors"
	"github.com/x2bin-lang/x2bin/internal/compiler/literal"
)

// NewTypesCommand creates the types command
func NewTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types [type]",
		Short: "List the schema literal types",
		Long: `List every type tag a schema leaf may declare, with its binary layout.
Pass a type name to show a single type.

Examples:
  x2bin types
  x2bin types tuple3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types := literal.Types()
			if len(args) == 1 {
				t, ok := literal.ParseType(args[0])
				if !ok {
					return errors.NewUnknownType(args[0])
				}
				types = []literal.Type{t}
			}

			table := ui.NewTable(cmd.OutOrStdout(), []string{"Type", "Parts", "Layout"}, &ui.TableOptions{
				NoColor:    noColor,
				RightAlign: []int{1},
			})
			for _, t := range types {
				parts := "-"
				if n := t.Arity(); n > 0 {
					parts = strconv.Itoa(n)
				}
				table.AddRow(t.String(), parts, t.Description())
			}
			table.Render()
			return nil
		},
	}
}
