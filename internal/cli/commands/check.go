package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/x2bin-lang/x2bin/internal/cli/ui"
	"github.com/x2bin-lang/x2bin/internal/compiler/schema"
)

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <schema>",
		Short: "Validate a schema and print its tree",
		Long: `Read a YAML schema, resolve its includes and recursive references,
and print the resulting tree with each node's type and modifiers.

The --float and --enum options affect how defaults are checked.

Examples:
  x2bin check schema/items.yml
  x2bin check schema/items.yml --enum enums.yml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0])
		},
	}

	addEncoderFlags(cmd.Flags())

	return cmd
}

func runCheck(cmd *cobra.Command, path string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	reader := schema.NewReader(s.options.Encoding.Parser, s.options.Encoding.Enums, s.logger)
	sch, err := reader.ReadFile(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ui.Header(out, fmt.Sprintf("Schema %s", path), noColor)
	fmt.Fprint(out, sch.Root.Describe())

	if names := sch.Names(); len(names) > 0 {
		fmt.Fprintln(out)
		kv := ui.NewKeyValueTable(out, noColor)
		kv.AddRow("Recursive nodes", strings.Join(names, ", "))
		kv.Render()
	}

	fmt.Fprintln(out)
	ui.WriteSuccess(out, fmt.Sprintf("%s is valid (root <%s>)", path, sch.Root.Name), noColor)
	return nil
}
