package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/firmo/internal/scenario"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml> [more scenarios...]",
		Short: "Check scenario files without running them",
		Long: `Validate scenario files against the schema and compile their test trees.

Nothing is executed; validate only proves the files would load. The exit
code is 0 when every file is valid and 2 otherwise.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateScenarios(args, cmd)
		},
	}
}

func validateScenarios(paths []string, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	invalid := 0
	for _, path := range paths {
		if err := validateOne(path); err != nil {
			invalid++
			fmt.Fprintf(out, "FAIL  %s\n      %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "OK    %s\n", path)
	}
	if invalid > 0 {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("%d of %d scenario files invalid", invalid, len(paths)))
	}
	return nil
}

func validateOne(path string) error {
	f, err := scenario.Load(path)
	if err != nil {
		return err
	}
	// Building proves timeouts parse and every check is complete.
	_, err = scenario.Build(f)
	return err
}
