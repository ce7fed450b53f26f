// Package dependency implements "lc-platform dependency validate", a
// standalone smoke test for the validator that never touches a provider:
// it decodes a dependency record from a file and reports every
// constraint violation at its JSON pointer path.
package dependency

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stainedhead/lc-platform/pkg/validate"
)

// NewCommand returns the "dependency" command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dependency",
		Short: "Validate application dependency records",
	}
	cmd.AddCommand(newValidateCommand())
	return cmd
}

func newValidateCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Decode and validate a dependency record from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}
			dep, err := validate.DecodeDependency(data)
			if err != nil {
				return err
			}
			res := validate.New().Validate(dep)
			if res.OK {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", dep.ID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d violation(s)\n", dep.ID, len(res.Errors))
			for _, fe := range res.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", fe.Path, fe.Message)
			}
			return fmt.Errorf("dependency record failed validation")
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to a JSON dependency record (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
