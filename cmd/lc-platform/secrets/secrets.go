// Package secrets implements "lc-platform secrets get", a SecretsClient
// smoke test exercising the data-plane read cache from the shell.
package secrets

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stainedhead/lc-platform"
	"github.com/stainedhead/lc-platform/cmd/lc-platform/common"
)

// NewCommand returns the "secrets" command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Inspect secrets through the data-plane SecretsClient",
	}
	cmd.AddCommand(newGetCommand())
	return cmd
}

func newGetCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch a secret's current value",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.ConfigFromFlags(cmd)
			if err != nil {
				return err
			}
			facade, err := lcplatform.RuntimeFacadeWithLogger(cfg, common.Logger())
			if err != nil {
				return fmt.Errorf("building runtime facade: %w", err)
			}
			client, err := facade.Secrets()
			if err != nil {
				return fmt.Errorf("resolving SecretsClient: %w", err)
			}
			value, err := client.Get(context.Background(), name)
			if err != nil {
				return fmt.Errorf("getting secret %q: %w", name, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "secret name (required)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
