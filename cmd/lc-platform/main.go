// Command lc-platform is a thin CLI over the library, used to smoke-test a
// provider end to end from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stainedhead/lc-platform/cmd/lc-platform/dependency"
	"github.com/stainedhead/lc-platform/cmd/lc-platform/deploy"
	"github.com/stainedhead/lc-platform/cmd/lc-platform/object"
	"github.com/stainedhead/lc-platform/cmd/lc-platform/queue"
	"github.com/stainedhead/lc-platform/cmd/lc-platform/secrets"
)

func main() {
	root := &cobra.Command{
		Use:          "lc-platform",
		Short:        "Smoke-test a cloud-agnostic control/data plane provider",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("provider", "mock", "provider to target: mock | aws")
	root.PersistentFlags().String("region", "", "provider region, falls back to LC_PLATFORM_REGION/AWS_REGION")

	root.AddCommand(deploy.NewCommand())
	root.AddCommand(secrets.NewCommand())
	root.AddCommand(queue.NewCommand())
	root.AddCommand(object.NewCommand())
	root.AddCommand(dependency.NewCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
