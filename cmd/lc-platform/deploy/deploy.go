// Package deploy implements "lc-platform deploy", a WebHostingService smoke
// test: flags populate an Options struct, one RunE builds the request, and
// the result prints as a human-readable summary.
package deploy

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stainedhead/lc-platform"
	"github.com/stainedhead/lc-platform/cmd/lc-platform/common"
	"github.com/stainedhead/lc-platform/pkg/control"
)

type options struct {
	name         string
	image        string
	port         int
	cpu          int
	memory       int
	minInstances int
	maxInstances int
}

// NewCommand returns the "deploy" subcommand.
func NewCommand() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a web application through WebHostingService",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o)
		},
	}
	cmd.Flags().StringVar(&o.name, "name", "", "application name (required)")
	cmd.Flags().StringVar(&o.image, "image", "", "container image (required)")
	cmd.Flags().IntVar(&o.port, "port", 8080, "container port")
	cmd.Flags().IntVar(&o.cpu, "cpu", 1, "vCPU units")
	cmd.Flags().IntVar(&o.memory, "memory", 512, "memory in MiB")
	cmd.Flags().IntVar(&o.minInstances, "min-instances", 1, "minimum instance count")
	cmd.Flags().IntVar(&o.maxInstances, "max-instances", 1, "maximum instance count")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func run(cmd *cobra.Command, o *options) error {
	cfg, err := common.ConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	logger := common.Logger().WithValues("requestID", common.RequestID())

	facade, err := lcplatform.ControlFacadeWithLogger(cfg, logger)
	if err != nil {
		return fmt.Errorf("building control facade: %w", err)
	}
	web, err := facade.WebHosting()
	if err != nil {
		return fmt.Errorf("resolving WebHostingService: %w", err)
	}

	ctx := context.Background()
	dep, err := web.DeployApplication(ctx, control.DeployParams{
		Name:         o.name,
		Image:        o.image,
		Port:         o.port,
		CPU:          o.cpu,
		Memory:       o.memory,
		MinInstances: o.minInstances,
		MaxInstances: o.maxInstances,
	})
	if err != nil {
		return fmt.Errorf("deploying %s: %w", o.name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deployed %s (id=%s) at %s\n", dep.Name, dep.ID, dep.URL)
	return nil
}
