// Package common builds the lcplatform.Config and logger shared by every
// lc-platform subcommand.
package common

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stainedhead/lc-platform"
	"github.com/stainedhead/lc-platform/api"
)

// ConfigFromFlags reads the root command's --provider/--region persistent
// flags into a lcplatform.Config.
func ConfigFromFlags(cmd *cobra.Command) (lcplatform.Config, error) {
	provider, err := cmd.Flags().GetString("provider")
	if err != nil {
		return lcplatform.Config{}, err
	}
	region, err := cmd.Flags().GetString("region")
	if err != nil {
		return lcplatform.Config{}, err
	}
	return lcplatform.Config{Provider: api.ProviderName(provider), Region: region}, nil
}

// Logger returns a development zap logger wrapped in logr.
func Logger() logr.Logger {
	zl, err := zap.NewDevelopment()
	if err != nil {
		return logr.Discard()
	}
	return zapr.NewLogger(zl)
}

// RequestID mints a correlation ID for one CLI invocation.
func RequestID() string {
	return uuid.NewString()
}
