package deploy

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// TestDeployCommandAgainstMockProvider exercises the CLI command the same
// way a shell invocation would: build the root-equivalent persistent flags,
// set --provider mock, and check stdout.
func TestDeployCommandAgainstMockProvider(t *testing.T) {
	root := &cobra.Command{Use: "lc-platform"}
	root.PersistentFlags().String("provider", "mock", "")
	root.PersistentFlags().String("region", "", "")
	cmd := NewCommand()
	root.AddCommand(cmd)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"deploy", "--name", "cli-smoke-app", "--image", "img:v1"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "cli-smoke-app") {
		t.Fatalf("output = %q, want it to mention the deployed app name", out.String())
	}
}
