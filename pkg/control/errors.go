package control

import (
	"fmt"

	"github.com/stainedhead/lc-platform/pkg/provider"
)

// assertionError reports a registry misconfiguration where a provider
// registered a constructor for id that does not satisfy the interface this
// facade expects for it — a programmer error in a Register call, never a
// runtime condition.
func assertionError(id provider.ID) error {
	return fmt.Errorf("lc-platform: adapter registered for %q does not implement the expected contract (programmer error)", id)
}
