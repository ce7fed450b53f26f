package runtime

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
)

// DataClient is query/execute/transaction against an already-connected data
// store. It shares control.Tx's shape so transaction bodies are
// portable between the control and runtime facades.
type DataClient interface {
	Query(ctx context.Context, sql string, params ...any) ([]api.Row, error)
	Execute(ctx context.Context, sql string, params ...any) (api.ExecResult, error)
	Transaction(ctx context.Context, fn func(tx control.Tx) error) error
}
