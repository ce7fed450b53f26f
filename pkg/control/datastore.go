package control

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// Conn is a scoped connection handle acquired from DataStoreService's pool
// . Callers must
// Release it; Release is safe to call more than once.
type Conn interface {
	Query(ctx context.Context, sql string, params ...any) ([]api.Row, error)
	Execute(ctx context.Context, sql string, params ...any) (api.ExecResult, error)
	Release()
}

// Tx is the scope passed into DataStoreService.Transaction's fn; committing
// or rolling back is handled by Transaction itself.
type Tx interface {
	Query(ctx context.Context, sql string, params ...any) ([]api.Row, error)
	Execute(ctx context.Context, sql string, params ...any) (api.ExecResult, error)
}

// DataStoreService provides parameterized relational access, migrations,
// and transactions over a shared connection pool. Prepared
// statement parameterization is mandatory: no adapter may concatenate
// params into sql.
type DataStoreService interface {
	Connect(ctx context.Context, connectionString string) error
	Query(ctx context.Context, sql string, params ...any) ([]api.Row, error)
	Execute(ctx context.Context, sql string, params ...any) (api.ExecResult, error)
	Transaction(ctx context.Context, fn func(tx Tx) error) error
	Migrate(ctx context.Context, migrations []api.Migration) error
	GetConnection(ctx context.Context) (Conn, error)
}
