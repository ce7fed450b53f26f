package mock

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

type dataClient struct{ w *world }

var _ runtime.DataClient = (*dataClient)(nil)

func (c *dataClient) Query(ctx context.Context, sql string, params ...any) ([]api.Row, error) {
	c.w.injectLatency()
	return c.w.runQuery(sql, params)
}

func (c *dataClient) Execute(ctx context.Context, sql string, params ...any) (api.ExecResult, error) {
	c.w.injectLatency()
	return c.w.runExecute(sql, params)
}

func (c *dataClient) Transaction(ctx context.Context, fn func(tx control.Tx) error) error {
	c.w.injectLatency()
	return fn(&mockTx{w: c.w})
}
