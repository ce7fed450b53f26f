package aws

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	_ "github.com/lib/pq"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

const dataStoreServiceName = "datastore"

// dataStore adapts control.DataStoreService to a real relational database
// through database/sql and lib/pq: a single lazily-opened *sql.DB per
// service, built once and reused, with database/sql's own internal pool
// rather than a bespoke one. Only Postgres wire
// semantics ($1, $2 placeholders) are assumed; other relational providers
// are future registry entries, not branches in this adapter.
type dataStore struct {
	base

	mu   sync.Mutex
	db   *sql.DB
	dsn  string
	migs map[int]bool
}

var _ control.DataStoreService = (*dataStore)(nil)

func dsnFromConfig(cfg provider.Config) string {
	o := cfg.Options
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=require",
		o.DBHost, o.DBPort, o.DBName, o.DBUser, o.DBPassword)
}

func newDataStore(cfg provider.Config, shared *provider.Shared) (any, error) {
	return &dataStore{base: newBase(cfg, shared), migs: make(map[int]bool)}, nil
}

func (s *dataStore) Connect(ctx context.Context, connectionString string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dsn := connectionString
	if dsn == "" {
		dsn = dsnFromConfig(s.cfg)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return translate(dataStoreServiceName, err)
	}
	db.SetMaxOpenConns(100)
	if err := db.PingContext(ctx); err != nil {
		return translate(dataStoreServiceName, err)
	}
	s.db = db
	s.dsn = dsn
	return nil
}

func (s *dataStore) pool() (*sql.DB, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return nil, cperrors.ValidationError("connection", "data store connection is not open; call Connect first")
	}
	return db, nil
}

func rowsToAPIRows(rows *sql.Rows) ([]api.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []api.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(api.Row, len(cols))
		for i, c := range cols {
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *dataStore) Query(ctx context.Context, sqlText string, params ...any) ([]api.Row, error) {
	return do(ctx, s.base, dataStoreServiceName, func(ctx context.Context) ([]api.Row, error) {
		db, err := s.pool()
		if err != nil {
			return nil, err
		}
		rows, err := db.QueryContext(ctx, sqlText, params...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return rowsToAPIRows(rows)
	})
}

func (s *dataStore) Execute(ctx context.Context, sqlText string, params ...any) (api.ExecResult, error) {
	return do(ctx, s.base, dataStoreServiceName, func(ctx context.Context) (api.ExecResult, error) {
		db, err := s.pool()
		if err != nil {
			return api.ExecResult{}, err
		}
		res, err := db.ExecContext(ctx, sqlText, params...)
		if err != nil {
			return api.ExecResult{}, err
		}
		affected, _ := res.RowsAffected()
		result := api.ExecResult{RowsAffected: affected}
		if id, err := res.LastInsertId(); err == nil && id != 0 {
			result.InsertID = &id
		}
		return result, nil
	})
}

// sqlTx adapts a *sql.Tx to control.Tx so Transaction's fn runs parameterized
// statements inside the real transaction rather than against the pool.
type sqlTx struct{ tx *sql.Tx }

func (t *sqlTx) Query(ctx context.Context, sqlText string, params ...any) ([]api.Row, error) {
	rows, err := t.tx.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rowsToAPIRows(rows)
}

func (t *sqlTx) Execute(ctx context.Context, sqlText string, params ...any) (api.ExecResult, error) {
	res, err := t.tx.ExecContext(ctx, sqlText, params...)
	if err != nil {
		return api.ExecResult{}, err
	}
	affected, _ := res.RowsAffected()
	return api.ExecResult{RowsAffected: affected}, nil
}

func (s *dataStore) Transaction(ctx context.Context, fn func(tx control.Tx) error) error {
	_, err := do(ctx, s.base, dataStoreServiceName, func(ctx context.Context) (struct{}, error) {
		db, err := s.pool()
		if err != nil {
			return struct{}{}, err
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return struct{}{}, err
		}
		if err := fn(&sqlTx{tx: tx}); err != nil {
			_ = tx.Rollback()
			return struct{}{}, err
		}
		return struct{}{}, tx.Commit()
	})
	return err
}

// Migrate applies migrations in version order, recording each applied
// version in a "migrations" tracking table so repeated calls are
// idempotent.
func (s *dataStore) Migrate(ctx context.Context, migrations []api.Migration) error {
	db, err := s.pool()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS migrations (version INTEGER PRIMARY KEY, name TEXT NOT NULL)`); err != nil {
		return translate(dataStoreServiceName, err)
	}
	ordered := make([]api.Migration, len(migrations))
	copy(ordered, migrations)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Version < ordered[j].Version })

	for _, m := range ordered {
		s.mu.Lock()
		applied := s.migs[m.Version]
		s.mu.Unlock()
		if applied {
			continue
		}
		var count int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM migrations WHERE version = $1`, m.Version).Scan(&count); err != nil {
			return translate(dataStoreServiceName, err)
		}
		if count > 0 {
			s.mu.Lock()
			s.migs[m.Version] = true
			s.mu.Unlock()
			continue
		}
		if err := s.Transaction(ctx, func(tx control.Tx) error {
			if _, err := tx.Execute(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.Execute(ctx, `INSERT INTO migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name)
			return err
		}); err != nil {
			return err
		}
		s.mu.Lock()
		s.migs[m.Version] = true
		s.mu.Unlock()
	}
	return nil
}

// sqlConn adapts one *sql.Conn acquired from the pool to control.Conn
// ; database/sql's
// own pool provides the deadline-bounded acquire via ctx.
type sqlConn struct{ conn *sql.Conn }

func (c *sqlConn) Query(ctx context.Context, sqlText string, params ...any) ([]api.Row, error) {
	rows, err := c.conn.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, translate(dataStoreServiceName, err)
	}
	defer rows.Close()
	return rowsToAPIRows(rows)
}

func (c *sqlConn) Execute(ctx context.Context, sqlText string, params ...any) (api.ExecResult, error) {
	res, err := c.conn.ExecContext(ctx, sqlText, params...)
	if err != nil {
		return api.ExecResult{}, translate(dataStoreServiceName, err)
	}
	affected, _ := res.RowsAffected()
	return api.ExecResult{RowsAffected: affected}, nil
}

func (c *sqlConn) Release() {
	_ = c.conn.Close()
}

func (s *dataStore) GetConnection(ctx context.Context) (control.Conn, error) {
	db, err := s.pool()
	if err != nil {
		return nil, err
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, translate(dataStoreServiceName, err)
	}
	return &sqlConn{conn: conn}, nil
}

// dataClient adapts runtime.DataClient to a dataStore of its own, built and
// connected when the client is constructed; it does not share the control
// plane's connection pool.
type dataClient struct{ svc *dataStore }

var _ runtime.DataClient = (*dataClient)(nil)

func newDataClient(cfg provider.Config, shared *provider.Shared) (any, error) {
	s, err := newDataStore(cfg, shared)
	if err != nil {
		return nil, err
	}
	svc := s.(*dataStore)
	if err := svc.Connect(context.Background(), ""); err != nil {
		return nil, err
	}
	return &dataClient{svc: svc}, nil
}

func (c *dataClient) Query(ctx context.Context, sqlText string, params ...any) ([]api.Row, error) {
	return c.svc.Query(ctx, sqlText, params...)
}

func (c *dataClient) Execute(ctx context.Context, sqlText string, params ...any) (api.ExecResult, error) {
	return c.svc.Execute(ctx, sqlText, params...)
}

func (c *dataClient) Transaction(ctx context.Context, fn func(tx control.Tx) error) error {
	return c.svc.Transaction(ctx, fn)
}
