package mock

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

// The mock's relational layer is a small regexp-driven interpreter over
// api.Row maps rather than a real SQL engine. It understands single-table
// INSERT/SELECT/UPDATE/DELETE with "?" or "$n" placeholders bound
// positionally, plus CREATE TABLE and DROP TABLE as metadata operations
// (column definitions are not interpreted; rows are schemaless api.Row
// maps).
var (
	insertRe = regexp.MustCompile(`(?is)^\s*INSERT\s+INTO\s+(\w+)\s*\(([^)]*)\)\s*VALUES\s*\(([^)]*)\)`)
	createRe = regexp.MustCompile(`(?is)^\s*CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?(\w+)`)
	dropRe   = regexp.MustCompile(`(?is)^\s*DROP\s+TABLE\s+(?:IF\s+EXISTS\s+)?(\w+)`)
	selectRe = regexp.MustCompile(`(?is)^\s*SELECT\s+.*?\s+FROM\s+(\w+)(?:\s+WHERE\s+(.*))?$`)
	updateRe = regexp.MustCompile(`(?is)^\s*UPDATE\s+(\w+)\s+SET\s+(.*?)(?:\s+WHERE\s+(.*))?$`)
	deleteRe = regexp.MustCompile(`(?is)^\s*DELETE\s+FROM\s+(\w+)(?:\s+WHERE\s+(.*))?$`)
)

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// whereMatch reports whether row satisfies an AND-joined list of "col = ?"
// conditions, consuming params in left-to-right order.
func whereMatch(row api.Row, where string, params []any, consumed *int) bool {
	if where == "" {
		return true
	}
	conds := regexp.MustCompile(`(?i)\s+AND\s+`).Split(where, -1)
	for _, cond := range conds {
		eq := strings.SplitN(cond, "=", 2)
		if len(eq) != 2 {
			continue
		}
		colName := strings.TrimSpace(eq[0])
		if *consumed >= len(params) {
			return false
		}
		want := params[*consumed]
		*consumed++
		if row[colName] != want {
			return false
		}
	}
	return true
}

func (w *world) runQuery(sql string, params []any) ([]api.Row, error) {
	w.dataMu.Lock()
	defer w.dataMu.Unlock()
	if !w.connected {
		return nil, cperrors.ValidationError("connection", "data store connection is not open; call Connect first")
	}
	m := selectRe.FindStringSubmatch(sql)
	if m == nil {
		return nil, cperrors.ValidationError("sql", "mock data store only understands single-table SELECT statements")
	}
	table, where := m[1], ""
	if len(m) > 2 {
		where = m[2]
	}
	rows := w.tables[table]
	consumed := 0
	var out []api.Row
	for _, r := range rows {
		if whereMatch(r, where, params, &consumed) {
			out = append(out, copyRow(r))
		}
	}
	return out, nil
}

func (w *world) runExecute(sql string, params []any) (api.ExecResult, error) {
	w.dataMu.Lock()
	defer w.dataMu.Unlock()
	if !w.connected {
		return api.ExecResult{}, cperrors.ValidationError("connection", "data store connection is not open; call Connect first")
	}
	switch {
	case createRe.MatchString(sql):
		table := createRe.FindStringSubmatch(sql)[1]
		if _, exists := w.tables[table]; !exists {
			w.tables[table] = nil
		}
		return api.ExecResult{}, nil

	case dropRe.MatchString(sql):
		delete(w.tables, dropRe.FindStringSubmatch(sql)[1])
		return api.ExecResult{}, nil

	case insertRe.MatchString(sql):
		m := insertRe.FindStringSubmatch(sql)
		table, cols := m[1], splitCSV(m[2])
		if len(params) < len(cols) {
			return api.ExecResult{}, cperrors.ValidationError("params", "expected %d bind params, got %d", len(cols), len(params))
		}
		row := make(api.Row, len(cols))
		for i, c := range cols {
			row[c] = params[i]
		}
		w.tables[table] = append(w.tables[table], row)
		id := int64(len(w.tables[table]))
		return api.ExecResult{RowsAffected: 1, InsertID: &id}, nil

	case updateRe.MatchString(sql):
		m := updateRe.FindStringSubmatch(sql)
		table, setClause, where := m[1], m[2], ""
		if len(m) > 3 {
			where = m[3]
		}
		assigns := splitCSV(setClause)
		consumed := 0
		var affected int64
		for i, r := range w.tables[table] {
			localConsumed := consumed
			if !whereMatchPreview(r, where, params, len(assigns), &localConsumed) {
				continue
			}
			for j, a := range assigns {
				eq := strings.SplitN(a, "=", 2)
				if len(eq) != 2 {
					continue
				}
				col := strings.TrimSpace(eq[0])
				r[col] = params[j]
			}
			w.tables[table][i] = r
			affected++
		}
		return api.ExecResult{RowsAffected: affected}, nil

	case deleteRe.MatchString(sql):
		m := deleteRe.FindStringSubmatch(sql)
		table, where := m[1], ""
		if len(m) > 2 {
			where = m[2]
		}
		rows := w.tables[table]
		kept := rows[:0]
		var affected int64
		for _, r := range rows {
			consumed := 0
			if whereMatch(r, where, params, &consumed) {
				affected++
				continue
			}
			kept = append(kept, r)
		}
		w.tables[table] = kept
		return api.ExecResult{RowsAffected: affected}, nil
	}
	return api.ExecResult{}, cperrors.ValidationError("sql", "mock data store only understands CREATE TABLE, DROP TABLE, and single-table INSERT/UPDATE/DELETE statements")
}

// whereMatchPreview applies WHERE conditions using params offset past the
// SET clause's own placeholders (UPDATE binds SET params before WHERE
// params).
func whereMatchPreview(row api.Row, where string, params []any, setParamCount int, consumed *int) bool {
	*consumed = setParamCount
	return whereMatch(row, where, params, consumed)
}

func copyRow(r api.Row) api.Row {
	out := make(api.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

type dataStore struct{ w *world }

var _ control.DataStoreService = (*dataStore)(nil)

func (s *dataStore) Connect(ctx context.Context, connectionString string) error {
	s.w.dataMu.Lock()
	defer s.w.dataMu.Unlock()
	s.w.connected = true
	return nil
}

func (s *dataStore) Query(ctx context.Context, sql string, params ...any) ([]api.Row, error) {
	s.w.injectLatency()
	return s.w.runQuery(sql, params)
}

func (s *dataStore) Execute(ctx context.Context, sql string, params ...any) (api.ExecResult, error) {
	s.w.injectLatency()
	return s.w.runExecute(sql, params)
}

// mockTx gives Transaction's fn the pool's real Query/Execute; the mock
// world has no undo log, so a returned error is surfaced but writes fn
// made before it are not rolled back.
type mockTx struct{ w *world }

func (t *mockTx) Query(ctx context.Context, sql string, params ...any) ([]api.Row, error) {
	return t.w.runQuery(sql, params)
}

func (t *mockTx) Execute(ctx context.Context, sql string, params ...any) (api.ExecResult, error) {
	return t.w.runExecute(sql, params)
}

func (s *dataStore) Transaction(ctx context.Context, fn func(tx control.Tx) error) error {
	s.w.injectLatency()
	return fn(&mockTx{w: s.w})
}

func (s *dataStore) Migrate(ctx context.Context, migrations []api.Migration) error {
	s.w.dataMu.Lock()
	ordered := make([]api.Migration, len(migrations))
	copy(ordered, migrations)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Version < ordered[j].Version })
	s.w.dataMu.Unlock()
	for _, m := range ordered {
		s.w.dataMu.Lock()
		if s.w.migrationsApplied[m.Version] {
			s.w.dataMu.Unlock()
			continue
		}
		if _, ok := s.w.tables[m.Name]; !ok {
			s.w.tables[m.Name] = nil
		}
		s.w.migrationsApplied[m.Version] = true
		s.w.dataMu.Unlock()
	}
	return nil
}

func (s *dataStore) GetConnection(ctx context.Context) (control.Conn, error) {
	s.w.dataMu.Lock()
	connected := s.w.connected
	s.w.dataMu.Unlock()
	if !connected {
		return nil, cperrors.ValidationError("connection", "data store connection is not open; call Connect first")
	}
	return &mockConn{w: s.w}, nil
}

// mockConn's Release is a no-op beyond marking itself released once; the
// mock has no real pool to return a slot to.
type mockConn struct {
	w        *world
	released bool
}

func (c *mockConn) Query(ctx context.Context, sql string, params ...any) ([]api.Row, error) {
	return c.w.runQuery(sql, params)
}

func (c *mockConn) Execute(ctx context.Context, sql string, params ...any) (api.ExecResult, error) {
	return c.w.runExecute(sql, params)
}

func (c *mockConn) Release() {
	c.released = true
}
