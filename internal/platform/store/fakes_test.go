package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRows iterates over in-memory values, one []any per row
type fakeRows struct {
	cols []string
	data [][]any
	i    int
	err  error

	closed bool
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	cur := r.data[r.i-1]
	if len(dest) != len(cur) {
		return errors.New("scan arity")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int:
			*p = cur[i].(int)
		case *string:
			*p = cur[i].(string)
		default:
			return errors.New("unsupported dest")
		}
	}
	return nil
}

func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            { r.closed = true }
func (r *fakeRows) Columns() []string { return r.cols }

type fakeRow struct {
	v   any
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = r.v.(int)
	return nil
}

type fakeTag struct{ n int64 }

func (t fakeTag) String() string      { return "" }
func (t fakeTag) RowsAffected() int64 { return t.n }

// fakeQuerier implements RowQuerier
type fakeQuerier struct {
	tag     fakeTag
	rows    *fakeRows
	row     fakeRow
	err     error
	lastSQL string
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, _ ...any) (CommandTag, error) {
	q.lastSQL = sql
	return q.tag, q.err
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (Rows, error) {
	q.lastSQL = sql
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, _ ...any) Row {
	q.lastSQL = sql
	return q.row
}

// fakePgxRow satisfies pgx.Row
type fakePgxRow struct{ err error }

func (r fakePgxRow) Scan(...any) error { return r.err }

// fakePgx satisfies pgxQuerier and counts statements
type fakePgx struct {
	execErr error
	rowErr  error
	calls   int
}

func (f *fakePgx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	f.calls++
	return pgconn.NewCommandTag("DELETE 1"), f.execErr
}

func (f *fakePgx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	f.calls++
	return nil, errors.New("no rows in fake")
}

func (f *fakePgx) QueryRow(context.Context, string, ...any) pgx.Row {
	f.calls++
	return fakePgxRow{err: f.rowErr}
}

// fakeTx embeds pgx.Tx, only the methods runTx touches are implemented
type fakeTx struct {
	pgx.Tx
	fakePgx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.fakePgx.Exec(ctx, sql, args...)
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.fakePgx.Query(ctx, sql, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.fakePgx.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) Commit(context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(context.Context) error { t.rolledBack = true; return nil }

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}
