// Package sqlmodel provides a model layer over database/sql.
//
// Instances persist through plain INSERT statements; the layer knows
// nothing about querying, migrations, or schema management. Table names
// derive from model names by inflection ("Post" becomes "posts",
// "CommentThread" becomes "comment_threads") unless the registered
// model.Type carries an explicit Table. Field names map to columns by
// underscore conversion; relation-valued fields persist their referenced
// identity in a "<field>_id" column.
//
// The layer accepts anything implementing ExecQuerier, which both *sql.DB
// and *sql.Tx satisfy. Passing a transaction puts the caller in charge of
// the atomicity boundary around multi-instance creates:
//
//	tx, _ := db.BeginTx(ctx, nil)
//	layer := sqlmodel.New(sqlmodel.Postgres, tx)
//	layer.Register(types...)
//	if _, err := client.Factory(PostFactory{}).Create(ctx); err != nil {
//	    tx.Rollback()
//	    return err
//	}
//	tx.Commit()
package sqlmodel

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/go-openapi/inflect"

	"github.com/syssam/fabrica/model"
)

// Supported dialects.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// idColumn is the identity column every target table is expected to have.
const idColumn = "id"

// rules drives table and column name inflection.
var rules = inflect.NewDefaultRuleset()

// ExecQuerier wraps the standard Exec and Query methods. Both *sql.DB and
// *sql.Tx satisfy it.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Layer persists instances with dialect-aware INSERT statements.
type Layer struct {
	conn    ExecQuerier
	dialect string
	mu      sync.RWMutex
	types   map[string]model.Type
	tables  map[string]string // model name -> resolved table name
}

// New returns a layer executing against conn with the given dialect.
// It panics on an unsupported dialect, mirroring how misconfigured drivers
// fail at startup rather than mid-suite.
func New(dialect string, conn ExecQuerier) *Layer {
	switch dialect {
	case MySQL, SQLite, Postgres:
	default:
		panic(fmt.Sprintf("sqlmodel: unsupported dialect %q", dialect))
	}
	return &Layer{
		conn:    conn,
		dialect: dialect,
		types:   make(map[string]model.Type),
		tables:  make(map[string]string),
	}
}

// Open wraps sql.Open and returns a layer owning the database handle.
func Open(dialect, source string) (*Layer, error) {
	db, err := sql.Open(dialect, source)
	if err != nil {
		return nil, err
	}
	return New(dialect, db), nil
}

// Close closes the underlying connection when the layer owns one.
func (l *Layer) Close() error {
	if c, ok := l.conn.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Dialect returns the dialect the layer builds statements for.
func (l *Layer) Dialect() string {
	return l.dialect
}

// Register declares models and their reverse relations, resolving table
// names once up front.
func (l *Layer) Register(types ...model.Type) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range types {
		l.types[t.Name] = t
		table := t.Table
		if table == "" {
			table = rules.Tableize(t.Name)
		}
		l.tables[t.Name] = table
	}
}

// Table returns the table name resolved for the given model.
func (l *Layer) Table(name string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	table, ok := l.tables[name]
	return table, ok
}

// New constructs a transient record of the named model.
func (l *Layer) New(name string, fields []model.Field) (model.Instance, error) {
	l.mu.RLock()
	_, ok := l.types[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("sqlmodel: unknown model %q", name)
	}
	return model.NewRecord(name, fields), nil
}

// Save inserts the record and assigns the database identity. Relation
// fields must reference saved instances; the engine guarantees that for
// graphs it builds.
func (l *Layer) Save(ctx context.Context, inst model.Instance) error {
	rec, ok := inst.(*model.Record)
	if !ok {
		return fmt.Errorf("sqlmodel: unsupported instance type %T", inst)
	}
	if rec.ID() != nil {
		return fmt.Errorf("sqlmodel: %s already persisted", rec)
	}
	l.mu.RLock()
	table, ok := l.tables[rec.ModelName()]
	l.mu.RUnlock()
	if !ok {
		return fmt.Errorf("sqlmodel: unknown model %q", rec.ModelName())
	}
	cols, args, err := l.columns(rec)
	if err != nil {
		return err
	}
	switch l.dialect {
	case Postgres:
		query := l.insertQuery(table, cols) + " RETURNING " + l.ident(idColumn)
		rows, err := l.conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return err
			}
			return fmt.Errorf("sqlmodel: insert into %s returned no id", table)
		}
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		rec.SetID(id)
		return rows.Err()
	default:
		res, err := l.conn.ExecContext(ctx, l.insertQuery(table, cols), args...)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		rec.SetID(id)
		return nil
	}
}

// Relation resolves a reverse relation declared on the given model.
func (l *Layer) Relation(name, relation string) (*model.Relation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.types[name]
	if !ok {
		return nil, fmt.Errorf("sqlmodel: unknown model %q", name)
	}
	rel, ok := t.Relation(relation)
	if !ok {
		return nil, model.NewRelationNotFoundError(name, relation)
	}
	return rel, nil
}

// columns maps record fields to column names and bind arguments. Relation
// values flatten to the referenced identity under "<field>_id".
func (l *Layer) columns(rec *model.Record) ([]string, []any, error) {
	fields := rec.Fields()
	cols := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		col := rules.Underscore(f.Name)
		v := f.Value
		if child, ok := v.(model.Instance); ok {
			if child.ID() == nil {
				return nil, nil, fmt.Errorf("sqlmodel: field %q of model %q references an unsaved %s instance",
					f.Name, rec.ModelName(), child.ModelName())
			}
			col += "_id"
			v = child.ID()
		}
		cols = append(cols, col)
		args = append(args, v)
	}
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("sqlmodel: model %q has no fields to insert", rec.ModelName())
	}
	return cols, args, nil
}

// insertQuery builds the INSERT statement for the given table and columns.
func (l *Layer) insertQuery(table string, cols []string) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(l.ident(table))
	sb.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(l.ident(c))
	}
	sb.WriteString(") VALUES (")
	for i := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(l.placeholder(i + 1))
	}
	sb.WriteString(")")
	return sb.String()
}

// ident quotes an identifier for the layer dialect.
func (l *Layer) ident(name string) string {
	if l.dialect == MySQL {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// placeholder returns the i-th bind placeholder (1-based) for the dialect.
func (l *Layer) placeholder(i int) string {
	if l.dialect == Postgres {
		return "$" + strconv.Itoa(i)
	}
	return "?"
}

var _ model.Layer = (*Layer)(nil)
