package sources

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/funvibe/comprex/internal/evaluator"
)

// DefaultDriver is the pure-Go SQLite driver registered by modernc.org/sqlite.
const DefaultDriver = "sqlite"

// SQL runs Query and returns one map per row, keyed by column name.
type SQL struct {
	Driver string
	DSN    string
	Query  string
}

func newSQL(s Spec, opts Options) (Provider, error) {
	if s.Query == "" {
		return nil, fmt.Errorf("sql source needs a query")
	}
	if s.DSN == "" {
		return nil, fmt.Errorf("sql source needs a dsn")
	}
	driver := s.Driver
	dsn := s.DSN
	if driver == "" {
		driver = DefaultDriver
	}
	if driver == DefaultDriver && dsn != ":memory:" {
		dsn = resolve(opts.BaseDir, dsn)
	}
	return &SQL{Driver: driver, DSN: dsn, Query: s.Query}, nil
}

func (p *SQL) Load(ctx context.Context, _ *evaluator.Environment) (evaluator.Object, error) {
	db, err := sql.Open(p.Driver, p.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", p.DSN, err)
	}
	defer db.Close()
	return QueryRows(ctx, db, p.Query)
}

// QueryRows runs query on db and converts every row to a map.
func QueryRows(ctx context.Context, db *sql.DB, query string, args ...interface{}) (*evaluator.List, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var out []evaluator.Object
	for rows.Next() {
		// Scan all columns dynamically
		values := make([]interface{}, len(cols))
		valuePtrs := make([]interface{}, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		row := evaluator.NewMap()
		for i, col := range cols {
			row = row.Put(evaluator.NewString(col), columnValue(values[i]))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return evaluator.NewList(out), nil
}

func columnValue(v interface{}) evaluator.Object {
	switch val := v.(type) {
	case nil:
		return evaluator.NIL
	case int64:
		return &evaluator.Integer{Value: val}
	case float64:
		return &evaluator.Float{Value: val}
	case bool:
		return &evaluator.Boolean{Value: val}
	case string:
		return evaluator.NewString(val)
	case []byte:
		return evaluator.NewString(string(val))
	case time.Time:
		return evaluator.NewString(val.Format(time.RFC3339))
	default:
		return evaluator.NewString(fmt.Sprint(val))
	}
}
