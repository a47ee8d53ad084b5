package loader

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteLoader reads record lines from a SQLite snapshot file, for corpora
// distributed as a single .db artifact.
type SQLiteLoader struct {
	path    string
	table   string
	column  string
	orderBy string
}

func NewSQLiteLoader(path, table, column, orderBy string) *SQLiteLoader {
	return &SQLiteLoader{path: path, table: table, column: column, orderBy: orderBy}
}

func (l *SQLiteLoader) Load(ctx context.Context) ([]string, error) {
	db, err := sql.Open("sqlite3", l.path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite corpus %s: %w", l.path, err)
	}
	defer db.Close()

	stmt := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", l.column, l.table, l.orderBy)
	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("querying corpus table %s: %w", l.table, err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scanning corpus row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating corpus rows: %w", err)
	}
	return lines, nil
}
