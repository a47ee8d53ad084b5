package loader

import (
	"context"
	"fmt"

	"github.com/civic-records/registry-search/pkg/config"
	"github.com/civic-records/registry-search/pkg/postgres"
)

// PostgresLoader reads record lines from a Postgres table, ordered by the
// configured position column. It connects per load so a reload picks up the
// table as it is at that moment.
type PostgresLoader struct {
	cfg     config.PostgresConfig
	table   string
	column  string
	orderBy string
}

func NewPostgresLoader(cfg config.PostgresConfig, table, column, orderBy string) *PostgresLoader {
	return &PostgresLoader{cfg: cfg, table: table, column: column, orderBy: orderBy}
}

func (l *PostgresLoader) Load(ctx context.Context) ([]string, error) {
	client, err := postgres.New(l.cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	defer client.Close()

	stmt := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", l.column, l.table, l.orderBy)
	rows, err := client.DB.QueryContext(ctx, stmt)
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
