package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/tieubaoca/mxp-gateway/config"
)

// MSSQLStore provides read-only access to the MXP SQL Server. Only SELECT
// statements are accepted; everything else is rejected before it reaches
// the database.
type MSSQLStore struct {
	db *sql.DB
}

// NewMSSQLStore opens a connection pool against the configured server.
// The connection is verified with a ping so a misconfigured database
// fails at startup instead of on the first query.
func NewMSSQLStore(cfg config.DBConfig) (*MSSQLStore, error) {
	dsn := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Server, cfg.Port),
	}
	q := url.Values{}
	q.Set("database", cfg.Database)
	dsn.RawQuery = q.Encode()

	db, err := sql.Open("sqlserver", dsn.String())
	if err != nil {
		return nil, fmt.Errorf("opening SQL Server connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to SQL Server: %w", err)
	}
	return &MSSQLStore{db: db}, nil
}

// ExecuteReadOnlyQuery runs a SELECT query and returns each row as a
// column-name to value map. An empty result set returns an empty slice.
func (s *MSSQLStore) ExecuteReadOnlyQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {
	if !isSelect(query) {
		return nil, fmt.Errorf("only SELECT queries are allowed")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading result columns: %w", err)
	}

	results := []map[string]interface{}{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			// Drivers return text columns as []byte.
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return results, nil
}

func (s *MSSQLStore) Close() error {
	return s.db.Close()
}

func isSelect(query string) bool {
	trimmed := strings.TrimSpace(query)
	return len(trimmed) >= 6 && strings.EqualFold(trimmed[:6], "select")
}
