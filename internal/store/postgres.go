// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"character-workers/internal/models"
)

const DefaultTable = "generations"

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresStore keeps results in a single JSONB column keyed by id.
type PostgresStore struct {
	db    *sql.DB
	table string

	upsertQuery string
	selectQuery string
}

func NewPostgresStore(db *sql.DB, table string) (*PostgresStore, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	return &PostgresStore{
		db:    db,
		table: table,
		upsertQuery: fmt.Sprintf(
			`INSERT INTO %s (id, payload, created_at) VALUES ($1, $2, $3) `+
				`ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, created_at = EXCLUDED.created_at`,
			table),
		selectQuery: fmt.Sprintf(`SELECT payload FROM %s WHERE id = $1`, table),
	}, nil
}

// EnsureSchema creates the results table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, payload JSONB NOT NULL, created_at TIMESTAMPTZ NOT NULL DEFAULT now())`,
		s.table))
	if err != nil {
		return fmt.Errorf("%w: create table %s: %v", ErrStoreFailure, s.table, err)
	}
	return nil
}

func (s *PostgresStore) Put(ctx context.Context, id string, result *models.GenerationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStoreFailure, id, err)
	}

	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := s.db.ExecContext(ctx, s.upsertQuery, id, data, createdAt); err != nil {
		return fmt.Errorf("%w: upsert %s: %v", ErrStoreFailure, id, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.GenerationResult, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, s.selectQuery, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", ErrStoreFailure, id, err)
	}

	var result models.GenerationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStoreFailure, id, err)
	}
	return &result, nil
}
