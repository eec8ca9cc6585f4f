package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresImportRepository implements ImportRepository using PostgreSQL
type PostgresImportRepository struct {
	pool Querier
}

// NewPostgresImportRepository creates a new PostgreSQL import repository
func NewPostgresImportRepository(pool Querier) *PostgresImportRepository {
	return &PostgresImportRepository{pool: pool}
}

// CreateImportRecord inserts a new audit record in processing state
func (r *PostgresImportRepository) CreateImportRecord(ctx context.Context, record *ImportRecord) error {
	query := `
		INSERT INTO import_history (id, filename, bank, status, total_records)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Status == "" {
		record.Status = StatusProcessing
	}

	err := r.pool.QueryRow(ctx, query,
		record.ID,
		record.Filename,
		record.Bank,
		record.Status,
		record.TotalRecords,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create import record: %w", err)
	}
	return nil
}

// FinishImportRecord writes the final status, counts and error log
func (r *PostgresImportRepository) FinishImportRecord(ctx context.Context, id uuid.UUID, status string, successful, failed int, errorLog []RowError) error {
	if errorLog == nil {
		errorLog = []RowError{}
	}
	logJSON, err := json.Marshal(errorLog)
	if err != nil {
		return fmt.Errorf("failed to encode error log: %w", err)
	}

	query := `
		UPDATE import_history
		SET status = $2, successful_imports = $3, failed_imports = $4,
			error_log = $5, updated_at = now()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, status, successful, failed, logJSON)
	if err != nil {
		return fmt.Errorf("failed to finish import record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetImportRecord retrieves an audit record by ID
func (r *PostgresImportRepository) GetImportRecord(ctx context.Context, id uuid.UUID) (*ImportRecord, error) {
	query := `
		SELECT id, filename, bank, status, total_records, successful_imports,
			failed_imports, error_log, created_at, updated_at
		FROM import_history
		WHERE id = $1`

	record, err := scanImportRecord(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import record: %w", err)
	}
	return record, nil
}

// ListImportHistory retrieves the most recent imports, newest first
func (r *PostgresImportRepository) ListImportHistory(ctx context.Context, limit int) ([]*ImportRecord, error) {
	query := `
		SELECT id, filename, bank, status, total_records, successful_imports,
			failed_imports, error_log, created_at, updated_at
		FROM import_history
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import history: %w", err)
	}
	defer rows.Close()

	var records []*ImportRecord
	for rows.Next() {
		record, err := scanImportRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

func scanImportRecord(row pgx.Row) (*ImportRecord, error) {
	record := &ImportRecord{}
	var logJSON []byte

	err := row.Scan(
		&record.ID,
		&record.Filename,
		&record.Bank,
		&record.Status,
		&record.TotalRecords,
		&record.SuccessfulImports,
		&record.FailedImports,
		&logJSON,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(logJSON) > 0 {
		if err := json.Unmarshal(logJSON, &record.ErrorLog); err != nil {
			return nil, fmt.Errorf("failed to decode error log: %w", err)
		}
	}
	return record, nil
}
