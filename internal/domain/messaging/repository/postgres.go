package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresMessageRepository implements MessageRepository using PostgreSQL
type PostgresMessageRepository struct {
	pool Querier
}

// NewPostgresMessageRepository creates a new PostgreSQL message repository
func NewPostgresMessageRepository(pool Querier) *PostgresMessageRepository {
	return &PostgresMessageRepository{pool: pool}
}

// CreateMessage inserts a new scheduled message
func (r *PostgresMessageRepository) CreateMessage(ctx context.Context, msg *ScheduledMessage) error {
	query := `
		INSERT INTO scheduled_messages (id, message, schedule_date, client_filter, message_type, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.MessageType == "" {
		msg.MessageType = TypeReminder
	}
	if msg.Status == "" {
		msg.Status = StatusScheduled
	}
	if msg.ClientFilter == nil {
		msg.ClientFilter = []uuid.UUID{}
	}

	filterJSON, err := json.Marshal(msg.ClientFilter)
	if err != nil {
		return fmt.Errorf("failed to encode client filter: %w", err)
	}

	err = r.pool.QueryRow(ctx, query,
		msg.ID,
		msg.Message,
		msg.ScheduleDate,
		filterJSON,
		msg.MessageType,
		msg.Status,
	).Scan(&msg.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create scheduled message: %w", err)
	}
	return nil
}

// ListMessages retrieves recent messages, newest first
func (r *PostgresMessageRepository) ListMessages(ctx context.Context, limit int) ([]*ScheduledMessage, error) {
	query := `
		SELECT id, message, schedule_date, client_filter, message_type, status, created_at
		FROM scheduled_messages
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// DueMessages retrieves scheduled messages whose schedule date has passed
func (r *PostgresMessageRepository) DueMessages(ctx context.Context, now time.Time) ([]*ScheduledMessage, error) {
	query := `
		SELECT id, message, schedule_date, client_filter, message_type, status, created_at
		FROM scheduled_messages
		WHERE status = $1 AND schedule_date <= $2
		ORDER BY schedule_date`

	rows, err := r.pool.Query(ctx, query, StatusScheduled, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// MarkSent transitions a message to sent
func (r *PostgresMessageRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE scheduled_messages SET status = $2 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, StatusSent)
	if err != nil {
		return fmt.Errorf("failed to mark message sent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func collectMessages(rows pgx.Rows) ([]*ScheduledMessage, error) {
	var messages []*ScheduledMessage
	for rows.Next() {
		msg := &ScheduledMessage{}
		var filterJSON []byte

		err := rows.Scan(
			&msg.ID,
			&msg.Message,
			&msg.ScheduleDate,
			&filterJSON,
			&msg.MessageType,
			&msg.Status,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		if len(filterJSON) > 0 {
			if err := json.Unmarshal(filterJSON, &msg.ClientFilter); err != nil {
				return nil, fmt.Errorf("failed to decode client filter: %w", err)
			}
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
