// Package repository provides data access for import audit records.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Import lifecycle statuses
const (
	StatusProcessing          = "processing"
	StatusCompleted           = "completed"
	StatusCompletedWithErrors = "completed_with_errors"
)

// RowError records one failed spreadsheet row by its display row number.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportRecord is the persisted audit trail of one import run.
type ImportRecord struct {
	ID                uuid.UUID  `json:"id"`
	Filename          string     `json:"filename"`
	Bank              string     `json:"bank"`
	Status            string     `json:"status"`
	TotalRecords      int        `json:"total_records"`
	SuccessfulImports int        `json:"successful_imports"`
	FailedImports     int        `json:"failed_imports"`
	ErrorLog          []RowError `json:"error_log"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ImportRepository defines the interface for import audit data access
type ImportRepository interface {
	CreateImportRecord(ctx context.Context, record *ImportRecord) error
	FinishImportRecord(ctx context.Context, id uuid.UUID, status string, successful, failed int, errorLog []RowError) error
	GetImportRecord(ctx context.Context, id uuid.UUID) (*ImportRecord, error)
	ListImportHistory(ctx context.Context, limit int) ([]*ImportRecord, error)
}
