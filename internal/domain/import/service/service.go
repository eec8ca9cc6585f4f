// Package service provides the import orchestration logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reflexops/fleetadmin/internal/domain/import/normalizer"
	"github.com/reflexops/fleetadmin/internal/domain/import/parser"
	"github.com/reflexops/fleetadmin/internal/domain/import/repository"
	"github.com/reflexops/fleetadmin/pkg/metrics"
)

// missingFieldsMessage is the row error recorded when a required column is
// absent or blank.
const missingFieldsMessage = "Missing required fields: name, phone number, or car plate"

// defaultDurationMonths applies when a row carries no usable duration.
const defaultDurationMonths = 12

// ClientRecord is the client row the orchestrator persists per imported row.
type ClientRecord struct {
	Name            string
	PhoneNumber     string
	Bank            string
	ErgNumber       string
	ImportID        uuid.UUID
	ImportRowNumber int
}

// VehicleRecord is the vehicle row persisted after its owning client.
type VehicleRecord struct {
	ClientID          uuid.UUID
	CarPlate          string
	SubscriptionStart time.Time
	SubscriptionEnd   time.Time
}

// ClientStore persists client/vehicle pairs. The clients domain implements it.
type ClientStore interface {
	InsertClient(ctx context.Context, record ClientRecord) (uuid.UUID, error)
	InsertVehicle(ctx context.Context, record VehicleRecord) error
}

// ImportResult summarizes one import run.
type ImportResult struct {
	ImportID          uuid.UUID             `json:"import_id"`
	Filename          string                `json:"filename"`
	Bank              string                `json:"bank"`
	TotalRecords      int                   `json:"total_records"`
	SuccessfulImports int                   `json:"successful_imports"`
	FailedImports     int                   `json:"failed_imports"`
	Errors            []repository.RowError `json:"errors"`
}

// ImportService drives an import end to end: parse, standardize, persist,
// account per row, finalize the audit record.
type ImportService struct {
	repo    repository.ImportRepository
	clients ClientStore
	logger  *slog.Logger
	now     func() time.Time
}

// NewImportService creates a new import service
func NewImportService(repo repository.ImportRepository, clients ClientStore, logger *slog.Logger) *ImportService {
	return &ImportService{
		repo:    repo,
		clients: clients,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the import clock, used for deterministic tests.
func (s *ImportService) WithClock(now func() time.Time) *ImportService {
	s.now = now
	return s
}

// ImportFile runs the full pipeline over raw file bytes. Parse failures and
// audit-record creation failures abort the import; everything after that is
// row-scoped and recorded in the audit trail.
func (s *ImportService) ImportFile(ctx context.Context, filename string, data []byte) (*ImportResult, error) {
	sheet, err := parser.Parse(filename, data)
	if err != nil {
		return nil, err
	}

	columns := parser.NormalizeHeaders(sheet.Headers)
	rows := parser.StandardizeRows(columns, sheet.Rows)
	bank := normalizer.BankFromFilename(filename)

	record := &repository.ImportRecord{
		Filename:     filename,
		Bank:         bank,
		Status:       repository.StatusProcessing,
		TotalRecords: len(rows),
	}
	if err := s.repo.CreateImportRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create import record: %w", err)
	}

	result := &ImportResult{
		ImportID:     record.ID,
		Filename:     filename,
		Bank:         bank,
		TotalRecords: len(rows),
		Errors:       []repository.RowError{},
	}

	for i, row := range rows {
		// Display row number: 1-based plus the header row.
		rowNum := i + 2

		if err := s.importRow(ctx, row, bank, record.ID, rowNum); err != nil {
			result.FailedImports++
			result.Errors = append(result.Errors, repository.RowError{Row: rowNum, Error: err.Error()})
			metrics.ImportRowsTotal.WithLabelValues("failed").Inc()
			continue
		}
		result.SuccessfulImports++
		metrics.ImportRowsTotal.WithLabelValues("imported").Inc()
	}

	status := repository.StatusCompleted
	if result.FailedImports > 0 {
		status = repository.StatusCompletedWithErrors
	}
	if err := s.repo.FinishImportRecord(ctx, record.ID, status, result.SuccessfulImports, result.FailedImports, result.Errors); err != nil {
		s.logger.Warn("failed to finish import record",
			slog.String("import_id", record.ID.String()),
			slog.Any("error", err),
		)
	}
	metrics.ImportsTotal.WithLabelValues(status).Inc()

	s.logger.Info("import completed",
		slog.String("import_id", record.ID.String()),
		slog.String("filename", filename),
		slog.String("bank", bank),
		slog.Int("total", result.TotalRecords),
		slog.Int("successful", result.SuccessfulImports),
		slog.Int("failed", result.FailedImports),
	)

	return result, nil
}

// importRow persists one standardized row. The client insert happens before
// the vehicle insert; a vehicle failure leaves the client row in place and
// only fails the row's accounting.
func (s *ImportService) importRow(ctx context.Context, row parser.StandardizedRow, bank string, importID uuid.UUID, rowNum int) error {
	if row.Err != nil {
		return row.Err
	}

	record := row.Record
	if record.Name == "" || record.PhoneNumber == "" || record.CarPlate == "" {
		return fmt.Errorf("%s", missingFieldsMessage)
	}

	clientID, err := s.clients.InsertClient(ctx, ClientRecord{
		Name:            record.Name,
		PhoneNumber:     record.PhoneNumber,
		Bank:            bank,
		ErgNumber:       record.ErgNumber,
		ImportID:        importID,
		ImportRowNumber: rowNum,
	})
	if err != nil {
		return err
	}

	start, end, err := s.subscriptionWindow(record)
	if err != nil {
		return err
	}

	return s.clients.InsertVehicle(ctx, VehicleRecord{
		ClientID:          clientID,
		CarPlate:          record.CarPlate,
		SubscriptionStart: start,
		SubscriptionEnd:   end,
	})
}

// subscriptionWindow resolves the effective start and end dates: start is the
// installation date or today, end is the derived subscription end or start
// plus the row's duration (12 months when absent).
func (s *ImportService) subscriptionWindow(record parser.StandardizedRecord) (time.Time, time.Time, error) {
	var start time.Time
	if record.InstallationDate != "" {
		parsed, err := time.Parse(normalizer.DateLayout, record.InstallationDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid installation date: %w", err)
		}
		start = parsed
	} else {
		now := s.now().UTC()
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	if record.SubscriptionEnd != "" {
		end, err := time.Parse(normalizer.DateLayout, record.SubscriptionEnd)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid subscription end: %w", err)
		}
		return start, end, nil
	}

	months := record.DurationMonths
	if !record.HasDuration || months == 0 {
		months = defaultDurationMonths
	}
	return start, normalizer.AddMonths(start, months), nil
}

// History returns the most recent import audit records, newest first.
func (s *ImportService) History(ctx context.Context, limit int) ([]*repository.ImportRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListImportHistory(ctx, limit)
}

// Get returns one import audit record with its stored error log.
func (s *ImportService) Get(ctx context.Context, id uuid.UUID) (*repository.ImportRecord, error) {
	return s.repo.GetImportRecord(ctx, id)
}
