package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflexops/fleetadmin/internal/domain/import/repository"
)

// fakeImportRepo records audit calls in memory.
type fakeImportRepo struct {
	created      *repository.ImportRecord
	createErr    error
	finishStatus string
	finishOK     int
	finishFailed int
	finishLog    []repository.RowError
	finishErr    error
	finishCalled bool
}

func (f *fakeImportRepo) CreateImportRecord(_ context.Context, record *repository.ImportRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	record.ID = uuid.New()
	f.created = record
	return nil
}

func (f *fakeImportRepo) FinishImportRecord(_ context.Context, _ uuid.UUID, status string, successful, failed int, errorLog []repository.RowError) error {
	f.finishCalled = true
	f.finishStatus = status
	f.finishOK = successful
	f.finishFailed = failed
	f.finishLog = errorLog
	return f.finishErr
}

func (f *fakeImportRepo) GetImportRecord(_ context.Context, _ uuid.UUID) (*repository.ImportRecord, error) {
	return f.created, nil
}

func (f *fakeImportRepo) ListImportHistory(_ context.Context, _ int) ([]*repository.ImportRecord, error) {
	return nil, nil
}

// fakeClientStore captures persisted clients and vehicles.
type fakeClientStore struct {
	clients     []ClientRecord
	vehicles    []VehicleRecord
	clientErr   error
	vehicleErr  error
	failOnPlate string
}

func (f *fakeClientStore) InsertClient(_ context.Context, record ClientRecord) (uuid.UUID, error) {
	if f.clientErr != nil {
		return uuid.Nil, f.clientErr
	}
	f.clients = append(f.clients, record)
	return uuid.New(), nil
}

func (f *fakeClientStore) InsertVehicle(_ context.Context, record VehicleRecord) error {
	if f.vehicleErr != nil {
		return f.vehicleErr
	}
	if f.failOnPlate != "" && record.CarPlate == f.failOnPlate {
		return errors.New("duplicate plate")
	}
	f.vehicles = append(f.vehicles, record)
	return nil
}

func newTestService(repo *fakeImportRepo, store *fakeClientStore) *ImportService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewImportService(repo, store, logger)
	return svc.WithClock(func() time.Time {
		return time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	})
}

func csvFile(lines string) []byte {
	return []byte(lines)
}

func TestImportFileHappyPath(t *testing.T) {
	repo := &fakeImportRepo{}
	store := &fakeClientStore{}
	svc := newTestService(repo, store)

	data := csvFile("Name,Phone,Plate,Installation Date,Duration\n" +
		"John Doe,0712345678,kaa123a,2024-01-15,6\n" +
		"Jane Roe,0700111222,kbb456b,2024-02-01,12\n")

	result, err := svc.ImportFile(context.Background(), "smep_march.csv", data)
	require.NoError(t, err)

	assert.Equal(t, "SMEP Bank", result.Bank)
	assert.Equal(t, 2, result.TotalRecords)
	assert.Equal(t, 2, result.SuccessfulImports)
	assert.Equal(t, 0, result.FailedImports)
	assert.Empty(t, result.Errors)

	require.Len(t, store.clients, 2)
	assert.Equal(t, "SMEP Bank", store.clients[0].Bank)
	assert.Equal(t, "+254712345678", store.clients[0].PhoneNumber)
	assert.Equal(t, 2, store.clients[0].ImportRowNumber)
	assert.Equal(t, 3, store.clients[1].ImportRowNumber)

	require.Len(t, store.vehicles, 2)
	assert.Equal(t, "KAA 123A", store.vehicles[0].CarPlate)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), store.vehicles[0].SubscriptionStart)
	assert.Equal(t, time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC), store.vehicles[0].SubscriptionEnd)

	assert.True(t, repo.finishCalled)
	assert.Equal(t, repository.StatusCompleted, repo.finishStatus)
	assert.Equal(t, 2, repo.finishOK)
}

func TestImportFileRowErrorsAreIsolated(t *testing.T) {
	repo := &fakeImportRepo{}
	store := &fakeClientStore{}
	svc := newTestService(repo, store)

	data := csvFile("Name,Phone,Plate\n" +
		"John Doe,0712345678,KAA123A\n" +
		"Jane Roe,0700111222,KBB456B\n" +
		"Ann Njeri,0733444555,KDD012D\n" +
		"No Phone,,KCC789C\n" +
		"Sam Otieno,0744555666,KEE345E\n")

	result, err := svc.ImportFile(context.Background(), "clients.csv", data)
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalRecords)
	assert.Equal(t, 4, result.SuccessfulImports)
	assert.Equal(t, 1, result.FailedImports)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, 5, result.Errors[0].Row)
	assert.Equal(t, "Missing required fields: name, phone number, or car plate", result.Errors[0].Error)

	assert.Equal(t, repository.StatusCompletedWithErrors, repo.finishStatus)
	assert.Equal(t, result.Errors, repo.finishLog)
}

func TestImportFileBadDateFailsOnlyThatRow(t *testing.T) {
	repo := &fakeImportRepo{}
	store := &fakeClientStore{}
	svc := newTestService(repo, store)

	data := csvFile("Name,Phone,Plate,Installation Date\n" +
		"John Doe,0712345678,KAA123A,garbage\n" +
		"Jane Roe,0700111222,KBB456B,2024-02-01\n")

	result, err := svc.ImportFile(context.Background(), "clients.csv", data)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessfulImports)
	assert.Equal(t, 1, result.FailedImports)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Error, "invalid installation date")
}

func TestImportFileClientPersistsWhenVehicleFails(t *testing.T) {
	repo := &fakeImportRepo{}
	store := &fakeClientStore{failOnPlate: "KBB 456B"}
	svc := newTestService(repo, store)

	data := csvFile("Name,Phone,Plate\n" +
		"John Doe,0712345678,KAA123A\n" +
		"Jane Roe,0700111222,KBB456B\n")

	result, err := svc.ImportFile(context.Background(), "clients.csv", data)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessfulImports)
	assert.Equal(t, 1, result.FailedImports)

	// The failed row's client row stays in place; only the vehicle is missing.
	assert.Len(t, store.clients, 2)
	assert.Len(t, store.vehicles, 1)
}

func TestImportFileDefaultsWindowWhenColumnsAbsent(t *testing.T) {
	repo := &fakeImportRepo{}
	store := &fakeClientStore{}
	svc := newTestService(repo, store)

	data := csvFile("Name,Phone,Plate\nJohn Doe,0712345678,KAA123A\n")

	_, err := svc.ImportFile(context.Background(), "clients.csv", data)
	require.NoError(t, err)

	require.Len(t, store.vehicles, 1)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), store.vehicles[0].SubscriptionStart)
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), store.vehicles[0].SubscriptionEnd)
}

func TestImportFileNoDataRows(t *testing.T) {
	repo := &fakeImportRepo{}
	svc := newTestService(repo, &fakeClientStore{})

	_, err := svc.ImportFile(context.Background(), "clients.csv", csvFile("Name,Phone,Plate\n"))
	require.Error(t, err)
	assert.Nil(t, repo.created)
	assert.False(t, repo.finishCalled)
}

func TestImportFileAuditCreateFailureAborts(t *testing.T) {
	repo := &fakeImportRepo{createErr: errors.New("db down")}
	store := &fakeClientStore{}
	svc := newTestService(repo, store)

	data := csvFile("Name,Phone,Plate\nJohn Doe,0712345678,KAA123A\n")

	_, err := svc.ImportFile(context.Background(), "clients.csv", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create import record")
	assert.Empty(t, store.clients)
}

func TestImportFileFinishFailureDoesNotFailImport(t *testing.T) {
	repo := &fakeImportRepo{finishErr: errors.New("db down")}
	store := &fakeClientStore{}
	svc := newTestService(repo, store)

	data := csvFile("Name,Phone,Plate\nJohn Doe,0712345678,KAA123A\n")

	result, err := svc.ImportFile(context.Background(), "clients.csv", data)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessfulImports)
}
