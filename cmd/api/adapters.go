package main

import (
	"context"

	"github.com/google/uuid"

	clientrepo "github.com/reflexops/fleetadmin/internal/domain/clients/repository"
	importservice "github.com/reflexops/fleetadmin/internal/domain/import/service"
	messagingservice "github.com/reflexops/fleetadmin/internal/domain/messaging/service"
)

// clientStoreAdapter adapts the clients repository to import's ClientStore interface
type clientStoreAdapter struct {
	repo clientrepo.ClientRepository
}

// newClientStoreAdapter creates a new adapter
func newClientStoreAdapter(repo clientrepo.ClientRepository) importservice.ClientStore {
	return &clientStoreAdapter{repo: repo}
}

// InsertClient implements importservice.ClientStore
func (a *clientStoreAdapter) InsertClient(ctx context.Context, record importservice.ClientRecord) (uuid.UUID, error) {
	client := &clientrepo.Client{
		Name:        record.Name,
		PhoneNumber: record.PhoneNumber,
		Bank:        record.Bank,
	}
	if record.ErgNumber != "" {
		erg := record.ErgNumber
		client.ErgNumber = &erg
	}
	if record.ImportID != uuid.Nil {
		importID := record.ImportID
		rowNumber := record.ImportRowNumber
		client.ImportID = &importID
		client.ImportRowNumber = &rowNumber
	}

	if err := a.repo.CreateClient(ctx, client); err != nil {
		return uuid.Nil, err
	}
	return client.ID, nil
}

// InsertVehicle implements importservice.ClientStore
func (a *clientStoreAdapter) InsertVehicle(ctx context.Context, record importservice.VehicleRecord) error {
	return a.repo.CreateVehicle(ctx, &clientrepo.Vehicle{
		ClientID:          record.ClientID,
		CarPlate:          record.CarPlate,
		SubscriptionStart: record.SubscriptionStart,
		SubscriptionEnd:   record.SubscriptionEnd,
		IsOnline:          true,
	})
}

// phoneDirectoryAdapter adapts the clients repository to messaging's PhoneDirectory interface
type phoneDirectoryAdapter struct {
	repo clientrepo.ClientRepository
}

// newPhoneDirectoryAdapter creates a new adapter
func newPhoneDirectoryAdapter(repo clientrepo.ClientRepository) messagingservice.PhoneDirectory {
	return &phoneDirectoryAdapter{repo: repo}
}

// ClientPhone implements messagingservice.PhoneDirectory
func (a *phoneDirectoryAdapter) ClientPhone(ctx context.Context, id uuid.UUID) (string, error) {
	return a.repo.GetClientPhone(ctx, id)
}
