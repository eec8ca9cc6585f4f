// Package repository provides data access for clients and their vehicles.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Client is a registered tracking customer.
type Client struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	PhoneNumber       string     `json:"phone_number"`
	Bank              string     `json:"bank"`
	ErgNumber         *string    `json:"erg_number,omitempty"`
	PreferredLanguage string     `json:"preferred_language"`
	ImportID          *uuid.UUID `json:"import_id,omitempty"`
	ImportRowNumber   *int       `json:"import_row_number,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Vehicle is a tracked vehicle owned by a client.
type Vehicle struct {
	ID                uuid.UUID `json:"id"`
	ClientID          uuid.UUID `json:"client_id"`
	CarPlate          string    `json:"car_plate"`
	SubscriptionStart time.Time `json:"subscription_start"`
	SubscriptionEnd   time.Time `json:"subscription_end"`
	IsOnline          bool      `json:"is_online"`
	CreatedAt         time.Time `json:"created_at"`
}

// ExpiringVehicle joins a vehicle nearing expiry with its owner's contact
// details, for renewal reminders.
type ExpiringVehicle struct {
	Vehicle
	ClientName        string `json:"client_name"`
	ClientPhone       string `json:"client_phone"`
	PreferredLanguage string `json:"preferred_language"`
}

// ClientRepository defines the interface for client/vehicle data access
type ClientRepository interface {
	CreateClient(ctx context.Context, client *Client) error
	CreateVehicle(ctx context.Context, vehicle *Vehicle) error
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)
	GetClientPhone(ctx context.Context, id uuid.UUID) (string, error)
	ListClients(ctx context.Context) ([]*Client, error)
	ListVehiclesByClient(ctx context.Context, clientID uuid.UUID) ([]*Vehicle, error)
	SearchClientsByPlate(ctx context.Context, plate string) ([]*Client, error)
	SearchClientsByPhone(ctx context.Context, phone string) ([]*Client, error)
	ExpiringVehicles(ctx context.Context, from, until time.Time) ([]*ExpiringVehicle, error)
}
