package repository

import (
	"context"
	"database/sql"
	"errors"
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

// PostgresClientRepository implements ClientRepository using PostgreSQL
type PostgresClientRepository struct {
	pool Querier
}

// NewPostgresClientRepository creates a new PostgreSQL client repository
func NewPostgresClientRepository(pool Querier) *PostgresClientRepository {
	return &PostgresClientRepository{pool: pool}
}

const clientColumns = `id, name, phone_number, bank, erg_number, preferred_language, import_id, import_row_number, created_at`

// CreateClient inserts a new client
func (r *PostgresClientRepository) CreateClient(ctx context.Context, client *Client) error {
	query := `
		INSERT INTO clients (id, name, phone_number, bank, erg_number, preferred_language, import_id, import_row_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	if client.PreferredLanguage == "" {
		client.PreferredLanguage = "en"
	}

	err := r.pool.QueryRow(ctx, query,
		client.ID,
		client.Name,
		client.PhoneNumber,
		client.Bank,
		client.ErgNumber,
		client.PreferredLanguage,
		client.ImportID,
		client.ImportRowNumber,
	).Scan(&client.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// CreateVehicle inserts a new vehicle for an existing client
func (r *PostgresClientRepository) CreateVehicle(ctx context.Context, vehicle *Vehicle) error {
	query := `
		INSERT INTO vehicles (id, client_id, car_plate, subscription_start, subscription_end, is_online)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		vehicle.ID,
		vehicle.ClientID,
		vehicle.CarPlate,
		vehicle.SubscriptionStart,
		vehicle.SubscriptionEnd,
		vehicle.IsOnline,
	).Scan(&vehicle.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// GetClient retrieves a client by ID
func (r *PostgresClientRepository) GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	client, err := scanClient(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// GetClientPhone retrieves just a client's phone number
func (r *PostgresClientRepository) GetClientPhone(ctx context.Context, id uuid.UUID) (string, error) {
	query := `SELECT phone_number FROM clients WHERE id = $1`

	var phone string
	err := r.pool.QueryRow(ctx, query, id).Scan(&phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", sql.ErrNoRows
	}
	if err != nil {
		return "", fmt.Errorf("failed to get client phone: %w", err)
	}
	return phone, nil
}

// ListClients retrieves all clients ordered by name
func (r *PostgresClientRepository) ListClients(ctx context.Context) ([]*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	return collectClients(rows)
}

// ListVehiclesByClient retrieves a client's vehicles ordered by plate
func (r *PostgresClientRepository) ListVehiclesByClient(ctx context.Context, clientID uuid.UUID) ([]*Vehicle, error) {
	query := `
		SELECT id, client_id, car_plate, subscription_start, subscription_end, is_online, created_at
		FROM vehicles
		WHERE client_id = $1
		ORDER BY car_plate`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*Vehicle
	for rows.Next() {
		vehicle := &Vehicle{}
		err := rows.Scan(
			&vehicle.ID,
			&vehicle.ClientID,
			&vehicle.CarPlate,
			&vehicle.SubscriptionStart,
			&vehicle.SubscriptionEnd,
			&vehicle.IsOnline,
			&vehicle.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, nil
}

// SearchClientsByPlate finds clients owning a vehicle with a matching plate
func (r *PostgresClientRepository) SearchClientsByPlate(ctx context.Context, plate string) ([]*Client, error) {
	query := `
		SELECT DISTINCT c.id, c.name, c.phone_number, c.bank, c.erg_number,
			c.preferred_language, c.import_id, c.import_row_number, c.created_at
		FROM clients c
		JOIN vehicles v ON v.client_id = c.id
		WHERE v.car_plate ILIKE '%' || $1 || '%'
		ORDER BY c.name`

	rows, err := r.pool.Query(ctx, query, plate)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients by plate: %w", err)
	}
	defer rows.Close()

	return collectClients(rows)
}

// SearchClientsByPhone finds clients with a matching phone number
func (r *PostgresClientRepository) SearchClientsByPhone(ctx context.Context, phone string) ([]*Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE phone_number LIKE '%' || $1 || '%'
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients by phone: %w", err)
	}
	defer rows.Close()

	return collectClients(rows)
}

// ExpiringVehicles finds vehicles whose subscription ends within the window,
// joined with owner contact details
func (r *PostgresClientRepository) ExpiringVehicles(ctx context.Context, from, until time.Time) ([]*ExpiringVehicle, error) {
	query := `
		SELECT v.id, v.client_id, v.car_plate, v.subscription_start, v.subscription_end,
			v.is_online, v.created_at, c.name, c.phone_number, c.preferred_language
		FROM vehicles v
		JOIN clients c ON c.id = v.client_id
		WHERE v.subscription_end >= $1 AND v.subscription_end <= $2
		ORDER BY v.subscription_end`

	rows, err := r.pool.Query(ctx, query, from, until)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*ExpiringVehicle
	for rows.Next() {
		vehicle := &ExpiringVehicle{}
		err := rows.Scan(
			&vehicle.ID,
			&vehicle.ClientID,
			&vehicle.CarPlate,
			&vehicle.SubscriptionStart,
			&vehicle.SubscriptionEnd,
			&vehicle.IsOnline,
			&vehicle.CreatedAt,
			&vehicle.ClientName,
			&vehicle.ClientPhone,
			&vehicle.PreferredLanguage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expiring vehicle: %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, nil
}

func collectClients(rows pgx.Rows) ([]*Client, error) {
	var clients []*Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}
	return clients, nil
}

func scanClient(row pgx.Row) (*Client, error) {
	client := &Client{}
	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.PhoneNumber,
		&client.Bank,
		&client.ErgNumber,
		&client.PreferredLanguage,
		&client.ImportID,
		&client.ImportRowNumber,
		&client.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}
