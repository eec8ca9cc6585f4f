package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflexops/fleetadmin/internal/domain/clients/repository"
)

// fakeClientRepo is an in-memory ClientRepository for service tests.
type fakeClientRepo struct {
	clients  []*repository.Client
	vehicles []*repository.Vehicle
	expiring []*repository.ExpiringVehicle

	expiringFrom  time.Time
	expiringUntil time.Time
}

func (f *fakeClientRepo) CreateClient(_ context.Context, client *repository.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	f.clients = append(f.clients, client)
	return nil
}

func (f *fakeClientRepo) CreateVehicle(_ context.Context, vehicle *repository.Vehicle) error {
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	f.vehicles = append(f.vehicles, vehicle)
	return nil
}

func (f *fakeClientRepo) GetClient(_ context.Context, id uuid.UUID) (*repository.Client, error) {
	for _, c := range f.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeClientRepo) GetClientPhone(_ context.Context, id uuid.UUID) (string, error) {
	for _, c := range f.clients {
		if c.ID == id {
			return c.PhoneNumber, nil
		}
	}
	return "", nil
}

func (f *fakeClientRepo) ListClients(_ context.Context) ([]*repository.Client, error) {
	return f.clients, nil
}

func (f *fakeClientRepo) ListVehiclesByClient(_ context.Context, clientID uuid.UUID) ([]*repository.Vehicle, error) {
	var out []*repository.Vehicle
	for _, v := range f.vehicles {
		if v.ClientID == clientID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeClientRepo) SearchClientsByPlate(_ context.Context, _ string) ([]*repository.Client, error) {
	return f.clients, nil
}

func (f *fakeClientRepo) SearchClientsByPhone(_ context.Context, _ string) ([]*repository.Client, error) {
	return f.clients, nil
}

func (f *fakeClientRepo) ExpiringVehicles(_ context.Context, from, until time.Time) ([]*repository.ExpiringVehicle, error) {
	f.expiringFrom = from
	f.expiringUntil = until
	return f.expiring, nil
}

func newTestService(repo *fakeClientRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, logger).WithClock(func() time.Time {
		return time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	})
}

func TestCreateClientNormalizesAndDefaults(t *testing.T) {
	repo := &fakeClientRepo{}
	svc := newTestService(repo)

	client, vehicle, err := svc.CreateClient(context.Background(), CreateClientInput{
		Name:        "John Doe",
		PhoneNumber: "0712 345 678",
		CarPlate:    "kaa123a",
	})
	require.NoError(t, err)

	assert.Equal(t, "+254712345678", client.PhoneNumber)
	assert.Equal(t, "Individual", client.Bank)
	assert.Equal(t, "KAA 123A", vehicle.CarPlate)
	assert.True(t, vehicle.IsOnline)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), vehicle.SubscriptionStart)
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), vehicle.SubscriptionEnd)
}

func TestCreateClientRequiresCoreFields(t *testing.T) {
	svc := newTestService(&fakeClientRepo{})

	_, _, err := svc.CreateClient(context.Background(), CreateClientInput{
		Name:        "John Doe",
		PhoneNumber: "0712345678",
	})
	assert.Error(t, err)
}

func TestCreateClientKeepsExplicitWindow(t *testing.T) {
	repo := &fakeClientRepo{}
	svc := newTestService(repo)

	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)

	_, vehicle, err := svc.CreateClient(context.Background(), CreateClientInput{
		Name:              "Jane Roe",
		PhoneNumber:       "0700111222",
		CarPlate:          "KBB456B",
		SubscriptionStart: start,
		SubscriptionEnd:   end,
	})
	require.NoError(t, err)
	assert.Equal(t, start, vehicle.SubscriptionStart)
	assert.Equal(t, end, vehicle.SubscriptionEnd)
}

func TestListPairsClientsWithVehicles(t *testing.T) {
	repo := &fakeClientRepo{}
	svc := newTestService(repo)

	_, _, err := svc.CreateClient(context.Background(), CreateClientInput{
		Name: "John Doe", PhoneNumber: "0712345678", CarPlate: "KAA123A",
	})
	require.NoError(t, err)

	out, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0].Vehicles, 1)
	assert.Equal(t, "KAA 123A", out[0].Vehicles[0].CarPlate)
}

func TestSearchByNameRanksFuzzyMatches(t *testing.T) {
	repo := &fakeClientRepo{
		clients: []*repository.Client{
			{ID: uuid.New(), Name: "Johnathan Kamau"},
			{ID: uuid.New(), Name: "John Doe"},
			{ID: uuid.New(), Name: "Mary Wanjiku"},
		},
	}
	svc := newTestService(repo)

	results, err := svc.Search(context.Background(), "john", SearchByName)
	require.NoError(t, err)

	require.Len(t, results, 2)
	// Closer match first.
	assert.Equal(t, "John Doe", results[0].Name)
	assert.Equal(t, "Johnathan Kamau", results[1].Name)
}

func TestSearchByPlateNormalizesQuery(t *testing.T) {
	repo := &fakeClientRepo{clients: []*repository.Client{{ID: uuid.New(), Name: "John Doe"}}}
	svc := newTestService(repo)

	results, err := svc.Search(context.Background(), "kaa 123a", SearchByPlate)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchUnknownType(t *testing.T) {
	svc := newTestService(&fakeClientRepo{})
	_, err := svc.Search(context.Background(), "x", SearchBy("bank"))
	assert.Error(t, err)
}

func TestExpiringWindow(t *testing.T) {
	repo := &fakeClientRepo{}
	svc := newTestService(repo)

	_, err := svc.Expiring(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), repo.expiringFrom)
	assert.Equal(t, time.Date(2024, time.June, 8, 0, 0, 0, 0, time.UTC), repo.expiringUntil)
}

func TestIsExpired(t *testing.T) {
	svc := newTestService(&fakeClientRepo{})

	expired := &repository.Vehicle{SubscriptionEnd: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)}
	active := &repository.Vehicle{SubscriptionEnd: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)}

	assert.True(t, svc.IsExpired(expired))
	assert.False(t, svc.IsExpired(active))
}
