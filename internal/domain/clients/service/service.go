// Package service provides client and vehicle business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/reflexops/fleetadmin/internal/domain/clients/repository"
	"github.com/reflexops/fleetadmin/internal/domain/import/normalizer"
)

// SearchBy selects which attribute a client search matches on.
type SearchBy string

const (
	SearchByPlate SearchBy = "plate"
	SearchByPhone SearchBy = "phone"
	SearchByName  SearchBy = "name"
)

// CreateClientInput carries a manually registered client and its vehicle.
type CreateClientInput struct {
	Name              string
	PhoneNumber       string
	Bank              string
	ErgNumber         string
	PreferredLanguage string
	CarPlate          string
	SubscriptionStart time.Time
	SubscriptionEnd   time.Time
}

// ClientWithVehicles is a client plus their vehicles, for listings.
type ClientWithVehicles struct {
	repository.Client
	Vehicles []*repository.Vehicle `json:"vehicles"`
}

// Service provides client registration, search and expiry queries
type Service struct {
	repo   repository.ClientRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new clients service
func NewService(repo repository.ClientRepository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the service clock, used for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateClient registers a client together with their vehicle. Phone and
// plate go through the same normalization as imported rows.
func (s *Service) CreateClient(ctx context.Context, input CreateClientInput) (*repository.Client, *repository.Vehicle, error) {
	if input.Name == "" || input.PhoneNumber == "" || input.CarPlate == "" {
		return nil, nil, fmt.Errorf("name, phone number and car plate are required")
	}

	bank := input.Bank
	if bank == "" {
		bank = normalizer.DefaultBank
	}

	client := &repository.Client{
		Name:              input.Name,
		PhoneNumber:       normalizer.NormalizePhone(input.PhoneNumber),
		Bank:              bank,
		PreferredLanguage: input.PreferredLanguage,
	}
	if input.ErgNumber != "" {
		client.ErgNumber = &input.ErgNumber
	}

	if err := s.repo.CreateClient(ctx, client); err != nil {
		return nil, nil, err
	}

	start := input.SubscriptionStart
	if start.IsZero() {
		now := s.now().UTC()
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	end := input.SubscriptionEnd
	if end.IsZero() {
		end = normalizer.AddMonths(start, 12)
	}

	vehicle := &repository.Vehicle{
		ClientID:          client.ID,
		CarPlate:          normalizer.NormalizePlate(input.CarPlate),
		SubscriptionStart: start,
		SubscriptionEnd:   end,
		IsOnline:          true,
	}
	if err := s.repo.CreateVehicle(ctx, vehicle); err != nil {
		return nil, nil, err
	}

	return client, vehicle, nil
}

// List returns all clients with their vehicles
func (s *Service) List(ctx context.Context) ([]*ClientWithVehicles, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*ClientWithVehicles, 0, len(clients))
	for _, client := range clients {
		vehicles, err := s.repo.ListVehiclesByClient(ctx, client.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &ClientWithVehicles{Client: *client, Vehicles: vehicles})
	}
	return out, nil
}

// Search finds clients by plate, phone or name. Name search is fuzzy and
// ranked; plate and phone match on the stored normalized forms.
func (s *Service) Search(ctx context.Context, query string, by SearchBy) ([]*repository.Client, error) {
	switch by {
	case SearchByPlate:
		return s.repo.SearchClientsByPlate(ctx, normalizer.NormalizePlate(query))
	case SearchByPhone:
		return s.repo.SearchClientsByPhone(ctx, query)
	case SearchByName:
		return s.searchByName(ctx, query)
	default:
		return nil, fmt.Errorf("unknown search type: %s", by)
	}
}

func (s *Service) searchByName(ctx context.Context, query string) ([]*repository.Client, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		client *repository.Client
		rank   int
	}

	var matches []ranked
	for _, client := range clients {
		rank := fuzzy.RankMatchNormalizedFold(query, client.Name)
		if rank < 0 {
			continue
		}
		matches = append(matches, ranked{client: client, rank: rank})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})

	out := make([]*repository.Client, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.client)
	}
	return out, nil
}

// Expiring returns vehicles whose subscription ends within the next N days
func (s *Service) Expiring(ctx context.Context, days int) ([]*repository.ExpiringVehicle, error) {
	if days <= 0 {
		days = 7
	}
	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.repo.ExpiringVehicles(ctx, from, from.AddDate(0, 0, days))
}

// IsExpired reports whether a vehicle's subscription has lapsed.
func (s *Service) IsExpired(vehicle *repository.Vehicle) bool {
	return s.now().UTC().After(vehicle.SubscriptionEnd)
}
