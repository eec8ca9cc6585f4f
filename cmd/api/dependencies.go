package main

import (
	"fmt"
	"log/slog"
	"time"

	clienthandler "github.com/reflexops/fleetadmin/internal/domain/clients/handler"
	clientrepo "github.com/reflexops/fleetadmin/internal/domain/clients/repository"
	clientservice "github.com/reflexops/fleetadmin/internal/domain/clients/service"
	importhandler "github.com/reflexops/fleetadmin/internal/domain/import/handler"
	importrepo "github.com/reflexops/fleetadmin/internal/domain/import/repository"
	importservice "github.com/reflexops/fleetadmin/internal/domain/import/service"
	messaginghandler "github.com/reflexops/fleetadmin/internal/domain/messaging/handler"
	messagingrepo "github.com/reflexops/fleetadmin/internal/domain/messaging/repository"
	messagingservice "github.com/reflexops/fleetadmin/internal/domain/messaging/service"

	"github.com/reflexops/fleetadmin/pkg/config"
	"github.com/reflexops/fleetadmin/pkg/cron"
	"github.com/reflexops/fleetadmin/pkg/db"
	"github.com/reflexops/fleetadmin/pkg/sms"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	ImportRepo  importrepo.ImportRepository
	ClientRepo  clientrepo.ClientRepository
	MessageRepo messagingrepo.MessageRepository

	// Services
	ImportService    *importservice.ImportService
	ClientService    *clientservice.Service
	MessagingService *messagingservice.Service
	SMSService       *sms.Service

	// Handlers
	ImportHandler    *importhandler.ImportHandler
	ClientsHandler   *clienthandler.ClientsHandler
	MessagingHandler *messaginghandler.MessagingHandler

	// Background jobs
	Scheduler *cron.Scheduler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	deps.initRepositories()
	deps.initServices()
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initRepositories initializes all repository layer dependencies
func (d *Dependencies) initRepositories() {
	d.ImportRepo = importrepo.NewPostgresImportRepository(d.DB.Pool)
	d.ClientRepo = clientrepo.NewPostgresClientRepository(d.DB.Pool)
	d.MessageRepo = messagingrepo.NewPostgresMessageRepository(d.DB.Pool)

	d.Logger.Info("repositories initialized")
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() {
	d.SMSService = sms.NewService(d.Config.SMS, d.Logger)

	// Import orchestrator persists clients through the clients domain
	d.ImportService = importservice.NewImportService(d.ImportRepo, newClientStoreAdapter(d.ClientRepo), d.Logger)

	d.ClientService = clientservice.NewService(d.ClientRepo, d.Logger)

	d.MessagingService = messagingservice.NewService(
		d.MessageRepo,
		newPhoneDirectoryAdapter(d.ClientRepo),
		d.SMSService,
		d.Logger,
	)

	d.Scheduler = cron.NewScheduler(d.Config.Scheduler, d.MessagingService, d.ClientService, d.SMSService, d.Logger)

	d.Logger.Info("services initialized")
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() {
	d.ImportHandler = importhandler.NewImportHandler(d.ImportService, d.Logger)
	d.ClientsHandler = clienthandler.NewClientsHandler(d.ClientService, d.Logger)
	d.MessagingHandler = messaginghandler.NewMessagingHandler(d.MessagingService, d.Logger)

	d.Logger.Info("handlers initialized")
}

// Close releases held resources.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
