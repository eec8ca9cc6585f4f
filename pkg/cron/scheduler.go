// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	clientservice "github.com/reflexops/fleetadmin/internal/domain/clients/service"
	messagingservice "github.com/reflexops/fleetadmin/internal/domain/messaging/service"
	"github.com/reflexops/fleetadmin/pkg/config"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron      *cron.Cron
	cfg       config.SchedulerConfig
	messaging *messagingservice.Service
	clients   *clientservice.Service
	sender    messagingservice.Sender
	logger    *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(cfg config.SchedulerConfig, messaging *messagingservice.Service, clients *clientservice.Service, sender messagingservice.Sender, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:      c,
		cfg:       cfg,
		messaging: messaging,
		clients:   clients,
		sender:    sender,
		logger:    logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	// Scheduled message dispatch: runs every minute
	if _, err := s.cron.AddFunc(s.cfg.DispatchSpec, s.dispatchDueMessages); err != nil {
		return fmt.Errorf("failed to add dispatch job: %w", err)
	}

	// Subscription expiry reminders: runs daily at 8:00 AM
	if _, err := s.cron.AddFunc(s.cfg.ReminderSpec, s.sendExpiryReminders); err != nil {
		return fmt.Errorf("failed to add reminder job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// dispatchDueMessages delivers every scheduled message whose time has come.
func (s *Scheduler) dispatchDueMessages() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dispatched, err := s.messaging.DispatchDue(ctx)
	if err != nil {
		s.logger.Error("failed to dispatch due messages", slog.Any("error", err))
		return
	}

	if dispatched > 0 {
		s.logger.Info("dispatched due messages", slog.Int("count", dispatched))
	}
}

// sendExpiryReminders texts every client whose vehicle subscription ends
// within the configured reminder window.
func (s *Scheduler) sendExpiryReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	s.logger.Info("starting expiry reminder run", slog.Int("days", s.cfg.ReminderDays))

	expiring, err := s.clients.Expiring(ctx, s.cfg.ReminderDays)
	if err != nil {
		s.logger.Error("failed to list expiring vehicles", slog.Any("error", err))
		return
	}

	sent := 0
	failed := 0

	for _, v := range expiring {
		if v.ClientPhone == "" {
			s.logger.Warn("skipping reminder, client has no phone number",
				slog.String("client_name", v.ClientName),
				slog.String("car_plate", v.CarPlate),
			)
			failed++
			continue
		}

		message := reminderText(v.PreferredLanguage, v.ClientName, v.CarPlate, v.SubscriptionEnd)
		if _, err := s.sender.Send(ctx, v.ClientPhone, message); err != nil {
			s.logger.Warn("failed to send expiry reminder",
				slog.String("client_phone", v.ClientPhone),
				slog.String("car_plate", v.CarPlate),
				slog.Any("error", err),
			)
			failed++
			continue
		}
		sent++
	}

	s.logger.Info("expiry reminder run completed",
		slog.Int("sent", sent),
		slog.Int("failed", failed),
	)
}

func reminderText(language, name, plate string, end time.Time) string {
	date := end.Format("02/01/2006")
	if language == "sw" {
		return fmt.Sprintf("Habari %s, usajili wa kifaa cha gari %s unaisha tarehe %s. Tafadhali wasiliana nasi kufanya upya.", name, plate, date)
	}
	return fmt.Sprintf("Dear %s, the tracking subscription for vehicle %s expires on %s. Please contact us to renew.", name, plate, date)
}
