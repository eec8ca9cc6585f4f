// Package service provides scheduling and dispatch of client SMS messages.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reflexops/fleetadmin/internal/domain/messaging/repository"
)

// Sender delivers one SMS and returns the gateway message id.
type Sender interface {
	Send(ctx context.Context, to, message string) (string, error)
}

// PhoneDirectory resolves a client id to their phone number. The clients
// domain implements it.
type PhoneDirectory interface {
	ClientPhone(ctx context.Context, id uuid.UUID) (string, error)
}

// ScheduleInput carries a new message to queue.
type ScheduleInput struct {
	Message      string
	ScheduleDate time.Time
	Recipients   []uuid.UUID
	MessageType  string
}

// Service schedules messages and dispatches the due ones
type Service struct {
	repo   repository.MessageRepository
	phones PhoneDirectory
	sender Sender
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new messaging service
func NewService(repo repository.MessageRepository, phones PhoneDirectory, sender Sender, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		phones: phones,
		sender: sender,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the service clock, used for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Schedule queues a message. A schedule date at or before now dispatches the
// message immediately.
func (s *Service) Schedule(ctx context.Context, input ScheduleInput) (*repository.ScheduledMessage, error) {
	if input.Message == "" {
		return nil, fmt.Errorf("message body is required")
	}
	if len(input.Recipients) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	msg := &repository.ScheduledMessage{
		Message:      input.Message,
		ScheduleDate: input.ScheduleDate,
		ClientFilter: input.Recipients,
		MessageType:  input.MessageType,
		Status:       repository.StatusScheduled,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if !msg.ScheduleDate.After(s.now()) {
		if err := s.dispatchMessage(ctx, msg); err != nil {
			return nil, fmt.Errorf("failed to dispatch message: %w", err)
		}
		if err := s.repo.MarkSent(ctx, msg.ID); err != nil {
			return nil, err
		}
		msg.Status = repository.StatusSent
	}

	return msg, nil
}

// List returns recent messages, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]*repository.ScheduledMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListMessages(ctx, limit)
}

// DispatchDue sends every due scheduled message and marks it sent. One
// message failing leaves it scheduled for the next run and never blocks the
// rest. Returns the number of messages dispatched.
func (s *Service) DispatchDue(ctx context.Context) (int, error) {
	due, err := s.repo.DueMessages(ctx, s.now())
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, msg := range due {
		if err := s.dispatchMessage(ctx, msg); err != nil {
			s.logger.Warn("failed to dispatch scheduled message",
				slog.String("message_id", msg.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		if err := s.repo.MarkSent(ctx, msg.ID); err != nil {
			s.logger.Warn("failed to mark message sent",
				slog.String("message_id", msg.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

// dispatchMessage sends one message to every resolvable recipient. A
// recipient without a phone number is skipped; a gateway failure aborts the
// message so it stays scheduled.
func (s *Service) dispatchMessage(ctx context.Context, msg *repository.ScheduledMessage) error {
	for _, clientID := range msg.ClientFilter {
		phone, err := s.phones.ClientPhone(ctx, clientID)
		if err != nil {
			s.logger.Warn("skipping recipient without phone number",
				slog.String("message_id", msg.ID.String()),
				slog.String("client_id", clientID.String()),
				slog.Any("error", err),
			)
			continue
		}

		if _, err := s.sender.Send(ctx, phone, msg.Message); err != nil {
			return fmt.Errorf("failed to send to %s: %w", phone, err)
		}
	}
	return nil
}
