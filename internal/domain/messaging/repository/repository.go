// Package repository provides data access for scheduled SMS messages.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message lifecycle statuses
const (
	StatusScheduled = "scheduled"
	StatusSent      = "sent"
)

// Message types
const (
	TypeHoliday   = "holiday"
	TypePromotion = "promotion"
	TypeReminder  = "reminder"
)

// ScheduledMessage is an SMS queued for one or more clients.
type ScheduledMessage struct {
	ID           uuid.UUID   `json:"id"`
	Message      string      `json:"message"`
	ScheduleDate time.Time   `json:"schedule_date"`
	ClientFilter []uuid.UUID `json:"client_filter"`
	MessageType  string      `json:"message_type"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// MessageRepository defines the interface for scheduled message data access
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *ScheduledMessage) error
	ListMessages(ctx context.Context, limit int) ([]*ScheduledMessage, error)
	DueMessages(ctx context.Context, now time.Time) ([]*ScheduledMessage, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
}
