// Package handler exposes message scheduling endpoints over HTTP.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reflexops/fleetadmin/internal/domain/messaging/service"
)

// MessagingHandler handles scheduled message requests
type MessagingHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

// NewMessagingHandler creates a new messaging handler
func NewMessagingHandler(svc *service.Service, logger *slog.Logger) *MessagingHandler {
	return &MessagingHandler{svc: svc, logger: logger}
}

// Register mounts the messaging routes on a router group
func (h *MessagingHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/messages", h.Schedule)
	rg.GET("/messages", h.List)
	rg.POST("/messages/dispatch", h.Dispatch)
}

type scheduleRequest struct {
	Message      string   `json:"message" binding:"required"`
	ScheduleDate string   `json:"schedule_date" binding:"required"`
	Recipients   []string `json:"recipients" binding:"required"`
	MessageType  string   `json:"message_type"`
}

// Schedule queues a message for one or more clients
func (h *MessagingHandler) Schedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scheduleDate, err := time.Parse(time.RFC3339, req.ScheduleDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule_date, expected RFC3339"})
		return
	}

	recipients := make([]uuid.UUID, 0, len(req.Recipients))
	for _, raw := range req.Recipients {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipient id: " + raw})
			return
		}
		recipients = append(recipients, id)
	}

	msg, err := h.svc.Schedule(c.Request.Context(), service.ScheduleInput{
		Message:      req.Message,
		ScheduleDate: scheduleDate,
		Recipients:   recipients,
		MessageType:  req.MessageType,
	})
	if err != nil {
		h.logger.Error("failed to schedule message", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to schedule message"})
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// List returns recent scheduled messages
func (h *MessagingHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	messages, err := h.svc.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list messages", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Dispatch manually triggers delivery of due messages
func (h *MessagingHandler) Dispatch(c *gin.Context) {
	dispatched, err := h.svc.DispatchDue(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to dispatch due messages", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to dispatch due messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dispatched": dispatched})
}
