// Package handler exposes client and vehicle endpoints over HTTP.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reflexops/fleetadmin/internal/domain/clients/service"
	"github.com/reflexops/fleetadmin/internal/domain/import/normalizer"
)

// ClientsHandler handles client and vehicle requests
type ClientsHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

// NewClientsHandler creates a new clients handler
func NewClientsHandler(svc *service.Service, logger *slog.Logger) *ClientsHandler {
	return &ClientsHandler{svc: svc, logger: logger}
}

// Register mounts the client routes on a router group
func (h *ClientsHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/clients", h.Create)
	rg.GET("/clients", h.List)
	rg.GET("/clients/search", h.Search)
	rg.GET("/vehicles/expiring", h.Expiring)
}

type createClientRequest struct {
	Name              string `json:"name" binding:"required"`
	PhoneNumber       string `json:"phone_number" binding:"required"`
	Bank              string `json:"bank"`
	ErgNumber         string `json:"erg_number"`
	PreferredLanguage string `json:"preferred_language"`
	CarPlate          string `json:"car_plate" binding:"required"`
	SubscriptionStart string `json:"subscription_start"`
	SubscriptionEnd   string `json:"subscription_end"`
}

// Create registers a client with their vehicle
func (h *ClientsHandler) Create(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.CreateClientInput{
		Name:              req.Name,
		PhoneNumber:       req.PhoneNumber,
		Bank:              req.Bank,
		ErgNumber:         req.ErgNumber,
		PreferredLanguage: req.PreferredLanguage,
		CarPlate:          req.CarPlate,
	}

	if req.SubscriptionStart != "" {
		start, err := time.Parse(normalizer.DateLayout, req.SubscriptionStart)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription_start, expected YYYY-MM-DD"})
			return
		}
		input.SubscriptionStart = start
	}
	if req.SubscriptionEnd != "" {
		end, err := time.Parse(normalizer.DateLayout, req.SubscriptionEnd)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription_end, expected YYYY-MM-DD"})
			return
		}
		input.SubscriptionEnd = end
	}

	client, vehicle, err := h.svc.CreateClient(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("failed to create client", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create client"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"client": client, "vehicle": vehicle})
}

// List returns all clients with their vehicles
func (h *ClientsHandler) List(c *gin.Context) {
	clients, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list clients", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list clients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

// Search finds clients by plate, phone or name
func (h *ClientsHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter is required"})
		return
	}

	by := service.SearchBy(c.DefaultQuery("by", string(service.SearchByPlate)))
	clients, err := h.svc.Search(c.Request.Context(), query, by)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

// Expiring lists vehicles whose subscription ends within the next N days
func (h *ClientsHandler) Expiring(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}

	vehicles, err := h.svc.Expiring(c.Request.Context(), days)
	if err != nil {
		h.logger.Error("failed to list expiring vehicles", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list expiring vehicles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}
